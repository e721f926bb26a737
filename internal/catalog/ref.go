package catalog

import (
	"bytes"
	"encoding/json"
)

// The backend sometimes populates references and sometimes sends the bare
// id. Each *Ref type accepts both shapes and always encodes as an object.

type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	type plain CategoryRef
	return decodeRef(data, &r.ID, (*plain)(r))
}

type ProductRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	type plain ProductRef
	return decodeRef(data, &r.ID, (*plain)(r))
}

type EmployeeRef struct {
	ID         string `json:"_id"`
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name,omitempty"`
}

func (r *EmployeeRef) UnmarshalJSON(data []byte) error {
	type plain EmployeeRef
	return decodeRef(data, &r.ID, (*plain)(r))
}

type BranchRef struct {
	ID      string `json:"_id"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	PhoneNo string `json:"phoneNo,omitempty"`
}

func (r *BranchRef) UnmarshalJSON(data []byte) error {
	type plain BranchRef
	return decodeRef(data, &r.ID, (*plain)(r))
}

type TableRef struct {
	ID          string `json:"_id"`
	TableNumber string `json:"tableNumber,omitempty"`
}

func (r *TableRef) UnmarshalJSON(data []byte) error {
	type plain TableRef
	return decodeRef(data, &r.ID, (*plain)(r))
}

func decodeRef(data []byte, id *string, obj any) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, id)
	}
	return json.Unmarshal(data, obj)
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hellocms/blackforest/internal/terminal"
)

type createTableCategoryRequest struct {
	Name       string `json:"name"`
	TableCount int    `json:"table_count"`
}

type tableCountRequest struct {
	TableCount int `json:"table_count"`
}

type assignmentRequest struct {
	CashierID string `json:"cashier_id"`
	ManagerID string `json:"manager_id"`
}

func (h *SessionHandler) CreateTableCategory(w http.ResponseWriter, r *http.Request) {
	var req createTableCategoryRequest
	h.act(w, r, "create table category", &req, func(t *terminal.Terminal) error {
		return t.CreateTableCategory(r.Context(), req.Name, req.TableCount)
	})
}

func (h *SessionHandler) UpdateTableCount(w http.ResponseWriter, r *http.Request) {
	var req tableCountRequest
	h.act(w, r, "update table count", &req, func(t *terminal.Terminal) error {
		return t.UpdateTableCount(r.Context(), chi.URLParam(r, "cid"), req.TableCount)
	})
}

// SaveAssignment records today's cashier and/or manager shown on receipts.
func (h *SessionHandler) SaveAssignment(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	h.act(w, r, "save assignment", &req, func(t *terminal.Terminal) error {
		_, err := t.SaveAssignment(r.Context(), req.CashierID, req.ManagerID)
		return err
	})
}

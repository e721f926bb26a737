package handler

import (
	"net/http"

	"github.com/hellocms/blackforest/internal/terminal"
)

type addItemRequest struct {
	ProductID string `json:"product_id"`
	UnitIndex *int   `json:"unit_index"`
}

type bmInStockRequest struct {
	Value *int `json:"value"`
}

// AddItem puts one unit of a product into the active cart. Without
// unit_index the unit last picked for the product is used.
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	h.act(w, r, "add item", &req, func(t *terminal.Terminal) error {
		if req.ProductID == "" {
			return errProductRequired
		}
		return t.Add(req.ProductID, req.UnitIndex)
	})
}

func (h *SessionHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.lineAction(w, r, "increment", nil, func(t *terminal.Terminal, pid string, unit int) error {
		return t.Increment(pid, unit)
	})
}

func (h *SessionHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.lineAction(w, r, "decrement", nil, func(t *terminal.Terminal, pid string, unit int) error {
		return t.Decrement(pid, unit)
	})
}

func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.lineAction(w, r, "remove item", nil, func(t *terminal.Terminal, pid string, unit int) error {
		return t.Remove(pid, unit)
	})
}

// SetBMInStock records the base-material stock of a line; a null or
// negative value is stored as 0.
func (h *SessionHandler) SetBMInStock(w http.ResponseWriter, r *http.Request) {
	var req bmInStockRequest
	h.lineAction(w, r, "set bminstock", &req, func(t *terminal.Terminal, pid string, unit int) error {
		return t.SetBMInStock(pid, unit, req.Value)
	})
}

func (h *SessionHandler) lineAction(w http.ResponseWriter, r *http.Request, op string, req interface{}, fn func(*terminal.Terminal, string, int) error) {
	pid, unit, ok := lineParams(w, r)
	if !ok {
		return
	}
	h.act(w, r, op, req, func(t *terminal.Terminal) error { return fn(t, pid, unit) })
}

package handler

import (
	"net/http"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/receipt"
	"github.com/hellocms/blackforest/internal/terminal"
)

type saveResponse struct {
	Order    backend.Order     `json:"order"`
	Snapshot terminal.Snapshot `json:"snapshot"`
}

type printResponse struct {
	Order        backend.Order     `json:"order"`
	Summary      cart.Summary      `json:"summary"`
	Phase        terminal.Phase    `json:"phase"`
	Inconsistent bool              `json:"inconsistent"`
	StockError   string            `json:"stock_error,omitempty"`
	RenderError  string            `json:"render_error,omitempty"`
	ReceiptHTML  string            `json:"receipt_html,omitempty"`
	Snapshot     terminal.Snapshot `json:"snapshot"`
}

// Save submits the active cart as a draft.
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	t, ok := h.session(w, r)
	if !ok {
		return
	}
	order, err := t.Save(r.Context())
	if err != nil {
		writeError(w, r, "save order", err)
		return
	}
	writeJSON(w, http.StatusCreated, saveResponse{Order: order, Snapshot: t.Snapshot()})
}

// SaveAndPrint submits the active cart as a finished order. Once the order
// exists the response is 201 even if stock reduction or rendering failed;
// those outcomes are reported in the body.
func (h *SessionHandler) SaveAndPrint(w http.ResponseWriter, r *http.Request) {
	t, ok := h.session(w, r)
	if !ok {
		return
	}
	sub, err := t.SaveAndPrint(r.Context())
	if err != nil {
		writeError(w, r, "save and print", err)
		return
	}

	resp := printResponse{
		Order:        sub.Order,
		Summary:      sub.Summary,
		Phase:        sub.Phase,
		Inconsistent: sub.Inconsistent(),
		ReceiptHTML:  string(sub.Receipt),
		Snapshot:     t.Snapshot(),
	}
	if sub.StockErr != nil {
		resp.StockError = sub.StockErr.Error()
	}
	if sub.RenderErr != nil {
		resp.RenderError = sub.RenderErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Receipt re-renders the last printed receipt as HTML (default) or PDF.
func (h *SessionHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	t, ok := h.session(w, r)
	if !ok {
		return
	}

	var (
		render      terminal.Renderer
		contentType string
	)
	switch r.URL.Query().Get("format") {
	case "", "html":
		render, contentType = receipt.HTML, "text/html; charset=utf-8"
	case "pdf":
		render, contentType = receipt.PDF, "application/pdf"
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be html or pdf"})
		return
	}

	out, err := t.LastReceipt(render)
	if err != nil {
		writeError(w, r, "render receipt", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

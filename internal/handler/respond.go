package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/hellocms/blackforest/internal/terminal"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Default().Errorw("failed to encode JSON response", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

var (
	errCategoryRequired = errors.New("category_id is required")
	errProductRequired  = errors.New("product_id is required")
)

var badRequest = []error{
	errCategoryRequired,
	errProductRequired,
	terminal.ErrEmptyCart,
	terminal.ErrNoPaymentMethod,
	terminal.ErrNoTable,
	terminal.ErrInvalidWaiterNumber,
	terminal.ErrUnknownWaiter,
	terminal.ErrTableCategoryInvalid,
	terminal.ErrAssignmentEmpty,
	terminal.ErrNotTableTab,
	terminal.ErrNotStockTab,
	terminal.ErrInvalidPaymentMethod,
	terminal.ErrInvalidProductType,
	cart.ErrInvalidTab,
	cart.ErrInvalidUnit,
	cart.ErrNoTable,
	cart.ErrTableOnTab,
}

var notFound = []error{
	terminal.ErrSessionNotFound,
	terminal.ErrTableNotFound,
	terminal.ErrProductNotFound,
	terminal.ErrNoReceipt,
	cart.ErrLineNotFound,
}

// writeError maps terminal, cart and backend errors to a status code.
// Only unexpected errors are logged.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		oos    *cart.OutOfStockError
		apiErr *backend.APIError
		urlErr *url.Error
	)

	switch {
	case errors.As(err, &oos):
		writeJSON(w, http.StatusConflict, map[string]interface{}{"error": oos.Error(), "available": oos.Available})
		return
	case errors.Is(err, terminal.ErrStaleResponse):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, backend.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "backend rejected the session token"})
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
	}

	log := logger.FromContext(r.Context())
	switch {
	case errors.As(err, &apiErr):
		log.Warnw("backend request failed", "op", op, "status", apiErr.Status, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": apiErr.Message})
	case errors.As(err, &urlErr):
		log.Errorw("backend unreachable", "op", op, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
	default:
		log.Errorw("ERROR: "+op, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

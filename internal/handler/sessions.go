package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/hellocms/blackforest/internal/middleware"
	"github.com/hellocms/blackforest/internal/terminal"
)

// SessionStore keeps live terminals.
// Satisfied by *terminal.Registry; narrow interface for testability.
type SessionStore interface {
	Add(t *terminal.Terminal)
	Get(branchID, id string) (*terminal.Terminal, error)
	Remove(branchID, id string) error
}

// BackendFactory binds the backend to the caller's bearer token.
type BackendFactory func(token string) terminal.Backend

// SessionOptions are shared by every terminal the handler creates.
type SessionOptions struct {
	Location *time.Location
	Policy   cart.Policy
	Notifier terminal.Notifier
	Logger   *logger.Logger
	Now      func() time.Time
}

// SessionHandler exposes terminal sessions over HTTP.
type SessionHandler struct {
	store   SessionStore
	backend BackendFactory
	opts    SessionOptions
}

func NewSessionHandler(store SessionStore, backend BackendFactory, opts SessionOptions) *SessionHandler {
	return &SessionHandler{store: store, backend: backend, opts: opts}
}

// RegisterRoutes registers session endpoints on the given Chi router.
// Expected to be mounted inside a branch-scoped subrouter: /branches/{bid}/sessions
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{sid}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)

		r.Post("/tab", h.SwitchTab)
		r.Post("/category", h.SelectCategory)
		r.Post("/product-type", h.FilterProductType)
		r.Post("/unit", h.SelectUnit)
		r.Post("/table", h.SelectTable)
		r.Post("/back/categories", h.BackToCategories)
		r.Post("/back/tables", h.BackToTables)
		r.Post("/payment-method", h.SetPaymentMethod)
		r.Post("/waiter", h.SetWaiter)
		r.Post("/delivery", h.SetDelivery)

		r.Post("/cart/items", h.AddItem)
		r.Post("/cart/items/{pid}/{unit}/increment", h.Increment)
		r.Post("/cart/items/{pid}/{unit}/decrement", h.Decrement)
		r.Delete("/cart/items/{pid}/{unit}", h.RemoveItem)
		r.Put("/cart/items/{pid}/{unit}/bminstock", h.SetBMInStock)

		r.Post("/save", h.Save)
		r.Post("/save-and-print", h.SaveAndPrint)
		r.Get("/receipt", h.Receipt)

		r.Post("/table-categories", h.CreateTableCategory)
		r.Put("/table-categories/{cid}", h.UpdateTableCount)
		r.Post("/assignment", h.SaveAssignment)
	})
}

// --- Request types ---

type tabRequest struct {
	Tab enum.Tab `json:"tab"`
}

type categoryRequest struct {
	CategoryID string `json:"category_id"`
}

type productTypeRequest struct {
	ProductType *enum.ProductType `json:"product_type"`
}

type unitRequest struct {
	ProductID string `json:"product_id"`
	UnitIndex int    `json:"unit_index"`
}

type tableRequest struct {
	TableID string `json:"table_id"`
}

type paymentMethodRequest struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
}

type waiterRequest struct {
	Number string `json:"number"`
}

type deliveryRequest struct {
	DeliveryAt *time.Time `json:"delivery_at"`
}

// --- Lifecycle ---

// Create opens a terminal for the branch and loads it from the backend.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	branchID := chi.URLParam(r, "bid")

	t := terminal.New(h.backend(middleware.TokenFromContext(r.Context())), terminal.Options{
		ID:       uuid.NewString(),
		BranchID: branchID,
		Owner:    claims.UserID,
		Location: h.opts.Location,
		Policy:   h.opts.Policy,
		Notifier: h.opts.Notifier,
		Logger:   h.opts.Logger,
		Now:      h.opts.Now,
	})
	if err := t.Load(r.Context()); err != nil {
		writeError(w, r, "load terminal", err)
		return
	}
	h.store.Add(t)

	logger.FromContext(r.Context()).Infow("terminal session opened",
		"session_id", t.ID(), "branch_id", branchID, "user", claims.DisplayName())
	writeJSON(w, http.StatusCreated, t.Snapshot())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.store.Remove(t.BranchID(), t.ID()); err != nil {
		writeError(w, r, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- View actions ---

func (h *SessionHandler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	h.act(w, r, "switch tab", &req, func(t *terminal.Terminal) error {
		return t.SwitchTab(req.Tab)
	})
}

func (h *SessionHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	h.act(w, r, "select category", &req, func(t *terminal.Terminal) error {
		if req.CategoryID == "" {
			return errCategoryRequired
		}
		return t.SelectCategory(r.Context(), req.CategoryID)
	})
}

func (h *SessionHandler) FilterProductType(w http.ResponseWriter, r *http.Request) {
	var req productTypeRequest
	h.act(w, r, "filter product type", &req, func(t *terminal.Terminal) error {
		return t.FilterProductType(req.ProductType)
	})
}

func (h *SessionHandler) SelectUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	h.act(w, r, "select unit", &req, func(t *terminal.Terminal) error {
		return t.SelectUnit(req.ProductID, req.UnitIndex)
	})
}

func (h *SessionHandler) SelectTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	h.act(w, r, "select table", &req, func(t *terminal.Terminal) error {
		return t.SelectTable(req.TableID)
	})
}

func (h *SessionHandler) BackToCategories(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "back to categories", nil, func(t *terminal.Terminal) error {
		t.BackToCategories()
		return nil
	})
}

func (h *SessionHandler) BackToTables(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, "back to tables", nil, func(t *terminal.Terminal) error {
		t.BackToTables()
		return nil
	})
}

func (h *SessionHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	h.act(w, r, "set payment method", &req, func(t *terminal.Terminal) error {
		return t.SetPaymentMethod(req.PaymentMethod)
	})
}

func (h *SessionHandler) SetWaiter(w http.ResponseWriter, r *http.Request) {
	var req waiterRequest
	h.act(w, r, "set waiter", &req, func(t *terminal.Terminal) error {
		return t.SetWaiterByNumber(req.Number)
	})
}

func (h *SessionHandler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	h.act(w, r, "set delivery", &req, func(t *terminal.Terminal) error {
		return t.SetDeliveryTime(req.DeliveryAt)
	})
}

// --- Helpers ---

// session resolves {bid}/{sid} for the caller. A terminal opened by another
// user answers 404 like a missing one: it carries that user's backend token.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*terminal.Terminal, bool) {
	t, err := h.store.Get(chi.URLParam(r, "bid"), chi.URLParam(r, "sid"))
	if err == nil {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil || claims.UserID != t.Owner() {
			err = terminal.ErrSessionNotFound
		}
	}
	if err != nil {
		writeError(w, r, "get session", err)
		return nil, false
	}
	return t, true
}

// act decodes req (when non-nil), runs fn on the session and answers with
// the fresh snapshot.
func (h *SessionHandler) act(w http.ResponseWriter, r *http.Request, op string, req interface{}, fn func(*terminal.Terminal) error) {
	t, ok := h.session(w, r)
	if !ok {
		return
	}
	if req != nil && !decodeBody(w, r, req) {
		return
	}
	if err := fn(t); err != nil {
		writeError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, t.Snapshot())
}

// lineParams reads {pid}/{unit} from the path.
func lineParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	unit, err := strconv.Atoi(chi.URLParam(r, "unit"))
	if err != nil || unit < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid unit index"})
		return "", 0, false
	}
	return chi.URLParam(r, "pid"), unit, true
}

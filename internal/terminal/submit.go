package terminal

import (
	"context"
	"fmt"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/hellocms/blackforest/internal/receipt"
)

// Phase records how far a printed submission got after the order existed.
type Phase string

const (
	PhaseOrderCreated         Phase = "order_created"
	PhaseStockReduced         Phase = "stock_reduced"
	PhaseStockReductionFailed Phase = "stock_reduction_failed"
	PhaseStockNotApplicable   Phase = "stock_not_applicable"
)

// Submission is the outcome of SaveAndPrint once the order was created.
// StockErr and RenderErr describe later steps that failed without undoing
// the order.
type Submission struct {
	Order     backend.Order `json:"order"`
	Summary   cart.Summary  `json:"summary"`
	Phase     Phase         `json:"phase"`
	StockErr  error         `json:"-"`
	RenderErr error         `json:"-"`
	Receipt   []byte        `json:"-"`
}

// Inconsistent reports an order whose stock reduction failed, leaving
// backend inventory out of step with the order.
func (s Submission) Inconsistent() bool {
	return s.Phase == PhaseStockReductionFailed
}

// OrderEvent is the payload of EventOrderCreated and EventStockReduceFailed.
type OrderEvent struct {
	SessionID string   `json:"session_id"`
	Tab       enum.Tab `json:"tab"`
	TableID   string   `json:"table_id,omitempty"`
	BillNo    string   `json:"bill_no"`
	OrderID   string   `json:"order_id"`
	Phase     Phase    `json:"phase,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// validate applies the pre-submission checks in the order the cashier sees them.
func (t *Terminal) validate() (cart.Key, []cart.Line, error) {
	lines := t.activeLines()
	if len(lines) == 0 {
		return cart.Key{}, nil, ErrEmptyCart
	}
	if t.view.PaymentMethod == "" {
		return cart.Key{}, nil, ErrNoPaymentMethod
	}
	k, err := t.activeKey()
	if err != nil {
		return cart.Key{}, nil, err
	}
	return k, lines, nil
}

func (t *Terminal) buildOrder(k cart.Key, lines []cart.Line, status enum.OrderStatus) backend.OrderRequest {
	totals := cart.Compute(lines)
	req := backend.OrderRequest{
		BranchID:      t.branchID,
		Tab:           k.Tab,
		Products:      make([]backend.OrderLine, len(lines)),
		PaymentMethod: t.view.PaymentMethod,
		Subtotal:      totals.Subtotal,
		TotalGST:      totals.TotalGST,
		TotalWithGST:  totals.TotalWithGST,
		TotalItems:    totals.UniqueItems,
		Status:        status,
		WaiterID:      t.view.WaiterID,
		TableID:       k.TableID,
	}
	for i, l := range lines {
		ol := backend.OrderLine{
			ProductID:    l.Product.ID,
			Name:         l.Product.Name,
			Quantity:     l.Count,
			ProductTotal: l.Total(),
			ProductGST:   l.GST(),
			BMInStock:    l.BMInStock,
		}
		if d, ok := l.Product.Detail(l.UnitIndex); ok {
			ol.Price = d.Price
			ol.Unit = d.Unit
			ol.GSTRate = d.GST
			if l.Product.IsCake() {
				ol.CakeType = d.CakeType
			}
		}
		req.Products[i] = ol
	}
	if k.Tab == enum.TabStock {
		at := t.deliveryTime().UTC()
		req.DeliveryDateTime = &at
	}
	return req
}

// Save submits the active cart as a draft order.
func (t *Terminal) Save(ctx context.Context) (backend.Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	k, lines, err := t.validate()
	if err != nil {
		return backend.Order{}, err
	}
	req := t.buildOrder(k, lines, enum.OrderStatusDraft)
	order, err := t.be.CreateOrder(ctx, req)
	if err != nil {
		return backend.Order{}, err
	}
	order = completeOrder(order, req)

	t.afterSubmit(ctx, k, order)
	t.publishOrder(k, order, "", nil)
	t.log.Infow("order saved", "bill_no", order.BillNo, "tab", k.Tab, "table_id", k.TableID)
	return order, nil
}

// SaveAndPrint submits the active cart as a finished order, then reduces
// branch stock for the stock-reducing tabs, renders the receipt and clears
// the cart, strictly in that order. Only a failed order creation is
// returned as an error; later failures are reported on the Submission.
func (t *Terminal) SaveAndPrint(ctx context.Context) (Submission, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	k, lines, err := t.validate()
	if err != nil {
		return Submission{}, err
	}
	req := t.buildOrder(k, lines, k.Tab.PrintedStatus())
	order, err := t.be.CreateOrder(ctx, req)
	if err != nil {
		return Submission{}, err
	}
	order = completeOrder(order, req)
	if order.Branch.Name == "" {
		order.Branch.Name = t.branch.Name
		order.Branch.Address = t.branch.Address
		order.Branch.PhoneNo = t.branch.PhoneNo
	}
	if order.Table != nil && order.Table.TableNumber == "" {
		if table, ok := catalog.FindTable(t.tableCategories, order.Table.ID); ok {
			order.Table.TableNumber = table.TableNumber
		}
	}

	sub := Submission{
		Order:   order,
		Summary: cart.Summarize(cart.Compute(lines), t.view.PaymentMethod, nil),
		Phase:   PhaseOrderCreated,
	}

	if k.Tab.ReducesStock() {
		if err := t.be.ReduceStock(ctx, backend.ReductionFor(order)); err != nil {
			sub.Phase = PhaseStockReductionFailed
			sub.StockErr = err
			t.log.Errorw("stock reduction failed after order creation",
				"bill_no", order.BillNo, "order_id", order.ID, "error", err)
		} else {
			sub.Phase = PhaseStockReduced
		}
	} else {
		sub.Phase = PhaseStockNotApplicable
	}

	doc := receipt.Document{
		Order:      order,
		Assignment: t.assignment,
		Summary:    sub.Summary,
		PrintedAt:  t.now(),
		Location:   t.loc,
	}
	t.lastReceipt = &doc
	sub.Receipt, sub.RenderErr = t.render(doc)
	if sub.RenderErr != nil {
		t.log.Warnw("receipt render failed", "bill_no", order.BillNo, "error", sub.RenderErr)
	}

	t.afterSubmit(ctx, k, order)
	t.publishOrder(k, order, sub.Phase, sub.StockErr)
	t.log.Infow("order printed", "bill_no", order.BillNo, "tab", k.Tab, "phase", sub.Phase)
	return sub, nil
}

// afterSubmit clears the submitted cart and the per-order fields. A table
// order also refreshes the tables and releases the table selection.
func (t *Terminal) afterSubmit(ctx context.Context, k cart.Key, order backend.Order) {
	t.book.Clear(k)
	t.resetWaiter()
	t.view.DeliveryAt = nil
	t.view.LastBillNo = order.BillNo

	if k.Tab != enum.TabTableOrder {
		return
	}
	delete(t.hydrated, k.TableID)
	t.view.TableID = ""
	t.bump()
	tables, err := t.be.TableCategories(ctx, t.branchID)
	if err != nil {
		t.log.Warnw("reload tables after submit failed", "error", err)
		return
	}
	t.tableCategories = tables
}

func (t *Terminal) publishOrder(k cart.Key, order backend.Order, phase Phase, stockErr error) {
	ev := OrderEvent{
		SessionID: t.id,
		Tab:       k.Tab,
		TableID:   k.TableID,
		BillNo:    order.BillNo,
		OrderID:   order.ID,
		Phase:     phase,
	}
	t.notifier.Publish(t.branchID, EventOrderCreated, ev)
	if stockErr != nil {
		ev.Error = stockErr.Error()
		t.notifier.Publish(t.branchID, EventStockReduceFailed, ev)
	}
	t.publishCart(k)
}

// completeOrder fills fields the backend left out of its response from the
// request that created the order.
func completeOrder(o backend.Order, req backend.OrderRequest) backend.Order {
	if o.Branch.ID == "" {
		o.Branch.ID = req.BranchID
	}
	if len(o.Products) == 0 {
		o.Products = req.Products
	}
	if o.Table == nil && req.TableID != "" {
		o.Table = &catalog.TableRef{ID: req.TableID}
	}
	if o.DeliveryDateTime == nil && req.DeliveryDateTime != nil {
		at := *req.DeliveryDateTime
		o.DeliveryDateTime = &at
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = req.PaymentMethod
	}
	return o
}

// LastReceipt re-renders the most recent receipt with render, e.g. as PDF.
func (t *Terminal) LastReceipt(render Renderer) ([]byte, error) {
	t.mu.Lock()
	doc := t.lastReceipt
	t.mu.Unlock()
	if doc == nil {
		return nil, ErrNoReceipt
	}
	if render == nil {
		render = t.render
	}
	out, err := render(*doc)
	if err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", doc.Order.BillNo, err)
	}
	return out, nil
}

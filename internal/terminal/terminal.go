// Package terminal runs one branch screen: which tab, table and category the
// cashier is looking at, the carts behind every tab and table, and the
// submission of a cart as a backend order.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/hellocms/blackforest/internal/logger"
	"github.com/hellocms/blackforest/internal/receipt"
)

// Errors returned by terminal operations.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoPaymentMethod      = errors.New("please select a payment method")
	ErrNoTable              = errors.New("please select a table")
	ErrStaleResponse        = errors.New("view changed while the request was in flight")
	ErrInvalidWaiterNumber  = errors.New("please enter a valid number")
	ErrUnknownWaiter        = errors.New("invalid waiter id")
	ErrTableCategoryInvalid = errors.New("table category needs a name and at least one table")
	ErrAssignmentEmpty      = errors.New("select at least one cashier or manager")
	ErrNotTableTab          = errors.New("tables are only available on the table order tab")
	ErrNotStockTab          = errors.New("delivery time only applies to the stock tab")
	ErrTableNotFound        = errors.New("table not found")
	ErrProductNotFound      = errors.New("product not in the current category")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidProductType   = errors.New("invalid product type")
	ErrNoReceipt            = errors.New("no receipt printed in this session")
)

// Backend is the subset of the backend client used by a terminal.
// Satisfied by *backend.Client and *backend.CachedClient; narrow interface for testability.
type Backend interface {
	Branch(ctx context.Context, branchID string) (catalog.Branch, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	Inventory(ctx context.Context, branchID string) ([]catalog.InventoryEntry, error)
	Employees(ctx context.Context, team string) ([]catalog.Employee, error)
	TableCategories(ctx context.Context, branchID string) ([]catalog.TableCategory, error)
	CreateTableCategory(ctx context.Context, branchID, name string, tableCount int) error
	UpdateTableCount(ctx context.Context, categoryID string, tableCount int) error
	TodayAssignment(ctx context.Context, branchID string) (catalog.Assignment, error)
	SaveAssignment(ctx context.Context, branchID, cashierID, managerID string) (catalog.Assignment, error)
	CreateOrder(ctx context.Context, req backend.OrderRequest) (backend.Order, error)
	ReduceStock(ctx context.Context, r backend.StockReduction) error
}

// Event types published to the branch room.
const (
	EventCartUpdated       = "cart.updated"
	EventOrderCreated      = "order.created"
	EventStockReduceFailed = "stock.reduce_failed"
)

// Notifier fans terminal events out to other screens of the branch.
// Satisfied by *ws.Hub.
type Notifier interface {
	Publish(branchID, eventType string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, string, any) {}

// Renderer turns a receipt document into the printable page.
type Renderer func(receipt.Document) ([]byte, error)

// Options configures a terminal. Zero values fall back to sensible defaults.
type Options struct {
	ID       string
	BranchID string
	Owner    string
	Location *time.Location
	Policy   cart.Policy
	Notifier Notifier
	Render   Renderer
	Logger   *logger.Logger
	Now      func() time.Time
}

// View is the screen's transient selection state. Carts live in the Book,
// not here, so resetting the view never touches cart contents.
type View struct {
	Tab           enum.Tab           `json:"tab"`
	TableID       string             `json:"table_id,omitempty"`
	CategoryID    string             `json:"category_id,omitempty"`
	ProductType   *enum.ProductType  `json:"product_type,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method,omitempty"`
	SelectedUnits map[string]int     `json:"selected_units"`
	WaiterID      string             `json:"waiter_id,omitempty"`
	WaiterNumber  string             `json:"waiter_number,omitempty"`
	WaiterName    string             `json:"waiter_name,omitempty"`
	LastBillNo    string             `json:"last_bill_no,omitempty"`
	DeliveryAt    *time.Time         `json:"delivery_at,omitempty"`
}

// Terminal is one branch screen. All methods are safe for concurrent use;
// actions are serialized by mu.
type Terminal struct {
	id       string
	branchID string
	owner    string
	be       Backend
	notifier Notifier
	render   Renderer
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time
	lastUsed atomic.Int64

	mu   sync.Mutex
	gen  uint64
	view View
	book *cart.Book

	branch          catalog.Branch
	inventory       catalog.Inventory
	categories      []catalog.Category
	products        []catalog.Product
	waiters         []catalog.Employee
	cashiers        []catalog.Employee
	managers        []catalog.Employee
	tableCategories []catalog.TableCategory
	assignment      catalog.Assignment

	// hydrated maps a table to the open order its cart was loaded from.
	hydrated    map[string]string
	lastReceipt *receipt.Document
}

// New creates a terminal on the billing tab. Call Load before use.
func New(be Backend, opts Options) *Terminal {
	t := &Terminal{
		id:       opts.ID,
		branchID: opts.BranchID,
		owner:    opts.Owner,
		be:       be,
		notifier: opts.Notifier,
		render:   opts.Render,
		log:      opts.Logger,
		loc:      opts.Location,
		now:      opts.Now,
		book:     cart.NewBook(opts.Policy),
		hydrated: make(map[string]string),
	}
	if t.notifier == nil {
		t.notifier = nopNotifier{}
	}
	if t.render == nil {
		t.render = receipt.HTML
	}
	if t.log == nil {
		t.log = logger.Nop()
	}
	t.log = t.log.WithComponent("terminal").With("session_id", t.id, "branch_id", t.branchID)
	if t.loc == nil {
		t.loc = time.UTC
	}
	if t.now == nil {
		t.now = time.Now
	}
	t.view = View{Tab: enum.TabBilling, SelectedUnits: map[string]int{}}
	t.touch()
	return t
}

func (t *Terminal) ID() string       { return t.id }
func (t *Terminal) BranchID() string { return t.branchID }
func (t *Terminal) Owner() string    { return t.owner }

// LastUsed is the time of the most recent action.
func (t *Terminal) LastUsed() time.Time {
	return time.Unix(0, t.lastUsed.Load())
}

func (t *Terminal) touch() {
	t.lastUsed.Store(t.now().UnixNano())
}

// Load fetches everything the screen needs up front: branch header,
// categories, the inventory snapshot, staff, tables and today's assignment.
// The inventory snapshot is not refreshed afterwards.
func (t *Terminal) Load(ctx context.Context) error {
	branch, err := t.be.Branch(ctx, t.branchID)
	if err != nil {
		return err
	}
	categories, err := t.be.ListCategories(ctx)
	if err != nil {
		return err
	}
	entries, err := t.be.Inventory(ctx, t.branchID)
	if err != nil {
		return err
	}
	staff := map[string][]catalog.Employee{}
	for _, team := range []string{enum.TeamWaiter, enum.TeamCashier, enum.TeamManager} {
		emps, err := t.be.Employees(ctx, team)
		if err != nil {
			return err
		}
		staff[team] = emps
	}
	tables, err := t.be.TableCategories(ctx, t.branchID)
	if err != nil {
		return err
	}
	assignment, err := t.be.TodayAssignment(ctx, t.branchID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.branch = branch
	t.categories = categories
	t.inventory = catalog.NewInventory(entries)
	t.waiters = staff[enum.TeamWaiter]
	t.cashiers = staff[enum.TeamCashier]
	t.managers = staff[enum.TeamManager]
	t.tableCategories = tables
	t.assignment = assignment
	t.touch()

	t.log.Infow("terminal loaded",
		"categories", len(categories),
		"inventory_entries", t.inventory.Len(),
		"table_categories", len(tables),
	)
	return nil
}

// activeKey is the cart addressed by the current view.
func (t *Terminal) activeKey() (cart.Key, error) {
	k, err := cart.NewKey(t.view.Tab, t.view.TableID)
	if errors.Is(err, cart.ErrNoTable) {
		return cart.Key{}, ErrNoTable
	}
	return k, err
}

func (t *Terminal) activeLines() []cart.Line {
	k, err := t.activeKey()
	if err != nil {
		return nil
	}
	return t.book.Lines(k)
}

func (t *Terminal) findProduct(productID string) (catalog.Product, error) {
	for _, p := range t.products {
		if p.ID == productID {
			return p, nil
		}
	}
	return catalog.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
}

func (t *Terminal) resetWaiter() {
	t.view.WaiterID = ""
	t.view.WaiterNumber = ""
	t.view.WaiterName = ""
}

func (t *Terminal) resetCategory() {
	t.view.CategoryID = ""
	t.view.ProductType = nil
	t.view.SelectedUnits = map[string]int{}
	t.products = nil
}

// bump invalidates in-flight fetches started under an earlier view.
func (t *Terminal) bump() uint64 {
	t.gen++
	return t.gen
}

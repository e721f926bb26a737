package terminal

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/hellocms/blackforest/internal/backend"
	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/hellocms/blackforest/internal/receipt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	products    []catalog.Product
	inventory   []catalog.InventoryEntry
	waiters     []catalog.Employee
	tables      []catalog.TableCategory
	assignment  catalog.Assignment
	orders      []backend.OrderRequest
	reductions  []backend.StockReduction
	billNo      int
	createErr   error
	reduceErr   error
	tablesErr   error
	productsErr error
	listHook    func()
	createdCats []string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeBackend) Branch(_ context.Context, id string) (catalog.Branch, error) {
	f.record("branch")
	return catalog.Branch{ID: id, Name: "Black Forest Main", Address: "12 Park Rd", PhoneNo: "98400"}, nil
}

func (f *fakeBackend) ListCategories(context.Context) ([]catalog.Category, error) {
	f.record("categories")
	return []catalog.Category{{ID: "cakes", Name: "Cakes"}, {ID: "snacks", Name: "Snacks"}}, nil
}

func (f *fakeBackend) ListProducts(context.Context) ([]catalog.Product, error) {
	f.record("products")
	if f.listHook != nil {
		f.listHook()
	}
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeBackend) Inventory(context.Context, string) ([]catalog.InventoryEntry, error) {
	f.record("inventory")
	return f.inventory, nil
}

func (f *fakeBackend) Employees(_ context.Context, team string) ([]catalog.Employee, error) {
	f.record("employees:" + team)
	if team == enum.TeamWaiter {
		return f.waiters, nil
	}
	return nil, nil
}

func (f *fakeBackend) TableCategories(context.Context, string) ([]catalog.TableCategory, error) {
	f.record("tables")
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	return f.tables, nil
}

func (f *fakeBackend) CreateTableCategory(_ context.Context, _ string, name string, _ int) error {
	f.record("create_table_category")
	f.createdCats = append(f.createdCats, name)
	return nil
}

func (f *fakeBackend) UpdateTableCount(context.Context, string, int) error {
	f.record("update_table_count")
	return nil
}

func (f *fakeBackend) TodayAssignment(context.Context, string) (catalog.Assignment, error) {
	f.record("assignment")
	return f.assignment, nil
}

func (f *fakeBackend) SaveAssignment(_ context.Context, _ string, cashierID, managerID string) (catalog.Assignment, error) {
	f.record("save_assignment")
	a := catalog.Assignment{}
	if cashierID != "" {
		a.Cashier = &catalog.EmployeeRef{ID: cashierID, Name: "Meena"}
	}
	if managerID != "" {
		a.Manager = &catalog.EmployeeRef{ID: managerID, Name: "Ravi"}
	}
	return a, nil
}

func (f *fakeBackend) CreateOrder(_ context.Context, req backend.OrderRequest) (backend.Order, error) {
	f.record("create_order")
	if f.createErr != nil {
		return backend.Order{}, f.createErr
	}
	f.orders = append(f.orders, req)
	f.billNo++
	return backend.Order{
		ID:       "order-" + strconv.Itoa(f.billNo),
		BillNo:   "BF-" + strconv.Itoa(1000+f.billNo),
		Branch:   catalog.BranchRef{ID: req.BranchID},
		Tab:      req.Tab,
		Products: req.Products,
		Status:   req.Status,
	}, nil
}

func (f *fakeBackend) ReduceStock(_ context.Context, r backend.StockReduction) error {
	f.record("reduce_stock")
	if f.reduceErr != nil {
		return f.reduceErr
	}
	f.reductions = append(f.reductions, r)
	return nil
}

type published struct {
	eventType string
	payload   any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []published
}

func (n *fakeNotifier) Publish(_ string, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, published{eventType, payload})
}

func (n *fakeNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.eventType
	}
	return out
}

var errBackendDown = errors.New("backend down")

func price(p, gst string) catalog.PriceDetail {
	return catalog.PriceDetail{
		Quantity: decimal.NewFromInt(1),
		Unit:     "pcs",
		Price:    decimal.RequireFromString(p),
		GST:      decimal.RequireFromString(gst),
	}
}

// fixture is a loaded terminal over a small bakery catalog.
type fixture struct {
	t        *Terminal
	be       *fakeBackend
	notifier *fakeNotifier
	renders  *[]string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cake := catalog.PriceDetail{Quantity: decimal.NewFromInt(1), Unit: "kg", Price: decimal.NewFromInt(800), GST: decimal.NewFromInt(5), CakeType: enum.CakeTypeFreshCream}
	half := catalog.PriceDetail{Quantity: decimal.RequireFromString("0.5"), Unit: "kg", Price: decimal.NewFromInt(450), GST: decimal.NewFromInt(5), CakeType: enum.CakeTypeButterCream}

	be := &fakeBackend{
		products: []catalog.Product{
			{ID: "bf", Name: "Black Forest", Category: catalog.CategoryRef{ID: "cakes"}, ProductType: enum.ProductTypeCake, PriceDetails: []catalog.PriceDetail{cake, half}},
			{ID: "cup", Name: "Cupcake", Category: catalog.CategoryRef{ID: "cakes"}, ProductType: enum.ProductTypeNonCake, PriceDetails: []catalog.PriceDetail{price("40", "12")}},
			{ID: "puff", Name: "Veg Puff", Category: catalog.CategoryRef{ID: "snacks"}, ProductType: enum.ProductTypeNonCake, PriceDetails: []catalog.PriceDetail{price("100", "5")}},
		},
		inventory: []catalog.InventoryEntry{
			{Product: catalog.ProductRef{ID: "bf"}, InStock: 2},
			{Product: catalog.ProductRef{ID: "cup"}, InStock: 0},
			{Product: catalog.ProductRef{ID: "puff"}, InStock: 10},
		},
		waiters: []catalog.Employee{{ID: "w7", EmployeeID: "E007", Name: "Kiran", Status: enum.EmployeeStatusActive}},
		tables: []catalog.TableCategory{{
			ID: "hall", Name: "Hall", TableCount: 3,
			Tables: []catalog.Table{
				{ID: "t1", TableNumber: "1", Status: enum.TableStatusFree},
				{ID: "t2", TableNumber: "2", Status: enum.TableStatusFree},
				{ID: "t3", TableNumber: "3", Status: enum.TableStatusOccupied, CurrentOrder: &catalog.TableOrder{
					ID: "open-1", BillNo: "BF-0900",
					Waiter: &catalog.EmployeeRef{ID: "w7", EmployeeID: "E007", Name: "Kiran"},
					Products: []catalog.TableOrderLine{
						{ProductID: "puff", Name: "Veg Puff", Quantity: 2, Price: decimal.NewFromInt(100), Unit: "pcs", GSTRate: decimal.NewFromInt(5)},
					},
				}},
			},
		}},
		assignment: catalog.Assignment{Cashier: &catalog.EmployeeRef{ID: "c1", Name: "Meena"}},
	}

	renders := &[]string{}
	notifier := &fakeNotifier{}
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	term := New(be, Options{
		ID:       "s1",
		BranchID: "B1",
		Location: loc,
		Notifier: notifier,
		Now:      func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
		Render: func(d receipt.Document) ([]byte, error) {
			be.record("render")
			*renders = append(*renders, d.Order.BillNo)
			return receipt.HTML(d)
		},
	})
	require.NoError(t, term.Load(context.Background()))
	return fixture{t: term, be: be, notifier: notifier, renders: renders}
}

func intp(v int) *int { return &v }

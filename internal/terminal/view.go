package terminal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
)

// SwitchTab moves to tab with a fresh view. Carts of every tab and table
// are left as they are.
func (t *Terminal) SwitchTab(tab enum.Tab) error {
	if !tab.Valid() {
		return cart.ErrInvalidTab
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.bump()

	t.view = View{Tab: tab, SelectedUnits: map[string]int{}}
	t.products = nil
	if tab != enum.TabTableOrder {
		t.book.Ensure(cart.Key{Tab: tab})
	}
	return nil
}

// SelectCategory loads the category's products. The fetch runs unlocked;
// if the view changes meanwhile the result is dropped with ErrStaleResponse.
// A failed fetch puts the previous category back.
func (t *Terminal) SelectCategory(ctx context.Context, categoryID string) error {
	t.mu.Lock()
	t.touch()
	gen := t.bump()
	prevCategory, prevUnits, prevProducts := t.view.CategoryID, t.view.SelectedUnits, t.products
	t.view.CategoryID = categoryID
	t.view.SelectedUnits = map[string]int{}
	t.products = nil
	t.mu.Unlock()

	all, err := t.be.ListProducts(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		if err != nil {
			return err
		}
		return ErrStaleResponse
	}
	if err != nil {
		t.view.CategoryID = prevCategory
		t.view.SelectedUnits = prevUnits
		t.products = prevProducts
		return err
	}
	t.products = catalog.FilterByCategory(all, categoryID)
	return nil
}

// FilterProductType narrows the loaded products; nil clears the filter.
func (t *Terminal) FilterProductType(pt *enum.ProductType) error {
	if pt != nil && !pt.Valid() {
		return ErrInvalidProductType
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	if pt != nil {
		v := *pt
		pt = &v
	}
	t.view.ProductType = pt
	return nil
}

// SelectTable makes tableID the active cart on the table order tab. An
// occupied table's cart is loaded from its open order the first time that
// order is seen; afterwards the in-memory cart wins.
func (t *Terminal) SelectTable(tableID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	if t.view.Tab != enum.TabTableOrder {
		return ErrNotTableTab
	}
	table, ok := catalog.FindTable(t.tableCategories, tableID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}

	t.bump()
	t.view.TableID = table.ID
	k := cart.Key{Tab: enum.TabTableOrder, TableID: table.ID}

	if table.Occupied() {
		order := table.CurrentOrder
		if t.hydrated[table.ID] != order.ID {
			lines := make([]cart.Line, 0, len(order.Products))
			for _, p := range order.Products {
				lines = append(lines, cart.Line{Product: p.AsProduct(), Count: p.Quantity, BMInStock: max(0, p.BMInStock)})
			}
			t.book.Replace(k, lines)
			t.hydrated[table.ID] = order.ID
		}
		t.resetWaiter()
		if order.Waiter != nil {
			t.view.WaiterID = order.Waiter.ID
			t.view.WaiterNumber = strings.TrimPrefix(order.Waiter.EmployeeID, "E")
			t.view.WaiterName = fmt.Sprintf("%s (%s)", order.Waiter.Name, order.Waiter.EmployeeID)
		}
		t.view.LastBillNo = order.BillNo
		return nil
	}

	t.book.Ensure(k)
	t.view.LastBillNo = ""
	t.resetWaiter()
	t.resetCategory()
	return nil
}

// BackToCategories clears category, filter and unit state; the tab and
// table stay selected.
func (t *Terminal) BackToCategories() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.bump()
	t.resetCategory()
	t.view.LastBillNo = ""
}

// BackToTables also drops the table selection and waiter.
func (t *Terminal) BackToTables() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.bump()
	t.resetCategory()
	t.view.LastBillNo = ""
	t.view.TableID = ""
	t.resetWaiter()
}

// SelectUnit records the unit variant the next add of productID uses.
func (t *Terminal) SelectUnit(productID string, unitIndex int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	p, err := t.findProduct(productID)
	if err != nil {
		return err
	}
	if _, ok := p.Detail(unitIndex); !ok {
		return cart.ErrInvalidUnit
	}
	t.view.SelectedUnits[productID] = unitIndex
	return nil
}

func (t *Terminal) SetPaymentMethod(m enum.PaymentMethod) error {
	if !m.Valid() {
		return ErrInvalidPaymentMethod
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()
	t.view.PaymentMethod = m
	return nil
}

// SetWaiterByNumber resolves a typed waiter number such as "7" to the
// active waiter with employee id E007. Empty input clears the waiter.
func (t *Terminal) SetWaiterByNumber(input string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	t.resetWaiter()
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	t.view.WaiterNumber = input

	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return ErrInvalidWaiterNumber
	}
	code := catalog.WaiterCode(n)
	for _, w := range t.waiters {
		if w.EmployeeID == code {
			t.view.WaiterID = w.ID
			t.view.WaiterName = fmt.Sprintf("%s (%s)", w.Name, code)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownWaiter, code)
}

// SetDeliveryTime sets the stock order's delivery time; nil restores the
// default of tomorrow 10:00.
func (t *Terminal) SetDeliveryTime(at *time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	if t.view.Tab != enum.TabStock {
		return ErrNotStockTab
	}
	if at != nil {
		v := at.In(t.loc)
		at = &v
	}
	t.view.DeliveryAt = at
	return nil
}

func (t *Terminal) deliveryTime() time.Time {
	if t.view.DeliveryAt != nil {
		return *t.view.DeliveryAt
	}
	return catalog.DefaultDeliveryTime(t.now(), t.loc)
}

// UnitOption is one entry of a product's unit picker.
type UnitOption struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	Tooltip string `json:"tooltip"`
}

// ProductCard is a product as shown in the grid.
type ProductCard struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	ProductType  enum.ProductType `json:"product_type"`
	IsVeg        bool             `json:"is_veg"`
	SelectedUnit int              `json:"selected_unit"`
	PriceLabel   string           `json:"price_label"`
	Units        []UnitOption     `json:"units"`
	Stock        cart.StockView   `json:"stock"`
}

// Snapshot is everything the client needs to draw the screen.
type Snapshot struct {
	ID              string                  `json:"id"`
	BranchID        string                  `json:"branch_id"`
	Branch          catalog.Branch          `json:"branch"`
	View            View                    `json:"view"`
	DeliveryAt      *time.Time              `json:"delivery_at,omitempty"`
	Categories      []catalog.Category      `json:"categories"`
	Products        []ProductCard           `json:"products"`
	Cart            []cart.LineView         `json:"cart"`
	Totals          cart.Totals             `json:"totals"`
	TableCategories []catalog.TableCategory `json:"table_categories"`
	Assignment      catalog.Assignment      `json:"assignment"`
	Cashiers        []catalog.Employee      `json:"cashiers"`
	Managers        []catalog.Employee      `json:"managers"`
}

// Snapshot projects the current state for display.
func (t *Terminal) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Terminal) snapshot() Snapshot {
	lines := t.activeLines()
	k, keyErr := t.activeKey()

	view := t.view
	view.SelectedUnits = make(map[string]int, len(t.view.SelectedUnits))
	for id, idx := range t.view.SelectedUnits {
		view.SelectedUnits[id] = idx
	}

	s := Snapshot{
		ID:              t.id,
		BranchID:        t.branchID,
		Branch:          t.branch,
		View:            view,
		Categories:      t.categories,
		Cart:            cart.Views(lines),
		Totals:          cart.Compute(lines),
		TableCategories: t.tableCategories,
		Assignment:      t.assignment,
		Cashiers:        t.cashiers,
		Managers:        t.managers,
	}
	if t.view.Tab == enum.TabStock {
		at := t.deliveryTime()
		s.DeliveryAt = &at
	}

	for _, p := range catalog.FilterByType(t.products, t.view.ProductType) {
		unit := t.view.SelectedUnits[p.ID]
		inCart := 0
		if keyErr == nil {
			inCart = t.book.CountOf(k, p.ID)
		}
		card := ProductCard{
			ID:           p.ID,
			Name:         p.Name,
			ProductType:  p.ProductType,
			IsVeg:        p.IsVeg,
			SelectedUnit: unit,
			PriceLabel:   catalog.PriceLabel(p, unit),
			Units:        make([]UnitOption, len(p.PriceDetails)),
			Stock:        cart.ProductStock(t.view.Tab, p, t.inventory, inCart),
		}
		for i, d := range p.PriceDetails {
			card.Units[i] = UnitOption{
				Index:   i,
				Label:   catalog.UnitLabel(d, p.ProductType),
				Tooltip: catalog.Tooltip(d, p.ProductType),
			}
		}
		s.Products = append(s.Products, card)
	}
	return s
}

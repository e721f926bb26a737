// Package cart is the branch terminal's cart engine: one ordered cart per
// tab, or per table on the table-order tab, with stock-aware admission,
// line mutations and GST totals.
package cart

import (
	"errors"
	"fmt"

	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
)

// Errors returned by the cart engine.
var (
	ErrInvalidTab   = errors.New("invalid tab")
	ErrNoTable      = errors.New("table order cart requires a table")
	ErrTableOnTab   = errors.New("only the table order tab has per-table carts")
	ErrLineNotFound = errors.New("cart line not found")
	ErrInvalidUnit  = errors.New("unit index out of range")
)

// OutOfStockError rejects an add that would exceed the branch snapshot.
type OutOfStockError struct {
	ProductName string
	Available   int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s is out of stock at this branch! (Stock: %d)", e.ProductName, e.Available)
}

// Key addresses one cart. TableID is set only on the table-order tab.
type Key struct {
	Tab     enum.Tab
	TableID string
}

// NewKey validates the tab/table combination.
func NewKey(tab enum.Tab, tableID string) (Key, error) {
	if !tab.Valid() {
		return Key{}, ErrInvalidTab
	}
	if tab == enum.TabTableOrder && tableID == "" {
		return Key{}, ErrNoTable
	}
	if tab != enum.TabTableOrder && tableID != "" {
		return Key{}, ErrTableOnTab
	}
	return Key{Tab: tab, TableID: tableID}, nil
}

func (k Key) String() string {
	if k.TableID != "" {
		return string(k.Tab) + "/" + k.TableID
	}
	return string(k.Tab)
}

// Line is one (product, unit variant) entry in a cart.
type Line struct {
	Product   catalog.Product
	UnitIndex int
	Count     int
	BMInStock int
}

func (l Line) matches(productID string, unitIndex int) bool {
	return l.Product.ID == productID && l.UnitIndex == unitIndex
}

// Policy tunes admission control.
type Policy struct {
	// RevalidateOnIncrement applies the add-time stock check to increments
	// too. Off by default: the add is the only gate.
	RevalidateOnIncrement bool
}

// Book holds every cart of one terminal. Mutations replace only the
// addressed sequence; other carts are never touched.
type Book struct {
	carts  map[Key][]Line
	policy Policy
}

func NewBook(policy Policy) *Book {
	return &Book{carts: make(map[Key][]Line), policy: policy}
}

// Lines returns a copy of the cart at k in insertion order.
func (b *Book) Lines(k Key) []Line {
	lines := b.carts[k]
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// Keys lists carts that currently hold at least one line.
func (b *Book) Keys() []Key {
	keys := make([]Key, 0, len(b.carts))
	for k, lines := range b.carts {
		if len(lines) > 0 {
			keys = append(keys, k)
		}
	}
	return keys
}

// CountOf sums counts of productID across all unit variants in the cart at k.
func (b *Book) CountOf(k Key, productID string) int {
	total := 0
	for _, l := range b.carts[k] {
		if l.Product.ID == productID {
			total += l.Count
		}
	}
	return total
}

// Admit applies the stock guard for tab without mutating anything.
func Admit(tab enum.Tab, inCart int, product catalog.Product, inv catalog.Inventory) error {
	if !tab.StockGuarded() {
		return nil
	}
	available := inv.Available(product.ID)
	if inCart >= available {
		return &OutOfStockError{ProductName: product.Name, Available: available}
	}
	return nil
}

// Add puts one unit of product's unitIndex variant into the cart at k.
func (b *Book) Add(k Key, product catalog.Product, unitIndex int, inv catalog.Inventory) error {
	if _, ok := product.Detail(unitIndex); !ok {
		return ErrInvalidUnit
	}
	if err := Admit(k.Tab, b.CountOf(k, product.ID), product, inv); err != nil {
		return err
	}

	lines := b.carts[k]
	for i, l := range lines {
		if l.matches(product.ID, unitIndex) {
			b.update(k, i, func(l *Line) { l.Count++ })
			return nil
		}
	}

	next := make([]Line, len(lines), len(lines)+1)
	copy(next, lines)
	b.carts[k] = append(next, Line{Product: product, UnitIndex: unitIndex, Count: 1})
	return nil
}

// Increment bumps an existing line. Stock is re-checked only under
// Policy.RevalidateOnIncrement.
func (b *Book) Increment(k Key, productID string, unitIndex int, inv catalog.Inventory) error {
	i, err := b.find(k, productID, unitIndex)
	if err != nil {
		return err
	}
	if b.policy.RevalidateOnIncrement {
		if err := Admit(k.Tab, b.CountOf(k, productID), b.carts[k][i].Product, inv); err != nil {
			return err
		}
	}
	b.update(k, i, func(l *Line) { l.Count++ })
	return nil
}

// Decrement lowers a line's count, removing the line when it reaches zero.
func (b *Book) Decrement(k Key, productID string, unitIndex int) error {
	i, err := b.find(k, productID, unitIndex)
	if err != nil {
		return err
	}
	if b.carts[k][i].Count <= 1 {
		b.removeAt(k, i)
		return nil
	}
	b.update(k, i, func(l *Line) { l.Count-- })
	return nil
}

// Remove drops a line regardless of its count.
func (b *Book) Remove(k Key, productID string, unitIndex int) error {
	i, err := b.find(k, productID, unitIndex)
	if err != nil {
		return err
	}
	b.removeAt(k, i)
	return nil
}

// SetBMInStock records the base-material stock annotation, clamped at zero.
// A nil value means zero.
func (b *Book) SetBMInStock(k Key, productID string, unitIndex int, value *int) error {
	i, err := b.find(k, productID, unitIndex)
	if err != nil {
		return err
	}
	v := 0
	if value != nil && *value > 0 {
		v = *value
	}
	b.update(k, i, func(l *Line) { l.BMInStock = v })
	return nil
}

// Replace installs lines as the cart at k, e.g. when resuming a table order.
// Lines with a non-positive count are dropped and duplicates are merged.
func (b *Book) Replace(k Key, lines []Line) {
	next := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Count <= 0 {
			continue
		}
		merged := false
		for i := range next {
			if next[i].matches(l.Product.ID, l.UnitIndex) {
				next[i].Count += l.Count
				merged = true
				break
			}
		}
		if !merged {
			next = append(next, l)
		}
	}
	b.carts[k] = next
}

// Ensure makes sure a (possibly empty) cart exists at k without touching an existing one.
func (b *Book) Ensure(k Key) {
	if _, ok := b.carts[k]; !ok {
		b.carts[k] = []Line{}
	}
}

// Clear empties the cart at k only.
func (b *Book) Clear(k Key) {
	b.carts[k] = []Line{}
}

func (b *Book) find(k Key, productID string, unitIndex int) (int, error) {
	for i, l := range b.carts[k] {
		if l.matches(productID, unitIndex) {
			return i, nil
		}
	}
	return -1, ErrLineNotFound
}

// update copies the sequence at k, applies fn to line i and swaps it in.
func (b *Book) update(k Key, i int, fn func(*Line)) {
	lines := b.carts[k]
	next := make([]Line, len(lines))
	copy(next, lines)
	fn(&next[i])
	b.carts[k] = next
}

func (b *Book) removeAt(k Key, i int) {
	lines := b.carts[k]
	next := make([]Line, 0, len(lines)-1)
	next = append(next, lines[:i]...)
	next = append(next, lines[i+1:]...)
	b.carts[k] = next
}

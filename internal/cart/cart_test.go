package cart

import (
	"errors"
	"testing"

	"github.com/hellocms/blackforest/internal/catalog"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id, name string, variants ...catalog.PriceDetail) catalog.Product {
	return catalog.Product{ID: id, Name: name, ProductType: enum.ProductTypeNonCake, PriceDetails: variants}
}

func variant(price, gst string) catalog.PriceDetail {
	return catalog.PriceDetail{Quantity: decimal.NewFromInt(1), Unit: "pcs", Price: dec(price), GST: dec(gst)}
}

func inventory(stock map[string]int) catalog.Inventory {
	entries := make([]catalog.InventoryEntry, 0, len(stock))
	for id, n := range stock {
		entries = append(entries, catalog.InventoryEntry{Product: catalog.ProductRef{ID: id}, InStock: n})
	}
	return catalog.NewInventory(entries)
}

func mustKey(t *testing.T, tab enum.Tab, table string) Key {
	t.Helper()
	k, err := NewKey(tab, table)
	require.NoError(t, err)
	return k
}

func TestNewKey(t *testing.T) {
	_, err := NewKey("lunch", "")
	assert.ErrorIs(t, err, ErrInvalidTab)

	_, err = NewKey(enum.TabTableOrder, "")
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = NewKey(enum.TabBilling, "t1")
	assert.ErrorIs(t, err, ErrTableOnTab)

	k := mustKey(t, enum.TabTableOrder, "t1")
	assert.Equal(t, "tableOrder/t1", k.String())
}

func TestAdd_MergesSameVariantAndKeepsOrder(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabOrder, "")
	puff := product("p1", "Puff", variant("25", "5"), variant("45", "5"))
	tea := product("p2", "Tea", variant("20", "5"))

	require.NoError(t, b.Add(k, puff, 0, catalog.Inventory{}))
	require.NoError(t, b.Add(k, tea, 0, catalog.Inventory{}))
	require.NoError(t, b.Add(k, puff, 0, catalog.Inventory{}))
	require.NoError(t, b.Add(k, puff, 1, catalog.Inventory{}))

	lines := b.Lines(k)
	require.Len(t, lines, 3)
	assert.Equal(t, "p1", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Count)
	assert.Equal(t, "p2", lines[1].Product.ID)
	assert.Equal(t, 1, lines[2].UnitIndex)
	assert.Equal(t, 0, lines[2].BMInStock)
	assert.Equal(t, 3, b.CountOf(k, "p1"))
}

func TestAdd_InvalidUnit(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabOrder, "")

	err := b.Add(k, product("p1", "Puff", variant("25", "5")), 3, catalog.Inventory{})
	assert.ErrorIs(t, err, ErrInvalidUnit)
	assert.Empty(t, b.Lines(k))
}

func TestAdd_StockGuardOnBillingAndTableOrder(t *testing.T) {
	inv := inventory(map[string]int{"p1": 2})
	puff := product("p1", "Puff", variant("25", "5"), variant("45", "5"))

	for _, k := range []Key{mustKey(t, enum.TabBilling, ""), mustKey(t, enum.TabTableOrder, "t1")} {
		b := NewBook(Policy{})
		require.NoError(t, b.Add(k, puff, 0, inv))
		// a different unit variant still counts against the same product stock
		require.NoError(t, b.Add(k, puff, 1, inv))

		err := b.Add(k, puff, 0, inv)
		var oos *OutOfStockError
		require.True(t, errors.As(err, &oos), "tab %s", k.Tab)
		assert.Equal(t, "Puff", oos.ProductName)
		assert.Equal(t, 2, oos.Available)
		assert.Equal(t, 2, b.CountOf(k, "p1"), "rejected add must not mutate")
	}
}

func TestAdd_MissingInventoryMeansZero(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabBilling, "")

	err := b.Add(k, product("p9", "Rusk", variant("10", "0")), 0, inventory(nil))
	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 0, oos.Available)
}

func TestAdd_UnguardedTabsNeverBlock(t *testing.T) {
	inv := inventory(map[string]int{"p1": 0})
	puff := product("p1", "Puff", variant("25", "5"))

	for _, tab := range []enum.Tab{enum.TabStock, enum.TabOrder, enum.TabLiveOrder, enum.TabCake} {
		b := NewBook(Policy{})
		k := mustKey(t, tab, "")
		for i := 0; i < 5; i++ {
			require.NoError(t, b.Add(k, puff, 0, inv), "tab %s", tab)
		}
		assert.Equal(t, 5, b.CountOf(k, "p1"))
	}
}

func TestAdd_GuardUsesOnlyActiveCart(t *testing.T) {
	inv := inventory(map[string]int{"p1": 1})
	puff := product("p1", "Puff", variant("25", "5"))
	b := NewBook(Policy{})

	t1 := mustKey(t, enum.TabTableOrder, "t1")
	t2 := mustKey(t, enum.TabTableOrder, "t2")
	require.NoError(t, b.Add(t1, puff, 0, inv))
	require.NoError(t, b.Add(t2, puff, 0, inv))
}

func TestIncrementDecrement(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabOrder, "")
	puff := product("p1", "Puff", variant("25", "5"))
	require.NoError(t, b.Add(k, puff, 0, catalog.Inventory{}))

	require.NoError(t, b.Increment(k, "p1", 0, catalog.Inventory{}))
	require.NoError(t, b.Increment(k, "p1", 0, catalog.Inventory{}))
	assert.Equal(t, 3, b.Lines(k)[0].Count)

	for i := 0; i < 2; i++ {
		require.NoError(t, b.Decrement(k, "p1", 0))
	}
	require.Len(t, b.Lines(k), 1)
	assert.Equal(t, 1, b.Lines(k)[0].Count)

	require.NoError(t, b.Decrement(k, "p1", 0))
	assert.Empty(t, b.Lines(k), "decrement from 1 removes the line")

	assert.ErrorIs(t, b.Decrement(k, "p1", 0), ErrLineNotFound)
	assert.ErrorIs(t, b.Increment(k, "p1", 0, catalog.Inventory{}), ErrLineNotFound)
}

func TestCountNeverNegative(t *testing.T) {
	ops := []bool{true, false, false, true, true, false, false, false, true, false}
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabCake, "")
	puff := product("p1", "Puff", variant("25", "5"))

	for _, inc := range ops {
		if len(b.Lines(k)) == 0 {
			require.NoError(t, b.Add(k, puff, 0, catalog.Inventory{}))
		}
		if inc {
			_ = b.Increment(k, "p1", 0, catalog.Inventory{})
		} else {
			_ = b.Decrement(k, "p1", 0)
		}
		for _, l := range b.Lines(k) {
			assert.Positive(t, l.Count)
		}
	}
}

func TestIncrement_PolicyRevalidation(t *testing.T) {
	inv := inventory(map[string]int{"p1": 1})
	puff := product("p1", "Puff", variant("25", "5"))

	lenient := NewBook(Policy{})
	k := mustKey(t, enum.TabBilling, "")
	require.NoError(t, lenient.Add(k, puff, 0, inv))
	require.NoError(t, lenient.Increment(k, "p1", 0, inv))
	assert.Equal(t, 2, lenient.CountOf(k, "p1"))

	strict := NewBook(Policy{RevalidateOnIncrement: true})
	require.NoError(t, strict.Add(k, puff, 0, inv))
	var oos *OutOfStockError
	assert.ErrorAs(t, strict.Increment(k, "p1", 0, inv), &oos)
	assert.Equal(t, 1, strict.CountOf(k, "p1"))
}

func TestRemoveAndBMInStock(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabStock, "")
	require.NoError(t, b.Add(k, product("p1", "Puff", variant("25", "5")), 0, catalog.Inventory{}))
	require.NoError(t, b.Add(k, product("p2", "Bun", variant("15", "5")), 0, catalog.Inventory{}))

	v := 7
	require.NoError(t, b.SetBMInStock(k, "p1", 0, &v))
	assert.Equal(t, 7, b.Lines(k)[0].BMInStock)

	neg := -3
	require.NoError(t, b.SetBMInStock(k, "p1", 0, &neg))
	assert.Equal(t, 0, b.Lines(k)[0].BMInStock)

	require.NoError(t, b.SetBMInStock(k, "p2", 0, nil))
	assert.Equal(t, 0, b.Lines(k)[1].BMInStock)

	require.NoError(t, b.Remove(k, "p1", 0))
	lines := b.Lines(k)
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].Product.ID)
	assert.ErrorIs(t, b.Remove(k, "p1", 0), ErrLineNotFound)
}

func TestMutationsLeaveOtherCartsUntouched(t *testing.T) {
	b := NewBook(Policy{})
	puff := product("p1", "Puff", variant("25", "5"))
	billing := mustKey(t, enum.TabBilling, "")
	order := mustKey(t, enum.TabOrder, "")
	table := mustKey(t, enum.TabTableOrder, "t1")

	require.NoError(t, b.Add(order, puff, 0, catalog.Inventory{}))
	require.NoError(t, b.Add(table, puff, 0, inventory(map[string]int{"p1": 9})))
	before := b.Lines(order)

	require.NoError(t, b.Add(billing, puff, 0, inventory(map[string]int{"p1": 9})))
	require.NoError(t, b.Increment(billing, "p1", 0, catalog.Inventory{}))
	b.Clear(billing)

	assert.Equal(t, before, b.Lines(order))
	assert.Equal(t, 1, b.CountOf(table, "p1"))
	assert.Empty(t, b.Lines(billing))
}

func TestLinesReturnsCopy(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabOrder, "")
	require.NoError(t, b.Add(k, product("p1", "Puff", variant("25", "5")), 0, catalog.Inventory{}))

	lines := b.Lines(k)
	lines[0].Count = 99
	assert.Equal(t, 1, b.Lines(k)[0].Count)
}

func TestReplaceMergesAndDropsEmpty(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabTableOrder, "t1")
	p := product("p1", "Tea", variant("20", "5"))

	b.Replace(k, []Line{{Product: p, Count: 2}, {Product: p, Count: 1}, {Product: product("p2", "Bun"), Count: 0}})
	lines := b.Lines(k)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Count)
}

func TestEnsureKeepsExisting(t *testing.T) {
	b := NewBook(Policy{})
	k := mustKey(t, enum.TabTableOrder, "t1")
	require.NoError(t, b.Add(k, product("p1", "Tea", variant("20", "5")), 0, inventory(map[string]int{"p1": 5})))

	b.Ensure(k)
	assert.Len(t, b.Lines(k), 1)
	assert.Len(t, b.Keys(), 1)
}

func TestProductStock(t *testing.T) {
	inv := inventory(map[string]int{"p1": 2, "p2": 0})
	p1 := product("p1", "Puff")
	p2 := product("p2", "Bun")

	assert.False(t, ProductStock(enum.TabBilling, p1, inv, 1).OutOfStock)
	assert.True(t, ProductStock(enum.TabBilling, p1, inv, 2).OutOfStock)
	assert.False(t, ProductStock(enum.TabOrder, p1, inv, 5).OutOfStock)
	assert.True(t, ProductStock(enum.TabOrder, p2, inv, 0).OutOfStock)
}

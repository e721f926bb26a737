package terminal

import (
	"github.com/hellocms/blackforest/internal/cart"
	"github.com/hellocms/blackforest/internal/enum"
)

// CartEvent is the payload of EventCartUpdated.
type CartEvent struct {
	SessionID string          `json:"session_id"`
	Tab       enum.Tab        `json:"tab"`
	TableID   string          `json:"table_id,omitempty"`
	Lines     []cart.LineView `json:"lines"`
	Totals    cart.Totals     `json:"totals"`
}

// Add puts one unit of productID into the active cart, using unitIndex or,
// when nil, the unit last picked for that product.
func (t *Terminal) Add(productID string, unitIndex *int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	k, err := t.activeKey()
	if err != nil {
		return err
	}
	p, err := t.findProduct(productID)
	if err != nil {
		return err
	}
	unit := t.view.SelectedUnits[productID]
	if unitIndex != nil {
		unit = *unitIndex
	}
	if err := t.book.Add(k, p, unit, t.inventory); err != nil {
		return err
	}
	t.publishCart(k)
	return nil
}

func (t *Terminal) Increment(productID string, unitIndex int) error {
	return t.mutate(false, func(k cart.Key) error {
		return t.book.Increment(k, productID, unitIndex, t.inventory)
	})
}

func (t *Terminal) Decrement(productID string, unitIndex int) error {
	return t.mutate(false, func(k cart.Key) error {
		return t.book.Decrement(k, productID, unitIndex)
	})
}

// Remove drops a line and forgets the last bill number.
func (t *Terminal) Remove(productID string, unitIndex int) error {
	return t.mutate(true, func(k cart.Key) error {
		return t.book.Remove(k, productID, unitIndex)
	})
}

// SetBMInStock records the base-material stock of a line and forgets the
// last bill number.
func (t *Terminal) SetBMInStock(productID string, unitIndex int, value *int) error {
	return t.mutate(true, func(k cart.Key) error {
		return t.book.SetBMInStock(k, productID, unitIndex, value)
	})
}

func (t *Terminal) mutate(clearBill bool, fn func(cart.Key) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.touch()

	k, err := t.activeKey()
	if err != nil {
		return err
	}
	if err := fn(k); err != nil {
		return err
	}
	if clearBill {
		t.view.LastBillNo = ""
	}
	t.publishCart(k)
	return nil
}

func (t *Terminal) publishCart(k cart.Key) {
	lines := t.book.Lines(k)
	t.notifier.Publish(t.branchID, EventCartUpdated, CartEvent{
		SessionID: t.id,
		Tab:       k.Tab,
		TableID:   k.TableID,
		Lines:     cart.Views(lines),
		Totals:    cart.Compute(lines),
	})
}

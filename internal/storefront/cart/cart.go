package cart

import (
	"fmt"
	"math"
	"strings"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

// Per-line limits. They keep cent totals well inside int64.
const (
	MaxQuantity = 10_000
	MaxPrice    = 1_000_000.0
)

// Cart is an ordered list of line items with unique identity keys.
// Every method returns a new Cart; the receiver is never modified.
type Cart struct {
	items []model.LineItem
}

// Totals are derived on demand and never stored.
type Totals struct {
	Count      int
	TotalCents int64
}

// Total returns the grand total as a decimal amount.
func (t Totals) Total() float64 {
	return model.FromCents(t.TotalCents)
}

// Restore builds a cart from persisted line items. Entries with an empty name,
// a price outside [0, MaxPrice], or a quantity outside [1, MaxQuantity] are
// dropped and duplicate keys are merged. A duplicate that would push its line
// past MaxQuantity is dropped too. dropped counts the discarded entries.
func Restore(items []model.LineItem) (c Cart, dropped int) {
	for _, it := range items {
		if validateItem(it) != nil || checkQuantity(it.Quantity) != nil {
			dropped++
			continue
		}
		next, err := c.merge(it, it.Quantity)
		if err != nil {
			dropped++
			continue
		}
		c = next
	}
	return c, dropped
}

// Items returns a copy of the line items in display order.
func (c Cart) Items() []model.LineItem {
	out := make([]model.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int { return len(c.items) }

func (c Cart) IsEmpty() bool { return len(c.items) == 0 }

// Equal reports whether both carts hold the same lines in the same order.
func (c Cart) Equal(other Cart) bool {
	if len(c.items) != len(other.items) {
		return false
	}
	for i := range c.items {
		a, b := c.items[i], other.items[i]
		if a.Key() != b.Key() || a.Quantity != b.Quantity {
			return false
		}
	}
	return true
}

// Add merges qty into the line with the same (name, price) or appends a new line.
func (c Cart) Add(item model.LineItem, qty int) (Cart, error) {
	if err := checkQuantity(qty); err != nil {
		return c, err
	}
	if err := validateItem(item); err != nil {
		return c, err
	}
	return c.merge(item, qty)
}

// Remove deletes the line at index.
func (c Cart) Remove(index int) (Cart, error) {
	if err := c.checkIndex(index); err != nil {
		return c, err
	}
	items := make([]model.LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:index]...)
	items = append(items, c.items[index+1:]...)
	return Cart{items: items}, nil
}

// UpdateQuantity adds delta to the line at index and removes the line when the
// result drops below 1. Raising a line past MaxQuantity is rejected.
func (c Cart) UpdateQuantity(index, delta int) (Cart, error) {
	if err := c.checkIndex(index); err != nil {
		return c, err
	}
	cur := c.items[index].Quantity
	if delta > MaxQuantity-cur {
		return c, errx.Validationf("quantity of %q cannot exceed %d", c.items[index].Name, MaxQuantity)
	}
	next := cur + delta
	if next < 1 {
		return c.Remove(index)
	}
	items := c.Items()
	items[index].Quantity = next
	return Cart{items: items}, nil
}

// Totals sums price × quantity and quantities across every line.
func (c Cart) Totals() Totals {
	var t Totals
	for _, it := range c.items {
		t.Count += it.Quantity
		t.TotalCents += it.LineTotalCents()
	}
	return t
}

// Total is shorthand for Totals().Total().
func (c Cart) Total() float64 {
	return c.Totals().Total()
}

// merge expects qty in [1, MaxQuantity].
func (c Cart) merge(item model.LineItem, qty int) (Cart, error) {
	items := c.Items()
	item.Name = strings.TrimSpace(item.Name)
	key := item.Key()
	for i := range items {
		if items[i].Key() == key {
			if qty > MaxQuantity-items[i].Quantity {
				return c, errx.Validationf("quantity of %q cannot exceed %d", item.Name, MaxQuantity)
			}
			items[i].Quantity += qty
			return Cart{items: items}, nil
		}
	}
	item.Quantity = qty
	return Cart{items: append(items, item)}, nil
}

// AddedNotice is the transient message shown after item joins the cart. It
// names the line the way the cart stores it.
func AddedNotice(item model.LineItem) string {
	return fmt.Sprintf("Added %s to cart", strings.TrimSpace(item.Name))
}

func (c Cart) checkIndex(index int) error {
	if index < 0 || index >= len(c.items) {
		if len(c.items) == 0 {
			return errx.Validation("the cart is empty")
		}
		return errx.Validationf("no cart line at position %d (cart has %d)", index+1, len(c.items))
	}
	return nil
}

func validateItem(item model.LineItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return errx.Validation("item name is required")
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return errx.Validation(fmt.Sprintf("price of %q must be a non-negative amount", item.Name))
	}
	if item.Price > MaxPrice {
		return errx.Validationf("price of %q cannot exceed %s", item.Name, model.FormatMoney(model.ToCents(MaxPrice)))
	}
	return nil
}

func checkQuantity(qty int) error {
	if qty < 1 {
		return errx.Validationf("quantity must be at least 1, got %d", qty)
	}
	if qty > MaxQuantity {
		return errx.Validationf("quantity cannot exceed %d, got %d", MaxQuantity, qty)
	}
	return nil
}

package model

import (
	"context"
	"fmt"
	"math"
)

// LineItem is one distinct (name, price) pairing in the cart plus its quantity.
// The JSON shape matches what the storefront keeps in local storage.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ItemKey is the identity of a line item. Prices are compared in cents so that
// 49.99 read back from JSON matches 49.99 typed by hand.
type ItemKey struct {
	Name       string
	PriceCents int64
}

// Key returns the identity key of the line item.
func (li LineItem) Key() ItemKey {
	return ItemKey{Name: li.Name, PriceCents: li.PriceCents()}
}

// PriceCents returns the unit price rounded to whole cents.
func (li LineItem) PriceCents() int64 {
	return ToCents(li.Price)
}

// LineTotalCents returns price × quantity in cents.
func (li LineItem) LineTotalCents() int64 {
	return li.PriceCents() * int64(li.Quantity)
}

// ToCents converts a decimal amount to whole cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts whole cents back to a decimal amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

type CartRepository interface {
	// LoadCart returns the persisted line items. A missing key yields (nil, nil).
	LoadCart(ctx context.Context) ([]LineItem, error)

	// SaveCart replaces the persisted cart with items.
	SaveCart(ctx context.Context, items []LineItem) error

	// ClearCart removes the persisted cart.
	ClearCart(ctx context.Context) error
}

// FormatMoney renders cents as a dollar amount, e.g. 14997 -> "$149.97".
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

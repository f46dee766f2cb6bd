package checkout

import (
	"fmt"
	"strings"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
)

// OrderSummary builds the plain-text order blob sent to the form endpoint and
// the confirmation email.
func OrderSummary(orderID string, c cart.Cart, method model.PaymentMethod) string {
	s := c.Summary()

	var b strings.Builder
	if orderID != "" {
		fmt.Fprintf(&b, "Order %s\n", orderID)
	}
	for _, l := range s.Lines {
		fmt.Fprintf(&b, "%d. %s x%d @ %s = %s\n",
			l.Position, l.Name, l.Quantity, model.FormatMoney(l.UnitCents), model.FormatMoney(l.LineTotalCents))
	}
	fmt.Fprintf(&b, "Items: %d\n", s.Count)
	fmt.Fprintf(&b, "Total: %s\n", model.FormatMoney(s.TotalCents))
	if method != "" {
		fmt.Fprintf(&b, "Payment: %s\n", method)
	}
	return b.String()
}

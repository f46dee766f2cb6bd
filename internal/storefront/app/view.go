package app

import (
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/wizard"
)

// View is the render projection of State.
type View struct {
	Cart           cart.Summary
	Wizard         wizard.View
	Method         model.PaymentMethod
	CanCheckout    bool
	Notice         string
	QuoteRequested bool
}

// Render projects s. Rendering the same state twice gives the same view.
func Render(s State) View {
	return View{
		Cart:           s.Cart.Summary(),
		Wizard:         s.Wizard.View(),
		Method:         s.Method,
		CanCheckout:    !s.Cart.IsEmpty() && s.Method != "",
		Notice:         s.Notice,
		QuoteRequested: s.QuoteRequested,
	}
}

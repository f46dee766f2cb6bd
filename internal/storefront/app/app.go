package app

import (
	"context"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/checkout"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// Checkouter submits a checkout attempt.
type Checkouter interface {
	Submit(ctx context.Context, req checkout.Request) (model.Receipt, error)
}

// App owns the session state and applies actions to it. It has a single
// owner, the command or event loop driving it.
type App struct {
	state    State
	store    *cart.Store
	checkout Checkouter
}

// New builds an App over a cart store. checkout may be nil when the session
// never checks out.
func New(store *cart.Store, co Checkouter) *App {
	return &App{store: store, checkout: co, state: Initial(cart.Cart{})}
}

// Start restores the persisted cart.
func (a *App) Start(ctx context.Context) error {
	if err := a.store.Load(ctx); err != nil {
		return err
	}
	a.state = Initial(a.store.Cart())
	return nil
}

func (a *App) State() State { return a.state }

func (a *App) View() View { return Render(a.state) }

// Dispatch reduces action into the state. Cart changes are persisted before
// the new state is taken; an emptied cart removes the stored document. Any
// failure leaves the state as it was.
func (a *App) Dispatch(ctx context.Context, action Action) (View, error) {
	next, err := Reduce(a.state, action)
	if err != nil {
		return Render(a.state), err
	}
	if !next.Cart.Equal(a.state.Cart) {
		persist := func() error { return a.store.Commit(ctx, next.Cart) }
		if next.Cart.IsEmpty() {
			persist = func() error { return a.store.Clear(ctx) }
		}
		if err := persist(); err != nil {
			return Render(a.state), err
		}
	}
	a.state = next
	return Render(a.state), nil
}

// Checkout submits the cart with the selected payment method and clears the
// cart once the order is accepted.
func (a *App) Checkout(ctx context.Context, customer model.Customer, card model.Card) (model.Receipt, error) {
	if a.checkout == nil {
		return model.Receipt{}, errx.Validation("checkout is not available")
	}
	receipt, err := a.checkout.Submit(ctx, checkout.Request{
		Cart:     a.state.Cart,
		Method:   a.state.Method,
		Customer: customer,
		Card:     card,
	})
	if err != nil {
		return model.Receipt{}, err
	}

	if _, err := a.Dispatch(ctx, ClearCart{}); err != nil {
		logx.Error().Err(err).Str("order_id", receipt.OrderID).Msg("failed to clear cart after checkout")
	}
	a.state.Method = ""
	return receipt, nil
}

package app

import (
	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/wizard"
)

// State is everything the storefront shows. It is a value; transitions
// return a new State and never modify the old one.
type State struct {
	Cart   cart.Cart
	Wizard wizard.Wizard
	Method model.PaymentMethod

	// Notice is the transient message of the last action, if any.
	Notice string
	// QuoteRequested is set when Next was pressed on the last wizard step.
	QuoteRequested bool
}

// Initial is the state of a fresh session with the restored cart.
func Initial(c cart.Cart) State {
	return State{Cart: c, Wizard: wizard.New()}
}

// Action is a user interaction.
type Action interface {
	apply(State) (State, error)
}

// Reduce applies a to s. It has no side effects; on error s is returned
// unchanged.
func Reduce(s State, a Action) (State, error) {
	next := s
	next.Notice = ""
	next.QuoteRequested = false

	next, err := a.apply(next)
	if err != nil {
		return s, err
	}
	return next, nil
}

type AddToCart struct {
	Item     model.LineItem
	Quantity int
}

func (a AddToCart) apply(s State) (State, error) {
	c, err := s.Cart.Add(a.Item, a.Quantity)
	if err != nil {
		return s, err
	}
	s.Cart = c
	s.Notice = cart.AddedNotice(a.Item)
	return s, nil
}

type RemoveLine struct {
	Index int
}

func (a RemoveLine) apply(s State) (State, error) {
	c, err := s.Cart.Remove(a.Index)
	if err != nil {
		return s, err
	}
	s.Cart = c
	return s, nil
}

// ChangeQuantity adds Delta to a line; a line dropping below one is removed.
type ChangeQuantity struct {
	Index int
	Delta int
}

func (a ChangeQuantity) apply(s State) (State, error) {
	c, err := s.Cart.UpdateQuantity(a.Index, a.Delta)
	if err != nil {
		return s, err
	}
	s.Cart = c
	return s, nil
}

type ClearCart struct{}

func (ClearCart) apply(s State) (State, error) {
	s.Cart = cart.Cart{}
	return s, nil
}

type SelectPayment struct {
	Method string
}

func (a SelectPayment) apply(s State) (State, error) {
	m, ok := model.ParsePaymentMethod(a.Method)
	if !ok {
		return s, errx.Validationf("unknown payment method %q", a.Method)
	}
	s.Method = m
	return s, nil
}

type WizardNext struct{}

func (WizardNext) apply(s State) (State, error) {
	w, t := s.Wizard.Next()
	s.Wizard = w
	s.QuoteRequested = t == wizard.TransitionQuote
	return s, nil
}

type WizardPrev struct{}

func (WizardPrev) apply(s State) (State, error) {
	s.Wizard, _ = s.Wizard.Prev()
	return s, nil
}

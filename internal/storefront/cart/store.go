package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/repo"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// Store owns the live cart and keeps it persisted. Every mutation is applied to
// a copy, written through the repository and only then made current, so a
// failed write leaves the previous cart in place. A Store has a single owner
// and is not safe for concurrent use.
type Store struct {
	repo     model.CartRepository
	cart     Cart
	notify   func(message string)
	onRender func(Summary)
}

type Option func(*Store)

// WithNotifier receives the transient "added to cart" messages.
func WithNotifier(fn func(message string)) Option {
	return func(s *Store) { s.notify = fn }
}

// WithRenderer is called with a fresh summary after every committed change.
func WithRenderer(fn func(Summary)) Option {
	return func(s *Store) { s.onRender = fn }
}

func NewStore(r model.CartRepository, opts ...Option) *Store {
	s := &Store{repo: r}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the persisted cart. An absent or malformed document yields an
// empty cart; only storage failures are returned.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.repo.LoadCart(ctx)
	if err != nil {
		if !errors.Is(err, repo.ErrCorrupt) {
			return fmt.Errorf("load cart: %w", err)
		}
		logx.Warn().Err(err).Msg("persisted cart is malformed, starting with an empty cart")
		items = nil
	}

	restored, dropped := Restore(items)
	if dropped > 0 {
		logx.Warn().Int("dropped", dropped).Msg("discarded invalid persisted cart lines")
	}
	s.cart = restored
	s.render()
	return nil
}

// Cart returns the current cart value.
func (s *Store) Cart() Cart { return s.cart }

func (s *Store) Totals() Totals { return s.cart.Totals() }

func (s *Store) Add(ctx context.Context, item model.LineItem, qty int) error {
	next, err := s.cart.Add(item, qty)
	if err != nil {
		return err
	}
	if err := s.Commit(ctx, next); err != nil {
		return err
	}
	s.emit(AddedNotice(item))
	return nil
}

func (s *Store) Remove(ctx context.Context, index int) error {
	next, err := s.cart.Remove(index)
	if err != nil {
		return err
	}
	return s.Commit(ctx, next)
}

func (s *Store) UpdateQuantity(ctx context.Context, index, delta int) error {
	next, err := s.cart.UpdateQuantity(index, delta)
	if err != nil {
		return err
	}
	return s.Commit(ctx, next)
}

// Clear empties the cart and removes the persisted document.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.ClearCart(ctx); err != nil {
		logx.Error().Err(err).Msg("failed to clear persisted cart")
		return fmt.Errorf("clear cart: %w", err)
	}
	s.cart = Cart{}
	s.render()
	return nil
}

// Commit persists next and makes it the current cart.
func (s *Store) Commit(ctx context.Context, next Cart) error {
	if err := s.repo.SaveCart(ctx, next.Items()); err != nil {
		logx.Error().Err(err).Int("lines", next.Len()).Msg("failed to persist cart")
		return fmt.Errorf("persist cart: %w", err)
	}
	s.cart = next
	logx.Debug().Int("lines", next.Len()).Int64("total_cents", next.Totals().TotalCents).Msg("cart committed")
	s.render()
	return nil
}

func (s *Store) emit(message string) {
	if s.notify != nil {
		s.notify(message)
	}
}

func (s *Store) render() {
	if s.onRender != nil {
		s.onRender(s.cart.Summary())
	}
}

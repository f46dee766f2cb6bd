package checkout

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/outbound"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

type nowFunc func() time.Time

// FormSubmitter posts the checkout form.
type FormSubmitter interface {
	Submit(ctx context.Context, fields []outbound.Field) (outbound.FormResponse, error)
}

// EmailSender sends the confirmation email.
type EmailSender interface {
	Configured() bool
	Send(ctx context.Context, params map[string]string) error
}

// Request is one checkout attempt.
type Request struct {
	Cart     cart.Cart
	Method   model.PaymentMethod
	Customer model.Customer
	// Card is only forwarded for model.PaymentCard.
	Card model.Card
}

// Service runs checkout attempts, one at a time.
type Service struct {
	runnable compose.Runnable[*attempt, model.Receipt]
	inFlight atomic.Bool
}

type Option func(*GraphConfig)

// WithIDGenerator replaces the order id generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *GraphConfig) { c.NewID = fn }
}

// WithClock replaces the receipt clock.
func WithClock(fn func() time.Time) Option {
	return func(c *GraphConfig) { c.Now = fn }
}

// NewService compiles the checkout graph. email may be nil.
func NewService(ctx context.Context, form FormSubmitter, email EmailSender, opts ...Option) (*Service, error) {
	cfg := &GraphConfig{
		Form:  form,
		Email: email,
		NewID: uuid.NewString,
		Now:   time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Email == nil {
		cfg.Email = disabledEmail{}
	}

	runnable, err := BuildGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Service{runnable: runnable}, nil
}

// Busy reports whether a submission is in flight.
func (s *Service) Busy() bool { return s.inFlight.Load() }

// Submit runs one checkout attempt. It rejects with a busy error while another
// attempt is in flight. The cart in req is never modified; clearing it after a
// successful receipt is up to the caller.
func (s *Service) Submit(ctx context.Context, req Request) (model.Receipt, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		logx.Warn().Msg("checkout rejected: submission already in flight")
		return model.Receipt{}, errx.Busy()
	}
	defer s.inFlight.Store(false)

	a := &attempt{Request: req}
	receipt, err := s.runnable.Invoke(ctx, a, compose.WithCallbacks(newCallbacks()))
	if err != nil {
		if a.err != nil {
			return model.Receipt{}, a.err
		}
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			return model.Receipt{}, err
		}
		return model.Receipt{}, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	logx.Info().
		Str("order_id", receipt.OrderID).
		Int("items", receipt.ItemCount).
		Float64("total", receipt.Total).
		Bool("email_sent", receipt.EmailSent).
		Msg("checkout completed")
	return receipt, nil
}

type disabledEmail struct{}

func (disabledEmail) Configured() bool { return false }

func (disabledEmail) Send(context.Context, map[string]string) error { return nil }

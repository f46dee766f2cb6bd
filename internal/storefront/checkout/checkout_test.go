package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/cart"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/outbound"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type formServer struct {
	srv    *httptest.Server
	hits   atomic.Int32
	mu     sync.Mutex
	fields map[string][]string
}

func newFormServer(t *testing.T, status int) *formServer {
	t.Helper()
	fs := &formServer{}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			fs.mu.Lock()
			fs.fields = r.MultipartForm.Value
			fs.mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *formServer) field(name string) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if v := fs.fields[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

type fakeEmail struct {
	configured bool
	err        error
	sent       []map[string]string
}

func (f *fakeEmail) Configured() bool { return f.configured }

func (f *fakeEmail) Send(_ context.Context, params map[string]string) error {
	f.sent = append(f.sent, params)
	return f.err
}

func newService(t *testing.T, form FormSubmitter, email EmailSender) *Service {
	t.Helper()
	s, err := NewService(context.Background(), form, email,
		WithIDGenerator(func() string { return "order-1" }),
		WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	return s
}

func rackCart(t *testing.T) cart.Cart {
	t.Helper()
	c, err := cart.Cart{}.Add(model.LineItem{Name: "Rack A", Price: 49.99}, 3)
	require.NoError(t, err)
	c, err = c.Add(model.LineItem{Name: "Dubia Roaches (100ct)", Price: 24.5}, 1)
	require.NoError(t, err)
	return c
}

func TestSubmitEmptyCartMakesNoNetworkCall(t *testing.T) {
	fs := newFormServer(t, http.StatusOK)
	email := &fakeEmail{configured: true}
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), email)

	empty := cart.Cart{}
	_, err := s.Submit(context.Background(), Request{Cart: empty, Method: model.PaymentPayPal})
	require.Error(t, err)
	assert.True(t, errx.IsValidation(err))
	assert.Equal(t, "your cart is empty", errx.MessageOf(err))

	assert.Zero(t, fs.hits.Load())
	assert.Empty(t, email.sent)
	assert.True(t, empty.IsEmpty())
	assert.False(t, s.Busy())
}

func TestSubmitMissingMethod(t *testing.T) {
	fs := newFormServer(t, http.StatusOK)
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), nil)

	c := rackCart(t)
	_, err := s.Submit(context.Background(), Request{Cart: c})
	assert.True(t, errx.IsValidation(err))

	_, err = s.Submit(context.Background(), Request{Cart: c, Method: "Bitcoin"})
	assert.True(t, errx.IsValidation(err))

	assert.Zero(t, fs.hits.Load())
	assert.Equal(t, 2, c.Len())
}

func TestSubmitSuccessSendsEmail(t *testing.T) {
	fs := newFormServer(t, http.StatusOK)
	email := &fakeEmail{configured: true}
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), email)

	receipt, err := s.Submit(context.Background(), Request{
		Cart:     rackCart(t),
		Method:   "etransfer",
		Customer: model.Customer{Name: "Sam", Email: "sam@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "order-1", receipt.OrderID)
	assert.Equal(t, 4, receipt.ItemCount)
	assert.InDelta(t, 174.47, receipt.Total, 1e-9)
	assert.Equal(t, model.PaymentETransfer, receipt.PaymentMethod)
	assert.True(t, receipt.EmailSent)
	assert.Equal(t, fixedNow, receipt.SubmittedAt)

	assert.Equal(t, int32(1), fs.hits.Load())
	assert.Equal(t, "E-Transfer", fs.field("payment_method"))
	assert.Equal(t, "$174.47", fs.field("order_total"))
	assert.Equal(t, receipt.Summary, fs.field("order_summary"))
	assert.Empty(t, fs.field("card_number"))

	require.Len(t, email.sent, 1)
	assert.Equal(t, "sam@example.com", email.sent[0]["to_email"])
	assert.Equal(t, receipt.Summary, email.sent[0]["order_summary"])
}

func TestSubmitCardFieldsForwarded(t *testing.T) {
	fs := newFormServer(t, http.StatusOK)
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), nil)

	receipt, err := s.Submit(context.Background(), Request{
		Cart:   rackCart(t),
		Method: model.PaymentCard,
		Card:   model.Card{Holder: "Sam Keeper", Number: "4242 4242 4242 4242", Expiry: "12/29", CVV: "123"},
	})
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
	assert.Equal(t, "4242 4242 4242 4242", fs.field("card_number"))
	assert.Equal(t, "Sam Keeper", fs.field("card_holder"))
}

func TestSubmitEmailFailureIsBestEffort(t *testing.T) {
	fs := newFormServer(t, http.StatusOK)
	email := &fakeEmail{configured: true, err: errors.New("quota exceeded")}
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), email)

	receipt, err := s.Submit(context.Background(), Request{
		Cart:     rackCart(t),
		Method:   model.PaymentPayPal,
		Customer: model.Customer{Email: "sam@example.com"},
	})
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
	assert.Len(t, email.sent, 1)
}

func TestSubmitSkipsEmailWithoutAddress(t *testing.T) {
	fs := newFormServer(t, http.StatusOK)
	email := &fakeEmail{configured: true}
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), email)

	receipt, err := s.Submit(context.Background(), Request{Cart: rackCart(t), Method: model.PaymentPayPal})
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
	assert.Empty(t, email.sent)
}

func TestSubmitRemoteFailure(t *testing.T) {
	fs := newFormServer(t, http.StatusInternalServerError)
	email := &fakeEmail{configured: true}
	s := newService(t, outbound.NewFormClient(fs.srv.URL, fs.srv.Client()), email)

	c := rackCart(t)
	_, err := s.Submit(context.Background(), Request{Cart: c, Method: model.PaymentPayPal, Customer: model.Customer{Email: "a@b.c"}})
	require.Error(t, err)
	assert.True(t, errx.IsRemote(err))
	assert.Empty(t, email.sent)
	assert.Equal(t, 2, c.Len())
	assert.False(t, s.Busy())
}

type blockingForm struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingForm) Submit(ctx context.Context, _ []outbound.Field) (outbound.FormResponse, error) {
	close(b.entered)
	<-b.release
	return outbound.FormResponse{OK: true}, nil
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	form := &blockingForm{entered: make(chan struct{}), release: make(chan struct{})}
	s := newService(t, form, nil)
	req := Request{Cart: rackCart(t), Method: model.PaymentPayPal}

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), req)
		done <- err
	}()

	<-form.entered
	assert.True(t, s.Busy())
	_, err := s.Submit(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errx.IsBusy(err))

	close(form.release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
}

func TestOrderSummary(t *testing.T) {
	got := OrderSummary("order-1", rackCart(t), model.PaymentPayPal)
	want := "Order order-1\n" +
		"1. Rack A x3 @ $49.99 = $149.97\n" +
		"2. Dubia Roaches (100ct) x1 @ $24.50 = $24.50\n" +
		"Items: 4\n" +
		"Total: $174.47\n" +
		"Payment: PayPal\n"
	assert.Equal(t, want, got)
}

func TestNewServiceRequiresForm(t *testing.T) {
	_, err := NewService(context.Background(), nil, nil)
	assert.Error(t, err)
}

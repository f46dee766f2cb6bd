package checkout

import (
	"context"
	"strconv"

	"github.com/cloudwego/eino/compose"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/outbound"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const (
	NodeValidate   = "validate"
	NodeSummarize  = "summarize"
	NodeSubmitForm = "submit_form"
	NodeSendEmail  = "send_email"
	NodeFinalize   = "finalize"
)

// attempt is the per-submission record passed from node to node.
type attempt struct {
	Request

	OrderID   string
	Summary   string
	EmailSent bool

	// err holds the typed failure of the node that stopped the run.
	err error
}

func (a *attempt) fail(err error) (*attempt, error) {
	a.err = err
	return a, err
}

// runState is the graph-local trace of visited nodes.
type runState struct {
	Steps []string
}

func tracePreHandler(node string) func(context.Context, *attempt, *runState) (*attempt, error) {
	return func(ctx context.Context, in *attempt, s *runState) (*attempt, error) {
		s.Steps = append(s.Steps, node)
		return in, nil
	}
}

func newValidateNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, a *attempt) (*attempt, error) {
		if a.Cart.IsEmpty() {
			return a.fail(errx.Validation("your cart is empty"))
		}
		if a.Method == "" {
			return a.fail(errx.Validation("please select a payment method"))
		}
		method, ok := model.ParsePaymentMethod(string(a.Method))
		if !ok {
			return a.fail(errx.Validationf("unsupported payment method %q", a.Method))
		}
		a.Method = method
		return a, nil
	})
}

func newSummarizeNode(newID func() string) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, a *attempt) (*attempt, error) {
		a.OrderID = newID()
		a.Summary = OrderSummary(a.OrderID, a.Cart, a.Method)
		return a, nil
	})
}

func newSubmitFormNode(form FormSubmitter) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, a *attempt) (*attempt, error) {
		if _, err := form.Submit(ctx, formFields(a)); err != nil {
			logx.Error().Err(err).Str("order_id", a.OrderID).Msg("checkout form submission failed")
			return a.fail(err)
		}
		logx.Info().Str("order_id", a.OrderID).Int("items", a.Cart.Totals().Count).Msg("checkout form accepted")
		return a, nil
	})
}

// newEmailCondition routes to the email step only when a sender is configured
// and the shopper left an address.
func newEmailCondition(email EmailSender) func(context.Context, *attempt) (string, error) {
	return func(ctx context.Context, a *attempt) (string, error) {
		if email == nil || !email.Configured() {
			logx.Debug().Msg("email not configured - skipping confirmation")
			return NodeFinalize, nil
		}
		if a.Customer.Email == "" {
			logx.Debug().Str("order_id", a.OrderID).Msg("no customer email - skipping confirmation")
			return NodeFinalize, nil
		}
		return NodeSendEmail, nil
	}
}

// newSendEmailNode never fails the run: the order is already placed.
func newSendEmailNode(email EmailSender) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, a *attempt) (*attempt, error) {
		if err := email.Send(ctx, emailParams(a)); err != nil {
			logx.Warn().Err(err).Str("order_id", a.OrderID).Msg("order placed but confirmation email failed")
			a.EmailSent = false
			return a, nil
		}
		a.EmailSent = true
		return a, nil
	})
}

func newFinalizeNode(now nowFunc) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, a *attempt) (model.Receipt, error) {
		var steps []string
		_ = compose.ProcessState(ctx, func(_ context.Context, s *runState) error {
			steps = append(steps, s.Steps...)
			return nil
		})

		totals := a.Cart.Totals()
		receipt := model.Receipt{
			OrderID:       a.OrderID,
			Summary:       a.Summary,
			Total:         totals.Total(),
			ItemCount:     totals.Count,
			PaymentMethod: a.Method,
			EmailSent:     a.EmailSent,
			SubmittedAt:   now(),
		}
		logx.Debug().Str("order_id", a.OrderID).Strs("steps", steps).Bool("email_sent", a.EmailSent).Msg("checkout finalized")
		return receipt, nil
	})
}

func formFields(a *attempt) []outbound.Field {
	totals := a.Cart.Totals()
	fields := []outbound.Field{
		{Name: "_subject", Value: "New Order " + a.OrderID},
		{Name: "order_id", Value: a.OrderID},
		{Name: "name", Value: a.Customer.Name},
		{Name: "email", Value: a.Customer.Email},
		{Name: "phone", Value: a.Customer.Phone},
		{Name: "notes", Value: a.Customer.Notes},
		{Name: "payment_method", Value: string(a.Method)},
		{Name: "item_count", Value: strconv.Itoa(totals.Count)},
		{Name: "order_total", Value: model.FormatMoney(totals.TotalCents)},
		{Name: "order_summary", Value: a.Summary},
	}
	if a.Method == model.PaymentCard {
		fields = append(fields,
			outbound.Field{Name: "card_holder", Value: a.Card.Holder},
			outbound.Field{Name: "card_number", Value: a.Card.Number},
			outbound.Field{Name: "card_expiry", Value: a.Card.Expiry},
			outbound.Field{Name: "card_cvv", Value: a.Card.CVV},
		)
	}
	return fields
}

func emailParams(a *attempt) map[string]string {
	return map[string]string{
		"to_name":        a.Customer.Name,
		"to_email":       a.Customer.Email,
		"order_id":       a.OrderID,
		"order_summary":  a.Summary,
		"order_total":    model.FormatMoney(a.Cart.Totals().TotalCents),
		"payment_method": string(a.Method),
	}
}

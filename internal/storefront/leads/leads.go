package leads

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/outbound"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/repo"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const (
	SubjectQuote   = "Enclosure Quote Request"
	SubjectConsult = "Specialty Consultation"
)

// PurchaseSubject is the subject of a buy-button inquiry.
func PurchaseSubject(title string) string { return "Purchase Inquiry: " + titleOrDefault(title) }

// SubscriptionSubject is the subject of a subscribe-button inquiry.
func SubscriptionSubject(title string) string {
	return "Subscription Inquiry: " + titleOrDefault(title)
}

func titleOrDefault(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return "Product Inquiry"
}

// FormSubmitter posts the lead form.
type FormSubmitter interface {
	Configured() bool
	Submit(ctx context.Context, fields []outbound.Field) (outbound.FormResponse, error)
}

// Service captures leads. Every lead is recorded locally; the hosted form is
// used when one is configured.
type Service struct {
	repo model.LeadRepository
	form FormSubmitter
	now  func() time.Time
}

func NewService(r model.LeadRepository, form FormSubmitter) *Service {
	return &Service{repo: r, form: form, now: time.Now}
}

// Submit validates and records a lead, then posts it to the lead form.
func (s *Service) Submit(ctx context.Context, lead model.Lead) (model.Lead, error) {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Email = strings.TrimSpace(lead.Email)
	lead.Message = strings.TrimSpace(lead.Message)

	if lead.Name == "" {
		return model.Lead{}, errx.Validation("please tell us your name")
	}
	if lead.Email == "" {
		return model.Lead{}, errx.Validation("please enter your email")
	}
	if _, err := mail.ParseAddress(lead.Email); err != nil {
		return model.Lead{}, errx.Validationf("%q is not a valid email address", lead.Email)
	}

	lead.Timestamp = s.now().UTC()
	lead.Status = model.LeadStatusNew

	if err := s.repo.AppendLead(ctx, lead); err != nil {
		logx.Error().Err(err).Str("email", lead.Email).Msg("failed to record lead locally")
		return model.Lead{}, err
	}

	if s.form == nil || !s.form.Configured() {
		logx.Info().Str("name", lead.Name).Str("subject", lead.Subject).Msg("lead recorded locally")
		return lead, nil
	}

	fields := []outbound.Field{
		{Name: "_subject", Value: lead.Subject},
		{Name: "name", Value: lead.Name},
		{Name: "email", Value: lead.Email},
		{Name: "message", Value: lead.Message},
	}
	if _, err := s.form.Submit(ctx, fields); err != nil {
		return lead, err
	}
	logx.Info().Str("name", lead.Name).Str("subject", lead.Subject).Msg("lead submitted")
	return lead, nil
}

// List returns the locally recorded leads. A malformed record reads as empty.
func (s *Service) List(ctx context.Context) ([]model.Lead, error) {
	leads, err := s.repo.ListLeads(ctx)
	if errors.Is(err, repo.ErrCorrupt) {
		logx.Warn().Err(err).Msg("stored leads are malformed, treating as empty")
		return nil, nil
	}
	return leads, err
}

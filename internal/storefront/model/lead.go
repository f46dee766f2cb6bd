package model

import (
	"context"
	"time"
)

const LeadStatusNew = "NEW"

// Lead is a contact/inquiry captured from the lead modal.
type Lead struct {
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Subject   string    `json:"subject,omitempty"`
}

type LeadRepository interface {
	// AppendLead adds a lead to the locally persisted list.
	AppendLead(ctx context.Context, lead Lead) error

	// ListLeads returns every locally persisted lead, oldest first.
	ListLeads(ctx context.Context) ([]Lead, error)
}

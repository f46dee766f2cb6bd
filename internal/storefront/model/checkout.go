package model

import (
	"strings"
	"time"
)

// PaymentMethod is the payment option the shopper picked at checkout.
type PaymentMethod string

const (
	PaymentETransfer PaymentMethod = "E-Transfer"
	PaymentPayPal    PaymentMethod = "PayPal"
	PaymentCard      PaymentMethod = "Card"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{PaymentETransfer, PaymentPayPal, PaymentCard}

// ParsePaymentMethod accepts the display names and their lowercase shorthands.
func ParsePaymentMethod(v string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "e-transfer", "etransfer", "interac":
		return PaymentETransfer, true
	case "paypal":
		return PaymentPayPal, true
	case "card", "credit", "credit-card":
		return PaymentCard, true
	default:
		return "", false
	}
}

// Customer holds the free-form contact fields of the checkout form.
type Customer struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// Card holds the card fields collected when PaymentCard is selected. They are
// forwarded to the form endpoint untouched.
type Card struct {
	Holder string
	Number string
	Expiry string
	CVV    string
}

// Receipt is returned by a successful checkout.
type Receipt struct {
	OrderID       string        `json:"order_id"`
	Summary       string        `json:"summary"`
	Total         float64       `json:"total"`
	ItemCount     int           `json:"item_count"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	EmailSent     bool          `json:"email_sent"`
	SubmittedAt   time.Time     `json:"submitted_at"`
}

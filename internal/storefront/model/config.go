package model

import "time"

// ================ Config ================
type StorageConfig struct {
	Driver           string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	CartKey          string `envconfig:"CART_STORAGE_KEY" default:"cbh_cart"`
	LeadsKey         string `envconfig:"LEADS_STORAGE_KEY" default:"cbh_leads"`
	SubscriptionsKey string `envconfig:"SUBSCRIPTIONS_STORAGE_KEY" default:"cbh_subscriptions"`
}

type InventoryConfig struct {
	Source       string `envconfig:"INVENTORY_SOURCE" default:"docs/inventory.json"`
	LandingLimit int    `envconfig:"INVENTORY_LANDING_LIMIT" default:"3"`
	CatalogPath  string `envconfig:"CATALOG_PATH" default:"docs/inventory.json"`
}

type CheckoutConfig struct {
	FormURL     string        `envconfig:"CHECKOUT_FORM_URL"`
	LeadFormURL string        `envconfig:"LEAD_FORM_URL"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
}

type EmailConfig struct {
	APIURL     string `envconfig:"EMAIL_API_URL" default:"https://api.emailjs.com/api/v1.0/email/send"`
	ServiceID  string `envconfig:"EMAIL_SERVICE_ID"`
	TemplateID string `envconfig:"EMAIL_TEMPLATE_ID"`
	PublicKey  string `envconfig:"EMAIL_PUBLIC_KEY"`
}

// Enabled reports whether enough is configured to send confirmation emails.
func (c EmailConfig) Enabled() bool {
	return c.APIURL != "" && c.ServiceID != "" && c.TemplateID != ""
}

type QuoteConfig struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY"`
	BaseURL     string  `envconfig:"GEMINI_BASE_URL"`
	Model       string  `envconfig:"QUOTE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"QUOTE_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"QUOTE_TEMPERATURE" default:"0.3"`
}

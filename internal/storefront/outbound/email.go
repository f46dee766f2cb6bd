package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

type emailRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailClient sends templated emails through a hosted email API.
type EmailClient struct {
	cfg    model.EmailConfig
	client *http.Client
}

func NewEmailClient(cfg model.EmailConfig, client *http.Client) *EmailClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailClient{cfg: cfg, client: client}
}

func (c *EmailClient) Configured() bool { return c != nil && c.cfg.Enabled() }

// Send renders the configured template with params.
func (c *EmailClient) Send(ctx context.Context, params map[string]string) error {
	if !c.Configured() {
		return errx.Remote(fmt.Errorf("email service is not configured"), "")
	}

	b, err := json.Marshal(emailRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     c.cfg.TemplateID,
		UserID:         c.cfg.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errx.Remote(err, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return errx.Remote(fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(text)), "")
	}

	logx.Debug().Str("template", c.cfg.TemplateID).Msg("email sent")
	return nil
}

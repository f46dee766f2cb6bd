package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const maxResponseBytes = 64 << 10

// Field is one form field. Order is preserved on the wire.
type Field struct {
	Name  string
	Value string
}

// FormResponse is the JSON body form endpoints answer with. Both shapes
// ({"ok":true} and {"errors":[{"message":...}]}) are accepted.
type FormResponse struct {
	OK     bool `json:"ok"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Next string `json:"next"`
}

// FormClient posts multipart form submissions to a hosted form endpoint.
type FormClient struct {
	url    string
	client *http.Client
}

func NewFormClient(url string, client *http.Client) *FormClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &FormClient{url: url, client: client}
}

func (c *FormClient) Configured() bool { return c != nil && c.url != "" }

// Submit sends fields as multipart/form-data and asks for a JSON reply.
// Any non-2xx status or transport error is returned as a remote error.
func (c *FormClient) Submit(ctx context.Context, fields []Field) (FormResponse, error) {
	if !c.Configured() {
		return FormResponse{}, errx.Remote(fmt.Errorf("form endpoint is not configured"), "")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return FormResponse{}, fmt.Errorf("write form field %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return FormResponse{}, fmt.Errorf("close form body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return FormResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logx.Error().Err(err).Str("url", c.url).Msg("form submission failed")
		return FormResponse{}, errx.Remote(err, "")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	var out FormResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		// Some endpoints answer with HTML even when asked for JSON; the status
		// code alone decides success then.
		_ = json.Unmarshal(raw, &out)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, out.errorText(resp.Status))
		logx.Error().Err(err).Str("url", c.url).Msg("form endpoint rejected submission")
		return out, errx.Remote(err, "")
	}

	logx.Debug().Str("url", c.url).Int("fields", len(fields)).Msg("form submitted")
	return out, nil
}

func (r FormResponse) errorText(fallback string) string {
	if len(r.Errors) == 0 {
		return fallback
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

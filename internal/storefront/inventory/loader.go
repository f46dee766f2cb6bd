package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const (
	maxDocumentBytes = 4 << 20

	unavailableMessage = "inventory is unavailable right now"
)

// Loader reads the static inventory document and selects the items a page shows.
type Loader struct {
	source       string
	landingLimit int
	client       *http.Client
}

// NewLoader builds a Loader for cfg.Source, which may be an http(s) URL or a
// local file path. A nil client uses http.DefaultClient.
func NewLoader(cfg model.InventoryConfig, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	limit := cfg.LandingLimit
	if limit <= 0 {
		limit = 3
	}
	return &Loader{source: cfg.Source, landingLimit: limit, client: client}
}

func (l *Loader) Source() string { return l.source }

// Fetch returns every item in the document, unfiltered.
func (l *Loader) Fetch(ctx context.Context) ([]model.InventoryItem, error) {
	b, err := l.read(ctx)
	if err != nil {
		logx.Error().Err(err).Str("source", l.source).Msg("failed to fetch inventory")
		return nil, errx.Remote(err, unavailableMessage)
	}

	var items []model.InventoryItem
	if err := json.Unmarshal(b, &items); err != nil {
		logx.Error().Err(err).Str("source", l.source).Msg("inventory document is not valid JSON")
		return nil, errx.Remote(fmt.Errorf("decode inventory: %w", err), unavailableMessage)
	}
	return items, nil
}

// Load fetches the document and returns the unsold items of the page's category.
// Landing pages are truncated to the configured preview size.
func (l *Loader) Load(ctx context.Context, page PageContext) ([]model.InventoryItem, error) {
	items, err := l.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := Filter(items, page.Category)
	if page.Landing && len(out) > l.landingLimit {
		out = out[:l.landingLimit]
	}
	logx.Debug().Str("category", page.Category).Bool("landing", page.Landing).Int("items", len(out)).Msg("inventory loaded")
	return out, nil
}

// LoadAll loads several pages concurrently. Results are keyed by category.
func (l *Loader) LoadAll(ctx context.Context, pages []PageContext) (map[string][]model.InventoryItem, error) {
	var mu sync.Mutex
	out := make(map[string][]model.InventoryItem, len(pages))

	eg, egCtx := errgroup.WithContext(ctx)
	for _, page := range pages {
		eg.Go(func() error {
			items, err := l.Load(egCtx, page)
			if err != nil {
				return err
			}
			mu.Lock()
			out[page.Category] = items
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Render loads the page and renders its cards. On failure the fallback markup
// is returned together with the error so the caller can show the error state.
func (l *Loader) Render(ctx context.Context, page PageContext) (string, error) {
	items, err := l.Load(ctx, page)
	if err != nil {
		return ErrorMarkup(errx.MessageOf(err)), err
	}
	return RenderCards(items)
}

// Filter keeps the items of category that are not sold, preserving order.
func Filter(items []model.InventoryItem, category string) []model.InventoryItem {
	out := make([]model.InventoryItem, 0, len(items))
	for _, it := range items {
		if it.Category == category && !it.IsSold() {
			out = append(out, it)
		}
	}
	return out
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if l.source == "" {
		return nil, fmt.Errorf("inventory source is not configured")
	}
	if !isRemote(l.source) {
		return os.ReadFile(l.source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

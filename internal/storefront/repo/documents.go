package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// ErrCorrupt is returned when a persisted document exists but cannot be decoded.
var ErrCorrupt = errors.New("persisted document is malformed")

// loadJSON decodes the document under key into out. found is false when the key
// is absent or empty.
func loadJSON(ctx context.Context, kv model.KeyValueStore, key string, out any) (found bool, err error) {
	b, err := kv.Load(ctx, key)
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		logx.Warn().Err(err).Str("key", key).Int("bytes", len(b)).Msg("persisted document is not valid JSON")
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, kv model.KeyValueStore, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to marshal document")
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return kv.Save(ctx, key, b)
}

// CartRepository persists the cart as a JSON array of line items under one key.
type CartRepository struct {
	kv  model.KeyValueStore
	key string
}

func NewCartRepository(kv model.KeyValueStore, key string) *CartRepository {
	return &CartRepository{kv: kv, key: key}
}

func (r *CartRepository) LoadCart(ctx context.Context) ([]model.LineItem, error) {
	var items []model.LineItem
	if _, err := loadJSON(ctx, r.kv, r.key, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepository) SaveCart(ctx context.Context, items []model.LineItem) error {
	if items == nil {
		items = []model.LineItem{}
	}
	return saveJSON(ctx, r.kv, r.key, items)
}

func (r *CartRepository) ClearCart(ctx context.Context) error {
	return r.kv.Delete(ctx, r.key)
}

// LeadRepository persists leads as a JSON array, the legacy local path.
type LeadRepository struct {
	kv  model.KeyValueStore
	key string
}

func NewLeadRepository(kv model.KeyValueStore, key string) *LeadRepository {
	return &LeadRepository{kv: kv, key: key}
}

func (r *LeadRepository) ListLeads(ctx context.Context) ([]model.Lead, error) {
	var leads []model.Lead
	if _, err := loadJSON(ctx, r.kv, r.key, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// AppendLead starts from an empty list when the stored one is malformed.
func (r *LeadRepository) AppendLead(ctx context.Context, lead model.Lead) error {
	leads, err := r.ListLeads(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return err
		}
		leads = nil
	}
	leads = append(leads, lead)
	return saveJSON(ctx, r.kv, r.key, leads)
}

// SubscriptionRepository persists subscriptions as a JSON array.
type SubscriptionRepository struct {
	kv  model.KeyValueStore
	key string
}

func NewSubscriptionRepository(kv model.KeyValueStore, key string) *SubscriptionRepository {
	return &SubscriptionRepository{kv: kv, key: key}
}

func (r *SubscriptionRepository) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var subs []model.Subscription
	if _, err := loadJSON(ctx, r.kv, r.key, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionRepository) SaveSubscriptions(ctx context.Context, subs []model.Subscription) error {
	if subs == nil {
		subs = []model.Subscription{}
	}
	return saveJSON(ctx, r.kv, r.key, subs)
}

var (
	_ model.CartRepository         = (*CartRepository)(nil)
	_ model.LeadRepository         = (*LeadRepository)(nil)
	_ model.SubscriptionRepository = (*SubscriptionRepository)(nil)
)

package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/model"
	"github.com/coldblooded-heartbeats/storefront/internal/storefront/repo"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

const dateLayout = "2006-01-02"

// Service manages recurring pantry deliveries.
type Service struct {
	repo model.SubscriptionRepository
	now  func() time.Time
}

func NewService(r model.SubscriptionRepository) *Service {
	return &Service{repo: r, now: time.Now}
}

// Create starts an active subscription shipping every weeks weeks.
func (s *Service) Create(ctx context.Context, userID, item string, weeks int) (model.Subscription, error) {
	userID = strings.TrimSpace(userID)
	item = strings.TrimSpace(item)
	if userID == "" {
		return model.Subscription{}, errx.Validation("user id is required")
	}
	if item == "" {
		return model.Subscription{}, errx.Validation("item is required")
	}
	if weeks < 1 {
		return model.Subscription{}, errx.Validationf("frequency must be at least 1 week, got %d", weeks)
	}

	subs, err := s.List(ctx)
	if err != nil {
		return model.Subscription{}, err
	}

	sub := model.Subscription{
		ID:             fmt.Sprintf("SUB-%04d", len(subs)+1),
		UserID:         userID,
		Item:           item,
		FrequencyWeeks: weeks,
		NextShipDate:   s.now().AddDate(0, 0, 7*weeks).Format(dateLayout),
		Status:         model.SubscriptionActive,
	}
	if err := s.repo.SaveSubscriptions(ctx, append(subs, sub)); err != nil {
		logx.Error().Err(err).Str("item", item).Msg("failed to save subscription")
		return model.Subscription{}, err
	}

	logx.Info().Str("sub_id", sub.ID).Str("item", item).Int("frequency_weeks", weeks).Msg("subscription created")
	return sub, nil
}

// List returns every subscription. A malformed record reads as empty.
func (s *Service) List(ctx context.Context) ([]model.Subscription, error) {
	subs, err := s.repo.ListSubscriptions(ctx)
	if errors.Is(err, repo.ErrCorrupt) {
		logx.Warn().Err(err).Msg("stored subscriptions are malformed, treating as empty")
		return nil, nil
	}
	return subs, err
}

package model

import "context"

const SubscriptionActive = "ACTIVE"

// Subscription is a recurring delivery of a pantry item.
type Subscription struct {
	ID             string `json:"sub_id"`
	UserID         string `json:"user_id"`
	Item           string `json:"item"`
	FrequencyWeeks int    `json:"frequency_weeks"`
	NextShipDate   string `json:"next_ship_date"`
	Status         string `json:"status"`
}

type SubscriptionRepository interface {
	ListSubscriptions(ctx context.Context) ([]Subscription, error)
	SaveSubscriptions(ctx context.Context, subs []Subscription) error
}

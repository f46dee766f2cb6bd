package shipping

import (
	"context"
	"fmt"
	"strings"

	errx "github.com/coldblooded-heartbeats/storefront/internal/core/error"
	logx "github.com/coldblooded-heartbeats/storefront/pkg/logger"
)

// Temperature thresholds in °F for live animal transport.
const (
	SafeMinF = 40
	SafeMaxF = 90
	HardMinF = 30
)

type Status string

const (
	StatusSafe       Status = "SAFE"
	StatusRestricted Status = "RESTRICTED"
	StatusDenied     Status = "DENIED"
)

// Verdict is the outcome of a shipping safety check.
type Verdict struct {
	Zip          string `json:"zip"`
	TemperatureF int    `json:"temperature_f"`
	Status       Status `json:"status"`
	Message      string `json:"message"`
}

// Allowed reports whether the shipment may go out, possibly held for pickup.
func (v Verdict) Allowed() bool { return v.Status != StatusDenied }

// TemperatureSource reports the current temperature at a destination.
type TemperatureSource interface {
	TemperatureF(ctx context.Context, zip string) (int, error)
}

// MockTemperatures approximates regional weather from the leading ZIP digit.
type MockTemperatures struct{}

func (MockTemperatures) TemperatureF(_ context.Context, zip string) (int, error) {
	switch {
	case strings.HasPrefix(zip, "9"):
		return 75, nil
	case strings.HasPrefix(zip, "0"):
		return 25, nil
	case strings.HasPrefix(zip, "3"):
		return 95, nil
	default:
		return 65, nil
	}
}

type Guard struct {
	source TemperatureSource
}

// NewGuard uses MockTemperatures when source is nil.
func NewGuard(source TemperatureSource) *Guard {
	if source == nil {
		source = MockTemperatures{}
	}
	return &Guard{source: source}
}

func (g *Guard) Check(ctx context.Context, zip string) (Verdict, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return Verdict{}, errx.Validation("destination zip code is required")
	}

	temp, err := g.source.TemperatureF(ctx, zip)
	if err != nil {
		logx.Error().Err(err).Str("zip", zip).Msg("failed to read destination temperature")
		return Verdict{}, errx.Remote(err, "weather lookup failed, please try again")
	}

	v := Classify(temp)
	v.Zip = zip
	logx.Debug().Str("zip", zip).Int("temperature_f", temp).Str("status", string(v.Status)).Msg("shipping safety checked")
	return v, nil
}

// Classify applies the transport thresholds to a temperature.
func Classify(tempF int) Verdict {
	v := Verdict{TemperatureF: tempF}
	switch {
	case tempF < HardMinF || tempF > SafeMaxF:
		v.Status = StatusDenied
		v.Message = fmt.Sprintf("Temperature (%dF) is unsafe for live animal transport.", tempF)
	case tempF < SafeMinF:
		v.Status = StatusRestricted
		v.Message = fmt.Sprintf("Temperature (%dF) requires 'Hold for Pickup' at FedEx Hub.", tempF)
	default:
		v.Status = StatusSafe
		v.Message = "Conditions are optimal for shipping."
	}
	return v
}

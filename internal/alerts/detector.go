package alerts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/pricing"
)

// Within this factor of the all-time low counts as a historical low.
const historicalLowTolerance = 1.05

// Detector flags statistically significant price drops against a route's
// historical series. It holds no state between calls.
type Detector struct {
	cfg    config.AlertConfig
	logger zerolog.Logger
}

func NewDetector(cfg config.AlertConfig, logger zerolog.Logger) *Detector {
	return &Detector{
		cfg:    cfg,
		logger: logger.With().Str("component", "alerts").Logger(),
	}
}

// CheckPriceDrops compares the cheapest current offer against the historical
// series. A PriceDrop fires when the drop from the historical mean clears the
// absolute OR the percentage threshold; a HistoricalLow fires independently
// when the current minimum is within 5% of the all-time low. Both may fire on
// the same call, PriceDrop first. No history means no alerts.
func (d *Detector) CheckPriceDrops(offers []models.Offer, history []models.PricePoint, origin, destination string) []models.Alert {
	if len(offers) == 0 {
		return nil
	}
	historical := pricing.CalculateSeries(history)
	if historical == nil {
		return nil
	}

	currentMin := offers[0].TotalPrice
	for _, o := range offers[1:] {
		if o.TotalPrice < currentMin {
			currentMin = o.TotalPrice
		}
	}

	var result []models.Alert

	dropAmount := historical.Mean - currentMin
	dropPercent := dropAmount / historical.Mean * 100

	if dropAmount >= d.cfg.PriceDropAbsolute || dropPercent >= d.cfg.PriceDropPercent {
		d.logger.Info().Str("route", origin+"-"+destination).
			Float64("drop_amount", dropAmount).Float64("drop_percent", dropPercent).
			Msg("price drop detected")
		result = append(result, models.Alert{
			ID:             uuid.NewString(),
			Type:           models.AlertPriceDrop,
			Origin:         origin,
			Destination:    destination,
			CurrentPrice:   currentMin,
			HistoricalMean: historical.Mean,
			DropAmount:     dropAmount,
			DropPercent:    dropPercent,
			Message:        fmt.Sprintf("Price drop alert: $%.0f vs $%.0f avg", currentMin, historical.Mean),
			CreatedAt:      time.Now().UTC(),
		})
	}

	if currentMin <= historical.Min*historicalLowTolerance {
		result = append(result, models.Alert{
			ID:            uuid.NewString(),
			Type:          models.AlertHistoricalLow,
			Origin:        origin,
			Destination:   destination,
			CurrentPrice:  currentMin,
			HistoricalLow: historical.Min,
			Message:       fmt.Sprintf("Near historical low: $%.0f (record: $%.0f)", currentMin, historical.Min),
			CreatedAt:     time.Now().UTC(),
		})
	}

	return result
}

// ShouldNotify is the explicit notification gate. PriceDrop alerts re-validate
// the threshold condition they were built from; HistoricalLow alerts always
// notify.
func (d *Detector) ShouldNotify(alert models.Alert) bool {
	switch alert.Type {
	case models.AlertPriceDrop:
		return alert.DropAmount >= d.cfg.PriceDropAbsolute ||
			alert.DropPercent >= d.cfg.PriceDropPercent
	case models.AlertHistoricalLow:
		return true
	}
	return false
}

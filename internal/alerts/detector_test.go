package alerts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/models"
)

func newTestDetector() *Detector {
	return NewDetector(config.AlertConfig{
		PriceDropAbsolute: 50,
		PriceDropPercent:  15,
	}, zerolog.Nop())
}

func offersAt(prices ...float64) []models.Offer {
	offers := make([]models.Offer, len(prices))
	for i, p := range prices {
		offers[i] = models.Offer{
			ID:         string(rune('a' + i)),
			Segments:   []models.Segment{{}},
			TotalPrice: p,
		}
	}
	return offers
}

func points(prices ...float64) []models.PricePoint {
	pts := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = models.PricePoint{RecordedAt: int64(i + 1), Price: p}
	}
	return pts
}

func TestCheckPriceDropsNoHistory(t *testing.T) {
	d := newTestDetector()

	assert.Nil(t, d.CheckPriceDrops(offersAt(200), nil, "LAX", "PHX"))
	assert.Nil(t, d.CheckPriceDrops(nil, points(250, 350), "LAX", "PHX"))
}

func TestCheckPriceDropsAbsoluteThreshold(t *testing.T) {
	d := newTestDetector()

	// Historical mean 300, min 250. Current minimum $240: drop of $60
	// clears the $50 threshold, and 240 ≤ 250*1.05 is also a near-low.
	alerts := d.CheckPriceDrops(offersAt(280, 240), points(250, 350), "LAX", "PHX")
	require.Len(t, alerts, 2)

	drop := alerts[0]
	assert.Equal(t, models.AlertPriceDrop, drop.Type)
	assert.Equal(t, "LAX", drop.Origin)
	assert.Equal(t, "PHX", drop.Destination)
	assert.Equal(t, 240.0, drop.CurrentPrice)
	assert.Equal(t, 300.0, drop.HistoricalMean)
	assert.Equal(t, 60.0, drop.DropAmount)
	assert.InDelta(t, 20.0, drop.DropPercent, 1e-9)
	assert.Equal(t, "Price drop alert: $240 vs $300 avg", drop.Message)
	assert.NotEmpty(t, drop.ID)

	low := alerts[1]
	assert.Equal(t, models.AlertHistoricalLow, low.Type)
	assert.Equal(t, 250.0, low.HistoricalLow)
	assert.Equal(t, "Near historical low: $240 (record: $250)", low.Message)
}

func TestCheckPriceDropsPercentThreshold(t *testing.T) {
	d := newTestDetector()

	// Mean 100: a $20 drop misses the absolute threshold but is 20%.
	alerts := d.CheckPriceDrops(offersAt(80), points(100, 100), "LAX", "SEA")
	require.NotEmpty(t, alerts)
	assert.Equal(t, models.AlertPriceDrop, alerts[0].Type)
	assert.Equal(t, 20.0, alerts[0].DropAmount)
	assert.InDelta(t, 20.0, alerts[0].DropPercent, 1e-9)
}

func TestCheckPriceDropsNoAlert(t *testing.T) {
	d := newTestDetector()

	// $120 against mean 100: no drop at all, and well above the low.
	alerts := d.CheckPriceDrops(offersAt(120), points(100, 100), "LAX", "SEA")
	assert.Empty(t, alerts)
}

func TestCheckPriceDropsHistoricalLowOnly(t *testing.T) {
	d := newTestDetector()

	// Mean 300, low 290. $285 drops only $15 (5%), below both thresholds,
	// but sits within 5% of the record low.
	alerts := d.CheckPriceDrops(offersAt(285), points(290, 310), "LAX", "DEN")
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertHistoricalLow, alerts[0].Type)
}

func TestShouldNotify(t *testing.T) {
	d := newTestDetector()

	assert.True(t, d.ShouldNotify(models.Alert{Type: models.AlertPriceDrop, DropAmount: 60, DropPercent: 10}))
	assert.True(t, d.ShouldNotify(models.Alert{Type: models.AlertPriceDrop, DropAmount: 20, DropPercent: 18}))
	assert.False(t, d.ShouldNotify(models.Alert{Type: models.AlertPriceDrop, DropAmount: 20, DropPercent: 10}))
	assert.True(t, d.ShouldNotify(models.Alert{Type: models.AlertHistoricalLow}))
	assert.False(t, d.ShouldNotify(models.Alert{Type: "unknown"}))
}

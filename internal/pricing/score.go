package pricing

import (
	"fmt"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/connection"
	"github.com/skydeals/flightmonitor/internal/models"
)

// Sub-score when no reference maximum is available.
const neutralScore = 0.5

// Scorer computes the weighted convenience score for an offer against the
// extrema of its candidate set.
type Scorer struct {
	weights   config.WeightConfig
	evaluator *connection.Evaluator
}

func NewScorer(weights config.WeightConfig, evaluator *connection.Evaluator) *Scorer {
	return &Scorer{
		weights:   weights,
		evaluator: evaluator,
	}
}

// Breakdown scores one offer against the candidate set's maxima. Zero
// references yield neutral sub-scores rather than a division fault. The total
// is clamped to [0,1].
func (s *Scorer) Breakdown(offer models.Offer, maxPrice float64, maxDuration int) models.ScoreBreakdown {
	priceScore := neutralScore
	if maxPrice > 0 {
		priceScore = 1.0 - offer.TotalPrice/maxPrice
	}

	durationScore := neutralScore
	if maxDuration > 0 {
		durationScore = 1.0 - float64(offer.DurationMinutes)/float64(maxDuration)
	}

	var stopsScore float64
	switch offer.Stops {
	case 0:
		stopsScore = 1.0
	case 1:
		stopsScore = 0.7
	case 2:
		stopsScore = 0.4
	default:
		stopsScore = 0.1
	}

	layoverScore := s.evaluator.LayoverQuality(offer.LayoverAirports, offer.LayoverDurations)

	total := priceScore*s.weights.Price +
		durationScore*s.weights.Duration +
		stopsScore*s.weights.Stops +
		layoverScore*s.weights.LayoverQuality

	return models.ScoreBreakdown{
		Price:          priceScore,
		Duration:       durationScore,
		Stops:          stopsScore,
		LayoverQuality: layoverScore,
		Total:          clamp01(total),
	}
}

// ConvenienceScore is the clamped weighted total in [0,1].
func (s *Scorer) ConvenienceScore(offer models.Offer, maxPrice float64, maxDuration int) float64 {
	return s.Breakdown(offer, maxPrice, maxDuration).Total
}

// IdentifyDeals returns the offers priced low enough to flag, each tagged with
// every reason it qualified. An offer matching several signals appears once.
// The historical signal only fires when the series has nonzero variance.
func IdentifyDeals(offers []models.Offer, history []models.PricePoint) []models.Deal {
	stats := CalculateStatistics(offers)
	if stats == nil {
		return nil
	}

	threshold := stats.Mean - stats.StdDev*0.5
	historical := CalculateSeries(history)

	var deals []models.Deal
	for _, offer := range offers {
		var reasons []string

		if offer.TotalPrice <= threshold {
			reasons = append(reasons, "below average pricing")
		}
		if offer.TotalPrice <= stats.Q25 {
			reasons = append(reasons, "bottom 25% pricing")
		}
		if historical != nil && historical.StdDev > 0 {
			z := (offer.TotalPrice - historical.Mean) / historical.StdDev
			if z <= -1.0 {
				reasons = append(reasons, fmt.Sprintf("historical z-score: %.2f", z))
			}
		}

		if len(reasons) > 0 {
			deals = append(deals, models.Deal{Offer: offer, Reasons: reasons})
		}
	}

	return deals
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

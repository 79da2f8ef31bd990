package connection

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/models"
)

// Layovers past this are excluded outright, independent of the scoring band.
const hardLayoverCeilingMinutes = 360

const (
	shortLayoverScore = 0.1
	longLayoverScore  = 0.6
	hubAirportScore   = 0.9
	minorAirportScore = 0.6

	durationWeight = 0.7
	airportWeight  = 0.3
)

// Evaluator scores and filters itineraries by connection quality.
type Evaluator struct {
	cfg    config.ConnectionConfig
	logger zerolog.Logger
}

func NewEvaluator(cfg config.ConnectionConfig, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		cfg:    cfg,
		logger: logger.With().Str("component", "connection").Logger(),
	}
}

// LayoverQuality scores the connections of one itinerary in [0,1].
// A direct flight scores a perfect 1.0. Each layover combines a duration
// sub-score (peaking at the midpoint of the configured band) with an airport
// sub-score (major hubs rate higher), and the result is the mean over all
// layovers.
func (e *Evaluator) LayoverQuality(airports []string, durations []int) float64 {
	if len(airports) == 0 {
		return 1.0
	}

	total := 0.0
	for i, airport := range airports {
		duration := durations[i]

		var durationScore float64
		switch {
		case duration < e.cfg.MinLayoverMinutes:
			durationScore = shortLayoverScore
		case duration > e.cfg.MaxLayoverMinutes:
			durationScore = longLayoverScore
		default:
			midpoint := float64(e.cfg.MinLayoverMinutes+e.cfg.MaxLayoverMinutes) / 2
			bandWidth := float64(e.cfg.MaxLayoverMinutes - e.cfg.MinLayoverMinutes)
			durationScore = 1.0 - (math.Abs(float64(duration)-midpoint)/bandWidth)*0.4
		}

		airportScore := minorAirportScore
		if e.cfg.IsMajorHub(airport) {
			airportScore = hubAirportScore
		}

		total += durationScore*durationWeight + airportScore*airportWeight
	}

	return total / float64(len(airports))
}

// FilterProblematic drops offers with too many transfers, or with any layover
// shorter than the configured minimum or longer than the six-hour ceiling.
// Input order is preserved; an empty result means no acceptable offers.
func (e *Evaluator) FilterProblematic(offers []models.Offer) []models.Offer {
	filtered := make([]models.Offer, 0, len(offers))

	for _, offer := range offers {
		if offer.Stops > e.cfg.MaxTransfers {
			e.logger.Debug().Str("offer", offer.ID).Int("stops", offer.Stops).
				Msg("filtered: too many transfers")
			continue
		}

		acceptable := true
		for _, duration := range offer.LayoverDurations {
			if duration < e.cfg.MinLayoverMinutes {
				e.logger.Warn().Str("offer", offer.ID).Int("layover_minutes", duration).
					Msg("filtered: layover too short")
				acceptable = false
				break
			}
			if duration > hardLayoverCeilingMinutes {
				e.logger.Warn().Str("offer", offer.ID).Int("layover_minutes", duration).
					Msg("filtered: layover too long")
				acceptable = false
				break
			}
		}

		if acceptable {
			filtered = append(filtered, offer)
		}
	}

	return filtered
}

// RankByQuality orders offers by connection quality alone, ignoring price.
// Direct flights always come first. Selection of the final recommendation
// uses the convenience score instead; this ordering is a display utility.
func (e *Evaluator) RankByQuality(offers []models.Offer) []models.Offer {
	ranked := make([]models.Offer, len(offers))
	copy(ranked, offers)

	sort.SliceStable(ranked, func(i, j int) bool {
		return e.qualityKey(ranked[i]) > e.qualityKey(ranked[j])
	})

	return ranked
}

func (e *Evaluator) qualityKey(offer models.Offer) float64 {
	if offer.Direct() {
		return 1000
	}
	quality := e.LayoverQuality(offer.LayoverAirports, offer.LayoverDurations)
	return 500 + quality*200 - float64(offer.Stops)*100
}

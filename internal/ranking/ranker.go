package ranking

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/connection"
	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/pricing"
)

// Layovers past this get a long-layover notice in the recommendations.
const longLayoverNoticeMinutes = 240

// How many top-ranked offers get per-layover warnings.
const layoverWarningDepth = 3

type Ranker struct {
	evaluator *connection.Evaluator
	scorer    *pricing.Scorer
	cfg       config.EngineConfig
	logger    zerolog.Logger
}

func NewRanker(cfg config.EngineConfig, evaluator *connection.Evaluator, scorer *pricing.Scorer, logger zerolog.Logger) *Ranker {
	return &Ranker{
		evaluator: evaluator,
		scorer:    scorer,
		cfg:       cfg,
		logger:    logger.With().Str("component", "ranking").Logger(),
	}
}

// AnalyzeAndRank filters the candidate set, scores the survivors against their
// own extrema, and selects one primary plus up to MaxAlternatives-1
// alternatives in rank order. Input offers are never mutated; scores are
// written to copies. Empty and fully-filtered inputs are normal terminal
// states explained through the recommendations, not errors.
func (r *Ranker) AnalyzeAndRank(offers []models.Offer, busyDates []string) models.Analysis {
	if len(offers) == 0 {
		return models.Analysis{
			Recommendations: []string{"No flights found for the specified criteria"},
		}
	}

	valid := r.evaluator.FilterProblematic(offers)
	if len(valid) == 0 {
		r.logger.Info().Int("candidates", len(offers)).Msg("all offers filtered")
		return models.Analysis{
			Recommendations: []string{"All flights filtered due to poor connections"},
		}
	}

	stats := pricing.CalculateStatistics(valid)
	maxPrice := stats.Max
	maxDuration := 0
	for _, o := range valid {
		if o.DurationMinutes > maxDuration {
			maxDuration = o.DurationMinutes
		}
	}

	scored := make([]models.ScoredOffer, len(valid))
	for i, offer := range valid {
		breakdown := r.scorer.Breakdown(offer, maxPrice, maxDuration)
		scored[i] = models.ScoredOffer{Offer: offer, Scores: breakdown}
		scored[i].ConvenienceScore = breakdown.Total
	}

	// Stable sort so tied scores keep their input order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Scores.Total > scored[j].Scores.Total
	})

	for i := range scored {
		scored[i].Scores.Rank = i + 1
	}

	primary := scored[0]
	primary.Scores.IsPrimary = true

	var alternatives []models.ScoredOffer
	for i := 1; i < len(scored) && i < r.cfg.Search.MaxAlternatives; i++ {
		alt := scored[i]
		alt.Scores.IsAlternative = true
		alternatives = append(alternatives, alt)
	}

	return models.Analysis{
		Primary:         &primary,
		Alternatives:    alternatives,
		PriceStatistics: stats,
		Recommendations: r.recommendations(primary, alternatives, stats, busyDates),
	}
}

// FlexibleDateAlternatives drops busy dates, then runs the full ranking
// pipeline per remaining date and keeps each date's primary. Dates with no
// surviving offers are omitted.
func (r *Ranker) FlexibleDateAlternatives(byDate map[string][]models.Offer, busyDates []string) map[string]models.ScoredOffer {
	busy := make(map[string]bool, len(busyDates))
	for _, d := range busyDates {
		busy[d] = true
	}

	best := make(map[string]models.ScoredOffer)
	for date, offers := range byDate {
		if busy[date] {
			continue
		}
		analysis := r.AnalyzeAndRank(offers, nil)
		if analysis.Primary != nil {
			best[date] = *analysis.Primary
		}
	}

	return best
}

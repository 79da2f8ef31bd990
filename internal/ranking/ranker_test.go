package ranking

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/connection"
	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/pricing"
)

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		Connection: config.ConnectionConfig{
			MinLayoverMinutes: 90,
			MaxLayoverMinutes: 240,
			MaxTransfers:      2,
			MajorHubs:         []string{"DEN", "PHX", "ORD"},
		},
		Weights: config.WeightConfig{
			Price:          0.40,
			Duration:       0.30,
			Stops:          0.20,
			LayoverQuality: 0.10,
		},
		Search: config.SearchConfig{
			MaxAlternatives: 5,
			FlexibleDays:    3,
		},
	}
}

func newTestRanker() *Ranker {
	cfg := testEngineConfig()
	evaluator := connection.NewEvaluator(cfg.Connection, zerolog.Nop())
	scorer := pricing.NewScorer(cfg.Weights, evaluator)
	return NewRanker(cfg, evaluator, scorer, zerolog.Nop())
}

func directOffer(id string, price float64, durationMinutes int) models.Offer {
	return models.Offer{
		ID:              id,
		Segments:        []models.Segment{{}},
		TotalPrice:      price,
		DurationMinutes: durationMinutes,
	}
}

func oneStopOffer(id string, price float64, durationMinutes int, layoverAirport string, layoverMinutes int) models.Offer {
	return models.Offer{
		ID:               id,
		Segments:         []models.Segment{{}, {}},
		TotalPrice:       price,
		DurationMinutes:  durationMinutes,
		Stops:            1,
		LayoverAirports:  []string{layoverAirport},
		LayoverDurations: []int{layoverMinutes},
	}
}

func TestAnalyzeAndRankEmptyInput(t *testing.T) {
	r := newTestRanker()

	analysis := r.AnalyzeAndRank(nil, nil)
	assert.Nil(t, analysis.Primary)
	assert.Empty(t, analysis.Alternatives)
	require.Len(t, analysis.Recommendations, 1)
	assert.Contains(t, analysis.Recommendations[0], "No flights found")
}

func TestAnalyzeAndRankAllFiltered(t *testing.T) {
	r := newTestRanker()

	offers := []models.Offer{
		oneStopOffer("tight", 200, 300, "DEN", 30),
		{
			ID:               "many-stops",
			Segments:         make([]models.Segment, 4),
			TotalPrice:       150,
			Stops:            3,
			LayoverAirports:  []string{"DEN", "ORD", "ATL"},
			LayoverDurations: []int{120, 120, 120},
		},
	}

	analysis := r.AnalyzeAndRank(offers, nil)
	assert.Nil(t, analysis.Primary)
	require.Len(t, analysis.Recommendations, 1)
	assert.Contains(t, analysis.Recommendations[0], "filtered due to poor connections")
}

func TestAnalyzeAndRankSelectsPrimaryAndAlternative(t *testing.T) {
	r := newTestRanker()

	offers := []models.Offer{
		directOffer("direct-180", 180, 90),
		oneStopOffer("onestop-220", 220, 240, "DEN", 150),
		oneStopOffer("cheap-45min-layover", 140, 200, "DEN", 45),
	}

	analysis := r.AnalyzeAndRank(offers, nil)
	require.NotNil(t, analysis.Primary)

	// The $140 offer is excluded for its unsafe connection; the direct
	// flight wins on stops and duration despite the higher price.
	assert.Equal(t, "direct-180", analysis.Primary.ID)
	assert.True(t, analysis.Primary.Scores.IsPrimary)
	assert.Equal(t, 1, analysis.Primary.Scores.Rank)

	require.Len(t, analysis.Alternatives, 1)
	assert.Equal(t, "onestop-220", analysis.Alternatives[0].ID)
	assert.True(t, analysis.Alternatives[0].Scores.IsAlternative)
	assert.Equal(t, 2, analysis.Alternatives[0].Scores.Rank)

	require.NotNil(t, analysis.PriceStatistics)
	assert.Equal(t, 2, analysis.PriceStatistics.Count)
}

func TestAnalyzeAndRankStableOnTies(t *testing.T) {
	r := newTestRanker()

	offers := []models.Offer{
		directOffer("first", 200, 120),
		directOffer("second", 200, 120),
		directOffer("third", 200, 120),
	}

	analysis := r.AnalyzeAndRank(offers, nil)
	require.NotNil(t, analysis.Primary)
	assert.Equal(t, "first", analysis.Primary.ID)
	require.Len(t, analysis.Alternatives, 2)
	assert.Equal(t, "second", analysis.Alternatives[0].ID)
	assert.Equal(t, "third", analysis.Alternatives[1].ID)
}

func TestAnalyzeAndRankAlternativesBounded(t *testing.T) {
	r := newTestRanker()

	var offers []models.Offer
	for i := 0; i < 9; i++ {
		offers = append(offers, directOffer(string(rune('a'+i)), float64(100+i*20), 90+i*10))
	}

	analysis := r.AnalyzeAndRank(offers, nil)
	require.NotNil(t, analysis.Primary)
	assert.LessOrEqual(t, len(analysis.Alternatives), testEngineConfig().Search.MaxAlternatives-1)
}

func TestAnalyzeAndRankDoesNotMutateInput(t *testing.T) {
	r := newTestRanker()

	offers := []models.Offer{
		directOffer("a", 180, 90),
		oneStopOffer("b", 220, 240, "DEN", 150),
	}

	_ = r.AnalyzeAndRank(offers, nil)

	for _, o := range offers {
		assert.Zero(t, o.ConvenienceScore, "input offer %s was mutated", o.ID)
	}
}

func TestRecommendationsPrimaryLine(t *testing.T) {
	r := newTestRanker()

	analysis := r.AnalyzeAndRank([]models.Offer{
		directOffer("direct", 180, 90),
		oneStopOffer("alt", 220, 240, "DEN", 150),
	}, nil)

	require.NotEmpty(t, analysis.Recommendations)
	first := analysis.Recommendations[0]
	assert.Contains(t, first, "direct flight")
	assert.Contains(t, first, "$180")

	joined := strings.Join(analysis.Recommendations, "\n")
	// $180 sits at the 25th percentile of {180,220}; priced ≤ q25 means
	// the excellent tier fires and suppresses the good-value tier.
	assert.Contains(t, joined, "Excellent deal")
	assert.NotContains(t, joined, "Good value")
	// 90 minutes total: very fast, not merely quick.
	assert.Contains(t, joined, "Very fast")
	assert.NotContains(t, joined, "Quick trip")
}

func TestRecommendationsSavingsCallout(t *testing.T) {
	r := newTestRanker()

	// Alternative is >5% cheaper than the primary.
	analysis := r.AnalyzeAndRank([]models.Offer{
		directOffer("fast-pricey", 400, 90),
		oneStopOffer("cheap-slow", 200, 600, "DEN", 165),
	}, nil)

	require.NotNil(t, analysis.Primary)
	assert.Equal(t, "fast-pricey", analysis.Primary.ID)

	joined := strings.Join(analysis.Recommendations, "\n")
	assert.Contains(t, joined, "save $200")
}

func TestRecommendationsLayoverNotices(t *testing.T) {
	r := newTestRanker()

	// 300min layover survives the filter (≤360) but draws a long-layover
	// notice: 5hr 0min.
	analysis := r.AnalyzeAndRank([]models.Offer{
		oneStopOffer("long-layover", 180, 500, "ORD", 300),
	}, nil)

	joined := strings.Join(analysis.Recommendations, "\n")
	assert.Contains(t, joined, "Long layover: 5hr 0min in ORD")
	assert.NotContains(t, joined, "may be tight")
}

func TestRecommendationsBusyDatesNote(t *testing.T) {
	r := newTestRanker()

	analysis := r.AnalyzeAndRank([]models.Offer{
		directOffer("a", 180, 90),
	}, []string{"2026-09-10", "2026-09-11"})

	joined := strings.Join(analysis.Recommendations, "\n")
	assert.Contains(t, joined, "2 dates marked as busy")
}

func TestFlexibleDateAlternatives(t *testing.T) {
	r := newTestRanker()

	byDate := map[string][]models.Offer{
		"2026-09-14": {directOffer("mon", 220, 90)},
		"2026-09-15": {directOffer("tue", 180, 90)},
		"2026-09-16": {oneStopOffer("wed-unsafe", 120, 300, "DEN", 30)},
	}

	best := r.FlexibleDateAlternatives(byDate, []string{"2026-09-14"})

	// Busy date removed, unsafe date yields no primary and is dropped.
	require.Len(t, best, 1)
	assert.Equal(t, "tue", best["2026-09-15"].ID)
}

package pricing

import (
	"math"
	"sort"

	"github.com/skydeals/flightmonitor/internal/models"
)

// CalculateStatistics computes the distributional snapshot over a candidate
// set's prices. Returns nil for an empty set.
func CalculateStatistics(offers []models.Offer) *models.PriceStatistics {
	if len(offers) == 0 {
		return nil
	}

	prices := make([]float64, len(offers))
	for i, o := range offers {
		prices[i] = o.TotalPrice
	}
	sort.Float64s(prices)

	stats := &models.PriceStatistics{
		Min:    prices[0],
		Max:    prices[len(prices)-1],
		Mean:   mean(prices),
		Median: percentile(prices, 50),
		StdDev: populationStdDev(prices),
		Count:  len(prices),
		Q25:    percentile(prices, 25),
		Q75:    percentile(prices, 75),
	}
	stats.Range = stats.Max - stats.Min

	return stats
}

// HistoricalStats summarizes a route's price series for deal and alert checks.
type HistoricalStats struct {
	Mean   float64
	Min    float64
	StdDev float64
	Count  int
}

// CalculateSeries computes mean, minimum, and population standard deviation
// over a historical price series. Returns nil for an empty series.
func CalculateSeries(points []models.PricePoint) *HistoricalStats {
	if len(points) == 0 {
		return nil
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
	}
	sort.Float64s(prices)

	return &HistoricalStats{
		Mean:   mean(prices),
		Min:    prices[0],
		StdDev: populationStdDev(prices),
		Count:  len(prices),
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64) float64 {
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// percentile interpolates linearly between the two nearest ranks.
// Input must be sorted ascending.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

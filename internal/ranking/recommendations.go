package ranking

import (
	"fmt"

	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/pkg/currency"
)

func (r *Ranker) recommendations(primary models.ScoredOffer, alternatives []models.ScoredOffer,
	stats *models.PriceStatistics, busyDates []string) []string {

	var recs []string

	if primary.Direct() {
		recs = append(recs, fmt.Sprintf("Primary: direct flight for %s - best convenience",
			currency.FormatUSD(primary.TotalPrice)))
	} else {
		recs = append(recs, fmt.Sprintf("Primary: %s with %d stop(s) - best overall value",
			currency.FormatUSD(primary.TotalPrice), primary.Stops))
	}

	// Value and speed tiers are mutually exclusive; the stricter check wins.
	if primary.TotalPrice <= stats.Q25 {
		recs = append(recs, "Excellent deal - price in bottom 25% of options")
	} else if primary.TotalPrice <= stats.Median {
		recs = append(recs, "Good value - below median price")
	}

	if primary.DurationMinutes <= 2*60 {
		recs = append(recs, "Very fast - under 2 hours total travel")
	} else if primary.DurationMinutes <= 4*60 {
		recs = append(recs, "Quick trip - under 4 hours total travel")
	}

	if len(alternatives) > 0 {
		cheapest := alternatives[0]
		for _, alt := range alternatives[1:] {
			if alt.TotalPrice < cheapest.TotalPrice {
				cheapest = alt
			}
		}
		if cheapest.TotalPrice < primary.TotalPrice*0.95 {
			savings := primary.TotalPrice - cheapest.TotalPrice
			recs = append(recs, fmt.Sprintf("Alternative: save %s with similar convenience",
				currency.FormatUSD(savings)))
		}
	}

	top := append([]models.ScoredOffer{primary}, alternatives...)
	if len(top) > layoverWarningDepth {
		top = top[:layoverWarningDepth]
	}
	for _, offer := range top {
		for i, duration := range offer.LayoverDurations {
			airport := offer.LayoverAirports[i]
			if duration < r.cfg.Connection.MinLayoverMinutes {
				recs = append(recs, fmt.Sprintf("Warning: %dmin layover in %s may be tight",
					duration, airport))
			}
			if duration > longLayoverNoticeMinutes {
				recs = append(recs, fmt.Sprintf("Long layover: %dhr %dmin in %s",
					duration/60, duration%60, airport))
			}
		}
	}

	// The single-date path only reports busy dates; removal happens on the
	// flexible-date path. Kept as two separate documented behaviors.
	if len(busyDates) > 0 {
		recs = append(recs, fmt.Sprintf("Note: %d dates marked as busy - showing alternatives",
			len(busyDates)))
	}

	return recs
}

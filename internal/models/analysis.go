package models

// ScoreBreakdown records the weighted sub-scores behind one offer's
// convenience score, plus the rank the orchestrator assigned.
type ScoreBreakdown struct {
	Price          float64 `json:"price"`
	Duration       float64 `json:"duration"`
	Stops          float64 `json:"stops"`
	LayoverQuality float64 `json:"layover_quality"`
	Total          float64 `json:"total"`
	Rank           int     `json:"rank"`
	IsPrimary      bool    `json:"is_primary"`
	IsAlternative  bool    `json:"is_alternative"`
}

// ScoredOffer is an annotated copy of an input offer. The ranking pass never
// writes to caller-owned offers; it scores copies, so the same candidate set
// can be analyzed concurrently.
type ScoredOffer struct {
	Offer
	Scores ScoreBreakdown `json:"scores"`
}

// PriceStatistics is a snapshot over the prices of one candidate set.
// Percentiles use linear interpolation; StdDev is the population deviation.
type PriceStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Range  float64 `json:"range"`
	Count  int     `json:"count"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Analysis is the result of one analyze-and-rank call. Primary is nil when the
// input was empty or fully filtered; Recommendations always explains why.
// Alternatives are in rank order.
type Analysis struct {
	Primary         *ScoredOffer     `json:"primary,omitempty"`
	Alternatives    []ScoredOffer    `json:"alternatives,omitempty"`
	PriceStatistics *PriceStatistics `json:"price_statistics,omitempty"`
	Recommendations []string         `json:"recommendations"`
}

// Deal tags an offer with the reasons it qualified as unusually good value.
type Deal struct {
	Offer   Offer    `json:"offer"`
	Reasons []string `json:"reasons"`
}

// PricePoint is one observation in a route's historical price series.
type PricePoint struct {
	RecordedAt int64   `json:"recorded_at"` // unix seconds
	Price      float64 `json:"price"`
}

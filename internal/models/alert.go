package models

import "time"

type AlertType string

const (
	AlertPriceDrop     AlertType = "price_drop"
	AlertHistoricalLow AlertType = "historical_low"
)

// Alert is produced per detection call and not retained by the engine.
// PriceDrop alerts carry HistoricalMean/DropAmount/DropPercent; HistoricalLow
// alerts carry HistoricalLow. CurrentPrice is always set.
type Alert struct {
	ID             string    `json:"id"`
	Type           AlertType `json:"type"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	CurrentPrice   float64   `json:"current_price"`
	HistoricalMean float64   `json:"historical_mean,omitempty"`
	DropAmount     float64   `json:"drop_amount,omitempty"`
	DropPercent    float64   `json:"drop_percent,omitempty"`
	HistoricalLow  float64   `json:"historical_low,omitempty"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

package models

import (
	"fmt"
	"time"
)

// Segment is one flown leg of an itinerary. Immutable once constructed.
type Segment struct {
	CarrierCode  string    `json:"carrier_code"`
	CarrierName  string    `json:"carrier_name"`
	FlightNumber string    `json:"flight_number"`
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	CabinClass   string    `json:"cabin_class"`
}

// Offer is one bookable itinerary. LayoverAirports and LayoverDurations are
// parallel slices, one entry per stop. ConvenienceScore is zero until the
// ranking pass assigns it on its own copy of the offer.
type Offer struct {
	ID               string    `json:"id"`
	Provider         string    `json:"provider"`
	Segments         []Segment `json:"segments"`
	TotalPrice       float64   `json:"total_price"`
	Currency         string    `json:"currency"`
	BookingURL       string    `json:"booking_url"`
	DurationMinutes  int       `json:"duration_minutes"`
	Stops            int       `json:"stops"`
	LayoverAirports  []string  `json:"layover_airports,omitempty"`
	LayoverDurations []int     `json:"layover_durations,omitempty"`
	ConvenienceScore float64   `json:"convenience_score,omitempty"`
}

// Validate enforces the structural invariants producers must uphold.
// A malformed offer is a producer bug and is rejected before it reaches
// the scoring pipeline.
func (o *Offer) Validate() error {
	if len(o.Segments) == 0 {
		return fmt.Errorf("offer %s: no segments", o.ID)
	}
	if o.TotalPrice < 0 {
		return fmt.Errorf("offer %s: negative price %.2f", o.ID, o.TotalPrice)
	}
	if o.Stops != len(o.Segments)-1 {
		return fmt.Errorf("offer %s: stops=%d but %d segments", o.ID, o.Stops, len(o.Segments))
	}
	if len(o.LayoverAirports) != o.Stops || len(o.LayoverDurations) != o.Stops {
		return fmt.Errorf("offer %s: layover data mismatch (airports=%d durations=%d stops=%d)",
			o.ID, len(o.LayoverAirports), len(o.LayoverDurations), o.Stops)
	}
	return nil
}

// Direct reports whether the offer has no layovers.
func (o *Offer) Direct() bool {
	return o.Stops == 0
}

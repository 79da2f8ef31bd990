package providers

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/timezone"
)

// MockProvider generates realistic offers for development and demo runs when
// no live API is configured. Output is deterministic per route and date.
type MockProvider struct {
	logger zerolog.Logger
}

func NewMockProvider(logger zerolog.Logger) *MockProvider {
	return &MockProvider{
		logger: logger.With().Str("provider", "mock").Logger(),
	}
}

func (p *MockProvider) Name() string {
	return "mock"
}

var mockCarriers = [][2]string{
	{"AA", "American Airlines"},
	{"DL", "Delta Air Lines"},
	{"UA", "United Airlines"},
	{"WN", "Southwest Airlines"},
	{"AS", "Alaska Airlines"},
	{"B6", "JetBlue Airways"},
}

var routeDurations = map[string]int{
	"LAX-PHX": 70, "PHX-LAX": 70,
	"LAX-TUS": 80, "TUS-LAX": 80,
	"BUR-PHX": 75, "PHX-BUR": 75,
	"SNA-PHX": 75, "PHX-SNA": 75,
	"LGB-PHX": 75, "PHX-LGB": 75,
}

var routeBasePrices = map[string]float64{
	"LAX-PHX": 180, "PHX-LAX": 180,
	"LAX-TUS": 220, "TUS-LAX": 220,
	"BUR-PHX": 160, "PHX-BUR": 160,
	"SNA-PHX": 190, "PHX-SNA": 190,
	"LGB-PHX": 170, "PHX-LGB": 170,
}

var connectingHubs = []string{"DEN", "DFW", "ORD", "ATL", "PHX", "LAX", "SFO", "SEA", "LAS"}

func (p *MockProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error) {
	// Simulated upstream latency, kept small and interruptible.
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	baseDate, err := time.ParseInLocation("2006-01-02", req.DepartureDate,
		timezone.GetLocationByAirport(req.Origin))
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	rng := rand.New(rand.NewSource(routeSeed(req.Origin, req.Destination, req.DepartureDate)))
	count := 8 + rng.Intn(5)

	offers := make([]models.Offer, 0, count)
	for i := 0; i < count; i++ {
		offer := p.generateOffer(rng, req, baseDate)
		if err := offer.Validate(); err != nil {
			p.logger.Warn().Err(err).Msg("discarding malformed generated offer")
			continue
		}
		offers = append(offers, offer)
	}

	p.logger.Debug().Int("offers", len(offers)).
		Str("route", req.Origin+"-"+req.Destination).Msg("generated mock offers")
	return offers, nil
}

func (p *MockProvider) generateOffer(rng *rand.Rand, req models.SearchRequest, baseDate time.Time) models.Offer {
	carrier := mockCarriers[rng.Intn(len(mockCarriers))]
	code, name := carrier[0], carrier[1]

	departure := baseDate.Add(time.Duration(6+rng.Intn(17)) * time.Hour).
		Add(time.Duration(rng.Intn(4)*15) * time.Minute)

	var stops int
	switch roll := rng.Float64(); {
	case roll < 0.4:
		stops = 0
	case roll < 0.9:
		stops = 1
	default:
		stops = 2
	}

	var (
		segments         []models.Segment
		layoverAirports  []string
		layoverDurations []int
	)

	if stops == 0 {
		duration := routeDuration(req.Origin, req.Destination) - 30 + rng.Intn(90)
		if duration < 60 {
			duration = 60
		}
		segments = append(segments, p.segment(rng, code, name, req.Origin, req.Destination,
			departure, duration, req.CabinClass))
	} else {
		hubs := availableHubs(req.Origin, req.Destination)
		current := req.Origin
		cursor := departure

		for leg := 0; leg <= stops; leg++ {
			dest := req.Destination
			if leg < stops {
				dest = hubs[rng.Intn(len(hubs))]
				layoverAirports = append(layoverAirports, dest)
			}

			legDuration := 60 + rng.Intn(120)
			segments = append(segments, p.segment(rng, code, name, current, dest,
				cursor, legDuration, req.CabinClass))
			cursor = cursor.Add(time.Duration(legDuration) * time.Minute)

			if leg < stops {
				layover := 45 + rng.Intn(136)
				layoverDurations = append(layoverDurations, layover)
				cursor = cursor.Add(time.Duration(layover) * time.Minute)
				current = dest
			}
		}
	}

	first := segments[0]
	last := segments[len(segments)-1]
	totalDuration := int(last.Arrival.Sub(first.Departure).Minutes())

	base := routeBasePrice(req.Origin, req.Destination)
	price := base * (0.7 + rng.Float64()*0.7) * (1 + float64(stops)*0.1)
	price = float64(int(price/10)) * 10

	return models.Offer{
		ID:               uuid.NewString(),
		Provider:         p.Name(),
		Segments:         segments,
		TotalPrice:       price,
		Currency:         "USD",
		BookingURL:       fmt.Sprintf("https://book.%s.com/flight/%s/%s-%s", strings.ToLower(code), req.DepartureDate, req.Origin, req.Destination),
		DurationMinutes:  totalDuration,
		Stops:            stops,
		LayoverAirports:  layoverAirports,
		LayoverDurations: layoverDurations,
	}
}

func (p *MockProvider) segment(rng *rand.Rand, code, name, origin, destination string,
	departure time.Time, durationMinutes int, cabin string) models.Segment {
	if cabin == "" {
		cabin = "economy"
	}
	arrival := departure.Add(time.Duration(durationMinutes) * time.Minute)
	return models.Segment{
		CarrierCode:  code,
		CarrierName:  name,
		FlightNumber: fmt.Sprintf("%s%d", code, 100+rng.Intn(9900)),
		Origin:       origin,
		Destination:  destination,
		Departure:    timezone.ConvertToAirport(departure, origin),
		Arrival:      timezone.ConvertToAirport(arrival, destination),
		CabinClass:   cabin,
	}
}

func routeDuration(origin, destination string) int {
	if d, ok := routeDurations[origin+"-"+destination]; ok {
		return d
	}
	return 120
}

func routeBasePrice(origin, destination string) float64 {
	if p, ok := routeBasePrices[origin+"-"+destination]; ok {
		return p
	}
	return 250
}

func availableHubs(origin, destination string) []string {
	hubs := make([]string, 0, len(connectingHubs))
	for _, h := range connectingHubs {
		if h != origin && h != destination {
			hubs = append(hubs, h)
		}
	}
	return hubs
}

func routeSeed(origin, destination, date string) int64 {
	h := fnv.New64a()
	h.Write([]byte(origin + "|" + destination + "|" + date))
	return int64(h.Sum64())
}

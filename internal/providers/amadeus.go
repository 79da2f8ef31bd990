package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/timezone"
)

const (
	tokenRenewalBuffer = time.Minute
	maxOfferResults    = 50
)

// AmadeusProvider searches the Amadeus flight-offers API. The OAuth token is
// cached until shortly before expiry and renewed lazily.
type AmadeusProvider struct {
	cfg        config.AmadeusConfig
	httpClient *http.Client
	logger     zerolog.Logger

	mu           sync.Mutex
	token        string
	tokenExpires time.Time
}

func NewAmadeusProvider(cfg config.AmadeusConfig, logger zerolog.Logger) (*AmadeusProvider, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("amadeus credentials not configured")
	}
	return &AmadeusProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("provider", "amadeus").Logger(),
	}, nil
}

func (p *AmadeusProvider) Name() string {
	return "amadeus"
}

func (p *AmadeusProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	params := url.Values{}
	params.Set("originLocationCode", req.Origin)
	params.Set("destinationLocationCode", req.Destination)
	params.Set("departureDate", req.DepartureDate)
	params.Set("adults", strconv.Itoa(req.Passengers))
	params.Set("max", strconv.Itoa(maxOfferResults))
	params.Set("currencyCode", "USD")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.cfg.BaseURL+"/v2/shopping/flight-offers?"+params.Encode(), nil)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewProviderError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(p.Name(), fmt.Errorf("offers search returned %d", resp.StatusCode))
	}

	var body amadeusOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, NewProviderError(p.Name(), err)
	}

	offers := make([]models.Offer, 0, len(body.Data))
	for _, raw := range body.Data {
		offer, err := p.normalize(raw)
		if err != nil {
			p.logger.Warn().Err(err).Str("offer", raw.ID).Msg("skipping unparseable offer")
			continue
		}
		offers = append(offers, offer)
	}

	p.logger.Info().Int("offers", len(offers)).
		Str("route", req.Origin+"-"+req.Destination).Msg("parsed amadeus offers")
	return offers, nil
}

func (p *AmadeusProvider) getToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.tokenExpires) {
		return p.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.cfg.APIKey)
	form.Set("client_secret", p.cfg.APISecret)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned %d", resp.StatusCode)
	}

	var tok amadeusTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}

	p.token = tok.AccessToken
	p.tokenExpires = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenRenewalBuffer)
	p.logger.Info().Msg("amadeus token renewed")

	return p.token, nil
}

func (p *AmadeusProvider) normalize(raw amadeusOffer) (models.Offer, error) {
	price, err := strconv.ParseFloat(raw.Price.Total, 64)
	if err != nil {
		return models.Offer{}, fmt.Errorf("parse price %q: %w", raw.Price.Total, err)
	}

	var (
		segments         []models.Segment
		layoverAirports  []string
		layoverDurations []int
		totalDuration    int
	)

	for _, itinerary := range raw.Itineraries {
		totalDuration += parseISODuration(itinerary.Duration)

		var prevArrival time.Time
		for i, seg := range itinerary.Segments {
			departure, err := timezone.ParseFlexible(seg.Departure.At)
			if err != nil {
				return models.Offer{}, fmt.Errorf("parse departure %q: %w", seg.Departure.At, err)
			}
			arrival, err := timezone.ParseFlexible(seg.Arrival.At)
			if err != nil {
				return models.Offer{}, fmt.Errorf("parse arrival %q: %w", seg.Arrival.At, err)
			}

			segments = append(segments, models.Segment{
				CarrierCode:  seg.CarrierCode,
				CarrierName:  carrierName(seg.CarrierCode),
				FlightNumber: seg.CarrierCode + seg.Number,
				Origin:       seg.Departure.IataCode,
				Destination:  seg.Arrival.IataCode,
				Departure:    departure,
				Arrival:      arrival,
				CabinClass:   defaultCabin(seg.Cabin),
			})

			if i > 0 && !prevArrival.IsZero() {
				layover := int(departure.Sub(prevArrival).Minutes())
				if layover > 0 {
					layoverAirports = append(layoverAirports, seg.Departure.IataCode)
					layoverDurations = append(layoverDurations, layover)
				}
			}
			prevArrival = arrival
		}
	}

	offer := models.Offer{
		ID:               raw.ID,
		Provider:         p.Name(),
		Segments:         segments,
		TotalPrice:       price,
		Currency:         raw.Price.Currency,
		BookingURL:       "https://www.amadeus.com/book?offer=" + raw.ID,
		DurationMinutes:  totalDuration,
		Stops:            len(layoverAirports),
		LayoverAirports:  layoverAirports,
		LayoverDurations: layoverDurations,
	}
	if err := offer.Validate(); err != nil {
		return models.Offer{}, err
	}
	return offer, nil
}

// parseISODuration converts an ISO-8601 duration like "PT2H30M" to minutes.
func parseISODuration(s string) int {
	s = strings.TrimPrefix(s, "PT")

	hours, minutes := 0, 0
	if idx := strings.Index(s, "H"); idx >= 0 {
		h, err := strconv.Atoi(s[:idx])
		if err != nil {
			return 0
		}
		hours = h
		s = s[idx+1:]
	}
	if idx := strings.Index(s, "M"); idx >= 0 {
		m, err := strconv.Atoi(s[:idx])
		if err != nil {
			return 0
		}
		minutes = m
	}

	return hours*60 + minutes
}

func defaultCabin(cabin string) string {
	if cabin == "" {
		return "economy"
	}
	return strings.ToLower(cabin)
}

var carrierNames = map[string]string{
	"AA": "American Airlines",
	"DL": "Delta Air Lines",
	"UA": "United Airlines",
	"WN": "Southwest Airlines",
	"AS": "Alaska Airlines",
	"B6": "JetBlue Airways",
	"NK": "Spirit Airlines",
	"F9": "Frontier Airlines",
	"HA": "Hawaiian Airlines",
	"SY": "Sun Country Airlines",
}

func carrierName(code string) string {
	if name, ok := carrierNames[code]; ok {
		return name
	}
	return code
}

type amadeusTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type amadeusOffersResponse struct {
	Data []amadeusOffer `json:"data"`
}

type amadeusOffer struct {
	ID          string             `json:"id"`
	Price       amadeusPrice       `json:"price"`
	Itineraries []amadeusItinerary `json:"itineraries"`
}

type amadeusPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type amadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []amadeusSegment `json:"segments"`
}

type amadeusSegment struct {
	CarrierCode string          `json:"carrierCode"`
	Number      string          `json:"number"`
	Departure   amadeusEndpoint `json:"departure"`
	Arrival     amadeusEndpoint `json:"arrival"`
	Cabin       string          `json:"cabin"`
}

type amadeusEndpoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

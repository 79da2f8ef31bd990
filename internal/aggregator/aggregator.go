package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/providers"
	"github.com/skydeals/flightmonitor/internal/ratelimit"
)

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.ProviderLimiter
}

// Aggregator fans one search out to every configured provider concurrently
// and merges the results. Provider failures degrade the result, they do not
// fail the search.
type Aggregator struct {
	providers []providers.Provider
	config    Config
	logger    zerolog.Logger
}

type Result struct {
	Offers             []models.Offer
	ProvidersQueried   int
	ProvidersSucceeded int
	ProvidersFailed    int
	FailedProviders    []string
}

func New(providerList []providers.Provider, config Config, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		providers: providerList,
		config:    config,
		logger:    logger.With().Str("component", "aggregator").Logger(),
	}
}

func (a *Aggregator) Search(ctx context.Context, req models.SearchRequest) (*Result, error) {
	searchCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	result := &Result{
		Offers:           make([]models.Offer, 0),
		ProvidersQueried: len(a.providers),
	}

	type providerResult struct {
		provider string
		offers   []models.Offer
		err      error
	}

	resultCh := make(chan providerResult, len(a.providers))
	var wg sync.WaitGroup

	for _, p := range a.providers {
		wg.Add(1)
		go func(provider providers.Provider) {
			defer wg.Done()

			if a.config.RateLimiter != nil {
				if err := a.config.RateLimiter.Wait(searchCtx, provider.Name()); err != nil {
					resultCh <- providerResult{provider: provider.Name(), err: err}
					return
				}
			}

			offers, err := a.searchWithRetry(searchCtx, provider, req)
			resultCh <- providerResult{provider: provider.Name(), offers: offers, err: err}
		}(p)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for pr := range resultCh {
		if pr.err != nil {
			a.logger.Warn().Err(pr.err).Str("provider", pr.provider).Msg("provider search failed")
			result.ProvidersFailed++
			result.FailedProviders = append(result.FailedProviders, pr.provider)
		} else {
			result.ProvidersSucceeded++
			result.Offers = append(result.Offers, pr.offers...)
		}
	}

	return result, nil
}

func (a *Aggregator) searchWithRetry(ctx context.Context, provider providers.Provider, req models.SearchRequest) ([]models.Offer, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(a.config.RetryDelays) {
				delayIdx = len(a.config.RetryDelays) - 1
			}

			select {
			case <-time.After(a.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		offers, err := provider.Search(ctx, req)
		if err == nil {
			return offers, nil
		}

		lastErr = err
		a.logger.Debug().Err(err).Str("provider", provider.Name()).
			Int("attempt", attempt+1).Msg("provider attempt failed")
	}

	return nil, lastErr
}

// SearchWindow searches preferred_date ± flexDays concurrently and returns
// candidates grouped by date. Dates whose searches fail or come back empty
// are omitted; the flexible-date ranking treats them as unavailable.
func (a *Aggregator) SearchWindow(ctx context.Context, req models.SearchRequest, flexDays int) (map[string][]models.Offer, error) {
	baseDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return nil, err
	}

	windowCtx, cancel := context.WithTimeout(ctx, a.config.Timeout*time.Duration(2*flexDays+1))
	defer cancel()

	type dateResult struct {
		date   string
		offers []models.Offer
	}

	resultCh := make(chan dateResult, 2*flexDays+1)
	var wg sync.WaitGroup

	for offset := -flexDays; offset <= flexDays; offset++ {
		date := baseDate.AddDate(0, 0, offset).Format("2006-01-02")
		dayReq := req
		dayReq.DepartureDate = date

		wg.Add(1)
		go func(date string, dayReq models.SearchRequest) {
			defer wg.Done()

			result, err := a.Search(windowCtx, dayReq)
			if err != nil {
				a.logger.Warn().Err(err).Str("date", date).Msg("window search failed")
				return
			}
			if len(result.Offers) > 0 {
				resultCh <- dateResult{date: date, offers: result.Offers}
			}
		}(date, dayReq)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	byDate := make(map[string][]models.Offer)
	for dr := range resultCh {
		byDate[dr.date] = dr.offers
	}

	return byDate, nil
}

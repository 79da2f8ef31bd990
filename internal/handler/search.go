package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/aggregator"
	"github.com/skydeals/flightmonitor/internal/alerts"
	"github.com/skydeals/flightmonitor/internal/cache"
	"github.com/skydeals/flightmonitor/internal/history"
	"github.com/skydeals/flightmonitor/internal/models"
	"github.com/skydeals/flightmonitor/internal/pricing"
	"github.com/skydeals/flightmonitor/internal/ranking"
)

type SearchHandler struct {
	aggregator   *aggregator.Aggregator
	cache        cache.Cache
	ranker       *ranking.Ranker
	detector     *alerts.Detector
	history      *history.Store
	historyDays  int
	flexibleDays int
	logger       zerolog.Logger
}

type Config struct {
	HistoryDays  int
	FlexibleDays int
}

func NewSearchHandler(agg *aggregator.Aggregator, c cache.Cache, ranker *ranking.Ranker,
	detector *alerts.Detector, hist *history.Store, cfg Config, logger zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		aggregator:   agg,
		cache:        c,
		ranker:       ranker,
		detector:     detector,
		history:      hist,
		historyDays:  cfg.HistoryDays,
		flexibleDays: cfg.FlexibleDays,
		logger:       logger.With().Str("component", "handler").Logger(),
	}
}

// Search fetches candidates (cache-aware), ranks them, flags deals against
// the route's price history, and raises any price alerts. The analysis itself
// never fails; an empty market comes back as a result with an explanation.
func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	offers, cacheHit := h.cache.Get(ctx, req)
	meta := models.SearchMetadata{CacheHit: cacheHit}

	if !cacheHit {
		result, err := h.aggregator.Search(ctx, req)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "search_error",
				Message: "Failed to search flights: " + err.Error(),
				Code:    http.StatusInternalServerError,
			})
		}
		offers = result.Offers
		meta.ProvidersQueried = result.ProvidersQueried
		meta.ProvidersSucceeded = result.ProvidersSucceeded
		meta.ProvidersFailed = result.ProvidersFailed
		meta.FailedProviders = result.FailedProviders

		if err := h.cache.Set(ctx, req, offers); err != nil {
			h.logger.Warn().Err(err).Msg("cache write failed")
		}
	}

	// Read the lookback window before recording today's prices so the
	// comparison baseline excludes the current observation.
	series, err := h.history.Window(ctx, req.Origin, req.Destination, h.historyDays)
	if err != nil {
		h.logger.Warn().Err(err).Msg("price history unavailable")
	}

	analysis := h.ranker.AnalyzeAndRank(offers, req.BusyDates)
	deals := pricing.IdentifyDeals(offers, series)
	routeAlerts := h.detector.CheckPriceDrops(offers, series, req.Origin, req.Destination)

	if !cacheHit {
		if err := h.history.Record(ctx, req.Origin, req.Destination, offers); err != nil {
			h.logger.Warn().Err(err).Msg("history write failed")
		}
	}

	meta.TotalResults = len(offers)
	meta.SearchTimeMs = time.Since(startTime).Milliseconds()

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: buildSearchCriteria(req),
		Metadata:       meta,
		Analysis:       analysis,
		Deals:          deals,
		Alerts:         routeAlerts,
	})
}

// Flexible searches departure_date ± the flexible window, excludes busy
// dates, and returns the best offer per remaining date.
func (h *SearchHandler) Flexible(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	byDate, err := h.aggregator.SearchWindow(ctx, req, h.flexibleDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: "Failed to search flexible dates: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	options := h.ranker.FlexibleDateAlternatives(byDate, req.BusyDates)

	return c.JSON(http.StatusOK, models.FlexibleResponse{
		SearchCriteria: buildSearchCriteria(req),
		Metadata: models.SearchMetadata{
			TotalResults: len(options),
			SearchTimeMs: time.Since(startTime).Milliseconds(),
		},
		Options: options,
	})
}

func buildSearchCriteria(req models.SearchRequest) models.SearchCriteria {
	return models.SearchCriteria{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		Passengers:    req.Passengers,
		CabinClass:    req.CabinClass,
		BusyDates:     req.BusyDates,
	}
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

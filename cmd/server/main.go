package main

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skydeals/flightmonitor/internal/aggregator"
	"github.com/skydeals/flightmonitor/internal/alerts"
	"github.com/skydeals/flightmonitor/internal/cache"
	"github.com/skydeals/flightmonitor/internal/config"
	"github.com/skydeals/flightmonitor/internal/connection"
	"github.com/skydeals/flightmonitor/internal/handler"
	"github.com/skydeals/flightmonitor/internal/history"
	"github.com/skydeals/flightmonitor/internal/pricing"
	"github.com/skydeals/flightmonitor/internal/providers"
	"github.com/skydeals/flightmonitor/internal/ranking"
	"github.com/skydeals/flightmonitor/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLogger := zerolog.New(os.Stderr)
		fallbackLogger.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)

	providerList := buildProviders(cfg, logger)
	logger.Info().Int("providers", len(providerList)).Msg("initialized offer providers")

	rateLimiter := ratelimit.NewWithDefaults()
	rateLimiter.SetProviderLimit("amadeus", 1, 2)
	rateLimiter.SetProviderLimit("mock", 50, 100)

	agg := aggregator.New(providerList, aggregator.Config{
		Timeout:    20 * time.Second,
		MaxRetries: 2,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
		RateLimiter: rateLimiter,
	}, logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	var offerCache cache.Cache = cache.NewNoOpCache()
	if cfg.Redis.CacheEnabled {
		offerCache = cache.NewRedisCacheWithClient(redisClient, cfg.Redis.CacheTTL)
		logger.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("offer cache enabled")
	} else {
		logger.Info().Msg("offer cache disabled")
	}

	historyStore := history.NewStore(redisClient, cfg.Redis.RetentionDays, logger)

	evaluator := connection.NewEvaluator(cfg.Engine.Connection, logger)
	scorer := pricing.NewScorer(cfg.Engine.Weights, evaluator)
	ranker := ranking.NewRanker(cfg.Engine, evaluator, scorer, logger)
	detector := alerts.NewDetector(cfg.Engine.Alerts, logger)

	searchHandler := handler.NewSearchHandler(agg, offerCache, ranker, detector, historyStore,
		handler.Config{
			HistoryDays:  cfg.Redis.HistoryDays,
			FlexibleDays: cfg.Engine.Search.FlexibleDays,
		}, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	api := e.Group("/api/v1")
	api.POST("/flights/search", searchHandler.Search)
	api.POST("/flights/flexible", searchHandler.Flexible)
	e.GET("/health", handler.HealthHandler)

	logger.Info().Str("port", cfg.Server.Port).Msg("starting flight monitor server")
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Environment == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

// buildProviders wires the live Amadeus client when credentials exist and
// falls back to the mock generator otherwise, matching demo-mode behavior.
func buildProviders(cfg *config.Config, logger zerolog.Logger) []providers.Provider {
	if cfg.Amadeus.APIKey != "" && cfg.Amadeus.APISecret != "" {
		amadeus, err := providers.NewAmadeusProvider(cfg.Amadeus, logger)
		if err == nil {
			return []providers.Provider{amadeus}
		}
		logger.Warn().Err(err).Msg("amadeus unavailable, using mock data")
	} else {
		logger.Info().Msg("no amadeus credentials, using mock data")
	}
	return []providers.Provider{providers.NewMockProvider(logger)}
}

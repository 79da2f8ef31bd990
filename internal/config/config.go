package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	Server      ServerConfig  `mapstructure:"server"`
	Redis       RedisConfig   `mapstructure:"redis"`
	Amadeus     AmadeusConfig `mapstructure:"amadeus"`
	Engine      EngineConfig  `mapstructure:"engine"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type RedisConfig struct {
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	CacheEnabled  bool          `mapstructure:"cache_enabled"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	HistoryDays   int           `mapstructure:"history_days"`
	RetentionDays int           `mapstructure:"retention_days"`
}

type AmadeusConfig struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

// EngineConfig holds every tunable the scoring engine reads. The engine
// treats these as read-only after startup; there are no package-level
// mutable constants.
type EngineConfig struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	Weights    WeightConfig     `mapstructure:"weights"`
	Alerts     AlertConfig      `mapstructure:"alerts"`
	Search     SearchConfig     `mapstructure:"search"`
}

type ConnectionConfig struct {
	MinLayoverMinutes int      `mapstructure:"min_layover_minutes"`
	MaxLayoverMinutes int      `mapstructure:"max_layover_minutes"`
	MaxTransfers      int      `mapstructure:"max_transfers"`
	MajorHubs         []string `mapstructure:"major_hubs"`
}

type WeightConfig struct {
	Price          float64 `mapstructure:"price"`
	Duration       float64 `mapstructure:"duration"`
	Stops          float64 `mapstructure:"stops"`
	LayoverQuality float64 `mapstructure:"layover_quality"`
}

type AlertConfig struct {
	PriceDropAbsolute float64 `mapstructure:"price_drop_absolute"`
	PriceDropPercent  float64 `mapstructure:"price_drop_percent"`
}

type SearchConfig struct {
	MaxAlternatives int `mapstructure:"max_alternatives"`
	FlexibleDays    int `mapstructure:"flexible_days"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.port", "8080")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_enabled", true)
	viper.SetDefault("redis.cache_ttl", 5*time.Minute)
	viper.SetDefault("redis.history_days", 30)
	viper.SetDefault("redis.retention_days", 90)

	viper.SetDefault("amadeus.base_url", "https://api.amadeus.com")

	viper.SetDefault("engine.connection.min_layover_minutes", 90)
	viper.SetDefault("engine.connection.max_layover_minutes", 240)
	viper.SetDefault("engine.connection.max_transfers", 2)
	viper.SetDefault("engine.connection.major_hubs", []string{
		"ATL", "ORD", "DFW", "DEN", "LAX", "PHX", "LAS", "DTW",
		"MSP", "SEA", "EWR", "JFK", "LGA", "BOS", "IAD", "DCA",
		"MIA", "FLL", "MCO", "SFO", "SJC", "PDX", "SLC",
	})

	viper.SetDefault("engine.weights.price", 0.40)
	viper.SetDefault("engine.weights.duration", 0.30)
	viper.SetDefault("engine.weights.stops", 0.20)
	viper.SetDefault("engine.weights.layover_quality", 0.10)

	viper.SetDefault("engine.alerts.price_drop_absolute", 50.0)
	viper.SetDefault("engine.alerts.price_drop_percent", 15.0)

	viper.SetDefault("engine.search.max_alternatives", 5)
	viper.SetDefault("engine.search.flexible_days", 3)
}

func (e EngineConfig) Validate() error {
	if e.Connection.MinLayoverMinutes <= 0 || e.Connection.MaxLayoverMinutes <= e.Connection.MinLayoverMinutes {
		return fmt.Errorf("invalid layover band: min=%d max=%d",
			e.Connection.MinLayoverMinutes, e.Connection.MaxLayoverMinutes)
	}
	if e.Search.MaxAlternatives < 1 {
		return fmt.Errorf("max_alternatives must be at least 1, got %d", e.Search.MaxAlternatives)
	}
	sum := e.Weights.Price + e.Weights.Duration + e.Weights.Stops + e.Weights.LayoverQuality
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.2f", sum)
	}
	return nil
}

// IsMajorHub reports whether the airport has the connection facilities of a
// major hub. Lookup is case-insensitive.
func (c ConnectionConfig) IsMajorHub(code string) bool {
	code = strings.ToUpper(code)
	for _, hub := range c.MajorHubs {
		if code == strings.ToUpper(hub) {
			return true
		}
	}
	return false
}

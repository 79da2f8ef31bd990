package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.True(t, cfg.Redis.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 30, cfg.Redis.HistoryDays)
	assert.Equal(t, 90, cfg.Redis.RetentionDays)

	assert.Equal(t, 90, cfg.Engine.Connection.MinLayoverMinutes)
	assert.Equal(t, 240, cfg.Engine.Connection.MaxLayoverMinutes)
	assert.Equal(t, 2, cfg.Engine.Connection.MaxTransfers)
	assert.NotEmpty(t, cfg.Engine.Connection.MajorHubs)

	assert.Equal(t, 0.40, cfg.Engine.Weights.Price)
	assert.Equal(t, 0.30, cfg.Engine.Weights.Duration)
	assert.Equal(t, 0.20, cfg.Engine.Weights.Stops)
	assert.Equal(t, 0.10, cfg.Engine.Weights.LayoverQuality)

	assert.Equal(t, 50.0, cfg.Engine.Alerts.PriceDropAbsolute)
	assert.Equal(t, 15.0, cfg.Engine.Alerts.PriceDropPercent)

	assert.Equal(t, 5, cfg.Engine.Search.MaxAlternatives)
	assert.Equal(t, 3, cfg.Engine.Search.FlexibleDays)
}

func validEngineConfig() EngineConfig {
	return EngineConfig{
		Connection: ConnectionConfig{
			MinLayoverMinutes: 90,
			MaxLayoverMinutes: 240,
			MaxTransfers:      2,
		},
		Weights: WeightConfig{
			Price:          0.40,
			Duration:       0.30,
			Stops:          0.20,
			LayoverQuality: 0.10,
		},
		Search: SearchConfig{MaxAlternatives: 5, FlexibleDays: 3},
	}
}

func TestEngineValidate(t *testing.T) {
	assert.NoError(t, validEngineConfig().Validate())
}

func TestEngineValidateLayoverBand(t *testing.T) {
	cfg := validEngineConfig()
	cfg.Connection.MinLayoverMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = validEngineConfig()
	cfg.Connection.MaxLayoverMinutes = 90
	assert.Error(t, cfg.Validate())
}

func TestEngineValidateMaxAlternatives(t *testing.T) {
	cfg := validEngineConfig()
	cfg.Search.MaxAlternatives = 0
	assert.Error(t, cfg.Validate())
}

func TestEngineValidateWeightSum(t *testing.T) {
	cfg := validEngineConfig()
	cfg.Weights.Price = 0.80
	require.Error(t, cfg.Validate())
	assert.Contains(t, cfg.Validate().Error(), "weights must sum")
}

func TestIsMajorHub(t *testing.T) {
	cfg := ConnectionConfig{MajorHubs: []string{"DEN", "phx"}}

	assert.True(t, cfg.IsMajorHub("DEN"))
	assert.True(t, cfg.IsMajorHub("den"))
	assert.True(t, cfg.IsMajorHub("PHX"))
	assert.False(t, cfg.IsMajorHub("XNA"))
	assert.False(t, cfg.IsMajorHub(""))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.API.AnalysisTimeout)
	assert.Equal(t, 10*time.Second, cfg.API.LookupTimeout)
	assert.False(t, cfg.Synthetic.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.Duration)
	assert.Equal(t, 1000, cfg.Cache.MaxSize)
	assert.Equal(t, []string{"Dublin", "Cork", "Maryland Park"}, cfg.Refresh.DefaultLocations)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("FIBER_PORT", "9090")
	t.Setenv("USE_SYNTHETIC_DATA", "true")
	t.Setenv("MOCK_LATENCY", "50ms")
	t.Setenv("ANALYSIS_TIMEOUT", "90s")
	t.Setenv("DEFAULT_LOCATIONS", "Seattle,Boston")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Synthetic.Enabled)
	assert.Equal(t, 50*time.Millisecond, cfg.Synthetic.MockLatency)
	assert.Equal(t, 90*time.Second, cfg.API.AnalysisTimeout)
	assert.Equal(t, []string{"Seattle", "Boston"}, cfg.Refresh.DefaultLocations)
}

func TestParseHelpersFallBackOnGarbage(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseDuration("not-a-duration"))
	assert.Equal(t, 0, parseInt("NaN"))
	assert.Equal(t, 0.0, parseFloat("NaN-ish"))
	assert.False(t, parseBool("maybe"))
}

package services

import (
	"testing"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheSetAndGetViewModel(t *testing.T) {
	cache := NewDashboardCache(time.Minute, 10, zap.NewNop())
	defer cache.Stop()

	vm := &models.DashboardViewModel{Location: "Dublin", CurrentAQI: 42}
	cache.SetViewModel("Dublin", vm)

	got, ok := cache.GetViewModel("Dublin")
	require.True(t, ok)
	assert.Equal(t, vm, got)

	_, ok = cache.GetViewModel("Cork")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewDashboardCache(20*time.Millisecond, 10, zap.NewNop())
	defer cache.Stop()

	cache.SetCurrent("Dublin", &models.CurrentAirQuality{})

	_, ok := cache.GetCurrent("Dublin")
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, ok = cache.GetCurrent("Dublin")
	assert.False(t, ok)
}

func TestCacheEvictsOldestAtCapacity(t *testing.T) {
	cache := NewDashboardCache(time.Minute, 2, zap.NewNop())
	defer cache.Stop()

	cache.SetViewModel("a", &models.DashboardViewModel{Location: "a"})
	time.Sleep(time.Millisecond)
	cache.SetViewModel("b", &models.DashboardViewModel{Location: "b"})
	time.Sleep(time.Millisecond)
	cache.SetViewModel("c", &models.DashboardViewModel{Location: "c"})

	_, ok := cache.GetViewModel("a")
	assert.False(t, ok)

	_, ok = cache.GetViewModel("b")
	assert.True(t, ok)
	_, ok = cache.GetViewModel("c")
	assert.True(t, ok)
}

func TestCacheStats(t *testing.T) {
	cache := NewDashboardCache(time.Minute, 10, zap.NewNop())
	defer cache.Stop()

	cache.SetViewModel("Dublin", &models.DashboardViewModel{})
	cache.SetCurrent("Dublin", &models.CurrentAirQuality{})
	cache.SetCurrent("Cork", &models.CurrentAirQuality{})

	stats := cache.GetStats()
	assert.Equal(t, 1, stats["view_model_items"])
	assert.Equal(t, 2, stats["current_items"])
	assert.Equal(t, 10, stats["max_size"])
}

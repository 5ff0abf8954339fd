package services

import (
	"sync"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
	"go.uber.org/zap"
)

type cacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// DashboardCache keeps the last good view model and live reading per
// location so the view layer can fall back to them when the upstream
// fails. Entries expire after the configured duration and the cache is
// size-bounded with oldest-expiry eviction.
type DashboardCache struct {
	mu              sync.RWMutex
	viewModels      map[string]cacheItem
	current         map[string]cacheItem
	logger          *zap.Logger
	defaultDuration time.Duration
	maxSize         int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

func NewDashboardCache(defaultDuration time.Duration, maxSize int, logger *zap.Logger) *DashboardCache {
	cache := &DashboardCache{
		viewModels:      make(map[string]cacheItem),
		current:         make(map[string]cacheItem),
		logger:          logger,
		defaultDuration: defaultDuration,
		maxSize:         maxSize,
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go cache.startCleanup()

	return cache
}

// SetViewModel stores the last successfully built view model for a
// location.
func (c *DashboardCache) SetViewModel(location string, vm *models.DashboardViewModel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.viewModels)+len(c.current) >= c.maxSize {
		evictOldest(c.viewModels)
	}

	c.viewModels[location] = cacheItem{
		Data:      vm,
		ExpiresAt: time.Now().Add(c.defaultDuration),
	}

	c.logger.Debug("View model cached", zap.String("location", location))
}

func (c *DashboardCache) GetViewModel(location string) (*models.DashboardViewModel, bool) {
	c.mu.RLock()
	item, exists := c.viewModels[location]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(item.ExpiresAt) {
		c.mu.Lock()
		delete(c.viewModels, location)
		c.mu.Unlock()
		return nil, false
	}

	vm, ok := item.Data.(*models.DashboardViewModel)
	return vm, ok
}

// SetCurrent stores the last live reading for a location.
func (c *DashboardCache) SetCurrent(location string, conditions *models.CurrentAirQuality) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.viewModels)+len(c.current) >= c.maxSize {
		evictOldest(c.current)
	}

	c.current[location] = cacheItem{
		Data:      conditions,
		ExpiresAt: time.Now().Add(c.defaultDuration),
	}

	c.logger.Debug("Current conditions cached", zap.String("location", location))
}

func (c *DashboardCache) GetCurrent(location string) (*models.CurrentAirQuality, bool) {
	c.mu.RLock()
	item, exists := c.current[location]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(item.ExpiresAt) {
		c.mu.Lock()
		delete(c.current, location)
		c.mu.Unlock()
		return nil, false
	}

	conditions, ok := item.Data.(*models.CurrentAirQuality)
	return conditions, ok
}

func evictOldest(items map[string]cacheItem) {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range items {
		if oldestKey == "" || item.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(items, oldestKey)
	}
}

func (c *DashboardCache) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *DashboardCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0

	for location, item := range c.viewModels {
		if now.After(item.ExpiresAt) {
			delete(c.viewModels, location)
			expired++
		}
	}
	for location, item := range c.current {
		if now.After(item.ExpiresAt) {
			delete(c.current, location)
			expired++
		}
	}

	if expired > 0 {
		c.logger.Debug("Cleaned expired cache items", zap.Int("count", expired))
	}
}

func (c *DashboardCache) Stop() {
	close(c.stopCleanup)
}

func (c *DashboardCache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"view_model_items": len(c.viewModels),
		"current_items":    len(c.current),
		"max_size":         c.maxSize,
		"default_duration": c.defaultDuration.String(),
	}
}

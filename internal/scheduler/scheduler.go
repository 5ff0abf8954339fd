package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/auracast/dashboard-core/internal/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher periodically re-warms the live readings for the configured
// default locations so the cache fallback always has something to
// serve.
type Refresher struct {
	router    *services.DataSourceRouter
	cache     *services.DashboardCache
	logger    *zap.Logger
	locations []string
	interval  time.Duration
	cron      *cron.Cron

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

func NewRefresher(router *services.DataSourceRouter, cache *services.DashboardCache, locations []string, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		router:    router,
		cache:     cache,
		logger:    logger,
		locations: locations,
		interval:  interval,
		cron:      cron.New(),
	}
}

func (r *Refresher) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.interval), r.refresh); err != nil {
		return fmt.Errorf("scheduling refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info("Refresher started",
		zap.Duration("interval", r.interval),
		zap.Strings("locations", r.locations))

	// Warm the cache immediately on start
	go r.refresh()

	return nil
}

func (r *Refresher) refresh() {
	start := time.Now()

	r.mu.Lock()
	r.lastRun = start
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	refreshed := 0
	for _, location := range r.locations {
		current, err := r.router.GetCurrentAirQuality(ctx, location)
		if err != nil {
			r.logger.Warn("Failed to refresh location",
				zap.String("location", location),
				zap.Error(err))
			continue
		}

		r.cache.SetCurrent(location, current)
		refreshed++
	}

	r.logger.Info("Refresh completed",
		zap.Int("locations", len(r.locations)),
		zap.Int("refreshed", refreshed),
		zap.Duration("duration", time.Since(start)))
}

func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.logger.Info("Stopping refresher")
	<-r.cron.Stop().Done()
	r.running = false
}

func (r *Refresher) GetStatus() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	return map[string]interface{}{
		"running":   r.running,
		"interval":  r.interval.String(),
		"last_run":  r.lastRun,
		"locations": r.locations,
	}
}

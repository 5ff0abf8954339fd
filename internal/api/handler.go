package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
	"github.com/auracast/dashboard-core/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	router *services.DataSourceRouter
	mapper *services.AnalysisResultMapper
	cache  *services.DashboardCache
	logger *zap.Logger
}

func NewHandler(router *services.DataSourceRouter, mapper *services.AnalysisResultMapper, cache *services.DashboardCache, logger *zap.Logger) *Handler {
	return &Handler{
		router: router,
		mapper: mapper,
		cache:  cache,
		logger: logger,
	}
}

// PostQuery handles POST /api/v1/query: the full query-to-viewmodel
// pipeline. Upstream failures fall back to the last cached view model
// for the location, else to the degraded defaults.
func (h *Handler) PostQuery(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	h.logger.Info("Processing dashboard query", zap.String("query", req.Query))

	result, err := h.router.ExtractParameters(c.Context(), req.Query)
	if err != nil {
		if errors.Is(err, services.ErrStaleResponse) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Query superseded by a newer submission",
			})
		}

		h.logger.Warn("Analysis unavailable, serving fallback",
			zap.String("query", req.Query),
			zap.Error(err))

		location := services.DefaultLocationName
		if place, ok := services.MatchLocation(req.Query); ok {
			location = place.Name
		}

		if cached, ok := h.cache.GetViewModel(location); ok {
			c.Set("X-Data-Source", "cache")
			return c.JSON(cached)
		}

		vm := h.mapper.Map(req.Query, nil)
		c.Set("X-Data-Source", "degraded")
		return c.JSON(vm)
	}

	vm := h.mapper.Map(req.Query, result)
	h.cache.SetViewModel(vm.Location, &vm)

	c.Set("X-Data-Source", "live")
	return c.JSON(vm)
}

// PostSubmit handles POST /api/v1/query/submit, the conversational
// reply without the dashboard mapping.
func (h *Handler) PostSubmit(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}

	if err := c.BodyParser(&req); err != nil || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	response, err := h.router.SubmitQuery(c.Context(), req.Query)
	if err != nil {
		h.logger.Error("Failed to submit query", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to submit query",
			"details": err.Error(),
		})
	}

	return c.JSON(response)
}

// GetCurrentAirQuality handles GET /api/v1/air/current.
func (h *Handler) GetCurrentAirQuality(c *fiber.Ctx) error {
	location := c.Query("location")

	current, err := h.router.GetCurrentAirQuality(c.Context(), location)
	if err != nil {
		if cached, ok := h.cache.GetCurrent(location); ok {
			h.logger.Warn("Serving cached conditions after upstream failure",
				zap.String("location", location),
				zap.Error(err))
			c.Set("X-Data-Source", "cache")
			return c.JSON(cached)
		}

		h.logger.Error("Failed to get current air quality",
			zap.String("location", location),
			zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch air quality data",
			"details": err.Error(),
		})
	}

	h.cache.SetCurrent(location, current)
	return c.JSON(current)
}

// GetForecast handles GET /api/v1/air/forecast.
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	location := c.Query("location")

	daysStr := c.Query("days", "3")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 || days > 7 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Days parameter must be between 1 and 7",
		})
	}

	forecast, err := h.router.GetForecast(c.Context(), location, days)
	if err != nil {
		h.logger.Error("Failed to get forecast",
			zap.String("location", location),
			zap.Int("days", days),
			zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch forecast data",
			"details": err.Error(),
		})
	}

	return c.JSON(forecast)
}

// GetRegionalData handles GET /api/v1/air/regional. Bounds are
// optional; when absent the router picks its default region.
func (h *Handler) GetRegionalData(c *fiber.Ctx) error {
	bounds, err := parseBounds(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stations, err := h.router.GetRegionalData(c.Context(), bounds)
	if err != nil {
		h.logger.Error("Failed to get regional data", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch regional data",
			"details": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"stations": stations,
	})
}

// GetAlerts handles GET /api/v1/air/alerts: current readings for the
// location evaluated against a threshold profile. The profile comes
// from the profile parameter, or is inferred from the optional query
// text.
func (h *Handler) GetAlerts(c *fiber.Ctx) error {
	location := c.Query("location")

	profile := services.AlertProfile(c.Query("profile"))
	if profile == "" {
		profile = services.AlertProfileForQuery(c.Query("query"))
	}

	current, err := h.router.GetCurrentAirQuality(c.Context(), location)
	if err != nil {
		h.logger.Error("Failed to evaluate alerts",
			zap.String("location", location),
			zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch air quality data",
			"details": err.Error(),
		})
	}

	alerts := services.EvaluateAlerts(current.Current.Location, current.Current, profile)
	return c.JSON(fiber.Map{
		"location": current.Current.Location,
		"profile":  profile,
		"alerts":   alerts,
	})
}

// GetAdvancedData handles GET /api/v1/air/advanced.
func (h *Handler) GetAdvancedData(c *fiber.Ctx) error {
	location := c.Query("location")

	advanced, err := h.router.GetAdvancedData(c.Context(), location)
	if err != nil {
		h.logger.Error("Failed to get advanced data",
			zap.String("location", location),
			zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   "Failed to fetch advanced data",
			"details": err.Error(),
		})
	}

	return c.JSON(advanced)
}

// GetHealth handles GET /api/v1/health.
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"synthetic": h.router.Synthetic(),
		"cache":     h.cache.GetStats(),
	})
}

// GetMetrics handles GET /api/v1/metrics.
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"metrics":   h.cache.GetStats(),
		"timestamp": time.Now(),
	})
}

func parseBounds(c *fiber.Ctx) (*models.GeoBounds, error) {
	raw := [4]string{
		c.Query("min_lat"), c.Query("min_lon"),
		c.Query("max_lat"), c.Query("max_lon"),
	}

	provided := 0
	for _, v := range raw {
		if v != "" {
			provided++
		}
	}
	if provided == 0 {
		return nil, nil
	}
	if provided != 4 {
		return nil, errors.New("bounds require min_lat, min_lon, max_lat and max_lon")
	}

	values := [4]float64{}
	for i, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.New("bounds must be decimal coordinates")
		}
		values[i] = f
	}

	return &models.GeoBounds{
		MinLat: values[0],
		MinLon: values[1],
		MaxLat: values[2],
		MaxLon: values[3],
	}, nil
}

var startTime = time.Now()

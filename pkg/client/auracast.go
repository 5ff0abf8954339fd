package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/auracast/dashboard-core/internal/models"
	"go.uber.org/zap"
)

// AuraCastClient talks to the AuraCast analysis backend. Every
// operation surfaces failures as a typed *UpstreamError.
type AuraCastClient struct {
	*BaseClient
	baseURL string
}

func NewAuraCastClient(baseURL string, config ClientConfig, logger *zap.Logger) *AuraCastClient {
	baseClient := NewBaseClient("auracast", config, logger)
	return &AuraCastClient{
		BaseClient: baseClient,
		baseURL:    baseURL,
	}
}

// SubmitQuery posts a free-text question and returns the backend's
// conversational reply.
func (c *AuraCastClient) SubmitQuery(ctx context.Context, query string) (*models.QueryResponse, error) {
	const op = "submit query"

	data, err := c.PostJSONWithRetry(ctx, c.baseURL+"/api/query", map[string]string{"query": query})
	if err != nil {
		return nil, newUpstreamError(op, err)
	}

	var response models.QueryResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return &response, nil
}

// GetCurrentAirQuality fetches live readings for a location.
func (c *AuraCastClient) GetCurrentAirQuality(ctx context.Context, location string) (*models.CurrentAirQuality, error) {
	const op = "current air quality"

	params := url.Values{}
	if location != "" {
		params.Set("location", location)
	}

	data, err := c.GetWithRetry(ctx, c.baseURL+"/api/air-quality/current?"+params.Encode())
	if err != nil {
		return nil, newUpstreamError(op, err)
	}

	var response models.CurrentAirQuality
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return &response, nil
}

// GetAirQualityForecast fetches a multi-day forecast for a location.
func (c *AuraCastClient) GetAirQualityForecast(ctx context.Context, location string, days int) (*models.ForecastResponse, error) {
	const op = "air quality forecast"

	params := url.Values{}
	if location != "" {
		params.Set("location", location)
	}
	params.Set("days", strconv.Itoa(days))

	data, err := c.GetWithRetry(ctx, c.baseURL+"/api/air-quality/forecast?"+params.Encode())
	if err != nil {
		return nil, newUpstreamError(op, err)
	}

	var response models.ForecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return &response, nil
}

// GetQuerySpecificData posts a query and returns its analysis payload
// unmodified; normalization happens downstream in the mapper.
func (c *AuraCastClient) GetQuerySpecificData(ctx context.Context, query string) (*models.AnalysisResult, error) {
	const op = "query-specific data"

	data, err := c.PostJSONWithRetry(ctx, c.baseURL+"/api/specific-data", map[string]string{"query": query})
	if err != nil {
		return nil, newUpstreamError(op, err)
	}

	var response models.AnalysisResult
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return &response, nil
}

// GetRegionalData fetches monitoring stations inside the given bounds,
// or the backend's default region when bounds is nil.
func (c *AuraCastClient) GetRegionalData(ctx context.Context, bounds *models.GeoBounds) ([]models.RegionalStation, error) {
	const op = "regional data"

	params := url.Values{}
	if bounds != nil {
		params.Set("min_lat", formatCoord(bounds.MinLat))
		params.Set("min_lon", formatCoord(bounds.MinLon))
		params.Set("max_lat", formatCoord(bounds.MaxLat))
		params.Set("max_lon", formatCoord(bounds.MaxLon))
	}

	data, err := c.GetWithRetry(ctx, c.baseURL+"/api/regional?"+params.Encode())
	if err != nil {
		return nil, newUpstreamError(op, err)
	}

	var stations []models.RegionalStation
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return stations, nil
}

// ExtractParameters runs the full analysis for a prompt. This is the
// long call of the pipeline; callers bound it with a generous timeout.
func (c *AuraCastClient) ExtractParameters(ctx context.Context, prompt string) (*models.AnalysisResult, error) {
	const op = "extract parameters"

	data, err := c.PostJSONWithRetry(ctx, c.baseURL+"/api/extract", map[string]string{"prompt": prompt})
	if err != nil {
		return nil, newUpstreamError(op, err)
	}

	var response models.AnalysisResult
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return &response, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

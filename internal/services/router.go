package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
	"go.uber.org/zap"
)

// ErrStaleResponse marks a response that arrived after a newer
// submission already published. Callers drop the payload and keep what
// they are showing.
var ErrStaleResponse = errors.New("response superseded by a newer query")

// AnalysisClient is the external API-client collaborator. All calls
// may fail with a typed upstream error.
type AnalysisClient interface {
	SubmitQuery(ctx context.Context, query string) (*models.QueryResponse, error)
	GetCurrentAirQuality(ctx context.Context, location string) (*models.CurrentAirQuality, error)
	GetAirQualityForecast(ctx context.Context, location string, days int) (*models.ForecastResponse, error)
	GetQuerySpecificData(ctx context.Context, query string) (*models.AnalysisResult, error)
	GetRegionalData(ctx context.Context, bounds *models.GeoBounds) ([]models.RegionalStation, error)
	ExtractParameters(ctx context.Context, prompt string) (*models.AnalysisResult, error)
}

// RouterOptions carry the construction-time configuration of the
// router. The synthetic flag is resolved once here and is read-only
// afterwards.
type RouterOptions struct {
	UseSyntheticData bool
	MockLatency      time.Duration
	AnalysisTimeout  time.Duration
	LookupTimeout    time.Duration
	DefaultLocation  string
}

// DataSourceRouter chooses between synthetic data and the real API
// client behind one uniform interface. Mapping into a
// DashboardViewModel happens downstream in the AnalysisResultMapper,
// not here.
type DataSourceRouter struct {
	client AnalysisClient
	mapper *AnalysisResultMapper
	gen    *SyntheticSeriesGenerator
	logger *zap.Logger

	synthetic       bool
	mockLatency     time.Duration
	analysisTimeout time.Duration
	lookupTimeout   time.Duration
	defaultLocation string

	seq       atomic.Uint64
	published atomic.Uint64
}

func NewDataSourceRouter(client AnalysisClient, mapper *AnalysisResultMapper, gen *SyntheticSeriesGenerator, opts RouterOptions, logger *zap.Logger) *DataSourceRouter {
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = 60 * time.Second
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = 10 * time.Second
	}
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = DefaultLocationName
	}

	return &DataSourceRouter{
		client:          client,
		mapper:          mapper,
		gen:             gen,
		logger:          logger,
		synthetic:       opts.UseSyntheticData,
		mockLatency:     opts.MockLatency,
		analysisTimeout: opts.AnalysisTimeout,
		lookupTimeout:   opts.LookupTimeout,
		defaultLocation: opts.DefaultLocation,
	}
}

// Synthetic reports whether the router serves generated data.
func (r *DataSourceRouter) Synthetic() bool {
	return r.synthetic
}

// SubmitQuery resolves the conversational reply for a query.
func (r *DataSourceRouter) SubmitQuery(ctx context.Context, query string) (*models.QueryResponse, error) {
	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}
		vm := r.mapper.Map(query, nil)
		return &models.QueryResponse{
			Response: fmt.Sprintf("Air quality near %s is %s (AQI %d).",
				vm.Location, AQICategory(float64(vm.CurrentAQI)), vm.CurrentAQI),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()
	return r.client.SubmitQuery(ctx, query)
}

// GetCurrentAirQuality resolves live readings for a location.
func (r *DataSourceRouter) GetCurrentAirQuality(ctx context.Context, location string) (*models.CurrentAirQuality, error) {
	if location == "" {
		location = r.defaultLocation
	}

	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}
		return &models.CurrentAirQuality{Current: r.gen.SimulatedConditions(location)}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()
	return r.client.GetCurrentAirQuality(ctx, location)
}

// GetForecast resolves an air-quality forecast for a location.
func (r *DataSourceRouter) GetForecast(ctx context.Context, location string, days int) (*models.ForecastResponse, error) {
	if location == "" {
		location = r.defaultLocation
	}
	if days < 1 {
		days = 1
	}

	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}
		forecast := make([]models.ForecastEntry, 0, days*24)
		for day := 0; day < days; day++ {
			for _, p := range r.gen.TrendSeries(day) {
				forecast = append(forecast, models.ForecastEntry{
					Time:     p.Time,
					AQI:      p.AQI,
					Category: AQICategory(p.AQI),
				})
			}
		}
		return &models.ForecastResponse{Location: location, Forecast: forecast}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()
	return r.client.GetAirQualityForecast(ctx, location, days)
}

// GetQuerySpecificData resolves the analysis payload for a query. The
// raw result is returned unchanged; responses that lose the sequence
// race fail with ErrStaleResponse.
func (r *DataSourceRouter) GetQuerySpecificData(ctx context.Context, query string) (*models.AnalysisResult, error) {
	seq := r.seq.Add(1)

	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}
		result := r.syntheticAnalysis(query)
		if !r.publish(seq) {
			return nil, ErrStaleResponse
		}
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.analysisTimeout)
	defer cancel()

	result, err := r.client.GetQuerySpecificData(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query-specific data: %w", err)
	}
	if !r.publish(seq) {
		r.logger.Debug("Dropping stale query response", zap.Uint64("seq", seq))
		return nil, ErrStaleResponse
	}
	return result, nil
}

// ExtractParameters resolves the full analysis for a prompt, the long
// network call of the pipeline. Sequence-guarded like
// GetQuerySpecificData.
func (r *DataSourceRouter) ExtractParameters(ctx context.Context, prompt string) (*models.AnalysisResult, error) {
	seq := r.seq.Add(1)

	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}
		result := r.syntheticAnalysis(prompt)
		if !r.publish(seq) {
			return nil, ErrStaleResponse
		}
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.analysisTimeout)
	defer cancel()

	result, err := r.client.ExtractParameters(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract parameters: %w", err)
	}
	if !r.publish(seq) {
		r.logger.Debug("Dropping stale analysis response", zap.Uint64("seq", seq))
		return nil, ErrStaleResponse
	}
	return result, nil
}

// GetRegionalData resolves spatial samples for the regional map.
func (r *DataSourceRouter) GetRegionalData(ctx context.Context, bounds *models.GeoBounds) ([]models.RegionalStation, error) {
	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}

		lat, lon := worldCenter.Lat, worldCenter.Lon
		if bounds != nil {
			lat, lon = bounds.Center()
		} else if place, ok := LookupPlace(r.defaultLocation); ok {
			lat, lon = place.Lat, place.Lon
		}

		base := r.gen.SimulatedConditions(r.defaultLocation).AQI
		samples := r.gen.RegionalSamples(lat, lon, base, DefaultRegionalSamples, DefaultMaxRadius)

		stations := make([]models.RegionalStation, 0, len(samples))
		for i, s := range samples {
			stations = append(stations, models.RegionalStation{
				ID:       fmt.Sprintf("synthetic-%d", i),
				Lat:      s.Lat,
				Lng:      s.Lon,
				AQI:      s.Value,
				Location: r.defaultLocation,
			})
		}
		return stations, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()
	return r.client.GetRegionalData(ctx, bounds)
}

// GetAdvancedData resolves the longer-horizon trend previews. The
// external contract has no dedicated advanced operation, so the real
// path is backed by the 7-day forecast call.
func (r *DataSourceRouter) GetAdvancedData(ctx context.Context, location string) (*models.AdvancedData, error) {
	if location == "" {
		location = r.defaultLocation
	}

	if r.synthetic {
		if err := r.simulateLatency(ctx); err != nil {
			return nil, err
		}
		return &models.AdvancedData{
			Location: location,
			Trends: map[string][]models.HourlyForecastPoint{
				"today":     r.gen.TrendSeries(0),
				"tomorrow":  r.gen.TrendSeries(1),
				"day_after": r.gen.TrendSeries(2),
			},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	fc, err := r.client.GetAirQualityForecast(ctx, location, 7)
	if err != nil {
		return nil, fmt.Errorf("advanced data: %w", err)
	}

	points := make([]models.HourlyForecastPoint, 0, len(fc.Forecast))
	for _, entry := range fc.Forecast {
		points = append(points, models.HourlyForecastPoint{Time: entry.Time, AQI: entry.AQI})
	}
	return &models.AdvancedData{
		Location: location,
		Trends:   map[string][]models.HourlyForecastPoint{"forecast": points},
	}, nil
}

// syntheticAnalysis fabricates an analysis payload from generated
// conditions so the downstream mapper exercises its normal path in
// mock mode.
func (r *DataSourceRouter) syntheticAnalysis(query string) *models.AnalysisResult {
	location := r.defaultLocation
	center := worldCenter
	if place, ok := MatchLocation(query); ok {
		location = place.Name
		center = models.MapCenter{Lat: place.Lat, Lon: place.Lon}
	} else if place, ok := LookupPlace(r.defaultLocation); ok {
		center = models.MapCenter{Lat: place.Lat, Lon: place.Lon}
	}

	cond := r.gen.SimulatedConditions(location)
	aqi := cond.AQI
	pm25 := cond.Pollutants["PM2.5"]
	category := AQICategory(aqi)

	return &models.AnalysisResult{
		DisplayText: fmt.Sprintf("Air quality in %s is %s (AQI %.0f).", location, category, aqi),
		DashboardDetails: &models.DashboardDetails{
			AQI:      &aqi,
			Location: location,
			Visualizations: []models.Visualization{
				{
					Type:  models.VizMap,
					Title: "Pollutant Concentration Map",
					Data:  []models.VizPoint{{Lat: &center.Lat, Lon: &center.Lon, Value: &aqi}},
				},
			},
		},
		Metadata: &models.AnalysisMetadata{
			Analysis: &models.Analysis{
				Results: map[string]models.PollutantReading{
					"aqi":   {Value: &aqi, Status: category},
					"pm2.5": {Value: &pm25, Status: AQICategory(AQIFromPM25(pm25))},
				},
				Recommendations: recommendationsFor(category),
			},
		},
	}
}

func recommendationsFor(category string) []string {
	switch category {
	case "Good":
		return []string{"Conditions are good for outdoor activity"}
	case "Moderate":
		return []string{"Unusually sensitive people should consider limiting prolonged exertion"}
	default:
		return []string{"Sensitive groups should reduce outdoor activity", fallbackRecommendation}
	}
}

// simulateLatency sleeps for the cosmetic mock latency, honoring
// cancellation.
func (r *DataSourceRouter) simulateLatency(ctx context.Context) error {
	if r.mockLatency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.mockLatency):
		return nil
	}
}

// publish advances the high-water mark for displayed responses.
// Returns false when a newer submission already published.
func (r *DataSourceRouter) publish(seq uint64) bool {
	for {
		current := r.published.Load()
		if seq <= current {
			return false
		}
		if r.published.CompareAndSwap(current, seq) {
			return true
		}
	}
}

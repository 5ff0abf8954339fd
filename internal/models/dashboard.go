package models

import (
	"time"
)

// VisualizationType identifies how the rendering layer should draw a
// backend-described visualization.
type VisualizationType string

const (
	VizLine VisualizationType = "line"
	VizBar  VisualizationType = "bar"
	VizMap  VisualizationType = "map"
)

// VizPoint is a single datum inside a visualization payload. The backend
// mixes spatial and temporal points in the same slot, so every field is
// optional.
type VizPoint struct {
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Value     *float64 `json:"value,omitempty"`
}

// Visualization is a backend-described chart or map specification.
// Identity for dedup purposes is the (Type, Title) pair.
type Visualization struct {
	Type        VisualizationType      `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Data        []VizPoint             `json:"data,omitempty"`
	Config      map[string]interface{} `json:"config,omitempty"`
}

// PollutantReading is one per-pollutant entry of the analysis payload.
// Value is a pointer because the backend omits it for species it could
// not measure.
type PollutantReading struct {
	Value          *float64 `json:"value,omitempty"`
	Status         string   `json:"status,omitempty"`
	Interpretation string   `json:"interpretation,omitempty"`
}

// Analysis carries the model's per-pollutant results and free-text
// recommendations.
type Analysis struct {
	Results         map[string]PollutantReading `json:"results,omitempty"`
	Recommendations []string                    `json:"recommendations,omitempty"`
}

type AnalysisMetadata struct {
	Analysis *Analysis              `json:"analysis,omitempty"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// DashboardDetails are the summary fields the backend attaches to an
// analysis response.
type DashboardDetails struct {
	AQI            *float64        `json:"aqi,omitempty"`
	Location       string          `json:"location,omitempty"`
	Visualizations []Visualization `json:"visualizations,omitempty"`
}

// AnalysisResult is the partially trusted payload returned by the
// backend for a free-text query. Any part of it may be missing.
type AnalysisResult struct {
	DisplayText      string            `json:"display_text,omitempty"`
	DashboardDetails *DashboardDetails `json:"dashboard_details,omitempty"`
	Metadata         *AnalysisMetadata `json:"metadata,omitempty"`
}

// HourlyForecastPoint is one element of the 7-point forecast series
// centered on the target hour.
type HourlyForecastPoint struct {
	Time string  `json:"time"` // "HH:00"
	AQI  float64 `json:"aqi"`
}

// PollutantLevel is the view-model representation of one tracked
// species.
type PollutantLevel struct {
	Value float64 `json:"value"`
	Risk  string  `json:"risk"`
}

// MapCenter is the coordinate the regional map should center on.
type MapCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DashboardViewModel is the pipeline's sole output. It is an immutable
// value recomputed fresh per query and never mutated after
// construction.
type DashboardViewModel struct {
	Location        string                    `json:"location"`
	CurrentAQI      int                       `json:"current_aqi"`
	HealthRisk      string                    `json:"health_risk"`
	Recommendation  string                    `json:"recommendation"`
	Recommendations []string                  `json:"recommendations"`
	TimeData        []HourlyForecastPoint     `json:"time_data"`
	Pollutants      map[string]PollutantLevel `json:"pollutants"`
	MapCenter       MapCenter                 `json:"map_center"`
	Temperature     *float64                  `json:"temperature,omitempty"`
	WindSpeed       *float64                  `json:"wind_speed,omitempty"`
	Visualizations  []Visualization           `json:"visualizations"`
}

// RegionalSample is a single spatial sample for the regional map.
// Intensity is the value normalized into [0, 1].
type RegionalSample struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Value     float64 `json:"value"`
	Intensity float64 `json:"intensity"`
}

// QueryResponse is the backend's conversational reply to a submitted
// query.
type QueryResponse struct {
	Response string `json:"response"`
}

// CurrentConditions holds one location's live readings.
type CurrentConditions struct {
	Location   string             `json:"location,omitempty"`
	AQI        float64            `json:"aqi"`
	Pollutants map[string]float64 `json:"pollutants,omitempty"`
	Timestamp  time.Time          `json:"timestamp,omitempty"`
	Source     string             `json:"source,omitempty"`
}

// CurrentAirQuality wraps CurrentConditions the way the backend nests
// them.
type CurrentAirQuality struct {
	Current CurrentConditions `json:"current"`
}

// ForecastEntry is one step of an air-quality forecast.
type ForecastEntry struct {
	Time     string  `json:"time"`
	AQI      float64 `json:"aqi"`
	Category string  `json:"category,omitempty"`
}

// ForecastResponse is the backend's forecast payload.
type ForecastResponse struct {
	Location string          `json:"location,omitempty"`
	Forecast []ForecastEntry `json:"forecast"`
}

// GeoBounds is a geographic bounding box for regional lookups.
type GeoBounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Center returns the midpoint of the bounding box.
func (b GeoBounds) Center() (float64, float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// RegionalStation is one monitoring station in a regional data
// response.
type RegionalStation struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	AQI      float64 `json:"aqi"`
	Location string  `json:"location,omitempty"`
}

// AdvancedData bundles the longer-horizon trend previews shown on the
// analyst layout.
type AdvancedData struct {
	Location string                           `json:"location,omitempty"`
	Trends   map[string][]HourlyForecastPoint `json:"trends"`
}

// Alert is one triggered threshold breach for a location's current
// readings.
type Alert struct {
	Parameter string    `json:"parameter"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
)

const (
	// DefaultAQI is the documented default when neither the analysis
	// results nor the dashboard summary carry an AQI.
	DefaultAQI = 42
	// DefaultTargetTime anchors synthesized series when the query
	// names no time.
	DefaultTargetTime = "14:00"

	unknownRisk            = "Unknown"
	fallbackRecommendation = "Check local air quality updates regularly"
)

// worldCenter is the map fallback when no visualization carries
// coordinates and the location is unknown.
var worldCenter = models.MapCenter{Lat: 0, Lon: 0}

// pollutantAliases maps payload keys to the fixed whitelist of tracked
// species. Keys outside this table never reach the view model.
var pollutantAliases = map[string]string{
	"pm2.5":        "PM2.5",
	"pm25":         "PM2.5",
	"pm2_5":        "PM2.5",
	"o3":           "O3",
	"ozone":        "O3",
	"no2":          "NO2",
	"ch2o":         "CH2O",
	"hcho":         "CH2O",
	"formaldehyde": "CH2O",
	"co":           "CO",
	"aod":          "AOD",
}

// AnalysisResultMapper normalizes a backend analysis payload (or its
// absence) plus the original query into a DashboardViewModel. It never
// fails: every field degrades independently to a documented default.
type AnalysisResultMapper struct {
	parser TimeExpressionParser
	gen    *SyntheticSeriesGenerator
}

func NewAnalysisResultMapper(gen *SyntheticSeriesGenerator) *AnalysisResultMapper {
	return &AnalysisResultMapper{gen: gen}
}

// Map builds the view model for one query. A nil result, or a result
// missing its nested analysis results, takes the full fallback path.
func (m *AnalysisResultMapper) Map(query string, result *models.AnalysisResult) models.DashboardViewModel {
	if result == nil || result.Metadata == nil || result.Metadata.Analysis == nil || result.Metadata.Analysis.Results == nil {
		return m.fallbackViewModel(query)
	}

	analysis := result.Metadata.Analysis
	details := result.DashboardDetails

	currentAQI := m.resolveAQI(analysis, details)

	vm := models.DashboardViewModel{
		Location:        m.resolveLocation(query, details),
		CurrentAQI:      currentAQI,
		HealthRisk:      m.resolveHealthRisk(analysis),
		Recommendations: analysis.Recommendations,
		Recommendation:  fallbackRecommendation,
		Pollutants:      m.resolvePollutants(analysis),
		MapCenter:       m.resolveMapCenter(details),
		TimeData:        m.resolveTimeData(query, currentAQI, details),
	}

	if len(analysis.Recommendations) > 0 {
		vm.Recommendation = analysis.Recommendations[0]
	}

	if r, ok := analysis.Results["temperature"]; ok && r.Value != nil {
		vm.Temperature = r.Value
	}
	if r, ok := readingFor(analysis, "wind_speed", "windspeed", "wind"); ok {
		vm.WindSpeed = r.Value
	}

	if details != nil {
		vm.Visualizations = FilterVisualizations(details.Visualizations)
	} else {
		vm.Visualizations = []models.Visualization{}
	}

	return vm
}

// fallbackViewModel builds the view model entirely from the query text
// when no usable payload exists.
func (m *AnalysisResultMapper) fallbackViewModel(query string) models.DashboardViewModel {
	location := DefaultLocationName
	center := worldCenter
	if place, ok := MatchLocation(query); ok {
		location = place.Name
		center = models.MapCenter{Lat: place.Lat, Lon: place.Lon}
	}

	return models.DashboardViewModel{
		Location:        location,
		CurrentAQI:      DefaultAQI,
		HealthRisk:      RiskTierForQuery(query),
		Recommendation:  fallbackRecommendation,
		Recommendations: []string{fallbackRecommendation},
		TimeData:        m.gen.HourlyForecast(DefaultAQI, DefaultTargetTime),
		Pollutants:      map[string]models.PollutantLevel{},
		MapCenter:       center,
		Visualizations:  []models.Visualization{},
	}
}

// resolveAQI applies the results.aqi.value -> dashboard_details.aqi ->
// default chain. Ties round half away from zero.
func (m *AnalysisResultMapper) resolveAQI(analysis *models.Analysis, details *models.DashboardDetails) int {
	value := float64(DefaultAQI)
	if r, ok := analysis.Results["aqi"]; ok && r.Value != nil {
		value = *r.Value
	} else if details != nil && details.AQI != nil {
		value = *details.AQI
	}
	return int(math.Round(value))
}

func (m *AnalysisResultMapper) resolveHealthRisk(analysis *models.Analysis) string {
	if r, ok := analysis.Results["aqi"]; ok && r.Status != "" {
		return r.Status
	}
	return unknownRisk
}

func (m *AnalysisResultMapper) resolveLocation(query string, details *models.DashboardDetails) string {
	if details != nil && details.Location != "" {
		return details.Location
	}
	if place, ok := MatchLocation(query); ok {
		return place.Name
	}
	return DefaultLocationName
}

// resolvePollutants keeps only whitelist species actually present in
// the payload. Absent species are omitted, never defaulted.
func (m *AnalysisResultMapper) resolvePollutants(analysis *models.Analysis) map[string]models.PollutantLevel {
	pollutants := make(map[string]models.PollutantLevel)
	for key, reading := range analysis.Results {
		name, ok := pollutantAliases[normalizeKey(key)]
		if !ok || reading.Value == nil {
			continue
		}
		risk := reading.Status
		if risk == "" {
			risk = unknownRisk
		}
		pollutants[name] = models.PollutantLevel{Value: *reading.Value, Risk: risk}
	}
	return pollutants
}

// resolveMapCenter uses the first map-type visualization that carries
// coordinates, else the world-center fallback.
func (m *AnalysisResultMapper) resolveMapCenter(details *models.DashboardDetails) models.MapCenter {
	if details == nil {
		return worldCenter
	}
	for _, viz := range details.Visualizations {
		if viz.Type != models.VizMap {
			continue
		}
		for _, p := range viz.Data {
			if p.Lat != nil && p.Lon != nil {
				return models.MapCenter{Lat: *p.Lat, Lon: *p.Lon}
			}
		}
	}
	return worldCenter
}

// resolveTimeData pads a single real line-chart point into a 7-point
// series when one exists; otherwise it anchors a synthetic series on
// the query's target time and the current AQI.
func (m *AnalysisResultMapper) resolveTimeData(query string, currentAQI int, details *models.DashboardDetails) []models.HourlyForecastPoint {
	if details != nil {
		for _, viz := range details.Visualizations {
			if viz.Type != models.VizLine || len(viz.Data) != 1 {
				continue
			}
			p := viz.Data[0]
			if p.Value == nil || p.Timestamp == "" {
				continue
			}
			if clock, ok := m.timestampClock(p.Timestamp); ok {
				return m.gen.HourlyForecast(*p.Value, clock)
			}
		}
	}

	clock, ok := m.parser.Parse(query)
	if !ok {
		if hour, dayOK := m.parser.DayPartHour(query); dayOK {
			clock = fmt.Sprintf("%02d:00", hour)
		} else {
			clock = DefaultTargetTime
		}
	}
	return m.gen.HourlyForecast(float64(currentAQI), clock)
}

// timestampClock derives an "HH:MM" clock from a line-point timestamp,
// accepting RFC 3339, a plain datetime, or anything the pattern chain
// recognizes.
func (m *AnalysisResultMapper) timestampClock(timestamp string) (string, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, timestamp); err == nil {
			return fmt.Sprintf("%02d:00", t.Hour()), true
		}
	}
	return m.parser.Parse(timestamp)
}

func readingFor(analysis *models.Analysis, keys ...string) (models.PollutantReading, bool) {
	for _, key := range keys {
		if r, ok := analysis.Results[key]; ok && r.Value != nil {
			return r, true
		}
	}
	return models.PollutantReading{}, false
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

package services

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
)

const (
	// DefaultRegionalSamples is the number of randomized samples
	// surrounding the anchor point.
	DefaultRegionalSamples = 30
	// DefaultMaxRadius is the regional sampling radius in degrees.
	DefaultMaxRadius = 0.02
)

// SyntheticSeriesGenerator produces deterministic-shape,
// randomized-magnitude series for offline or partial-data scenarios.
// The anchor and sinusoidal components are always deterministic; only
// the additive jitter consumes the random source.
type SyntheticSeriesGenerator struct {
	rng *rand.Rand
}

// NewSyntheticSeriesGenerator builds a generator around rng. A nil rng
// falls back to a time-seeded source; tests inject a fixed seed.
func NewSyntheticSeriesGenerator(rng *rand.Rand) *SyntheticSeriesGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SyntheticSeriesGenerator{rng: rng}
}

// HourlyForecast returns exactly 7 points at hour offsets -3..+3 around
// targetTime's hour, wrapping mod 24. The offset-0 point equals
// baseValue exactly; every other point is baseValue plus uniform
// jitter in [-3, +3], rounded to the nearest integer.
func (g *SyntheticSeriesGenerator) HourlyForecast(baseValue float64, targetTime string) []models.HourlyForecastPoint {
	hour := hourOf(targetTime)

	points := make([]models.HourlyForecastPoint, 0, 7)
	for offset := -3; offset <= 3; offset++ {
		h := ((hour+offset)%24 + 24) % 24

		aqi := baseValue
		if offset != 0 {
			aqi = math.Round(baseValue + g.uniform(-3, 3))
		}

		points = append(points, models.HourlyForecastPoint{
			Time: fmt.Sprintf("%02d:00", h),
			AQI:  aqi,
		})
	}
	return points
}

// RegionalSamples returns one unperturbed anchor sample at the center
// plus count randomized samples inside maxRadius degrees, each at a
// random polar offset with value clamped non-negative.
func (g *SyntheticSeriesGenerator) RegionalSamples(centerLat, centerLon, baseValue float64, count int, maxRadius float64) []models.RegionalSample {
	if count <= 0 {
		count = DefaultRegionalSamples
	}
	if maxRadius <= 0 {
		maxRadius = DefaultMaxRadius
	}

	samples := make([]models.RegionalSample, 0, count+1)
	samples = append(samples, models.RegionalSample{
		Lat:       centerLat,
		Lon:       centerLon,
		Value:     baseValue,
		Intensity: normalizeIntensity(baseValue),
	})

	for i := 0; i < count; i++ {
		distance := g.rng.Float64() * maxRadius
		angle := g.rng.Float64() * 2 * math.Pi

		value := math.Max(0, baseValue+g.uniform(-10, 10))
		samples = append(samples, models.RegionalSample{
			Lat:       centerLat + distance*math.Cos(angle),
			Lon:       centerLon + distance*math.Sin(angle),
			Value:     value,
			Intensity: normalizeIntensity(value),
		})
	}
	return samples
}

// TrendSeries returns a 24-point full-day preview: a sinusoidal
// baseline that is deterministic per series index, plus bounded
// additive jitter. Values are clamped non-negative.
func (g *SyntheticSeriesGenerator) TrendSeries(index int) []models.HourlyForecastPoint {
	phase := float64(index) * math.Pi / 6

	points := make([]models.HourlyForecastPoint, 0, 24)
	for h := 0; h < 24; h++ {
		baseline := 60 + 25*math.Sin(2*math.Pi*float64(h)/24+phase)
		value := math.Max(0, math.Round(baseline+g.uniform(-5, 5)))

		points = append(points, models.HourlyForecastPoint{
			Time: fmt.Sprintf("%02d:00", h),
			AQI:  value,
		})
	}
	return points
}

// SimulatedConditions fabricates a plausible live reading for a
// location: randomized pollutant concentrations with the AQI derived
// from PM2.5 via the standard breakpoint table.
func (g *SyntheticSeriesGenerator) SimulatedConditions(location string) models.CurrentConditions {
	pm25 := round2(5 + g.rng.Float64()*30)

	return models.CurrentConditions{
		Location: location,
		AQI:      math.Round(AQIFromPM25(pm25)),
		Pollutants: map[string]float64{
			"PM2.5": pm25,
			"O3":    round2(g.rng.Float64() * 0.1 * 1000), // ppb
			"NO2":   round2(g.rng.Float64() * 0.1 * 1000),
			"CO":    round2(0.5 + g.rng.Float64()*4.5),
		},
		Timestamp: time.Now().UTC(),
		Source:    "synthetic",
	}
}

// AQIFromPM25 converts a PM2.5 concentration (ug/m3) to an AQI value
// using piecewise-linear breakpoints, capped at 300.
func AQIFromPM25(pm25 float64) float64 {
	switch {
	case pm25 <= 12:
		return pm25 * 50 / 12
	case pm25 <= 35.4:
		return 50 + (pm25-12)*50/(35.4-12)
	case pm25 <= 55.4:
		return 100 + (pm25-35.4)*50/(55.4-35.4)
	default:
		return math.Min(300, 150+(pm25-55.4))
	}
}

func (g *SyntheticSeriesGenerator) uniform(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

// normalizeIntensity maps a raw value into [0, 1] against a 100-point
// scale.
func normalizeIntensity(v float64) float64 {
	return math.Min(1.0, v/100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// hourOf extracts the hour of a "HH:MM" clock string, defaulting to 14
// when the string is not parseable.
func hourOf(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 14
	}
	return hour
}

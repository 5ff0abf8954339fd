package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
)

// AlertProfile selects which threshold table applies when evaluating a
// reading. Profiles mirror the user scenarios the dashboard offers:
// health-sensitive individuals, outdoor athletes, industrial workers
// and the general public.
type AlertProfile string

const (
	ProfileHealth     AlertProfile = "health"
	ProfileOutdoor    AlertProfile = "outdoor_activity"
	ProfileIndustrial AlertProfile = "industrial"
	ProfileGeneral    AlertProfile = "general"
)

// Alert severities. A reading at or above the warning level triggers a
// warning; at or above the critical level it escalates.
const (
	AlertWarning  = "warning"
	AlertCritical = "critical"
)

// AlertThreshold defines the warning and critical levels for one
// parameter of a profile's table.
type AlertThreshold struct {
	Parameter   string
	Warning     float64
	Critical    float64
	Unit        string
	Description string
}

// alertProfiles are the per-profile threshold tables. The "aqi"
// parameter reads the composite index; everything else reads the named
// pollutant concentration. Tables are ordered slices so evaluation
// output is stable.
var alertProfiles = map[AlertProfile][]AlertThreshold{
	ProfileHealth: {
		{Parameter: "PM2.5", Warning: 15, Critical: 25, Unit: "µg/m³", Description: "PM2.5 fine particles"},
		{Parameter: "O3", Warning: 70, Critical: 100, Unit: "ppb", Description: "Ground-level ozone"},
		{Parameter: "aqi", Warning: 50, Critical: 100, Unit: "index", Description: "Air Quality Index"},
	},
	ProfileOutdoor: {
		{Parameter: "PM2.5", Warning: 20, Critical: 35, Unit: "µg/m³", Description: "PM2.5 fine particles"},
		{Parameter: "O3", Warning: 80, Critical: 120, Unit: "ppb", Description: "Ground-level ozone"},
		{Parameter: "aqi", Warning: 80, Critical: 100, Unit: "index", Description: "Air Quality Index"},
	},
	ProfileIndustrial: {
		{Parameter: "PM2.5", Warning: 35, Critical: 55, Unit: "µg/m³", Description: "PM2.5 fine particles"},
		{Parameter: "NO2", Warning: 100, Critical: 200, Unit: "ppb", Description: "Nitrogen dioxide"},
		{Parameter: "aqi", Warning: 100, Critical: 150, Unit: "index", Description: "Air Quality Index"},
	},
	ProfileGeneral: {
		{Parameter: "aqi", Warning: 100, Critical: 150, Unit: "index", Description: "Air Quality Index"},
		{Parameter: "PM2.5", Warning: 25, Critical: 50, Unit: "µg/m³", Description: "PM2.5 fine particles"},
	},
}

var outdoorKeywords = []string{"jog", "run", "running", "cycle", "cycling", "hike", "hiking", "exercise", "outdoor"}

// AlertProfileForQuery infers the threshold profile from free query
// text. Health conditions take precedence over activity mentions.
func AlertProfileForQuery(text string) AlertProfile {
	normalized := strings.ToLower(text)

	for _, kw := range sensitiveKeywords {
		if strings.Contains(normalized, kw) {
			return ProfileHealth
		}
	}
	for _, kw := range outdoorKeywords {
		if strings.Contains(normalized, kw) {
			return ProfileOutdoor
		}
	}
	if strings.Contains(normalized, "industrial") || strings.Contains(normalized, "factory") {
		return ProfileIndustrial
	}
	return ProfileGeneral
}

// EvaluateAlerts checks a location's current readings against the
// profile's threshold table. Parameters absent from the reading are
// skipped, never defaulted. An unknown profile falls back to the
// general table.
func EvaluateAlerts(location string, cond models.CurrentConditions, profile AlertProfile) []models.Alert {
	thresholds, ok := alertProfiles[profile]
	if !ok {
		profile = ProfileGeneral
		thresholds = alertProfiles[ProfileGeneral]
	}

	now := time.Now().UTC()
	alerts := make([]models.Alert, 0, len(thresholds))

	for _, th := range thresholds {
		value, present := parameterValue(cond, th.Parameter)
		if !present {
			continue
		}

		var severity string
		var limit float64
		switch {
		case value >= th.Critical:
			severity, limit = AlertCritical, th.Critical
		case value >= th.Warning:
			severity, limit = AlertWarning, th.Warning
		default:
			continue
		}

		alerts = append(alerts, models.Alert{
			Parameter: th.Parameter,
			Value:     value,
			Threshold: limit,
			Severity:  severity,
			Message:   alertMessage(profile, th, location, value, limit),
			Timestamp: now,
		})
	}
	return alerts
}

func parameterValue(cond models.CurrentConditions, parameter string) (float64, bool) {
	if parameter == "aqi" {
		return cond.AQI, true
	}
	value, ok := cond.Pollutants[parameter]
	return value, ok
}

func alertMessage(profile AlertProfile, th AlertThreshold, location string, value, limit float64) string {
	detail := fmt.Sprintf("%s in %s is %.1f %s (threshold %.1f %s)",
		th.Description, location, value, th.Unit, limit, th.Unit)

	switch profile {
	case ProfileHealth:
		return "Health alert: " + detail + ". Consider reducing outdoor activities."
	case ProfileOutdoor:
		return "Outdoor activity alert: " + detail + ". Consider indoor alternatives."
	case ProfileIndustrial:
		return "Industrial alert: " + detail + ". Monitor ventilation systems."
	default:
		return "Air quality alert: " + detail + "."
	}
}

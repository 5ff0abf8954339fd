package services

import (
	"strings"

	"github.com/auracast/dashboard-core/internal/models"
)

// redundantTitleFragment marks bar charts that duplicate the built-in
// pollutant chart.
const redundantTitleFragment = "pollutant comparison"

// FilterVisualizations deduplicates and filters auxiliary chart/map
// descriptors, preserving input order. Line-typed entries are dropped
// (the hourly series already represents them), titles containing
// "pollutant comparison" are dropped, and duplicates by (type, title)
// keep their first occurrence.
func FilterVisualizations(in []models.Visualization) []models.Visualization {
	type vizKey struct {
		Type  models.VisualizationType
		Title string
	}

	seen := make(map[vizKey]bool, len(in))
	out := make([]models.Visualization, 0, len(in))

	for _, viz := range in {
		if viz.Type == models.VizLine {
			continue
		}
		if strings.Contains(strings.ToLower(viz.Title), redundantTitleFragment) {
			continue
		}

		key := vizKey{Type: viz.Type, Title: viz.Title}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, viz)
	}
	return out
}

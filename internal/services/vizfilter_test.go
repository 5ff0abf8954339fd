package services

import (
	"testing"

	"github.com/auracast/dashboard-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterVisualizations(t *testing.T) {
	in := []models.Visualization{
		{Type: models.VizLine, Title: "Hourly AQI"},
		{Type: models.VizBar, Title: "X"},
		{Type: models.VizBar, Title: "X"},
		{Type: models.VizMap, Title: "Pollutant Comparison"},
	}

	out := FilterVisualizations(in)
	require.Len(t, out, 1)
	assert.Equal(t, models.VizBar, out[0].Type)
	assert.Equal(t, "X", out[0].Title)
}

func TestFilterVisualizationsPreservesOrder(t *testing.T) {
	in := []models.Visualization{
		{Type: models.VizMap, Title: "Concentration Map"},
		{Type: models.VizLine, Title: "Trend"},
		{Type: models.VizBar, Title: "Species Levels"},
		{Type: models.VizMap, Title: "Concentration Map"},
		{Type: models.VizBar, Title: "Exposure"},
	}

	out := FilterVisualizations(in)
	require.Len(t, out, 3)
	assert.Equal(t, "Concentration Map", out[0].Title)
	assert.Equal(t, "Species Levels", out[1].Title)
	assert.Equal(t, "Exposure", out[2].Title)
}

func TestFilterVisualizationsTitleMatchIsCaseInsensitive(t *testing.T) {
	in := []models.Visualization{
		{Type: models.VizBar, Title: "POLLUTANT COMPARISON chart"},
		{Type: models.VizBar, Title: "Pollutant levels"},
	}

	out := FilterVisualizations(in)
	require.Len(t, out, 1)
	assert.Equal(t, "Pollutant levels", out[0].Title)
}

func TestFilterVisualizationsSameTitleDifferentType(t *testing.T) {
	in := []models.Visualization{
		{Type: models.VizBar, Title: "Overview"},
		{Type: models.VizMap, Title: "Overview"},
	}

	// Dedup is by (type, title), so these are distinct.
	out := FilterVisualizations(in)
	assert.Len(t, out, 2)
}

func TestFilterVisualizationsEmptyInput(t *testing.T) {
	assert.Empty(t, FilterVisualizations(nil))
	assert.Empty(t, FilterVisualizations([]models.Visualization{}))
}

package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryItemValidateRoundsRelevance(t *testing.T) {
	item := QueryItem{Relevance: 0.8765, ChartType: "Bar"}

	require.NoError(t, item.Validate())
	assert.Equal(t, 0.88, item.Relevance)
}

func TestQueryItemValidateRejectsOutOfRangeRelevance(t *testing.T) {
	high := QueryItem{Relevance: 1.5, ChartType: "Bar"}
	assert.Error(t, high.Validate())

	low := QueryItem{Relevance: -0.1, ChartType: "Bar"}
	assert.Error(t, low.Validate())
}

func TestQueryItemValidateBoundaryRelevance(t *testing.T) {
	zero := QueryItem{Relevance: 0, ChartType: "Pie"}
	assert.NoError(t, zero.Validate())

	one := QueryItem{Relevance: 1, ChartType: "Pie"}
	assert.NoError(t, one.Validate())
	assert.Equal(t, 1.0, one.Relevance)
}

func TestNormalizeChartType(t *testing.T) {
	for _, valid := range []string{"Bar", "Line", "Area", "Pie", "Donut", "Scatter"} {
		got, err := NormalizeChartType(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, got)
	}
}

func TestNormalizeChartTypeScatterplotAlias(t *testing.T) {
	for _, alias := range []string{"scatterplot", "Scatterplot", "SCATTERPLOT"} {
		got, err := NormalizeChartType(alias)
		require.NoError(t, err)
		assert.Equal(t, "Scatter", got)
	}
}

func TestNormalizeChartTypeRejectsUnknown(t *testing.T) {
	// Casing matters for everything except the scatterplot alias.
	for _, invalid := range []string{"bar", "Histogram", "line", ""} {
		_, err := NormalizeChartType(invalid)
		assert.Error(t, err, "chart type %q should be rejected", invalid)
	}
}

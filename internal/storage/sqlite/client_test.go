package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querysmith/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func TestInsertGenerationRunAndHistory(t *testing.T) {
	client := newTestClient(t)

	run := &models.GenerationRun{
		ID:         "run-1",
		Role:       "analyst",
		Domain:     "retail",
		Dialect:    "mysql",
		QueryCount: 2,
		LatencyMS:  1200,
		CreatedAt:  time.Now(),
	}
	queries := []models.GeneratedQuery{
		{RunID: "run-1", Question: "q1", QueryText: "SELECT 1", Relevance: 0.9, ChartType: "Bar"},
		{RunID: "run-1", Question: "q2", QueryText: "SELECT 2", Relevance: 0.8, IsTimeBased: true, ChartType: "Line"},
	}

	require.NoError(t, client.InsertGenerationRun(run, queries))

	runs, err := client.GetGenerationHistory(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "analyst", runs[0].Role)
	assert.Equal(t, 2, runs[0].QueryCount)
	assert.False(t, runs[0].Degraded)
}

func TestHistoryOrderAndLimit(t *testing.T) {
	client := newTestClient(t)

	for i, id := range []string{"old", "new"} {
		run := &models.GenerationRun{
			ID:         id,
			Role:       "analyst",
			Domain:     "retail",
			Dialect:    "mysql",
			QueryCount: 1,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, client.InsertGenerationRun(run, nil))
	}

	runs, err := client.GetGenerationHistory(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].ID)
}

func TestInsertConversion(t *testing.T) {
	client := newTestClient(t)

	record := &models.ConversionRecord{
		ID:        "conv-1",
		Question:  "How many orders?",
		SQLQuery:  "SELECT COUNT(*) FROM orders",
		ChartType: "Bar",
		Degraded:  false,
		LatencyMS: 800,
		CreatedAt: time.Now(),
	}

	assert.NoError(t, client.InsertConversion(record))
}

func TestInsertRefinement(t *testing.T) {
	client := newTestClient(t)

	record := &models.RefinementRecord{
		ID:        "ref-1",
		ItemCount: 5,
		Succeeded: 4,
		MinDate:   "2024-01-01",
		MaxDate:   "2024-12-31",
		LatencyMS: 4000,
		CreatedAt: time.Now(),
	}

	assert.NoError(t, client.InsertRefinement(record))
}

package sqlgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querysmith/backend/internal/llm"
)

func TestRefineBatchRewritesEveryItem(t *testing.T) {
	stub := &stubCompleter{
		respond: func(req llm.CompletionRequest) (string, error) {
			// Echo the input query back with new bounds, fenced the way
			// the model is asked to answer.
			return "```sql\nSELECT * FROM orders WHERE order_date BETWEEN '2024-01-01' AND '2024-06-30'\n```", nil
		},
	}

	r := NewRefiner(factoryFor(stub), "gpt-3.5-turbo", 2)
	results := r.RefineBatch(context.Background(), "", DateRangeRequest{
		Queries: []QueryWithID{
			{QueryID: "q1", Query: "SELECT * FROM orders WHERE order_date BETWEEN '2023-01-01' AND '2023-06-30'"},
			{QueryID: "q2", Query: "SELECT * FROM orders WHERE order_date > '2023-01-01'"},
		},
		MinDate: "2024-01-01",
		MaxDate: "2024-06-30",
		Dialect: DialectMySQL,
	})

	require.Len(t, results, 2)
	assert.Equal(t, "q1", results[0].QueryID)
	assert.Equal(t, "q2", results[1].QueryID)
	for _, res := range results {
		assert.True(t, res.Success)
		assert.Contains(t, res.UpdatedQuery, "2024-01-01")
		assert.NotContains(t, res.UpdatedQuery, "```")
	}
	assert.Equal(t, 2, stub.callCount())
}

func TestRefineBatchIsolatesFailures(t *testing.T) {
	stub := &stubCompleter{
		respond: func(req llm.CompletionRequest) (string, error) {
			if strings.Contains(req.UserPrompt, "FROM failing_table") {
				return "", errors.New("rate limited")
			}
			return "```sql\nSELECT 1\n```", nil
		},
	}

	r := NewRefiner(factoryFor(stub), "gpt-3.5-turbo", 4)
	results := r.RefineBatch(context.Background(), "", DateRangeRequest{
		Queries: []QueryWithID{
			{QueryID: "a", Query: "SELECT * FROM orders"},
			{QueryID: "b", Query: "SELECT * FROM failing_table"},
			{QueryID: "c", Query: "SELECT * FROM customers"},
		},
		MinDate: "2024-01-01",
		MaxDate: "2024-12-31",
		Dialect: DialectPostgres,
	})

	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.True(t, results[2].Success)

	failed := results[1]
	assert.Equal(t, "b", failed.QueryID)
	assert.False(t, failed.Success)
	assert.Equal(t, "SELECT * FROM failing_table", failed.OriginalQuery)
	// A failed item keeps its original text as the updated query.
	assert.Equal(t, failed.OriginalQuery, failed.UpdatedQuery)
	assert.NotEmpty(t, failed.Error)
}

func TestRefineBatchEmptyRewriteIsFailure(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return "```sql\n\n```", nil
		},
	}

	r := NewRefiner(factoryFor(stub), "gpt-3.5-turbo", 1)
	results := r.RefineBatch(context.Background(), "", DateRangeRequest{
		Queries: []QueryWithID{{QueryID: "q1", Query: "SELECT 1"}},
		MinDate: "2024-01-01",
		MaxDate: "2024-12-31",
		Dialect: DialectMySQL,
	})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "SELECT 1", results[0].UpdatedQuery)
}

func TestRefineBatchCarriesExplanationThrough(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return "```sql\nSELECT 1\n```\n```explanation\nUpdated to the new range.\n```", nil
		},
	}

	r := NewRefiner(factoryFor(stub), "gpt-3.5-turbo", 1)
	results := r.RefineBatch(context.Background(), "", DateRangeRequest{
		Queries: []QueryWithID{
			{QueryID: "q1", Query: "SELECT 1", Explanation: "original explanation"},
			{QueryID: "q2", Query: "SELECT 2"},
		},
		MinDate: "2024-01-01",
		MaxDate: "2024-12-31",
		Dialect: DialectMySQL,
	})

	require.Len(t, results, 2)
	// With an input explanation, the rewritten one replaces it.
	assert.Equal(t, "Updated to the new range.", results[0].Explanation)
	// Without one, no explanation is invented.
	assert.Empty(t, results[1].Explanation)
}

func TestUpdateQueryDateRange(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return "```sql\nSELECT * FROM t WHERE d >= '2024-01-01'\n```", nil
		},
	}

	r := NewRefiner(factoryFor(stub), "gpt-3.5-turbo", 1)
	result := r.UpdateQueryDateRange(
		context.Background(),
		"",
		QueryWithID{QueryID: "solo", Query: "SELECT * FROM t WHERE d >= '2023-01-01'"},
		"2024-01-01",
		"2024-12-31",
		DialectMySQL,
	)

	assert.True(t, result.Success)
	assert.Equal(t, "solo", result.QueryID)
	assert.Contains(t, result.UpdatedQuery, "2024-01-01")
}

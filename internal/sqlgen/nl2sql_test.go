package sqlgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/querysmith/backend/internal/llm"
)

func TestConvertHappyPath(t *testing.T) {
	stub := &stubCompleter{
		respond: func(req llm.CompletionRequest) (string, error) {
			assert.True(t, req.JSONMode)
			assert.Contains(t, req.UserPrompt, "top customers")
			return `{"sql_query": "SELECT name, SUM(total) AS spend FROM customers c JOIN orders o ON o.customer_id = c.id GROUP BY name ORDER BY spend DESC LIMIT 10", "explanation": "Top ten customers by total spend.", "chart_type": "Bar"}`, nil
		},
	}

	c := NewConverter(factoryFor(stub), "gpt-4")
	result := c.Convert(context.Background(), "", "Who are my top customers?", "Table: customers", DialectMySQL)

	assert.Contains(t, result.SQLQuery, "SELECT name")
	assert.Equal(t, "Top ten customers by total spend.", result.Explanation)
	assert.Equal(t, "Bar", result.ChartType)
}

func TestConvertNormalizesScatterplot(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return `{"sql_query": "SELECT price, rating FROM products", "explanation": "Price against rating.", "chart_type": "Scatterplot"}`, nil
		},
	}

	c := NewConverter(factoryFor(stub), "gpt-4")
	result := c.Convert(context.Background(), "", "price vs rating", "Table: products", DialectPostgres)

	assert.Equal(t, "Scatter", result.ChartType)
}

func TestConvertStripsFencedSQL(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return `{"sql_query": "` + "```sql\\nSELECT 1\\n```" + `", "explanation": "One.", "chart_type": "Line"}`, nil
		},
	}

	c := NewConverter(factoryFor(stub), "gpt-4")
	result := c.Convert(context.Background(), "", "one", "Table: t", DialectSQLite)

	assert.Equal(t, "SELECT 1", result.SQLQuery)
}

func TestConvertDegradesOnProviderError(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return "", errors.New("timeout")
		},
	}

	c := NewConverter(factoryFor(stub), "gpt-4")
	result := c.Convert(context.Background(), "", "anything", "Table: t", DialectMySQL)

	assert.True(t, strings.HasPrefix(result.SQLQuery, ErrorQueryPrefix))
	assert.Equal(t, "Error generating SQL query from natural language.", result.Explanation)
	assert.Equal(t, "None", result.ChartType)
}

func TestConvertDegradesOnMalformedJSON(t *testing.T) {
	stub := &stubCompleter{
		respond: func(llm.CompletionRequest) (string, error) {
			return "sorry, no JSON", nil
		},
	}

	c := NewConverter(factoryFor(stub), "gpt-4")
	result := c.Convert(context.Background(), "", "anything", "Table: t", DialectMySQL)

	assert.True(t, strings.HasPrefix(result.SQLQuery, ErrorQueryPrefix))
	assert.Equal(t, "None", result.ChartType)
}

package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSQLPrefersTaggedFence(t *testing.T) {
	raw := "Here is the query:\n```sql\nSELECT id FROM orders\n```\nAnd some trailing prose."
	assert.Equal(t, "SELECT id FROM orders", ExtractSQL(raw))
}

func TestExtractSQLFallsBackToAnyFence(t *testing.T) {
	raw := "```\nSELECT name FROM users\n```"
	assert.Equal(t, "SELECT name FROM users", ExtractSQL(raw))
}

func TestExtractSQLFallsBackToRawText(t *testing.T) {
	raw := "  SELECT 1  \n"
	assert.Equal(t, "SELECT 1", ExtractSQL(raw))
}

func TestExtractSQLTaggedFenceWinsOverBareFence(t *testing.T) {
	raw := "```\nnot the query\n```\n```sql\nSELECT 2\n```"
	assert.Equal(t, "SELECT 2", ExtractSQL(raw))
}

func TestExtractSQLIsIdempotent(t *testing.T) {
	raw := "```sql\nSELECT region, SUM(total) FROM sales GROUP BY region\n```"
	once := ExtractSQL(raw)
	assert.Equal(t, once, ExtractSQL(once))
}

func TestExtractSQLMultilineQuery(t *testing.T) {
	raw := "```sql\nSELECT a,\n       b\nFROM t\nWHERE a > 1\n```"
	assert.Equal(t, "SELECT a,\n       b\nFROM t\nWHERE a > 1", ExtractSQL(raw))
}

func TestExtractTagged(t *testing.T) {
	raw := "```sql\nSELECT 1\n```\n```explanation\nCounts one row.\n```"

	explanation, ok := ExtractTagged(raw, "explanation")
	assert.True(t, ok)
	assert.Equal(t, "Counts one row.", explanation)

	_, ok = ExtractTagged("no fences here", "explanation")
	assert.False(t, ok)
}

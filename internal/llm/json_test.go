package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONBareObject(t *testing.T) {
	got, err := ExtractJSON(`{"a": 1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, got)
}

func TestExtractJSONWrappedInProse(t *testing.T) {
	got, err := ExtractJSON("Here you go:\n```json\n{\"queries\": []}\n```\nHope that helps!")
	require.NoError(t, err)
	assert.Equal(t, `{"queries": []}`, got)
}

func TestExtractJSONNestedBraces(t *testing.T) {
	raw := `prefix {"outer": {"inner": [1, 2, {"deep": true}]}} suffix`
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"outer": {"inner": [1, 2, {"deep": true}]}}`, got)
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	raw := `{"sql": "SELECT '{' FROM t WHERE c = \"}\""}`
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestExtractJSONArray(t *testing.T) {
	got, err := ExtractJSON("the list: [1, 2, 3] done")
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", got)
}

func TestExtractJSONNoJSON(t *testing.T) {
	_, err := ExtractJSON("no structured data here")
	assert.Error(t, err)
}

func TestParseJSONResponse(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	got, err := ParseJSONResponse[payload]("noise {\"name\": \"x\", \"count\": 3} noise")
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "x", Count: 3}, got)

	_, err = ParseJSONResponse[payload]("not json at all")
	assert.Error(t, err)
}

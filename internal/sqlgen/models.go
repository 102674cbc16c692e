package sqlgen

import (
	"fmt"
	"math"
	"strings"
)

// ErrorQueryPrefix marks the sentinel row a degraded generation returns
// in place of real queries. Callers must check for it explicitly.
const ErrorQueryPrefix = "-- Error:"

// MinDatePlaceholder and MaxDatePlaceholder are the tokens the draft
// prompt asks the model to emit instead of concrete dates.
const (
	MinDatePlaceholder = "[MIN_DATE]"
	MaxDatePlaceholder = "[MAX_DATE]"
)

var validChartTypes = []string{"Bar", "Line", "Area", "Pie", "Donut", "Scatter"}

// QueryItem is one candidate analytical query from a draft batch.
type QueryItem struct {
	Question    string  `json:"question"`
	Query       string  `json:"query"`
	Relevance   float64 `json:"relevance"`
	IsTimeBased bool    `json:"is_time_based"`
	ChartType   string  `json:"chart_type"`
}

// QueryBatch is the ordered result of one generation call. Order is
// insertion order from the model response.
type QueryBatch struct {
	Queries []QueryItem `json:"queries"`
}

// Validate enforces the field invariants: relevance in [0,1] (rounded
// to two decimals, never clamped) and a recognized chart type. The one
// tolerated alias is the case-insensitive "scatterplot".
func (q *QueryItem) Validate() error {
	if q.Relevance < 0 || q.Relevance > 1 {
		return fmt.Errorf("relevance must be between 0.0 and 1.0, got %v", q.Relevance)
	}
	q.Relevance = math.Round(q.Relevance*100) / 100

	chart, err := NormalizeChartType(q.ChartType)
	if err != nil {
		return err
	}
	q.ChartType = chart

	return nil
}

// NormalizeChartType validates a chart type against the recognized set.
// Unrecognized values are a validation failure, not a silent coercion;
// the documented exception is "scatterplot" in any casing, which maps
// to Scatter.
func NormalizeChartType(chart string) (string, error) {
	for _, valid := range validChartTypes {
		if chart == valid {
			return chart, nil
		}
	}

	if strings.EqualFold(chart, "scatterplot") {
		return "Scatter", nil
	}

	return "", fmt.Errorf("chart type must be one of: %s, got %q",
		strings.Join(validChartTypes, ", "), chart)
}

// QueryWithID is one refinement input: the query text, its caller-side
// identifier, and an optional explanation carried through the rewrite.
type QueryWithID struct {
	QueryID     string `json:"query_id"`
	Query       string `json:"query"`
	Explanation string `json:"explanation,omitempty"`
}

// DateRangeRequest asks for every query's date bounds to be rewritten
// to [MinDate, MaxDate]. min <= max is the caller's responsibility;
// the refiner substitutes blindly.
type DateRangeRequest struct {
	Queries []QueryWithID `json:"queries"`
	MinDate string        `json:"min_date"`
	MaxDate string        `json:"max_date"`
	Dialect Dialect       `json:"db_type"`
}

// DateUpdateResult is the per-item outcome of a refinement. Created
// once per input item, immutable afterward, never persisted by the
// pipeline.
type DateUpdateResult struct {
	QueryID       string `json:"query_id"`
	OriginalQuery string `json:"original_query"`
	UpdatedQuery  string `json:"updated_query"`
	Explanation   string `json:"explanation,omitempty"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
}

// NLSQLResult is the outcome of one natural-language conversion.
type NLSQLResult struct {
	SQLQuery    string `json:"sql_query"`
	Explanation string `json:"explanation"`
	ChartType   string `json:"chart_type"`
}

// GenerationContext is the per-call input to draft generation. It
// exists only for the duration of one invocation.
type GenerationContext struct {
	Schema  string
	Dialect Dialect
	Role    string
	Domain  string
	MinDate string
	MaxDate string
}

// GenerationError wraps a provider, parse, or validation failure from
// draft generation before it is degraded into the sentinel batch.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

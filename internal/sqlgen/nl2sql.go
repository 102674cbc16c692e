package sqlgen

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/llm"
	"github.com/querysmith/backend/internal/metrics"
	"github.com/querysmith/backend/pkg/logger"
)

const conversionApology = "Error generating SQL query from natural language."

// Converter turns one natural-language question plus a schema into one
// SQL query with an explanation and a chart recommendation.
type Converter struct {
	completerFor CompleterFactory
	model        string
}

func NewConverter(completerFor CompleterFactory, model string) *Converter {
	return &Converter{
		completerFor: completerFor,
		model:        model,
	}
}

// Convert never returns an error: failures degrade into a sentinel
// result with the ErrorQueryPrefix marker, a fixed apology explanation,
// and chart type "None".
func (c *Converter) Convert(ctx context.Context, apiKey, question, schema string, dialect Dialect) NLSQLResult {
	start := time.Now()

	result, err := c.convert(ctx, apiKey, question, schema, dialect)
	metrics.ConversionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error("NL-to-SQL conversion degraded to sentinel",
			zap.Error(err),
			zap.String("question", question),
		)
		metrics.ConversionTotal.WithLabelValues("degraded").Inc()
		return NLSQLResult{
			SQLQuery:    ErrorQueryPrefix + " " + err.Error(),
			Explanation: conversionApology,
			ChartType:   "None",
		}
	}

	metrics.ConversionTotal.WithLabelValues("ok").Inc()
	return result
}

func (c *Converter) convert(ctx context.Context, apiKey, question, schema string, dialect Dialect) (NLSQLResult, error) {
	system, user := nl2sqlPrompt(question, schema, dialect)

	resp, err := c.completerFor(apiKey).Complete(ctx, llm.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Model:        c.model,
		JSONMode:     true,
	})
	if err != nil {
		return NLSQLResult{}, err
	}

	parsed, err := llm.ParseJSONResponse[NLSQLResult](resp.Content)
	if err != nil {
		return NLSQLResult{}, err
	}

	parsed.SQLQuery = ExtractSQL(parsed.SQLQuery)
	if strings.EqualFold(parsed.ChartType, "scatterplot") {
		parsed.ChartType = "Scatter"
	}

	return parsed, nil
}

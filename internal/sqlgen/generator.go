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

// Completer is the single collaborator contract to the model provider.
type Completer interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// CompleterFactory resolves a Completer for a request-scoped credential.
// An empty key means the process-wide default.
type CompleterFactory func(apiKey string) Completer

// Generator produces draft batches of candidate analytical queries from
// one structured model round trip. It holds no state between calls.
type Generator struct {
	completerFor CompleterFactory
	model        string
}

func NewGenerator(completerFor CompleterFactory, model string) *Generator {
	return &Generator{
		completerFor: completerFor,
		model:        model,
	}
}

// GenerateDrafts never returns an error: any provider, parse, or
// validation failure degrades into a single sentinel item whose query
// text starts with ErrorQueryPrefix. Callers check for the marker, not
// for an error value.
func (g *Generator) GenerateDrafts(ctx context.Context, apiKey string, gc GenerationContext) QueryBatch {
	start := time.Now()

	batch, err := g.generate(ctx, apiKey, gc)
	metrics.GenerationDuration.WithLabelValues(string(gc.Dialect)).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error("Draft generation degraded to sentinel",
			zap.Error(err),
			zap.String("role", gc.Role),
			zap.String("domain", gc.Domain),
		)
		metrics.GenerationTotal.WithLabelValues("degraded").Inc()
		return sentinelBatch(err)
	}

	metrics.GenerationTotal.WithLabelValues("ok").Inc()
	logger.Info("Draft batch generated",
		zap.Int("queries", len(batch.Queries)),
		zap.String("role", gc.Role),
		zap.String("domain", gc.Domain),
		zap.String("dialect", string(gc.Dialect)),
	)

	return batch
}

func (g *Generator) generate(ctx context.Context, apiKey string, gc GenerationContext) (QueryBatch, error) {
	system, user := draftPrompt(gc)

	resp, err := g.completerFor(apiKey).Complete(ctx, llm.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Model:        g.model,
		JSONMode:     true,
	})
	if err != nil {
		return QueryBatch{}, &GenerationError{Stage: "provider", Err: err}
	}

	batch, err := llm.ParseJSONResponse[QueryBatch](resp.Content)
	if err != nil {
		return QueryBatch{}, &GenerationError{Stage: "parse", Err: err}
	}

	for i := range batch.Queries {
		item := &batch.Queries[i]
		item.Query = ExtractSQL(item.Query)

		if err := item.Validate(); err != nil {
			return QueryBatch{}, &GenerationError{Stage: "validate", Err: err}
		}

		// The model's flag is cross-checked against the local
		// classifier; either signal marks the item time-based.
		if !item.IsTimeBased && IsTimeBased(item.Query) {
			item.IsTimeBased = true
		}

		if gc.MinDate != "" && gc.MaxDate != "" && item.IsTimeBased && IsTimeBased(item.Query) {
			item.Query = ReplaceDatePlaceholders(item.Query, gc.MinDate, gc.MaxDate)
		}
	}

	return batch, nil
}

// ReplaceDatePlaceholders substitutes the draft placeholders with quoted
// concrete bounds. Queries without placeholders pass through unchanged.
func ReplaceDatePlaceholders(query, minDate, maxDate string) string {
	query = strings.ReplaceAll(query, MinDatePlaceholder, "'"+minDate+"'")
	query = strings.ReplaceAll(query, MaxDatePlaceholder, "'"+maxDate+"'")
	return query
}

func sentinelBatch(err error) QueryBatch {
	return QueryBatch{
		Queries: []QueryItem{
			{
				Question:    "Error generating queries",
				Query:       ErrorQueryPrefix + " " + err.Error(),
				Relevance:   0.0,
				IsTimeBased: false,
				ChartType:   "Line",
			},
		},
	}
}

package sqlgen

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/llm"
	"github.com/querysmith/backend/internal/metrics"
	"github.com/querysmith/backend/pkg/logger"
)

// intervalPattern is a best-effort signal that a query carries relative
// date arithmetic. Used only for a post-rewrite warning, never to flip
// an item's success.
var intervalPattern = regexp.MustCompile(`(?i)INTERVAL|DATE_SUB|DATE_ADD`)

// Refiner rewrites date bounds in already-generated queries, one model
// round trip per item. Items are independent: one failure never aborts
// or cancels its siblings, and output order always mirrors input order.
type Refiner struct {
	completerFor CompleterFactory
	model        string
	concurrency  int
}

func NewRefiner(completerFor CompleterFactory, model string, concurrency int) *Refiner {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Refiner{
		completerFor: completerFor,
		model:        model,
		concurrency:  concurrency,
	}
}

// RefineBatch fans the items out over a bounded worker set and
// reassembles results by input index.
func (r *Refiner) RefineBatch(ctx context.Context, apiKey string, req DateRangeRequest) []DateUpdateResult {
	start := time.Now()
	completer := r.completerFor(apiKey)

	results := make([]DateUpdateResult, len(req.Queries))
	sem := make(chan struct{}, r.concurrency)

	var wg sync.WaitGroup
	for i, item := range req.Queries {
		wg.Add(1)
		go func(i int, item QueryWithID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = r.refineOne(ctx, completer, item, req.MinDate, req.MaxDate, req.Dialect)
		}(i, item)
	}
	wg.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Success {
			succeeded++
		}
	}

	metrics.RefinementDuration.Observe(time.Since(start).Seconds())
	logger.Info("Date range refinement finished",
		zap.Int("items", len(results)),
		zap.Int("succeeded", succeeded),
		zap.String("min_date", req.MinDate),
		zap.String("max_date", req.MaxDate),
	)

	return results
}

// UpdateQueryDateRange refines a single (id, query, explanation) triple
// by wrapping it into a one-element batch.
func (r *Refiner) UpdateQueryDateRange(ctx context.Context, apiKey string, item QueryWithID, minDate, maxDate string, dialect Dialect) DateUpdateResult {
	results := r.RefineBatch(ctx, apiKey, DateRangeRequest{
		Queries: []QueryWithID{item},
		MinDate: minDate,
		MaxDate: maxDate,
		Dialect: dialect,
	})
	return results[0]
}

func (r *Refiner) refineOne(ctx context.Context, completer Completer, item QueryWithID, minDate, maxDate string, dialect Dialect) DateUpdateResult {
	system, user := dateUpdatePrompt(item, minDate, maxDate, dialect)

	resp, err := completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		Model:        r.model,
	})
	if err != nil {
		return r.failure(item, err)
	}

	updated := ExtractSQL(resp.Content)
	if updated == "" {
		return r.failure(item, fmt.Errorf("model returned an empty rewrite"))
	}

	explanation := item.Explanation
	if item.Explanation != "" {
		if tagged, ok := ExtractTagged(resp.Content, "explanation"); ok {
			explanation = tagged
		}
	}

	if intervalPattern.MatchString(item.Query) && !intervalPattern.MatchString(updated) {
		logger.Warn("Rewritten query lost its interval arithmetic",
			zap.String("query_id", item.QueryID),
		)
	}

	metrics.RefinementItemTotal.WithLabelValues("success").Inc()
	return DateUpdateResult{
		QueryID:       item.QueryID,
		OriginalQuery: item.Query,
		UpdatedQuery:  updated,
		Explanation:   explanation,
		Success:       true,
	}
}

func (r *Refiner) failure(item QueryWithID, err error) DateUpdateResult {
	logger.Warn("Date refinement failed for query",
		zap.String("query_id", item.QueryID),
		zap.Error(err),
	)
	metrics.RefinementItemTotal.WithLabelValues("failure").Inc()

	return DateUpdateResult{
		QueryID:       item.QueryID,
		OriginalQuery: item.Query,
		UpdatedQuery:  item.Query,
		Explanation:   item.Explanation,
		Success:       false,
		Error:         err.Error(),
	}
}

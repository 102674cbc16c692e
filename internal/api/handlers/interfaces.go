package handlers

import (
	"context"

	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/internal/storage/models"
)

// The handlers depend on narrow interfaces so tests can stand in for
// the services without a provider or a database.

type DraftService interface {
	GenerateDrafts(ctx context.Context, apiKey string, gc sqlgen.GenerationContext) sqlgen.QueryBatch
}

type RefineService interface {
	RefineBatch(ctx context.Context, apiKey string, req sqlgen.DateRangeRequest) []sqlgen.DateUpdateResult
	UpdateQueryDateRange(ctx context.Context, apiKey string, item sqlgen.QueryWithID, minDate, maxDate string, dialect sqlgen.Dialect) sqlgen.DateUpdateResult
}

type ConvertService interface {
	Convert(ctx context.Context, apiKey, question, schema string, dialect sqlgen.Dialect) sqlgen.NLSQLResult
}

type HistoryStore interface {
	InsertGenerationRun(run *models.GenerationRun, queries []models.GeneratedQuery) error
	InsertConversion(record *models.ConversionRecord) error
	InsertRefinement(record *models.RefinementRecord) error
	GetGenerationHistory(limit int) ([]models.GenerationRun, error)
}

type ResponseCache interface {
	Get(ctx context.Context, kind, hash string, dest any) (bool, error)
	Set(ctx context.Context, kind, hash string, value any) error
}

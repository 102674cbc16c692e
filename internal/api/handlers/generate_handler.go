package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/internal/storage/models"
	"github.com/querysmith/backend/pkg/logger"
	"github.com/querysmith/backend/pkg/utils"
)

const generateCacheKind = "generate"

type GenerateHandler struct {
	generator DraftService
	cache     ResponseCache
	history   HistoryStore
}

func NewGenerateHandler(generator DraftService, cache ResponseCache, history HistoryStore) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		cache:     cache,
		history:   history,
	}
}

type generateRequest struct {
	DBSchema string `json:"db_schema"`
	DBType   string `json:"db_type"`
	Role     string `json:"role"`
	Domain   string `json:"domain"`
	MinDate  string `json:"min_date"`
	MaxDate  string `json:"max_date"`
	APIKey   string `json:"api_key"`
}

type generatedQuery struct {
	Query       string  `json:"query"`
	Explanation string  `json:"explanation"`
	Relevance   float64 `json:"relevance"`
	IsTimeBased bool    `json:"is_time_based"`
	ChartType   string  `json:"chart_type"`
}

type generateResponse struct {
	Queries []generatedQuery `json:"queries"`
}

// Generate handles POST /api/v1/queries/generate. Generation failures do
// not surface as HTTP errors: the degraded sentinel row travels in-band
// with a 200, and the caller inspects the query text.
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	ctx := c.Context()
	cacheKey := utils.HashStrings(req.DBSchema, req.DBType, req.Role, req.Domain, req.MinDate, req.MaxDate)

	if h.cache != nil {
		var cached generateResponse
		hit, err := h.cache.Get(ctx, generateCacheKind, cacheKey, &cached)
		if err != nil {
			logger.Warn("Cache lookup failed", zap.Error(err))
		}
		if hit {
			return c.JSON(cached)
		}
	}

	start := time.Now()
	batch := h.generator.GenerateDrafts(ctx, req.APIKey, sqlgen.GenerationContext{
		Schema:  req.DBSchema,
		Dialect: sqlgen.ParseDialect(req.DBType),
		Role:    req.Role,
		Domain:  req.Domain,
		MinDate: req.MinDate,
		MaxDate: req.MaxDate,
	})
	latency := time.Since(start)

	resp := generateResponse{Queries: make([]generatedQuery, 0, len(batch.Queries))}
	degraded := false
	for _, item := range batch.Queries {
		if strings.HasPrefix(item.Query, sqlgen.ErrorQueryPrefix) {
			degraded = true
		}
		resp.Queries = append(resp.Queries, generatedQuery{
			Query:       item.Query,
			Explanation: item.Question,
			Relevance:   item.Relevance,
			IsTimeBased: item.IsTimeBased,
			ChartType:   item.ChartType,
		})
	}

	h.record(req, batch, degraded, latency)

	if h.cache != nil && !degraded {
		if err := h.cache.Set(ctx, generateCacheKind, cacheKey, resp); err != nil {
			logger.Warn("Cache write failed", zap.Error(err))
		}
	}

	return c.JSON(resp)
}

func (h *GenerateHandler) record(req generateRequest, batch sqlgen.QueryBatch, degraded bool, latency time.Duration) {
	if h.history == nil {
		return
	}

	run := &models.GenerationRun{
		ID:         uuid.New().String(),
		Role:       req.Role,
		Domain:     req.Domain,
		Dialect:    req.DBType,
		QueryCount: len(batch.Queries),
		Degraded:   degraded,
		LatencyMS:  int(latency.Milliseconds()),
		CreatedAt:  time.Now(),
	}

	queries := make([]models.GeneratedQuery, 0, len(batch.Queries))
	for _, item := range batch.Queries {
		queries = append(queries, models.GeneratedQuery{
			RunID:       run.ID,
			Question:    item.Question,
			QueryText:   item.Query,
			Relevance:   item.Relevance,
			IsTimeBased: item.IsTimeBased,
			ChartType:   item.ChartType,
		})
	}

	if err := h.history.InsertGenerationRun(run, queries); err != nil {
		logger.Error("Failed to record generation run", zap.Error(err))
	}
}

// History handles GET /api/v1/queries/history.
func (h *GenerateHandler) History(c *fiber.Ctx) error {
	if h.history == nil {
		return c.JSON(fiber.Map{"runs": []any{}})
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 200 {
		limit = 20
	}

	runs, err := h.history.GetGenerationHistory(limit)
	if err != nil {
		logger.Error("Failed to load generation history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load history",
		})
	}

	type historyRun struct {
		ID         string `json:"id"`
		Role       string `json:"role"`
		Domain     string `json:"domain"`
		Dialect    string `json:"dialect"`
		QueryCount int    `json:"query_count"`
		Degraded   bool   `json:"degraded"`
		LatencyMS  int    `json:"latency_ms"`
		CreatedAt  string `json:"created_at"`
	}

	out := make([]historyRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, historyRun{
			ID:         r.ID,
			Role:       r.Role,
			Domain:     r.Domain,
			Dialect:    r.Dialect,
			QueryCount: r.QueryCount,
			Degraded:   r.Degraded,
			LatencyMS:  r.LatencyMS,
			CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{"runs": out})
}

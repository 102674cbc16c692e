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

const convertCacheKind = "nl2sql"

type NL2SQLHandler struct {
	converter ConvertService
	cache     ResponseCache
	history   HistoryStore
}

func NewNL2SQLHandler(converter ConvertService, cache ResponseCache, history HistoryStore) *NL2SQLHandler {
	return &NL2SQLHandler{
		converter: converter,
		cache:     cache,
		history:   history,
	}
}

type convertRequest struct {
	NLQuery  string `json:"nl_query"`
	DBSchema string `json:"db_schema"`
	DBType   string `json:"db_type"`
	APIKey   string `json:"api_key"`
}

// Convert handles POST /api/v1/nlq/convert. The response always has the
// three-field shape; a failed conversion carries the sentinel query and
// chart type "None" inside a 200.
func (h *NL2SQLHandler) Convert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	ctx := c.Context()
	cacheKey := utils.HashStrings(req.NLQuery, req.DBSchema, req.DBType)

	if h.cache != nil {
		var cached sqlgen.NLSQLResult
		hit, err := h.cache.Get(ctx, convertCacheKind, cacheKey, &cached)
		if err != nil {
			logger.Warn("Cache lookup failed", zap.Error(err))
		}
		if hit {
			return c.JSON(cached)
		}
	}

	start := time.Now()
	result := h.converter.Convert(ctx, req.APIKey, req.NLQuery, req.DBSchema, sqlgen.ParseDialect(req.DBType))
	latency := time.Since(start)

	degraded := strings.HasPrefix(result.SQLQuery, sqlgen.ErrorQueryPrefix)

	if h.history != nil {
		record := &models.ConversionRecord{
			ID:        uuid.New().String(),
			Question:  req.NLQuery,
			SQLQuery:  result.SQLQuery,
			ChartType: result.ChartType,
			Degraded:  degraded,
			LatencyMS: int(latency.Milliseconds()),
			CreatedAt: time.Now(),
		}
		if err := h.history.InsertConversion(record); err != nil {
			logger.Error("Failed to record conversion", zap.Error(err))
		}
	}

	if h.cache != nil && !degraded {
		if err := h.cache.Set(ctx, convertCacheKind, cacheKey, result); err != nil {
			logger.Warn("Cache write failed", zap.Error(err))
		}
	}

	return c.JSON(result)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/internal/storage/models"
	"github.com/querysmith/backend/pkg/logger"
)

type RefineHandler struct {
	refiner RefineService
	history HistoryStore
}

func NewRefineHandler(refiner RefineService, history HistoryStore) *RefineHandler {
	return &RefineHandler{
		refiner: refiner,
		history: history,
	}
}

type refineRequest struct {
	Queries []sqlgen.QueryWithID `json:"queries"`
	MinDate string               `json:"min_date"`
	MaxDate string               `json:"max_date"`
	DBType  string               `json:"db_type"`
	APIKey  string               `json:"api_key"`
}

type refineResponse struct {
	UpdatedQueries []sqlgen.DateUpdateResult `json:"updated_queries"`
}

// RefineBatch handles POST /api/v1/queries/refine. Every input item
// comes back at its own index regardless of individual outcomes; only
// a malformed request is a transport error.
func (h *RefineHandler) RefineBatch(c *fiber.Ctx) error {
	var req refineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	start := time.Now()
	results := h.refiner.RefineBatch(c.Context(), req.APIKey, sqlgen.DateRangeRequest{
		Queries: req.Queries,
		MinDate: req.MinDate,
		MaxDate: req.MaxDate,
		Dialect: sqlgen.ParseDialect(req.DBType),
	})

	h.record(req, results, time.Since(start))

	return c.JSON(refineResponse{UpdatedQueries: results})
}

type refineSingleRequest struct {
	QueryID     string `json:"query_id"`
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
	MinDate     string `json:"min_date"`
	MaxDate     string `json:"max_date"`
	DBType      string `json:"db_type"`
	APIKey      string `json:"api_key"`
}

// RefineSingle handles POST /api/v1/queries/refine/single and returns
// one DateUpdateResult as the response body.
func (h *RefineHandler) RefineSingle(c *fiber.Ctx) error {
	var req refineSingleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	if req.QueryID == "" || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query_id and query are required",
		})
	}

	result := h.refiner.UpdateQueryDateRange(
		c.Context(),
		req.APIKey,
		sqlgen.QueryWithID{
			QueryID:     req.QueryID,
			Query:       req.Query,
			Explanation: req.Explanation,
		},
		req.MinDate,
		req.MaxDate,
		sqlgen.ParseDialect(req.DBType),
	)

	return c.JSON(result)
}

func (h *RefineHandler) record(req refineRequest, results []sqlgen.DateUpdateResult, latency time.Duration) {
	if h.history == nil {
		return
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}

	record := &models.RefinementRecord{
		ID:        uuid.New().String(),
		ItemCount: len(results),
		Succeeded: succeeded,
		MinDate:   req.MinDate,
		MaxDate:   req.MaxDate,
		LatencyMS: int(latency.Milliseconds()),
		CreatedAt: time.Now(),
	}

	if err := h.history.InsertRefinement(record); err != nil {
		logger.Error("Failed to record refinement", zap.Error(err))
	}
}

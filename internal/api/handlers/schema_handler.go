package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/internal/storage/executor"
	"github.com/querysmith/backend/internal/storage/schema"
	"github.com/querysmith/backend/pkg/logger"
)

// SchemaHandler serves the database-facing helpers: schema extraction
// from a caller-supplied connection string and batch query execution.
type SchemaHandler struct{}

func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{}
}

type extractRequest struct {
	DBType           string `json:"db_type"`
	ConnectionString string `json:"connection_string"`
}

// Extract handles POST /api/v1/schema/extract.
func (h *SchemaHandler) Extract(c *fiber.Ctx) error {
	var req extractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	if req.DBType == "" || req.ConnectionString == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "db_type and connection_string are required",
		})
	}

	rendered, err := schema.Extract(c.Context(), sqlgen.ParseDialect(req.DBType), req.ConnectionString)
	if err != nil {
		logger.Error("Schema extraction failed",
			zap.Error(err),
			zap.String("db_type", req.DBType),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to extract schema: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{"db_schema": rendered})
}

type executeRequest struct {
	DBType           string                     `json:"db_type"`
	ConnectionString string                     `json:"connection_string"`
	Queries          []executor.ExecutableQuery `json:"queries"`
}

// Execute handles POST /api/v1/queries/execute. Connection failures are
// transport errors; per-query failures ride along in the result list.
func (h *SchemaHandler) Execute(c *fiber.Ctx) error {
	var req executeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON format",
		})
	}

	if req.DBType == "" || req.ConnectionString == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "db_type and connection_string are required",
		})
	}
	if len(req.Queries) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "queries must not be empty",
		})
	}

	results, err := executor.Run(c.Context(), sqlgen.ParseDialect(req.DBType), req.ConnectionString, req.Queries)
	if err != nil {
		logger.Error("Query execution failed",
			zap.Error(err),
			zap.String("db_type", req.DBType),
		)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to execute queries: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{"results": results})
}

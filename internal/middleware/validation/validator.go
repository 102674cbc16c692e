package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Config struct {
	MaxSchemaBytes   int
	MaxQuestionBytes int
	Logger           *zap.Logger
}

// Middleware rejects malformed request shapes before they reach the
// handlers. These are the only errors allowed to surface as transport
// failures; everything past this point degrades in-band.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxSchemaBytes == 0 {
		cfg.MaxSchemaBytes = 1024 * 1024
	}
	if cfg.MaxQuestionBytes == 0 {
		cfg.MaxQuestionBytes = 5000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		path := c.Path()

		switch {
		case strings.HasSuffix(path, "/queries/generate"):
			return validateGenerate(c, cfg)
		case strings.HasSuffix(path, "/queries/refine"):
			return validateRefine(c, cfg)
		case strings.HasSuffix(path, "/nlq/convert"):
			return validateConvert(c, cfg)
		}

		return c.Next()
	}
}

func validateGenerate(c *fiber.Ctx, cfg Config) error {
	var req struct {
		DBSchema string `json:"db_schema"`
		DBType   string `json:"db_type"`
		Role     string `json:"role"`
		Domain   string `json:"domain"`
		MinDate  string `json:"min_date"`
		MaxDate  string `json:"max_date"`
	}

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if req.DBSchema == "" || req.DBType == "" || req.Role == "" || req.Domain == "" {
		return badRequest(c, "db_schema, db_type, role and domain are required")
	}

	if len(req.DBSchema) > cfg.MaxSchemaBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "Schema exceeds maximum size",
		})
	}

	// Bounds are optional but must come as a pair of ISO dates.
	if (req.MinDate == "") != (req.MaxDate == "") {
		return badRequest(c, "min_date and max_date must be supplied together")
	}
	if req.MinDate != "" && (!isoDatePattern.MatchString(req.MinDate) || !isoDatePattern.MatchString(req.MaxDate)) {
		return badRequest(c, "min_date and max_date must be YYYY-MM-DD")
	}

	return c.Next()
}

func validateRefine(c *fiber.Ctx, cfg Config) error {
	var req struct {
		Queries []struct {
			QueryID string `json:"query_id"`
			Query   string `json:"query"`
		} `json:"queries"`
		MinDate string `json:"min_date"`
		MaxDate string `json:"max_date"`
	}

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if len(req.Queries) == 0 {
		return badRequest(c, "queries must not be empty")
	}

	for _, q := range req.Queries {
		if q.QueryID == "" || q.Query == "" {
			return badRequest(c, "every query needs a query_id and query text")
		}
	}

	if !isoDatePattern.MatchString(req.MinDate) || !isoDatePattern.MatchString(req.MaxDate) {
		return badRequest(c, "min_date and max_date must be YYYY-MM-DD")
	}

	return c.Next()
}

func validateConvert(c *fiber.Ctx, cfg Config) error {
	var req struct {
		NLQuery  string `json:"nl_query"`
		DBSchema string `json:"db_schema"`
		DBType   string `json:"db_type"`
	}

	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if req.NLQuery == "" || req.DBSchema == "" || req.DBType == "" {
		return badRequest(c, "nl_query, db_schema and db_type are required")
	}

	if len(req.NLQuery) > cfg.MaxQuestionBytes {
		return badRequest(c, "Question exceeds maximum length")
	}
	if len(req.DBSchema) > cfg.MaxSchemaBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "Schema exceeds maximum size",
		})
	}

	return c.Next()
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

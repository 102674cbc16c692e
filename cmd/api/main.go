package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/api/handlers"
	"github.com/querysmith/backend/internal/cache/redis"
	"github.com/querysmith/backend/internal/llm"
	"github.com/querysmith/backend/internal/metrics"
	"github.com/querysmith/backend/internal/middleware/ratelimit"
	"github.com/querysmith/backend/internal/middleware/security"
	"github.com/querysmith/backend/internal/middleware/validation"
	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/internal/storage/sqlite"
	"github.com/querysmith/backend/pkg/config"
	appLogger "github.com/querysmith/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting QuerySmith API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// The cache is optional; the service runs fine without it.
	var cache handlers.ResponseCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTLSec,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without response cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			cache = redisClient
		}
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	// A request-supplied key gets a derived client; the empty key means
	// the process-wide default. Provider health state is shared either way.
	completerFor := func(apiKey string) sqlgen.Completer {
		if apiKey == "" {
			return llmClient
		}
		return llmClient.WithAPIKey(apiKey)
	}

	generator := sqlgen.NewGenerator(completerFor, cfg.LLM.Model)
	refiner := sqlgen.NewRefiner(completerFor, cfg.LLM.RefinerModel, 4)
	converter := sqlgen.NewConverter(completerFor, cfg.LLM.Model)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Client-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:            appLogger.GetLogger(),
	})
	defer limiter.Stop()

	generateHandler := handlers.NewGenerateHandler(generator, cache, sqliteClient)
	refineHandler := handlers.NewRefineHandler(refiner, sqliteClient)
	nl2sqlHandler := handlers.NewNL2SQLHandler(converter, cache, sqliteClient)
	schemaHandler := handlers.NewSchemaHandler()
	streamHandler := handlers.NewRefineStreamHandler(refiner)

	api := app.Group("/api/v1")
	api.Use(limiter.Middleware())
	api.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	api.Post("/queries/generate", generateHandler.Generate)
	api.Get("/queries/history", generateHandler.History)
	api.Post("/queries/refine", refineHandler.RefineBatch)
	api.Post("/queries/refine/single", refineHandler.RefineSingle)
	api.Post("/queries/execute", schemaHandler.Execute)
	api.Post("/nlq/convert", nl2sqlHandler.Convert)
	api.Post("/schema/extract", schemaHandler.Extract)

	api.Get("/ws/refine", websocket.New(streamHandler.Stream))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}

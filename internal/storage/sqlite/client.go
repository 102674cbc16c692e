package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/storage/models"
	"github.com/querysmith/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err = db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		domain TEXT NOT NULL,
		dialect TEXT NOT NULL,
		query_count INTEGER NOT NULL,
		degraded INTEGER DEFAULT 0,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON generation_runs(created_at);

	CREATE TABLE IF NOT EXISTS generated_queries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		question TEXT NOT NULL,
		query_text TEXT NOT NULL,
		relevance REAL NOT NULL,
		is_time_based INTEGER NOT NULL,
		chart_type TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES generation_runs(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_queries_run ON generated_queries(run_id);

	CREATE TABLE IF NOT EXISTS conversions (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		sql_query TEXT NOT NULL,
		chart_type TEXT,
		degraded INTEGER DEFAULT 0,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_conversions_created ON conversions(created_at);

	CREATE TABLE IF NOT EXISTS refinements (
		id TEXT PRIMARY KEY,
		item_count INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		min_date TEXT,
		max_date TEXT,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_refinements_created ON refinements(created_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertGenerationRun(run *models.GenerationRun, queries []models.GeneratedQuery) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	degraded := 0
	if run.Degraded {
		degraded = 1
	}

	_, err = tx.Exec(
		`INSERT INTO generation_runs (id, role, domain, dialect, query_count, degraded, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Role,
		run.Domain,
		run.Dialect,
		run.QueryCount,
		degraded,
		run.LatencyMS,
		run.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	for _, q := range queries {
		timeBased := 0
		if q.IsTimeBased {
			timeBased = 1
		}

		_, err = tx.Exec(
			`INSERT INTO generated_queries (run_id, question, query_text, relevance, is_time_based, chart_type)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			q.Question,
			q.QueryText,
			q.Relevance,
			timeBased,
			q.ChartType,
		)
		if err != nil {
			return fmt.Errorf("failed to insert generated query: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit generation run: %w", err)
	}

	logger.Debug("Generation run recorded",
		zap.String("run_id", run.ID),
		zap.Int("queries", run.QueryCount),
	)
	return nil
}

func (c *Client) InsertConversion(record *models.ConversionRecord) error {
	degraded := 0
	if record.Degraded {
		degraded = 1
	}

	_, err := c.db.Exec(
		`INSERT INTO conversions (id, question, sql_query, chart_type, degraded, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Question,
		record.SQLQuery,
		record.ChartType,
		degraded,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}

	return nil
}

func (c *Client) InsertRefinement(record *models.RefinementRecord) error {
	_, err := c.db.Exec(
		`INSERT INTO refinements (id, item_count, succeeded, min_date, max_date, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.ItemCount,
		record.Succeeded,
		record.MinDate,
		record.MaxDate,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert refinement: %w", err)
	}

	return nil
}

func (c *Client) GetGenerationHistory(limit int) ([]models.GenerationRun, error) {
	rows, err := c.db.Query(
		`SELECT id, role, domain, dialect, query_count, degraded, latency_ms, created_at
		 FROM generation_runs
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get generation history: %w", err)
	}
	defer rows.Close()

	var runs []models.GenerationRun
	for rows.Next() {
		var r models.GenerationRun
		var degraded int
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Role, &r.Domain, &r.Dialect, &r.QueryCount, &degraded, &r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.Degraded = degraded == 1
		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// Package executor runs generated queries against a caller-supplied
// database, carrying the generation metadata through to the results.
// Per-query failures become error entries; the batch always completes.
package executor

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/querysmith/backend/internal/metrics"
	"github.com/querysmith/backend/internal/sqlgen"
	"github.com/querysmith/backend/pkg/logger"
)

// ExecutableQuery is one generated query plus the metadata the caller
// wants echoed back next to its rows.
type ExecutableQuery struct {
	Query       string  `json:"query"`
	Explanation string  `json:"explanation"`
	Relevance   float64 `json:"relevance"`
	ChartType   string  `json:"chart_type"`
}

// QueryResult carries either rows or an error, never both.
type QueryResult struct {
	Query       string           `json:"query"`
	Explanation string           `json:"explanation"`
	Relevance   float64          `json:"relevance"`
	ChartType   string           `json:"chart_type"`
	Rows        []map[string]any `json:"results,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Run executes the queries in order over one connection pool.
func Run(ctx context.Context, dialect sqlgen.Dialect, dsn string, queries []ExecutableQuery) ([]QueryResult, error) {
	driver, ok := driverFor(dialect)
	if !ok {
		return nil, fmt.Errorf("query execution not supported for dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	results := make([]QueryResult, 0, len(queries))
	for _, q := range queries {
		result := QueryResult{
			Query:       q.Query,
			Explanation: q.Explanation,
			Relevance:   q.Relevance,
			ChartType:   q.ChartType,
		}

		rows, err := runOne(ctx, db, q.Query)
		if err != nil {
			logger.Warn("Query execution failed",
				zap.Error(err),
				zap.String("query", q.Query),
			)
			metrics.QueriesExecuted.WithLabelValues(string(dialect), "error").Inc()
			result.Error = err.Error()
		} else {
			metrics.QueriesExecuted.WithLabelValues(string(dialect), "ok").Inc()
			result.Rows = rows
		}

		results = append(results, result)
	}

	return results, nil
}

func runOne(ctx context.Context, db *sql.DB, query string) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// Drivers hand back []byte for text columns; stringify so
			// JSON marshaling does not base64-encode them.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

func driverFor(dialect sqlgen.Dialect) (string, bool) {
	switch dialect {
	case sqlgen.DialectMySQL:
		return "mysql", true
	case sqlgen.DialectPostgres:
		return "postgres", true
	case sqlgen.DialectSQLite:
		return "sqlite3", true
	}
	return "", false
}

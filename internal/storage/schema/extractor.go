// Package schema introspects a caller database and renders its tables,
// columns, and foreign keys as the textual listing the generation
// prompts consume. The output is passed through verbatim; nothing here
// validates schema semantics.
package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/querysmith/backend/internal/sqlgen"
)

type tableInfo struct {
	name        string
	columns     []string
	foreignKeys []string
}

// Extract connects to the DSN with the dialect's driver and produces
// the schema text. Unlike prompt building, extraction has to hit a real
// database, so only the three recognized dialects are supported here.
func Extract(ctx context.Context, dialect sqlgen.Dialect, dsn string) (string, error) {
	driver, ok := driverFor(dialect)
	if !ok {
		return "", fmt.Errorf("schema extraction not supported for dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("failed to connect to database: %w", err)
	}

	var tables []tableInfo
	switch dialect {
	case sqlgen.DialectSQLite:
		tables, err = extractSQLite(ctx, db)
	default:
		tables, err = extractInformationSchema(ctx, db, dialect)
	}
	if err != nil {
		return "", err
	}

	return render(tables), nil
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

func extractInformationSchema(ctx context.Context, db *sql.DB, dialect sqlgen.Dialect) ([]tableInfo, error) {
	columnQuery := `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = 'public'
		ORDER BY table_name, ordinal_position`
	fkQuery := `
		SELECT tc.constraint_name, tc.table_name, kcu.column_name, ccu.table_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
		WHERE tc.constraint_type = 'FOREIGN KEY'`

	if dialect == sqlgen.DialectMySQL {
		columnQuery = `
			SELECT table_name, column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = DATABASE()
			ORDER BY table_name, ordinal_position`
		fkQuery = `
			SELECT constraint_name, table_name, column_name, referenced_table_name
			FROM information_schema.key_column_usage
			WHERE table_schema = DATABASE() AND referenced_table_name IS NOT NULL`
	}

	byName := make(map[string]*tableInfo)
	var order []string

	rows, err := db.QueryContext(ctx, columnQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}

		info, exists := byName[table]
		if !exists {
			info = &tableInfo{name: table}
			byName[table] = info
			order = append(order, table)
		}

		nullableStr := "NULL"
		if strings.EqualFold(nullable, "NO") {
			nullableStr = "NOT NULL"
		}
		info.columns = append(info.columns, fmt.Sprintf("%s (%s) %s", column, strings.ToUpper(dataType), nullableStr))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	fkRows, err := db.QueryContext(ctx, fkQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys: %w", err)
	}
	defer fkRows.Close()

	for fkRows.Next() {
		var name, table, column, refTable string
		if err := fkRows.Scan(&name, &table, &column, &refTable); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key row: %w", err)
		}

		if info, exists := byName[table]; exists {
			info.foreignKeys = append(info.foreignKeys,
				fmt.Sprintf("FK: %s - %s -> %s", name, column, refTable))
		}
	}
	if err := fkRows.Err(); err != nil {
		return nil, err
	}

	tables := make([]tableInfo, 0, len(order))
	for _, name := range order {
		tables = append(tables, *byName[name])
	}
	return tables, nil
}

func extractSQLite(ctx context.Context, db *sql.DB) ([]tableInfo, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var tables []tableInfo
	for _, name := range names {
		info := tableInfo{name: name}

		colRows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", name))
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		for colRows.Next() {
			var cid int
			var colName, colType string
			var notNull, pk int
			var dflt sql.NullString
			if err := colRows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
				colRows.Close()
				return nil, fmt.Errorf("failed to scan column info: %w", err)
			}

			nullableStr := "NULL"
			if notNull == 1 {
				nullableStr = "NOT NULL"
			}
			info.columns = append(info.columns, fmt.Sprintf("%s (%s) %s", colName, colType, nullableStr))
		}
		colRows.Close()

		fkRows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", name))
		if err != nil {
			return nil, fmt.Errorf("failed to inspect foreign keys for %s: %w", name, err)
		}
		for fkRows.Next() {
			var id, seq int
			var refTable, from, to, onUpdate, onDelete, match string
			if err := fkRows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
				fkRows.Close()
				return nil, fmt.Errorf("failed to scan foreign key info: %w", err)
			}
			info.foreignKeys = append(info.foreignKeys,
				fmt.Sprintf("FK: fk_%s_%d - %s -> %s", name, id, from, refTable))
		}
		fkRows.Close()

		tables = append(tables, info)
	}

	return tables, nil
}

func render(tables []tableInfo) string {
	sections := make([]string, 0, len(tables))

	for _, t := range tables {
		var b strings.Builder
		fmt.Fprintf(&b, "Table: %s\n", t.name)
		b.WriteString(strings.Join(t.columns, "\n"))

		if len(t.foreignKeys) > 0 {
			b.WriteString("\n\nForeign Keys:\n")
			b.WriteString(strings.Join(t.foreignKeys, "\n"))
		}

		sections = append(sections, b.String())
	}

	return strings.Join(sections, "\n\n")
}

package sqlgen

import "strings"

// Dialect is the target SQL flavor. Unrecognized values are carried
// through and answered with the generic standard-SQL instruction rather
// than rejected.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func ParseDialect(s string) Dialect {
	return Dialect(strings.ToLower(strings.TrimSpace(s)))
}

func (d Dialect) Recognized() bool {
	switch d {
	case DialectMySQL, DialectPostgres, DialectSQLite:
		return true
	}
	return false
}

// SyntaxInstruction is the dialect constraint embedded in every prompt.
func (d Dialect) SyntaxInstruction() string {
	switch d {
	case DialectMySQL:
		return "Write queries ONLY using syntax compatible with MySQL database."
	case DialectPostgres:
		return "Write queries ONLY using syntax compatible with PostgreSQL database."
	case DialectSQLite:
		return "Write queries ONLY using syntax compatible with SQLite database."
	default:
		return "Write queries using standard SQL syntax."
	}
}

// DateFunctionHint names the dialect's date vocabulary for the refiner,
// so interval rewrites use functions the target database actually has.
func (d Dialect) DateFunctionHint() string {
	switch d {
	case DialectMySQL:
		return "Use MySQL date functions: DATE_SUB, DATE_ADD, DATE_FORMAT, CURDATE(), INTERVAL n DAY/MONTH/YEAR."
	case DialectPostgres:
		return "Use PostgreSQL date handling: date literals with INTERVAL arithmetic (e.g. DATE 'x' - INTERVAL '30 days'), DATE_TRUNC, TO_CHAR, CURRENT_DATE."
	case DialectSQLite:
		return "Use SQLite date functions: date(), datetime(), strftime(), with modifiers like '-30 days'."
	default:
		return "Use standard SQL date arithmetic."
	}
}

package sqlgen

import "regexp"

// timePatterns are the textual signals that mark a query as
// date-sensitive: date function names, BETWEEN ranges, literal date
// comparisons, temporal GROUP BYs, and the date-range placeholders.
var timePatterns = regexp.MustCompile(`(?i)(` +
	`DATE_FORMAT|` +
	`YEAR\s*\(|MONTH\s*\(|DAY\s*\(|QUARTER\s*\(|WEEK\s*\(|` +
	`DATE_SUB|DATE_ADD|DATE_DIFF|` +
	`BETWEEN.*AND|` +
	`>\s*\d{4}-\d{2}-\d{2}|<\s*\d{4}-\d{2}-\d{2}|` +
	`GROUP BY.*year|GROUP BY.*month|GROUP BY.*quarter|GROUP BY.*date|` +
	`\[MIN_DATE\]|\[MAX_DATE\]` +
	`)`)

// IsTimeBased reports whether a SQL string contains date-sensitive
// predicates. This is a heuristic over the raw text, not a parse:
// false positives (BETWEEN over numeric ranges) and false negatives
// (date columns compared through parameters) are accepted.
func IsTimeBased(sql string) bool {
	return timePatterns.MatchString(sql)
}

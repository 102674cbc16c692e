package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTimeBased(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{
			name:  "date format function",
			query: "SELECT DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*) FROM orders GROUP BY month",
			want:  true,
		},
		{
			name:  "year extraction",
			query: "SELECT YEAR(order_date), SUM(total) FROM orders GROUP BY YEAR(order_date)",
			want:  true,
		},
		{
			name:  "between range",
			query: "SELECT * FROM sales WHERE amount BETWEEN 10 AND 20",
			want:  true,
		},
		{
			name:  "literal date comparison",
			query: "SELECT COUNT(*) FROM events WHERE created_at > 2023-01-01",
			want:  true,
		},
		{
			name:  "date range placeholders",
			query: "SELECT * FROM orders WHERE order_date BETWEEN [MIN_DATE] AND [MAX_DATE]",
			want:  true,
		},
		{
			name:  "temporal group by",
			query: "SELECT COUNT(*) FROM orders GROUP BY month",
			want:  true,
		},
		{
			name:  "interval arithmetic",
			query: "SELECT * FROM orders WHERE order_date >= DATE_SUB(CURDATE(), INTERVAL 30 DAY)",
			want:  true,
		},
		{
			name:  "plain aggregate",
			query: "SELECT region, SUM(total) FROM sales GROUP BY region",
			want:  false,
		},
		{
			name:  "simple lookup",
			query: "SELECT name FROM customers WHERE id = 42",
			want:  false,
		},
		{
			name:  "case insensitive",
			query: "select date_format(ts, '%Y') from logs",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTimeBased(tt.query))
		})
	}
}

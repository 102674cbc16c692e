package models

import "time"

// GenerationRun is one draft-generation call, recorded for audit. The
// pipeline never reads these rows back; history is a reporting surface.
type GenerationRun struct {
	ID         string
	Role       string
	Domain     string
	Dialect    string
	QueryCount int
	Degraded   bool
	LatencyMS  int
	CreatedAt  time.Time
}

// GeneratedQuery is one item of a recorded generation run.
type GeneratedQuery struct {
	ID          int64
	RunID       string
	Question    string
	QueryText   string
	Relevance   float64
	IsTimeBased bool
	ChartType   string
}

// ConversionRecord is one NL-to-SQL call.
type ConversionRecord struct {
	ID        string
	Question  string
	SQLQuery  string
	ChartType string
	Degraded  bool
	LatencyMS int
	CreatedAt time.Time
}

// RefinementRecord summarizes one batch refinement call.
type RefinementRecord struct {
	ID        string
	ItemCount int
	Succeeded int
	MinDate   string
	MaxDate   string
	LatencyMS int
	CreatedAt time.Time
}

package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "querysmith_generation_duration_seconds",
			Help:    "Draft generation duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 60},
		},
		[]string{"dialect"},
	)

	GenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_generation_total",
			Help: "Total draft generation calls by outcome",
		},
		[]string{"status"},
	)

	RefinementItemTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_refinement_items_total",
			Help: "Per-item date refinement outcomes",
		},
		[]string{"status"},
	)

	RefinementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "querysmith_refinement_duration_seconds",
			Help:    "Batch refinement duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 60},
		},
	)

	ConversionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_nl2sql_total",
			Help: "Total NL-to-SQL conversions by outcome",
		},
		[]string{"status"},
	)

	ConversionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "querysmith_nl2sql_duration_seconds",
			Help:    "NL-to-SQL conversion duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 60},
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"model", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_cache_hits_total",
			Help: "Total response cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_cache_misses_total",
			Help: "Total response cache misses",
		},
		[]string{"cache_type"},
	)

	QueriesExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "querysmith_queries_executed_total",
			Help: "Generated queries executed against caller databases",
		},
		[]string{"dialect", "status"},
	)
)

func Init() {
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(GenerationTotal)
	prometheus.MustRegister(RefinementItemTotal)
	prometheus.MustRegister(RefinementDuration)
	prometheus.MustRegister(ConversionTotal)
	prometheus.MustRegister(ConversionDuration)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(QueriesExecuted)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

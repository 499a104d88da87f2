// Package metrics defines the Prometheus collectors shared by the ingestion
// pipeline and the alert server. Collectors register on the default registry;
// the server exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsScanned counts raw rows seen by the ingestion pipeline.
	RowsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stresswatch_rows_scanned_total",
		Help: "Raw telemetry rows read during ingestion.",
	})

	// ParseFailures counts malformed rows skipped during ingestion.
	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stresswatch_parse_failures_total",
		Help: "Malformed telemetry rows skipped during ingestion.",
	})

	// HighStressStored counts records persisted as high stress.
	HighStressStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stresswatch_high_stress_stored_total",
		Help: "High-stress records persisted to the store.",
	})

	// InsertErrors counts failed store writes.
	InsertErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stresswatch_insert_errors_total",
		Help: "Store insert failures during ingestion.",
	})

	// AlertQueries counts alert retrieval requests served.
	AlertQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stresswatch_alert_queries_total",
		Help: "Alert retrieval requests served.",
	})

	// ScoreDistribution observes every computed stress score.
	ScoreDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stresswatch_score",
		Help:    "Distribution of computed stress scores.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})
)

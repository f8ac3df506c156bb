// Package metrics exposes Prometheus instruments for the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RowsValidated counts rows by entity type and validation outcome
	// ("valid" or "invalid").
	RowsValidated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landregistry",
		Subsystem: "import",
		Name:      "rows_validated_total",
		Help:      "Rows processed by the validate phase, by entity type and outcome.",
	}, []string{"entity_type", "outcome"})

	// RowsCommitted counts rows by entity type and commit outcome
	// ("created" or "failed").
	RowsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landregistry",
		Subsystem: "import",
		Name:      "rows_committed_total",
		Help:      "Rows processed by the commit phase, by entity type and outcome.",
	}, []string{"entity_type", "outcome"})

	// CommitDuration observes end-to-end commit time per batch.
	CommitDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "landregistry",
		Subsystem: "import",
		Name:      "commit_duration_seconds",
		Help:      "Duration of the commit phase per batch.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"entity_type"})
)

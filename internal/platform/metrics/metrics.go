// Package metrics holds the engine's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesCreated counts ledger entries written, by kind and scene.
	EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credit_entries_created_total",
		Help: "Total ledger entries created, labelled by entry kind and scene.",
	}, []string{"kind", "scene"})

	// ConsumeFailures counts rejected consumptions by reason.
	ConsumeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credit_consume_failures_total",
		Help: "Total rejected consumption attempts, labelled by reason.",
	}, []string{"reason"})

	// ConsumePages tracks how many grant pages a consumption scanned. A drift
	// toward the configured page cap signals fragmented grant histories.
	ConsumePages = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "credit_consume_pages",
		Help:    "Grant pages scanned per successful consumption.",
		Buckets: prometheus.LinearBuckets(1, 1, 10),
	})
)

package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluation metrics exposed on /metrics.
var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graze_evaluations_total",
		Help: "Number of records evaluated, by outcome.",
	}, []string{"outcome"})

	reviewFlagsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graze_review_flags_total",
		Help: "Number of records flagged for human review.",
	})

	complianceFlagsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "graze_compliance_flags_total",
		Help: "Number of records whose review flag was forced by a failed four-fifths check.",
	})

	evaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "graze_evaluation_batch_seconds",
		Help:    "Wall-clock duration of evaluation batches.",
		Buckets: prometheus.DefBuckets,
	})
)

// Package compliance implements the four-fifths rule fairness monitor
// over classification buckets.
package compliance

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/snackops/graze/internal/model"
)

// CounterStore is the slice of the persistence surface the monitor needs:
// cumulative bucket counts and an append-only verdict history.
type CounterStore interface {
	GetClassificationCounts(ctx context.Context, classificationKey string) (total, flagged int, err error)
	SaveComplianceVerdict(ctx context.Context, verdict *model.ComplianceVerdict) error
}

// Monitor checks classification buckets against an absolute pass-rate
// floor. Verdicts are never rewritten; each check appends a new row as
// counts grow.
type Monitor struct {
	minSubmissions int
	threshold      float64
}

// NewMonitor returns a monitor with the standard four-fifths floor and
// minimum sample size.
func NewMonitor() *Monitor {
	return &Monitor{
		minSubmissions: model.MinSubmissionsForCompliance,
		threshold:      model.FourFifthsThreshold,
	}
}

// Check reads the cumulative counts for a bucket and produces a verdict,
// or nil when the bucket has too little data. Compliance is an auditing
// overlay, not a gate on the primary decision: a failed counter read or
// verdict append degrades to "no verdict this run" and is only logged.
func (m *Monitor) Check(ctx context.Context, store CounterStore, classificationKey string) *model.ComplianceVerdict {
	total, flagged, err := store.GetClassificationCounts(ctx, classificationKey)
	if err != nil {
		slog.Warn("Compliance counter read failed, skipping verdict",
			"classification_key", classificationKey,
			"error", err)
		return nil
	}

	if total < m.minSubmissions {
		return nil
	}

	passRate := float64(total-flagged) / float64(total) * 100
	passRate = math.Round(passRate*100) / 100

	verdict := &model.ComplianceVerdict{
		ClassificationKey: classificationKey,
		Total:             total,
		Flagged:           flagged,
		PassRate:          passRate,
		Threshold:         m.threshold,
		Compliant:         passRate >= m.threshold,
		CheckedAt:         time.Now().UTC(),
	}

	if err := store.SaveComplianceVerdict(ctx, verdict); err != nil {
		slog.Warn("Failed to append compliance verdict",
			"classification_key", classificationKey,
			"error", err)
		return nil
	}

	return verdict
}

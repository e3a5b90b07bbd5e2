package model

import "time"

// FourFifthsThreshold is the pass-rate floor (percent) a classification
// bucket must meet to be considered compliant.
const FourFifthsThreshold = 80.0

// MinSubmissionsForCompliance is the number of submissions a bucket needs
// before a compliance verdict is produced. Below it the bucket is simply
// "not enough data", never non-compliant.
const MinSubmissionsForCompliance = 20

// ComplianceVerdict is one append-only row of the four-fifths rule
// history for a classification bucket. PassRate is a percentage at
// two-decimal precision.
type ComplianceVerdict struct {
	CheckedAt         time.Time `json:"checked_at"`
	ClassificationKey string    `json:"classificationKey"`
	Total             int       `json:"total"`
	Flagged           int       `json:"flagged"`
	PassRate          float64   `json:"passRate"`
	Threshold         float64   `json:"threshold"`
	Compliant         bool      `json:"compliant"`
}

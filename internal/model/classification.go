package model

// ClassificationLevel buckets an attribute rating into a qualitative band.
type ClassificationLevel string

// Classification level constants.
const (
	LevelLow    ClassificationLevel = "low"
	LevelMedium ClassificationLevel = "medium"
	LevelHigh   ClassificationLevel = "high"
)

// Classification is one qualitative bucket a submission falls into for one
// attribute. Every submission yields exactly one classification per
// tracked attribute; buckets accumulate over time for fairness monitoring.
type Classification struct {
	Key       string              `json:"key"`
	Attribute string              `json:"factor"`
	Level     ClassificationLevel `json:"level"`
}

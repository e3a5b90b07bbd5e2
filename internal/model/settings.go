package model

// EvalSettings is the evaluation configuration snapshot read once per
// batch. Attributes absent from Weights are excluded from scoring.
type EvalSettings struct {
	Weights         map[string]float64 `json:"weights"`
	ReviewThreshold float64            `json:"review_score_threshold"`
	ReviewAuditRate float64            `json:"review_audit_rate"`
}

// DefaultEvalSettings returns the settings seeded on first migration:
// every attribute weighted 1, review below 4.0, 10% random audit.
func DefaultEvalSettings() EvalSettings {
	weights := make(map[string]float64, len(Attributes))
	for _, attr := range Attributes {
		weights[attr] = 1
	}
	return EvalSettings{
		Weights:         weights,
		ReviewThreshold: 4.0,
		ReviewAuditRate: 10,
	}
}

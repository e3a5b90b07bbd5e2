package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/snackops/graze/internal/model"
)

// ReviewDecision is the outcome of the review policy for one record.
// Exactly one of the two conditions, or both, explains a required review.
type ReviewDecision struct {
	Draw           float64
	RequiresReview bool
	BelowThreshold bool
	RandomAudit    bool
}

// UniformDice is the production dice: one uniform draw in [0, 100) per
// record. It is the only non-deterministic input in the pipeline.
type UniformDice struct{}

// Draw returns a uniform random value in [0, 100).
func (UniformDice) Draw() float64 {
	return rand.Float64() * 100
}

// DecideReview applies the review policy: review is required when the
// final score falls below the configured threshold, or when the audit
// draw lands under the configured audit rate. Both triggers are recorded
// so the audit text can name which condition fired.
func DecideReview(finalScore, draw float64, settings model.EvalSettings) ReviewDecision {
	decision := ReviewDecision{
		Draw:           draw,
		BelowThreshold: finalScore < settings.ReviewThreshold,
		RandomAudit:    draw < settings.ReviewAuditRate,
	}
	decision.RequiresReview = decision.BelowThreshold || decision.RandomAudit
	return decision
}

// StepText renders the audit-trail text for the decision, reproducible
// from the score, draw, and settings alone.
func (d ReviewDecision) StepText(finalScore float64, settings model.EvalSettings) string {
	switch {
	case d.BelowThreshold && d.RandomAudit:
		return fmt.Sprintf("Food flagged for human review. Score %.2f below threshold %g and random selection for audit (rolled %.2f, threshold %g%%)",
			finalScore, settings.ReviewThreshold, d.Draw, settings.ReviewAuditRate)
	case d.BelowThreshold:
		return fmt.Sprintf("Food flagged for human review. Score %.2f below threshold %g",
			finalScore, settings.ReviewThreshold)
	case d.RandomAudit:
		return fmt.Sprintf("Food flagged for human review. Random selection for audit (rolled %.2f, threshold %g%%)",
			d.Draw, settings.ReviewAuditRate)
	default:
		return fmt.Sprintf("Review check passed. Score: %.2f (threshold: %g), Random value: %.2f (review percentage: %g%%)",
			finalScore, settings.ReviewThreshold, d.Draw, settings.ReviewAuditRate)
	}
}

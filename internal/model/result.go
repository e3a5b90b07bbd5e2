package model

import "time"

// EvaluationResult is the outcome of running one record through the
// decision pipeline, including its full audit trail.
type EvaluationResult struct {
	Record          Record           `json:"record"`
	SubmissionID    string           `json:"id,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	RedFlags        []string         `json:"redFlags"`
	AllergenIssues  []string         `json:"allergenIssues"`
	Steps           []EvaluationStep `json:"steps"`
	FinalScore      float64          `json:"finalScore"`
	NutritionScore  float64          `json:"nutritionScore"`
	Rejected        bool             `json:"rejected"`
	RequiresReview  bool             `json:"requiresReview"`
}

// AppendStep adds a step to the trail, continuing the sequence numbering.
func (r *EvaluationResult) AppendStep(kind StepKind, text string) {
	r.Steps = append(r.Steps, EvaluationStep{
		Sequence: len(r.Steps) + 1,
		Kind:     kind,
		Text:     text,
	})
}

// Submission is a persisted evaluation, as stored and surfaced by the
// review queue and search.
type Submission struct {
	SubmittedAt     time.Time        `json:"submitted_at"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	ReviewedBy      string           `json:"reviewed_by,omitempty"`
	Record          Record           `json:"record"`
	Steps           []EvaluationStep `json:"steps"`
	FinalScore      float64          `json:"final_score"`
	Rejected        bool             `json:"rejected"`
	RequiresReview  bool             `json:"requires_review"`
	Reviewed        bool             `json:"reviewed"`
}

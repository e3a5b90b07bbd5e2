package model

// StepKind identifies the pipeline stage that produced an evaluation step.
// The vocabulary is fixed: audit-trail consumers match on these strings.
type StepKind string

// Step kind constants.
const (
	StepIntake              StepKind = "intake"
	StepRejection           StepKind = "rejection"
	StepValidation          StepKind = "validation"
	StepToolCall            StepKind = "tool_call"
	StepAllergenCheck       StepKind = "allergen_check"
	StepEvaluation          StepKind = "evaluation"
	StepTeamConsideration   StepKind = "team_consideration"
	StepLateNight           StepKind = "late_night_optimization"
	StepReviewFlag          StepKind = "review_flag"
	StepReviewCheck         StepKind = "review_check"
	StepFinalRecommendation StepKind = "final_recommendation"
	StepSummary             StepKind = "summary"
	StepComplianceCheck     StepKind = "compliance_check"
	StepComplianceFlag      StepKind = "compliance_review_flag"
)

// EvaluationStep is one ordered entry in a submission's audit trail.
// Steps are append-only and never mutated after creation.
type EvaluationStep struct {
	Kind     StepKind `json:"type"`
	Text     string   `json:"text"`
	Sequence int      `json:"step"`
}

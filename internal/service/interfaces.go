// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/snackops/graze/internal/model"
)

// SearchFilter defines filtering options for submission queries.
type SearchFilter struct {
	Rejected *bool
	Query    string
	Limit    int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Submission operations
	SaveSubmission(ctx context.Context, submission *model.Submission) error
	SaveEvaluationSteps(ctx context.Context, submissionID string, steps []model.EvaluationStep) error
	GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error)
	SearchSubmissions(ctx context.Context, filter SearchFilter) ([]model.Submission, error)
	GetReviewQueue(ctx context.Context) ([]model.Submission, error)
	MarkReviewed(ctx context.Context, submissionID, reviewedBy string) error
	MarkRequiresReview(ctx context.Context, submissionID string) error

	// Classification counters. RecordClassification increments a bucket
	// exactly once for a submission; GetClassificationCounts reads the
	// cumulative totals. Callers needing increment-then-read atomicity per
	// bucket perform both inside one Transaction.
	RecordClassification(ctx context.Context, submissionID string, c model.Classification) error
	GetClassificationCounts(ctx context.Context, classificationKey string) (total, flagged int, err error)

	// Compliance history
	SaveComplianceVerdict(ctx context.Context, verdict *model.ComplianceVerdict) error
	GetComplianceHistory(ctx context.Context, limit int) ([]model.ComplianceVerdict, error)

	// Team roster
	GetTeamMembers(ctx context.Context) ([]model.TeamMember, error)
	GetTeamMemberByID(ctx context.Context, id int64) (*model.TeamMember, error)
	CreateTeamMember(ctx context.Context, member *model.TeamMember) error
	UpdateTeamMember(ctx context.Context, member *model.TeamMember) error

	// Evaluation settings
	GetEvalSettings(ctx context.Context) (model.EvalSettings, error)
	SaveEvalSettings(ctx context.Context, settings model.EvalSettings) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction. A record's full pipeline
// output (submission row, classification counters, compliance rows, audit
// steps) is committed through one Transaction or not at all.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// NutritionSource supplies the auxiliary nutrition signal folded into
// scoring. Implementations are external collaborators; the pipeline only
// requires a bounded 1-10 score.
type NutritionSource interface {
	NutritionScore(ctx context.Context, foodName string) (float64, error)
}

// AuditDice produces the single random draw used by the review policy.
// Draw returns a uniform value in [0, 100).
type AuditDice interface {
	Draw() float64
}

// BatchStats shows the results of an evaluation run.
type BatchStats struct {
	Duration            time.Duration
	TotalRecords        int
	Rejected            int
	FlaggedForReview    int
	FlaggedByCompliance int
	Failed              int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

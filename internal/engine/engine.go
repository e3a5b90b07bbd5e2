package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/compliance"
	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"
)

// Evaluator orchestrates batch evaluation: it runs each record through
// the pipeline, persists the full outcome as one atomic unit, and feeds
// every classification bucket through the compliance monitor.
type Evaluator struct {
	storage  service.Storage
	pipeline *Pipeline
	monitor  *compliance.Monitor
	progress func(done, total int)
}

// SetProgressFunc registers a callback invoked after each record in a
// batch, whether it succeeded or failed.
func (e *Evaluator) SetProgressFunc(fn func(done, total int)) {
	e.progress = fn
}

// NewEvaluator creates an evaluator with the given dependencies.
func NewEvaluator(storage service.Storage, pipeline *Pipeline, monitor *compliance.Monitor) *Evaluator {
	return &Evaluator{
		storage:  storage,
		pipeline: pipeline,
		monitor:  monitor,
	}
}

// EvaluateBatch processes records strictly in order. The roster and
// evaluation settings are read once and treated as a consistent snapshot
// for the whole batch. A record that fails validation or persistence is
// skipped; the rest of the batch continues.
func (e *Evaluator) EvaluateBatch(ctx context.Context, records []model.Record) ([]model.EvaluationResult, service.BatchStats, error) {
	started := time.Now()
	stats := service.BatchStats{TotalRecords: len(records)}

	roster, err := e.storage.GetTeamMembers(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load team roster: %w", err)
	}
	settings, err := e.storage.GetEvalSettings(ctx)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to load evaluation settings: %w", err)
	}

	slog.Info("Starting evaluation batch",
		"records", len(records),
		"team_members", len(roster))

	results := make([]model.EvaluationResult, 0, len(records))
	for i := range records {
		select {
		case <-ctx.Done():
			stats.Duration = time.Since(started)
			return results, stats, ctx.Err()
		default:
		}

		result, evalErr := e.evaluateOne(ctx, &records[i], roster, settings)
		if e.progress != nil {
			e.progress(i+1, len(records))
		}
		if evalErr != nil {
			stats.Failed++
			if errors.Is(evalErr, common.ErrMissingName) || errors.Is(evalErr, common.ErrInvalidRecord) {
				slog.Warn("Skipping invalid record", "index", i, "error", evalErr)
			} else {
				common.LogError(evalErr, "Record evaluation failed", common.Fields{
					"index": i,
					"name":  records[i].Name,
				})
			}
			continue
		}

		if result.Rejected {
			stats.Rejected++
		}
		if result.RequiresReview {
			stats.FlaggedForReview++
		}
		if hasComplianceFlag(result) {
			stats.FlaggedByCompliance++
		}
		results = append(results, *result)
	}

	stats.Duration = time.Since(started)
	slog.Info("Evaluation batch complete",
		"evaluated", len(results),
		"rejected", stats.Rejected,
		"flagged", stats.FlaggedForReview,
		"failed", stats.Failed,
		"duration", stats.Duration)
	return results, stats, nil
}

// evaluateOne runs the pipeline for a single record and commits its
// submission row, classification counters, compliance verdicts, and audit
// trail together or not at all.
func (e *Evaluator) evaluateOne(ctx context.Context, record *model.Record, roster []model.TeamMember, settings model.EvalSettings) (*model.EvaluationResult, error) {
	result, err := e.pipeline.Evaluate(ctx, record, roster, settings)
	if err != nil {
		return nil, err
	}

	tx, err := e.storage.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	submission := &model.Submission{
		ID:              uuid.NewString(),
		Name:            record.Name,
		Record:          result.Record,
		FinalScore:      result.FinalScore,
		Rejected:        result.Rejected,
		RejectionReason: result.RejectionReason,
		RequiresReview:  result.RequiresReview,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := tx.SaveSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}
	result.SubmissionID = submission.ID

	// Rejected records never reach classification
	if !result.Rejected {
		forced := false
		for _, classification := range Classify(&result.Record) {
			if err := tx.RecordClassification(ctx, submission.ID, classification); err != nil {
				return nil, fmt.Errorf("failed to record classification %s: %w", classification.Key, err)
			}

			verdict := e.monitor.Check(ctx, tx, classification.Key)
			if verdict == nil {
				continue
			}

			status := "COMPLIANT"
			if !verdict.Compliant {
				status = "NON-COMPLIANT"
			}
			result.AppendStep(model.StepComplianceCheck,
				fmt.Sprintf("Four-fifths rule check for %s: %s (Pass rate: %g%%)",
					classification.Key, status, verdict.PassRate))

			if !verdict.Compliant {
				result.RequiresReview = true
				forced = true
				result.AppendStep(model.StepComplianceFlag,
					fmt.Sprintf("Food flagged for human review due to four-fifths rule non-compliance. Classification: %s, Pass rate: %g%% (threshold: 80%%)",
						classification.Key, verdict.PassRate))
			}
		}

		if forced && !submission.RequiresReview {
			if err := tx.MarkRequiresReview(ctx, submission.ID); err != nil {
				return nil, fmt.Errorf("failed to force review flag: %w", err)
			}
		}
	}

	if err := tx.SaveEvaluationSteps(ctx, submission.ID, result.Steps); err != nil {
		return nil, fmt.Errorf("failed to save audit trail: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit evaluation: %w", err)
	}

	return result, nil
}

func hasComplianceFlag(result *model.EvaluationResult) bool {
	for _, step := range result.Steps {
		if step.Kind == model.StepComplianceFlag {
			return true
		}
	}
	return false
}

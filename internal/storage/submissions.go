package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"
)

// SaveSubmission persists a submission row along with its raw record.
func (s *SQLiteStorage) SaveSubmission(ctx context.Context, submission *model.Submission) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSubmission(submission); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveSubmissionTx(ctx, tx, submission); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveSubmissionTx(ctx context.Context, tx *sql.Tx, submission *model.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	rawData, err := json.Marshal(submission.Record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO submissions (
			id, name, raw_data, final_score, rejected,
			rejection_reason, requires_review, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		submission.ID,
		submission.Name,
		string(rawData),
		submission.FinalScore,
		submission.Rejected,
		nullableString(submission.RejectionReason),
		submission.RequiresReview,
		submission.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// SaveEvaluationSteps appends the full audit trail for a submission.
// Steps are write-once: re-saving a submission's trail is an error.
func (s *SQLiteStorage) SaveEvaluationSteps(ctx context.Context, submissionID string, steps []model.EvaluationStep) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveEvaluationStepsTx(ctx, tx, submissionID, steps); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveEvaluationStepsTx(ctx context.Context, tx *sql.Tx, submissionID string, steps []model.EvaluationStep) error {
	var existing int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM evaluation_steps WHERE submission_id = ?`, submissionID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("failed to check existing steps: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("%w: audit trail already written for submission %s", common.ErrDuplicateEntry, submissionID)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO evaluation_steps (submission_id, step_number, kind, text)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare step insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, step := range steps {
		if _, err := stmt.ExecContext(ctx, submissionID, step.Sequence, string(step.Kind), step.Text); err != nil {
			return fmt.Errorf("failed to save step %d: %w", step.Sequence, err)
		}
	}
	return nil
}

// GetSubmissionByID returns one submission with its full audit trail.
func (s *SQLiteStorage) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getSubmissionByIDTx(ctx, nil, id)
}

func (s *SQLiteStorage) getSubmissionByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Submission, error) {
	query := `
		SELECT id, name, raw_data, final_score, rejected, rejection_reason,
		       requires_review, reviewed, reviewed_at, reviewed_by, submitted_at
		FROM submissions WHERE id = ?
	`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, id)
	} else {
		row = s.db.QueryRowContext(ctx, query, id)
	}

	submission, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: submission %s", common.ErrNotFound, id)
		}
		return nil, err
	}

	steps, err := s.loadSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	submission.Steps = steps
	return submission, nil
}

// SearchSubmissions returns submissions matching the filter, newest first.
// Query matches against name and rejection reason, case-insensitively.
func (s *SQLiteStorage) SearchSubmissions(ctx context.Context, filter service.SearchFilter) ([]model.Submission, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, raw_data, final_score, rejected, rejection_reason,
		       requires_review, reviewed, reviewed_at, reviewed_by, submitted_at
		FROM submissions WHERE 1=1
	`
	args := make([]any, 0, 3)

	if filter.Query != "" {
		query += ` AND (name LIKE ? COLLATE NOCASE OR rejection_reason LIKE ? COLLATE NOCASE)`
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Rejected != nil {
		query += ` AND rejected = ?`
		args = append(args, *filter.Rejected)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY submitted_at DESC LIMIT ?`
	args = append(args, limit)

	return s.querySubmissions(ctx, query, args...)
}

// GetReviewQueue returns submissions awaiting human sign-off, oldest first.
func (s *SQLiteStorage) GetReviewQueue(ctx context.Context) ([]model.Submission, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return s.querySubmissions(ctx, `
		SELECT id, name, raw_data, final_score, rejected, rejection_reason,
		       requires_review, reviewed, reviewed_at, reviewed_by, submitted_at
		FROM submissions
		WHERE requires_review = 1 AND reviewed = 0
		ORDER BY submitted_at ASC
	`)
}

// MarkReviewed records a human sign-off on a submission.
func (s *SQLiteStorage) MarkReviewed(ctx context.Context, submissionID, reviewedBy string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}
	if err := validateString(reviewedBy, "reviewedBy"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE submissions
		SET reviewed = 1, reviewed_at = CURRENT_TIMESTAMP, reviewed_by = ?
		WHERE id = ?
	`, reviewedBy, submissionID)
	if err != nil {
		return fmt.Errorf("failed to mark reviewed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: submission %s", common.ErrNotFound, submissionID)
	}
	return nil
}

// MarkRequiresReview forces the review flag on a submission, used when a
// compliance check fails after the review policy already ran.
func (s *SQLiteStorage) MarkRequiresReview(ctx context.Context, submissionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.markRequiresReviewTx(ctx, tx, submissionID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) markRequiresReviewTx(ctx context.Context, tx *sql.Tx, submissionID string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE submissions SET requires_review = 1 WHERE id = ?`, submissionID)
	if err != nil {
		return fmt.Errorf("failed to force review flag: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: submission %s", common.ErrNotFound, submissionID)
	}
	return nil
}

func (s *SQLiteStorage) querySubmissions(ctx context.Context, query string, args ...any) ([]model.Submission, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var submissions []model.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	for i := range submissions {
		steps, err := s.loadSteps(ctx, submissions[i].ID)
		if err != nil {
			return nil, err
		}
		submissions[i].Steps = steps
	}
	return submissions, nil
}

func (s *SQLiteStorage) loadSteps(ctx context.Context, submissionID string) ([]model.EvaluationStep, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step_number, kind, text
		FROM evaluation_steps
		WHERE submission_id = ?
		ORDER BY step_number ASC
	`, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var steps []model.EvaluationStep
	for rows.Next() {
		var step model.EvaluationStep
		var kind string
		if err := rows.Scan(&step.Sequence, &kind, &step.Text); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		step.Kind = model.StepKind(kind)
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*model.Submission, error) {
	var submission model.Submission
	var rawData string
	var rejectionReason, reviewedBy sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(
		&submission.ID,
		&submission.Name,
		&rawData,
		&submission.FinalScore,
		&submission.Rejected,
		&rejectionReason,
		&submission.RequiresReview,
		&submission.Reviewed,
		&reviewedAt,
		&reviewedBy,
		&submission.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rawData), &submission.Record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record for %s: %w", submission.ID, err)
	}
	submission.RejectionReason = rejectionReason.String
	submission.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		submission.ReviewedAt = &reviewedAt.Time
	}
	return &submission, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

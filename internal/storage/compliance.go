package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/snackops/graze/internal/model"
)

// SaveComplianceVerdict appends one row to the compliance history.
// Verdicts are never updated; history only grows.
func (s *SQLiteStorage) SaveComplianceVerdict(ctx context.Context, verdict *model.ComplianceVerdict) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVerdict(verdict); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveComplianceVerdictTx(ctx, tx, verdict); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) saveComplianceVerdictTx(ctx context.Context, tx *sql.Tx, verdict *model.ComplianceVerdict) error {
	if verdict.CheckedAt.IsZero() {
		verdict.CheckedAt = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO compliance_checks (
			classification_key, total_submissions, flagged_for_review,
			pass_rate, compliant, checked_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		verdict.ClassificationKey,
		verdict.Total,
		verdict.Flagged,
		verdict.PassRate,
		verdict.Compliant,
		verdict.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save compliance verdict: %w", err)
	}
	return nil
}

// GetComplianceHistory returns the most recent compliance verdicts,
// newest first.
func (s *SQLiteStorage) GetComplianceHistory(ctx context.Context, limit int) ([]model.ComplianceVerdict, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT classification_key, total_submissions, flagged_for_review,
		       pass_rate, compliant, checked_at
		FROM compliance_checks
		ORDER BY checked_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var verdicts []model.ComplianceVerdict
	for rows.Next() {
		var verdict model.ComplianceVerdict
		if err := rows.Scan(
			&verdict.ClassificationKey,
			&verdict.Total,
			&verdict.Flagged,
			&verdict.PassRate,
			&verdict.Compliant,
			&verdict.CheckedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan compliance verdict: %w", err)
		}
		verdict.Threshold = model.FourFifthsThreshold
		verdicts = append(verdicts, verdict)
	}
	return verdicts, rows.Err()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snackops/graze/internal/model"
)

// RecordClassification increments a classification bucket for a
// submission. The UNIQUE constraint on (submission_id, classification_key)
// guarantees the increment applies exactly once per record per bucket.
func (s *SQLiteStorage) RecordClassification(ctx context.Context, submissionID string, c model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}
	if err := validateClassification(c); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.recordClassificationTx(ctx, tx, submissionID, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) recordClassificationTx(ctx context.Context, tx *sql.Tx, submissionID string, c model.Classification) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO classifications (submission_id, classification_key, attribute, level)
		VALUES (?, ?, ?, ?)
	`, submissionID, c.Key, c.Attribute, string(c.Level))
	if err != nil {
		return fmt.Errorf("failed to record classification: %w", err)
	}
	return nil
}

// GetClassificationCounts returns the cumulative submission and flagged
// counts for a bucket. Flagged reflects the requires_review flag on each
// joined submission at read time.
func (s *SQLiteStorage) GetClassificationCounts(ctx context.Context, classificationKey string) (int, int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validateString(classificationKey, "classificationKey"); err != nil {
		return 0, 0, err
	}
	return s.getClassificationCountsTx(ctx, nil, classificationKey)
}

func (s *SQLiteStorage) getClassificationCountsTx(ctx context.Context, tx *sql.Tx, classificationKey string) (int, int, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN s.requires_review = 1 THEN 1 ELSE 0 END), 0)
		FROM classifications c
		JOIN submissions s ON c.submission_id = s.id
		WHERE c.classification_key = ?
	`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, classificationKey)
	} else {
		row = s.db.QueryRowContext(ctx, query, classificationKey)
	}

	var total, flagged int
	if err := row.Scan(&total, &flagged); err != nil {
		return 0, 0, fmt.Errorf("failed to read classification counts: %w", err)
	}
	return total, flagged, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/snackops/graze/internal/model"
)

// Setting keys for the evaluation configuration.
const (
	settingKeyWeights         = "rating_weights"
	settingKeyReviewThreshold = "review_score_threshold"
	settingKeyReviewAuditRate = "review_audit_rate"
)

// GetEvalSettings reads the evaluation configuration. Missing keys fall
// back to the seeded defaults so a partially edited settings table never
// produces a half-empty snapshot.
func (s *SQLiteStorage) GetEvalSettings(ctx context.Context) (model.EvalSettings, error) {
	if err := validateContext(ctx); err != nil {
		return model.EvalSettings{}, err
	}

	settings := model.DefaultEvalSettings()

	raw, err := s.getSetting(ctx, settingKeyWeights)
	if err != nil {
		return model.EvalSettings{}, err
	}
	if raw != "" {
		weights := make(map[string]float64)
		if err := json.Unmarshal([]byte(raw), &weights); err != nil {
			return model.EvalSettings{}, fmt.Errorf("failed to parse %s: %w", settingKeyWeights, err)
		}
		settings.Weights = weights
	}

	if threshold, ok, err := s.getFloatSetting(ctx, settingKeyReviewThreshold); err != nil {
		return model.EvalSettings{}, err
	} else if ok {
		settings.ReviewThreshold = threshold
	}

	if rate, ok, err := s.getFloatSetting(ctx, settingKeyReviewAuditRate); err != nil {
		return model.EvalSettings{}, err
	} else if ok {
		settings.ReviewAuditRate = rate
	}

	return settings, nil
}

// SaveEvalSettings writes the full evaluation configuration atomically so
// a concurrent batch never observes a partial edit.
func (s *SQLiteStorage) SaveEvalSettings(ctx context.Context, settings model.EvalSettings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	weights, err := json.Marshal(settings.Weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	values := map[string]string{
		settingKeyWeights:         string(weights),
		settingKeyReviewThreshold: strconv.FormatFloat(settings.ReviewThreshold, 'g', -1, 64),
		settingKeyReviewAuditRate: strconv.FormatFloat(settings.ReviewAuditRate, 'g', -1, 64),
	}
	for key, value := range values {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value)
		if err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) getSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStorage) getFloatSetting(ctx context.Context, key string) (float64, bool, error) {
	raw, err := s.getSetting(ctx, key)
	if err != nil || raw == "" {
		return 0, false, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return value, true, nil
}

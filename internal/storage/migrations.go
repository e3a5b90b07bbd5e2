package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/snackops/graze/internal/model"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS submissions (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					raw_data TEXT NOT NULL,
					final_score REAL NOT NULL DEFAULT 0,
					rejected INTEGER NOT NULL DEFAULT 0,
					rejection_reason TEXT,
					requires_review INTEGER NOT NULL DEFAULT 0,
					reviewed INTEGER NOT NULL DEFAULT 0,
					reviewed_at DATETIME,
					reviewed_by TEXT,
					submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_submissions_submitted_at ON submissions(submitted_at)`,
				`CREATE INDEX idx_submissions_review ON submissions(requires_review, reviewed)`,

				`CREATE TABLE IF NOT EXISTS evaluation_steps (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					submission_id TEXT NOT NULL,
					step_number INTEGER NOT NULL,
					kind TEXT NOT NULL,
					text TEXT NOT NULL,
					FOREIGN KEY (submission_id) REFERENCES submissions(id)
				)`,
				`CREATE INDEX idx_evaluation_steps_submission ON evaluation_steps(submission_id)`,

				`CREATE TABLE IF NOT EXISTS classifications (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					submission_id TEXT NOT NULL,
					classification_key TEXT NOT NULL,
					attribute TEXT NOT NULL,
					level TEXT NOT NULL,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					UNIQUE (submission_id, classification_key),
					FOREIGN KEY (submission_id) REFERENCES submissions(id)
				)`,
				`CREATE INDEX idx_classifications_key ON classifications(classification_key)`,

				`CREATE TABLE IF NOT EXISTS compliance_checks (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					classification_key TEXT NOT NULL,
					total_submissions INTEGER NOT NULL,
					flagged_for_review INTEGER NOT NULL,
					pass_rate REAL NOT NULL,
					compliant INTEGER NOT NULL,
					checked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_compliance_checks_key ON compliance_checks(classification_key)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add team roster and settings tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS team_members (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL UNIQUE,
					allergies TEXT NOT NULL DEFAULT '[]',
					sensitivity_factor REAL NOT NULL DEFAULT 5,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS settings (
					key TEXT PRIMARY KEY,
					value TEXT NOT NULL,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Seed default evaluation settings",
		Up: func(tx *sql.Tx) error {
			defaults := model.DefaultEvalSettings()

			weights, err := json.Marshal(defaults.Weights)
			if err != nil {
				return fmt.Errorf("failed to marshal default weights: %w", err)
			}

			seeds := map[string]string{
				settingKeyWeights:         string(weights),
				settingKeyReviewThreshold: fmt.Sprintf("%g", defaults.ReviewThreshold),
				settingKeyReviewAuditRate: fmt.Sprintf("%g", defaults.ReviewAuditRate),
			}

			for key, value := range seeds {
				_, err := tx.Exec(`
					INSERT INTO settings (key, value) VALUES (?, ?)
					ON CONFLICT(key) DO NOTHING
				`, key, value)
				if err != nil {
					return fmt.Errorf("failed to seed setting %s: %w", key, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending migrations to bring the schema up to date.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Schema version bookkeeping lives outside the migration list
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_versions table: %w", err)
	}

	var current int
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_versions (version, description) VALUES (?, ?)`,
			migration.Version, migration.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	var final int
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&final); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", final, ExpectedSchemaVersion)
	}

	return nil
}

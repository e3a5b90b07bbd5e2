// Package storage provides the data persistence layer for the graze application.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps bucket counter increment-then-read
	// serializable without extra locking.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

// Transaction methods delegate to the main storage with the transaction.
func (t *sqliteTransaction) SaveSubmission(ctx context.Context, submission *model.Submission) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSubmission(submission); err != nil {
		return err
	}
	return t.storage.saveSubmissionTx(ctx, t.tx, submission)
}

func (t *sqliteTransaction) SaveEvaluationSteps(ctx context.Context, submissionID string, steps []model.EvaluationStep) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}
	return t.storage.saveEvaluationStepsTx(ctx, t.tx, submissionID, steps)
}

func (t *sqliteTransaction) GetSubmissionByID(ctx context.Context, id string) (*model.Submission, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return t.storage.getSubmissionByIDTx(ctx, t.tx, id)
}

func (t *sqliteTransaction) SearchSubmissions(ctx context.Context, filter service.SearchFilter) ([]model.Submission, error) {
	return t.storage.SearchSubmissions(ctx, filter)
}

func (t *sqliteTransaction) GetReviewQueue(ctx context.Context) ([]model.Submission, error) {
	return t.storage.GetReviewQueue(ctx)
}

func (t *sqliteTransaction) MarkReviewed(ctx context.Context, submissionID, reviewedBy string) error {
	return t.storage.MarkReviewed(ctx, submissionID, reviewedBy)
}

func (t *sqliteTransaction) MarkRequiresReview(ctx context.Context, submissionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}
	return t.storage.markRequiresReviewTx(ctx, t.tx, submissionID)
}

func (t *sqliteTransaction) RecordClassification(ctx context.Context, submissionID string, c model.Classification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(submissionID, "submissionID"); err != nil {
		return err
	}
	if err := validateClassification(c); err != nil {
		return err
	}
	return t.storage.recordClassificationTx(ctx, t.tx, submissionID, c)
}

func (t *sqliteTransaction) GetClassificationCounts(ctx context.Context, classificationKey string) (int, int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if err := validateString(classificationKey, "classificationKey"); err != nil {
		return 0, 0, err
	}
	return t.storage.getClassificationCountsTx(ctx, t.tx, classificationKey)
}

func (t *sqliteTransaction) SaveComplianceVerdict(ctx context.Context, verdict *model.ComplianceVerdict) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVerdict(verdict); err != nil {
		return err
	}
	return t.storage.saveComplianceVerdictTx(ctx, t.tx, verdict)
}

func (t *sqliteTransaction) GetComplianceHistory(ctx context.Context, limit int) ([]model.ComplianceVerdict, error) {
	return t.storage.GetComplianceHistory(ctx, limit)
}

func (t *sqliteTransaction) GetTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	return t.storage.GetTeamMembers(ctx)
}

func (t *sqliteTransaction) GetTeamMemberByID(ctx context.Context, id int64) (*model.TeamMember, error) {
	return t.storage.GetTeamMemberByID(ctx, id)
}

func (t *sqliteTransaction) CreateTeamMember(ctx context.Context, member *model.TeamMember) error {
	return t.storage.CreateTeamMember(ctx, member)
}

func (t *sqliteTransaction) UpdateTeamMember(ctx context.Context, member *model.TeamMember) error {
	return t.storage.UpdateTeamMember(ctx, member)
}

func (t *sqliteTransaction) GetEvalSettings(ctx context.Context) (model.EvalSettings, error) {
	return t.storage.GetEvalSettings(ctx)
}

func (t *sqliteTransaction) SaveEvalSettings(ctx context.Context, settings model.EvalSettings) error {
	return t.storage.SaveEvalSettings(ctx, settings)
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	// Nested transactions not supported
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	// Transactions should be committed or rolled back, not closed
	return fmt.Errorf("transactions must be committed or rolled back, not closed")
}

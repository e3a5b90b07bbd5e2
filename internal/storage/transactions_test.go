package storage

import (
	"context"
	"testing"

	"github.com/snackops/graze/internal/model"
)

func TestSQLiteTransaction_CommitPersistsEverything(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	submission := testSubmission("sub-tx")
	if err := tx.SaveSubmission(ctx, submission); err != nil {
		t.Fatalf("Failed to save submission in tx: %v", err)
	}
	if err := tx.RecordClassification(ctx, "sub-tx", classification(model.LevelHigh, "healthiness")); err != nil {
		t.Fatalf("Failed to record classification in tx: %v", err)
	}
	if err := tx.SaveEvaluationSteps(ctx, "sub-tx", testSteps()); err != nil {
		t.Fatalf("Failed to save steps in tx: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	got, err := store.GetSubmissionByID(ctx, "sub-tx")
	if err != nil {
		t.Fatalf("Failed to get submission after commit: %v", err)
	}
	if len(got.Steps) != 3 {
		t.Errorf("Steps = %d, want 3", len(got.Steps))
	}
	total, _, err := store.GetClassificationCounts(ctx, "high_healthiness")
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}
	if total != 1 {
		t.Errorf("Bucket total = %d, want 1", total)
	}
}

func TestSQLiteTransaction_RollbackDiscardsEverything(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if err := tx.SaveSubmission(ctx, testSubmission("sub-rb")); err != nil {
		t.Fatalf("Failed to save submission in tx: %v", err)
	}
	if err := tx.RecordClassification(ctx, "sub-rb", classification(model.LevelLow, "price")); err != nil {
		t.Fatalf("Failed to record classification in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback: %v", err)
	}

	if _, err := store.GetSubmissionByID(ctx, "sub-rb"); !isNotFound(err) {
		t.Errorf("Expected submission gone after rollback, got %v", err)
	}
	total, _, err := store.GetClassificationCounts(ctx, "low_price")
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}
	if total != 0 {
		t.Errorf("Bucket total = %d, want 0 after rollback", total)
	}
}

func TestSQLiteTransaction_CountsSeeUncommittedWrites(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	submission := testSubmission("sub-c")
	submission.RequiresReview = true
	if err := tx.SaveSubmission(ctx, submission); err != nil {
		t.Fatalf("Failed to save submission in tx: %v", err)
	}
	if err := tx.RecordClassification(ctx, "sub-c", classification(model.LevelLow, "price")); err != nil {
		t.Fatalf("Failed to record classification in tx: %v", err)
	}

	// The increment-then-read contract: counts read inside the
	// transaction include the row just written.
	total, flagged, err := tx.GetClassificationCounts(ctx, "low_price")
	if err != nil {
		t.Fatalf("Failed to get counts in tx: %v", err)
	}
	if total != 1 || flagged != 1 {
		t.Errorf("Counts in tx = (%d, %d), want (1, 1)", total, flagged)
	}
}

func TestSQLiteTransaction_GuardsMisuse(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.BeginTx(ctx); err == nil {
		t.Error("Expected error for nested transaction")
	}
	if err := tx.Migrate(ctx); err == nil {
		t.Error("Expected error for migrate inside transaction")
	}
	if err := tx.Close(); err == nil {
		t.Error("Expected error for close inside transaction")
	}
}

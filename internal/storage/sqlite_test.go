package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"
)

func isNotFound(err error) bool  { return errors.Is(err, common.ErrNotFound) }
func isDuplicate(err error) bool { return errors.Is(err, common.ErrDuplicateEntry) }

func serviceFilter(query string, rejected *bool, limit int) service.SearchFilter {
	return service.SearchFilter{Query: query, Rejected: rejected, Limit: limit}
}

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func floatPtr(v float64) *float64 { return &v }

// Helper function to create a test submission.
func testSubmission(id string) *model.Submission {
	return &model.Submission{
		ID:   id,
		Name: "Plain Rice",
		Record: model.Record{
			Name:        "Plain Rice",
			Price:       floatPtr(2),
			Healthiness: floatPtr(9),
		},
		FinalScore:  5.15,
		SubmittedAt: time.Now().UTC(),
	}
}

func testSteps() []model.EvaluationStep {
	return []model.EvaluationStep{
		{Sequence: 1, Kind: model.StepIntake, Text: "Received food submission: Plain Rice. Beginning evaluation process."},
		{Sequence: 2, Kind: model.StepValidation, Text: "Totally no pineapple pizza check. Situation normal, everything under control."},
		{Sequence: 3, Kind: model.StepSummary, Text: "Evaluation complete. Red flags: None"},
	}
}

func TestSQLiteStorage_SubmissionRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	submission := testSubmission("sub-1")
	if err := store.SaveSubmission(ctx, submission); err != nil {
		t.Fatalf("Failed to save submission: %v", err)
	}
	if err := store.SaveEvaluationSteps(ctx, "sub-1", testSteps()); err != nil {
		t.Fatalf("Failed to save steps: %v", err)
	}

	got, err := store.GetSubmissionByID(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Failed to get submission: %v", err)
	}

	if got.Name != "Plain Rice" {
		t.Errorf("Name = %q, want %q", got.Name, "Plain Rice")
	}
	if got.FinalScore != 5.15 {
		t.Errorf("FinalScore = %v, want 5.15", got.FinalScore)
	}
	if got.Record.Healthiness == nil || *got.Record.Healthiness != 9 {
		t.Errorf("Record.Healthiness = %v, want 9", got.Record.Healthiness)
	}
	if got.Record.Messiness != nil {
		t.Errorf("Record.Messiness = %v, want nil (unrated)", got.Record.Messiness)
	}
	if len(got.Steps) != 3 {
		t.Fatalf("Steps = %d, want 3", len(got.Steps))
	}
	if got.Steps[2].Kind != model.StepSummary {
		t.Errorf("Steps[2].Kind = %q, want %q", got.Steps[2].Kind, model.StepSummary)
	}
}

func TestSQLiteStorage_GetSubmissionNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetSubmissionByID(context.Background(), "missing")
	if !isNotFound(err) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_StepsAreWriteOnce(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveSubmission(ctx, testSubmission("sub-1")); err != nil {
		t.Fatalf("Failed to save submission: %v", err)
	}
	if err := store.SaveEvaluationSteps(ctx, "sub-1", testSteps()); err != nil {
		t.Fatalf("Failed to save steps: %v", err)
	}

	err := store.SaveEvaluationSteps(ctx, "sub-1", testSteps())
	if !isDuplicate(err) {
		t.Errorf("Expected ErrDuplicateEntry on second write, got %v", err)
	}
}

func TestSQLiteStorage_ReviewQueue(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 3; i++ {
		submission := testSubmission(fmt.Sprintf("sub-%d", i))
		submission.RequiresReview = i != 2
		submission.SubmittedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveSubmission(ctx, submission); err != nil {
			t.Fatalf("Failed to save submission %d: %v", i, err)
		}
	}

	queue, err := store.GetReviewQueue(ctx)
	if err != nil {
		t.Fatalf("Failed to get review queue: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("Queue length = %d, want 2", len(queue))
	}
	// Oldest first
	if queue[0].ID != "sub-1" || queue[1].ID != "sub-3" {
		t.Errorf("Queue order = [%s, %s], want [sub-1, sub-3]", queue[0].ID, queue[1].ID)
	}

	if err := store.MarkReviewed(ctx, "sub-1", "alice"); err != nil {
		t.Fatalf("Failed to mark reviewed: %v", err)
	}

	queue, err = store.GetReviewQueue(ctx)
	if err != nil {
		t.Fatalf("Failed to get review queue: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != "sub-3" {
		t.Errorf("Queue after review = %v, want only sub-3", queue)
	}

	reviewed, err := store.GetSubmissionByID(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Failed to get reviewed submission: %v", err)
	}
	if !reviewed.Reviewed || reviewed.ReviewedBy != "alice" || reviewed.ReviewedAt == nil {
		t.Errorf("Reviewed fields not set: %+v", reviewed)
	}
}

func TestSQLiteStorage_MarkReviewedNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	err := store.MarkReviewed(context.Background(), "missing", "alice")
	if !isNotFound(err) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_MarkRequiresReview(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveSubmission(ctx, testSubmission("sub-1")); err != nil {
		t.Fatalf("Failed to save submission: %v", err)
	}
	if err := store.MarkRequiresReview(ctx, "sub-1"); err != nil {
		t.Fatalf("Failed to force review flag: %v", err)
	}

	got, err := store.GetSubmissionByID(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Failed to get submission: %v", err)
	}
	if !got.RequiresReview {
		t.Error("RequiresReview not forced")
	}
}

func TestSQLiteStorage_SearchSubmissions(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	foods := []struct {
		id       string
		name     string
		rejected bool
		reason   string
	}{
		{"sub-1", "Plain Rice", false, ""},
		{"sub-2", "Hawaiian Pizza", true, "Pineapple on pizza has been linked to increased digestive distress during coding sessions"},
		{"sub-3", "Fried Rice", false, ""},
	}
	for i, f := range foods {
		submission := testSubmission(f.id)
		submission.Name = f.name
		submission.Record.Name = f.name
		submission.Rejected = f.rejected
		submission.RejectionReason = f.reason
		submission.SubmittedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveSubmission(ctx, submission); err != nil {
			t.Fatalf("Failed to save %s: %v", f.id, err)
		}
	}

	t.Run("query matches name case-insensitively", func(t *testing.T) {
		results, err := store.SearchSubmissions(ctx, serviceFilter("rice", nil, 0))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Results = %d, want 2", len(results))
		}
		// Newest first
		if results[0].ID != "sub-3" || results[1].ID != "sub-1" {
			t.Errorf("Order = [%s, %s], want [sub-3, sub-1]", results[0].ID, results[1].ID)
		}
	})

	t.Run("query matches rejection reason", func(t *testing.T) {
		results, err := store.SearchSubmissions(ctx, serviceFilter("digestive distress", nil, 0))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].ID != "sub-2" {
			t.Errorf("Results = %v, want only sub-2", results)
		}
	})

	t.Run("rejected filter", func(t *testing.T) {
		rejected := true
		results, err := store.SearchSubmissions(ctx, serviceFilter("", &rejected, 0))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].ID != "sub-2" {
			t.Errorf("Results = %v, want only sub-2", results)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		results, err := store.SearchSubmissions(ctx, serviceFilter("", nil, 1))
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("Results = %d, want 1", len(results))
		}
	})
}

func TestSQLiteStorage_SubmissionValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		mutate func(*model.Submission)
		name   string
	}{
		{func(s *model.Submission) { s.ID = "" }, "missing ID"},
		{func(s *model.Submission) { s.Name = "  " }, "missing name"},
		{func(s *model.Submission) { s.FinalScore = 11 }, "score above ceiling"},
		{func(s *model.Submission) { s.FinalScore = -1 }, "score below floor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submission := testSubmission("sub-v")
			tt.mutate(submission)
			if err := store.SaveSubmission(ctx, submission); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}

	if err := store.SaveSubmission(ctx, nil); err == nil {
		t.Error("Expected error for nil submission")
	}
}

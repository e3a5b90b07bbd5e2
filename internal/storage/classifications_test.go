package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/snackops/graze/internal/model"
)

func classification(level model.ClassificationLevel, attribute string) model.Classification {
	return model.Classification{
		Key:       fmt.Sprintf("%s_%s", level, attribute),
		Attribute: attribute,
		Level:     level,
	}
}

func TestSQLiteStorage_ClassificationCounts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Three submissions in the same bucket, one of them flagged.
	for i := 1; i <= 3; i++ {
		submission := testSubmission(fmt.Sprintf("sub-%d", i))
		submission.RequiresReview = i == 2
		if err := store.SaveSubmission(ctx, submission); err != nil {
			t.Fatalf("Failed to save submission %d: %v", i, err)
		}
		if err := store.RecordClassification(ctx, submission.ID, classification(model.LevelHigh, "healthiness")); err != nil {
			t.Fatalf("Failed to record classification %d: %v", i, err)
		}
	}

	total, flagged, err := store.GetClassificationCounts(ctx, "high_healthiness")
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}
	if total != 3 || flagged != 1 {
		t.Errorf("Counts = (%d, %d), want (3, 1)", total, flagged)
	}
}

func TestSQLiteStorage_ClassificationCountsEmptyBucket(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	total, flagged, err := store.GetClassificationCounts(context.Background(), "low_price")
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}
	if total != 0 || flagged != 0 {
		t.Errorf("Counts = (%d, %d), want (0, 0)", total, flagged)
	}
}

func TestSQLiteStorage_ClassificationExactlyOncePerBucket(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveSubmission(ctx, testSubmission("sub-1")); err != nil {
		t.Fatalf("Failed to save submission: %v", err)
	}

	c := classification(model.LevelLow, "price")
	if err := store.RecordClassification(ctx, "sub-1", c); err != nil {
		t.Fatalf("Failed to record classification: %v", err)
	}
	if err := store.RecordClassification(ctx, "sub-1", c); err == nil {
		t.Error("Expected unique-constraint error on duplicate bucket increment")
	}

	total, _, err := store.GetClassificationCounts(ctx, c.Key)
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}
	if total != 1 {
		t.Errorf("Total after duplicate attempt = %d, want 1", total)
	}
}

func TestSQLiteStorage_ClassificationValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.RecordClassification(ctx, "sub-1", model.Classification{}); err == nil {
		t.Error("Expected error for empty classification")
	}
	bad := model.Classification{Key: "weird_price", Attribute: "price", Level: "weird"}
	if err := store.RecordClassification(ctx, "sub-1", bad); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestSQLiteStorage_CountsAreBucketScoped(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for i, key := range []model.Classification{
		classification(model.LevelLow, "price"),
		classification(model.LevelHigh, "price"),
	} {
		submission := testSubmission(fmt.Sprintf("sub-%d", i+1))
		if err := store.SaveSubmission(ctx, submission); err != nil {
			t.Fatalf("Failed to save submission: %v", err)
		}
		if err := store.RecordClassification(ctx, submission.ID, key); err != nil {
			t.Fatalf("Failed to record classification: %v", err)
		}
	}

	total, _, err := store.GetClassificationCounts(ctx, "low_price")
	if err != nil {
		t.Fatalf("Failed to get counts: %v", err)
	}
	if total != 1 {
		t.Errorf("low_price total = %d, want 1", total)
	}
}

package storage

import (
	"context"
	"testing"

	"github.com/snackops/graze/internal/model"
)

func TestSQLiteStorage_SettingsSeededByMigration(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	settings, err := store.GetEvalSettings(context.Background())
	if err != nil {
		t.Fatalf("Failed to get settings: %v", err)
	}

	defaults := model.DefaultEvalSettings()
	if settings.ReviewThreshold != defaults.ReviewThreshold {
		t.Errorf("ReviewThreshold = %v, want %v", settings.ReviewThreshold, defaults.ReviewThreshold)
	}
	if settings.ReviewAuditRate != defaults.ReviewAuditRate {
		t.Errorf("ReviewAuditRate = %v, want %v", settings.ReviewAuditRate, defaults.ReviewAuditRate)
	}
	if len(settings.Weights) != len(model.Attributes) {
		t.Errorf("Weights = %d entries, want %d", len(settings.Weights), len(model.Attributes))
	}
	for _, attr := range model.Attributes {
		if settings.Weights[attr] != 1 {
			t.Errorf("Weight for %s = %v, want 1", attr, settings.Weights[attr])
		}
	}
}

func TestSQLiteStorage_SettingsRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	settings, err := store.GetEvalSettings(ctx)
	if err != nil {
		t.Fatalf("Failed to get settings: %v", err)
	}

	settings.ReviewThreshold = 5.5
	settings.ReviewAuditRate = 25
	settings.Weights["healthiness"] = 2.5

	if err := store.SaveEvalSettings(ctx, settings); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}

	got, err := store.GetEvalSettings(ctx)
	if err != nil {
		t.Fatalf("Failed to re-read settings: %v", err)
	}
	if got.ReviewThreshold != 5.5 {
		t.Errorf("ReviewThreshold = %v, want 5.5", got.ReviewThreshold)
	}
	if got.ReviewAuditRate != 25 {
		t.Errorf("ReviewAuditRate = %v, want 25", got.ReviewAuditRate)
	}
	if got.Weights["healthiness"] != 2.5 {
		t.Errorf("healthiness weight = %v, want 2.5", got.Weights["healthiness"])
	}
	if got.Weights["price"] != 1 {
		t.Errorf("price weight = %v, want untouched 1", got.Weights["price"])
	}
}

func TestSQLiteStorage_SettingsValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	settings := model.DefaultEvalSettings()
	settings.Weights["price"] = -1
	if err := store.SaveEvalSettings(ctx, settings); err == nil {
		t.Error("Expected error for negative weight")
	}

	settings = model.DefaultEvalSettings()
	settings.ReviewAuditRate = 101
	if err := store.SaveEvalSettings(ctx, settings); err == nil {
		t.Error("Expected error for audit rate above 100")
	}
}

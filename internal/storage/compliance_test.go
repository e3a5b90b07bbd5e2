package storage

import (
	"context"
	"testing"
	"time"

	"github.com/snackops/graze/internal/model"
)

func TestSQLiteStorage_ComplianceHistory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	verdicts := []*model.ComplianceVerdict{
		{ClassificationKey: "low_price", Total: 25, Flagged: 3, PassRate: 88, Compliant: true, CheckedAt: base},
		{ClassificationKey: "low_price", Total: 30, Flagged: 10, PassRate: 66.67, Compliant: false, CheckedAt: base.Add(time.Minute)},
	}
	for _, v := range verdicts {
		if err := store.SaveComplianceVerdict(ctx, v); err != nil {
			t.Fatalf("Failed to save verdict: %v", err)
		}
	}

	history, err := store.GetComplianceHistory(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("History length = %d, want 2", len(history))
	}

	// Newest first
	latest := history[0]
	if latest.Total != 30 || latest.Flagged != 10 || latest.Compliant {
		t.Errorf("Latest verdict = %+v, want the non-compliant check", latest)
	}
	if latest.PassRate != 66.67 {
		t.Errorf("PassRate = %v, want 66.67", latest.PassRate)
	}
	if latest.Threshold != model.FourFifthsThreshold {
		t.Errorf("Threshold = %v, want %v", latest.Threshold, model.FourFifthsThreshold)
	}
}

func TestSQLiteStorage_ComplianceHistoryIsAppendOnly(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Repeated checks of the same bucket each add a row.
	for i := 0; i < 3; i++ {
		verdict := &model.ComplianceVerdict{
			ClassificationKey: "high_happiness",
			Total:             20 + i,
			Flagged:           1,
			PassRate:          95,
			Compliant:         true,
		}
		if err := store.SaveComplianceVerdict(ctx, verdict); err != nil {
			t.Fatalf("Failed to save verdict %d: %v", i, err)
		}
	}

	history, err := store.GetComplianceHistory(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("History length = %d, want 3", len(history))
	}
}

func TestSQLiteStorage_ComplianceVerdictValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		verdict *model.ComplianceVerdict
		name    string
	}{
		{nil, "nil verdict"},
		{&model.ComplianceVerdict{Total: 20, Flagged: 1}, "missing key"},
		{&model.ComplianceVerdict{ClassificationKey: "k", Total: 0}, "zero total"},
		{&model.ComplianceVerdict{ClassificationKey: "k", Total: 5, Flagged: 6}, "flagged exceeds total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.SaveComplianceVerdict(ctx, tt.verdict); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestSQLiteStorage_ComplianceHistoryDefaultLimit(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	history, err := store.GetComplianceHistory(context.Background(), 0)
	if err != nil {
		t.Fatalf("Failed to get history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("History = %v, want empty", history)
	}
}

package cli

import (
	"strings"
	"testing"

	"github.com/snackops/graze/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderResult(t *testing.T) {
	t.Run("approved shows the score", func(t *testing.T) {
		result := model.EvaluationResult{
			Record:     model.Record{Name: "Plain Rice"},
			FinalScore: 5.15,
		}
		out := RenderResult(result)
		assert.Contains(t, out, "Plain Rice")
		assert.Contains(t, out, "5.15/10")
	})

	t.Run("rejected shows the reason", func(t *testing.T) {
		result := model.EvaluationResult{
			Record:          model.Record{Name: "Hawaiian Pizza"},
			Rejected:        true,
			RejectionReason: "tropical fruit detected",
		}
		out := RenderResult(result)
		assert.Contains(t, out, "REJECTED")
		assert.Contains(t, out, "tropical fruit detected")
	})

	t.Run("review flag is visible", func(t *testing.T) {
		result := model.EvaluationResult{
			Record:         model.Record{Name: "Gas Station Sushi"},
			FinalScore:     2.5,
			RequiresReview: true,
		}
		assert.Contains(t, RenderResult(result), "flagged for review")
	})
}

func TestRenderSteps(t *testing.T) {
	steps := []model.EvaluationStep{
		{Sequence: 1, Kind: model.StepIntake, Text: "first"},
		{Sequence: 2, Kind: model.StepSummary, Text: "second"},
	}
	out := RenderSteps(steps)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")
}

func TestRenderSubmissionTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, RenderSubmissionTable(nil), "No submissions")
	})

	t.Run("status column", func(t *testing.T) {
		submissions := []model.Submission{
			{ID: "a", Name: "Rice", Rejected: true},
			{ID: "b", Name: "Soup", RequiresReview: true},
			{ID: "c", Name: "Stew", RequiresReview: true, Reviewed: true},
		}
		out := RenderSubmissionTable(submissions)
		assert.Contains(t, out, "rejected")
		assert.Contains(t, out, "review")
		assert.Contains(t, out, "reviewed")
	})
}

func TestRenderComplianceTable(t *testing.T) {
	verdicts := []model.ComplianceVerdict{
		{ClassificationKey: "low_price", Total: 25, Flagged: 3, PassRate: 88, Compliant: true},
		{ClassificationKey: "high_messiness", Total: 25, Flagged: 8, PassRate: 68, Compliant: false},
	}
	out := RenderComplianceTable(verdicts)
	assert.Contains(t, out, "low_price")
	assert.Contains(t, out, "NON-COMPLIANT")
	assert.Contains(t, out, "88.00")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := truncate("a very long food name indeed", 10)
	assert.LessOrEqual(t, len([]rune(long)), 10)
}

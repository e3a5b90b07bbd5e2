package cli

import (
	"fmt"
	"strings"

	"github.com/snackops/graze/internal/model"
)

// RenderResult renders one evaluation result as a bordered summary box.
func RenderResult(result model.EvaluationResult) string {
	var lines []string

	switch {
	case result.Rejected:
		lines = append(lines, FormatError("REJECTED: "+result.RejectionReason))
	case result.RequiresReview:
		lines = append(lines, FormatWarning(fmt.Sprintf("Score: %.2f/10 %s flagged for review", result.FinalScore, ReviewIcon)))
	default:
		lines = append(lines, FormatSuccess(fmt.Sprintf("Score: %.2f/10", result.FinalScore)))
	}

	if len(result.AllergenIssues) > 0 {
		lines = append(lines, WarningStyle.Render("Allergens: "+strings.Join(result.AllergenIssues, "; ")))
	}
	if len(result.RedFlags) > 0 {
		lines = append(lines, SubtleStyle.Render("Red flags: "+strings.Join(result.RedFlags, ", ")))
	}

	return RenderBox(result.Record.Name, strings.Join(lines, "\n"))
}

// RenderSteps renders the audit trail of an evaluation, one numbered
// line per step.
func RenderSteps(steps []model.EvaluationStep) string {
	var b strings.Builder
	for _, step := range steps {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("%2d.", step.Sequence)))
		b.WriteString(" ")
		b.WriteString(step.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSubmissionTable renders submissions as an aligned table.
func RenderSubmissionTable(submissions []model.Submission) string {
	if len(submissions) == 0 {
		return SubtleStyle.Render("No submissions found.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-36s  %-24s  %6s  %-8s", "ID", "Name", "Score", "Status")))
	b.WriteString("\n")
	for _, sub := range submissions {
		b.WriteString(TableCellStyle.Render(fmt.Sprintf("%-36s  %-24s  %6.2f  %-8s",
			sub.ID, truncate(sub.Name, 24), sub.FinalScore, submissionStatus(sub))))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderComplianceTable renders compliance history rows.
func RenderComplianceTable(verdicts []model.ComplianceVerdict) string {
	if len(verdicts) == 0 {
		return SubtleStyle.Render("No compliance checks recorded yet.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-28s  %6s  %8s  %10s  %s", "Classification", "Total", "Flagged", "Pass rate", "Verdict")))
	b.WriteString("\n")
	for _, v := range verdicts {
		verdict := FormatSuccess("compliant")
		if !v.Compliant {
			verdict = FormatError("NON-COMPLIANT")
		}
		b.WriteString(fmt.Sprintf("%-28s  %6d  %8d  %9.2f%%  %s\n",
			v.ClassificationKey, v.Total, v.Flagged, v.PassRate, verdict))
	}
	return b.String()
}

// RenderTeamTable renders the reviewer roster.
func RenderTeamTable(members []model.TeamMember) string {
	if len(members) == 0 {
		return SubtleStyle.Render("No team members configured.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-4s  %-20s  %11s  %s", "ID", "Name", "Sensitivity", "Allergies")))
	b.WriteString("\n")
	for _, member := range members {
		allergies := strings.Join(member.Allergies, ", ")
		if allergies == "" {
			allergies = "-"
		}
		b.WriteString(fmt.Sprintf("%-4d  %-20s  %11.1f  %s\n",
			member.ID, truncate(member.Name, 20), member.SensitivityFactor, allergies))
	}
	return b.String()
}

func submissionStatus(sub model.Submission) string {
	switch {
	case sub.Rejected:
		return "rejected"
	case sub.Reviewed:
		return "reviewed"
	case sub.RequiresReview:
		return "review"
	default:
		return "ok"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

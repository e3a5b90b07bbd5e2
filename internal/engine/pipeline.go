package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"
)

// Pipeline runs a single record through the multi-step evaluation. Apart
// from the nutrition fetch and the one audit draw it is a pure function
// of its inputs, so tests inject a fixed source and dice.
type Pipeline struct {
	nutrition service.NutritionSource
	dice      service.AuditDice
	rules     []Rule
}

// NewPipeline creates a pipeline with the given collaborators. A nil
// rules slice means the built-in exclusion rules.
func NewPipeline(nutrition service.NutritionSource, dice service.AuditDice, rules []Rule) *Pipeline {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Pipeline{
		nutrition: nutrition,
		dice:      dice,
		rules:     rules,
	}
}

// Evaluate runs the full decision pipeline over one record, producing the
// score, warnings, review flag, and the ordered audit trail. A missing
// record name fails validation before any stage runs: no partial trail is
// produced. A nutrition fetch failure aborts the record with
// ErrNutritionSignal.
func (p *Pipeline) Evaluate(ctx context.Context, record *model.Record, roster []model.TeamMember, settings model.EvalSettings) (*model.EvaluationResult, error) {
	if strings.TrimSpace(record.Name) == "" {
		return nil, common.ErrMissingName
	}

	result := &model.EvaluationResult{
		Record:         *record,
		RedFlags:       []string{},
		AllergenIssues: []string{},
	}

	result.AppendStep(model.StepIntake,
		fmt.Sprintf("Received food submission: %s. Beginning evaluation process.", record.Name))

	// Hard exclusion rules run before anything else
	if rejection := CheckRules(record, p.rules); rejection != nil {
		result.Rejected = true
		result.RejectionReason = strings.Join(rejection.Reasons, "; ")
		result.AppendStep(model.StepRejection,
			fmt.Sprintf("REJECTED: %s. Reasons: %s", record.Name, result.RejectionReason))
		return result, nil
	}
	result.AppendStep(model.StepValidation,
		"Totally no pineapple pizza check. Situation normal, everything under control.")

	nutritionScore, err := p.nutrition.NutritionScore(ctx, record.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNutritionSignal, err)
	}
	result.NutritionScore = nutritionScore
	result.AppendStep(model.StepToolCall,
		fmt.Sprintf("Called nutritional information tool for %s. Received score: %g/10", record.Name, nutritionScore))

	result.AllergenIssues = MatchAllergens(record, roster)
	if result.AllergenIssues == nil {
		result.AllergenIssues = []string{}
	}
	if len(result.AllergenIssues) > 0 {
		result.AppendStep(model.StepAllergenCheck,
			fmt.Sprintf("ALLERGEN WARNINGS: %s", strings.Join(result.AllergenIssues, "; ")))
	} else {
		result.AppendStep(model.StepAllergenCheck,
			"No allergen conflicts detected with team members.")
	}

	composite := WeightedComposite(record, nutritionScore, settings.Weights)
	result.AppendStep(model.StepEvaluation,
		fmt.Sprintf("Calculated weighted average score: %.2f/10 based on configured weights.", composite))

	teamAdjust, avgSensitivity := TeamAdjustment(record, roster)
	result.AppendStep(model.StepTeamConsideration,
		fmt.Sprintf("Team average healthiness factor: %.1f. Applied healthiness adjustment: %.2f",
			avgSensitivity, teamAdjust))

	lateNight := LateNightBonus(record)
	result.AppendStep(model.StepLateNight,
		fmt.Sprintf("Late night development session adjustment: %+.2f (high energy boost preferred, low heaviness preferred)",
			lateNight))

	result.FinalScore = ClampScore(composite + teamAdjust + lateNight)

	decision := DecideReview(result.FinalScore, p.dice.Draw(), settings)
	result.RequiresReview = decision.RequiresReview
	if decision.RequiresReview {
		result.AppendStep(model.StepReviewFlag, decision.StepText(result.FinalScore, settings))
	} else {
		result.AppendStep(model.StepReviewCheck, decision.StepText(result.FinalScore, settings))
	}

	recommendation := "APPROVED"
	if len(result.AllergenIssues) > 0 {
		recommendation += " with allergen warnings"
	}
	if result.FinalScore < 5 {
		recommendation = "NOT RECOMMENDED"
	}
	result.AppendStep(model.StepFinalRecommendation,
		fmt.Sprintf("Final recommendation: %s. Score: %.2f/10", recommendation, result.FinalScore))

	result.RedFlags = redFlags(record, result.AllergenIssues)
	summary := "None"
	if len(result.RedFlags) > 0 {
		summary = strings.Join(result.RedFlags, ", ")
	}
	result.AppendStep(model.StepSummary,
		fmt.Sprintf("Evaluation complete. Red flags: %s", summary))

	return result, nil
}

// redFlags derives the fixed qualitative warning labels. Each condition
// contributes one label independent of the numeric score; unrated
// attributes never trigger a flag.
func redFlags(record *model.Record, allergenIssues []string) []string {
	flags := []string{}
	if len(allergenIssues) > 0 {
		flags = append(flags, "Allergen conflicts")
	}
	if v, ok := record.Rating("messiness"); ok && v > 7 {
		flags = append(flags, "High messiness factor")
	}
	if v, ok := record.Rating("heaviness"); ok && v > 8 {
		flags = append(flags, "Very heavy for late night")
	}
	if v, ok := record.Rating("healthiness"); ok && v < 3 {
		flags = append(flags, "Low healthiness")
	}
	return flags
}

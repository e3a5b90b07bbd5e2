package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snackops/graze/internal/model"
)

// Validation errors.
var (
	ErrNilContext            = errors.New("context cannot be nil")
	ErrEmptyString           = errors.New("string parameter cannot be empty")
	ErrNilParameter          = errors.New("parameter cannot be nil")
	ErrInvalidSubmission     = errors.New("invalid submission")
	ErrInvalidClassification = errors.New("invalid classification")
	ErrInvalidVerdict        = errors.New("invalid compliance verdict")
	ErrInvalidTeamMember     = errors.New("invalid team member")
	ErrInvalidSettings       = errors.New("invalid evaluation settings")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateSubmission validates a submission before persisting.
func validateSubmission(submission *model.Submission) error {
	if submission == nil {
		return fmt.Errorf("%w: submission", ErrNilParameter)
	}
	if submission.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidSubmission)
	}
	if strings.TrimSpace(submission.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSubmission)
	}
	if submission.FinalScore < 0 || submission.FinalScore > 10 {
		return fmt.Errorf("%w: final score must be between 0 and 10", ErrInvalidSubmission)
	}
	return nil
}

// validateClassification validates a classification bucket.
func validateClassification(c model.Classification) error {
	if c.Key == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidClassification)
	}
	if c.Attribute == "" {
		return fmt.Errorf("%w: missing attribute", ErrInvalidClassification)
	}
	switch c.Level {
	case model.LevelLow, model.LevelMedium, model.LevelHigh:
		// Valid level
	default:
		return fmt.Errorf("%w: unknown level %q", ErrInvalidClassification, c.Level)
	}
	return nil
}

// validateVerdict validates a compliance verdict.
func validateVerdict(verdict *model.ComplianceVerdict) error {
	if verdict == nil {
		return fmt.Errorf("%w: verdict", ErrNilParameter)
	}
	if verdict.ClassificationKey == "" {
		return fmt.Errorf("%w: missing classification key", ErrInvalidVerdict)
	}
	if verdict.Total <= 0 {
		return fmt.Errorf("%w: total must be positive", ErrInvalidVerdict)
	}
	if verdict.Flagged < 0 || verdict.Flagged > verdict.Total {
		return fmt.Errorf("%w: flagged count out of range", ErrInvalidVerdict)
	}
	return nil
}

// validateTeamMember validates a team member profile.
func validateTeamMember(member *model.TeamMember) error {
	if member == nil {
		return fmt.Errorf("%w: member", ErrNilParameter)
	}
	if strings.TrimSpace(member.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidTeamMember)
	}
	if member.SensitivityFactor < 1 || member.SensitivityFactor > 10 {
		return fmt.Errorf("%w: sensitivity factor must be between 1 and 10", ErrInvalidTeamMember)
	}
	return nil
}

// validateSettings validates evaluation settings before persisting.
func validateSettings(settings model.EvalSettings) error {
	for attribute, weight := range settings.Weights {
		if weight < 0 {
			return fmt.Errorf("%w: weight for %s must be non-negative", ErrInvalidSettings, attribute)
		}
	}
	if settings.ReviewAuditRate < 0 || settings.ReviewAuditRate > 100 {
		return fmt.Errorf("%w: review audit rate must be between 0 and 100", ErrInvalidSettings)
	}
	return nil
}

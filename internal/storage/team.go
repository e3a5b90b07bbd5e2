package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
)

// GetTeamMembers returns the full roster ordered by name.
func (s *SQLiteStorage) GetTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, allergies, sensitivity_factor, updated_at
		FROM team_members
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []model.TeamMember
	for rows.Next() {
		member, err := scanTeamMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, rows.Err()
}

// GetTeamMemberByID returns a single roster member.
func (s *SQLiteStorage) GetTeamMemberByID(ctx context.Context, id int64) (*model.TeamMember, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, allergies, sensitivity_factor, updated_at
		FROM team_members
		WHERE id = ?
	`, id)

	member, err := scanTeamMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: team member %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return member, nil
}

// CreateTeamMember adds a member to the roster and sets their ID.
func (s *SQLiteStorage) CreateTeamMember(ctx context.Context, member *model.TeamMember) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if member != nil && member.SensitivityFactor == 0 {
		member.SensitivityFactor = 5
	}
	if err := validateTeamMember(member); err != nil {
		return err
	}

	allergies, err := marshalAllergies(member.Allergies)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO team_members (name, allergies, sensitivity_factor)
		VALUES (?, ?, ?)
	`, member.Name, allergies, member.SensitivityFactor)
	if err != nil {
		return fmt.Errorf("failed to create team member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new member ID: %w", err)
	}
	member.ID = id
	member.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateTeamMember replaces a member's allergies and sensitivity factor.
// Updates happen between pipeline runs; the evaluator reads a roster
// snapshot per batch.
func (s *SQLiteStorage) UpdateTeamMember(ctx context.Context, member *model.TeamMember) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTeamMember(member); err != nil {
		return err
	}
	if member.ID == 0 {
		return fmt.Errorf("%w: missing ID", ErrInvalidTeamMember)
	}

	allergies, err := marshalAllergies(member.Allergies)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE team_members
		SET allergies = ?, sensitivity_factor = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, allergies, member.SensitivityFactor, member.ID)
	if err != nil {
		return fmt.Errorf("failed to update team member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: team member %d", common.ErrNotFound, member.ID)
	}
	return nil
}

func scanTeamMember(row rowScanner) (*model.TeamMember, error) {
	var member model.TeamMember
	var allergies string

	err := row.Scan(&member.ID, &member.Name, &allergies, &member.SensitivityFactor, &member.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(allergies), &member.Allergies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allergies for %s: %w", member.Name, err)
	}
	if member.Allergies == nil {
		member.Allergies = []string{}
	}
	return &member, nil
}

func marshalAllergies(allergies []string) (string, error) {
	if allergies == nil {
		allergies = []string{}
	}
	data, err := json.Marshal(allergies)
	if err != nil {
		return "", fmt.Errorf("failed to marshal allergies: %w", err)
	}
	return string(data), nil
}

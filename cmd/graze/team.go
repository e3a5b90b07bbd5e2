package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/snackops/graze/internal/cli"
	"github.com/snackops/graze/internal/model"
	"github.com/spf13/cobra"
)

func teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage the reviewer roster",
		Long: `Manage the team members whose allergies and healthiness sensitivity
are checked against every food submission.`,
	}

	cmd.AddCommand(teamListCmd())
	cmd.AddCommand(teamAddCmd())
	cmd.AddCommand(teamUpdateCmd())

	return cmd
}

func teamListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all team members",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			members, err := store.GetTeamMembers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list team members: %w", err)
			}

			fmt.Println(cli.FormatTitle("Team"))
			fmt.Println(cli.RenderTeamTable(members))
			return nil
		},
	}
}

func teamAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			allergies, _ := cmd.Flags().GetString("allergies")
			sensitivity, _ := cmd.Flags().GetFloat64("sensitivity")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			member := &model.TeamMember{
				Name:              args[0],
				Allergies:         splitAllergies(allergies),
				SensitivityFactor: sensitivity,
			}
			if err := store.CreateTeamMember(ctx, member); err != nil {
				return fmt.Errorf("failed to add team member: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s (id %d)", member.Name, member.ID)))
			return nil
		},
	}

	cmd.Flags().String("allergies", "", "Comma-separated allergy list (e.g. \"peanuts,shellfish\")")
	cmd.Flags().Float64("sensitivity", 5, "Healthiness sensitivity on a 1-10 scale")

	return cmd
}

func teamUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a team member's allergies or sensitivity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid team member id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			member, err := store.GetTeamMemberByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to find team member %d: %w", id, err)
			}

			if cmd.Flags().Changed("allergies") {
				allergies, _ := cmd.Flags().GetString("allergies")
				member.Allergies = splitAllergies(allergies)
			}
			if cmd.Flags().Changed("sensitivity") {
				member.SensitivityFactor, _ = cmd.Flags().GetFloat64("sensitivity")
			}

			if err := store.UpdateTeamMember(ctx, member); err != nil {
				return fmt.Errorf("failed to update team member: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %s", member.Name)))
			return nil
		},
	}

	cmd.Flags().String("allergies", "", "Comma-separated allergy list; empty clears it")
	cmd.Flags().Float64("sensitivity", 5, "Healthiness sensitivity on a 1-10 scale")

	return cmd
}

func splitAllergies(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	allergies := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			allergies = append(allergies, trimmed)
		}
	}
	return allergies
}

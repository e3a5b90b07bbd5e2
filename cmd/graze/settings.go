package main

import (
	"fmt"
	"strconv"

	"github.com/snackops/graze/internal/cli"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and tune evaluation settings",
		Long: `Show or change the stored evaluation settings: per-attribute scoring
weights, the review score threshold, and the random audit rate.`,
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsSetCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current evaluation settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetEvalSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			fmt.Println(cli.FormatTitle("Evaluation Settings"))
			fmt.Printf("Review threshold: %.2f\n", settings.ReviewThreshold)
			fmt.Printf("Audit rate:       %.1f%%\n", settings.ReviewAuditRate)
			fmt.Println("Weights:")
			for attr, weight := range settings.Weights {
				fmt.Printf("  %-16s %.2f\n", attr, weight)
			}
			return nil
		},
	}
}

func settingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change evaluation settings",
		Long: `Change one or more settings. Examples:

  graze settings set --threshold 5
  graze settings set --audit-rate 25
  graze settings set --weight healthiness=2 --weight price=0.5`,
		RunE: runSettingsSet,
	}

	cmd.Flags().Float64("threshold", 0, "Review score threshold")
	cmd.Flags().Float64("audit-rate", 0, "Random audit rate as a percentage (0-100)")
	cmd.Flags().StringArray("weight", nil, "Attribute weight as name=value; repeatable")

	return cmd
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	settings, err := store.GetEvalSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	changed := false
	if cmd.Flags().Changed("threshold") {
		settings.ReviewThreshold, _ = cmd.Flags().GetFloat64("threshold")
		changed = true
	}
	if cmd.Flags().Changed("audit-rate") {
		settings.ReviewAuditRate, _ = cmd.Flags().GetFloat64("audit-rate")
		changed = true
	}

	weights, _ := cmd.Flags().GetStringArray("weight")
	for _, pair := range weights {
		attr, value, err := parseWeight(pair)
		if err != nil {
			return err
		}
		settings.Weights[attr] = value
		changed = true
	}

	if !changed {
		return fmt.Errorf("nothing to change; see --help for flags")
	}

	if err := store.SaveEvalSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Settings updated"))
	return nil
}

func parseWeight(pair string) (string, float64, error) {
	for i := range pair {
		if pair[i] == '=' {
			value, err := strconv.ParseFloat(pair[i+1:], 64)
			if err != nil {
				return "", 0, fmt.Errorf("invalid weight value in %q", pair)
			}
			return pair[:i], value, nil
		}
	}
	return "", 0, fmt.Errorf("weight must be name=value, got %q", pair)
}

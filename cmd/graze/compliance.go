package main

import (
	"fmt"

	"github.com/snackops/graze/internal/cli"
	"github.com/spf13/cobra"
)

func complianceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compliance",
		Short: "Show four-fifths rule compliance history",
		Long: `Show the recorded compliance verdicts: for every classification
bucket checked during evaluation, the pass rate at that moment and
whether it cleared the 80% floor.`,
		RunE: runCompliance,
	}

	cmd.Flags().Int("limit", 50, "Maximum number of verdicts to show")
	cmd.Flags().Bool("failing", false, "Show only non-compliant verdicts")

	return cmd
}

func runCompliance(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	failing, _ := cmd.Flags().GetBool("failing")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	verdicts, err := store.GetComplianceHistory(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to load compliance history: %w", err)
	}

	if failing {
		filtered := verdicts[:0]
		for _, v := range verdicts {
			if !v.Compliant {
				filtered = append(filtered, v)
			}
		}
		verdicts = filtered
	}

	fmt.Println(cli.FormatTitle("Four-Fifths Rule Compliance"))
	fmt.Println(cli.RenderComplianceTable(verdicts))
	return nil
}

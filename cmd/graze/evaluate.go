package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/snackops/graze/internal/cli"
	"github.com/snackops/graze/internal/model"
	"github.com/spf13/cobra"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [file]",
		Short: "Evaluate food submissions from a JSON file",
		Long: `Run every food in the given JSON file through the evaluation pipeline:
rule checks, nutrition lookup, allergen matching, weighted scoring, and
the four-fifths compliance check. Results are persisted with a full
audit trail.

The file may contain either a bare JSON array of foods or an object of
the form {"foods": [...]}.`,
		Args: cobra.ExactArgs(1),
		RunE: runEvaluate,
	}

	cmd.Flags().Bool("steps", false, "Print the full audit trail for each food")
	cmd.Flags().Bool("json", false, "Emit results as JSON instead of styled output")

	return cmd
}

// batchFile is the accepted input shape: a wrapped object or, via the
// fallback in loadRecords, a bare array.
type batchFile struct {
	Foods []model.Record `json:"foods"`
}

func loadRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var wrapped batchFile
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Foods) > 0 {
		return wrapped.Foods, nil
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	showSteps, _ := cmd.Flags().GetBool("steps")
	asJSON, _ := cmd.Flags().GetBool("json")

	records, err := loadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no foods found in %s", args[0])
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	evaluator := initEvaluator(store)

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Evaluating foods...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
	evaluator.SetProgressFunc(func(_, _ int) {
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	})

	results, stats, err := evaluator.EvaluateBatch(ctx, records)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	// Highest score first
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	fmt.Println(cli.FormatTitle("Evaluation Results"))
	for _, result := range results {
		fmt.Println(cli.RenderResult(result))
		if showSteps {
			fmt.Println(cli.RenderSteps(result.Steps))
		}
	}

	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf(
		"%d evaluated, %d rejected, %d flagged for review (%d by compliance), %d failed in %s",
		len(results), stats.Rejected, stats.FlaggedForReview,
		stats.FlaggedByCompliance, stats.Failed, stats.Duration.Round(time.Millisecond))))
	return nil
}

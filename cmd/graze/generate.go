package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
	"github.com/snackops/graze/internal/service"
	"github.com/spf13/cobra"
)

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [food name]",
		Short: "Generate attribute ratings for a food using an LLM",
		Long: `Ask the configured LLM provider to rate a food across all evaluation
attributes. The result is printed as JSON suitable for the evaluate
command; pass --evaluate to run it through the pipeline immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().Bool("evaluate", false, "Evaluate the generated food immediately")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	evaluate, _ := cmd.Flags().GetBool("evaluate")

	client, err := createLLMClient()
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	var record *model.Record
	err = common.WithRetry(ctx, func() error {
		var genErr error
		record, genErr = client.GenerateRecord(ctx, args[0])
		return genErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return fmt.Errorf("failed to generate food data: %w", err)
	}

	if !evaluate {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(batchFile{Foods: []model.Record{*record}})
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	results, _, err := initEvaluator(store).EvaluateBatch(ctx, []model.Record{*record})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

package main

import (
	"fmt"

	"github.com/snackops/graze/internal/cli"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Work the human review queue",
	}

	cmd.AddCommand(reviewListCmd())
	cmd.AddCommand(reviewDoneCmd())

	return cmd
}

func reviewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List submissions awaiting human review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			queue, err := store.GetReviewQueue(ctx)
			if err != nil {
				return fmt.Errorf("failed to load review queue: %w", err)
			}

			fmt.Println(cli.FormatTitle("Review Queue"))
			fmt.Println(cli.RenderSubmissionTable(queue))
			return nil
		},
	}
}

func reviewDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done [submission id]",
		Short: "Mark a submission as reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reviewer, _ := cmd.Flags().GetString("by")
			if reviewer == "" {
				return fmt.Errorf("--by is required")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := store.MarkReviewed(ctx, args[0], reviewer); err != nil {
				return fmt.Errorf("failed to mark reviewed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Marked %s as reviewed by %s", args[0], reviewer)))
			return nil
		},
	}

	cmd.Flags().String("by", "", "Name of the reviewer")

	return cmd
}

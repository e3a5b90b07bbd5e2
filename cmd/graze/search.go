package main

import (
	"fmt"

	"github.com/snackops/graze/internal/cli"
	"github.com/snackops/graze/internal/service"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search past submissions",
		Long: `Search evaluated submissions by name or rejection reason. With no
query, lists the most recent submissions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().Int("limit", 50, "Maximum number of submissions to show")
	cmd.Flags().Bool("rejected", false, "Show only rejected submissions")
	cmd.Flags().Bool("approved", false, "Show only non-rejected submissions")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	rejectedOnly, _ := cmd.Flags().GetBool("rejected")
	approvedOnly, _ := cmd.Flags().GetBool("approved")

	if rejectedOnly && approvedOnly {
		return fmt.Errorf("--rejected and --approved are mutually exclusive")
	}

	filter := service.SearchFilter{Limit: limit}
	if len(args) > 0 {
		filter.Query = args[0]
	}
	if rejectedOnly || approvedOnly {
		filter.Rejected = &rejectedOnly
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	submissions, err := store.SearchSubmissions(ctx, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Println(cli.FormatTitle("Submissions"))
	fmt.Println(cli.RenderSubmissionTable(submissions))
	return nil
}

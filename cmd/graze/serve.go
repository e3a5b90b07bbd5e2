package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/snackops/graze/internal/api"
	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/llm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the evaluation API over HTTP: food evaluation, LLM generation,
team and settings management, the review queue, search, compliance
history, and Prometheus metrics on /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	// The server runs without a generator when no LLM is configured;
	// /api/generate then answers 503.
	var generator llm.Client
	generator, err = createLLMClient()
	if err != nil {
		if !errors.Is(err, common.ErrMissingConfig) {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		slog.Warn("No LLM provider configured; generation endpoint disabled")
		generator = nil
	}

	server := api.NewServer(store, initEvaluator(store), generator)

	addr := viper.GetString("server.addr")
	slog.Info("Starting HTTP server", "addr", addr)
	return server.Run(ctx, addr)
}

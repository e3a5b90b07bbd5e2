package main

import (
	"context"
	"fmt"

	"github.com/snackops/graze/internal/compliance"
	"github.com/snackops/graze/internal/config"
	"github.com/snackops/graze/internal/engine"
	"github.com/snackops/graze/internal/llm"
	"github.com/snackops/graze/internal/service"
	"github.com/snackops/graze/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEvaluator wires the full pipeline on top of an open store.
func initEvaluator(store service.Storage) *engine.Evaluator {
	pipeline := engine.NewPipeline(
		engine.SimulatedNutrition{},
		engine.UniformDice{},
		engine.DefaultRules(),
	)
	return engine.NewEvaluator(store, pipeline, compliance.NewMonitor())
}

// createLLMClient builds an LLM client from config. Returns an error when
// no API key is configured.
func createLLMClient() (llm.Client, error) {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
	return llm.NewClient(cfg)
}

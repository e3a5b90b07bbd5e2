// Package llm provides clients for generative providers used to pre-fill
// attribute ratings from a bare food name. The decision pipeline never
// calls these directly; generation is a black box that either returns a
// complete record or fails.
package llm

import (
	"context"

	"github.com/snackops/graze/internal/model"
)

// Client defines the interface for generative providers.
type Client interface {
	// GenerateRecord rates a food by name, returning a complete record
	// with all nine attributes and any allergen tags filled in.
	GenerateRecord(ctx context.Context, foodName string) (*model.Record, error)
}

// Config holds provider configuration.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

package engine

import (
	"context"
	"math/rand/v2"
)

// SimulatedNutrition stands in for a real nutrition database: it returns
// a uniform integer score from 1 to 10 regardless of the food name.
type SimulatedNutrition struct{}

// NutritionScore implements service.NutritionSource.
func (SimulatedNutrition) NutritionScore(_ context.Context, _ string) (float64, error) {
	return float64(rand.IntN(10) + 1), nil
}

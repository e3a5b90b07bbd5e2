package engine

import (
	"math"

	"github.com/snackops/graze/internal/model"
)

// Score floor and ceiling for the final clamp.
const (
	minScore = 0.0
	maxScore = 10.0
)

// WeightedComposite computes the weighted average of the record's rated
// attributes plus the nutrition signal. Only attributes present both on
// the record and in the weights map contribute; the nutrition signal is
// always folded in using the healthiness weight (1 when unset). A zero
// denominator yields 0 rather than dividing.
func WeightedComposite(record *model.Record, nutritionScore float64, weights map[string]float64) float64 {
	var total, totalWeight float64

	for attribute, weight := range weights {
		if rating, ok := record.Rating(attribute); ok {
			total += rating * weight
			totalWeight += weight
		}
	}

	nutritionWeight, ok := weights["healthiness"]
	if !ok {
		nutritionWeight = 1
	}
	total += nutritionScore * nutritionWeight
	totalWeight += nutritionWeight

	if totalWeight == 0 {
		return 0
	}
	return total / totalWeight
}

// TeamAdjustment scales the record's healthiness by the roster's average
// sensitivity factor. Unrated healthiness defaults to 5; an empty roster
// averages to the neutral 5.
func TeamAdjustment(record *model.Record, roster []model.TeamMember) (adjustment, avgSensitivity float64) {
	avgSensitivity = 5.0
	if len(roster) > 0 {
		var sum float64
		for _, member := range roster {
			factor := member.SensitivityFactor
			if factor == 0 {
				factor = 5
			}
			sum += factor
		}
		avgSensitivity = sum / float64(len(roster))
	}

	adjustment = record.RatingOr("healthiness", 5) * avgSensitivity / 50
	return adjustment, avgSensitivity
}

// LateNightBonus rewards energy boost and penalizes heaviness; both
// default to 0 when unrated.
func LateNightBonus(record *model.Record) float64 {
	return record.RatingOr("energy_boost", 0)*0.1 - record.RatingOr("heaviness", 0)*0.05
}

// ClampScore bounds a score to [0, 10] and rounds to two decimal places.
func ClampScore(score float64) float64 {
	clamped := math.Max(minScore, math.Min(maxScore, score))
	return math.Round(clamped*100) / 100
}

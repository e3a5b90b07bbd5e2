package engine

import (
	"fmt"

	"github.com/snackops/graze/internal/model"
)

// classifyLevel buckets a rating using the fixed three-way split. Medium
// is the closed interval 4..7, so fractional values between 7 and 8 land
// in low. Values outside 1-10 still bucket through the same boundaries
// rather than failing; unrated attributes land in low.
func classifyLevel(rating float64) model.ClassificationLevel {
	switch {
	case rating >= 8:
		return model.LevelHigh
	case rating >= 4 && rating <= 7:
		return model.LevelMedium
	default:
		return model.LevelLow
	}
}

// Classify buckets a record into exactly one qualitative level per
// tracked attribute. It is pure and total: the same record always yields
// the same buckets, in canonical attribute order.
func Classify(record *model.Record) []model.Classification {
	classifications := make([]model.Classification, 0, len(model.Attributes))
	for _, attribute := range model.Attributes {
		level := classifyLevel(record.RatingOr(attribute, 0))
		classifications = append(classifications, model.Classification{
			Key:       fmt.Sprintf("%s_%s", level, attribute),
			Attribute: attribute,
			Level:     level,
		})
	}
	return classifications
}

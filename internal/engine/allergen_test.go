package engine

import (
	"testing"

	"github.com/snackops/graze/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAllergens(t *testing.T) {
	roster := []model.TeamMember{
		{Name: "Alice", Allergies: []string{"peanuts", "shellfish"}},
		{Name: "Bob", Allergies: []string{"gluten"}},
		{Name: "Carol"},
	}

	t.Run("one conflict line per affected member", func(t *testing.T) {
		record := &model.Record{
			Name:      "Pad Thai",
			Allergens: []string{"Peanuts", "wheat gluten"},
		}
		conflicts := MatchAllergens(record, roster)
		require.Len(t, conflicts, 2)
		assert.Equal(t, "Alice has allergies to: peanuts", conflicts[0])
		assert.Equal(t, "Bob has allergies to: gluten", conflicts[1])
	})

	t.Run("matching is case-insensitive contains", func(t *testing.T) {
		record := &model.Record{Name: "Shrimp Cocktail", Allergens: []string{"SHELLFISH (shrimp)"}}
		conflicts := MatchAllergens(record, roster)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "Alice has allergies to: shellfish", conflicts[0])
	})

	t.Run("multiple allergies for one member join with commas", func(t *testing.T) {
		record := &model.Record{Name: "Surf and Turf Satay", Allergens: []string{"crushed peanuts", "shellfish"}}
		conflicts := MatchAllergens(record, roster)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "Alice has allergies to: peanuts, shellfish", conflicts[0])
	})

	t.Run("no allergens means no conflicts", func(t *testing.T) {
		assert.Empty(t, MatchAllergens(&model.Record{Name: "Water"}, roster))
	})

	t.Run("empty roster means no conflicts", func(t *testing.T) {
		record := &model.Record{Name: "Pad Thai", Allergens: []string{"peanuts"}}
		assert.Empty(t, MatchAllergens(record, nil))
	})
}

package engine

import (
	"testing"

	"github.com/snackops/graze/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRules(t *testing.T) {
	rules := DefaultRules()

	t.Run("hawaiian pizza is always rejected", func(t *testing.T) {
		record := &model.Record{Name: "Hawaiian Pizza", Happiness: ptr(10)}
		rejection := CheckRules(record, rules)
		require.NotNil(t, rejection)
		assert.Equal(t, "pineapple-pizza", rejection.RuleName)
		assert.Len(t, rejection.Reasons, 4)
	})

	t.Run("pineapple and pizza together are rejected", func(t *testing.T) {
		rejection := CheckRules(&model.Record{Name: "Pizza with Pineapple Chunks"}, rules)
		require.NotNil(t, rejection)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		rejection := CheckRules(&model.Record{Name: "HAWAIIAN pizza"}, rules)
		require.NotNil(t, rejection)
	})

	t.Run("pineapple without pizza passes", func(t *testing.T) {
		assert.Nil(t, CheckRules(&model.Record{Name: "Pineapple Smoothie"}, rules))
	})

	t.Run("plain pizza passes", func(t *testing.T) {
		assert.Nil(t, CheckRules(&model.Record{Name: "Margherita Pizza"}, rules))
	})

	t.Run("no rules means no rejection", func(t *testing.T) {
		assert.Nil(t, CheckRules(&model.Record{Name: "Hawaiian Pizza"}, []Rule{}))
	})
}

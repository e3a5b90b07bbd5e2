package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordJSON(t *testing.T) {
	t.Run("parses a JSON array", func(t *testing.T) {
		record, err := parseRecordJSON(`[{"name": "Ramen", "price": 3, "happiness": 9}]`)
		require.NoError(t, err)
		assert.Equal(t, "Ramen", record.Name)
		require.NotNil(t, record.Price)
		assert.Equal(t, 3.0, *record.Price)
	})

	t.Run("strips markdown fences", func(t *testing.T) {
		record, err := parseRecordJSON("```json\n[{\"name\": \"Ramen\"}]\n```")
		require.NoError(t, err)
		assert.Equal(t, "Ramen", record.Name)
	})

	t.Run("accepts a bare object", func(t *testing.T) {
		record, err := parseRecordJSON(`{"name": "Ramen", "allergens": ["gluten"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Ramen", record.Name)
		assert.Equal(t, []string{"gluten"}, record.Allergens)
	})

	t.Run("takes the first record of a multi-element array", func(t *testing.T) {
		record, err := parseRecordJSON(`[{"name": "First"}, {"name": "Second"}]`)
		require.NoError(t, err)
		assert.Equal(t, "First", record.Name)
	})

	t.Run("unrated attributes stay nil", func(t *testing.T) {
		record, err := parseRecordJSON(`[{"name": "Ramen", "price": 3}]`)
		require.NoError(t, err)
		assert.Nil(t, record.Messiness)
	})

	t.Run("rejects an empty array", func(t *testing.T) {
		_, err := parseRecordJSON(`[]`)
		assert.Error(t, err)
	})

	t.Run("rejects a nameless record", func(t *testing.T) {
		_, err := parseRecordJSON(`[{"price": 3}]`)
		assert.Error(t, err)
	})

	t.Run("rejects non-JSON text", func(t *testing.T) {
		_, err := parseRecordJSON(`Sorry, I can't rate that food.`)
		assert.Error(t, err)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("defaults to anthropic", func(t *testing.T) {
		client, err := NewClient(Config{APIKey: "test-key"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("rejects unknown providers", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "palantir", APIKey: "k"})
		assert.Error(t, err)
	})

	t.Run("requires an API key", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "anthropic"})
		assert.Error(t, err)
	})
}

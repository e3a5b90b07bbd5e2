package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/snackops/graze/internal/common"
	"github.com/snackops/graze/internal/model"
)

// anthropicClient implements the Client interface for the Anthropic API.
type anthropicClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newAnthropicClient creates a new Anthropic API client.
func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key: %w", common.ErrMissingConfig)
	}

	m := cfg.Model
	if m == "" {
		m = "claude-3-sonnet-20240229"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	return &anthropicClient{
		apiKey:      cfg.APIKey,
		model:       m,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

const recordPrompt = `I will give you a food and I want you to format the food in JSON like this:

[
  {
    "name": "Pizza Margherita",
    "price": 7,
    "messiness": 5,
    "heaviness": 6,
    "energy_boost": 6,
    "healthiness": 5,
    "shareability": 9,
    "protein": 6,
    "spiciness": 2,
    "happiness": 8,
    "allergens": ["gluten", "dairy"]
  }
]

Do your best to rate price, messiness, heaviness, energy_boost, healthiness, shareability, protein, spiciness, and happiness on a scale of 1 to 10. For the allergens, add gluten to the array if there's gluten, dairy to the array if there's dairy and peanuts if there is peanuts. Do not guess. Be sure.

The name of the food is %s.

Return ONLY the JSON array, no additional text.`

// GenerateRecord asks the model to rate a food by name.
func (c *anthropicClient) GenerateRecord(ctx context.Context, foodName string) (*model.Record, error) {
	requestBody := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": fmt.Sprintf(recordPrompt, foodName),
			},
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response anthropicResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Content) == 0 {
		return nil, fmt.Errorf("empty response from anthropic")
	}

	return parseRecordJSON(response.Content[0].Text)
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// parseRecordJSON extracts the first record from the model's JSON array
// output, tolerating markdown code fences around it.
func parseRecordJSON(text string) (*model.Record, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var records []model.Record
	if err := json.Unmarshal([]byte(cleaned), &records); err != nil {
		// Some responses return a bare object instead of an array
		var single model.Record
		if objErr := json.Unmarshal([]byte(cleaned), &single); objErr == nil {
			records = []model.Record{single}
		} else {
			return nil, fmt.Errorf("failed to parse generated record: %w", err)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("generated output contained no records")
	}
	if strings.TrimSpace(records[0].Name) == "" {
		return nil, fmt.Errorf("generated record is missing a name")
	}
	return &records[0], nil
}

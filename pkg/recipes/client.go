package recipes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultModel balances quality and cost for recipe text.
	DefaultModel = "gpt-4o-mini"

	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second
)

// systemPrompt pins the output format so Parse can split it reliably.
const systemPrompt = `You are a cooking assistant for people on a low-oxalate diet.
Generate recipes that avoid high-oxalate ingredients (spinach, almonds, beets, rhubarb, soy).
Always answer in exactly this format:

Title: <recipe name>

Ingredients:
- <ingredient with quantity>

Instructions:
1. <step>`

// ClientConfig configures the generation client.
type ClientConfig struct {
	APIKey  string `env:"RECIPES_API_KEY,required"`
	Model   string `env:"RECIPES_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"RECIPES_BASE_URL" envDefault:"https://api.openai.com/v1"`

	// HTTPClient overrides the default 60s-timeout client, mainly for tests.
	HTTPClient *http.Client
}

// Client calls a chat-completion endpoint to produce recipe text.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewClient creates a generation client. The API key is required.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}, nil
}

// Generate produces raw recipe text for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	requestBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", ErrGenerationFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp chatErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			if resp.StatusCode == http.StatusTooManyRequests {
				return "", fmt.Errorf("%w: %s", ErrRateLimitExceeded, errorResp.Error.Message)
			}
			return "", fmt.Errorf("%w: %s", ErrGenerationFailed, errorResp.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %w", ErrGenerationFailed, err)
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyRecipe
	}
	return response.Choices[0].Message.Content, nil
}

// GenerateRecipe produces and parses a recipe in one call.
func (c *Client) GenerateRecipe(ctx context.Context, prompt string) (Recipe, error) {
	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return Recipe{}, err
	}
	return Parse(text)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

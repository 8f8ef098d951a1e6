// Package llm wraps an OpenAI-compatible chat completion API behind interfaces.LLMClient.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aureonone/seo-audit/pkg/interfaces"
	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 2000
)

// ErrEmptyCompletion is returned when the model answers with no content.
var ErrEmptyCompletion = errors.New("llm returned an empty completion")

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Client implements interfaces.LLMClient using JSON-mode chat completions.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      interfaces.Logger
}

// New builds a client. BaseURL may point at any OpenAI-compatible endpoint.
func New(opts Options, logger interfaces.Logger) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}

	c := &Client{
		api:         openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		logger:      logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.temperature == 0 {
		c.temperature = DefaultTemperature
	}
	if c.maxTokens == 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return c
}

// CompleteJSON asks the model for a JSON object and returns the raw message content.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	c.logger.Debug("Requesting LLM completion", "model", c.model, "prompt_chars", len(userPrompt))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug("LLM completion received",
		"model", resp.Model,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return content, nil
}

// CheckHealth looks up the configured model, which verifies both reachability
// and credentials without spending tokens.
func (c *Client) CheckHealth(ctx context.Context) error {
	if _, err := c.api.GetModel(ctx, c.model); err != nil {
		return fmt.Errorf("model %s: %w", c.model, err)
	}
	return nil
}

var (
	_ interfaces.LLMClient     = (*Client)(nil)
	_ interfaces.HealthChecker = (*Client)(nil)
)

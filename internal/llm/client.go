// Package llm wraps the OpenAI-compatible completion backend behind a
// single Complete call. Everything above it treats the backend as
// opaque text-in, text-out.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Config holds the completion backend settings. APIKey empty means the
// backend is not configured; the caller decides whether that is fatal.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client is a thin completion client over langchaingo's OpenAI
// bindings. Any OpenAI-compatible endpoint works via BaseURL.
type Client struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
}

// NewClient creates a completion client. Returns an error when the API
// key is missing or the underlying client cannot be constructed.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion backend requires an API key")
	}

	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	return &Client{
		llm:         client,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Complete submits a single prompt and returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	opts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
	}
	if c.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.maxTokens))
	}

	response, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from completion backend")
	}

	return response.Choices[0].Content, nil
}

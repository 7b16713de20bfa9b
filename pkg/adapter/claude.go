package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

// claudeClient implements LLM with the Anthropic Messages API
type claudeClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

type ClaudeOption func(*claudeClient)

func WithClaudeModel(model string) ClaudeOption {
	return func(c *claudeClient) {
		c.model = model
	}
}

func WithClaudeTimeout(timeout time.Duration) ClaudeOption {
	return func(c *claudeClient) {
		c.timeout = timeout
	}
}

// NewClaude creates a new Claude API client
func NewClaude(apiKey string, opts ...ClaudeOption) LLM {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	c := &claudeClient{
		client:    &client,
		model:     "claude-haiku-4-5",
		maxTokens: 2048,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *claudeClient) Model() string {
	return c.model
}

// GenerateJSON asks for JSON in the system prompt since the Messages API has no JSON
// response mode; the caller cleans up whatever wraps the object.
func (c *claudeClient) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(float64(temperature)),
		System: []anthropic.TextBlockParam{
			{Text: "Respond with a single JSON object and nothing else."},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create message", goerr.V("model", c.model))
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", goerr.New("empty response from claude")
	}

	return text.String(), nil
}

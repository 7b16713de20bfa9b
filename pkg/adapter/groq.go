package adapter

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const groqBaseURL = "https://api.groq.com/openai/v1/"

// GroqClient talks to Groq through its OpenAI-compatible chat completions endpoint
type GroqClient struct {
	client  *openai.Client
	model   string
	baseURL string
	timeout time.Duration
}

type GroqOption func(*GroqClient)

func WithGroqModel(model string) GroqOption {
	return func(g *GroqClient) {
		g.model = model
	}
}

// WithGroqBaseURL points the client at another OpenAI-compatible endpoint
func WithGroqBaseURL(url string) GroqOption {
	return func(g *GroqClient) {
		g.baseURL = url
	}
}

func WithGroqTimeout(timeout time.Duration) GroqOption {
	return func(g *GroqClient) {
		g.timeout = timeout
	}
}

func NewGroq(apiKey string, opts ...GroqOption) *GroqClient {
	g := &GroqClient{
		model:   "llama-3.3-70b-versatile",
		baseURL: groqBaseURL,
	}
	for _, opt := range opts {
		opt(g)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(g.baseURL),
		option.WithMaxRetries(0),
	)
	g.client = &client

	return g
}

func (g *GroqClient) Model() string {
	return g.model
}

func (g *GroqClient) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(temperature)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create chat completion", goerr.V("model", g.model))
	}

	if len(resp.Choices) == 0 {
		return "", goerr.New("no choices in groq response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", goerr.New("empty response from groq")
	}

	return content, nil
}

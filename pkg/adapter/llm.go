package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// LLM is a hosted text completion service asked to answer with a single JSON object
type LLM interface {
	// GenerateJSON sends one user prompt and returns the raw text of the answer
	GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error)
	// Model returns the model identifier used for requests
	Model() string
}

// Provider names accepted by NewLLM
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderClaude = "claude"
)

var ErrUnknownProvider = goerr.New("unknown LLM provider")

// LLMConfig holds settings shared by all providers
type LLMConfig struct {
	Provider string
	APIKey   string
	// Model overrides the provider default when not empty
	Model string
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

// NewLLM creates the client for cfg.Provider
func NewLLM(ctx context.Context, cfg LLMConfig) (LLM, error) {
	if cfg.APIKey == "" {
		return nil, goerr.New("LLM API key is required")
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		opts := []GeminiOption{WithGeminiTimeout(cfg.Timeout)}
		if cfg.Model != "" {
			opts = append(opts, WithGenerativeModel(cfg.Model))
		}
		return NewGemini(ctx, cfg.APIKey, opts...)

	case ProviderGroq:
		opts := []GroqOption{WithGroqTimeout(cfg.Timeout)}
		if cfg.Model != "" {
			opts = append(opts, WithGroqModel(cfg.Model))
		}
		return NewGroq(cfg.APIKey, opts...), nil

	case ProviderClaude:
		opts := []ClaudeOption{WithClaudeTimeout(cfg.Timeout)}
		if cfg.Model != "" {
			opts = append(opts, WithClaudeModel(cfg.Model))
		}
		return NewClaude(cfg.APIKey, opts...), nil

	default:
		return nil, goerr.Wrap(ErrUnknownProvider, "unsupported provider", goerr.V("provider", cfg.Provider))
	}
}

// withTimeout derives a request context; zero timeout keeps ctx as is
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// CleanJSON strips markdown code fences and any prose around the outermost JSON
// object. Some models wrap the object even when JSON output is requested.
func CleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

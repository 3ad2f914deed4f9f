// Package generator produces card content from a system prompt and a front
// field value, abstracting over generative-text providers.
package generator

import (
	"context"
	"fmt"
	"time"
)

// Client abstracts a generative-text backend. One prompt plus one source text
// in, generated text out. Implementations hold no retry logic and no cache.
type Client interface {
	Generate(ctx context.Context, systemPrompt, front string) (string, error)
	Model() string
}

// Settings is the provider configuration handed to a concrete client.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New selects the provider implementation once at configuration-load time.
func New(cfg Settings) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(cfg)
	case "anthropic":
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
}

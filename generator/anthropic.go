package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicClient implements Client against the Anthropic messages API.
type AnthropicClient struct {
	model  string
	apiKey string
	url    string
	client *http.Client
}

func NewAnthropicClient(cfg Settings) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic api key missing; set anthropic_api_key in config")
	}
	if cfg.Model == "" {
		return nil, errors.New("anthropic model is required")
	}
	url := cfg.BaseURL
	if url == "" {
		url = anthropicMessagesURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnthropicClient{
		model:  cfg.Model,
		apiKey: cfg.APIKey,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (c *AnthropicClient) Model() string { return c.model }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicPayload struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResp struct {
	Content []anthropicContent `json:"content"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt, front string) (string, error) {
	payload := anthropicPayload{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: front}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Error{Provider: "anthropic", Kind: KindBadResponse, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Provider: "anthropic", Kind: KindNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", wrapAnthropicTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", classifyStatus("anthropic", resp.StatusCode, string(msg))
	}

	var data anthropicResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", &Error{Provider: "anthropic", Kind: KindBadResponse, Message: "decoding response", Err: err}
	}
	if data.Error != nil {
		return "", &Error{Provider: "anthropic", Kind: KindBadResponse, Message: data.Error.Message}
	}
	if len(data.Content) == 0 || data.Content[0].Text == "" {
		return "", &Error{Provider: "anthropic", Kind: KindBadResponse, Message: "empty content"}
	}
	return data.Content[0].Text, nil
}

func wrapAnthropicTransport(err error) error {
	kind := KindNetwork
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Provider: "anthropic", Kind: kind, Err: err}
}

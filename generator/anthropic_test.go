package generator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewAnthropicClient(Settings{
		Provider: "anthropic",
		Model:    "test-model",
		APIKey:   "ak-test",
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestAnthropicGenerate(t *testing.T) {
	var gotPayload anthropicPayload
	c := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "<p>generated</p>"}},
		})
	})

	got, err := c.Generate(context.Background(), "system prompt", "犬")
	require.NoError(t, err)
	assert.Equal(t, "<p>generated</p>", got)
	assert.Equal(t, "system prompt", gotPayload.System)
	require.Len(t, gotPayload.Messages, 1)
	assert.Equal(t, "user", gotPayload.Messages[0].Role)
	assert.Equal(t, "犬", gotPayload.Messages[0].Content)
	assert.Equal(t, maxTokens, gotPayload.MaxTokens)
}

func TestAnthropicErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuth},
		{"forbidden", http.StatusForbidden, KindAuth},
		{"rate limited", http.StatusTooManyRequests, KindRateLimit},
		{"server error", http.StatusBadGateway, KindNetwork},
		{"bad request", http.StatusBadRequest, KindBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAnthropicTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			})
			_, err := c.Generate(context.Background(), "p", "f")
			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.want, perr.Kind)
			assert.Equal(t, "anthropic", perr.Provider)
		})
	}
}

func TestAnthropicEmptyContent(t *testing.T) {
	c := newAnthropicTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	})
	_, err := c.Generate(context.Background(), "p", "f")
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindBadResponse, perr.Kind)
}

func TestAnthropicTimeout(t *testing.T) {
	c := newAnthropicTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Generate(ctx, "p", "f")
	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindTimeout, perr.Kind)
}

func TestNewAnthropicClientValidation(t *testing.T) {
	_, err := NewAnthropicClient(Settings{Model: "m"})
	assert.Error(t, err)
	_, err = NewAnthropicClient(Settings{APIKey: "k"})
	assert.Error(t, err)
}

func TestNewDispatch(t *testing.T) {
	c, err := New(Settings{Provider: "anthropic", Model: "m", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "m", c.Model())

	c, err = New(Settings{Provider: "openai", Model: "m", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "m", c.Model())

	_, err = New(Settings{Provider: "gemini", Model: "m", APIKey: "k"})
	assert.Error(t, err)
}

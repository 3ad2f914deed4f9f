package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{"ai_provider":"openai","openai_api_key":"sk-test"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
	assert.Equal(t, DefaultRequestDelayMS, cfg.RequestDelayMS)
	assert.Equal(t, DefaultAnkiConnectURL, cfg.AnkiConnectURL)
	assert.Equal(t, DefaultFrontField, cfg.FrontField)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.False(t, cfg.MirrorEnabled())
	assert.Equal(t, DefaultOpenAIModel, cfg.Model())
}

func TestLoadMissingProviderKey(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"openai without key", `{"ai_provider":"openai"}`},
		{"anthropic without key", `{"ai_provider":"anthropic"}`},
		{"unknown provider", `{"ai_provider":"gemini","openai_api_key":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSupabaseRequiresBothKeys(t *testing.T) {
	_, err := Load(writeConfig(t, `{"ai_provider":"openai","openai_api_key":"x","supabase_url":"https://p.supabase.co"}`))
	assert.Error(t, err)

	cfg, err := Load(writeConfig(t, `{"ai_provider":"openai","openai_api_key":"x","supabase_url":"https://p.supabase.co","supabase_anon_key":"anon"}`))
	require.NoError(t, err)
	assert.True(t, cfg.MirrorEnabled())
	assert.Equal(t, DefaultSupabaseTable, cfg.SupabaseTable)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	_, err := Load(writeConfig(t, `{"ai_provider":`))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := Template()
	cfg.AnthropicAPIKey = "ak-test"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.OpenAIModel, loaded.OpenAIModel)
	assert.Equal(t, "ak-test", loaded.AnthropicAPIKey)
}

func TestDeckPromptsPathResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ai_provider":"openai","openai_api_key":"x"}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultPromptsFile), cfg.DeckPromptsPath())

	cfg.DeckPromptsFile = filepath.Join(dir, "custom.json")
	assert.Equal(t, filepath.Join(dir, "custom.json"), cfg.DeckPromptsPath())
}

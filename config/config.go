// Package config loads and validates the tool configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Providers recognized by ai_provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Defaults applied when the config file leaves a key unset.
const (
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-6"
	DefaultSupabaseTable  = "ai_card_content"
	DefaultAnkiConnectURL = "http://127.0.0.1:8765"
	DefaultRequestDelayMS = 500
	DefaultTimeoutMS      = 60000
	DefaultPromptsFile    = "deck_prompts.json"

	DefaultFrontField   = "Front"
	DefaultContentField = "AI_Content"
	DefaultIDField      = "NoteID"
)

// DefaultPromptText is used when neither the config nor the deck prompt map
// provides a prompt for a deck.
const DefaultPromptText = "You are a language learning assistant. Given a word or phrase, " +
	"generate a helpful, well-structured HTML study card. Include: " +
	"pronunciation guide, part of speech, definition, 2-3 example sentences, " +
	"common collocations or usage notes. Format with clean HTML using inline " +
	"styles (no external CSS). Keep it concise and educational."

// Config holds all process-wide settings. Loaded once at startup, edited only
// through explicit Save.
type Config struct {
	AIProvider      string `json:"ai_provider"`
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	OpenAIModel     string `json:"openai_model,omitempty"`
	OpenAIBaseURL   string `json:"openai_base_url,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	AnthropicModel  string `json:"anthropic_model,omitempty"`

	SupabaseURL     string `json:"supabase_url,omitempty"`
	SupabaseAnonKey string `json:"supabase_anon_key,omitempty"`
	SupabaseTable   string `json:"supabase_table,omitempty"`

	AnkiConnectURL string `json:"ankiconnect_url,omitempty"`

	RequestDelayMS   int    `json:"request_delay_ms,omitempty"`
	RequestTimeoutMS int    `json:"request_timeout_ms,omitempty"`
	MaxAttempts      int    `json:"max_attempts,omitempty"`
	DefaultPrompt    string `json:"default_prompt,omitempty"`

	FrontField   string `json:"front_field,omitempty"`
	ContentField string `json:"content_field,omitempty"`
	IDField      string `json:"id_field,omitempty"`

	DeckPromptsFile string `json:"deck_prompts_file,omitempty"`

	// Directory the config file was loaded from; relative paths resolve here.
	dir string
}

// DefaultPath returns the conventional config location under the user config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "aicards", "config.json")
}

// Load reads JSON config from disk, applies defaults, and validates it.
// Any error here is fatal: no batch may start on a broken configuration.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back to disk, creating parent directories as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func (c *Config) applyDefaults() {
	if c.AIProvider == "" {
		c.AIProvider = ProviderOpenAI
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = DefaultOpenAIModel
	}
	if c.AnthropicModel == "" {
		c.AnthropicModel = DefaultAnthropicModel
	}
	if c.SupabaseTable == "" {
		c.SupabaseTable = DefaultSupabaseTable
	}
	if c.AnkiConnectURL == "" {
		c.AnkiConnectURL = DefaultAnkiConnectURL
	}
	if c.RequestDelayMS == 0 {
		c.RequestDelayMS = DefaultRequestDelayMS
	}
	if c.RequestTimeoutMS == 0 {
		c.RequestTimeoutMS = DefaultTimeoutMS
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 1
	}
	if c.DefaultPrompt == "" {
		c.DefaultPrompt = DefaultPromptText
	}
	if c.FrontField == "" {
		c.FrontField = DefaultFrontField
	}
	if c.ContentField == "" {
		c.ContentField = DefaultContentField
	}
	if c.IDField == "" {
		c.IDField = DefaultIDField
	}
	if c.DeckPromptsFile == "" {
		c.DeckPromptsFile = DefaultPromptsFile
	}
}

// Validate checks that everything the selected provider and the mirror need
// is present. It never fills in credentials silently.
func (c Config) Validate() error {
	switch c.AIProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("openai_api_key is required when ai_provider is openai")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("anthropic_api_key is required when ai_provider is anthropic")
		}
	default:
		return fmt.Errorf("ai_provider %q not supported (want openai or anthropic)", c.AIProvider)
	}
	if (c.SupabaseURL == "") != (c.SupabaseAnonKey == "") {
		return errors.New("supabase_url and supabase_anon_key must be set together")
	}
	if c.RequestDelayMS < 0 {
		return errors.New("request_delay_ms must not be negative")
	}
	if c.RequestTimeoutMS <= 0 {
		return errors.New("request_timeout_ms must be positive")
	}
	return nil
}

// MirrorEnabled reports whether Supabase mirroring is configured.
func (c Config) MirrorEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseAnonKey != ""
}

// Model returns the model name for the selected provider.
func (c Config) Model() string {
	if c.AIProvider == ProviderAnthropic {
		return c.AnthropicModel
	}
	return c.OpenAIModel
}

// RequestDelay returns the pacing interval between provider calls.
func (c Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// RequestTimeout returns the per-call network timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// DeckPromptsPath resolves the deck prompt file, relative to the config dir
// when not absolute.
func (c Config) DeckPromptsPath() string {
	if filepath.IsAbs(c.DeckPromptsFile) {
		return c.DeckPromptsFile
	}
	dir := c.dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, c.DeckPromptsFile)
}

// Template returns a starter config for `config init`.
func Template() Config {
	cfg := Config{
		AIProvider:   ProviderOpenAI,
		OpenAIAPIKey: "sk-...",
	}
	cfg.applyDefaults()
	return cfg
}

// Package ai provides text generation for log summarization.
//
// This package implements a provider-agnostic interface for turning a prompt
// into generated text, with one implementation per backend (Gemini, OpenAI,
// Groq). The provider is selected via configuration; API keys resolve from
// environment variables first, then the OS secret store, then the config
// file.
package ai

import (
	"context"
	"log/slog"
	"os"

	"qed42.com/waid/pkg/config"
	waiderrors "qed42.com/waid/pkg/errors"
	"qed42.com/waid/pkg/secrets"
)

// Provider generates text from a prompt.
type Provider interface {
	// IsAvailable checks if provider is available and configured.
	IsAvailable() bool

	// Generate produces text for a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Provider name constants.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
)

// NewProvider creates an AI provider based on config.
// Environment variables take precedence over secret-store and config values
// for API keys. When model is empty, provider-specific default models from
// config are used.
func NewProvider(cfg *config.AIConfig, store *secrets.Store, verbose bool) (Provider, error) {
	if cfg == nil {
		return nil, waiderrors.NewConfigError("ai", "config is nil")
	}

	if !cfg.Enabled {
		return nil, waiderrors.NewConfigError("ai.enabled", "AI is disabled in configuration")
	}

	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	switch cfg.Provider {
	case ProviderGemini:
		apiKey := resolveAPIKey("GEMINI_API_KEY", secrets.KeyGeminiAPIKey, store, cfg.APIKey)
		if apiKey == "" {
			return nil, waiderrors.NewConfigError("ai.api_key",
				"Gemini API key not set (set GEMINI_API_KEY, store it in the secret store, or set ai.api_key in config)")
		}
		model := cfg.Model
		if model == "" {
			model = cfg.GeminiModel
		}
		return NewGeminiProvider(apiKey, model, logger), nil

	case ProviderOpenAI:
		apiKey := resolveAPIKey("OPENAI_API_KEY", secrets.KeyOpenAIAPIKey, store, cfg.APIKey)
		if apiKey == "" {
			return nil, waiderrors.NewConfigError("ai.api_key",
				"OpenAI API key not set (set OPENAI_API_KEY, store it in the secret store, or set ai.api_key in config)")
		}
		model := cfg.Model
		if model == "" {
			model = cfg.OpenAIModel
		}
		return NewOpenAIProvider(apiKey, model, logger), nil

	case ProviderGroq:
		apiKey := resolveAPIKey("GROQ_API_KEY", secrets.KeyGroqAPIKey, store, cfg.APIKey)
		if apiKey == "" {
			return nil, waiderrors.NewConfigError("ai.api_key",
				"Groq API key not set (set GROQ_API_KEY, store it in the secret store, or set ai.api_key in config)")
		}
		model := cfg.Model
		if model == "" {
			model = cfg.GroqModel
		}
		return NewGroqProvider(apiKey, model, logger), nil

	default:
		return nil, waiderrors.NewConfigError("ai.provider",
			"unsupported AI provider: "+cfg.Provider+" (supported: gemini, openai, groq)")
	}
}

// resolveAPIKey returns the API key from the environment variable if set,
// then the secret store, then the config value.
func resolveAPIKey(envVar, secretKey string, store *secrets.Store, configKey string) string {
	if envKey := os.Getenv(envVar); envKey != "" {
		return envKey
	}
	if store != nil {
		if stored, err := store.Get(secretKey); err == nil && stored != "" {
			return stored
		}
	}
	return configKey
}

package ai

import (
	"context"
	"log/slog"
	"net/http"

	waiderrors "qed42.com/waid/pkg/errors"
)

// Groq API configuration.
const (
	groqAPIURL       = "https://api.groq.com/openai/v1/chat/completions"
	groqDefaultModel = "llama-3.3-70b-versatile"
)

// GroqProvider implements Provider for the Groq API (OpenAI-compatible).
type GroqProvider struct {
	apiKey string
	model  string
	url    string
	logger *slog.Logger
	client *http.Client
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(apiKey, model string, logger *slog.Logger) *GroqProvider {
	if model == "" {
		model = groqDefaultModel
	}
	return &GroqProvider{
		apiKey: apiKey,
		model:  model,
		url:    groqAPIURL,
		logger: logger,
		client: &http.Client{},
	}
}

// Name returns the provider name.
func (p *GroqProvider) Name() string {
	return ProviderGroq
}

// IsAvailable checks if the provider is configured and ready.
func (p *GroqProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// Generate produces text for a single prompt.
func (p *GroqProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.IsAvailable() {
		return "", waiderrors.NewAIError(ProviderGroq, "Generate", "provider not configured")
	}
	return generateChatCompletion(ctx, p.client, p.url, p.apiKey, p.model, ProviderGroq, prompt, p.logger)
}

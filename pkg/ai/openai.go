package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	waiderrors "qed42.com/waid/pkg/errors"
)

// OpenAI API configuration.
const (
	openAIAPIURL       = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel = "gpt-4o-mini"
	openAIMaxTokens    = 4096
)

// OpenAIProvider implements Provider for the OpenAI chat-completions API.
type OpenAIProvider struct {
	apiKey string
	model  string
	url    string
	logger *slog.Logger
	client *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string, logger *slog.Logger) *OpenAIProvider {
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		url:    openAIAPIURL,
		logger: logger,
		client: &http.Client{},
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// IsAvailable checks if the provider is configured and ready.
func (p *OpenAIProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// openAIRequest represents an OpenAI-compatible chat-completions request.
type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

// openAIMessage represents a message in the OpenAI format.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse represents an OpenAI-compatible chat-completions response.
type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
}

// openAIChoice represents a choice in the OpenAI response.
type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// openAIUsage represents token usage in the OpenAI response.
type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// openAIError represents an OpenAI-compatible API error response.
type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

// Generate produces text for a single prompt.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if !p.IsAvailable() {
		return "", waiderrors.NewAIError(ProviderOpenAI, "Generate", "provider not configured")
	}
	return generateChatCompletion(ctx, p.client, p.url, p.apiKey, p.model, ProviderOpenAI, prompt, p.logger)
}

// generateChatCompletion performs a single-turn chat completion against an
// OpenAI-compatible endpoint. Groq exposes the same wire format, so both
// providers share this path.
func generateChatCompletion(ctx context.Context, client *http.Client, url, apiKey, model, provider, prompt string, logger *slog.Logger) (string, error) {
	reqBody := openAIRequest{
		Model:     model,
		Messages:  []openAIMessage{{Role: "user", Content: prompt}},
		MaxTokens: openAIMaxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", waiderrors.NewAIErrorWithCause(provider, "Generate", "failed to marshal request", err)
	}

	if logger != nil {
		logger.Debug("sending generation request", "provider", provider, "model", model, "prompt_bytes", len(prompt))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", waiderrors.NewAIErrorWithCause(provider, "Generate", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return "", waiderrors.NewAIErrorWithCause(provider, "Generate", "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", waiderrors.NewAIErrorWithCause(provider, "Generate", "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr openAIError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", waiderrors.NewAIErrorWithStatus(provider, "Generate", resp.StatusCode, apiErr.Error.Message)
		}
		return "", waiderrors.NewAIErrorWithStatus(provider, "Generate", resp.StatusCode,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var chatResp openAIResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", waiderrors.NewAIErrorWithCause(provider, "Generate", "failed to parse response", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", waiderrors.NewAIError(provider, "Generate", "no choices in response")
	}

	choice := chatResp.Choices[0]
	if logger != nil {
		logger.Debug("received response",
			"provider", provider,
			"finish_reason", choice.FinishReason,
			"prompt_tokens", chatResp.Usage.PromptTokens,
			"completion_tokens", chatResp.Usage.CompletionTokens)
	}

	return choice.Message.Content, nil
}

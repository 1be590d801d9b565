package ai

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	genkitai "github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	waiderrors "qed42.com/waid/pkg/errors"
)

// geminiDefaultModel is used when no model is configured.
const geminiDefaultModel = "gemini-2.0-flash"

// GeminiProvider implements Provider using the Genkit SDK.
type GeminiProvider struct {
	apiKey    string
	modelName string
	logger    *slog.Logger

	initOnce sync.Once
	model    genkitai.Model
	initErr  error
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey, modelName string, logger *slog.Logger) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		modelName: modelName,
		logger:    logger,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

// IsAvailable checks if the provider is configured.
func (p *GeminiProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// init initializes the Genkit client and model.
func (p *GeminiProvider) init(ctx context.Context) error {
	p.initOnce.Do(func() {
		// If model is already set (e.g. by a test), skip initialization
		if p.model != nil {
			return
		}

		if p.apiKey == "" {
			p.initErr = waiderrors.NewAIError(ProviderGemini, "init", "API key not set")
			return
		}

		g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: p.apiKey}))

		modelName := p.modelName
		if modelName == "" {
			modelName = geminiDefaultModel
		}

		// Ensure model name has the provider prefix
		fullModelName := modelName
		if !strings.Contains(fullModelName, "/") {
			fullModelName = "googleai/" + fullModelName
		}

		p.model = googlegenai.GoogleAIModel(g, fullModelName)
		if p.model == nil {
			p.initErr = waiderrors.NewAIError(ProviderGemini, "init", "failed to get model: "+fullModelName)
			return
		}

		p.logDebug("gemini provider initialized", "model", fullModelName)
	})

	return p.initErr
}

// Generate produces text for a single prompt using the Genkit SDK.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.init(ctx); err != nil {
		return "", err
	}

	p.logDebug("sending generation request to gemini", "prompt_bytes", len(prompt))

	resp, err := p.model.Generate(ctx, &genkitai.ModelRequest{
		Messages: []*genkitai.Message{
			{
				Role:    genkitai.RoleUser,
				Content: []*genkitai.Part{genkitai.NewTextPart(prompt)},
			},
		},
	}, nil)
	if err != nil {
		return "", waiderrors.NewAIErrorWithCause(ProviderGemini, "Generate", "genkit generate failed", err)
	}

	if resp.Message == nil {
		return "", waiderrors.NewAIError(ProviderGemini, "Generate", "received empty response from gemini")
	}

	var content strings.Builder
	for _, part := range resp.Message.Content {
		if part.IsText() {
			content.WriteString(part.Text)
		}
	}

	if content.Len() == 0 {
		return "", waiderrors.NewAIError(ProviderGemini, "Generate", "no text in gemini response")
	}

	return content.String(), nil
}

func (p *GeminiProvider) logDebug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

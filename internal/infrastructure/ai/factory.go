package ai

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"project_lojabot/internal/config"
	"project_lojabot/internal/interfaces"
)

// ErrConfiguration is returned when the selected provider cannot be built from config.
var ErrConfiguration = eris.New("ai: provider misconfigured")

const openAITruncation = 200

func variantOf(name string) (string, bool) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "mock", "openai", "deepseek", "gemini", "anthropic":
		return n, true
	case "claude":
		return "anthropic", true
	}
	return "", false
}

// Resolve maps a configured provider name to a variant. Unknown names fall back to
// the configured default, and to deepseek when that is unknown too.
func Resolve(name, fallback string) string {
	if v, ok := variantOf(name); ok {
		return v
	}
	if v, ok := variantOf(fallback); ok {
		return v
	}
	return "deepseek"
}

// New builds the provider selected by cfg.Provider. Only that variant's credentials are checked.
func New(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (interfaces.AIProvider, string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := Resolve(cfg.Provider, cfg.DefaultProvider)
	logger = logger.With(zap.String("provider", name))

	var (
		p   interfaces.AIProvider
		err error
	)
	switch name {
	case "mock":
		p, err = LoadMockProvider(cfg.MockResponsesFile)
	case "openai":
		p, err = newChatCompletionProvider(chatCompletionOptions{
			name:      "openai",
			apiKey:    cfg.OpenAI.APIKey,
			baseURL:   cfg.OpenAI.BaseURL,
			model:     cfg.OpenAI.Model,
			maxRunes:  openAITruncation,
			errorText: "Erro ao gerar resposta com Openai.",
		}, cfg.AssistantName, logger)
	case "deepseek":
		p, err = newChatCompletionProvider(chatCompletionOptions{
			name:      "deepseek",
			apiKey:    cfg.DeepSeek.APIKey,
			baseURL:   cfg.DeepSeek.BaseURL,
			model:     cfg.DeepSeek.Model,
			errorText: "Erro ao gerar resposta com Deepseek.",
		}, cfg.AssistantName, logger)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.AssistantName, logger)
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.AssistantName, logger)
	}
	if err != nil {
		return nil, name, err
	}

	logger.Info("ai provider ready")
	return p, name, nil
}

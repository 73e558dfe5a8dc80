package ai

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// AnthropicProvider uses the Messages API with the persona as the system block.
type AnthropicProvider struct {
	client        sdk.Client
	model         string
	maxTokens     int64
	assistantName string
	logger        *zap.Logger
}

func NewAnthropicProvider(apiKey, baseURL, model string, maxTokens int, assistantName string, logger *zap.Logger) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, eris.Wrap(ErrConfiguration, "ai: anthropic api key is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &AnthropicProvider{
		client:        sdk.NewClient(opts...),
		model:         model,
		maxTokens:     int64(maxTokens),
		assistantName: assistantName,
		logger:        logger,
	}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, products, services []string, message string) (string, error) {
	msg, err := p.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(p.model),
		MaxTokens: p.maxTokens,
		System:    []sdk.TextBlockParam{{Text: BuildPersona(p.assistantName, products, services)}},
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(message))},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", eris.Wrap(ctxErr, "ai: anthropic request aborted")
		}
		p.logger.Error("anthropic generation failed", zap.Error(err))
		return "Erro ao gerar resposta com Anthropic.", nil
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "Resposta não gerada.", nil
	}
	return text, nil
}

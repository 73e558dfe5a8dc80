package ai

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatCompletionProvider talks to an OpenAI-compatible chat completions API.
// It backs both the "openai" and "deepseek" variants, which differ in endpoint,
// model, error text and truncation.
type ChatCompletionProvider struct {
	name          string
	client        *openai.Client
	model         string
	assistantName string
	maxRunes      int
	errorText     string
	emptyText     string
	logger        *zap.Logger
}

type chatCompletionOptions struct {
	name      string
	apiKey    string
	baseURL   string
	model     string
	maxRunes  int
	errorText string
}

func newChatCompletionProvider(opts chatCompletionOptions, assistantName string, logger *zap.Logger) (*ChatCompletionProvider, error) {
	if opts.apiKey == "" {
		return nil, eris.Wrapf(ErrConfiguration, "ai: %s api key is not set", opts.name)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := openai.DefaultConfig(opts.apiKey)
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	return &ChatCompletionProvider{
		name:          opts.name,
		client:        openai.NewClientWithConfig(cfg),
		model:         opts.model,
		assistantName: assistantName,
		maxRunes:      opts.maxRunes,
		errorText:     opts.errorText,
		emptyText:     "Resposta não gerada.",
		logger:        logger,
	}, nil
}

func (p *ChatCompletionProvider) Generate(ctx context.Context, products, services []string, message string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildPersona(p.assistantName, products, services)},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", eris.Wrapf(ctxErr, "ai: %s request aborted", p.name)
		}
		p.logger.Error("chat completion failed", zap.String("provider", p.name), zap.Error(err))
		return p.errorText, nil
	}
	if len(resp.Choices) == 0 {
		return p.emptyText, nil
	}
	return truncateRunes(strings.TrimSpace(resp.Choices[0].Message.Content), p.maxRunes), nil
}

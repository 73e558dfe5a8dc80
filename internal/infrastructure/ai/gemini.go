package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API with the persona prepended to the question.
type GeminiProvider struct {
	client        *genai.Client
	model         string
	assistantName string
	logger        *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, baseURL, model, assistantName string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, eris.Wrap(ErrConfiguration, "ai: gemini api key is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "ai: create gemini client")
	}
	return &GeminiProvider{client: client, model: model, assistantName: assistantName, logger: logger}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, products, services []string, message string) (string, error) {
	prompt := BuildPersona(p.assistantName, products, services) + "\nPergunta do usuário: " + message

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", eris.Wrap(ctxErr, "ai: gemini request aborted")
		}
		p.logger.Error("gemini generation failed", zap.Error(err))
		return fmt.Sprintf("Erro ao gerar resposta com Gemini: %v", err), nil
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		p.logger.Warn("gemini returned an empty response")
		return "Erro: Resposta não gerada.", nil
	}
	return text, nil
}

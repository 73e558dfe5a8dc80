package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const tokenStatusTimeout = 10 * time.Second

// TokenStatusConfig holds the credentials and endpoints polled for account status.
type TokenStatusConfig struct {
	OpenAIKey   string
	DeepSeekKey string
	OpenAIURL   string
	DeepSeekURL string
}

// TokenStatusChecker reports credit usage for the OpenAI (via OpenRouter) and DeepSeek keys.
type TokenStatusChecker struct {
	cfg    TokenStatusConfig
	http   *http.Client
	logger *zap.Logger
}

func NewTokenStatusChecker(cfg TokenStatusConfig, hc *http.Client, logger *zap.Logger) *TokenStatusChecker {
	if hc == nil {
		hc = &http.Client{Timeout: tokenStatusTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenStatusChecker{cfg: cfg, http: hc, logger: logger}
}

// Check never fails: every problem is reported as an "error" entry in the result.
func (c *TokenStatusChecker) Check(ctx context.Context, provider string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, tokenStatusTimeout)
	defer cancel()

	switch p := strings.ToLower(provider); {
	case p == "openai" && c.cfg.OpenAIKey != "":
		return c.openAIStatus(ctx)
	case p == "deepseek" && c.cfg.DeepSeekKey != "":
		return c.deepSeekStatus(ctx)
	}
	c.logger.Warn("token status: unknown provider or missing key", zap.String("provider", provider))
	return map[string]any{"error": "Provedor inválido ou chave não configurada corretamente."}
}

type openRouterKey struct {
	Data struct {
		Label      string   `json:"label"`
		Usage      float64  `json:"usage"`
		Limit      *float64 `json:"limit"`
		IsFreeTier bool     `json:"is_free_tier"`
		RateLimit  struct {
			Requests int    `json:"requests"`
			Interval string `json:"interval"`
		} `json:"rate_limit"`
	} `json:"data"`
}

func (c *TokenStatusChecker) openAIStatus(ctx context.Context) map[string]any {
	var body openRouterKey
	if err := c.getJSON(ctx, c.cfg.OpenAIURL, c.cfg.OpenAIKey, &body); err != nil {
		c.logger.Error("token status: openai", zap.Error(err))
		return map[string]any{"error": fmt.Sprintf("Erro ao acessar OpenAI: %v", err)}
	}
	d := body.Data
	return map[string]any{
		"provider":            "OpenAI",
		"label":               d.Label,
		"credits_used":        d.Usage,
		"credit_limit":        d.Limit,
		"is_free_tier":        d.IsFreeTier,
		"rate_limit_requests": d.RateLimit.Requests,
		"rate_limit_interval": d.RateLimit.Interval,
	}
}

type deepSeekStatus struct {
	Usage struct {
		Used  float64 `json:"used"`
		Limit float64 `json:"limit"`
	} `json:"usage"`
	RateLimit struct {
		Requests int    `json:"requests"`
		Interval string `json:"interval"`
	} `json:"rate_limit"`
}

func (c *TokenStatusChecker) deepSeekStatus(ctx context.Context) map[string]any {
	var body deepSeekStatus
	if err := c.getJSON(ctx, c.cfg.DeepSeekURL, c.cfg.DeepSeekKey, &body); err != nil {
		c.logger.Error("token status: deepseek", zap.Error(err))
		return map[string]any{"error": fmt.Sprintf("Erro ao acessar DeepSeek: %v", err)}
	}
	interval := body.RateLimit.Interval
	if interval == "" {
		interval = "N/A"
	}
	return map[string]any{
		"provider":            "DeepSeek",
		"credits_used":        body.Usage.Used,
		"credit_limit":        body.Usage.Limit,
		"rate_limit_requests": body.RateLimit.Requests,
		"rate_limit_interval": interval,
	}
}

func (c *TokenStatusChecker) getJSON(ctx context.Context, url, apiKey string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "token status: create request")
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "token status: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "token status: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("token status: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "token status: decode response")
	}
	return nil
}

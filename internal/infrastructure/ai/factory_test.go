package ai

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project_lojabot/internal/config"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name, fallback, want string
	}{
		{"mock", "deepseek", "mock"},
		{"MOCK", "", "mock"},
		{"gemini", "deepseek", "gemini"},
		{" OpenAI ", "deepseek", "openai"},
		{"claude", "deepseek", "anthropic"},
		{"anthropic", "", "anthropic"},
		{"llama", "openai", "openai"},
		{"llama", "", "deepseek"},
		{"", "also-unknown", "deepseek"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.fallback, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.name, tt.fallback))
		})
	}
}

func TestNew_Mock(t *testing.T) {
	p, name, err := New(context.Background(), config.AIConfig{Provider: "mock", MockResponsesFile: "does-not-exist.json"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", name)
	assert.IsType(t, &MockProvider{}, p)
}

func TestNew_MissingCredentials(t *testing.T) {
	for _, provider := range []string{"openai", "deepseek", "gemini", "anthropic", "unknown"} {
		t.Run(provider, func(t *testing.T) {
			_, _, err := New(context.Background(), config.AIConfig{Provider: provider, DefaultProvider: "deepseek"}, nil)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrConfiguration))
		})
	}
}

func TestNew_OnlySelectedVariantChecksCredentials(t *testing.T) {
	cfg := config.AIConfig{
		Provider: "openai",
		OpenAI:   config.ProviderConfig{APIKey: "k", BaseURL: "http://127.0.0.1:0", Model: "gpt-3.5-turbo"},
	}
	p, name, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", name)
	assert.IsType(t, &ChatCompletionProvider{}, p)
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func geminiServer(t *testing.T, status int, body map[string]any, prompt *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-1.5-flash:generateContent"), r.URL.Path)
		if prompt != nil {
			var req struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
				*prompt = req.Contents[0].Parts[0].Text
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body) //nolint:errcheck
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGeminiProvider_Generate(t *testing.T) {
	var prompt string
	ts := geminiServer(t, http.StatusOK, map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": "  Sim, temos Notebook.  "}},
			},
		}},
	}, &prompt)

	p, err := NewGeminiProvider(context.Background(), "test-key", ts.URL, "gemini-1.5-flash", "Bia", zaptest.NewLogger(t))
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), []string{"Notebook"}, nil, "tem notebook?")
	require.NoError(t, err)
	assert.Equal(t, "Sim, temos Notebook.", got)
	assert.Contains(t, prompt, "Você é Bia")
	assert.True(t, strings.HasSuffix(prompt, "\nPergunta do usuário: tem notebook?"))
}

func TestGeminiProvider_EmptyResponse(t *testing.T) {
	ts := geminiServer(t, http.StatusOK, map[string]any{"candidates": []any{}}, nil)

	p, err := NewGeminiProvider(context.Background(), "test-key", ts.URL, "gemini-1.5-flash", "Bia", nil)
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), nil, nil, "oi")
	require.NoError(t, err)
	assert.Equal(t, "Erro: Resposta não gerada.", got)
}

func TestGeminiProvider_ErrorBecomesText(t *testing.T) {
	ts := geminiServer(t, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
	}, nil)

	p, err := NewGeminiProvider(context.Background(), "test-key", ts.URL, "gemini-1.5-flash", "Bia", nil)
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), nil, nil, "oi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Erro ao gerar resposta com Gemini: "), got)
}

func TestGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), "", "", "gemini-1.5-flash", "Bia", nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfiguration))
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAnthropicProvider_Generate(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/messages")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_1",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": " Temos Consultoria. "},
			},
			"model":       "claude-3-5-haiku-latest",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	defer ts.Close()

	p, err := NewAnthropicProvider("test-key", ts.URL, "claude-3-5-haiku-latest", 256, "Bia", zaptest.NewLogger(t))
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), nil, []string{"Consultoria"}, "vocês fazem consultoria?")
	require.NoError(t, err)
	assert.Equal(t, "Temos Consultoria.", got)

	assert.Equal(t, "claude-3-5-haiku-latest", body["model"])
	assert.EqualValues(t, 256, body["max_tokens"])
	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Contains(t, system[0].(map[string]any)["text"], "Consultoria")
}

func TestAnthropicProvider_ErrorBecomesText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)) //nolint:errcheck
	}))
	defer ts.Close()

	p, err := NewAnthropicProvider("test-key", ts.URL, "claude-3-5-haiku-latest", 0, "Bia", nil)
	require.NoError(t, err)

	got, err := p.Generate(context.Background(), nil, nil, "oi")
	require.NoError(t, err)
	assert.Equal(t, "Erro ao gerar resposta com Anthropic.", got)
}

func TestAnthropicProvider_MissingKey(t *testing.T) {
	_, err := NewAnthropicProvider("", "", "m", 0, "Bia", nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfiguration))
}

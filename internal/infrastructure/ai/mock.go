package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
)

const mockFallback = "Mock: Desculpe, não tenho uma resposta para essa pergunta."

// MockProvider answers from a fixed message -> response table.
type MockProvider struct {
	responses map[string]string
}

func NewMockProvider(responses map[string]string) *MockProvider {
	if responses == nil {
		responses = map[string]string{}
	}
	return &MockProvider{responses: responses}
}

// LoadMockProvider reads the response table from a JSON object file.
// A missing file yields an empty table.
func LoadMockProvider(path string) (*MockProvider, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewMockProvider(nil), nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "ai: read mock responses %s", path)
	}

	var responses map[string]string
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, eris.Wrapf(ErrConfiguration, "ai: decode mock responses %s: %v", path, err)
	}
	return NewMockProvider(responses), nil
}

func (m *MockProvider) Generate(_ context.Context, _, _ []string, message string) (string, error) {
	if r, ok := m.responses[message]; ok {
		return r, nil
	}
	return mockFallback, nil
}

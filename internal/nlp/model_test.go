package nlp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefault(t *testing.T) *Model {
	t.Helper()
	m, err := LoadModel("")
	require.NoError(t, err)
	return m
}

func posOf(tokens []Token) []POS {
	out := make([]POS, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.POS
	}
	return out
}

func TestLoadModel_Embedded(t *testing.T) {
	m := loadDefault(t)
	assert.NotEmpty(t, m.forms)
	assert.Equal(t, lexEntry{lemma: "querer", pos: VERB}, m.forms["quero"])
	assert.Equal(t, lexEntry{lemma: "a", pos: DET}, m.forms["a"])
	assert.Equal(t, lexEntry{lemma: "ser", pos: AUX}, m.forms["é"])
}

func TestLoadModel_MissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrModelUnavailable))
}

func TestLoadModel_BadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid yaml", "closed_class: [unclosed"},
		{"bad language", "language: not a tag!!\nclosed_class:\n  DET: [o]\n"},
		{"unknown pos", "language: pt-BR\nclosed_class:\n  FOO: [o]\n"},
		{"empty", "language: pt-BR\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lex.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := LoadModel(path)
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrModelUnavailable))
		})
	}
}

func TestAnalyze_Tags(t *testing.T) {
	m := loadDefault(t)

	tokens, err := m.Analyze("Quero comprar um celular")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, []POS{VERB, VERB, DET, NOUN}, posOf(tokens))
	assert.Equal(t, "querer", tokens[0].Lemma)
	assert.Equal(t, "celular", tokens[3].Lemma)
}

func TestAnalyze_PunctuationAndSentenceStart(t *testing.T) {
	m := loadDefault(t)

	tokens, err := m.Analyze("Oi! Celular tem com a Maria?")
	require.NoError(t, err)

	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	assert.Equal(t, []string{"Oi", "!", "Celular", "tem", "com", "a", "Maria", "?"}, texts)
	assert.Equal(t, []POS{INTJ, PUNCT, NOUN, AUX, ADP, DET, PROPN, PUNCT}, posOf(tokens))
}

func TestAnalyze_PluralLemmas(t *testing.T) {
	m := loadDefault(t)

	tokens, err := m.Analyze("celulares canecas balões itens notebooks lápis")
	require.NoError(t, err)

	lemmas := make([]string, len(tokens))
	for i, tok := range tokens {
		lemmas[i] = tok.Lemma
	}
	assert.Equal(t, []string{"celular", "caneca", "balão", "item", "notebook", "lápis"}, lemmas)
}

func TestAnalyze_NumbersAndVerbs(t *testing.T) {
	m := loadDefault(t)

	tokens, err := m.Analyze("estou pesquisando 19,99 rapidamente")
	require.NoError(t, err)
	assert.Equal(t, []POS{AUX, VERB, NUM, ADV}, posOf(tokens))
}

func TestAnalyze_InvalidUTF8(t *testing.T) {
	m := loadDefault(t)

	_, err := m.Analyze("caneca \xff")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrProcessing))
}

func TestAnalyze_Empty(t *testing.T) {
	m := loadDefault(t)

	tokens, err := m.Analyze("   ")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"canecas":      "caneca",
		"limões":       "limão",
		"pães":         "pão",
		"jornais":      "jornal",
		"papéis":       "papel",
		"computadores": "computador",
		"luzes":        "luz",
		"bombons":      "bombom",
		"pcs":          "pc",
		"tv":           "tv",
		"vírus":        "vírus",
		"classe":       "classe",
	}
	for in, want := range tests {
		assert.Equal(t, want, singularize(in), in)
	}
}

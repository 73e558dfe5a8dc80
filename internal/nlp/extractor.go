package nlp

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Analyzer turns text into tagged tokens. *Model is the production implementation.
type Analyzer interface {
	Analyze(text string) ([]Token, error)
}

// synonyms maps a lower-cased lemma to the catalog term it stands for.
var synonyms = map[string]string{
	"celular":    "smartphone",
	"camisa":     "camiseta",
	"telefone":   "smartphone",
	"computador": "notebook",
	"laptop":     "notebook",
	"pc":         "notebook",
	"tv":         "televisão",
}

var functionWords = setOf("preciso", "quero", "gostaria", "de", "estou", "vou", "em", "para", "a", "o", "na", "nao")

var miscNouns = setOf("casa", "ontem", "hoje")

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Extractor reduces a message to the nouns that can name catalog items.
type Extractor struct {
	analyzer Analyzer
}

func NewExtractor(analyzer Analyzer) *Extractor {
	return &Extractor{analyzer: analyzer}
}

// Extract returns the normalized keywords of message in token order, duplicates kept.
// A synonym is looked up by lemma; without one the token's surface text is used.
func (e *Extractor) Extract(message string) ([]string, error) {
	tokens, err := e.analyzer.Analyze(message)
	if err != nil {
		if eris.Is(err, ErrProcessing) {
			return nil, err
		}
		return nil, eris.Wrapf(ErrProcessing, "nlp: analyze message: %v", err)
	}

	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.POS != NOUN && tok.POS != PROPN {
			continue
		}

		normalized, ok := synonyms[strings.ToLower(tok.Lemma)]
		if !ok {
			normalized = tok.Text
		}

		lowered := strings.ToLower(normalized)
		if _, stop := functionWords[lowered]; stop {
			continue
		}
		if _, stop := miscNouns[lowered]; stop {
			continue
		}
		keywords = append(keywords, normalized)
	}
	return keywords, nil
}

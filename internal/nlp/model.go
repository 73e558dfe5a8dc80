package nlp

import (
	_ "embed"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon/pt_br.yaml
var defaultLexicon []byte

var (
	// ErrModelUnavailable is returned when the lexicon cannot be loaded.
	ErrModelUnavailable = eris.New("nlp: language model unavailable")
	// ErrProcessing is returned when a message cannot be analyzed.
	ErrProcessing = eris.New("nlp: text processing failed")
)

// POS is a universal part-of-speech tag.
type POS string

const (
	NOUN  POS = "NOUN"
	PROPN POS = "PROPN"
	VERB  POS = "VERB"
	AUX   POS = "AUX"
	ADJ   POS = "ADJ"
	ADV   POS = "ADV"
	ADP   POS = "ADP"
	DET   POS = "DET"
	PRON  POS = "PRON"
	CCONJ POS = "CCONJ"
	SCONJ POS = "SCONJ"
	NUM   POS = "NUM"
	INTJ  POS = "INTJ"
	PUNCT POS = "PUNCT"
)

// closedClassOrder fixes precedence between closed-class sections.
var closedClassOrder = []POS{DET, ADP, PRON, ADV, CCONJ, SCONJ, INTJ, NUM}

// Token is one analyzed unit of text.
type Token struct {
	Text  string
	Lemma string
	POS   POS
}

type lexiconFile struct {
	Language     string              `yaml:"language"`
	ClosedClass  map[POS][]string    `yaml:"closed_class"`
	Auxiliaries  map[string][]string `yaml:"auxiliaries"`
	Verbs        map[string][]string `yaml:"verbs"`
	Adjectives   map[string][]string `yaml:"adjectives"`
	Nouns        map[string][]string `yaml:"nouns"`
	VerbSuffixes []string            `yaml:"verb_suffixes"`
}

type lexEntry struct {
	lemma string
	pos   POS
}

// Model is a lexicon-driven tagger and lemmatizer for Brazilian Portuguese.
// It is immutable once loaded and safe for concurrent use.
type Model struct {
	lang         language.Tag
	forms        map[string]lexEntry
	verbSuffixes []string
}

// LoadModel reads a lexicon from path, or the embedded one when path is empty.
func LoadModel(path string) (*Model, error) {
	data := defaultLexicon
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(ErrModelUnavailable, "nlp: read lexicon %s: %v", path, err)
		}
		data = b
	}
	return parseModel(data)
}

func parseModel(data []byte) (*Model, error) {
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, eris.Wrapf(ErrModelUnavailable, "nlp: parse lexicon: %v", err)
	}

	lang, err := language.Parse(lf.Language)
	if err != nil {
		return nil, eris.Wrapf(ErrModelUnavailable, "nlp: lexicon language %q: %v", lf.Language, err)
	}

	for pos := range lf.ClosedClass {
		if !knownClosedClass(pos) {
			return nil, eris.Wrapf(ErrModelUnavailable, "nlp: unknown part of speech %q", pos)
		}
	}

	m := &Model{
		lang:  lang,
		forms: make(map[string]lexEntry),
	}
	lower := cases.Lower(lang)

	add := func(form, lemma string, pos POS) {
		key := lower.String(norm.NFC.String(strings.TrimSpace(form)))
		if key == "" {
			return
		}
		if _, exists := m.forms[key]; exists {
			return
		}
		m.forms[key] = lexEntry{lemma: lower.String(norm.NFC.String(lemma)), pos: pos}
	}

	for _, pos := range closedClassOrder {
		for _, form := range lf.ClosedClass[pos] {
			add(form, form, pos)
		}
	}
	addGroups(add, lf.Auxiliaries, AUX)
	addGroups(add, lf.Verbs, VERB)
	addGroups(add, lf.Adjectives, ADJ)
	addGroups(add, lf.Nouns, NOUN)

	if len(m.forms) == 0 {
		return nil, eris.Wrap(ErrModelUnavailable, "nlp: lexicon is empty")
	}

	for _, s := range lf.VerbSuffixes {
		if s = lower.String(norm.NFC.String(strings.TrimSpace(s))); s != "" {
			m.verbSuffixes = append(m.verbSuffixes, s)
		}
	}

	return m, nil
}

// addGroups registers lemma -> forms groups in sorted lemma order so loading is deterministic.
func addGroups(add func(form, lemma string, pos POS), groups map[string][]string, pos POS) {
	lemmas := make([]string, 0, len(groups))
	for lemma := range groups {
		lemmas = append(lemmas, lemma)
	}
	sort.Strings(lemmas)
	for _, lemma := range lemmas {
		for _, form := range groups[lemma] {
			add(form, lemma, pos)
		}
	}
}

func knownClosedClass(pos POS) bool {
	for _, p := range closedClassOrder {
		if p == pos {
			return true
		}
	}
	return false
}

// Analyze tokenizes text and tags every token with a lemma and part of speech.
func (m *Model) Analyze(text string) (tokens []Token, err error) {
	if !utf8.ValidString(text) {
		return nil, eris.Wrap(ErrProcessing, "nlp: input is not valid UTF-8")
	}

	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = eris.Wrapf(ErrProcessing, "nlp: analyzer panic: %v", r)
		}
	}()

	// Casers keep state and must not be shared between goroutines.
	lower := cases.Lower(m.lang)

	sentenceStart := true
	for _, piece := range tokenize(norm.NFC.String(text)) {
		tok := m.tag(piece, sentenceStart, lower)
		tokens = append(tokens, tok)
		if tok.POS == PUNCT {
			sentenceStart = strings.ContainsAny(piece, ".!?")
		} else {
			sentenceStart = false
		}
	}
	return tokens, nil
}

func (m *Model) tag(surface string, sentenceStart bool, lower cases.Caser) Token {
	first, _ := utf8.DecodeRuneInString(surface)
	if !isWordRune(first) {
		return Token{Text: surface, Lemma: surface, POS: PUNCT}
	}

	key := lower.String(surface)
	if e, ok := m.forms[key]; ok {
		return Token{Text: surface, Lemma: e.lemma, POS: e.pos}
	}

	switch {
	case isNumeric(surface):
		return Token{Text: surface, Lemma: surface, POS: NUM}
	case unicode.IsUpper(first) && !sentenceStart:
		return Token{Text: surface, Lemma: key, POS: PROPN}
	case m.looksLikeVerb(key):
		return Token{Text: surface, Lemma: key, POS: VERB}
	case strings.HasSuffix(key, "mente") && utf8.RuneCountInString(key) > 7:
		return Token{Text: surface, Lemma: key, POS: ADV}
	}
	return Token{Text: surface, Lemma: singularize(key), POS: NOUN}
}

func (m *Model) looksLikeVerb(key string) bool {
	for _, s := range m.verbSuffixes {
		if strings.HasSuffix(key, s) && utf8.RuneCountInString(key) >= utf8.RuneCountInString(s)+2 {
			return true
		}
	}
	return false
}

// tokenize splits text into words and single-rune punctuation tokens.
// Hyphens and apostrophes join letters; dots and commas join digits.
func tokenize(text string) []string {
	runes := []rune(text)
	var out []string
	start := -1

	flush := func(end int) {
		if start >= 0 {
			out = append(out, string(runes[start:end]))
			start = -1
		}
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case start >= 0 && isJoiner(runes, i):
			// stays inside the current word
		case unicode.IsSpace(r):
			flush(i)
		default:
			flush(i)
			out = append(out, string(r))
		}
	}
	flush(len(runes))
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isJoiner(runes []rune, i int) bool {
	if i == 0 || i+1 >= len(runes) {
		return false
	}
	prev, next := runes[i-1], runes[i+1]
	switch runes[i] {
	case '-', '\'', '’':
		return unicode.IsLetter(prev) && unicode.IsLetter(next)
	case '.', ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

var pluralRules = []struct{ from, to string }{
	{"ões", "ão"},
	{"ães", "ão"},
	{"ãos", "ão"},
	{"ais", "al"},
	{"éis", "el"},
	{"óis", "ol"},
	{"uis", "ul"},
	{"ns", "m"},
	{"res", "r"},
	{"zes", "z"},
}

// singularize maps a lower-cased noun to its likely singular form.
func singularize(word string) string {
	if utf8.RuneCountInString(word) < 3 {
		return word
	}
	for _, rule := range pluralRules {
		if strings.HasSuffix(word, rule.from) && len(word) > len(rule.from) {
			return strings.TrimSuffix(word, rule.from) + rule.to
		}
	}
	if !strings.HasSuffix(word, "s") {
		return word
	}
	for _, keep := range []string{"ss", "us", "is", "ás", "ês", "ós"} {
		if strings.HasSuffix(word, keep) {
			return word
		}
	}
	return strings.TrimSuffix(word, "s")
}

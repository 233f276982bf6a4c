package pos

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/surgebase/porter2"
)

//go:embed lexicon.toml
var defaultLexicon []byte

// lexiconFile is the on-disk TOML layout.
type lexiconFile struct {
	Verbs     []string          `toml:"verbs"`
	Nouns     []string          `toml:"nouns"`
	Overrides map[string]string `toml:"overrides"`
}

// Lexicon is a dictionary classifier. Words listed as both verb and noun
// resolve to verb unless an override says otherwise. Unlisted words are
// declined (None).
type Lexicon struct {
	tags         map[string]Tag
	stemFallback bool
}

// ParseLexicon decodes a TOML lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}

	tags := make(map[string]Tag, len(f.Verbs)+len(f.Nouns))
	for _, w := range f.Nouns {
		tags[normalize(w)] = Noun
	}
	for _, w := range f.Verbs {
		tags[normalize(w)] = Verb
	}
	for w, name := range f.Overrides {
		tag := ParseTag(name)
		if tag == None {
			return nil, fmt.Errorf("lexicon override %q: unknown tag %q", w, name)
		}
		tags[normalize(w)] = tag
	}
	delete(tags, "")
	return &Lexicon{tags: tags}, nil
}

// LoadLexicon reads a TOML lexicon from path.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// WithStemFallback makes Classify retry unknown words by their porter2 stem.
func (l *Lexicon) WithStemFallback(enabled bool) *Lexicon {
	l.stemFallback = enabled
	return l
}

// Size returns the number of entries.
func (l *Lexicon) Size() int {
	return len(l.tags)
}

func (l *Lexicon) Classify(word string) Tag {
	w := normalize(word)
	if tag, ok := l.tags[w]; ok {
		return tag
	}
	if l.stemFallback {
		if tag, ok := l.tags[porter2.Stem(w)]; ok {
			return tag
		}
	}
	return None
}

func normalize(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// DefaultLexicon returns the embedded lexicon. It is parsed once per process.
func DefaultLexicon() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = ParseLexicon(defaultLexicon)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	// callers may toggle stem fallback; hand out a shallow copy
	cp := *defaultLex
	return &cp, nil
}

// Options configures Bootstrap.
type Options struct {
	// LexiconPath points at a TOML lexicon; empty selects the embedded one.
	LexiconPath  string
	StemFallback bool
	// CacheSize bounds the memo; <= 0 disables memoization.
	CacheSize int
}

// Bootstrap builds the classifier the analysis core receives. The entry
// point calls it once; nothing in the core loads classifier data itself.
func Bootstrap(opts Options) (Classifier, error) {
	var (
		lex *Lexicon
		err error
	)
	if opts.LexiconPath != "" {
		lex, err = LoadLexicon(opts.LexiconPath)
	} else {
		lex, err = DefaultLexicon()
	}
	if err != nil {
		return nil, err
	}
	lex.WithStemFallback(opts.StemFallback)

	if opts.CacheSize <= 0 {
		return lex, nil
	}
	return NewCached(lex, opts.CacheSize)
}

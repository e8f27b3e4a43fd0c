// Package text turns raw study text into normalized word tokens.
package text

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
	snowball "github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/english"
	"github.com/blevesearch/snowballstem/porter"
)

// DefaultMinTokenLength is the longest token (in runes) that is still dropped.
const DefaultMinTokenLength = 2

// Stemmer names accepted by WithStemmer.
const (
	StemmerSnowball = "snowball"
	StemmerPorter   = "porter"
)

// Tokenizer normalizes one text field into an ordered token sequence.
// It holds only immutable state and is safe for concurrent use.
type Tokenizer struct {
	stopWords      map[string]struct{}
	minTokenLength int
	stem           func(*snowball.Env) bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer) error

// WithStopWords replaces the default stop-word set.
func WithStopWords(words []string) Option {
	return func(t *Tokenizer) error {
		t.stopWords = StopSet(words)
		return nil
	}
}

// WithMinTokenLength drops tokens whose rune length is <= n.
func WithMinTokenLength(n int) Option {
	return func(t *Tokenizer) error {
		if n < 0 {
			return fmt.Errorf("min token length must be >= 0, got %d", n)
		}
		t.minTokenLength = n
		return nil
	}
}

// WithStemmer selects the lemma-reduction algorithm ("snowball" or "porter").
func WithStemmer(name string) Option {
	return func(t *Tokenizer) error {
		switch name {
		case "", StemmerSnowball:
			t.stem = english.Stem
		case StemmerPorter:
			t.stem = porter.Stem
		default:
			return fmt.Errorf("unknown stemmer %q", name)
		}
		return nil
	}
}

// New creates a Tokenizer with the snowball English stemmer and stop words by default.
func New(opts ...Option) (*Tokenizer, error) {
	stop, err := DefaultStopWords()
	if err != nil {
		return nil, err
	}
	t := &Tokenizer{
		stopWords:      stop,
		minTokenLength: DefaultMinTokenLength,
		stem:           english.Stem,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Tokenize returns the normalized tokens of s in order of appearance.
// Empty or whitespace-only input yields an empty slice.
func (t *Tokenizer) Tokenize(s string) []string {
	tokens := []string{}
	if strings.TrimSpace(s) == "" {
		return tokens
	}

	seg := segment.NewWordSegmenterDirect([]byte(clean(s)))
	for seg.Segment() {
		if seg.Type() == segment.None {
			continue
		}
		word := strings.ToLower(seg.Text())
		if t.dropped(word) {
			continue
		}
		lemma := t.reduce(word)
		if t.dropped(lemma) {
			continue
		}
		tokens = append(tokens, lemma)
	}
	// segmenter errors only arise from oversized tokens; what was read so far is kept
	return tokens
}

func (t *Tokenizer) reduce(word string) string {
	env := snowball.NewEnv(word)
	t.stem(env)
	return env.Current()
}

func (t *Tokenizer) dropped(tok string) bool {
	if utf8.RuneCountInString(tok) <= t.minTokenLength {
		return true
	}
	if _, stop := t.stopWords[tok]; stop {
		return true
	}
	return isPunct(tok)
}

func isPunct(tok string) bool {
	for _, r := range tok {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

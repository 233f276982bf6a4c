// Package pos classifies single words by part of speech.
//
// The analysis core only sees the Classifier interface. Implementations are
// assumed pure but potentially slow, so callers invoke them at most once per
// candidate word and may wrap them in a Cached classifier.
package pos

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Tag is a part-of-speech tag. None doubles as "no filter requested" in
// queries and as "classifier declines" in classification results.
type Tag int

const (
	None Tag = iota
	Verb
	Noun
	Other
)

func (t Tag) String() string {
	switch t {
	case Verb:
		return "verb"
	case Noun:
		return "noun"
	case Other:
		return "other"
	default:
		return ""
	}
}

// ParseTag accepts "verb"/"noun" and the Penn Treebank spellings "VB"/"NN".
// Anything else yields None.
func ParseTag(s string) Tag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verb", "vb":
		return Verb
	case "noun", "nn":
		return Noun
	case "other":
		return Other
	default:
		return None
	}
}

// Classifier assigns a tag to a single lowercase word.
type Classifier interface {
	Classify(word string) Tag
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(word string) Tag

func (f ClassifierFunc) Classify(word string) Tag { return f(word) }

// Matches reports whether word passes a filter for want. With no tag
// requested every word passes and c is not consulted.
func Matches(c Classifier, word string, want Tag) bool {
	if want == None {
		return true
	}
	return c.Classify(word) == want
}

// Cached memoizes another classifier in a bounded LRU.
type Cached struct {
	next  Classifier
	cache *lru.Cache[string, Tag]
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Classifier, size int) (*Cached, error) {
	cache, err := lru.New[string, Tag](size)
	if err != nil {
		return nil, fmt.Errorf("classifier cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Classify(word string) Tag {
	if tag, ok := c.cache.Get(word); ok {
		return tag
	}
	tag := c.next.Classify(word)
	c.cache.Add(word, tag)
	return tag
}

// Len returns the number of memoized words.
func (c *Cached) Len() int {
	return c.cache.Len()
}

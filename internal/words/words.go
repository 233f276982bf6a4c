// Package words turns structural node streams into word samples.
//
// Everything here is a pure function over its inputs. Sequences are lazy:
// nothing is read from the node stream until the result is ranged over.
package words

import (
	"iter"
	"strings"

	"github.com/phobologic/wordstat/internal/model"
	"github.com/phobologic/wordstat/internal/pos"
)

// Separator is the only word boundary inside an identifier.
const Separator = "_"

// Scope restricts which identifier references Names yields.
type Scope int

const (
	AllNames Scope = iota
	LocalOnly
)

// IsMagic reports whether name is bracketed by double underscores, like __init__.
func IsMagic(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// Names yields the name of every identifier reference. With LocalOnly only
// references in a binding position (assignment targets) are kept.
func Names(nodes iter.Seq[model.Node], scope Scope) iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := range nodes {
			if n.Kind != model.Identifier {
				continue
			}
			if scope == LocalOnly && n.Context != model.Store {
				continue
			}
			if !yield(n.Name) {
				return
			}
		}
	}
}

// WithoutMagic drops magic names from identifiers.
func WithoutMagic(identifiers iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range identifiers {
			if IsMagic(name) {
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}

// Functions yields the lowercased name of every non-magic function definition.
func Functions(nodes iter.Seq[model.Node]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for n := range nodes {
			if n.Kind != model.FunctionDefinition || IsMagic(n.Name) {
				continue
			}
			if !yield(strings.ToLower(n.Name)) {
				return
			}
		}
	}
}

// Split breaks an identifier on underscores and drops empty segments.
func Split(identifier string) []string {
	parts := strings.Split(identifier, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromIdentifiers splits every non-magic identifier into words and keeps the
// words c tags as want. With want == pos.None all words are kept and c is
// never called.
func FromIdentifiers(identifiers iter.Seq[string], want pos.Tag, c pos.Classifier) []string {
	sample := make([]string, 0)
	for ident := range identifiers {
		if IsMagic(ident) {
			continue
		}
		for _, w := range Split(ident) {
			if pos.Matches(c, w, want) {
				sample = append(sample, w)
			}
		}
	}
	return sample
}

// Collect drains a sequence into a non-nil slice.
func Collect(seq iter.Seq[string]) []string {
	out := make([]string, 0)
	for s := range seq {
		out = append(out, s)
	}
	return out
}

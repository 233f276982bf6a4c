// Package lang provides a language registry mapping file extensions to
// tree-sitter languages and their structural predicates.
package lang

import (
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/wordstat/internal/model"
)

// Default is the language analyzed when none is requested.
const Default = "python"

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language

	// describe classifies a named node. Only Name, Kind and Context are
	// expected to be filled; position fields are set by the caller.
	describe func(node *sitter.Node, source []byte) model.Node
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Describe returns the structural view of node. Nodes that are neither an
// identifier reference nor a function definition come back as model.Other.
func (l *Language) Describe(node *sitter.Node, source []byte) model.Node {
	n := l.describe(node, source)
	n.Type = node.Type()
	n.Line = int(node.StartPoint().Row) + 1
	return n
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// Names returns the registered language names, sorted.
func Names() []string {
	names := make([]string, 0, len(Languages))
	for name := range Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// sameNode reports whether a and b cover the same span with the same type.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// isField reports whether node is the child stored under field of parent.
func isField(parent, node *sitter.Node, field string) bool {
	return sameNode(parent.ChildByFieldName(field), node)
}

// fieldText returns the text of parent's field child, or "".
func fieldText(parent *sitter.Node, field string, source []byte) string {
	child := parent.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return NodeText(child, source)
}

// reference builds an identifier node in the given context.
func reference(name string, ctx model.Context) model.Node {
	return model.Node{Kind: model.Identifier, Name: name, Context: ctx}
}

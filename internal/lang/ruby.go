package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/wordstat/internal/model"
)

func init() {
	Languages["ruby"] = &Language{
		Name:       "ruby",
		Extensions: []string{".rb"},
		lang:       ruby.GetLanguage(),
		describe:   rubyDescribe,
	}
}

var rubyParameterLists = map[string]struct{}{
	"method_parameters":      {},
	"lambda_parameters":      {},
	"block_parameters":       {},
	"splat_parameter":        {},
	"hash_splat_parameter":   {},
	"block_parameter":        {},
	"destructured_parameter": {},
}

func rubyDescribe(node *sitter.Node, source []byte) model.Node {
	switch node.Type() {
	case "method", "singleton_method":
		return model.Node{Kind: model.FunctionDefinition, Name: fieldText(node, "name", source)}
	case "identifier":
		return rubyIdentifier(node, source)
	}
	return model.Node{}
}

func rubyIdentifier(node *sitter.Node, source []byte) model.Node {
	name := NodeText(node, source)
	parent := node.Parent()
	if parent == nil {
		return reference(name, model.Load)
	}

	if _, ok := rubyParameterLists[parent.Type()]; ok {
		return model.Node{}
	}

	switch parent.Type() {
	case "method", "singleton_method":
		if isField(parent, node, "name") {
			return model.Node{}
		}
	case "optional_parameter", "keyword_parameter":
		if isField(parent, node, "name") {
			return model.Node{}
		}
	case "call":
		if isField(parent, node, "method") {
			return model.Node{}
		}
	case "assignment", "operator_assignment":
		if isField(parent, node, "left") {
			return reference(name, model.Store)
		}
	case "left_assignment_list", "rest_assignment", "destructured_left_assignment":
		return reference(name, model.Store)
	case "for":
		if isField(parent, node, "pattern") {
			return reference(name, model.Store)
		}
	}
	return reference(name, model.Load)
}

package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/wordstat/internal/model"
)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py"},
		lang:       python.GetLanguage(),
		describe:   pythonDescribe,
	}
}

// pythonParameterLists are the node types whose direct identifier children
// declare parameters rather than reference names.
var pythonParameterLists = map[string]struct{}{
	"parameters":        {},
	"lambda_parameters": {},
	"typed_parameter":   {},
}

// pythonNameless are the node types whose identifier children are plain
// strings in the language model (module paths, scope declarations).
var pythonNameless = map[string]struct{}{
	"dotted_name":           {},
	"aliased_import":        {},
	"import_statement":      {},
	"import_from_statement": {},
	"global_statement":      {},
	"nonlocal_statement":    {},
}

func pythonDescribe(node *sitter.Node, source []byte) model.Node {
	switch node.Type() {
	case "function_definition":
		// async def is a separate definition kind and is not counted
		if first := node.Child(0); first != nil && first.Type() == "async" {
			return model.Node{}
		}
		return model.Node{Kind: model.FunctionDefinition, Name: fieldText(node, "name", source)}
	case "identifier":
		return pythonIdentifier(node, source)
	}
	return model.Node{}
}

func pythonIdentifier(node *sitter.Node, source []byte) model.Node {
	name := NodeText(node, source)
	parent := node.Parent()
	if parent == nil {
		return reference(name, model.Load)
	}

	switch parent.Type() {
	case "function_definition", "class_definition":
		if isField(parent, node, "name") {
			return model.Node{}
		}
	case "default_parameter", "typed_default_parameter":
		if isField(parent, node, "name") {
			return model.Node{}
		}
	case "list_splat_pattern", "dictionary_splat_pattern":
		if gp := parent.Parent(); gp != nil {
			if _, ok := pythonParameterLists[gp.Type()]; ok {
				return model.Node{}
			}
		}
	case "attribute":
		if isField(parent, node, "attribute") {
			return model.Node{}
		}
	case "keyword_argument":
		if isField(parent, node, "name") {
			return model.Node{}
		}
	case "except_clause":
		// Older grammars: except E as name
		if prev := node.PrevSibling(); prev != nil && prev.Type() == "as" {
			return model.Node{}
		}
	case "as_pattern_target":
		if pythonInExceptClause(parent) {
			return model.Node{}
		}
		return reference(name, model.Store)
	}
	if _, ok := pythonParameterLists[parent.Type()]; ok {
		return model.Node{}
	}
	if _, ok := pythonNameless[parent.Type()]; ok {
		return model.Node{}
	}

	if pythonIsTarget(node) {
		return reference(name, model.Store)
	}
	return reference(name, model.Load)
}

// pythonIsTarget reports whether node sits in a binding position: the left
// side of an assignment, a loop or comprehension target, a walrus name or a
// with-item alias. Unpacking patterns are looked through, and so are tuple
// and list expressions, which the grammar uses for `with ... as (a, b)`.
func pythonIsTarget(node *sitter.Node) bool {
	current := node
	for {
		parent := current.Parent()
		if parent == nil {
			return false
		}
		switch parent.Type() {
		case "pattern_list", "tuple_pattern", "list_pattern", "list_splat_pattern",
			"tuple", "list", "parenthesized_expression", "list_splat":
			current = parent
		case "assignment", "augmented_assignment", "for_statement", "for_in_clause":
			return isField(parent, current, "left")
		case "named_expression":
			return isField(parent, current, "name")
		case "as_pattern_target":
			return !pythonInExceptClause(parent)
		default:
			return false
		}
	}
}

func pythonInExceptClause(target *sitter.Node) bool {
	asPattern := target.Parent()
	if asPattern == nil {
		return false
	}
	clause := asPattern.Parent()
	if clause == nil {
		return false
	}
	return clause.Type() == "except_clause" || clause.Type() == "except_group_clause"
}

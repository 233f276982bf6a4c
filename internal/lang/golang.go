package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/wordstat/internal/model"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		describe:   goDescribe,
	}
}

func goDescribe(node *sitter.Node, source []byte) model.Node {
	switch node.Type() {
	case "function_declaration", "method_declaration":
		// method names are field_identifier nodes, so they never show up as references
		return model.Node{Kind: model.FunctionDefinition, Name: fieldText(node, "name", source)}
	case "identifier":
		return goIdentifier(node, source)
	}
	return model.Node{}
}

func goIdentifier(node *sitter.Node, source []byte) model.Node {
	name := NodeText(node, source)
	parent := node.Parent()
	if parent == nil {
		return reference(name, model.Load)
	}

	switch parent.Type() {
	case "function_declaration":
		if isField(parent, node, "name") {
			return model.Node{}
		}
	case "parameter_declaration", "variadic_parameter_declaration":
		// types are type_identifier nodes; any identifier here is a parameter name
		return model.Node{}
	case "var_spec", "const_spec":
		// names are direct children, values sit under an expression_list
		return reference(name, model.Store)
	case "expression_list":
		if goIsAssignmentLeft(parent) {
			return reference(name, model.Store)
		}
	case "short_var_declaration", "assignment_statement", "range_clause":
		if isField(parent, node, "left") {
			return reference(name, model.Store)
		}
	}
	return reference(name, model.Load)
}

// goIsAssignmentLeft reports whether list is the left side of a binding statement.
func goIsAssignmentLeft(list *sitter.Node) bool {
	stmt := list.Parent()
	if stmt == nil {
		return false
	}
	switch stmt.Type() {
	case "short_var_declaration", "assignment_statement", "range_clause":
		return isField(stmt, list, "left")
	}
	return false
}

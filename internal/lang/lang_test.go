package lang

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/wordstat/internal/model"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".py", "python"},
		{".go", "go"},
		{".rb", "ruby"},
		{".js", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ForExtension(tt.ext))
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"go", "python", "ruby"}, Names())
	for _, name := range Names() {
		l := Languages[name]
		require.NotNil(t, l.NewParser(), name)
	}
}

// describeAll parses source and returns the identifier and function nodes
// in document order.
func describeAll(t *testing.T, langName, source string) []model.Node {
	t.Helper()
	l := Languages[langName]
	require.NotNil(t, l)

	src := []byte(source)
	tree, err := l.NewParser().ParseCtx(context.Background(), nil, src)
	require.NoError(t, err)
	defer tree.Close()

	var nodes []model.Node
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.IsNamed() {
			if d := l.Describe(n, src); d.Kind != model.Other {
				nodes = append(nodes, d)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			visit(n.Child(i))
		}
	}
	visit(tree.RootNode())
	return nodes
}

func refs(nodes []model.Node, ctx model.Context) []string {
	var out []string
	for _, n := range nodes {
		if n.Kind == model.Identifier && n.Context == ctx {
			out = append(out, n.Name)
		}
	}
	return out
}

func funcs(nodes []model.Node) []string {
	var out []string
	for _, n := range nodes {
		if n.Kind == model.FunctionDefinition {
			out = append(out, n.Name)
		}
	}
	return out
}

func TestPythonDescribe(t *testing.T) {
	t.Parallel()

	source := `import os
from pathlib import Path as P

def load_user(user_id, *args, retries=3, **kwargs):
    user_name = fetch(user_id)
    total, count = 0, 1
    for item in items:
        total += item.value
    return user_name

async def poll():
    pass

class Repo:
    def __init__(self):
        self.path = os.getcwd()
`
	nodes := describeAll(t, "python", source)

	assert.Equal(t, []string{"load_user", "__init__"}, funcs(nodes))
	assert.ElementsMatch(t, []string{"user_name", "total", "count", "item", "total"}, refs(nodes, model.Store))

	loads := refs(nodes, model.Load)
	assert.Contains(t, loads, "fetch")
	assert.Contains(t, loads, "items")
	assert.Contains(t, loads, "self")
	assert.NotContains(t, loads, "value", "attribute names are not references")
	assert.NotContains(t, loads, "retries", "parameters are not references")
	assert.NotContains(t, loads, "Path", "import names are not references")
	assert.NotContains(t, loads, "Repo", "class names are not references")
}

func TestPythonDescribeWithAndWalrus(t *testing.T) {
	t.Parallel()

	source := `with open(p) as handle:
    if (line := handle.readline()):
        pass
try:
    pass
except ValueError as err:
    pass
`
	nodes := describeAll(t, "python", source)
	stores := refs(nodes, model.Store)
	assert.Contains(t, stores, "handle")
	assert.Contains(t, stores, "line")
	assert.NotContains(t, stores, "err")
	assert.NotContains(t, refs(nodes, model.Load), "err")
}

func TestPythonDescribeWithTupleTarget(t *testing.T) {
	t.Parallel()

	source := `with pair() as (first, [second, *rest]):
    total = (first, second)
`
	nodes := describeAll(t, "python", source)
	assert.ElementsMatch(t, []string{"first", "second", "rest", "total"}, refs(nodes, model.Store))
	assert.ElementsMatch(t, []string{"pair", "first", "second"}, refs(nodes, model.Load))
}

func TestGoDescribe(t *testing.T) {
	t.Parallel()

	source := `package main

var limit = 10

func fetchData(id int) (string, error) {
	result := lookup(id)
	for key, value := range cache {
		result = key + value
	}
	return result, nil
}

func (s *Store) Save() {}
`
	nodes := describeAll(t, "go", source)

	assert.Equal(t, []string{"fetchData", "Save"}, funcs(nodes))
	stores := refs(nodes, model.Store)
	assert.ElementsMatch(t, []string{"limit", "result", "key", "value", "result"}, stores)
	var ids int
	for _, name := range refs(nodes, model.Load) {
		if name == "id" {
			ids++
		}
	}
	assert.Equal(t, 1, ids, "parameter declarations are not references")
}

func TestRubyDescribe(t *testing.T) {
	t.Parallel()

	source := `def send_mail(to, subject = nil)
  body = render(subject)
  deliver(to, body)
end
`
	nodes := describeAll(t, "ruby", source)
	assert.Equal(t, []string{"send_mail"}, funcs(nodes))
	assert.Contains(t, refs(nodes, model.Store), "body")
}

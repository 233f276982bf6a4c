package syntax

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/wordstat/internal/lang"
	"github.com/phobologic/wordstat/internal/model"
)

// Tree is one successfully parsed source file. It is never mutated after
// construction.
type Tree struct {
	Path     string
	Language *lang.Language

	source []byte
	tree   *sitter.Tree

	// the binding caches node wrappers per tree without locking
	mu sync.Mutex
}

// Source returns the file content the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// flatten walks the tree breadth-first and describes every named node.
func (t *Tree) flatten() []model.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tree == nil {
		return nil
	}

	var nodes []model.Node
	queue := []*sitter.Node{t.tree.RootNode()}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		d := t.Language.Describe(n, t.source)
		d.File = t.Path
		nodes = append(nodes, d)

		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child != nil {
				queue = append(queue, child)
			}
		}
	}
	return nodes
}

func (t *Tree) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

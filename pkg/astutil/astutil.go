// Package astutil provides small tree-sitter node helpers shared by the
// resolver and the hasher.
package astutil

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docref/docref/pkg/grammar"
)

// MaxTreeDepth bounds recursion when walking a tree; it exists to keep a
// pathological input from blowing the stack rather than to model any real
// grammar's nesting depth.
const MaxTreeDepth = 1000

// Parse parses source with the grammar for lang and returns the tree. The
// caller owns the returned tree and must call Close when done with it and
// with any node content sliced from it.
func Parse(ctx context.Context, lang grammar.Language, source []byte) (*sitter.Tree, error) {
	parser := grammar.NewParser(lang)
	return parser.ParseCtx(ctx, nil, source)
}

// NodeText returns the source text spanned by node.
func NodeText(node *sitter.Node, source []byte) string {
	return node.Content(source)
}

// FindChildByType returns the first direct child with the given node type,
// or nil if none exists.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// FindChildrenByType returns every direct child with the given node type.
func FindChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			out = append(out, child)
		}
	}
	return out
}

// FieldOrNil returns node's named field, or nil if the grammar didn't
// populate it for this production.
func FieldOrNil(node *sitter.Node, field string) *sitter.Node {
	child := node.ChildByFieldName(field)
	return child
}

// Walk visits every node in the tree rooted at node, depth first in
// syntactic order. The visitor returns false to skip descending into a
// node's children.
func Walk(node *sitter.Node, visitor func(*sitter.Node) bool) {
	walk(node, visitor, 0)
}

func walk(node *sitter.Node, visitor func(*sitter.Node) bool, depth int) {
	if node == nil || depth > MaxTreeDepth {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walk(node.Child(i), visitor, depth+1)
	}
}

// Leaves returns every leaf node (no children) under node, depth first in
// syntactic order.
func Leaves(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	Walk(node, func(n *sitter.Node) bool {
		if n.ChildCount() == 0 {
			out = append(out, n)
		}
		return true
	})
	return out
}

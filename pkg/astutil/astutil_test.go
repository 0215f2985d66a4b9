package astutil

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docref/docref/pkg/grammar"
)

func TestParseAndWalk_VisitsEveryNode(t *testing.T) {
	ctx := context.Background()
	src := []byte("package lib\n\nfunc add(x int) int {\n\treturn x\n}\n")

	tree, err := Parse(ctx, grammar.Go, src)
	require.NoError(t, err)
	defer tree.Close()

	count := 0
	Walk(tree.RootNode(), func(n *sitter.Node) bool {
		count++
		return true
	})
	assert.Greater(t, count, 0)
}

func TestFindChildByType_ReturnsFirstMatch(t *testing.T) {
	ctx := context.Background()
	src := []byte("package lib\n\nconst A = 1\n")

	tree, err := Parse(ctx, grammar.Go, src)
	require.NoError(t, err)
	defer tree.Close()

	decl := FindChildByType(tree.RootNode(), "const_declaration")
	require.NotNil(t, decl)
	assert.Equal(t, "const_declaration", decl.Type())
}

func TestLeaves_SkipsNonLeafNodes(t *testing.T) {
	ctx := context.Background()
	src := []byte("package lib\n\nconst A = 1\n")

	tree, err := Parse(ctx, grammar.Go, src)
	require.NoError(t, err)
	defer tree.Close()

	for _, leaf := range Leaves(tree.RootNode()) {
		assert.Equal(t, uint32(0), leaf.ChildCount())
	}
}

package hasher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/resolver"
)

func TestHashSymbol_InvariantUnderWhitespaceAndComments(t *testing.T) {
	ctx := context.Background()
	src1 := []byte(`package lib

func add(x int, y int) int {
	return x + y
}
`)
	src2 := []byte(`package lib

// add sums two ints.
func add( x int , y int ) int {
	// sum them
	return x  +  y
}
`)

	decls1, err := resolver.Declarations(ctx, "a.go", src1, grammar.Go)
	require.NoError(t, err)
	decls2, err := resolver.Declarations(ctx, "b.go", src2, grammar.Go)
	require.NoError(t, err)

	sym1 := resolver.ResolvedSymbol{Start: decls1[0].Start, End: decls1[0].End}
	sym2 := resolver.ResolvedSymbol{Start: decls2[0].Start, End: decls2[0].End}

	h1, err := HashSymbol(ctx, src1, grammar.Go, sym1)
	require.NoError(t, err)
	h2, err := HashSymbol(ctx, src2, grammar.Go, sym2)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestHashSymbol_ChangesOnIdentifierRename(t *testing.T) {
	ctx := context.Background()
	src1 := []byte("package lib\n\nfunc add(x int) int {\n\treturn x\n}\n")
	src2 := []byte("package lib\n\nfunc add(y int) int {\n\treturn y\n}\n")

	decls1, err := resolver.Declarations(ctx, "a.go", src1, grammar.Go)
	require.NoError(t, err)
	decls2, err := resolver.Declarations(ctx, "b.go", src2, grammar.Go)
	require.NoError(t, err)

	h1, err := HashSymbol(ctx, src1, grammar.Go, resolver.ResolvedSymbol{Start: decls1[0].Start, End: decls1[0].End})
	require.NoError(t, err)
	h2, err := HashSymbol(ctx, src2, grammar.Go, resolver.ResolvedSymbol{Start: decls2[0].Start, End: decls2[0].End})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHashSymbol_ProducesLowercaseHex64(t *testing.T) {
	ctx := context.Background()
	src := []byte("package lib\n\nconst A = 1\n")
	decls, err := resolver.Declarations(ctx, "a.go", src, grammar.Go)
	require.NoError(t, err)

	h, err := HashSymbol(ctx, src, grammar.Go, resolver.ResolvedSymbol{Start: decls[0].Start, End: decls[0].End})
	require.NoError(t, err)
	assert.Len(t, string(h), 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", string(h))
}

func TestHashFile_WholeFileMode(t *testing.T) {
	ctx := context.Background()
	src := []byte("package lib\n\nconst A = 1\n")
	h, err := HashFile(ctx, src, grammar.Go)
	require.NoError(t, err)
	assert.Len(t, string(h), 64)
}

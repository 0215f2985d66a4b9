package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docref/docref/pkg/config"
)

func TestParseSymbolQuery(t *testing.T) {
	assert.Equal(t, SymbolQuery{Kind: WholeFile}, ParseSymbolQuery(""))
	assert.Equal(t, SymbolQuery{Kind: Bare, Name: "add"}, ParseSymbolQuery("add"))
	assert.Equal(t, SymbolQuery{Kind: Scoped, Parent: "Config", Child: "validate"}, ParseSymbolQuery("Config.validate"))
}

func TestSymbolQuery_String(t *testing.T) {
	assert.Equal(t, "", SymbolQuery{Kind: WholeFile}.String())
	assert.Equal(t, "add", SymbolQuery{Kind: Bare, Name: "add"}.String())
	assert.Equal(t, "Config.validate", SymbolQuery{Kind: Scoped, Parent: "Config", Child: "validate"}.String())
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "a/c", NormalizePath("a/./b/../c"))
	assert.Equal(t, "../x", NormalizePath("../x"))
	assert.Equal(t, ".", NormalizePath("."))
}

func TestScan_ExtractsReferences(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "lib.rs"), []byte("const A: i32 = 10;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "guide.md"), []byte(
		"[A](../src/lib.rs#A)\n[add](../src/lib.rs#add)\n[site](https://example.com)\n",
	), 0o644))

	cfg := &config.Config{Root: root, Namespaces: map[string]config.NamespaceEntry{}}
	grouped, err := Scan(root, cfg)
	require.NoError(t, err)

	refs := grouped["src/lib.rs"]
	require.Len(t, refs, 2)
	assert.Equal(t, "docs/guide.md", refs[0].Source)
	assert.Equal(t, 1, refs[0].Line)
	assert.Equal(t, SymbolQuery{Kind: Bare, Name: "A"}, refs[0].Symbol)
}

func TestScan_SkipsExcludedPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "readme.md"), []byte("[x](y.rs)\n"), 0o644))

	cfg := &config.Config{Root: root, Namespaces: map[string]config.NamespaceEntry{}}
	grouped, err := Scan(root, cfg)
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

func TestScan_NamespacedTargetPreservedVerbatim(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "guide.md"), []byte("[greet](shared:src/lib.rs#greet)\n"), 0o644))

	cfg := &config.Config{Root: root, Namespaces: map[string]config.NamespaceEntry{}}
	grouped, err := Scan(root, cfg)
	require.NoError(t, err)
	assert.Contains(t, grouped, "shared:src/lib.rs")
}

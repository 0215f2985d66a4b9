package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docref/docref/pkg/docerr"
)

func TestLoad_MissingFileIncludesEverything(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	require.NoError(t, err)
	assert.True(t, cfg.InScope("anything/at/all.md"))
}

func TestLoad_IncludeExcludePrefixFilter(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
include = ["docs/"]
exclude = ["docs/internal/"]
`)
	cfg, err := Load(root)
	require.NoError(t, err)

	assert.True(t, cfg.InScope("docs/guide.md"))
	assert.False(t, cfg.InScope("docs/internal/notes.md"))
	assert.False(t, cfg.InScope("readme.md"))
}

func TestLoad_ExtendsInheritsNamespaces(t *testing.T) {
	parentDir := t.TempDir()
	writeConfig(t, parentDir, `
[namespaces]
shared = "packages/shared"
`)

	childDir := filepath.Join(parentDir, "sub")
	require.NoError(t, os.MkdirAll(childDir, 0o755))
	writeConfig(t, childDir, `
extends = "../.docref.toml"
`)

	cfg, err := Load(childDir)
	require.NoError(t, err)

	target, err := cfg.ResolveTarget("shared:src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "../packages/shared/src/lib.rs", target)
}

func TestLoad_ChildOverridesParentNamespace(t *testing.T) {
	parentDir := t.TempDir()
	writeConfig(t, parentDir, `
[namespaces]
shared = "packages/shared"
`)

	childDir := filepath.Join(parentDir, "sub")
	require.NoError(t, os.MkdirAll(childDir, 0o755))
	writeConfig(t, childDir, `
extends = "../.docref.toml"
[namespaces]
shared = "packages/shared-override"
`)

	cfg, err := Load(childDir)
	require.NoError(t, err)

	target, err := cfg.ResolveTarget("shared:x.rs")
	require.NoError(t, err)
	assert.Equal(t, "packages/shared-override/x.rs", target)
}

func TestLoad_CycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeConfigNamed(t, dir, "a.toml", `extends = "b.toml"`)
	writeConfigNamed(t, dir, "b.toml", `extends = "a.toml"`)

	_, err := load(dir, filepath.Join(dir, "a.toml"), nil)
	require.Error(t, err)
	de, ok := err.(*docerr.Error)
	require.True(t, ok)
	assert.Equal(t, docerr.ConfigCycleKind, de.Kind)
}

func TestResolveTarget_UnknownNamespace(t *testing.T) {
	cfg := &Config{Root: t.TempDir(), Namespaces: map[string]NamespaceEntry{}}
	_, err := cfg.ResolveTarget("missing:src/lib.rs")
	require.Error(t, err)
	de, ok := err.(*docerr.Error)
	require.True(t, ok)
	assert.Equal(t, docerr.UnknownNamespaceKind, de.Kind)
}

func TestResolveTarget_NoColonUnchanged(t *testing.T) {
	cfg := &Config{Root: t.TempDir(), Namespaces: map[string]NamespaceEntry{}}
	target, err := cfg.ResolveTarget("src/lib.rs")
	require.NoError(t, err)
	assert.Equal(t, "src/lib.rs", target)
}

func writeConfig(t *testing.T, dir, contents string) {
	t.Helper()
	writeConfigNamed(t, dir, FileName, contents)
}

func writeConfigNamed(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

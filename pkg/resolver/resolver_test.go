package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docref/docref/pkg/docerr"
	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/scanner"
)

func TestDeclarations_Go_TopLevelAndMembers(t *testing.T) {
	src := []byte(`package lib

const A int = 10

type Config struct {
	Host string
}

func (c *Config) Validate() bool {
	return c.Host != ""
}

type Greeter interface {
	Greet() string
}
`)
	decls, err := Declarations(context.Background(), "lib.go", src, grammar.Go)
	require.NoError(t, err)

	names := qualifiedNames(decls)
	assert.Contains(t, names, "A")
	assert.Contains(t, names, "Config")
	assert.Contains(t, names, "Config.Host")
	assert.Contains(t, names, "Config.Validate")
	assert.Contains(t, names, "Greeter.Greet")
}

func TestResolve_Go_BareAndScoped(t *testing.T) {
	src := []byte(`package lib

const A int = 10

func add(x int) int {
	return x + A
}
`)
	ctx := context.Background()
	_, err := Resolve(ctx, "lib.go", src, grammar.Go, scanner.SymbolQuery{Kind: scanner.Bare, Name: "A"})
	require.NoError(t, err)

	_, err = Resolve(ctx, "lib.go", src, grammar.Go, scanner.SymbolQuery{Kind: scanner.Bare, Name: "missing"})
	require.Error(t, err)
	de, ok := err.(*docerr.Error)
	require.True(t, ok)
	assert.Equal(t, docerr.SymbolNotFoundKind, de.Kind)
}

func TestDeclarations_Rust_StructImplAndEnum(t *testing.T) {
	src := []byte(`
struct Config {
    host: String,
}

impl Config {
    fn validate(&self) -> bool {
        !self.host.is_empty()
    }
}

enum Status {
    Ok,
    Err,
}
`)
	decls, err := Declarations(context.Background(), "lib.rs", src, grammar.Rust)
	require.NoError(t, err)

	names := qualifiedNames(decls)
	assert.Contains(t, names, "Config")
	assert.Contains(t, names, "Config.host")
	assert.Contains(t, names, "Config.validate")
	assert.Contains(t, names, "Status.Ok")
	assert.Contains(t, names, "Status.Err")
}

func TestDeclarations_Python_InitAttrsDeduped(t *testing.T) {
	src := []byte(`
class Widget:
    def __init__(self, flag):
        if flag:
            self.name = "a"
        else:
            self.name = "b"

    def render(self):
        return self.name
`)
	decls, err := Declarations(context.Background(), "widget.py", src, grammar.Python)
	require.NoError(t, err)

	names := qualifiedNames(decls)
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Widget.__init__")
	assert.Contains(t, names, "Widget.render")
	assert.Contains(t, names, "Widget.name")

	count := 0
	for _, n := range names {
		if n == "Widget.name" {
			count++
		}
	}
	assert.Equal(t, 1, count, "self.name assigned in two branches should dedupe to one declaration")
}

func TestDeclarations_TypeScript_ClassAndConst(t *testing.T) {
	src := []byte(`
export class Config {
    validate(): boolean {
        return true;
    }
}

export const timeout = 30;
`)
	decls, err := Declarations(context.Background(), "lib.ts", src, grammar.TypeScript)
	require.NoError(t, err)

	names := qualifiedNames(decls)
	assert.Contains(t, names, "Config")
	assert.Contains(t, names, "Config.validate")
	assert.Contains(t, names, "timeout")
}

func TestDeclarations_Markdown_HeadingsAndH1NoPrefix(t *testing.T) {
	src := []byte(`# Overview

## Foo

### Example

## Bar

### Example
`)
	decls, err := Declarations(context.Background(), "overview.md", src, grammar.Markdown)
	require.NoError(t, err)

	names := qualifiedNames(decls)
	assert.Contains(t, names, "overview")
	assert.Contains(t, names, "foo")
	assert.Contains(t, names, "bar")
	assert.Contains(t, names, "foo.example")
	assert.Contains(t, names, "bar.example")
}

func TestResolve_Markdown_AmbiguousThenScopedSucceeds(t *testing.T) {
	src := []byte(`# Overview

## Foo

### Example

## Bar

### Example
`)
	ctx := context.Background()
	_, err := Resolve(ctx, "overview.md", src, grammar.Markdown, scanner.SymbolQuery{Kind: scanner.Bare, Name: "example"})
	require.Error(t, err)
	de, ok := err.(*docerr.Error)
	require.True(t, ok)
	require.Equal(t, docerr.AmbiguousSymbolKind, de.Kind)
	assert.ElementsMatch(t, []string{"foo.example", "bar.example"}, de.Candidates)

	_, err = Resolve(ctx, "overview.md", src, grammar.Markdown, scanner.SymbolQuery{Kind: scanner.Scoped, Parent: "foo", Child: "example"})
	require.NoError(t, err)
}

func qualifiedNames(decls []Declaration) []string {
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.Qualified
	}
	return out
}

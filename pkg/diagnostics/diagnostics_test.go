package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docref/docref/pkg/docerr"
)

func TestRender_SymbolNotFound(t *testing.T) {
	err := docerr.SymbolNotFound("src/lib.rs", "missing", []string{"add", "sub"})
	out := Render(err)

	assert.Contains(t, out, "# Error: symbol_not_found")
	assert.Contains(t, out, "## Did you mean")
	assert.Contains(t, out, "`add`")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_AmbiguousSymbol(t *testing.T) {
	err := docerr.AmbiguousSymbol("docs/overview.md", "example", []string{"foo.example", "bar.example"})
	out := Render(err)

	assert.Contains(t, out, "## Candidates")
	assert.Contains(t, out, "foo.example")
}

func TestRender_GenericError(t *testing.T) {
	out := Render(errors.New("boom"))
	assert.Contains(t, out, "# Error")
	assert.Contains(t, out, "boom")
}

package docerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolNotFound_Message(t *testing.T) {
	err := SymbolNotFound("src/lib.rs", "missing", nil)
	assert.Equal(t, "symbol not found: `missing` in src/lib.rs", err.Error())
}

func TestAmbiguousSymbol_Message(t *testing.T) {
	err := AmbiguousSymbol("docs/overview.md", "example", []string{"foo.example", "bar.example"})
	assert.Equal(t, "ambiguous symbol: `example` in docs/overview.md, candidates: foo.example, bar.example", err.Error())
}

func TestAs_MatchesKind(t *testing.T) {
	err := FileNotFound("x.rs")
	de, ok := As(err, FileNotFoundKind)
	assert.True(t, ok)
	assert.Equal(t, "x.rs", de.File)

	_, ok = As(err, SymbolNotFoundKind)
	assert.False(t, ok)
}

func TestAs_RejectsNonDocErr(t *testing.T) {
	_, ok := As(errors.New("plain"), IOKind)
	assert.False(t, ok)
}

func TestIO_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := IO(cause)
	assert.ErrorIs(t, err, cause)
}

package lockfile

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docref/docref/pkg/docerr"
)

func sampleEntries() []Entry {
	return []Entry{
		{Source: "docs/a.md", Target: "src/lib.rs", Symbol: "add", Hash: "1"},
		{Source: "docs/a.md", Target: "src/lib.rs", Symbol: "A", Hash: "2"},
		{Source: "docs/b.md", Target: "src/lib.rs", Symbol: "", Hash: "3"},
	}
}

func TestNew_SortsAndDedupes(t *testing.T) {
	entries := append(sampleEntries(), sampleEntries()[0])
	lf := New(entries)
	require.Len(t, lf.Entries, 3)
	for i := 1; i < len(lf.Entries); i++ {
		assert.True(t, lf.Entries[i-1].Less(lf.Entries[i]))
	}
}

func TestNew_DedupesByKeyKeepingLast(t *testing.T) {
	entries := []Entry{
		{Source: "a.md", Target: "x.rs", Symbol: "f", Hash: "old"},
		{Source: "a.md", Target: "x.rs", Symbol: "f", Hash: "new"},
	}
	lf := New(entries)
	require.Len(t, lf.Entries, 1)
	assert.Equal(t, "new", lf.Entries[0].Hash)
}

func TestNew_IdempotentUnderShuffle(t *testing.T) {
	entries := sampleEntries()
	want := New(entries).Entries

	shuffled := append([]Entry(nil), entries...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	got := New(shuffled).Entries
	assert.Equal(t, want, got)
}

func TestSerializeParseRoundTrip(t *testing.T) {
	lf := New(sampleEntries())
	data, err := lf.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, lf.Entries, parsed.Entries)
}

func TestParse_RejectsOutOfOrder(t *testing.T) {
	raw := `
[[entries]]
source = "b.md"
target = "x"
symbol = ""
hash = "1"

[[entries]]
source = "a.md"
target = "x"
symbol = ""
hash = "2"
`
	_, err := Parse([]byte(raw))
	require.Error(t, err)
	de, ok := err.(*docerr.Error)
	require.True(t, ok)
	assert.Equal(t, docerr.LockfileCorruptKind, de.Kind)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), ".docref.lock"))
	require.Error(t, err)
	de, ok := err.(*docerr.Error)
	require.True(t, ok)
	assert.Equal(t, docerr.LockfileNotFoundKind, de.Kind)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	lf := New(sampleEntries())
	path := filepath.Join(t.TempDir(), ".docref.lock")
	require.NoError(t, lf.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "entries")

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, lf.Entries, got.Entries)
}

// Package lockfile persists docref's deterministic baseline as a
// pretty-printed TOML document.
package lockfile

import (
	"bytes"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/docref/docref/pkg/docerr"
)

// Entry is one tracked reference's baseline: source markdown path, target
// path in its original (possibly namespaced) form, the symbol query's
// serialized string, and the stored semantic hash.
type Entry struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
	Symbol string `toml:"symbol"`
	Hash   string `toml:"hash"`
}

// Less defines the lockfile's total order: lexicographic over
// (source, target, symbol).
func (e Entry) Less(other Entry) bool {
	if e.Source != other.Source {
		return e.Source < other.Source
	}
	if e.Target != other.Target {
		return e.Target < other.Target
	}
	return e.Symbol < other.Symbol
}

func (e Entry) equalKey(other Entry) bool {
	return e.Source == other.Source && e.Target == other.Target && e.Symbol == other.Symbol
}

// Lockfile is a strictly ascending, duplicate-free sequence of entries.
type Lockfile struct {
	Entries []Entry
}

type fileSchema struct {
	Entries []Entry `toml:"entries"`
}

// New sorts entries and deduplicates by (source, target, symbol), keeping
// the last occurrence for a given key so a later re-hash wins.
func New(entries []Entry) Lockfile {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	var deduped []Entry
	for _, e := range sorted {
		if len(deduped) > 0 && deduped[len(deduped)-1].equalKey(e) {
			deduped[len(deduped)-1] = e
			continue
		}
		deduped = append(deduped, e)
	}

	return Lockfile{Entries: deduped}
}

// Read loads a lockfile from path, rejecting anything not in strict
// ascending order as corrupt. A missing file yields LockfileNotFound.
func Read(path string) (Lockfile, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Lockfile{}, docerr.LockfileNotFound(path)
	}
	if err != nil {
		return Lockfile{}, docerr.IO(err)
	}
	return Parse(raw)
}

// Parse decodes a TOML lockfile document and enforces strict ascending
// order with no duplicates.
func Parse(raw []byte) (Lockfile, error) {
	var fs fileSchema
	if err := toml.Unmarshal(raw, &fs); err != nil {
		return Lockfile{}, docerr.TOML(err)
	}

	for i := 1; i < len(fs.Entries); i++ {
		prev, cur := fs.Entries[i-1], fs.Entries[i]
		if !prev.Less(cur) {
			return Lockfile{}, docerr.LockfileCorrupt("entries out of order or duplicated")
		}
	}

	return Lockfile{Entries: fs.Entries}, nil
}

// Serialize renders the lockfile as pretty-printed TOML.
func (l Lockfile) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(fileSchema{Entries: l.Entries}); err != nil {
		return nil, docerr.TOML(err)
	}
	return buf.Bytes(), nil
}

// Write serializes and writes the lockfile to path.
func (l Lockfile) Write(path string) error {
	data, err := l.Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return docerr.IO(err)
	}
	return nil
}

// Package scanner walks a docref scan root, finds Markdown files in scope,
// and extracts references from inline link syntax.
package scanner

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/docref/docref/pkg/config"
	"github.com/docref/docref/pkg/docerr"
)

// SymbolQueryKind tags how a reference's fragment names its target.
type SymbolQueryKind int

const (
	Bare SymbolQueryKind = iota
	Scoped
	WholeFile
)

// SymbolQuery is the parsed form of a reference's "#fragment".
type SymbolQuery struct {
	Kind   SymbolQueryKind
	Parent string
	Child  string
	Name   string
}

// String returns the textual serialization used in lockfiles and CLI args:
// "name" for Bare, "parent.child" for Scoped, "" for WholeFile.
func (q SymbolQuery) String() string {
	switch q.Kind {
	case Bare:
		return q.Name
	case Scoped:
		return q.Parent + "." + q.Child
	default:
		return ""
	}
}

// ParseSymbolQuery parses a fragment string into a SymbolQuery. An empty
// string is WholeFile; a string containing "." is Scoped on the first dot;
// otherwise Bare.
func ParseSymbolQuery(fragment string) SymbolQuery {
	if fragment == "" {
		return SymbolQuery{Kind: WholeFile}
	}
	if idx := strings.IndexByte(fragment, '.'); idx >= 0 {
		return SymbolQuery{Kind: Scoped, Parent: fragment[:idx], Child: fragment[idx+1:]}
	}
	return SymbolQuery{Kind: Bare, Name: fragment}
}

// Reference is a single extracted Markdown link.
type Reference struct {
	Source string
	Line   int
	Target string
	Symbol SymbolQuery
}

// linkPattern approximates [text](target(#symbol)?); it intentionally does
// not attempt full CommonMark link parsing.
var linkPattern = regexp.MustCompile(`\[[^\]]*\]\(([^)#]+)(?:#([^)]*))?\)`)

var skipDirNames = map[string]bool{
	".git": true, "node_modules": true, "vendor": true,
	"dist": true, "target": true, "__pycache__": true,
}

// skipDirGlobs supplements the bare-name match with doublestar patterns so
// a .docref.toml could plausibly extend this set with globs in the future;
// kept alongside skipDirNames per SPEC_FULL.md's scanner skip-glob note.
var skipDirGlobs = []string{"**/.git", "**/node_modules", "**/vendor", "**/dist", "**/target", "**/__pycache__"}

// Scan walks root for Markdown files in scope under cfg and extracts their
// references, grouped by normalized target path so callers can read each
// target file once.
func Scan(root string, cfg *config.Config) (map[string][]Reference, error) {
	grouped := map[string][]Reference{}

	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if shouldSkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(p) {
			return nil
		}
		if !cfg.InScope(rel) {
			return nil
		}

		refs, scanErr := scanFile(root, rel, p)
		if scanErr != nil {
			return scanErr
		}
		for _, ref := range refs {
			grouped[ref.Target] = append(grouped[ref.Target], ref)
		}
		return nil
	})
	if err != nil {
		return nil, docerr.IO(err)
	}

	return grouped, nil
}

func shouldSkipDir(rel string) bool {
	if rel == "." {
		return false
	}
	if skipDirNames[path.Base(rel)] {
		return true
	}
	for _, pattern := range skipDirGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isMarkdown(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	return ext == ".md" || ext == ".markdown"
}

func scanFile(root, relSource, absPath string) ([]Reference, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, docerr.IO(err)
	}
	defer f.Close()

	var refs []Reference
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
			rawTarget := strings.TrimSpace(m[1])
			rawFragment := m[2]

			if rawTarget == "" {
				continue
			}
			if strings.HasPrefix(rawTarget, "http://") || strings.HasPrefix(rawTarget, "https://") {
				continue
			}

			target := normalizeTarget(relSource, rawTarget)
			if target == "" {
				continue
			}

			refs = append(refs, Reference{
				Source: relSource,
				Line:   lineNo,
				Target: target,
				Symbol: ParseSymbolQuery(rawFragment),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, docerr.IO(err)
	}

	return refs, nil
}

// normalizeTarget resolves rawTarget relative to the Markdown file's
// directory, unless it carries a "ns:" prefix (preserved verbatim for
// later namespace resolution).
func normalizeTarget(relSource, rawTarget string) string {
	if strings.Contains(rawTarget, ":") {
		return rawTarget
	}

	dir := path.Dir(relSource)
	if dir == "." {
		return NormalizePath(rawTarget)
	}
	return NormalizePath(path.Join(dir, rawTarget))
}

// NormalizePath collapses "." and ".." components logically, without
// touching the filesystem, preserving a leading ".." when the component
// stack has nothing left to pop.
func NormalizePath(p string) string {
	p = filepath.ToSlash(p)
	parts := strings.Split(p, "/")
	var stack []string
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 && stack[len(stack)-1] != ".." {
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, "..")
			}
		default:
			stack = append(stack, part)
		}
	}
	if len(stack) == 0 {
		return "."
	}
	return strings.Join(stack, "/")
}

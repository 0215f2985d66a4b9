// Package fixengine repairs broken symbol references by substituting a
// unique close match for a removed or renamed symbol.
package fixengine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docref/docref/pkg/config"
	"github.com/docref/docref/pkg/docerr"
	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/resolver"
	"github.com/docref/docref/pkg/scanner"
)

// Action is a single planned substitution: in markdown file File, on
// 1-based Line, replace the symbol fragment Old with New.
type Action struct {
	File string
	Line int
	Old  string
	New  string
}

// Unfixable is a broken reference the engine could not confidently repair.
type Unfixable struct {
	File   string
	Line   int
	Symbol string
}

// Plan computes the set of fix actions and unfixable references across
// every target group produced by the scanner.
func Plan(ctx context.Context, root string, cfg *config.Config, grouped map[string][]scanner.Reference) ([]Action, []Unfixable, error) {
	var actions []Action
	var unfixable []Unfixable

	targets := make([]string, 0, len(grouped))
	for t := range grouped {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	for _, target := range targets {
		refs := grouped[target]

		diskPath, err := cfg.ResolveTarget(target)
		if err != nil {
			continue
		}
		source, err := os.ReadFile(filepath.Join(root, diskPath))
		if err != nil {
			continue
		}
		lang, err := grammar.ForPath(diskPath)
		if err != nil {
			continue
		}

		decls, err := resolver.Declarations(ctx, diskPath, source, lang)
		if err != nil {
			continue
		}

		for _, ref := range refs {
			if ref.Symbol.Kind == scanner.WholeFile {
				continue
			}
			symbolStr := ref.Symbol.String()
			if resolved(decls, symbolStr) {
				continue
			}

			match, ok := closestMatch(decls, symbolStr)
			if !ok {
				unfixable = append(unfixable, Unfixable{File: ref.Source, Line: ref.Line, Symbol: symbolStr})
				continue
			}
			actions = append(actions, Action{File: ref.Source, Line: ref.Line, Old: symbolStr, New: match})
		}
	}

	return actions, unfixable, nil
}

func resolved(decls []resolver.Declaration, symbol string) bool {
	for _, d := range decls {
		if d.Qualified == symbol || d.Name == symbol {
			return true
		}
	}
	return false
}

// closestMatch normalizes symbol and every declaration's qualified name by
// stripping generic arguments (everything between a matched '<' and '>' at
// depth 1) and looks for a unique equal match.
func closestMatch(decls []resolver.Declaration, symbol string) (string, bool) {
	target := stripGenerics(symbol)

	var match string
	count := 0
	for _, d := range decls {
		if stripGenerics(d.Qualified) == target {
			match = d.Qualified
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return "", false
}

func stripGenerics(s string) string {
	depth := 0
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Apply groups actions by Markdown file and rewrites each file once,
// replacing the literal substring "#old" with "#new" on affected lines.
// Applying a fix to a line where old is absent is a no-op.
func Apply(root string, actions []Action) error {
	byFile := map[string][]Action{}
	for _, a := range actions {
		byFile[a.File] = append(byFile[a.File], a)
	}

	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := applyToFile(filepath.Join(root, file), byFile[file]); err != nil {
			return err
		}
	}
	return nil
}

func applyToFile(path string, actions []Action) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return docerr.IO(err)
	}

	trailingNewline := strings.HasSuffix(string(data), "\n")
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

	for _, a := range actions {
		idx := a.Line - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		lines[idx] = strings.ReplaceAll(lines[idx], "#"+a.Old, "#"+a.New)
	}

	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return docerr.IO(err)
	}
	return nil
}

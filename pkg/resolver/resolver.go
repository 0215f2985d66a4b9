// Package resolver parses a source file into a flat declaration list and
// answers Bare / Scoped / WholeFile symbol queries against it.
package resolver

import (
	"context"

	"github.com/docref/docref/pkg/astutil"
	"github.com/docref/docref/pkg/docerr"
	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/scanner"
)

// MaxSourceBytes is the 16 MiB size cap the resolver enforces on every
// source file it parses.
const MaxSourceBytes = 16 * 1024 * 1024

// Declaration is a resolver-internal record of one named syntactic
// construct: its short name, its fully qualified name, and its byte range
// in the source it was extracted from. Declarations are never persisted;
// they own no reference into the parse tree that produced them.
type Declaration struct {
	Name      string
	Qualified string
	Start     uint32
	End       uint32
}

// ResolvedSymbol is a half-open byte range into a source file, guaranteed
// by construction to satisfy 0 <= Start <= End <= len(source).
type ResolvedSymbol struct {
	Start uint32
	End   uint32
}

// CheckSize enforces the 16 MiB source cap. Declarations applies it before
// parsing; whole-file hashing does not go through it.
func CheckSize(path string, size int) error {
	if size > MaxSourceBytes {
		return docerr.FileTooLarge(path, uint64(size), uint64(MaxSourceBytes))
	}
	return nil
}

// Declarations parses source with lang and returns its flat declaration
// list in tree-traversal order.
func Declarations(ctx context.Context, path string, source []byte, lang grammar.Language) ([]Declaration, error) {
	if err := CheckSize(path, len(source)); err != nil {
		return nil, err
	}

	if lang == grammar.Markdown {
		return markdownDeclarations(source)
	}

	tree, err := astutil.Parse(ctx, lang, source)
	if err != nil {
		return nil, docerr.ParseFailed(path, err.Error())
	}
	defer tree.Close()

	root := tree.RootNode()
	switch lang {
	case grammar.Rust:
		return rustDeclarations(root, source), nil
	case grammar.TypeScript, grammar.TSX:
		return tsDeclarations(root, source), nil
	case grammar.Go:
		return goDeclarations(root, source), nil
	case grammar.Python:
		return pyDeclarations(root, source), nil
	default:
		return nil, docerr.ParseFailed(path, "no declaration extractor for this grammar")
	}
}

// Resolve parses source and resolves query against its declarations.
// WholeFile queries never reach here; callers hash the entire source
// instead.
func Resolve(ctx context.Context, path string, source []byte, lang grammar.Language, query scanner.SymbolQuery) (ResolvedSymbol, error) {
	decls, err := Declarations(ctx, path, source, lang)
	if err != nil {
		return ResolvedSymbol{}, err
	}
	return resolveAgainst(path, decls, query)
}

func resolveAgainst(path string, decls []Declaration, query scanner.SymbolQuery) (ResolvedSymbol, error) {
	switch query.Kind {
	case scanner.Bare:
		var matches []Declaration
		for _, d := range decls {
			if d.Name == query.Name {
				matches = append(matches, d)
			}
		}
		switch len(matches) {
		case 0:
			return ResolvedSymbol{}, docerr.SymbolNotFound(path, query.Name, suggestions(decls))
		case 1:
			return ResolvedSymbol{Start: matches[0].Start, End: matches[0].End}, nil
		default:
			var candidates []string
			for _, m := range matches {
				candidates = append(candidates, m.Qualified)
			}
			return ResolvedSymbol{}, docerr.AmbiguousSymbol(path, query.Name, candidates)
		}

	case scanner.Scoped:
		qualified := query.Parent + "." + query.Child
		for _, d := range decls {
			if d.Qualified == qualified {
				return ResolvedSymbol{Start: d.Start, End: d.End}, nil
			}
		}
		return ResolvedSymbol{}, docerr.SymbolNotFound(path, qualified, suggestions(decls))

	default: // WholeFile
		return ResolvedSymbol{}, nil
	}
}

// suggestions returns up to ten candidate qualified names, in declaration
// order, for a SymbolNotFound diagnostic.
func suggestions(decls []Declaration) []string {
	n := len(decls)
	if n > 10 {
		n = 10
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, decls[i].Qualified)
	}
	return out
}

// ListSymbols returns every declaration in source, for the `resolve
// <file>` CLI listing.
func ListSymbols(ctx context.Context, path string, source []byte, lang grammar.Language) ([]Declaration, error) {
	return Declarations(ctx, path, source, lang)
}

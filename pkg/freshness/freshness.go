// Package freshness compares stored lockfile baselines against recomputed
// hashes and drives the batch re-hash pipeline used by init.
package freshness

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docref/docref/pkg/config"
	"github.com/docref/docref/pkg/docerr"
	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/hasher"
	"github.com/docref/docref/pkg/lockfile"
	"github.com/docref/docref/pkg/resolver"
	"github.com/docref/docref/pkg/scanner"
)

// ResultKind is the three-way classification of one reference's freshness.
type ResultKind int

const (
	Fresh ResultKind = iota
	Stale
	Broken
)

// Result is the outcome of comparing one lockfile entry against current
// source. Reason is populated only when Kind is Broken.
type Result struct {
	Kind   ResultKind
	Reason string
}

// Compare re-resolves and re-hashes entry against root/cfg, folding the
// expected failure modes (unknown namespace, file not found, unsupported
// language, symbol removed) into Broken instead of propagating them.
func Compare(ctx context.Context, root string, cfg *config.Config, entry lockfile.Entry) (Result, error) {
	diskPath, err := cfg.ResolveTarget(entry.Target)
	if err != nil {
		if de, ok := err.(*docerr.Error); ok && de.Kind == docerr.UnknownNamespaceKind {
			return Result{Kind: Broken, Reason: "unknown namespace"}, nil
		}
		return Result{}, err
	}

	source, err := os.ReadFile(filepath.Join(root, diskPath))
	if err != nil {
		return Result{Kind: Broken, Reason: "file not found"}, nil
	}

	lang, err := grammar.ForPath(diskPath)
	if err != nil {
		return Result{Kind: Broken, Reason: "unsupported language"}, nil
	}

	newHash, err := computeHash(ctx, diskPath, source, lang, entry.Symbol)
	if err != nil {
		if de, ok := err.(*docerr.Error); ok && de.Kind == docerr.SymbolNotFoundKind {
			return Result{Kind: Broken, Reason: "symbol removed"}, nil
		}
		return Result{}, err
	}

	if string(newHash) == entry.Hash {
		return Result{Kind: Fresh}, nil
	}
	return Result{Kind: Stale}, nil
}

func computeHash(ctx context.Context, path string, source []byte, lang grammar.Language, symbol string) (hasher.SemanticHash, error) {
	if symbol == "" {
		return hasher.HashFile(ctx, source, lang)
	}

	query := scanner.ParseSymbolQuery(symbol)
	resolved, err := resolver.Resolve(ctx, path, source, lang, query)
	if err != nil {
		return "", err
	}
	return hasher.HashSymbol(ctx, source, lang, resolved)
}

// ResolveAndHashAll reads each target in grouped once and emits a LockEntry
// per reference. Each reference is resolved and hashed on its own, so the
// target source is re-parsed for every reference in the group rather than
// once per target. On symbol-not-found, the error is enriched with
// SourceRefs for every reference whose symbol matches the missing name
// before it propagates, so init failures point back at the Markdown.
func ResolveAndHashAll(ctx context.Context, root string, cfg *config.Config, grouped map[string][]scanner.Reference) ([]lockfile.Entry, error) {
	var entries []lockfile.Entry

	targets := make([]string, 0, len(grouped))
	for t := range grouped {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	for _, target := range targets {
		refs := grouped[target]

		diskPath, err := cfg.ResolveTarget(target)
		if err != nil {
			return nil, err
		}

		source, err := os.ReadFile(filepath.Join(root, diskPath))
		if err != nil {
			return nil, docerr.FileNotFound(diskPath)
		}

		lang, err := grammar.ForPath(diskPath)
		if err != nil {
			return nil, err
		}

		for _, ref := range refs {
			symbolStr := ref.Symbol.String()
			hash, err := computeHash(ctx, diskPath, source, lang, symbolStr)
			if err != nil {
				if de, ok := err.(*docerr.Error); ok && de.Kind == docerr.SymbolNotFoundKind {
					de.ReferencedFrom = enrichSourceRefs(grouped, target, symbolStr, root)
				}
				return nil, err
			}

			entries = append(entries, lockfile.Entry{
				Source: ref.Source,
				Target: target,
				Symbol: symbolStr,
				Hash:   string(hash),
			})
		}
	}

	return entries, nil
}

func enrichSourceRefs(grouped map[string][]scanner.Reference, target, symbol, root string) []docerr.SourceRef {
	var out []docerr.SourceRef
	for _, ref := range grouped[target] {
		if ref.Symbol.String() != symbol {
			continue
		}
		text, _ := readLine(filepath.Join(root, ref.Source), ref.Line)
		out = append(out, docerr.SourceRef{File: ref.Source, Line: ref.Line, Text: text})
	}
	return out
}

func readLine(path string, lineNo int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	n := 0
	start := 0
	for i, b := range data {
		if b == '\n' {
			n++
			if n == lineNo {
				return trimLine(string(data[start:i])), nil
			}
			start = i + 1
		}
	}
	if n+1 == lineNo {
		return trimLine(string(data[start:])), nil
	}
	return "", nil
}

func trimLine(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\r"))
}

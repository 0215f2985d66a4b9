// Package docref orchestrates the core pipeline into the operations the
// CLI exposes: init, check, status, resolve, update, fix, and refs. Every
// function takes the scan root as an explicit parameter and never
// hard-codes the current directory, so the thin CLI front-end owns that
// decision.
package docref

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docref/docref/pkg/config"
	"github.com/docref/docref/pkg/docerr"
	"github.com/docref/docref/pkg/fixengine"
	"github.com/docref/docref/pkg/freshness"
	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/hasher"
	"github.com/docref/docref/pkg/lockfile"
	"github.com/docref/docref/pkg/resolver"
	"github.com/docref/docref/pkg/scanner"
)

// Exit codes shared by check and status.
const (
	ExitFresh   = 0
	ExitStale   = 1
	ExitBroken  = 2
	ExitRuntime = 3
)

func lockPath(root string) string { return filepath.Join(root, ".docref.lock") }

// Init scans root, resolves and hashes every reference, and writes the
// lockfile. A broken reference at baseline time is a fatal user error; all
// errors propagate.
func Init(ctx context.Context, root string, out io.Writer, logger *slog.Logger) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	grouped, err := scanner.Scan(root, cfg)
	if err != nil {
		return err
	}

	entries, err := freshness.ResolveAndHashAll(ctx, root, cfg, grouped)
	if err != nil {
		return err
	}

	lf := lockfile.New(entries)
	if err := lf.Write(lockPath(root)); err != nil {
		return err
	}

	logger.Info("wrote lockfile", "count", len(lf.Entries))
	fmt.Fprintf(out, "Wrote %d references to .docref.lock\n", len(lf.Entries))
	return nil
}

// Check compares every lockfile entry against current source and reports
// stale and broken references. Exit code priority: broken (2) > stale (1)
// > fresh (0); any other error is a runtime failure (3).
func Check(ctx context.Context, root string, out io.Writer) (int, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return ExitRuntime, err
	}
	lf, err := lockfile.Read(lockPath(root))
	if err != nil {
		return ExitRuntime, err
	}

	var staleRefs []string
	brokenCount := 0

	for _, entry := range lf.Entries {
		result, err := freshness.Compare(ctx, root, cfg, entry)
		if err != nil {
			return ExitRuntime, err
		}
		ref := entry.Target + "#" + entry.Symbol

		switch result.Kind {
		case freshness.Fresh:
		case freshness.Stale:
			fmt.Fprintf(out, "STALE   %s\n", ref)
			staleRefs = append(staleRefs, ref)
		case freshness.Broken:
			brokenCount++
			fmt.Fprintf(out, "BROKEN  %s (%s)\n", ref, result.Reason)
		}
	}

	switch {
	case brokenCount > 0:
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%d broken, %d stale\n", brokenCount, len(staleRefs))
		return ExitBroken, nil
	case len(staleRefs) > 0:
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%d stale\n", len(staleRefs))
		printUpdateHints(out, staleRefs)
		return ExitStale, nil
	default:
		fmt.Fprintf(out, "All %d references fresh\n", len(lf.Entries))
		return ExitFresh, nil
	}
}

func printUpdateHints(out io.Writer, staleRefs []string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "hint: run `docref update <ref>` to accept changes:")
	for _, r := range staleRefs {
		fmt.Fprintf(out, "  docref update %s\n", r)
	}
}

// Status lists every tracked reference with its current freshness label.
// It fails if the lockfile or config cannot be loaded, or if comparing an
// entry returns an error that Compare does not fold into Broken.
func Status(ctx context.Context, root string, out io.Writer) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	lf, err := lockfile.Read(lockPath(root))
	if err != nil {
		return err
	}

	for _, entry := range lf.Entries {
		result, err := freshness.Compare(ctx, root, cfg, entry)
		if err != nil {
			return err
		}
		ref := entry.Target + "#" + entry.Symbol

		switch result.Kind {
		case freshness.Fresh:
			fmt.Fprintf(out, "FRESH   %s\n", ref)
		case freshness.Stale:
			fmt.Fprintf(out, "STALE   %s\n", ref)
		case freshness.Broken:
			fmt.Fprintf(out, "BROKEN  %s (%s)\n", ref, result.Reason)
		}
	}
	return nil
}

// Resolve lists every symbol in file when symbol is empty, or validates a
// specific symbol against it.
func Resolve(ctx context.Context, file string, symbol string, out io.Writer) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return docerr.FileNotFound(file)
	}
	lang, err := grammar.ForPath(file)
	if err != nil {
		return err
	}

	if symbol == "" {
		decls, err := resolver.ListSymbols(ctx, file, source, lang)
		if err != nil {
			return err
		}
		for _, d := range decls {
			fmt.Fprintf(out, "%s#%s\n", file, d.Name)
		}
		return nil
	}

	query := scanner.ParseSymbolQuery(symbol)
	if _, err := resolver.Resolve(ctx, file, source, lang, query); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s#%s\n", file, symbol)
	return nil
}

// Update re-hashes one "file#symbol" reference (or "file" for whole-file)
// and writes the updated lockfile.
func Update(ctx context.Context, root, reference string, out io.Writer) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	file, symbol, err := splitReference(reference)
	if err != nil {
		return err
	}

	lf, err := lockfile.Read(lockPath(root))
	if err != nil {
		return err
	}

	newHash, err := rehashOne(ctx, root, cfg, file, symbol)
	if err != nil {
		return err
	}

	updated := false
	for i, entry := range lf.Entries {
		if entry.Target == file && entry.Symbol == symbol {
			lf.Entries[i].Hash = string(newHash)
			updated = true
		}
	}
	if !updated {
		return docerr.SymbolNotFound(file, symbol, nil)
	}

	if err := lf.Write(lockPath(root)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %s#%s\n", file, symbol)
	return nil
}

// UpdateFile re-hashes every reference originating from sourceFile,
// grouping by target so each target is read once; each reference is still
// resolved and hashed separately.
func UpdateFile(ctx context.Context, root, sourceFile string, out io.Writer) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	lf, err := lockfile.Read(lockPath(root))
	if err != nil {
		return err
	}

	var matching []int
	for i, e := range lf.Entries {
		if e.Source == sourceFile {
			matching = append(matching, i)
		}
	}
	if len(matching) == 0 {
		return docerr.FileNotFound(sourceFile)
	}

	byTarget := map[string][]int{}
	for _, idx := range matching {
		t := lf.Entries[idx].Target
		byTarget[t] = append(byTarget[t], idx)
	}

	targets := make([]string, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	for _, target := range targets {
		diskPath, err := cfg.ResolveTarget(target)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(filepath.Join(root, diskPath))
		if err != nil {
			return docerr.FileNotFound(diskPath)
		}
		lang, err := grammar.ForPath(diskPath)
		if err != nil {
			return err
		}

		for _, idx := range byTarget[target] {
			symbol := lf.Entries[idx].Symbol
			hash, err := hashSymbolOrFile(ctx, diskPath, source, lang, symbol)
			if err != nil {
				return err
			}
			lf.Entries[idx].Hash = string(hash)
		}
	}

	if err := lf.Write(lockPath(root)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %d references from %s\n", len(matching), sourceFile)
	return nil
}

// UpdateAll re-hashes every lockfile entry.
func UpdateAll(ctx context.Context, root string, out io.Writer) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	lf, err := lockfile.Read(lockPath(root))
	if err != nil {
		return err
	}

	for i, entry := range lf.Entries {
		hash, err := rehashOne(ctx, root, cfg, entry.Target, entry.Symbol)
		if err != nil {
			return err
		}
		lf.Entries[i].Hash = string(hash)
	}

	if err := lf.Write(lockPath(root)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %d references\n", len(lf.Entries))
	return nil
}

// Fix scans for broken references and auto-repairs every one with a
// unique close match, reporting fixed and unfixable entries separately.
func Fix(ctx context.Context, root string, out io.Writer) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	grouped, err := scanner.Scan(root, cfg)
	if err != nil {
		return err
	}

	actions, unfixable, err := fixengine.Plan(ctx, root, cfg, grouped)
	if err != nil {
		return err
	}

	if len(actions) > 0 {
		if err := fixengine.Apply(root, actions); err != nil {
			return err
		}
	}

	for _, a := range actions {
		fmt.Fprintf(out, "FIXED   %s:%d  #%s -> #%s\n", a.File, a.Line, a.Old, a.New)
	}
	for _, u := range unfixable {
		fmt.Fprintf(out, "UNFIXED %s:%d  #%s\n", u.File, u.Line, u.Symbol)
	}
	fmt.Fprintf(out, "%d fixed, %d unfixable\n", len(actions), len(unfixable))
	return nil
}

// FixOne validates that newSymbol resolves in file and then, on every
// scanned Markdown line holding a reference to file with symbol oldSymbol,
// replaces "#oldSymbol" with "#newSymbol".
func FixOne(ctx context.Context, root, file, oldSymbol, newSymbol string, out io.Writer) error {
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	diskPath, err := cfg.ResolveTarget(file)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(filepath.Join(root, diskPath))
	if err != nil {
		return docerr.FileNotFound(diskPath)
	}
	lang, err := grammar.ForPath(diskPath)
	if err != nil {
		return err
	}
	if _, err := resolver.Resolve(ctx, diskPath, source, lang, scanner.ParseSymbolQuery(newSymbol)); err != nil {
		return err
	}

	grouped, err := scanner.Scan(root, cfg)
	if err != nil {
		return err
	}

	var actions []fixengine.Action
	for _, ref := range grouped[file] {
		if ref.Symbol.String() == oldSymbol {
			actions = append(actions, fixengine.Action{File: ref.Source, Line: ref.Line, Old: oldSymbol, New: newSymbol})
		}
	}
	if err := fixengine.Apply(root, actions); err != nil {
		return err
	}
	fmt.Fprintf(out, "Replaced %d references: #%s -> #%s\n", len(actions), oldSymbol, newSymbol)
	return nil
}

// Refs lists every Markdown document that references target (optionally
// "file#symbol"), reading the lockfile.
func Refs(ctx context.Context, root, target string, out io.Writer) error {
	lf, err := lockfile.Read(lockPath(root))
	if err != nil {
		return err
	}

	file, symbol := target, ""
	if idx := strings.IndexByte(target, '#'); idx >= 0 {
		file, symbol = target[:idx], target[idx+1:]
	}

	var sources []string
	for _, e := range lf.Entries {
		if e.Target != file {
			continue
		}
		if symbol != "" && e.Symbol != symbol {
			continue
		}
		sources = append(sources, e.Source)
	}
	sort.Strings(sources)

	for _, s := range sources {
		fmt.Fprintln(out, s)
	}
	return nil
}

func splitReference(input string) (string, string, error) {
	idx := strings.IndexByte(input, '#')
	if idx < 0 {
		return input, "", nil
	}
	return input[:idx], input[idx+1:], nil
}

func rehashOne(ctx context.Context, root string, cfg *config.Config, target, symbol string) (hasher.SemanticHash, error) {
	diskPath, err := cfg.ResolveTarget(target)
	if err != nil {
		return "", err
	}
	source, err := os.ReadFile(filepath.Join(root, diskPath))
	if err != nil {
		return "", docerr.FileNotFound(diskPath)
	}
	lang, err := grammar.ForPath(diskPath)
	if err != nil {
		return "", err
	}
	return hashSymbolOrFile(ctx, diskPath, source, lang, symbol)
}

func hashSymbolOrFile(ctx context.Context, path string, source []byte, lang grammar.Language, symbol string) (hasher.SemanticHash, error) {
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

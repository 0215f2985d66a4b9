// Package config loads .docref.toml, resolves extends inheritance, and
// answers the two questions the scanner and resolver depend on: is this
// Markdown path in scope, and what does this target path (possibly
// namespaced) resolve to on disk.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/docref/docref/pkg/docerr"
)

// FileName is the configuration file docref looks for at a scan root.
const FileName = ".docref.toml"

// NamespaceEntry is a resolved namespace: the directory it points at,
// relative to OwnerDir, where OwnerDir is the directory of the config file
// that declared it. Inherited namespaces keep the ancestor's OwnerDir so
// resolution stays correct regardless of how many extends hops away the
// declaration sits.
type NamespaceEntry struct {
	RelDir   string
	OwnerDir string
}

// Config is a fully loaded and extends-resolved configuration.
type Config struct {
	Root       string
	Include    []string
	Exclude    []string
	Namespaces map[string]NamespaceEntry
}

// fileSchema is the raw TOML shape read from disk.
type fileSchema struct {
	Include    []string          `toml:"include"`
	Exclude    []string          `toml:"exclude"`
	Extends    string            `toml:"extends"`
	Namespaces map[string]string `toml:"namespaces"`
}

// Load reads .docref.toml from root, following any extends chain. A
// missing file yields a default configuration that includes everything.
func Load(root string) (*Config, error) {
	return load(root, filepath.Join(root, FileName), nil)
}

func load(root, path string, ancestors []string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{Root: root, Namespaces: map[string]NamespaceEntry{}}, nil
	}
	if err != nil {
		return nil, docerr.IO(err)
	}

	var fs fileSchema
	if err := toml.Unmarshal(raw, &fs); err != nil {
		return nil, docerr.TOML(err)
	}

	cfg := &Config{
		Root:       root,
		Include:    fs.Include,
		Exclude:    fs.Exclude,
		Namespaces: map[string]NamespaceEntry{},
	}

	if fs.Extends != "" {
		parentPath := filepath.Join(filepath.Dir(path), fs.Extends)
		canonical, err := canonicalize(parentPath)
		if err != nil {
			return nil, docerr.IO(err)
		}
		if _, statErr := os.Stat(canonical); statErr != nil {
			return nil, docerr.ConfigNotFound(canonical)
		}
		for _, a := range ancestors {
			if a == canonical {
				chain := append(append([]string{}, ancestors...), canonical)
				return nil, docerr.ConfigCycle(chain)
			}
		}
		selfCanonical, err := canonicalize(path)
		if err != nil {
			return nil, docerr.IO(err)
		}
		parent, err := load(root, canonical, append(ancestors, selfCanonical))
		if err != nil {
			return nil, err
		}
		for k, v := range parent.Namespaces {
			cfg.Namespaces[k] = v
		}
	}

	ownerDir := filepath.Dir(path)
	for name, dir := range fs.Namespaces {
		cfg.Namespaces[name] = NamespaceEntry{RelDir: dir, OwnerDir: ownerDir}
	}

	return cfg, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// InScope reports whether a Markdown path (relative to Root, forward-slash
// normalized) passes the include/exclude prefix filter.
func (c *Config) InScope(relPath string) bool {
	p := filepath.ToSlash(relPath)

	included := len(c.Include) == 0
	for _, prefix := range c.Include {
		if hasPathPrefix(p, prefix) {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, prefix := range c.Exclude {
		if hasPathPrefix(p, prefix) {
			return false
		}
	}
	return true
}

func hasPathPrefix(p, prefix string) bool {
	return strings.HasPrefix(p, prefix)
}

// ResolveTarget expands a target path as written in a Markdown reference.
// If it carries a "ns:" prefix, ns is looked up in the namespace map and
// the remainder is joined onto the namespace's directory. Without a colon,
// the target is returned unchanged.
func (c *Config) ResolveTarget(target string) (string, error) {
	idx := strings.IndexByte(target, ':')
	if idx < 0 {
		return target, nil
	}

	ns := target[:idx]
	remainder := target[idx+1:]

	entry, ok := c.Namespaces[ns]
	if !ok {
		return "", docerr.UnknownNamespace(ns)
	}

	nsDir := filepath.Join(entry.OwnerDir, entry.RelDir)
	abs := filepath.Join(nsDir, remainder)
	rel, err := filepath.Rel(c.Root, abs)
	if err != nil {
		return "", docerr.IO(err)
	}
	return filepath.ToSlash(rel), nil
}

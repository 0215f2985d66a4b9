// Package grammar maps file extensions to concrete-syntax-tree grammars and
// hands out tree-sitter parsers for the languages docref understands.
package grammar

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/docref/docref/pkg/docerr"
)

// Language identifies a concrete-syntax-tree grammar docref can parse.
type Language string

const (
	Rust       Language = "rust"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Python     Language = "python"
	Markdown   Language = "markdown"
)

// ForPath returns the grammar for a file's extension. Markdown is included
// so the scanner and resolver can share this dispatch for both sides of a
// reference. An unrecognized extension yields an UnsupportedLanguage error
// carrying the bare extension (no leading dot).
func ForPath(path string) (Language, error) {
	ext := strings.TrimPrefix(extOf(path), ".")
	switch ext {
	case "rs":
		return Rust, nil
	case "ts":
		return TypeScript, nil
	case "tsx":
		return TSX, nil
	case "js", "jsx":
		// JS shares the TypeScript grammar; JSX-bearing files need the TSX
		// grammar for its JSX element productions.
		if ext == "jsx" {
			return TSX, nil
		}
		return TypeScript, nil
	case "go":
		return Go, nil
	case "py":
		return Python, nil
	case "md", "markdown":
		return Markdown, nil
	default:
		return "", docerr.UnsupportedLanguage(ext)
	}
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

var (
	rustLang *sitter.Language
	tsLang   *sitter.Language
	tsxLang  *sitter.Language
	goLang   *sitter.Language
	pyLang   *sitter.Language

	initOnce sync.Once
)

func initLanguages() {
	initOnce.Do(func() {
		rustLang = rust.GetLanguage()
		tsLang = typescript.GetLanguage()
		tsxLang = tsx.GetLanguage()
		goLang = golang.GetLanguage()
		pyLang = python.GetLanguage()
	})
}

// SitterLanguage returns the tree-sitter grammar backing lang. Markdown has
// no tree-sitter backing (see pkg/resolver's heading-based section finder);
// calling this with Markdown panics since no caller should reach it.
func SitterLanguage(lang Language) *sitter.Language {
	initLanguages()
	switch lang {
	case Rust:
		return rustLang
	case TypeScript:
		return tsLang
	case TSX:
		return tsxLang
	case Go:
		return goLang
	case Python:
		return pyLang
	default:
		panic(fmt.Sprintf("grammar: no tree-sitter language for %q", lang))
	}
}

// NewParser returns a fresh tree-sitter parser configured for lang.
func NewParser(lang Language) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(SitterLanguage(lang))
	return parser
}

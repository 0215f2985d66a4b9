// Package docerr defines docref's closed error taxonomy. Every failure
// surfaced by the core packages is a *docerr.Error carrying enough context
// for a diagnostic to be rendered without a debugger.
package docerr

import "fmt"

// Kind tags the closed set of ways a docref operation can fail.
type Kind string

const (
	SymbolNotFoundKind     Kind = "symbol_not_found"
	AmbiguousSymbolKind    Kind = "ambiguous_symbol"
	FileNotFoundKind       Kind = "file_not_found"
	UnsupportedLangKind    Kind = "unsupported_language"
	ParseFailedKind        Kind = "parse_failed"
	FileTooLargeKind       Kind = "file_too_large"
	UnknownNamespaceKind   Kind = "unknown_namespace"
	NamespaceInUseKind     Kind = "namespace_in_use"
	ConfigNotFoundKind     Kind = "config_not_found"
	ConfigCycleKind        Kind = "config_cycle"
	LockfileNotFoundKind   Kind = "lockfile_not_found"
	LockfileCorruptKind    Kind = "lockfile_corrupt"
	IOKind                 Kind = "io"
	TOMLKind               Kind = "toml"
)

// SourceRef is a diagnostic-only pointer back to the Markdown line that
// referenced a symbol, attached to SymbolNotFound by the freshness
// enrichment step (never by the resolver itself).
type SourceRef struct {
	File string
	Line int
	Text string
}

// Error is docref's single structured error type. Only the fields relevant
// to Kind are populated; the rest are left at their zero value.
type Error struct {
	Kind Kind

	File    string
	Symbol  string
	Ext     string
	Reason  string
	Name    string
	Path    string
	SizeBytes uint64
	MaxBytes  uint64
	Count     int

	Suggestions    []string
	Candidates     []string
	ReferencedFrom []SourceRef
	Chain          []string

	Cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case SymbolNotFoundKind:
		return fmt.Sprintf("symbol not found: `%s` in %s", e.Symbol, e.File)
	case AmbiguousSymbolKind:
		return fmt.Sprintf("ambiguous symbol: `%s` in %s, candidates: %s", e.Symbol, e.File, joinComma(e.Candidates))
	case FileNotFoundKind:
		return fmt.Sprintf("file not found: %s", e.File)
	case UnsupportedLangKind:
		return fmt.Sprintf("no grammar for extension: .%s", e.Ext)
	case ParseFailedKind:
		return fmt.Sprintf("parse failed: %s: %s", e.File, e.Reason)
	case FileTooLargeKind:
		return fmt.Sprintf("file too large (%d bytes, max %d): %s", e.SizeBytes, e.MaxBytes, e.File)
	case UnknownNamespaceKind:
		return fmt.Sprintf("unknown namespace: `%s`", e.Name)
	case NamespaceInUseKind:
		return fmt.Sprintf("namespace `%s` is in use by %d references (use --force to remove)", e.Name, e.Count)
	case ConfigNotFoundKind:
		return fmt.Sprintf("config not found: %s", e.Path)
	case ConfigCycleKind:
		return fmt.Sprintf("config cycle detected: %s", joinArrow(e.Chain))
	case LockfileNotFoundKind:
		return fmt.Sprintf("lockfile not found: %s", e.Path)
	case LockfileCorruptKind:
		return fmt.Sprintf("lockfile corrupt: %s", e.Reason)
	case IOKind:
		return fmt.Sprintf("io: %v", e.Cause)
	case TOMLKind:
		return fmt.Sprintf("toml: %v", e.Cause)
	default:
		return fmt.Sprintf("docref: unknown error kind %q", e.Kind)
	}
}

// Unwrap exposes the wrapped cause for IO and TOML errors so errors.Is/As
// work against the underlying stdlib or library error.
func (e *Error) Unwrap() error { return e.Cause }

func joinComma(ss []string) string { return join(ss, ", ") }
func joinArrow(ss []string) string { return join(ss, " -> ") }

func join(ss []string, sep string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += sep
		}
		out += s
	}
	return out
}

// As reports whether err is a *Error of the given kind, returning it.
func As(err error, kind Kind) (*Error, bool) {
	de, ok := err.(*Error)
	if !ok || de == nil {
		return nil, false
	}
	return de, de.Kind == kind
}

// Constructors, one per kind, mirroring the field shape used at each call site.

func SymbolNotFound(file, symbol string, suggestions []string) *Error {
	return &Error{Kind: SymbolNotFoundKind, File: file, Symbol: symbol, Suggestions: suggestions}
}

func AmbiguousSymbol(file, symbol string, candidates []string) *Error {
	return &Error{Kind: AmbiguousSymbolKind, File: file, Symbol: symbol, Candidates: candidates}
}

func FileNotFound(path string) *Error {
	return &Error{Kind: FileNotFoundKind, File: path}
}

func UnsupportedLanguage(ext string) *Error {
	return &Error{Kind: UnsupportedLangKind, Ext: ext}
}

func ParseFailed(file, reason string) *Error {
	return &Error{Kind: ParseFailedKind, File: file, Reason: reason}
}

func FileTooLarge(file string, size, max uint64) *Error {
	return &Error{Kind: FileTooLargeKind, File: file, SizeBytes: size, MaxBytes: max}
}

func UnknownNamespace(name string) *Error {
	return &Error{Kind: UnknownNamespaceKind, Name: name}
}

func NamespaceInUse(name string, count int) *Error {
	return &Error{Kind: NamespaceInUseKind, Name: name, Count: count}
}

func ConfigNotFound(path string) *Error {
	return &Error{Kind: ConfigNotFoundKind, Path: path}
}

func ConfigCycle(chain []string) *Error {
	return &Error{Kind: ConfigCycleKind, Chain: chain}
}

func LockfileNotFound(path string) *Error {
	return &Error{Kind: LockfileNotFoundKind, Path: path}
}

func LockfileCorrupt(reason string) *Error {
	return &Error{Kind: LockfileCorruptKind, Reason: reason}
}

func IO(cause error) *Error {
	return &Error{Kind: IOKind, Cause: cause}
}

func TOML(cause error) *Error {
	return &Error{Kind: TOMLKind, Cause: cause}
}

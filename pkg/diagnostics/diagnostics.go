// Package diagnostics renders docerr.Error values as plain Markdown
// reports. Terminal rendering (color, bold, cursor control) is an external
// collaborator's concern, not this package's — it emits text only.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/docref/docref/pkg/docerr"
)

// Render translates err into a human-readable Markdown document. Errors
// that are not *docerr.Error fall back to a generic report.
func Render(err error) string {
	de, ok := err.(*docerr.Error)
	if !ok {
		return renderGeneric(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Error: %s\n\n", de.Kind)
	fmt.Fprintf(&b, "%s\n", de.Error())

	switch de.Kind {
	case docerr.SymbolNotFoundKind:
		if len(de.Suggestions) > 0 {
			b.WriteString("\n## Did you mean\n\n")
			for _, s := range de.Suggestions {
				fmt.Fprintf(&b, "- `%s`\n", s)
			}
		}
		if len(de.ReferencedFrom) > 0 {
			b.WriteString("\n## Referenced from\n\n")
			for _, ref := range de.ReferencedFrom {
				fmt.Fprintf(&b, "- %s:%d: %s\n", ref.File, ref.Line, ref.Text)
			}
		}

	case docerr.AmbiguousSymbolKind:
		b.WriteString("\n## Candidates\n\n")
		for _, c := range de.Candidates {
			fmt.Fprintf(&b, "- `%s`\n", c)
		}

	case docerr.ConfigCycleKind:
		b.WriteString("\n## Cycle\n\n")
		b.WriteString(strings.Join(de.Chain, " -> "))
		b.WriteString("\n")
	}

	b.WriteString("\n## Fix\n\n")
	b.WriteString(fixHint(de))
	b.WriteString("\n")

	return b.String()
}

func fixHint(de *docerr.Error) string {
	switch de.Kind {
	case docerr.SymbolNotFoundKind:
		return fmt.Sprintf("Run `docref fix %s#%s <new-symbol>` or update the Markdown reference.", de.File, de.Symbol)
	case docerr.AmbiguousSymbolKind:
		return fmt.Sprintf("Reference one of the candidates above, e.g. `%s#%s`.", de.File, de.Candidates[0])
	case docerr.FileNotFoundKind:
		return fmt.Sprintf("Check that `%s` exists relative to the scan root.", de.File)
	case docerr.UnsupportedLangKind:
		return fmt.Sprintf("docref has no grammar for `.%s`; reference a supported file type.", de.Ext)
	case docerr.FileTooLargeKind:
		return "Split the file or exclude it from scanning."
	case docerr.UnknownNamespaceKind:
		return fmt.Sprintf("Add `%s` to the `namespaces` table in `.docref.toml`.", de.Name)
	case docerr.NamespaceInUseKind:
		return "Remove the references using this namespace first, or pass --force."
	case docerr.ConfigNotFoundKind, docerr.ConfigCycleKind:
		return "Fix the `extends` chain in `.docref.toml`."
	case docerr.LockfileNotFoundKind:
		return "Run `docref init` to create `.docref.lock`."
	case docerr.LockfileCorruptKind:
		return "Restore `.docref.lock` from version control or re-run `docref init`."
	default:
		return "Re-run the command after addressing the error above."
	}
}

func renderGeneric(err error) string {
	return fmt.Sprintf("# Error\n\n%s\n", err.Error())
}

// Package hasher computes the content-normalized fingerprint used to
// classify a reference as fresh, stale, or broken.
package hasher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docref/docref/pkg/astutil"
	"github.com/docref/docref/pkg/docerr"
	"github.com/docref/docref/pkg/grammar"
	"github.com/docref/docref/pkg/resolver"
)

// SemanticHash is the lowercase hex encoding of a 32-byte SHA-256 digest.
type SemanticHash string

// HashSymbol slices source to the resolved byte range, re-parses the
// snippet with the same grammar (establishing a self-contained traversal
// root), and hashes its leaf token stream. Markdown has no tree-sitter
// grammar to re-parse against, so its symbol mode tokenizes the slice
// directly by whitespace instead of walking a re-parsed tree; this is
// behaviorally equivalent since Markdown headings and body text contain no
// comment nodes to skip.
func HashSymbol(ctx context.Context, source []byte, lang grammar.Language, sym resolver.ResolvedSymbol) (SemanticHash, error) {
	if sym.Start > sym.End || int(sym.End) > len(source) {
		return "", docerr.ParseFailed("", "resolved symbol range out of bounds")
	}
	snippet := source[sym.Start:sym.End]

	if lang == grammar.Markdown {
		return hashTokens(whitespaceTokens(snippet)), nil
	}

	tree, err := astutil.Parse(ctx, lang, snippet)
	if err != nil {
		return "", docerr.ParseFailed("", err.Error())
	}
	defer tree.Close()

	return hashTokens(leafTokens(tree.RootNode(), snippet)), nil
}

// HashFile parses the entire source and hashes its leaf token stream
// (whole-file mode).
func HashFile(ctx context.Context, source []byte, lang grammar.Language) (SemanticHash, error) {
	if lang == grammar.Markdown {
		return hashTokens(whitespaceTokens(source)), nil
	}

	tree, err := astutil.Parse(ctx, lang, source)
	if err != nil {
		return "", docerr.ParseFailed("", err.Error())
	}
	defer tree.Close()

	return hashTokens(leafTokens(tree.RootNode(), source)), nil
}

// leafTokens walks the tree's leaves depth-first in syntactic order,
// skipping comment-kind nodes, trimming ASCII whitespace from each leaf's
// source slice, and keeping non-empty results.
func leafTokens(root *sitter.Node, source []byte) []string {
	var tokens []string
	for _, leaf := range astutil.Leaves(root) {
		if strings.Contains(leaf.Type(), "comment") {
			continue
		}
		text := strings.TrimFunc(astutil.NodeText(leaf, source), isASCIISpace)
		if text != "" {
			tokens = append(tokens, text)
		}
	}
	return tokens
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func hashTokens(tokens []string) SemanticHash {
	joined := strings.Join(tokens, " ")
	sum := sha256.Sum256([]byte(joined))
	return SemanticHash(hex.EncodeToString(sum[:]))
}

// whitespaceTokens is the Markdown fallback tokenizer: split on Unicode
// whitespace (strings.Fields), no comment concept to skip.
func whitespaceTokens(snippet []byte) []string {
	return strings.Fields(string(snippet))
}

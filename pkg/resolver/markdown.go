package resolver

import (
	"strings"
)

// markdownHeading is one ATX heading found while scanning a Markdown
// document: its level (number of '#'), its raw heading text, and the byte
// offset where its section begins.
type markdownHeading struct {
	level int
	text  string
	start uint32
}

type markdownStackEntry struct {
	level int
	qual  string
	isH1  bool
}

// markdownDeclarations is the hand-rolled stand-in for a tree-sitter
// grammar (none exists in the example pack for Markdown). It scans ATX
// headings line by line and builds the same section hierarchy a
// "section"-node walk would: an h1 is the document title (bare name, no
// prefix for its children); every other heading's qualified name is its
// parent's qualified name plus its own slug.
func markdownDeclarations(source []byte) ([]Declaration, error) {
	headings := scanHeadings(source)
	if len(headings) == 0 {
		return nil, nil
	}

	var decls []Declaration
	var stack []markdownStackEntry

	for i, h := range headings {
		slug := slugify(h.text)
		if slug == "" {
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}

		isH1 := h.level == 1
		var qualified string
		if isH1 {
			qualified = slug
		} else if len(stack) == 0 || stack[len(stack)-1].isH1 {
			qualified = slug
		} else {
			qualified = stack[len(stack)-1].qual + "." + slug
		}

		end := uint32(len(source))
		if i+1 < len(headings) {
			end = headings[i+1].start
		}

		decls = append(decls, Declaration{Name: slug, Qualified: qualified, Start: h.start, End: end})
		stack = append(stack, markdownStackEntry{level: h.level, qual: qualified, isH1: isH1})
	}

	return decls, nil
}

func scanHeadings(source []byte) []markdownHeading {
	var out []markdownHeading
	var offset uint32

	for _, rawLine := range strings.SplitAfter(string(source), "\n") {
		lineStart := offset
		offset += uint32(len(rawLine))

		line := strings.TrimRight(rawLine, "\r\n")
		trimmed := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}

		level := 0
		for level < len(trimmed) && trimmed[level] == '#' {
			level++
		}
		if level == 0 || level > 6 {
			continue
		}
		if level < len(trimmed) && trimmed[level] != ' ' && trimmed[level] != '\t' {
			continue // not a valid ATX heading (e.g. "#nospace")
		}

		text := strings.TrimSpace(trimmed[level:])
		text = strings.TrimRight(text, "#")
		text = strings.TrimSpace(text)

		out = append(out, markdownHeading{level: level, text: text, start: lineStart})
	}

	return out
}

// slugify lowercases text, collapses runs of non-alphanumeric characters
// to a single hyphen, and trims leading/trailing hyphens.
func slugify(text string) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

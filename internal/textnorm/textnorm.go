// Package textnorm cleans up raw extracted text so that two extractions of
// logically identical content produce identical strings. This is what makes
// exact-match dedup useful across repeated uploads of the same file.
package textnorm

import "strings"

// Normalize is a pure, deterministic, total cleanup of extracted text:
// line endings become \n, control and zero-width characters are dropped,
// runs of spaces and tabs collapse to a single space, trailing whitespace
// is stripped per line, and blank-line runs collapse to one. Already clean
// input comes back unchanged.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = collapseSpaces(line)
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// collapseSpaces rewrites one line: tabs and space runs become a single
// space, other control and zero-width characters are dropped, and the
// result is trimmed.
func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	space := false

	for _, r := range line {
		switch {
		case r == ' ' || r == '\t' || r == ' ':
			space = true
		case r < 0x20 || r == 0x7f:
			// drop stray control characters from extraction
		case r == '\uFEFF' || r == '\u200B' || r == '\u200C' || r == '\u200D':
			// zero-width characters
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

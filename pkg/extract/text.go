package extract

import (
	"html"
	"strings"
)

// decode resolves entities that survive the parser. The archive stores some
// titles already escaped, so "&amp;amp;" reaches us as "&amp;" after
// parsing.
func decode(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

// clean decodes s and collapses runs of whitespace to single spaces.
func clean(s string) string {
	return strings.Join(strings.Fields(decode(s)), " ")
}

// splitLines turns block text into trimmed, non-empty, whitespace-collapsed
// lines.
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = clean(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// labelled returns the value after label on line.
func labelled(line, label string) (string, bool) {
	v, ok := strings.CutPrefix(line, label)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

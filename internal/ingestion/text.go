// Package ingestion turns uploaded resumes and job postings into plain text.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaces = regexp.MustCompile(` {2,}`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, strips control characters and trailing spaces,
// collapses runs of spaces inside a line and limits blank lines to one.
// Tabs, bullet glyphs and leading indentation are kept as written.
func CleanText(content string) string {
	if content == "" {
		return ""
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	result := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		if r == '\t' || r >= ' ' && r != 0x7f {
			return r
		}
		return -1
	}, line)
	line = strings.TrimRight(line, " \t")

	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	return indent + innerSpaces.ReplaceAllString(trimmed, " ")
}

package ats

import (
	"regexp"
	"strings"
)

var (
	bulletReplacer = strings.NewReplacer("\t", "  ", "•", "*", "◦", "-", "▪", "*")
	blankLines     = regexp.MustCompile(`\n{3,}`)
	headerColons   = []struct {
		pattern *regexp.Regexp
		repl    string
	}{
		{regexp.MustCompile(`(?i)EXPERIENCE:`), "EXPERIENCE\n"},
		{regexp.MustCompile(`(?i)EDUCATION:`), "EDUCATION\n"},
		{regexp.MustCompile(`(?i)SKILLS:`), "SKILLS\n"},
	}
)

// FormatForATS rewrites text into a plainer form that parsers handle well.
// Header colons are replaced before blank lines are collapsed, so applying it twice changes nothing.
func FormatForATS(text string) string {
	out := bulletReplacer.Replace(text)
	for _, h := range headerColons {
		out = h.pattern.ReplaceAllLiteralString(out, h.repl)
	}
	return blankLines.ReplaceAllString(out, "\n\n")
}

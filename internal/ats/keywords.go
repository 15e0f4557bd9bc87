package ats

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// stopWords are ignored when counting resume words.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {}, "all": {},
	"any": {}, "can": {}, "had": {}, "her": {}, "was": {}, "one": {}, "our": {}, "out": {},
	"has": {}, "have": {}, "his": {}, "how": {}, "its": {}, "may": {}, "new": {}, "now": {},
	"who": {}, "did": {}, "get": {}, "use": {}, "with": {}, "this": {}, "that": {}, "from": {},
	"they": {}, "will": {}, "been": {}, "were": {}, "their": {}, "what": {}, "when": {}, "which": {},
	"your": {}, "into": {}, "than": {}, "then": {}, "them": {}, "these": {},
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// CountWords returns the number of words in text longer than two characters that are not stop words.
func CountWords(text string) int {
	n := 0
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		n++
	}
	return n
}

// CountOccurrences returns the number of whole-word, case-insensitive occurrences of term in text.
//
// Edges of the term that are ASCII word characters need a word boundary. Symbol edges need the
// neighbouring text character to be a non-word character too, so "C++" matches "C++," but not "C++11".
func CountOccurrences(text, term string) int {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return 0
	}
	return len(termPattern(term).FindAllStringIndex(text, -1))
}

func termPattern(term string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?i)`)
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	b.WriteString(edge(first))
	b.WriteString(regexp.QuoteMeta(term))
	b.WriteString(edge(last))
	return regexp.MustCompile(b.String())
}

// edge returns the assertion for one end of a term: \b beside a word character, \B beside a symbol,
// so a symbol edge must not touch a word character in the text.
func edge(r rune) string {
	if isASCIIWord(r) {
		return `\b`
	}
	return `\B`
}

func isASCIIWord(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Frequency returns occurrences as a percentage of wordCount, or 0 when wordCount is 0.
func Frequency(occurrences, wordCount int) float64 {
	if wordCount == 0 {
		return 0
	}
	return float64(occurrences) / float64(wordCount) * 100
}

package analysis

import "strings"

// NormalizeTerm trims a keyword, collapses inner whitespace and drops trailing list punctuation.
func NormalizeTerm(term string) string {
	term = strings.Join(strings.Fields(term), " ")
	return strings.TrimRight(term, ",;:.")
}

// DedupeTerms normalizes terms and drops empty and case-insensitive duplicates, keeping the first spelling.
func DedupeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		n := NormalizeTerm(t)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

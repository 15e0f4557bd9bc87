package ats

import "strings"

// Context names reported in KeywordScore.Contexts.
const (
	ContextExperience = "experience"
	ContextSummary    = "summary"
	ContextSkills     = "skills"
)

type window struct {
	name   string
	starts []string
	ends   []string
}

var windows = []window{
	{name: ContextExperience, starts: []string{"experience"}, ends: []string{"education", "skills"}},
	{name: ContextSummary, starts: []string{"summary", "about", "profile"}, ends: []string{"experience", "education", "skills"}},
	{name: ContextSkills, starts: []string{"skills"}, ends: []string{"experience", "education"}},
}

// sections holds the lower-cased text of each context window. A missing header yields an empty window.
type sections map[string]string

func extractSections(lower string) sections {
	s := make(sections, len(windows))
	for _, w := range windows {
		s[w.name] = extractWindow(lower, w)
	}
	return s
}

// extractWindow returns the text from the first start marker up to the earliest end marker after it.
func extractWindow(lower string, w window) string {
	start, marker := firstIndex(lower, w.starts)
	if start < 0 {
		return ""
	}
	from := start + len(marker)
	end := len(lower)
	if idx, _ := firstIndex(lower[from:], w.ends); idx >= 0 {
		end = from + idx
	}
	return lower[start:end]
}

// firstIndex returns the earliest index of any needle in s and the needle found there.
func firstIndex(s string, needles []string) (int, string) {
	best, found := -1, ""
	for _, n := range needles {
		if idx := strings.Index(s, n); idx >= 0 && (best < 0 || idx < best) {
			best, found = idx, n
		}
	}
	return best, found
}

// contextsFor lists the windows containing term and the resulting weight.
func (s sections) contextsFor(term string) ([]string, float64) {
	needle := strings.ToLower(strings.TrimSpace(term))
	contexts := []string{}
	if needle == "" {
		return contexts, 0
	}
	for _, w := range windows {
		if strings.Contains(s[w.name], needle) {
			contexts = append(contexts, w.name)
		}
	}
	return contexts, contextWeight(contexts)
}

func contextWeight(contexts []string) float64 {
	weight := 0.0
	for _, c := range contexts {
		switch c {
		case ContextExperience, ContextSummary:
			return 1.0
		case ContextSkills:
			weight = 0.5
		}
	}
	return weight
}

package ats

import (
	"regexp"
	"strings"
)

// Sub-score budgets.
const (
	KeywordBudget    = 70.0
	FormattingBudget = 10.0
	LengthBudget     = 10.0
	SectionsBudget   = 10.0
)

// Formatting recommendations, reported in this order.
const (
	RecSpecialCharacters = "Consider using simple bullets (*) instead of special characters"
	RecTabs              = "Avoid using tabs; use spaces for indentation"
	RecSectionHeaders    = "Include standard section headers (Experience, Education, Skills)"
)

// Length recommendations.
const (
	RecTooShort      = "Resume is too short. Aim for 400-800 words for most positions."
	RecSomewhatShort = "Consider adding more detail about your experience."
	RecTooLong       = "Resume may be too long. Try to keep it concise (400-800 words)."
)

var standardHeaders = []string{"experience", "education", "skills"}

// formattingScore starts at the full budget and deducts for ATS-unfriendly characters and missing headers.
func formattingScore(text, lower string) (float64, []string) {
	score := FormattingBudget
	var issues []string
	if strings.Contains(text, "|") || strings.Contains(text, "•") {
		score--
		issues = append(issues, RecSpecialCharacters)
	}
	if strings.Contains(text, "\t") {
		score--
		issues = append(issues, RecTabs)
	}
	found := 0
	for _, h := range standardHeaders {
		if strings.Contains(lower, h) {
			found++
		}
	}
	if found < 2 {
		score -= 2
		issues = append(issues, RecSectionHeaders)
	}
	return max(score, 0), issues
}

var whitespace = regexp.MustCompile(`\s+`)

// WordCount splits text on whitespace runs. Empty text counts as one word.
func WordCount(text string) int {
	return len(whitespace.Split(text, -1))
}

// lengthScore maps the whitespace word count to points and an optional recommendation.
func lengthScore(text string) (float64, string) {
	w := WordCount(text)
	switch {
	case w < 200:
		return 4, RecTooShort
	case w < 300:
		return 6, RecSomewhatShort
	case w > 1000:
		return 7, RecTooLong
	case w > 800:
		return 8.5, ""
	default:
		return 10, ""
	}
}

type sectionRule struct {
	name     string
	patterns []string
}

var sectionRules = []sectionRule{
	{name: "Contact", patterns: []string{"email", "phone", "linkedin"}},
	{name: "Experience", patterns: []string{"experience", "work history", "employment"}},
	{name: "Education", patterns: []string{"education", "degree", "university", "college"}},
	{name: "Skills", patterns: []string{"skills", "technical skills", "competencies"}},
}

// sectionsScore awards an equal share of the budget for each section category present.
func sectionsScore(lower string) (float64, []string) {
	per := SectionsBudget / float64(len(sectionRules))
	score := 0.0
	var missing []string
	for _, rule := range sectionRules {
		present := false
		for _, p := range rule.patterns {
			if strings.Contains(lower, p) {
				present = true
				break
			}
		}
		if present {
			score += per
		} else {
			missing = append(missing, rule.name)
		}
	}
	return score, missing
}

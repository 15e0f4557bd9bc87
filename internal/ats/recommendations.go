package ats

import (
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// TopKeywordImportance separates top keywords from the rest.
const TopKeywordImportance = 2.0

const (
	maxAddSuggestions       = 5
	maxFrequencySuggestions = 3
	maxPlacementSuggestions = 3
)

// keywordRecommendations builds the keyword advice from scores sorted by importance.
func keywordRecommendations(sorted []types.KeywordScore) []string {
	var recs []string

	add := pickTerms(sorted, maxAddSuggestions, func(ks types.KeywordScore) bool {
		return ks.Keyword.Importance >= TopKeywordImportance && ks.RelativeScore < 50
	})
	if len(add) > 0 {
		recs = append(recs, "Add these high-priority keywords: "+strings.Join(add, ", "))
	}

	more := pickTerms(sorted, maxFrequencySuggestions, func(ks types.KeywordScore) bool {
		return ks.RelativeScore > 0 && ks.RelativeScore < 80 && ks.Keyword.Importance >= 1.5
	})
	if len(more) > 0 {
		recs = append(recs, "Increase the frequency of: "+strings.Join(more, ", "))
	}

	placement := pickTerms(sorted, maxPlacementSuggestions, func(ks types.KeywordScore) bool {
		return ks.ContextWeight == 0.5 && ks.Keyword.Importance >= TopKeywordImportance
	})
	if len(placement) > 0 {
		recs = append(recs, "Use these keywords in your Experience or Summary sections, not just Skills: "+strings.Join(placement, ", "))
	}
	return recs
}

func pickTerms(scores []types.KeywordScore, limit int, keep func(types.KeywordScore) bool) []string {
	var out []string
	for _, ks := range scores {
		if len(out) == limit {
			break
		}
		if keep(ks) {
			out = append(out, ks.Keyword.Term)
		}
	}
	return out
}

func missingSectionsRecommendation(missing []string) string {
	return "Add missing sections: " + strings.Join(missing, ", ")
}

// splitByImportance partitions sorted scores into top and other keywords.
func splitByImportance(sorted []types.KeywordScore) (top, other []types.KeywordScore) {
	top, other = []types.KeywordScore{}, []types.KeywordScore{}
	for _, ks := range sorted {
		if ks.Keyword.Importance >= TopKeywordImportance {
			top = append(top, ks)
		} else {
			other = append(other, ks)
		}
	}
	return top, other
}

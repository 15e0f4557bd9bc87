package ats

import (
	"math"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// Score rates resumeText against profile, ignoring keywords whose term exactly matches an entry in excluded.
// It never fails: a nil profile scores like an empty one.
func Score(resumeText string, profile *types.JobProfile, excluded []string) *types.ATSScore {
	return ScoreWith(SelectStrategy(profile, excluded), resumeText)
}

// ScoreWith rates resumeText using an already selected keyword strategy.
func ScoreWith(strategy Strategy, resumeText string) *types.ATSScore {
	lower := strings.ToLower(resumeText)

	kw := strategy.scoreKeywords(resumeText)
	formatting, formatIssues := formattingScore(resumeText, lower)
	length, lengthAdvice := lengthScore(resumeText)
	secs, missingSections := sectionsScore(lower)

	recs := make([]string, 0, len(kw.leading)+len(formatIssues)+len(kw.trailing)+2)
	recs = append(recs, kw.leading...)
	recs = append(recs, formatIssues...)
	if lengthAdvice != "" {
		recs = append(recs, lengthAdvice)
	}
	if len(missingSections) > 0 {
		recs = append(recs, missingSectionsRecommendation(missingSections))
	}
	recs = append(recs, kw.trailing...)

	details := kw.details
	if details == nil {
		details = []types.KeywordScore{}
	}
	top, other := splitByImportance(sortedByImportance(details))
	if strategy.Name() == StrategyLegacy {
		top, other = []types.KeywordScore{}, []types.KeywordScore{}
	}

	return &types.ATSScore{
		Overall: int(math.Round(kw.score + formatting + length + secs)),
		Breakdown: types.Breakdown{
			KeywordMatch: int(math.Round(kw.score)),
			Formatting:   int(math.Round(formatting)),
			Length:       int(math.Round(length)),
			Sections:     int(math.Round(secs)),
		},
		Recommendations: recs,
		MatchedKeywords: kw.matched,
		MissingKeywords: kw.missing,
		TopKeywords:     top,
		OtherKeywords:   other,
		DetailedScores:  details,
	}
}

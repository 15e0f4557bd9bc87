package ats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// Strategy names.
const (
	StrategyEnhanced = "enhanced"
	StrategyLegacy   = "legacy"
)

// Strategy computes the keyword-match sub-score.
type Strategy interface {
	Name() string
	scoreKeywords(text string) keywordResult
}

// keywordResult is the immutable outcome of a keyword strategy.
type keywordResult struct {
	score   float64
	matched []string
	missing []string
	details []types.KeywordScore
	// leading recommendations precede formatting advice, trailing ones follow the sections advice.
	leading  []string
	trailing []string
}

// SelectStrategy filters excluded terms out of the profile and picks the keyword strategy.
// Enhanced scoring is used whenever weighted keywords remain after exclusion.
func SelectStrategy(profile *types.JobProfile, excluded []string) Strategy {
	if profile == nil {
		profile = &types.JobProfile{}
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		skip[e] = struct{}{}
	}

	var kept []types.KeywordDatum
	for _, k := range profile.EnhancedKeywords {
		if _, ok := skip[k.Term]; !ok {
			kept = append(kept, k)
		}
	}
	if len(kept) > 0 {
		return EnhancedScoring{Keywords: kept}
	}

	var terms []string
	for _, t := range profile.FlatTerms() {
		if _, ok := skip[t]; !ok {
			terms = append(terms, t)
		}
	}
	return LegacyScoring{Terms: terms}
}

// EnhancedScoring weighs each keyword by importance, resume frequency and where it appears.
type EnhancedScoring struct {
	Keywords []types.KeywordDatum
}

func (EnhancedScoring) Name() string { return StrategyEnhanced }

func (s EnhancedScoring) scoreKeywords(text string) keywordResult {
	lower := strings.ToLower(text)
	wordCount := CountWords(text)
	secs := extractSections(lower)

	res := keywordResult{matched: []string{}, missing: []string{}}
	// Sums are taken relative to the largest importance so huge weights cannot overflow to Inf.
	scale := maxImportance(s.Keywords)
	var earned, total float64
	for _, k := range s.Keywords {
		ks := scoreKeyword(text, k, wordCount, secs)
		res.details = append(res.details, ks)
		if scale > 0 {
			earned += ks.FinalScore / scale
			total += k.Importance / scale
		}
		if ks.Occurrences > 0 {
			res.matched = append(res.matched, k.Term)
		} else {
			res.missing = append(res.missing, k.Term)
		}
	}
	if total > 0 {
		res.score = clamp(earned/total*KeywordBudget, 0, KeywordBudget)
	}
	res.leading = keywordRecommendations(sortedByImportance(res.details))
	return res
}

func maxImportance(keywords []types.KeywordDatum) float64 {
	m := 0.0
	for _, k := range keywords {
		if k.Importance > m && !math.IsInf(k.Importance, 1) {
			m = k.Importance
		}
	}
	return m
}

func scoreKeyword(text string, k types.KeywordDatum, wordCount int, secs sections) types.KeywordScore {
	occ := CountOccurrences(text, k.Term)
	freq := Frequency(occ, wordCount)
	relative := 0.0
	if k.Frequency > 0 {
		relative = min(freq/k.Frequency*100, 100)
	}
	contexts, weight := secs.contextsFor(k.Term)
	return types.KeywordScore{
		Keyword:         k,
		Occurrences:     occ,
		ResumeFrequency: freq,
		RelativeScore:   relative,
		ContextWeight:   weight,
		Contexts:        contexts,
		FinalScore:      k.Importance * (relative / 100) * weight,
	}
}

// LegacyScoring counts case-insensitive substring matches of the flat keyword lists.
type LegacyScoring struct {
	Terms []string
}

func (LegacyScoring) Name() string { return StrategyLegacy }

func (s LegacyScoring) scoreKeywords(text string) keywordResult {
	lower := strings.ToLower(text)
	res := keywordResult{
		matched: []string{},
		missing: []string{},
		details: []types.KeywordScore{},
	}
	for _, t := range s.Terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			res.matched = append(res.matched, t)
		} else {
			res.missing = append(res.missing, t)
		}
	}
	total := len(s.Terms)
	coverage := 0.0
	if total > 0 {
		coverage = float64(len(res.matched)) / float64(total)
	}
	res.score = coverage * KeywordBudget
	if coverage < 0.6 {
		res.leading = append(res.leading, fmt.Sprintf(
			"Add more relevant keywords. You're matching %d of %d important keywords.", len(res.matched), total))
	}
	if len(res.missing) > 0 {
		res.trailing = append(res.trailing, "Consider incorporating these keywords: "+strings.Join(res.missing[:min(5, len(res.missing))], ", "))
	}
	return res
}

// sortedByImportance returns a copy of scores ordered by keyword importance, highest first.
// Ties keep their original order.
func sortedByImportance(scores []types.KeywordScore) []types.KeywordScore {
	out := make([]types.KeywordScore, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Keyword.Importance > out[j].Keyword.Importance
	})
	return out
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return max(lo, min(v, hi))
}

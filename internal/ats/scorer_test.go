package ats

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-tailor/internal/types"
)

func pythonProfile() *types.JobProfile {
	return &types.JobProfile{
		EnhancedKeywords: []types.KeywordDatum{
			{Term: "Python", Frequency: 5, Section: "requirements", SectionType: types.SectionRequired, Importance: 10},
		},
	}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestScore_EmptyResume(t *testing.T) {
	score := Score("", pythonProfile(), nil)

	assert.Equal(t, 12, score.Overall)
	assert.Equal(t, types.Breakdown{KeywordMatch: 0, Formatting: 8, Length: 4, Sections: 0}, score.Breakdown)
	assert.Equal(t, []string{
		"Add these high-priority keywords: Python",
		RecSectionHeaders,
		RecTooShort,
		"Add missing sections: Contact, Experience, Education, Skills",
	}, score.Recommendations)
	assert.Empty(t, score.MatchedKeywords)
	assert.Equal(t, []string{"Python"}, score.MissingKeywords)
	require.Len(t, score.TopKeywords, 1)
	assert.Empty(t, score.OtherKeywords)
}

func TestScore_ExperienceContext(t *testing.T) {
	score := Score("Experience\nBuilt services in Python and Python again", pythonProfile(), nil)

	require.Len(t, score.DetailedScores, 1)
	ks := score.DetailedScores[0]
	assert.Equal(t, 2, ks.Occurrences)
	assert.InDelta(t, 100.0/3, ks.ResumeFrequency, 1e-9)
	assert.Equal(t, 100.0, ks.RelativeScore)
	assert.Equal(t, 1.0, ks.ContextWeight)
	assert.Equal(t, []string{ContextExperience}, ks.Contexts)
	assert.Equal(t, 10.0, ks.FinalScore)

	assert.Equal(t, types.Breakdown{KeywordMatch: 70, Formatting: 8, Length: 4, Sections: 3}, score.Breakdown)
	assert.Equal(t, 85, score.Overall)
	assert.Equal(t, []string{"Python"}, score.MatchedKeywords)
}

func TestScore_FormattingDeductions(t *testing.T) {
	score := Score("Experience | Education\tSkills", pythonProfile(), nil)

	assert.Equal(t, 8, score.Breakdown.Formatting)
	assert.Contains(t, score.Recommendations, RecSpecialCharacters)
	assert.Contains(t, score.Recommendations, RecTabs)
	assert.NotContains(t, score.Recommendations, RecSectionHeaders)
}

func TestFormattingScore(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		issues []string
	}{
		{name: "clean", text: "Experience Education Skills", want: 10},
		{name: "bullet", text: "Experience Education • Go", want: 9, issues: []string{RecSpecialCharacters}},
		{name: "pipe and bullet count once", text: "Experience | Education • Go", want: 9, issues: []string{RecSpecialCharacters}},
		{name: "tab", text: "Experience\tEducation", want: 9, issues: []string{RecTabs}},
		{name: "one header", text: "Skills only", want: 8, issues: []string{RecSectionHeaders}},
		{name: "everything", text: "|\t", want: 6, issues: []string{RecSpecialCharacters, RecTabs, RecSectionHeaders}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, issues := formattingScore(tt.text, strings.ToLower(tt.text))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.issues, issues)
		})
	}
}

func TestLengthScore(t *testing.T) {
	tests := []struct {
		n      int
		want   float64
		advice string
	}{
		{n: 0, want: 4, advice: RecTooShort},
		{n: 199, want: 4, advice: RecTooShort},
		{n: 200, want: 6, advice: RecSomewhatShort},
		{n: 299, want: 6, advice: RecSomewhatShort},
		{n: 300, want: 10},
		{n: 800, want: 10},
		{n: 801, want: 8.5},
		{n: 1000, want: 8.5},
		{n: 1001, want: 7, advice: RecTooLong},
	}

	for _, tt := range tests {
		got, advice := lengthScore(words(tt.n))
		assert.Equal(t, tt.want, got, "words=%d", tt.n)
		assert.Equal(t, tt.advice, advice, "words=%d", tt.n)
	}
}

func TestWordCount_EmptyIsOne(t *testing.T) {
	assert.Equal(t, 1, WordCount(""))
	assert.Equal(t, 3, WordCount("a  b\n\tc"))
}

func TestSectionsScore(t *testing.T) {
	score, missing := sectionsScore("email me. work history. university. competencies")
	assert.Equal(t, 10.0, score)
	assert.Empty(t, missing)

	score, missing = sectionsScore("phone and degree")
	assert.Equal(t, 5.0, score)
	assert.Equal(t, []string{"Experience", "Skills"}, missing)
}

func TestScore_Exclusion(t *testing.T) {
	profile := &types.JobProfile{
		EnhancedKeywords: []types.KeywordDatum{
			{Term: "Go", Frequency: 2, SectionType: types.SectionRequired, Importance: 4},
			{Term: "Python", Frequency: 1, SectionType: types.SectionGeneral, Importance: 1},
		},
	}

	t.Run("exact term removed", func(t *testing.T) {
		score := Score("Experience with Go and Python", profile, []string{"Go"})
		for _, list := range [][]types.KeywordScore{score.TopKeywords, score.OtherKeywords, score.DetailedScores} {
			for _, ks := range list {
				assert.NotEqual(t, "Go", ks.Keyword.Term)
			}
		}
		assert.NotContains(t, score.MatchedKeywords, "Go")
		assert.Len(t, score.DetailedScores, 1)
	})

	t.Run("case sensitive", func(t *testing.T) {
		score := Score("Experience with Go and Python", profile, []string{"go"})
		assert.Len(t, score.DetailedScores, 2)
	})

	t.Run("all excluded falls back to flat lists", func(t *testing.T) {
		p := *profile
		p.KeySkills = []string{"Go", "Docker"}
		assert.Equal(t, StrategyLegacy, SelectStrategy(&p, []string{"Go", "Python"}).Name())

		score := Score("Experience with Docker", &p, []string{"Go", "Python"})
		assert.Equal(t, []string{"Docker"}, score.MatchedKeywords)
		assert.Equal(t, 70, score.Breakdown.KeywordMatch)
	})
}

func TestScore_LegacyFallback(t *testing.T) {
	profile := &types.JobProfile{
		KeySkills:              []string{"Go", "Docker"},
		Keywords:               []string{"Kubernetes"},
		RequiredQualifications: []string{"AWS"},
	}
	score := Score("I use go and docker daily", profile, nil)

	assert.Equal(t, 35, score.Breakdown.KeywordMatch)
	assert.Equal(t, []string{"Go", "Docker"}, score.MatchedKeywords)
	assert.Equal(t, []string{"Kubernetes", "AWS"}, score.MissingKeywords)
	assert.NotNil(t, score.TopKeywords)
	assert.Empty(t, score.TopKeywords)
	assert.Empty(t, score.OtherKeywords)
	assert.Empty(t, score.DetailedScores)

	require.NotEmpty(t, score.Recommendations)
	assert.Equal(t, "Add more relevant keywords. You're matching 2 of 4 important keywords.", score.Recommendations[0])
	assert.Equal(t, "Consider incorporating these keywords: Kubernetes, AWS", score.Recommendations[len(score.Recommendations)-1])
}

func TestScore_LegacyFullCoverageHasNoKeywordAdvice(t *testing.T) {
	profile := &types.JobProfile{KeySkills: []string{"Go"}}
	score := Score("Go", profile, nil)

	assert.Equal(t, 70, score.Breakdown.KeywordMatch)
	for _, r := range score.Recommendations {
		assert.NotContains(t, r, "keywords")
	}
}

func TestScore_NilProfile(t *testing.T) {
	score := Score("Experience Education Skills", nil, nil)
	require.NotNil(t, score)
	assert.Equal(t, 0, score.Breakdown.KeywordMatch)
	assert.Equal(t, 10, score.Breakdown.Formatting)
}

func TestScore_KeywordRecommendations(t *testing.T) {
	profile := &types.JobProfile{
		EnhancedKeywords: []types.KeywordDatum{
			{Term: "Kafka", Frequency: 1, SectionType: types.SectionRequired, Importance: 2},
			{Term: "Go", Frequency: 1, SectionType: types.SectionRequired, Importance: 3},
			{Term: "Rust", Frequency: 1, SectionType: types.SectionRequired, Importance: 5},
			{Term: "Docs", Frequency: 1, SectionType: types.SectionGeneral, Importance: 1},
		},
	}
	score := Score("Summary\nKafka engineer\nSkills\nGo", profile, nil)

	require.GreaterOrEqual(t, len(score.Recommendations), 2)
	assert.Equal(t, "Add these high-priority keywords: Rust", score.Recommendations[0])
	assert.Equal(t, "Use these keywords in your Experience or Summary sections, not just Skills: Go", score.Recommendations[1])

	require.Len(t, score.TopKeywords, 3)
	assert.Equal(t, "Rust", score.TopKeywords[0].Keyword.Term)
	assert.Equal(t, "Go", score.TopKeywords[1].Keyword.Term)
	assert.Equal(t, "Kafka", score.TopKeywords[2].Keyword.Term)
	require.Len(t, score.OtherKeywords, 1)
	assert.Equal(t, "Docs", score.OtherKeywords[0].Keyword.Term)
	assert.Equal(t, []string{"Kafka", "Go", "Rust", "Docs"}, termsOf(score.DetailedScores))
}

func TestScore_RecommendationOrderAndCaps(t *testing.T) {
	missing := func(term string, importance float64) types.KeywordDatum {
		return types.KeywordDatum{Term: term, Frequency: 1, SectionType: types.SectionRequired, Importance: importance}
	}
	// 1 occurrence in 10 counted words is 10%, a relative score of 20 against 50%.
	partial := func(term string, importance float64) types.KeywordDatum {
		return types.KeywordDatum{Term: term, Frequency: 50, SectionType: types.SectionPreferred, Importance: importance}
	}
	skillsOnly := func(term string, importance float64) types.KeywordDatum {
		return types.KeywordDatum{Term: term, Frequency: 1, SectionType: types.SectionRequired, Importance: importance}
	}
	profile := &types.JobProfile{
		EnhancedKeywords: []types.KeywordDatum{
			partial("Spark", 1.7),
			missing("Delta", 6),
			skillsOnly("Helm", 3.2),
			missing("Bravo", 8),
			partial("Flink", 1.6),
			skillsOnly("Ansible", 3.4),
			missing("Foxtrot", 4),
			partial("Kafka", 1.9),
			missing("Alpha", 9),
			skillsOnly("Docker", 3.3),
			missing("Echo", 5),
			partial("Redis", 1.8),
			missing("Charlie", 7),
			skillsOnly("Terraform", 3.5),
		},
	}
	text := "Kafka Redis Spark Flink | pipelines\tSkills Terraform Ansible Docker Helm"

	score := Score(text, profile, nil)

	assert.Equal(t, []string{
		"Add these high-priority keywords: Alpha, Bravo, Charlie, Delta, Echo",
		"Increase the frequency of: Kafka, Redis, Spark",
		"Use these keywords in your Experience or Summary sections, not just Skills: Terraform, Ansible, Docker",
		RecSpecialCharacters,
		RecTabs,
		RecSectionHeaders,
		RecTooShort,
		"Add missing sections: Contact, Experience, Education",
	}, score.Recommendations)

	byTerm := make(map[string]types.KeywordScore, len(score.DetailedScores))
	for _, ks := range score.DetailedScores {
		byTerm[ks.Keyword.Term] = ks
	}
	assert.InDelta(t, 20.0, byTerm["Kafka"].RelativeScore, 1e-9)
	assert.Equal(t, 0.5, byTerm["Terraform"].ContextWeight)
	assert.Equal(t, 0.0, byTerm["Alpha"].RelativeScore)
}

func TestScore_HugeImportanceStaysBounded(t *testing.T) {
	t.Run("max float", func(t *testing.T) {
		profile := &types.JobProfile{
			EnhancedKeywords: []types.KeywordDatum{
				{Term: "Go", Frequency: 1, SectionType: types.SectionRequired, Importance: math.MaxFloat64},
				{Term: "Rust", Frequency: 1, SectionType: types.SectionRequired, Importance: math.MaxFloat64},
			},
		}
		score := Score("Experience Go", profile, nil)

		assert.Equal(t, 35, score.Breakdown.KeywordMatch)
		assert.Equal(t, 50, score.Overall)
	})

	t.Run("infinite importance", func(t *testing.T) {
		profile := &types.JobProfile{
			EnhancedKeywords: []types.KeywordDatum{
				{Term: "Go", Frequency: 1, SectionType: types.SectionRequired, Importance: math.Inf(1)},
				{Term: "Rust", Frequency: 1, SectionType: types.SectionRequired, Importance: 1},
			},
		}
		score := Score("Experience Go", profile, nil)

		assert.Equal(t, 0, score.Breakdown.KeywordMatch)
		assert.GreaterOrEqual(t, score.Overall, 0)
		assert.LessOrEqual(t, score.Overall, 100)
	})
}

func TestClamp_NaN(t *testing.T) {
	assert.Equal(t, 0.0, clamp(math.NaN(), 0, KeywordBudget))
	assert.Equal(t, KeywordBudget, clamp(math.Inf(1), 0, KeywordBudget))
}

func termsOf(scores []types.KeywordScore) []string {
	out := make([]string, 0, len(scores))
	for _, ks := range scores {
		out = append(out, ks.Keyword.Term)
	}
	return out
}

func TestScore_Monotonic(t *testing.T) {
	profile := pythonProfile()
	base := "Experience\n" + words(60) + "\nEducation\nSkills\n"

	prev := -1
	for n := 0; n <= 6; n++ {
		text := base + strings.TrimSpace(strings.Repeat("Python ", n))
		score := Score(text, profile, nil)
		assert.GreaterOrEqual(t, score.Overall, prev, "occurrences=%d", n)
		prev = score.Overall
	}
}

func TestScore_Deterministic(t *testing.T) {
	profile := pythonProfile()
	text := "Summary\nPython engineer | builder\nExperience\n\tPython services"
	assert.Equal(t, Score(text, profile, []string{"x"}), Score(text, profile, []string{"x"}))
}

func FuzzScore(f *testing.F) {
	f.Add("")
	f.Add("Experience\nBuilt services in Python and Python again")
	f.Add("Summary | Skills\tPython, C++, .NET • email")
	f.Add(strings.Repeat("python ", 1200))

	profile := &types.JobProfile{
		KeySkills: []string{"Go"},
		EnhancedKeywords: []types.KeywordDatum{
			{Term: "Python", Frequency: 5, SectionType: types.SectionRequired, Importance: 10},
			{Term: "C++", Frequency: 1, SectionType: types.SectionPreferred, Importance: 0.3},
			{Term: "email", Frequency: 0, SectionType: types.SectionGeneral, Importance: 0},
		},
	}

	f.Fuzz(func(t *testing.T, text string) {
		a := Score(text, profile, nil)
		b := Score(text, profile, nil)
		require.Equal(t, a, b)

		assert.GreaterOrEqual(t, a.Overall, 0)
		assert.LessOrEqual(t, a.Overall, 100)
		assert.GreaterOrEqual(t, a.Breakdown.KeywordMatch, 0)
		assert.LessOrEqual(t, a.Breakdown.KeywordMatch, 70)
		assert.GreaterOrEqual(t, a.Breakdown.Formatting, 0)
		assert.LessOrEqual(t, a.Breakdown.Formatting, 10)
		assert.GreaterOrEqual(t, a.Breakdown.Length, 0)
		assert.LessOrEqual(t, a.Breakdown.Length, 10)
		assert.GreaterOrEqual(t, a.Breakdown.Sections, 0)
		assert.LessOrEqual(t, a.Breakdown.Sections, 10)
		for _, ks := range a.DetailedScores {
			assert.GreaterOrEqual(t, ks.RelativeScore, 0.0)
			assert.LessOrEqual(t, ks.RelativeScore, 100.0)
		}
	})
}

package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-tailor/internal/types"
)

func TestBuildKeywordProfile(t *testing.T) {
	sections := []Section{
		{Name: "Requirements", Type: types.SectionRequired, Text: "Python Python Django testing", Keywords: []string{"Python", " python ", "Django"}},
		{Name: "Bonus", Type: types.SectionPreferred, Text: "Terraform modules", Keywords: []string{"Terraform", "Ansible"}},
		{Name: "Empty", Type: types.SectionGeneral, Text: "", Keywords: []string{"Go"}},
	}

	got := BuildKeywordProfile(sections)
	require.Len(t, got, 5)

	tests := []struct {
		term       string
		frequency  float64
		importance float64
		sType      types.SectionType
	}{
		{term: "Python", frequency: 50, importance: 100, sType: types.SectionRequired},
		{term: "Django", frequency: 25, importance: 50, sType: types.SectionRequired},
		{term: "Terraform", frequency: 50, importance: 15, sType: types.SectionPreferred},
		{term: "Ansible", frequency: 50, importance: 15, sType: types.SectionPreferred},
		{term: "Go", frequency: 0, importance: 0, sType: types.SectionGeneral},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.term, got[i].Term)
		assert.InDelta(t, tt.frequency, got[i].Frequency, 1e-9, tt.term)
		assert.InDelta(t, tt.importance, got[i].Importance, 1e-9, tt.term)
		assert.Equal(t, tt.sType, got[i].SectionType)
	}
}

func TestDedupeTerms(t *testing.T) {
	assert.Equal(t, []string{"Go", "machine learning", "AWS"},
		DedupeTerms([]string{" Go", "GO", "machine   learning", "", "AWS,", "aws"}))
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name      string
		profile   *types.JobProfile
		wantField string
		wantErr   bool
	}{
		{name: "nil", profile: nil, wantErr: true},
		{name: "flat only", profile: &types.JobProfile{KeySkills: []string{"Go"}}},
		{
			name:    "valid keyword",
			profile: &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: "Go", Frequency: 1, Importance: 2, SectionType: types.SectionRequired}}},
		},
		{
			name:      "blank term",
			profile:   &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: " "}}},
			wantField: "enhanced_keywords[0].term",
			wantErr:   true,
		},
		{
			name:      "negative importance",
			profile:   &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: "Go", Importance: -1}}},
			wantField: "enhanced_keywords[0].importance",
			wantErr:   true,
		},
		{
			name:      "importance above limit",
			profile:   &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: "Go", Frequency: 1, Importance: math.MaxFloat64}}},
			wantField: "enhanced_keywords[0].importance",
			wantErr:   true,
		},
		{
			name:      "infinite frequency",
			profile:   &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: "Go", Frequency: math.Inf(1), Importance: 1}}},
			wantField: "enhanced_keywords[0].frequency",
			wantErr:   true,
		},
		{
			name:    "importance at limit",
			profile: &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: "Go", Frequency: 1, Importance: MaxKeywordWeight}}},
		},
		{
			name:      "unknown section type",
			profile:   &types.JobProfile{EnhancedKeywords: []types.KeywordDatum{{Term: "Go", SectionType: "optional"}}},
			wantField: "enhanced_keywords[0].section_type",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

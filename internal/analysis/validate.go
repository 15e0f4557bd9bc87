package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/ats-tailor/internal/types"
)

// MaxKeywordWeight bounds the importance and frequency accepted for a weighted keyword.
const MaxKeywordWeight = 1e6

// ValidateProfile checks the weighted keywords of a job profile loaded from outside the analyzer.
func ValidateProfile(p *types.JobProfile) error {
	if p == nil {
		return &ValidationError{Message: "job profile is required"}
	}
	for i, k := range p.EnhancedKeywords {
		field := fmt.Sprintf("enhanced_keywords[%d]", i)
		switch {
		case strings.TrimSpace(k.Term) == "":
			return &ValidationError{Field: field + ".term", Message: "term is required"}
		case badNumber(k.Frequency):
			return &ValidationError{Field: field + ".frequency", Message: fmt.Sprintf("must be a number between 0 and %g", MaxKeywordWeight)}
		case badNumber(k.Importance):
			return &ValidationError{Field: field + ".importance", Message: fmt.Sprintf("must be a number between 0 and %g", MaxKeywordWeight)}
		case k.SectionType != "" && !k.SectionType.Valid():
			return &ValidationError{Field: field + ".section_type", Message: fmt.Sprintf("unknown section type %q", k.SectionType)}
		}
	}
	return nil
}

func badNumber(v float64) bool {
	return math.IsNaN(v) || v < 0 || v > MaxKeywordWeight
}

//nolint:revive // types is a standard Go package name pattern
package types

// SectionType classifies the part of a job posting a keyword was drawn from.
type SectionType string

const (
	SectionRequired  SectionType = "required"
	SectionPreferred SectionType = "preferred"
	SectionGeneral   SectionType = "general"
)

// Importance multipliers per section type.
const (
	RequiredMultiplier  = 2.0
	GeneralMultiplier   = 1.0
	PreferredMultiplier = 0.3
)

// Multiplier returns the importance multiplier for the section type.
// Unknown values are weighted as general.
func (s SectionType) Multiplier() float64 {
	switch s {
	case SectionRequired:
		return RequiredMultiplier
	case SectionPreferred:
		return PreferredMultiplier
	default:
		return GeneralMultiplier
	}
}

// Valid reports whether s is one of the known section types.
func (s SectionType) Valid() bool {
	return s == SectionRequired || s == SectionPreferred || s == SectionGeneral
}

// KeywordDatum is one weighted keyword extracted from a job posting.
type KeywordDatum struct {
	Term        string      `json:"term" toml:"term"`
	Frequency   float64     `json:"frequency" toml:"frequency"` // percent of words in its section
	Section     string      `json:"section" toml:"section"`     // free-form section label
	SectionType SectionType `json:"section_type" toml:"section_type"`
	Importance  float64     `json:"importance" toml:"importance"` // frequency x section multiplier
}

// JobProfile is the structured analysis of a job posting that resumes are scored against.
type JobProfile struct {
	KeySkills               []string       `json:"key_skills" toml:"key_skills"`
	RequiredQualifications  []string       `json:"required_qualifications" toml:"required_qualifications"`
	PreferredQualifications []string       `json:"preferred_qualifications" toml:"preferred_qualifications"`
	Keywords                []string       `json:"keywords" toml:"keywords"`
	EnhancedKeywords        []KeywordDatum `json:"enhanced_keywords,omitempty" toml:"enhanced_keywords"`

	CompanyValues   []string `json:"company_values,omitempty" toml:"company_values"`
	ExperienceLevel string   `json:"experience_level,omitempty" toml:"experience_level"`
	Summary         string   `json:"summary,omitempty" toml:"summary"`
}

// FlatTerms returns key skills, keywords and required qualifications concatenated in that order.
func (p *JobProfile) FlatTerms() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.KeySkills)+len(p.Keywords)+len(p.RequiredQualifications))
	out = append(out, p.KeySkills...)
	out = append(out, p.Keywords...)
	out = append(out, p.RequiredQualifications...)
	return out
}

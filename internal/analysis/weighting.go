package analysis

import (
	"strings"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/types"
)

// Section is one part of a job posting with the keywords drawn from it.
type Section struct {
	Name     string            `json:"name"`
	Type     types.SectionType `json:"type"`
	Text     string            `json:"text"`
	Keywords []string          `json:"keywords"`
}

// BuildKeywordProfile weighs every section keyword.
//
// Frequency is the keyword's share of the section's words as a percentage, counted with the same
// tokenizer the scorer uses on resumes. A keyword the section text never spells out counts as one
// occurrence. Importance is frequency times the section type multiplier.
func BuildKeywordProfile(sections []Section) []types.KeywordDatum {
	var out []types.KeywordDatum
	for _, sec := range sections {
		sectionType := sec.Type
		if !sectionType.Valid() {
			sectionType = types.SectionGeneral
		}
		words := ats.CountWords(sec.Text)

		for _, term := range DedupeTerms(sec.Keywords) {
			occ := max(ats.CountOccurrences(sec.Text, term), 1)
			freq := ats.Frequency(occ, words)
			out = append(out, types.KeywordDatum{
				Term:        term,
				Frequency:   freq,
				Section:     sec.Name,
				SectionType: sectionType,
				Importance:  freq * sectionType.Multiplier(),
			})
		}
	}
	return out
}

// fallbackSections treats the whole description as one general section when the model
// did not split it.
func fallbackSections(description string, keySkills, keywords []string) []Section {
	terms := append(append([]string{}, keySkills...), keywords...)
	if len(terms) == 0 || strings.TrimSpace(description) == "" {
		return nil
	}
	return []Section{{Name: "description", Type: types.SectionGeneral, Text: description, Keywords: terms}}
}

package types

// KeywordScore holds the per-keyword metrics computed for one resume.
type KeywordScore struct {
	Keyword         KeywordDatum `json:"keyword"`
	Occurrences     int          `json:"occurrences"`
	ResumeFrequency float64      `json:"resume_frequency"`
	RelativeScore   float64      `json:"relative_score"`
	ContextWeight   float64      `json:"context_weight"`
	Contexts        []string     `json:"contexts"`
	FinalScore      float64      `json:"final_score"`
}

// Breakdown holds the four rounded sub-scores. Budgets are 70/10/10/10.
type Breakdown struct {
	KeywordMatch int `json:"keyword_match"`
	Formatting   int `json:"formatting"`
	Length       int `json:"length"`
	Sections     int `json:"sections"`
}

// ATSScore is the full result of scoring one resume against one job profile.
//
// Overall is the rounded sum of the unrounded sub-scores, so it can differ by one
// from the sum of the Breakdown fields.
type ATSScore struct {
	Overall         int            `json:"overall"`
	Breakdown       Breakdown      `json:"breakdown"`
	Recommendations []string       `json:"recommendations"`
	MatchedKeywords []string       `json:"matched_keywords"`
	MissingKeywords []string       `json:"missing_keywords"`
	TopKeywords     []KeywordScore `json:"top_keywords"`
	OtherKeywords   []KeywordScore `json:"other_keywords"`
	DetailedScores  []KeywordScore `json:"detailed_scores"`
}

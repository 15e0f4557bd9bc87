// Package analysis turns a job description into the weighted job profile the ATS scorer consumes.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/logging"
	"github.com/jonathan/ats-tailor/internal/metrics"
	"github.com/jonathan/ats-tailor/internal/prompts"
	"github.com/jonathan/ats-tailor/internal/types"
)

// Cache stores analyses by description hash. GetProfile returns nil, nil on a miss.
type Cache interface {
	GetProfile(ctx context.Context, key string) (*types.JobProfile, error)
	SetProfile(ctx context.Context, key string, profile *types.JobProfile) error
}

// Analyzer extracts job profiles with an LLM and weighs their keywords deterministically.
type Analyzer struct {
	client llm.Client
	cache  Cache
	logger *zap.Logger
	tier   llm.ModelTier
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCache enables caching of analyses.
func WithCache(c Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithLogger sets the analyzer's logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = logging.OrNop(l) }
}

// WithTier selects the model tier used for analysis.
func WithTier(t llm.ModelTier) Option {
	return func(a *Analyzer) { a.tier = t }
}

// NewAnalyzer creates an Analyzer backed by client.
func NewAnalyzer(client llm.Client, opts ...Option) *Analyzer {
	a := &Analyzer{client: client, logger: logging.NewNop(), tier: llm.TierStandard}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// modelAnalysis is the JSON shape requested from the model.
type modelAnalysis struct {
	KeySkills               []string  `json:"key_skills"`
	RequiredQualifications  []string  `json:"required_qualifications"`
	PreferredQualifications []string  `json:"preferred_qualifications"`
	CompanyValues           []string  `json:"company_values"`
	Keywords                []string  `json:"keywords"`
	ExperienceLevel         string    `json:"experience_level"`
	Summary                 string    `json:"summary"`
	Sections                []Section `json:"sections"`
}

// Analyze returns the job profile for description, from cache when possible.
func (a *Analyzer) Analyze(ctx context.Context, description string) (*types.JobProfile, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &ValidationError{Field: "job_description", Message: "job description is required"}
	}

	key := HashDescription(description)
	if a.cache != nil {
		cached, err := a.cache.GetProfile(ctx, key)
		switch {
		case err != nil:
			a.logger.Warn("analysis cache read failed", zap.String("key", key), zap.Error(err))
		case cached != nil:
			metrics.AnalysisCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.AnalysisCache.WithLabelValues("miss").Inc()
		}
	}

	prompt, err := prompts.Render("analysis.json", "analyze-job", map[string]string{"JobDescription": description})
	if err != nil {
		return nil, err
	}
	response, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to analyze job description", Cause: err}
	}

	profile, err := ParseAnalysis(response, description)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("job analyzed",
		zap.Int("key_skills", len(profile.KeySkills)),
		zap.Int("weighted_keywords", len(profile.EnhancedKeywords)))

	if a.cache != nil {
		if err := a.cache.SetProfile(ctx, key, profile); err != nil {
			a.logger.Warn("analysis cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return profile, nil
}

// ParseAnalysis converts a model response into a job profile with weighted keywords.
func ParseAnalysis(response, description string) (*types.JobProfile, error) {
	body := llm.ExtractJSONObject(llm.CleanJSONBlock(response))
	var m modelAnalysis
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		return nil, &ParseError{Message: "failed to parse analysis JSON", Cause: err}
	}

	profile := &types.JobProfile{
		KeySkills:               DedupeTerms(m.KeySkills),
		RequiredQualifications:  DedupeTerms(m.RequiredQualifications),
		PreferredQualifications: DedupeTerms(m.PreferredQualifications),
		Keywords:                DedupeTerms(m.Keywords),
		CompanyValues:           DedupeTerms(m.CompanyValues),
		ExperienceLevel:         strings.ToLower(strings.TrimSpace(m.ExperienceLevel)),
		Summary:                 strings.TrimSpace(m.Summary),
	}

	sections := m.Sections
	if len(sections) == 0 {
		sections = fallbackSections(description, profile.KeySkills, profile.Keywords)
	}
	profile.EnhancedKeywords = BuildKeywordProfile(sections)
	return profile, nil
}

// HashDescription returns the cache key for a job description.
func HashDescription(description string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(description)))
	return hex.EncodeToString(sum[:])
}

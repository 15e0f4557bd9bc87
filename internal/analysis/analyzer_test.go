package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/types"
)

type fakeClient struct {
	response string
	err      error
	calls    int
	prompts  []string
	tiers    []llm.ModelTier
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeClient) Close() error { return nil }

type memoryCache struct {
	profiles map[string]*types.JobProfile
	getErr   error
}

func (m *memoryCache) GetProfile(_ context.Context, key string) (*types.JobProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.profiles[key], nil
}

func (m *memoryCache) SetProfile(_ context.Context, key string, p *types.JobProfile) error {
	m.profiles[key] = p
	return nil
}

const sampleResponse = "```json\n" + `{
  "key_skills": ["Go", "go ", "Kubernetes"],
  "required_qualifications": ["5+ years of Go"],
  "preferred_qualifications": ["Kafka experience"],
  "company_values": ["Ownership"],
  "keywords": ["microservices", "Kubernetes"],
  "experience_level": " Senior ",
  "summary": "Build backend services.",
  "sections": [
    {"name": "Requirements", "type": "required", "text": "Go services with Go and Kubernetes", "keywords": ["Go", "Kubernetes"]},
    {"name": "Nice to have", "type": "preferred", "text": "Kafka streaming", "keywords": ["Kafka"]},
    {"name": "About", "type": "mystery", "text": "We ship microservices daily", "keywords": ["microservices"]}
  ]
}` + "\n```"

func TestAnalyze(t *testing.T) {
	client := &fakeClient{response: sampleResponse}
	a := NewAnalyzer(client, WithLogger(zaptest.NewLogger(t)))

	profile, err := a.Analyze(context.Background(), "Senior Go engineer")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Kubernetes"}, profile.KeySkills)
	assert.Equal(t, []string{"microservices", "Kubernetes"}, profile.Keywords)
	assert.Equal(t, "senior", profile.ExperienceLevel)
	assert.Equal(t, llm.TierStandard, client.tiers[0])
	assert.Contains(t, client.prompts[0], "Senior Go engineer")

	require.Len(t, profile.EnhancedKeywords, 4)
	goKw := profile.EnhancedKeywords[0]
	assert.Equal(t, "Go", goKw.Term)
	assert.Equal(t, types.SectionRequired, goKw.SectionType)
	// only "services" and "kubernetes" count as words; "Go" is too short.
	assert.InDelta(t, 2.0/2*100, goKw.Frequency, 1e-9)
	assert.InDelta(t, goKw.Frequency*types.RequiredMultiplier, goKw.Importance, 1e-9)

	kafka := profile.EnhancedKeywords[2]
	assert.Equal(t, types.SectionPreferred, kafka.SectionType)
	assert.InDelta(t, kafka.Frequency*types.PreferredMultiplier, kafka.Importance, 1e-9)

	assert.Equal(t, types.SectionGeneral, profile.EnhancedKeywords[3].SectionType)
}

func TestAnalyze_Cache(t *testing.T) {
	client := &fakeClient{response: sampleResponse}
	cache := &memoryCache{profiles: map[string]*types.JobProfile{}}
	a := NewAnalyzer(client, WithCache(cache))

	first, err := a.Analyze(context.Background(), "Senior Go engineer")
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "  Senior Go engineer\n")
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Same(t, first, second)
}

func TestAnalyze_CacheReadErrorFallsThrough(t *testing.T) {
	client := &fakeClient{response: sampleResponse}
	cache := &memoryCache{profiles: map[string]*types.JobProfile{}, getErr: errors.New("redis down")}
	a := NewAnalyzer(client, WithCache(cache))

	_, err := a.Analyze(context.Background(), "Senior Go engineer")
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestAnalyze_Errors(t *testing.T) {
	t.Run("empty description", func(t *testing.T) {
		_, err := NewAnalyzer(&fakeClient{}).Analyze(context.Background(), "   ")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "job_description", vErr.Field)
	})

	t.Run("model failure", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		_, err := NewAnalyzer(&fakeClient{err: cause}).Analyze(context.Background(), "job")
		var apiErr *APICallError
		require.ErrorAs(t, err, &apiErr)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := NewAnalyzer(&fakeClient{response: "not json"}).Analyze(context.Background(), "job")
		var pErr *ParseError
		assert.ErrorAs(t, err, &pErr)
	})
}

func TestParseAnalysis_FallbackSection(t *testing.T) {
	description := "We need Go and Docker. Docker everywhere."
	profile, err := ParseAnalysis(`{"key_skills": ["Docker"], "keywords": ["Go"]}`, description)
	require.NoError(t, err)

	require.Len(t, profile.EnhancedKeywords, 2)
	docker := profile.EnhancedKeywords[0]
	assert.Equal(t, "Docker", docker.Term)
	assert.Equal(t, "description", docker.Section)
	assert.Equal(t, types.SectionGeneral, docker.SectionType)
	// counted words: need, docker, docker, everywhere
	assert.InDelta(t, 50.0, docker.Frequency, 1e-9)
	assert.InDelta(t, 50.0, docker.Importance, 1e-9)
}

func TestExtractMetadata(t *testing.T) {
	client := &fakeClient{response: `Sure: {"title": " Staff Engineer ", "company": "Acme"}`}
	meta, err := NewAnalyzer(client).ExtractMetadata(context.Background(), "Staff Engineer at Acme")
	require.NoError(t, err)
	assert.Equal(t, &PostingMetadata{Title: "Staff Engineer", Company: "Acme"}, meta)
	assert.Equal(t, llm.TierLite, client.tiers[0])
}

func TestHashDescription(t *testing.T) {
	assert.Equal(t, HashDescription("abc"), HashDescription(" abc \n"))
	assert.NotEqual(t, HashDescription("abc"), HashDescription("abd"))
	assert.Len(t, HashDescription("abc"), 64)
}

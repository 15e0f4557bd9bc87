// Package llm wraps the generative model used for job-description analysis.
package llm

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for cheap extraction such as posting metadata.
	TierLite ModelTier = "lite"
	// TierStandard is for structured job analysis.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy postings that need more reasoning.
	TierAdvanced ModelTier = "advanced"
)

// DefaultTemperature keeps analysis output stable across calls.
const DefaultTemperature = 0.1

// Config holds the model names per tier and sampling settings.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a tier, falling back to standard and then lite.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithOverrides returns a copy of c with the given tier -> model overrides applied.
// Unknown tiers and empty model names are ignored.
func (c *Config) WithOverrides(overrides map[string]string) *Config {
	out := &Config{Models: make(map[ModelTier]string, len(c.Models)), Temperature: c.Temperature}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	for tier, model := range overrides {
		t := ModelTier(tier)
		if model == "" || (t != TierLite && t != TierStandard && t != TierAdvanced) {
			continue
		}
		out.Models[t] = model
	}
	return out
}

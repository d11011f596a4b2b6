package config

import "time"

// LLMConfig configures the language-model client used for intent parsing,
// planning and content analysis.
type LLMConfig struct {
	Provider      string  `yaml:"provider"` // gemini, none
	APIKey        string  `yaml:"api_key"`
	Model         string  `yaml:"model"`
	FallbackModel string  `yaml:"fallback_model"` // retried once when Model is rejected (400/404)
	BaseURL       string  `yaml:"base_url"`
	Timeout       string  `yaml:"timeout"`
	Temperature   float32 `yaml:"temperature"`
}

// Enabled reports whether a model can be called at all. Without one the
// pipeline still runs on matchers alone and falls back to listing.
func (l LLMConfig) Enabled() bool {
	return l.Provider != "none" && l.APIKey != ""
}

// DefaultLLMConfig mirrors the models the web app shipped with.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:      "gemini",
		Model:         "gemini-2.0-flash",
		FallbackModel: "gemini-1.5-flash",
		Timeout:       "60s",
		Temperature:   0.2,
	}
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

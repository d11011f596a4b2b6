package perception

import (
	"context"
	"fmt"

	"organizer/internal/config"
)

// NewClientFromConfig builds the model client stack for cfg: Gemini primary,
// Gemini fallback on rejected model ids, each call traced. It returns nil
// (and no error) when no model is configured; the pipeline then runs on
// matchers alone.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (LLMClient, error) {
	if !cfg.LLM.Enabled() {
		return nil, nil
	}
	if cfg.LLM.Provider != "gemini" {
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}

	primary, err := NewGenAIClient(ctx, GenAIConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.GetLLMTimeout(),
	})
	if err != nil {
		return nil, err
	}

	var fallback LLMClient
	if fb := cfg.LLM.FallbackModel; fb != "" && fb != primary.Model() {
		fallback = NewTracingLLMClient(primary.WithModel(fb))
	}
	return NewFallbackClient(NewTracingLLMClient(primary), fallback), nil
}

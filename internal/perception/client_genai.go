package perception

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"organizer/internal/types"

	"google.golang.org/genai"
)

// =============================================================================
// GOOGLE GENAI CLIENT
// =============================================================================

// GenAIConfig configures a Gemini client.
type GenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// GenAIClient calls Gemini's generateContent with a JSON response MIME type.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

var _ LLMClient = (*GenAIClient)(nil)

// NewGenAIClient creates a Gemini client.
func NewGenAIClient(ctx context.Context, cfg GenAIConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// WithModel returns a client sharing the same connection but targeting
// another model.
func (c *GenAIClient) WithModel(model string) *GenAIClient {
	cp := *c
	cp.model = model
	return &cp
}

// Model returns the model identifier.
func (c *GenAIClient) Model() string { return c.model }

// Complete sends parts as a single user turn and returns the concatenated
// text of the first candidate.
func (c *GenAIClient) Complete(ctx context.Context, parts []Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gparts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsBinary() {
			gparts = append(gparts, genai.NewPartFromBytes(p.Data, p.MimeType))
			continue
		}
		gparts = append(gparts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(gparts, genai.RoleUser)}

	temp := c.temperature
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	})
	if err != nil {
		return "", &TransportError{Model: c.model, StatusCode: statusOf(err), Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", types.InvalidModelResponse(fmt.Errorf("%s: no candidates in response", c.model))
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", types.InvalidModelResponse(fmt.Errorf("%s: empty response text", c.model))
	}
	return sb.String(), nil
}

// statusOf extracts the HTTP status from a genai error. Timeouts map to 0.
func statusOf(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

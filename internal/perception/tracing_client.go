package perception

import (
	"context"
	"time"

	"organizer/internal/logging"
	"organizer/internal/metrics"

	"go.uber.org/zap"
)

// TracingLLMClient wraps any LLMClient and records every call: latency and
// outcome metrics plus a structured log line carrying the request id.
type TracingLLMClient struct {
	underlying LLMClient
	model      string
}

var _ LLMClient = (*TracingLLMClient)(nil)

// NewTracingLLMClient creates a tracing wrapper around an existing client.
func NewTracingLLMClient(underlying LLMClient) *TracingLLMClient {
	return &TracingLLMClient{underlying: underlying, model: modelName(underlying)}
}

// Model reports the wrapped model.
func (tc *TracingLLMClient) Model() string { return tc.model }

func (tc *TracingLLMClient) Complete(ctx context.Context, parts []Part) (string, error) {
	textLen, binaries := 0, 0
	for _, p := range parts {
		if p.IsBinary() {
			binaries++
		} else {
			textLen += len(p.Text)
		}
	}

	log := logging.For(ctx, logging.CategoryModel)
	log.Debug("model call started", zap.String("model", tc.model),
		zap.Int("prompt_len", textLen), zap.Int("inline_parts", binaries))
	logging.Audit(ctx, logging.AuditModelRequest, "", tc.model, nil)

	start := time.Now()
	response, err := tc.underlying.Complete(ctx, parts)
	duration := time.Since(start)
	metrics.RecordModelCall(tc.model, duration, err)

	if err != nil {
		log.Warn("model call failed", zap.String("model", tc.model),
			zap.Duration("dur", duration), zap.Error(err))
		logging.Audit(ctx, logging.AuditModelError, "", tc.model, err)
		return "", err
	}
	log.Debug("model call completed", zap.String("model", tc.model),
		zap.Duration("dur", duration), zap.Int("response_len", len(response)))
	return response, nil
}

package perception

import (
	"context"
	"errors"

	"organizer/internal/logging"

	"go.uber.org/zap"
)

// attempt is the state of a FallbackClient call.
type attempt int

const (
	attemptPrimary attempt = iota
	attemptFallback
	attemptFailed
)

func (a attempt) String() string {
	switch a {
	case attemptPrimary:
		return "primary"
	case attemptFallback:
		return "fallback"
	default:
		return "failed"
	}
}

// FallbackClient tries the primary model and, only when it is rejected as a
// bad or unavailable identifier (400/404), retries exactly once on the
// fallback model.
type FallbackClient struct {
	primary  LLMClient
	fallback LLMClient
}

var _ LLMClient = (*FallbackClient)(nil)

// NewFallbackClient wires the two models. A nil fallback disables retry.
func NewFallbackClient(primary, fallback LLMClient) *FallbackClient {
	return &FallbackClient{primary: primary, fallback: fallback}
}

// Model reports the primary model.
func (f *FallbackClient) Model() string { return modelName(f.primary) }

func (f *FallbackClient) Complete(ctx context.Context, parts []Part) (string, error) {
	state := attemptPrimary
	var lastErr error
	for state != attemptFailed {
		client := f.primary
		if state == attemptFallback {
			client = f.fallback
		}

		out, err := client.Complete(ctx, parts)
		if err == nil {
			return out, nil
		}
		lastErr = err
		state = f.next(ctx, state, err)
	}
	return "", lastErr
}

// next is the transition function of the two-attempt strategy.
func (f *FallbackClient) next(ctx context.Context, from attempt, err error) attempt {
	if from != attemptPrimary || f.fallback == nil {
		return attemptFailed
	}
	var te *TransportError
	if !errors.As(err, &te) || !te.ModelRejected() {
		return attemptFailed
	}
	logging.For(ctx, logging.CategoryModel).Warn("primary model rejected, retrying on fallback",
		zap.String("primary", modelName(f.primary)),
		zap.String("fallback", modelName(f.fallback)),
		zap.Int("status", te.StatusCode))
	logging.Audit(ctx, logging.AuditModelFallback, "", modelName(f.fallback), nil)
	return attemptFallback
}

package perception

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// =============================================================================
// MODEL-BACKED INTENT PARSER
// =============================================================================

// actionMultiStep is the pseudo-action the model uses for a step list.
const actionMultiStep = "multi_step"

// ParsedIntent is what the model said, before any fallback is applied.
type ParsedIntent struct {
	Action    types.ActionKind
	RawAction string
	Params    types.Params
	Steps     []types.CanonicalAction
}

// Recognized reports whether the intent names a canonical action or at
// least one step.
func (p *ParsedIntent) Recognized() bool {
	return p.Action.Valid() || len(p.Steps) > 0
}

// Actions returns the intent as executable actions.
func (p *ParsedIntent) Actions() []types.CanonicalAction {
	if len(p.Steps) > 0 {
		return p.Steps
	}
	if p.Action.Valid() {
		return []types.CanonicalAction{types.NewAction(p.Action, p.Params)}
	}
	return nil
}

// IntentParser turns a free-text request into an intent via the model.
type IntentParser struct {
	client LLMClient
}

// NewIntentParser creates a parser over client.
func NewIntentParser(client LLMClient) *IntentParser {
	return &IntentParser{client: client}
}

// Parse asks the model for an intent. Transport failures come back wrapped
// with ErrModelTransport; unusable output is ErrInvalidModelResponse.
func (p *IntentParser) Parse(ctx context.Context, spec PromptSpec) (*ParsedIntent, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("intent parser: %w", errors.Join(types.ErrModelTransport, errors.New("no model configured")))
	}
	log := logging.For(ctx, logging.CategoryPerception)

	response, err := p.client.Complete(ctx, []Part{TextPart(BuildIntentPrompt(spec))})
	if err != nil {
		return nil, fmt.Errorf("intent model call failed: %w", err)
	}

	obj, err := DecodeObject(response)
	if err != nil {
		log.Warn("model returned no usable JSON", zap.Int("response_len", len(response)))
		return nil, err
	}

	intent := &ParsedIntent{
		RawAction: strings.ToLower(strings.TrimSpace(types.ExtractString(obj["action"]))),
		Params:    paramsOf(obj["params"]),
		Steps:     decodeSteps(obj["steps"]),
	}
	if intent.RawAction != actionMultiStep {
		intent.Action = types.ActionKind(intent.RawAction)
		if intent.Action.Valid() {
			intent.Steps = nil
		}
	}

	log.Debug("intent parsed", zap.String("action", intent.RawAction), zap.Int("steps", len(intent.Steps)))
	return intent, nil
}

func paramsOf(v any) types.Params {
	if m, ok := v.(map[string]any); ok {
		return types.Params(m)
	}
	return types.Params{}
}

// decodeSteps normalizes a model step list: actions lowercased and the
// confirmation flag forced for destructive kinds. Unknown actions are kept
// so the executor can reject them per step.
func decodeSteps(v any) []types.CanonicalAction {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	steps := make([]types.CanonicalAction, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		kind := types.ActionKind(strings.ToLower(strings.TrimSpace(types.ExtractString(m["action"]))))
		if kind == "" {
			continue
		}
		step := types.NewAction(kind, paramsOf(m["params"]))
		if confirm, ok := types.ExtractBool(m["requiresConfirm"]); ok && confirm {
			step.RequiresConfirm = true
		}
		steps = append(steps, step)
	}
	return steps
}

package perception

import (
	"context"
	"strings"

	"organizer/internal/logging"
	"organizer/internal/metrics"
	"organizer/internal/resolver"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// =============================================================================
// TRANSDUCER - text to canonical actions
// =============================================================================
//
// The transducer is the perception front door: matchers first, the model
// second, and a safe listing of the current folder when neither produces a
// usable action.

// Source says how a command was interpreted.
type Source string

const (
	SourceMatcher  Source = "matcher"
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
	// SourceApproved marks actions the user confirmed after a hold; they
	// are run as sent and never interpreted again.
	SourceApproved Source = "approved"
)

// Request is one command to interpret.
type Request struct {
	Text    string
	Current string
	Known   []types.DirectoryEntry // optional; defaults to cached root + current
}

// Interpretation is the action list for a command.
type Interpretation struct {
	Actions  []types.CanonicalAction `json:"actions"`
	Source   Source                  `json:"source"`
	Rule     string                  `json:"rule,omitempty"`
	Fallback bool                    `json:"fallback,omitempty"`
	Message  string                  `json:"message,omitempty"`
}

// Transducer interprets commands.
type Transducer struct {
	resolver *resolver.Resolver
	parser   *IntentParser
	fs       Stater
}

// NewTransducer wires the pipeline. parser may be nil, in which case
// unmatched commands fall back directly.
func NewTransducer(r *resolver.Resolver, parser *IntentParser, fs Stater) *Transducer {
	return &Transducer{resolver: r, parser: parser, fs: fs}
}

// Interpret maps req to actions. The only errors returned are explicit user
// mistakes caught by a matcher and an empty request; model trouble becomes a
// fallback interpretation.
func (t *Transducer) Interpret(ctx context.Context, req Request) (*Interpretation, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, types.InvalidArgument("command", "query required")
	}
	log := logging.For(ctx, logging.CategoryPerception)

	known := req.Known
	if len(known) == 0 && t.resolver != nil {
		known = t.resolver.Known(ctx, req.Current)
	}
	mc := &MatchContext{Current: req.Current, Known: known, Resolver: t.resolver, FS: t.fs}

	if m := MatchCommand(ctx, text, mc); m != nil {
		metrics.RecordMatcherHit(m.Rule)
		metrics.RecordCommand(string(SourceMatcher))
		if m.Err != nil {
			log.Info("matcher rejected command", zap.String("rule", m.Rule), zap.Error(m.Err))
			return nil, m.Err
		}
		log.Debug("matched", zap.String("rule", m.Rule), zap.Int("actions", len(m.Actions)))
		logging.Audit(ctx, logging.AuditIntentParsed, string(m.Actions[0].Action), m.Rule, nil)
		return &Interpretation{Actions: m.Actions, Source: SourceMatcher, Rule: m.Rule}, nil
	}

	if t.parser == nil || t.parser.client == nil {
		return t.fallback(ctx, req.Current, "no language model configured"), nil
	}

	intent, err := t.parser.Parse(ctx, PromptSpec{
		Query:   StripFiller(text),
		Current: req.Current,
		Listing: known,
	})
	if err != nil {
		log.Warn("model interpretation failed", zap.Error(err))
		return t.fallback(ctx, req.Current, err.Error()), nil
	}
	if !intent.Recognized() {
		msg := "could not understand the request"
		if intent.RawAction != "" {
			msg = "unknown action " + intent.RawAction
		}
		return t.fallback(ctx, req.Current, msg), nil
	}

	metrics.RecordCommand(string(SourceModel))
	actions := intent.Actions()
	logging.Audit(ctx, logging.AuditIntentParsed, string(actions[0].Action), "model", nil)
	return &Interpretation{Actions: actions, Source: SourceModel}, nil
}

// fallback is the safe default: list the current folder.
func (t *Transducer) fallback(ctx context.Context, current, reason string) *Interpretation {
	metrics.RecordCommand(string(SourceFallback))
	logging.Audit(ctx, logging.AuditIntentFallback, string(types.ActionList), current, nil,
		zap.String("reason", reason))
	return &Interpretation{
		Actions:  []types.CanonicalAction{types.NewAction(types.ActionList, types.Params{"path": current})},
		Source:   SourceFallback,
		Fallback: true,
		Message:  reason,
	}
}

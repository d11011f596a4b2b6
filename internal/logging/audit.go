package logging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENTS
// =============================================================================

// AuditEventType names one step of a command's lifecycle.
type AuditEventType string

const (
	AuditCommandStart   AuditEventType = "command_start"
	AuditIntentParsed   AuditEventType = "intent_parsed"
	AuditIntentFallback AuditEventType = "intent_fallback"
	AuditActionExecute  AuditEventType = "action_execute"
	AuditActionComplete AuditEventType = "action_complete"
	AuditActionError    AuditEventType = "action_error"
	AuditConfirmHold    AuditEventType = "confirm_hold"
	AuditModelRequest   AuditEventType = "model_request"
	AuditModelFallback  AuditEventType = "model_fallback"
	AuditModelError     AuditEventType = "model_error"
	AuditMetaWrite      AuditEventType = "meta_write"
)

type requestIDKey struct{}

// NewRequestID returns a fresh correlation id.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores id on ctx. An empty id generates one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRequestID()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id carried by ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// For returns the category logger decorated with the request id from ctx.
func For(ctx context.Context, category Category) *zap.Logger {
	l := Get(category)
	if id := RequestID(ctx); id != "" {
		return l.With(zap.String("req", id))
	}
	return l
}

// Audit records one lifecycle event under the "audit" logger name.
// The target is the workspace-relative path or model name the event concerns.
func Audit(ctx context.Context, event AuditEventType, action, target string, err error, fields ...zap.Field) {
	l := For(ctx, CategoryExecutor).Named("audit")
	base := []zap.Field{
		zap.String("event", string(event)),
		zap.Int64("ts_ms", time.Now().UnixMilli()),
	}
	if action != "" {
		base = append(base, zap.String("action", action))
	}
	if target != "" {
		base = append(base, zap.String("target", target))
	}
	base = append(base, fields...)
	if err != nil {
		l.Warn("audit", append(base, zap.Error(err))...)
		return
	}
	l.Info("audit", base...)
}

// Timed returns a func that, when called, logs event with the elapsed time.
func Timed(ctx context.Context, event AuditEventType, action, target string) func(err error) {
	start := time.Now()
	return func(err error) {
		Audit(ctx, event, action, target, err, zap.Duration("dur", time.Since(start)))
	}
}

// Package metrics holds the Prometheus instruments for the command
// pipeline. Instruments are auto-registered via promauto on the default
// registry; Handler exposes them.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"organizer/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// commandsTotal counts interpreted commands by how they were resolved.
	//
	// Labels:
	//   - source: "matcher", "model", "fallback"
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organizer",
			Subsystem: "pipeline",
			Name:      "commands_total",
			Help:      "Commands interpreted, by resolution source.",
		},
		[]string{"source"},
	)

	// matcherHitsTotal counts which pattern rule claimed a command.
	matcherHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organizer",
			Subsystem: "pipeline",
			Name:      "matcher_hits_total",
			Help:      "Commands claimed by each pattern rule.",
		},
		[]string{"rule"},
	)

	// actionsTotal counts executed actions.
	//
	// Labels:
	//   - action: canonical action name
	//   - status: "success" or an error kind
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organizer",
			Subsystem: "executor",
			Name:      "actions_total",
			Help:      "Executed actions by outcome.",
		},
		[]string{"action", "status"},
	)

	actionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "organizer",
			Subsystem: "executor",
			Name:      "action_duration_seconds",
			Help:      "Duration of executed actions in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"action"},
	)

	modelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organizer",
			Subsystem: "model",
			Name:      "calls_total",
			Help:      "Language-model calls by model and outcome.",
		},
		[]string{"model", "status"},
	)

	modelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "organizer",
			Subsystem: "model",
			Name:      "call_duration_seconds",
			Help:      "Duration of language-model calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "organizer",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "organizer",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

// RecordCommand counts one interpreted command.
func RecordCommand(source string) {
	commandsTotal.WithLabelValues(source).Inc()
}

// RecordMatcherHit counts a rule claiming a command.
func RecordMatcherHit(rule string) {
	matcherHitsTotal.WithLabelValues(rule).Inc()
}

// RecordAction records one executed action.
func RecordAction(action types.ActionKind, d time.Duration, err error) {
	actionsTotal.WithLabelValues(string(action), Status(err)).Inc()
	actionDuration.WithLabelValues(string(action)).Observe(d.Seconds())
}

// RecordModelCall records one model call.
func RecordModelCall(model string, d time.Duration, err error) {
	modelCallsTotal.WithLabelValues(model, Status(err)).Inc()
	modelCallDuration.WithLabelValues(model).Observe(d.Seconds())
}

// RecordHTTP records one served request.
func RecordHTTP(route, method string, code int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Status maps err to a label-safe outcome.
func Status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	case errors.Is(err, types.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	case errors.Is(err, types.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, types.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, types.ErrInvalidModelResponse):
		return "invalid_model_response"
	case errors.Is(err, types.ErrModelTransport):
		return "transport"
	default:
		return "error"
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

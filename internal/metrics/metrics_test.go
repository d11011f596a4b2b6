package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"organizer/internal/types"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{types.AccessDenied("move", "x"), "access_denied"},
		{types.NotFound("stat", "x", nil), "not_found"},
		{types.InvalidArgument("move", "from required"), "invalid_argument"},
		{types.Unsupported("explode"), "unsupported"},
		{types.InvalidModelResponse(errors.New("junk")), "invalid_model_response"},
		{fmt.Errorf("call: %w", types.ErrModelTransport), "transport"},
		{context.DeadlineExceeded, "timeout"},
		{errors.New("other"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err))
	}
}

func TestRecordAction(t *testing.T) {
	before := testutil.ToFloat64(actionsTotal.WithLabelValues("rename", "success"))
	RecordAction(types.ActionRename, 3*time.Millisecond, nil)
	after := testutil.ToFloat64(actionsTotal.WithLabelValues("rename", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordCommandAndMatcher(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("fallback"))
	RecordCommand("fallback")
	assert.Equal(t, before+1, testutil.ToFloat64(commandsTotal.WithLabelValues("fallback")))

	beforeHit := testutil.ToFloat64(matcherHitsTotal.WithLabelValues("list"))
	RecordMatcherHit("list")
	assert.Equal(t, beforeHit+1, testutil.ToFloat64(matcherHitsTotal.WithLabelValues("list")))
}

func TestHandler_ExposesInstruments(t *testing.T) {
	RecordModelCall("gemini-test", time.Second, nil)
	RecordHTTP("/healthz", "GET", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "organizer_model_calls_total"))
	assert.True(t, strings.Contains(body, `organizer_http_requests_total{code="200",method="GET",route="/healthz"}`))
}

package perception

import (
	"context"
	"errors"
	"testing"

	"organizer/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rejected(status int) error {
	return &TransportError{Model: "primary", StatusCode: status, Err: errors.New("bad model")}
}

func TestFallbackClient_RetriesOnceOnRejectedModel(t *testing.T) {
	for _, status := range []int{400, 404} {
		primary := &scriptedClient{model: "primary", errs: []error{rejected(status)}}
		fallback := &scriptedClient{model: "fallback", responses: []string{`{"action":"list"}`}}

		out, err := NewFallbackClient(primary, fallback).Complete(context.Background(), []Part{TextPart("hi")})
		require.NoError(t, err)
		assert.Equal(t, `{"action":"list"}`, out)
		assert.Equal(t, 1, primary.calls())
		assert.Equal(t, 1, fallback.calls())
	}
}

func TestFallbackClient_NoRetryOnServerError(t *testing.T) {
	primary := &scriptedClient{model: "primary", errs: []error{rejected(500)}}
	fallback := &scriptedClient{model: "fallback"}

	_, err := NewFallbackClient(primary, fallback).Complete(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrModelTransport))
	assert.Zero(t, fallback.calls())
}

func TestFallbackClient_FailsAfterSecondRejection(t *testing.T) {
	primary := &scriptedClient{model: "primary", errs: []error{rejected(404)}}
	fallback := &scriptedClient{model: "fallback", errs: []error{rejected(404), rejected(404)}}

	_, err := NewFallbackClient(primary, fallback).Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, primary.calls())
	assert.Equal(t, 1, fallback.calls())
}

func TestFallbackClient_NilFallback(t *testing.T) {
	primary := &scriptedClient{model: "primary", errs: []error{rejected(400)}}
	c := NewFallbackClient(primary, nil)
	_, err := c.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "primary", c.Model())
}

func TestTracingClient_PassesThrough(t *testing.T) {
	inner := &scriptedClient{model: "gemini-test", responses: []string{"ok"}}
	tc := NewTracingLLMClient(inner)
	assert.Equal(t, "gemini-test", tc.Model())

	out, err := tc.Complete(context.Background(), []Part{TextPart("a"), BinaryPart("image/png", []byte{1, 2})})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestTransportError(t *testing.T) {
	err := rejected(404)
	assert.Contains(t, err.Error(), "status 404")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.True(t, te.ModelRejected())
	assert.False(t, (&TransportError{StatusCode: 503}).ModelRejected())
}

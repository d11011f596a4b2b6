package perception

import (
	"context"
	"fmt"

	"organizer/internal/types"
)

// Part is one piece of a prompt: text, or inline binary data such as an
// image.
type Part struct {
	Text     string
	MimeType string
	Data     []byte
}

// TextPart wraps a text fragment.
func TextPart(s string) Part { return Part{Text: s} }

// BinaryPart wraps inline binary data.
func BinaryPart(mimeType string, data []byte) Part {
	return Part{MimeType: mimeType, Data: data}
}

// IsBinary reports whether the part carries inline data.
func (p Part) IsBinary() bool { return len(p.Data) > 0 }

// LLMClient is the language-model capability. Implementations request a
// JSON response but guarantee nothing about the returned text; callers
// extract and repair JSON themselves.
type LLMClient interface {
	Complete(ctx context.Context, parts []Part) (string, error)
}

// Named is implemented by clients that know their model identifier.
type Named interface {
	Model() string
}

// TransportError is a failed model call.
type TransportError struct {
	Model      string
	StatusCode int // HTTP status when known, 0 otherwise
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("model %s: status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

// Unwrap exposes the transport kind and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{types.ErrModelTransport, e.Err}
}

// ModelRejected reports a 400/404-class error: the model identifier is bad
// or unavailable, so another model may succeed.
func (e *TransportError) ModelRejected() bool {
	return e.StatusCode == 400 || e.StatusCode == 404
}

func modelName(c LLMClient) string {
	if n, ok := c.(Named); ok {
		return n.Model()
	}
	return "unknown"
}

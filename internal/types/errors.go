package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Sentinel error kinds. Match with errors.Is.
var (
	ErrAccessDenied         = errors.New("access denied")
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnsupported          = errors.New("unsupported action")
	ErrInvalidModelResponse = errors.New("invalid model response")
	ErrModelTransport       = errors.New("model transport error")
)

// Error carries a kind plus the operation and path that failed.
type Error struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// AccessDenied reports a path that escapes the sandbox root.
func AccessDenied(op, path string) error {
	return &Error{Kind: ErrAccessDenied, Op: op, Path: path}
}

// NotFound reports a missing path.
func NotFound(op, path string, cause error) error {
	return &Error{Kind: ErrNotFound, Op: op, Path: path, Err: cause}
}

// InvalidArgument reports a missing or malformed parameter.
func InvalidArgument(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Err: fmt.Errorf(format, args...)}
}

// Unsupported reports an action outside the canonical enum.
func Unsupported(action string) error {
	return &Error{Kind: ErrUnsupported, Op: "execute", Path: action}
}

// InvalidModelResponse reports model output that could not be used.
func InvalidModelResponse(cause error) error {
	return &Error{Kind: ErrInvalidModelResponse, Op: "parse", Err: cause}
}

// KindOf returns the sentinel kind of err, or nil if it has none.
func KindOf(err error) error {
	for _, k := range []error{
		ErrAccessDenied, ErrNotFound, ErrInvalidArgument,
		ErrUnsupported, ErrInvalidModelResponse, ErrModelTransport,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

package errors

import "github.com/pkg/errors"

// StackTracer is satisfied by errors that carry a pkg/errors stack trace.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorTracer pairs a message with an underlying error and guarantees the
// chain ends in a stack trace, capturing one at wrap time if the wrapped
// error has none.
type ErrorTracer struct {
	Message string
	Err     error
}

// NewTracer returns a tracer with the given message and no underlying error
// yet; chain with Wrap.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError wraps err under its own message.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Wrap attaches err as the underlying error, adding a stack trace unless err
// already carries one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	e.Err = err
	if _, ok := err.(StackTracer); !ok {
		e.Err = errors.WithStack(err)
	}
	return e
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// StackTrace surfaces the underlying error's stack, nil when there is none.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if traced, ok := e.Unwrap().(StackTracer); ok {
		return traced.StackTrace()
	}
	return nil
}

package errors

import (
	stderrors "errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTracerFromError_AddsStack(t *testing.T) {
	base := stderrors.New("boom")
	tracer := TracerFromError(base)

	assert.Equal(t, "boom", tracer.Error())
	assert.True(t, stderrors.Is(tracer, base))
	assert.NotNil(t, tracer.StackTrace(), "a stackless error gets a stack at wrap time")
}

func TestTracer_Wrap_KeepsExistingStack(t *testing.T) {
	traced := pkgerrors.New("already traced")
	tracer := NewTracer("outer").Wrap(traced)

	assert.Equal(t, "outer", tracer.Error())
	assert.Same(t, traced, tracer.Unwrap(), "an error with a stack is not wrapped again")
	assert.Equal(t, traced.(StackTracer).StackTrace(), tracer.StackTrace())
}

func TestTracer_StackTrace_NilWithoutUnderlying(t *testing.T) {
	assert.Nil(t, NewTracer("bare").StackTrace())
}

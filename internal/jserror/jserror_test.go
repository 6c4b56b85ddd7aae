package jserror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
)

func TestTypeErrFormatsMessage(t *testing.T) {
	err := jserror.TypeErr(jserror.Position{Line: 1, Column: 2}, "Cannot read property %q", "x")
	assert.Equal(t, jserror.TypeErrorKind, err.Kind)
	assert.Equal(t, `Cannot read property "x"`, err.Message)
	assert.Contains(t, err.Error(), "TypeError")
	assert.Contains(t, err.Error(), "1:2")
}

func TestIsKindUnwrapsWrappedErrors(t *testing.T) {
	base := jserror.RangeErr(jserror.Position{}, "out of range")
	wrapped := fmt.Errorf("while doing x: %w", base)

	assert.True(t, jserror.IsKind(wrapped, jserror.RangeErrorKind))
	assert.False(t, jserror.IsKind(wrapped, jserror.TypeErrorKind))
	assert.False(t, jserror.IsKind(errors.New("unrelated"), jserror.RangeErrorKind))
}

func TestFromHostPanicPreservesUnderlyingError(t *testing.T) {
	cause := errors.New("boom")
	je := jserror.FromHostPanic(cause)
	assert.Equal(t, jserror.HostExceptionKind, je.Kind)
	assert.Equal(t, "boom", je.Message)
	require.ErrorIs(t, je, cause)
}

func TestFromHostPanicNonErrorValue(t *testing.T) {
	je := jserror.FromHostPanic("plain string panic")
	assert.Equal(t, "plain string panic", je.Message)
	assert.Nil(t, je.Unwrap())
}

func TestCallStackFormatOrdersInnermostFirst(t *testing.T) {
	stack := jserror.CallStack{
		{FunctionName: "inner", Pos: jserror.Position{Line: 3, Column: 1}},
		{FunctionName: "outer", Pos: jserror.Position{Line: 1, Column: 1}},
	}
	formatted := stack.Format()
	innerIdx := indexOf(formatted, "inner")
	outerIdx := indexOf(formatted, "outer")
	require.GreaterOrEqual(t, innerIdx, 0)
	require.GreaterOrEqual(t, outerIdx, 0)
	assert.Less(t, innerIdx, outerIdx)
}

func TestStackTraceFallsBackToErrorWhenNoStack(t *testing.T) {
	err := jserror.ReferenceErr(jserror.Position{}, "x is not defined")
	assert.Equal(t, err.Error(), err.StackTrace())
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

package jserror_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
)

func TestSourceMapIndexResolveMissingMapIsNotOK(t *testing.T) {
	idx := jserror.NewSourceMapIndex()
	frame := jserror.StackFrame{Source: "bundle.js", Pos: jserror.Position{Line: 1, Column: 0}}

	_, ok := idx.Resolve(frame)
	assert.False(t, ok)
}

func TestSourceMapIndexRegisterRejectsMalformedMap(t *testing.T) {
	idx := jserror.NewSourceMapIndex()
	err := idx.Register("bundle.js", []byte("not json"))
	require.Error(t, err)
}

func TestResolveStackLeavesUnmappedFramesPresent(t *testing.T) {
	idx := jserror.NewSourceMapIndex()
	stack := jserror.CallStack{
		{FunctionName: "f", Source: "unmapped.js", Pos: jserror.Position{Line: 1, Column: 1}},
	}
	resolved := idx.ResolveStack(stack)
	require.Len(t, resolved, 1)
	assert.Equal(t, "f", resolved[0].FunctionName)
	assert.Equal(t, "", resolved[0].OriginalSource)
}

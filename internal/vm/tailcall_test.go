package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestStrictTailCallRunsUnboundedDepth covers a strict-mode function
// whose only return path is a direct self-call: without activation
// replacement this would overflow the call-stack guard long before
// reaching a million iterations.
func TestStrictTailCallRunsUnboundedDepth(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		"use strict";
		function loop(n, acc) {
			if (n === 0) return acc;
			return loop(n - 1, acc + n);
		}
		loop(1000000, 0);
	`)
	require.NoError(t, err)
	assert.Equal(t, "500000500000", v.DisplayString())
}

// TestMutualStrictTailCallsRunUnboundedDepth covers tail-call
// replacement across two different function objects, not just
// self-recursion.
func TestMutualStrictTailCallsRunUnboundedDepth(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		"use strict";
		function isEven(n) {
			if (n === 0) return true;
			return isOdd(n - 1);
		}
		function isOdd(n) {
			if (n === 0) return false;
			return isEven(n - 1);
		}
		isEven(200000);
	`)
	require.NoError(t, err)
	assert.Equal(t, "true", v.DisplayString())
}

// TestNonTailCallStillOverflowsStack covers that only the direct-
// return-of-a-call shape is replaced: a call whose result still
// participates in an expression after returning (here, a pending `+1`)
// keeps stacking activations and eventually raises RangeError, proving
// the stack-depth guard itself is untouched by tail-call support.
func TestNonTailCallStillOverflowsStack(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		"use strict";
		function count(n) {
			if (n === 0) return 0;
			return 1 + count(n - 1);
		}
		count(1000000);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maximum call stack size exceeded")
}

// TestTailCallInsideTryIsNotReplaced covers that a `return` inside a
// try block is never treated as a tail call even in strict mode, since
// a pending finally still needs to run once the call returns: the
// normal-call path is exercised instead, which still raises RangeError
// at the same recursion depth as TestNonTailCallStillOverflowsStack.
func TestTailCallInsideTryIsNotReplaced(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		"use strict";
		function loop(n) {
			try {
				if (n === 0) return 0;
				return loop(n - 1);
			} finally {
				/* no-op, but its presence is why this can't be a tail call */
			}
		}
		loop(1000000);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maximum call stack size exceeded")
}

// TestSloppyModeTailCallIsNotReplaced covers that tail-call replacement
// is gated on strict mode: the same unbounded self-recursive shape
// without "use strict" still overflows the stack.
func TestSloppyModeTailCallIsNotReplaced(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		function loop(n) {
			if (n === 0) return 0;
			return loop(n - 1);
		}
		loop(1000000);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maximum call stack size exceeded")
}

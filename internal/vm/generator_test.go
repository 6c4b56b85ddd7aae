package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestYieldDelegateForwardsEachInnerValueToTheOuterConsumer covers
// `yield*` re-yielding every value an inner iterable produces, then
// resolving to the inner generator's own return value.
func TestYieldDelegateForwardsEachInnerValueToTheOuterConsumer(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		function* inner() {
			yield "a";
			yield "b";
			return "done";
		}
		function* outer() {
			const r = yield* inner();
			yield r;
		}
		const g = outer();
		g.next().value + g.next().value + g.next().value;
	`)
	require.NoError(t, err)
	assert.Equal(t, "abdone", v.DisplayString())
}

// TestGeneratorThrowMethodInjectsExceptionAtSuspensionPoint covers
// calling `.throw()` on a suspended generator raising the exception
// inside the generator body, catchable there.
func TestGeneratorThrowMethodInjectsExceptionAtSuspensionPoint(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		function* g() {
			try {
				yield 1;
				yield 2;
			} catch (e) {
				yield "caught:" + e;
			}
		}
		const it = g();
		it.next();
		it.throw("boom").value;
	`)
	require.NoError(t, err)
	assert.Equal(t, "caught:boom", v.DisplayString())
}

// TestGeneratorReturnMethodEndsIterationEarly covers calling `.return()`
// on a suspended generator finishing it immediately with the passed
// value, without resuming the body past the current yield.
func TestGeneratorReturnMethodEndsIterationEarly(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		function* g() { yield 1; yield 2; yield 3; }
		const it = g();
		it.next();
		const r = it.return("early");
		r.value + ":" + r.done;
	`)
	require.NoError(t, err)
	assert.Equal(t, "early:true", v.DisplayString())
}

// TestGeneratorNextAfterCompletionReturnsDoneWithoutResumingBody covers
// calling `.next()` again after the generator has already run to
// completion returning {value: undefined, done: true} rather than
// restarting or erroring.
func TestGeneratorNextAfterCompletionReturnsDoneWithoutResumingBody(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		function* g() { yield 1; }
		const it = g();
		it.next();
		it.next();
		const r = it.next();
		r.done + ":" + (r.value === undefined);
	`)
	require.NoError(t, err)
	assert.Equal(t, "true:true", v.DisplayString())
}

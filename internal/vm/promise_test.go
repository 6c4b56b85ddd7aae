package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestPromiseAllSettlesWithAllFulfilledValues covers Promise.all resolving
// to an array of values in input order, regardless of settlement order.
func TestPromiseAllSettlesWithAllFulfilledValues(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`
		Promise.all([Promise.resolve(1), 2, Promise.resolve(3)]);
	`)
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", v.DisplayString())
}

// TestPromiseAllRejectsOnFirstRejection covers Promise.all short-circuiting
// to the first rejection rather than waiting for every input to settle.
func TestPromiseAllRejectsOnFirstRejection(t *testing.T) {
	in := interp.New()
	_, err := in.EvalAsync(`Promise.all([Promise.resolve(1), Promise.reject("boom")]);`)
	require.Error(t, err)
}

// TestPromiseAllSettledNeverRejects covers allSettled always fulfilling
// with one status record per input, whether fulfilled or rejected.
func TestPromiseAllSettledNeverRejects(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`
		async function run() {
			const r = await Promise.allSettled([Promise.resolve(1), Promise.reject("nope")]);
			return r[0].status + "," + r[1].status + "," + r[1].reason;
		}
		run();
	`)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled,rejected,nope", v.DisplayString())
}

// TestPromiseRaceSettlesWithFirstToSettle covers race ignoring every
// settlement after the first.
func TestPromiseRaceSettlesWithFirstToSettle(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`Promise.race([Promise.resolve("first"), Promise.resolve("second")]);`)
	require.NoError(t, err)
	assert.Equal(t, "first", v.DisplayString())
}

// TestPromiseAnyResolvesWithFirstFulfillment covers any ignoring rejections
// as long as at least one input fulfills.
func TestPromiseAnyResolvesWithFirstFulfillment(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`Promise.any([Promise.reject("no"), Promise.resolve("yes")]);`)
	require.NoError(t, err)
	assert.Equal(t, "yes", v.DisplayString())
}

// TestPromiseFinallyRunsAndPassesValueThrough covers finally
// observing settlement without a value argument, and the original
// fulfillment value surviving past it.
func TestPromiseFinallyRunsAndPassesValueThrough(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`
		let ran = 0;
		Promise.resolve(42).finally(() => { ran++; }).then(v => { ran += v; return ran; });
	`)
	require.NoError(t, err)
	assert.Equal(t, "43", v.DisplayString())
}

// TestPromiseResolveWithThenableAdoptsItsState covers resolving a promise
// with a thenable deferring to a later microtask rather than treating the
// thenable itself as the fulfillment value.
func TestPromiseResolveWithThenableAdoptsItsState(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`
		const thenable = { then(resolve) { resolve("adopted"); } };
		Promise.resolve(thenable);
	`)
	require.NoError(t, err)
	assert.Equal(t, "adopted", v.DisplayString())
}

// TestPromiseCatchIsSugarForThenWithUndefinedFulfillHandler covers catch
// only intercepting rejections, leaving a fulfilled chain untouched.
func TestPromiseCatchIsSugarForThenWithUndefinedFulfillHandler(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`Promise.resolve(5).catch(() => 99);`)
	require.NoError(t, err)
	assert.Equal(t, "5", v.DisplayString())
}

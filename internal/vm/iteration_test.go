package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestForOfDrivesCustomIterableThroughSymbolIteratorProtocol covers
// for-of resolving Symbol.iterator on a plain object rather than only
// working on arrays.
func TestForOfDrivesCustomIterableThroughSymbolIteratorProtocol(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const range = {
			[Symbol.iterator]() {
				let i = 0;
				return { next: () => i < 3 ? { value: i++, done: false } : { value: undefined, done: true } };
			}
		};
		let out = "";
		for (const n of range) out += n;
		out;
	`)
	require.NoError(t, err)
	assert.Equal(t, "012", v.DisplayString())
}

// TestSpreadIntoArrayLiteralExhaustsIteratorFully covers `...` splicing
// an iterable's full sequence of values into a new array, preserving
// order relative to surrounding literal elements.
func TestSpreadIntoArrayLiteralExhaustsIteratorFully(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const a = [2, 3];
		const merged = [1, ...a, 4];
		merged.length + ":" + merged[0] + merged[1] + merged[2] + merged[3];
	`)
	require.NoError(t, err)
	assert.Equal(t, "4:1234", v.DisplayString())
}

// TestBreakingOutOfForOfClosesTheIterator covers an early `break`
// calling the iterator's `return` method, the IteratorClose contract.
func TestBreakingOutOfForOfClosesTheIterator(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		let closed = false;
		const it = {
			[Symbol.iterator]() {
				let i = 0;
				return {
					next: () => ({ value: i++, done: false }),
					return: () => { closed = true; return { done: true }; },
				};
			}
		};
		for (const n of it) { if (n === 2) break; }
		closed;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true", v.DisplayString())
}

// TestArrayDestructuringWithRestCollectsRemainingElements covers a
// rest element in an array binding pattern collecting every element
// not already consumed by the preceding positions.
func TestArrayDestructuringWithRestCollectsRemainingElements(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const [first, ...rest] = [1, 2, 3, 4];
		first + ":" + rest.length + ":" + rest[0] + rest[1] + rest[2];
	`)
	require.NoError(t, err)
	assert.Equal(t, "1:3:234", v.DisplayString())
}

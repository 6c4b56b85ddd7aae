package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestGeneratorCoroutineGoroutinesDoNotLeak exercises the goroutine+
// channel rendezvous coroutine.go documents for generator/async bodies:
// every coroutine here either runs to completion or is closed via a
// `break` inside `for...of` (IteratorClose calling `.return()`), so
// goleak should observe the process back at its baseline once the
// interpreter's work is done.
func TestGeneratorCoroutineGoroutinesDoNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := interp.New()

	v, err := in.Eval(`
		function* counter() {
			yield 1;
			yield 2;
			yield 3;
		}
		let sum = 0;
		for (const n of counter()) { sum += n; }
		sum;
	`)
	require.NoError(t, err)
	assert.Equal(t, "6", v.DisplayString())

	v, err = in.Eval(`
		function* infinite() {
			let i = 0;
			while (true) { yield i++; }
		}
		let out = "";
		for (const n of infinite()) {
			if (n >= 3) break;
			out += n;
		}
		out;
	`)
	require.NoError(t, err)
	assert.Equal(t, "012", v.DisplayString())
}

// TestAsyncFunctionCoroutineGoroutineCompletes exercises the async
// counterpart of the same coroutine mechanism: the body's goroutine must
// exit once the returned promise settles, even though suspension at
// `await` hands control back through the microtask queue rather than a
// direct resume.
func TestAsyncFunctionCoroutineGoroutineCompletes(t *testing.T) {
	defer goleak.VerifyNone(t)

	in := interp.New()
	v, err := in.EvalAsync(`
		async function work() {
			const a = await Promise.resolve(1);
			const b = await Promise.resolve(2);
			return a + b;
		}
		work();
	`)
	require.NoError(t, err)
	assert.Equal(t, "3", v.DisplayString())
}

package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestEvalScenarios exercises a range of end-to-end input/output cases
// through the host-facing façade, one fresh interpreter per case.
func TestEvalScenarios(t *testing.T) {
	cases := []struct {
		name string
		source string
		want string
	}{
		{
			name: "template-like string concatenation",
			source: `const greeting="Hello"; const name="World"; greeting+", "+name+"!"`,
			want: "Hello, World!",
		},
		{
			name: "for loop accumulation",
			source: `let n=0; for (let i=0;i<5;i++) n+=i; n`,
			want: "10",
		},
		{
			name: "generator spread",
			source: `function*g(){yield 1; yield 2; yield 3;} [...g()]`,
			want: "[1, 2, 3]",
		},
		{
			name: "private field getter",
			source: `class A{#x=1; get x(){return this.#x}} new A().x`,
			want: "1",
		},
		{
			name: "try/catch instanceof",
			source: `try{ throw new TypeError("nope") } catch(e){ e instanceof TypeError }`,
			want: "true",
		},
		{
			name: "numeric literal bases",
			source: `0o10 === 8 && 0b10 === 2 && 0xff === 255 && 1_000_000 === 1000000`,
			want: "true",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			in := interp.New()
			v, err := in.Eval(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.DisplayString())
		})
	}
}

// TestEvalAsyncAwaitsPromise covers an async function's returned
// promise settling to the awaited property read.
func TestEvalAsyncAwaitsPromise(t *testing.T) {
	in := interp.New()
	v, err := in.EvalAsync(`async function f(){const r=await Promise.resolve({d:"X"});return r.d;} f()`)
	require.NoError(t, err)
	assert.Equal(t, "X", v.DisplayString())
}

// TestConstReassignmentThrows covers "const x = v; x = w" always
// throwing.
func TestConstReassignmentThrows(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`const x = 1; x = 2;`)
	require.Error(t, err)
}

// TestTDZThrowsBeforeInitialization covers "let x; x before
// initialization always throws TDZ" — phrased here as a read inside the
// same block prior to the let's textual position, which is where the
// TDZ is observable.
func TestTDZThrowsBeforeInitialization(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`{ x; let x; }`)
	require.Error(t, err)
}

// TestLoopVariableNotVisibleAfterLoop covers a for-loop's `let`
// binding not leaking past the loop.
func TestLoopVariableNotVisibleAfterLoop(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`for (let i=0;i<3;i++) {} i;`)
	require.Error(t, err)
}

// TestStrictModeRejectsLegacyOctal covers "010" under "use strict"
// being a SyntaxError.
func TestStrictModeRejectsLegacyOctal(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`"use strict"; 010;`)
	require.Error(t, err)
}

// TestLabeledBreakTargetsDeclaredStatementOnly covers a break/continue
// to label L reaching exactly the statement declared with L: and no
// other, via a break through a labeled switch.
func TestLabeledBreakTargetsDeclaredStatementOnly(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		let out = "";
		L: switch (1) {
			case 1:
				for (let i = 0; i < 3; i++) {
					if (i === 1) break L;
					out += i;
				}
				out += "unreached";
		}
		out;
	`)
	require.NoError(t, err)
	assert.Equal(t, "0", v.DisplayString())
}

// TestContinueToSwitchLabelIsSyntaxError covers `continue L` where L
// labels a switch (not an iteration statement) being a SyntaxError.
func TestContinueToSwitchLabelIsSyntaxError(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`L: switch (1) { case 1: continue L; }`)
	require.Error(t, err)
}

// TestMicrotaskQueueDrainedBeforeSyncReturn covers a then-callback
// running as a microtask rather than inline: the script's completion
// value is taken before the queue drains, so it does not include the
// callback's effect.
func TestMicrotaskQueueDrainedBeforeSyncReturn(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		let log = "";
		Promise.resolve().then(() => { log += "a"; });
		log += "b";
		log;
	`)
	require.NoError(t, err)
	assert.Equal(t, "b", v.DisplayString())
}

// TestRegisterAndCallHostFunction covers a host Go function registered as
// a global being callable from script, with its return value round-tripping
// back through Eval.
func TestRegisterAndCallHostFunction(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterFunction("double", 1, func(_ interp.Value, args []interp.Value) (interp.Value, error) {
		return args[0], nil
	}))
	require.True(t, in.HasGlobal("double"))
	v, err := in.Eval(`double(21)`)
	require.NoError(t, err)
	assert.Equal(t, "21", v.DisplayString())
}

// TestSendMessageInvokesRegisteredHandler covers sendMessage: every
// registered handler for a channel runs in registration order and the
// script observes the last one's result.
func TestSendMessageInvokesRegisteredHandler(t *testing.T) {
	in := interp.New()
	order := ""
	in.OnMessage("chan", func(channel string, args []interp.Value) (interp.Value, error) {
		order += "1"
		return nil, nil
	})
	in.OnMessage("chan", func(channel string, args []interp.Value) (interp.Value, error) {
		order += "2"
		return nil, nil
	})
	v, err := in.Eval(`sendMessage("chan")`)
	require.NoError(t, err)
	assert.Equal(t, "undefined", v.DisplayString())
	assert.Equal(t, "12", order)
}

// TestModuleEvaluatesExactlyOnce covers "a module evaluates
// at most once": importing the same registered module twice from two
// evaluated scripts only runs its top-level side effect once.
func TestModuleEvaluatesExactlyOnce(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterModule("counter.js", `
		globalThis.__count = (globalThis.__count || 0) + 1;
		export const value = 1;
	`))
	_, err := in.EvalModule("entry1.js", `import { value } from "counter.js"; export { value };`)
	require.NoError(t, err)
	_, err = in.EvalModule("entry2.js", `import { value } from "counter.js"; export { value };`)
	require.NoError(t, err)

	v, ok := in.GetGlobal("__count")
	require.True(t, ok)
	assert.Equal(t, "1", v.DisplayString())
}

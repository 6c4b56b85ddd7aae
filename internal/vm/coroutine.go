package vm

import "github.com/kodjodevf/js-interpreter-sub006/internal/value"

// resumeKind distinguishes the three ways a suspended generator/async
// body can be driven forward: ordinary advance, an injected `throw`, or
// an injected `return`.
type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeReturn
	resumeThrow
)

type resumeMsg struct {
	kind resumeKind
	value value.Value
}

// pauseKind distinguishes why a coroutine handed control back to its
// driver: a visible `yield` the consumer should see, an `await` the
// driver resumes automatically once the awaited value settles, or the
// body running to completion (normally or via throw).
type pauseKind int

const (
	pauseYield pauseKind = iota
	pauseAwait
	pauseDone
	pauseThrow
)

type pauseMsg struct {
	kind pauseKind
	value value.Value
}

// coroutine is the channel pair a suspended generator/async function
// body rendezvouses through with its driver. Only one side ever runs at
// a time: the body goroutine blocks on resumeCh while its driver runs,
// and the driver blocks on pauseCh (or walks away to wait on a promise)
// while the body runs, so single-threaded cooperative semantics hold
// even though each body lives on its own goroutine.
type coroutine struct {
	resumeCh chan resumeMsg
	pauseCh chan pauseMsg
}

func newCoroutine() *coroutine {
	return &coroutine{resumeCh: make(chan resumeMsg), pauseCh: make(chan pauseMsg)}
}

// startCoroutineBody launches run on its own goroutine, deferring any
// work until the first resume arrives (a generator/async function does
// not start evaluating its body until first advanced). While run is
// executing, co is pushed onto in.coroutines so a nested yield/await
// expression can find its way back to this coroutine's channels; it is
// always the top of that stack while its goroutine holds control, since
// coroutines never run concurrently with one another.
func (in *Interpreter) startCoroutineBody(co *coroutine, run func() Completion) {
	go func() {
		first := <-co.resumeCh
		switch first.kind {
		case resumeReturn:
			co.pauseCh <- pauseMsg{kind: pauseDone, value: orUndefined(first.value)}
			return
		case resumeThrow:
			co.pauseCh <- pauseMsg{kind: pauseThrow, value: first.value}
			return
		}

		in.coroutines = append(in.coroutines, co)
		result := run()
		in.coroutines = in.coroutines[:len(in.coroutines)-1]

		if result.Kind == CompThrow {
			co.pauseCh <- pauseMsg{kind: pauseThrow, value: result.Value}
			return
		}
		co.pauseCh <- pauseMsg{kind: pauseDone, value: orUndefined(result.Value)}
	}()
}

func (in *Interpreter) currentCoroutine() *coroutine {
	if len(in.coroutines) == 0 {
		return nil
	}
	return in.coroutines[len(in.coroutines)-1]
}

// suspend hands v back to co's driver tagged with kind and blocks until
// the driver resumes it. A resumed `throw`/`return` surfaces as the
// matching abrupt Completion, which propagates through the surrounding
// statement machinery (try/finally, loops) exactly like a real throw or
// return statement at that point in the body would.
func (in *Interpreter) suspend(co *coroutine, kind pauseKind, v value.Value) (value.Value, *Completion) {
	co.pauseCh <- pauseMsg{kind: kind, value: v}
	msg := <-co.resumeCh
	switch msg.kind {
	case resumeThrow:
		c := throwC(msg.value)
		return nil, &c
	case resumeReturn:
		c := returnC(msg.value)
		return nil, &c
	default:
		return orUndefined(msg.value), nil
	}
}

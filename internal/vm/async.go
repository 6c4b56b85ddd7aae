package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// evalAwait suspends the innermost enclosing async coroutine until the
// awaited value settles: await yields control back to the event loop
// and resumes once the promise settles. At true module top level (no
// enclosing coroutine and no function call in progress) it instead
// settles inline via awaitAtModuleTopLevel, implementing top-level
// await without needing a driving coroutine for the module body.
func (in *Interpreter) evalAwait(ex *ast.AwaitExpression, env *environment.Environment) (value.Value, *Completion) {
	co := in.currentCoroutine()
	if co == nil && (in.currentModule == nil || len(in.callStack) > 0) {
		c := in.throwSyntaxError("await is only valid inside an async function")
		return nil, &c
	}
	v, c := in.evalExpr(ex.Argument, env)
	if c != nil {
		return nil, c
	}
	if co == nil {
		return in.awaitAtModuleTopLevel(v)
	}
	return in.suspend(co, pauseAwait, v)
}

// awaitAtModuleTopLevel implements top-level await for a module body
// with no driving coroutine of its own: it wraps v in a promise
// resolution the same way Promise.resolve would, drains the microtask
// queue to a fixed point, and reads back the now-settled result the
// same way ResolveAwaited does for a host-facing async eval call.
func (in *Interpreter) awaitAtModuleTopLevel(v value.Value) (value.Value, *Completion) {
	p := in.promiseResolveValue(v)
	in.Loop.Drain()
	result, err := in.ResolveAwaited(p)
	if err != nil {
		cc := in.toThrowCompletion(err)
		return nil, &cc
	}
	return result, nil
}

// driveCoroutine resumes co with (kind, arg) and, whenever the body pauses
// on an `await`, schedules continuation as a reaction on the awaited
// value's promise (resolving non-thenables immediately via the microtask
// queue) instead of returning control to the caller - the defining
// difference from a generator's driver, which hands `await` straight to
// the consumer as an error.
func (in *Interpreter) driveCoroutine(co *coroutine, kind resumeKind, arg value.Value, onYield func(value.Value), onDone func(value.Value), onThrow func(value.Value)) {
	co.resumeCh <- resumeMsg{kind: kind, value: arg}
	msg := <-co.pauseCh
	switch msg.kind {
	case pauseYield:
		onYield(msg.value)
	case pauseDone:
		onDone(msg.value)
	case pauseThrow:
		onThrow(msg.value)
	case pauseAwait:
		p := in.promiseResolveValue(msg.value)
		onFulfilled := in.newNativeFunction("", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
			in.driveCoroutine(co, resumeNext, firstArg(args), onYield, onDone, onThrow)
			return value.Undefined, nil
		})
		onRejected := in.newNativeFunction("", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
			in.driveCoroutine(co, resumeThrow, firstArg(args), onYield, onDone, onThrow)
			return value.Undefined, nil
		})
		in.performPromiseThen(p, onFulfilled, onRejected)
	}
}

// callAsyncFunction runs an async function body on its own coroutine and
// returns the Promise that settles with its eventual return/throw: an
// async function call returns a promise immediately.
func (in *Interpreter) callAsyncFunction(fn *value.Object, this value.Value, args []value.Value) value.Value {
	fd := fn.Function
	lit, _ := fd.Node.(*ast.FunctionLiteral)
	closure, _ := fd.Closure.(*environment.Environment)
	co := newCoroutine()

	runBody := func() Completion {
		callEnv := environment.NewFunctionScope(closure)
		if !fd.Lexical {
			callEnv.HasThis = true
			callEnv.ThisVal = in.thisForCall(this, lit.IsStrict)
			callEnv.HasNewTarget = true
			callEnv.NewTargetVal = value.Undefined
			if fd.HomeObject != nil {
				callEnv.HasSuper = true
				callEnv.SuperHome = fd.HomeObject
				if fd.HomeObject.Prototype != nil {
					callEnv.SuperCtor = fd.HomeObject.Prototype
				}
			}
			callEnv.HasArguments = true
			callEnv.ArgumentsVal = in.makeArgumentsObject(args)
		}
		if c := in.bindParameters(lit.Params, args, callEnv); isAbrupt(c) {
			return c
		}
		if lit.ExpressionBody != nil {
			v, c := in.evalExpr(lit.ExpressionBody, callEnv)
			if c != nil {
				return *c
			}
			return normalC(v)
		}
		bodyEnv := environment.New(callEnv)
		in.hoistFunctionBody(lit.Body, bodyEnv)
		for _, stmt := range lit.Body.Body {
			c := in.execStatement(stmt, bodyEnv)
			if c.Kind == CompReturn || c.Kind == CompThrow {
				return c
			}
		}
		return normalC(value.Undefined)
	}
	in.startCoroutineBody(co, runBody)

	promise, resolve, reject := in.newPromiseCapability()
	var onYield func(value.Value)
	onYield = func(value.Value) {
		// `yield` never appears inside a plain async function; an async
		// generator's driver (makeAsyncGeneratorObject) drives its own
		// coroutine directly and never reaches callAsyncFunction.
	}
	in.driveCoroutine(co, resumeNext, value.Undefined, onYield, resolve, reject)
	return promise
}

// makeAsyncGeneratorObject combines yield and await: next/return/throw
// each return a Promise, and the driver transparently resumes through any
// number of internal `await`s before surfacing the next visible yield.
func (in *Interpreter) makeAsyncGeneratorObject(fn *value.Object, this value.Value, args []value.Value) *value.Object {
	fd := fn.Function
	lit, _ := fd.Node.(*ast.FunctionLiteral)
	closure, _ := fd.Closure.(*environment.Environment)
	co := newCoroutine()
	finished := false

	runBody := func() Completion {
		callEnv := environment.NewFunctionScope(closure)
		callEnv.HasThis = true
		callEnv.ThisVal = in.thisForCall(this, lit.IsStrict)
		callEnv.HasNewTarget = true
		callEnv.NewTargetVal = value.Undefined
		callEnv.HasArguments = true
		callEnv.ArgumentsVal = in.makeArgumentsObject(args)
		if c := in.bindParameters(lit.Params, args, callEnv); isAbrupt(c) {
			return c
		}
		bodyEnv := environment.New(callEnv)
		in.hoistFunctionBody(lit.Body, bodyEnv)
		for _, stmt := range lit.Body.Body {
			c := in.execStatement(stmt, bodyEnv)
			if c.Kind == CompReturn || c.Kind == CompThrow {
				return c
			}
		}
		return normalC(value.Undefined)
	}
	in.startCoroutineBody(co, runBody)

	genObj := value.NewObject(in.Realm.AsyncGeneratorProto)
	genObj.Kind = value.KindGenerator
	genObj.Class = "AsyncGenerator"

	advance := func(kind resumeKind, arg value.Value) value.Value {
		promise, resolve, reject := in.newPromiseCapability()
		if finished {
			if kind == resumeThrow {
				reject(arg)
			} else {
				resolve(in.iterResult(orUndefined(arg), true))
			}
			return promise
		}
		onYield := func(v value.Value) { resolve(in.iterResult(v, false)) }
		onDone := func(v value.Value) { finished = true; resolve(in.iterResult(v, true)) }
		onThrow := func(v value.Value) { finished = true; reject(v) }
		in.driveCoroutine(co, kind, arg, onYield, onDone, onThrow)
		return promise
	}

	genObj.DefineOwnProperty(value.StringKey("next"), value.NonEnumerable(in.newNativeFunction("next", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return advance(resumeNext, firstArg(args)), nil
	})))
	genObj.DefineOwnProperty(value.StringKey("return"), value.NonEnumerable(in.newNativeFunction("return", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return advance(resumeReturn, firstArg(args)), nil
	})))
	genObj.DefineOwnProperty(value.StringKey("throw"), value.NonEnumerable(in.newNativeFunction("throw", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return advance(resumeThrow, firstArg(args)), nil
	})))
	genObj.DefineOwnProperty(value.SymbolKey(value.SymAsyncIterator), value.NonEnumerable(in.newNativeFunction("[Symbol.asyncIterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return genObj, nil
	})))
	return genObj
}

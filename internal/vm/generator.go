package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// iterResult builds the {value, done} object the iterator protocol
// requires from every `next`/`return`/`throw` call.
func (in *Interpreter) iterResult(v value.Value, done bool) *value.Object {
	o := value.NewObject(in.Realm.ObjectProto)
	o.DefineOwnProperty(value.StringKey("value"), value.DataProperty(v))
	o.DefineOwnProperty(value.StringKey("done"), value.DataProperty(value.Boolean(done)))
	return o
}

// evalYield suspends the innermost enclosing generator coroutine,
// handling `yield*` delegation separately: yield/await suspend the
// coroutine, resumed by the driving .next/.throw/.return call or by the
// event loop for await.
func (in *Interpreter) evalYield(ex *ast.YieldExpression, env *environment.Environment) (value.Value, *Completion) {
	co := in.currentCoroutine()
	if co == nil {
		c := in.throwSyntaxError("yield is only valid inside a generator function")
		return nil, &c
	}
	var v value.Value = value.Undefined
	if ex.Argument != nil {
		var c *Completion
		v, c = in.evalExpr(ex.Argument, env)
		if c != nil {
			return nil, c
		}
	}
	if ex.Delegate {
		return in.evalYieldDelegate(co, v)
	}
	return in.suspend(co, pauseYield, v)
}

// evalYieldDelegate implements `yield* iterable`: each value the inner
// iterator produces is re-yielded to this generator's own consumer, and
// a `.throw`/`.return` sent to this generator is forwarded to the
// inner iterator's matching method when it has one.
func (in *Interpreter) evalYieldDelegate(co *coroutine, iterable value.Value) (value.Value, *Completion) {
	it, c := in.getIterator(iterable)
	if c != nil {
		return nil, c
	}
	mode := resumeNext
	var sent value.Value = value.Undefined
	for {
		var resVal value.Value
		var done bool
		var cc *Completion
		switch mode {
		case resumeThrow:
			resVal, done, cc = in.delegateInvoke(it, "throw", sent)
		case resumeReturn:
			resVal, done, cc = in.delegateInvoke(it, "return", sent)
			if cc == nil && done {
				return resVal, nil
			}
		default:
			resVal, done, cc = in.delegateInvoke(it, "next", sent)
		}
		if cc != nil {
			return nil, cc
		}
		if done {
			return resVal, nil
		}
		v, yc := in.suspend(co, pauseYield, resVal)
		if yc != nil {
			switch yc.Kind {
			case CompThrow:
				mode, sent = resumeThrow, yc.Value
				continue
			case CompReturn:
				mode, sent = resumeReturn, yc.Value
				continue
			default:
				return nil, yc
			}
		}
		sent, mode = v, resumeNext
	}
}

// delegateInvoke calls method (next/throw/return) on it's iterator
// object with a single argument and reads back {value, done}; a missing
// throw/return method closes the iterator (for throw, that also raises
// a TypeError per the IteratorClose-on-missing-throw rule).
func (in *Interpreter) delegateInvoke(it *iterator, method string, arg value.Value) (value.Value, bool, *Completion) {
	fnVal, err := it.obj.Get(value.StringKey(method), it.obj, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, false, &c
	}
	fn, ok := fnVal.(*value.Object)
	if !ok || fn.Kind != value.KindFunction {
		if method == "next" {
			c := in.throwTypeError("iterator.next is not a function")
			return nil, false, &c
		}
		if method == "throw" {
			in.closeIterator(it)
			c := in.throwTypeError("The iterator does not provide a 'throw' method")
			return nil, false, &c
		}
		// no `return` method: treat as immediately done with the passed value.
		return arg, true, nil
	}
	res, comp := in.CallFunction(fn, it.obj, []value.Value{arg}, nil)
	if isAbrupt(comp) {
		return nil, false, &comp
	}
	resObj, ok := res.(*value.Object)
	if !ok {
		c := in.throwTypeError("iterator result is not an object")
		return nil, false, &c
	}
	doneVal, err := resObj.Get(value.StringKey("done"), resObj, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, false, &c
	}
	v, err := resObj.Get(value.StringKey("value"), resObj, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, false, &c
	}
	return v, value.ToBoolean(doneVal), nil
}

// makeGeneratorObject builds the generator object `function*` returns
// immediately on call, wiring its next/return/throw methods to drive
// the coroutine running the function body.
func (in *Interpreter) makeGeneratorObject(fn *value.Object, this value.Value, args []value.Value) *value.Object {
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
		if fd.HomeObject != nil {
			callEnv.HasSuper = true
			callEnv.SuperHome = fd.HomeObject
			if fd.HomeObject.Prototype != nil {
				callEnv.SuperCtor = fd.HomeObject.Prototype
			}
		}
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

	genObj := value.NewObject(in.Realm.GeneratorProto)
	genObj.Kind = value.KindGenerator
	genObj.Class = "Generator"

	advance := func(kind resumeKind, arg value.Value) (value.Value, error) {
		if finished {
			if kind == resumeThrow {
				return nil, in.thrownValueAsError(arg)
			}
			return in.iterResult(orUndefined(arg), true), nil
		}
		co.resumeCh <- resumeMsg{kind: kind, value: arg}
		msg := <-co.pauseCh
		switch msg.kind {
		case pauseYield:
			return in.iterResult(msg.value, false), nil
		case pauseDone:
			finished = true
			return in.iterResult(msg.value, true), nil
		case pauseThrow:
			finished = true
			return nil, in.thrownValueAsError(msg.value)
		default: // pauseAwait: not reachable from a plain (non-async) generator body
			finished = true
			return nil, &jserror.JSError{Kind: jserror.TypeErrorKind, Message: "await used outside an async function"}
		}
	}

	genObj.DefineOwnProperty(value.StringKey("next"), value.NonEnumerable(in.newNativeFunction("next", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return advance(resumeNext, firstArg(args))
	})))
	genObj.DefineOwnProperty(value.StringKey("return"), value.NonEnumerable(in.newNativeFunction("return", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return advance(resumeReturn, firstArg(args))
	})))
	genObj.DefineOwnProperty(value.StringKey("throw"), value.NonEnumerable(in.newNativeFunction("throw", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return advance(resumeThrow, firstArg(args))
	})))
	genObj.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return genObj, nil
	})))
	return genObj
}

func firstArg(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Undefined
	}
	return args[0]
}

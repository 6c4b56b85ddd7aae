package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// NewNativeFunction is the exported counterpart of newNativeFunction, the
// hook interp.RegisterNativeFunction uses to expose a host Go callback as
// an addressable, callable script-visible global (
// "register_global(name, value)" applied to a host function value).
func (in *Interpreter) NewNativeFunction(name string, length int, fn value.NativeFunc) *value.Object {
	return in.newNativeFunction(name, length, fn)
}

// newNativeFunction wraps a Go implementation as an addressable function
// object.
func (in *Interpreter) newNativeFunction(name string, length int, fn value.NativeFunc) *value.Object {
	o := value.NewObject(in.Realm.FunctionProto)
	o.Kind = value.KindFunction
	o.Class = "Function"
	o.Function = &value.FunctionData{Kind: value.FuncNative, Name: name, Native: fn, Length: length}
	o.DefineOwnProperty(value.StringKey("name"), value.NonEnumerable(value.String(name)))
	o.DefineOwnProperty(value.StringKey("length"), value.NonEnumerable(value.Number(length)))
	return o
}

// makeFunction creates a closure object from a parsed FunctionLiteral
// captured over env, ready for CallFunction's call-protocol setup.
// homeObject is non-nil for methods (object-literal or class methods),
// needed to resolve `super`.
func (in *Interpreter) makeFunction(lit *ast.FunctionLiteral, env *environment.Environment, homeObject *value.Object) *value.Object {
	kind := value.FuncOrdinary
	switch {
	case lit.Arrow && lit.Async:
		kind = value.FuncArrow // async arrows are still lexical-this arrows; Async flag read off lit.Async at call time
	case lit.Arrow:
		kind = value.FuncArrow
	case lit.Async && lit.Generator:
		kind = value.FuncAsyncGenerator
	case lit.Async:
		kind = value.FuncAsync
	case lit.Generator:
		kind = value.FuncGenerator
	}
	name := ""
	if lit.ID != nil {
		name = lit.ID.Name
	}
	length := 0
	for _, p := range lit.Params {
		if _, ok := p.(*ast.IdentifierPattern); ok {
			length++
			continue
		}
		break // defaults/rest/patterns stop the length count
	}
	o := value.NewObject(in.Realm.FunctionProto)
	o.Kind = value.KindFunction
	o.Class = "Function"
	o.Function = &value.FunctionData{
		Kind: kind, Name: name, Node: lit, Closure: env,
		HomeObject: homeObject, Lexical: lit.Arrow, Length: length,
	}
	o.DefineOwnProperty(value.StringKey("name"), value.NonEnumerable(value.String(name)))
	o.DefineOwnProperty(value.StringKey("length"), value.NonEnumerable(value.Number(length)))
	if !lit.Arrow {
		proto := value.NewObject(in.Realm.ObjectProto)
		proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(o))
		o.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto, Writable: true, Enumerable: false, Configurable: false})
	}
	return o
}

// CallFunction implements the call protocol: evaluate callee and
// (already-evaluated) arguments, create a new environment
// with parameter bindings (destructuring/defaults applied), run the
// body, and return its Return-completion value or Undefined on fall-
// through. newTarget is nil for a plain call, the constructed function
// object for `new`.
//
// An ordinary function whose body ends in `return direct(...)` in tail
// position (statements.go's tailCallEligible) doesn't recurse: its
// CompReturn carries a non-nil Tail instead of a value, and the
// trampoline loop below reassigns fn/this/args/newTarget to the tail
// target and loops, reusing the same pushFrame/popFrame pair for the
// whole chain. Call-stack depth - and the activation-tracking slice in
// in.callStack - therefore stays flat across an arbitrarily long tail
// call chain instead of growing one frame per call.
func (in *Interpreter) CallFunction(fn *value.Object, this value.Value, args []value.Value, newTarget *value.Object) (value.Value, Completion) {
	if fn == nil || fn.Kind != value.KindFunction || fn.Function == nil {
		return nil, in.throwTypeError("value is not a function")
	}
	fd := fn.Function

	if fd.Kind == value.FuncBound {
		fullArgs := append(append([]value.Value{}, fd.BoundArgs...), args...)
		return in.CallFunction(fd.BoundTarget, fd.BoundThis, fullArgs, newTarget)
	}
	if fd.Kind == value.FuncNative {
		if err := in.pushFrame(fd.Name, jserror.Position{}); err != nil {
			return nil, in.throwRangeError("Maximum call stack size exceeded")
		}
		defer in.popFrame()
		v, err := fd.Native(this, args)
		if err != nil {
			return nil, in.toThrowCompletion(err)
		}
		if v == nil {
			v = value.Undefined
		}
		return v, normalC(nil)
	}

	lit, _ := fd.Node.(*ast.FunctionLiteral)
	closure, _ := fd.Closure.(*environment.Environment)
	if lit == nil || closure == nil {
		return nil, in.throwTypeError("malformed function object")
	}

	if fd.Kind == value.FuncGenerator {
		return in.makeGeneratorObject(fn, this, args), normalC(nil)
	}
	if fd.Kind == value.FuncAsyncGenerator {
		return in.makeAsyncGeneratorObject(fn, this, args), normalC(nil)
	}
	if fd.Kind == value.FuncAsync || (fd.Kind == value.FuncArrow && lit.Async) {
		return in.callAsyncFunction(fn, this, args), normalC(nil)
	}

	if err := in.pushFrame(fd.Name, posOf(lit)); err != nil {
		return nil, in.throwRangeError("Maximum call stack size exceeded")
	}
	defer in.popFrame()

trampoline:
	for {
		callEnv := environment.NewFunctionScope(closure)
		callEnv.FnStrict = lit.IsStrict
		if !fd.Lexical {
			callEnv.HasThis = true
			callEnv.ThisVal = in.thisForCall(this, lit.IsStrict)
			callEnv.HasNewTarget = true
			if newTarget != nil {
				callEnv.NewTargetVal = newTarget
			} else {
				callEnv.NewTargetVal = value.Undefined
			}
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
			return nil, c
		}

		bodyEnv := environment.New(callEnv)
		if lit.ExpressionBody != nil {
			v, c := in.evalExpr(lit.ExpressionBody, bodyEnv)
			if c != nil {
				return nil, *c
			}
			return v, normalC(nil)
		}

		in.hoistFunctionBody(lit.Body, bodyEnv)
		for _, stmt := range lit.Body.Body {
			c := in.execStatement(stmt, bodyEnv)
			switch c.Kind {
			case CompReturn:
				if c.Tail != nil {
					tfd := c.Tail.Fn.Function
					tlit, litOK := tfd.Node.(*ast.FunctionLiteral)
					tclosure, closOK := tfd.Closure.(*environment.Environment)
					if !litOK || !closOK {
						return nil, in.throwTypeError("malformed function object")
					}
					fn, fd, lit, closure = c.Tail.Fn, tfd, tlit, tclosure
					this, args, newTarget = c.Tail.This, c.Tail.Args, nil
					if lit.Async {
						return in.callAsyncFunction(fn, this, args), normalC(nil)
					}
					continue trampoline
				}
				return orUndefined(c.Value), normalC(nil)
			case CompThrow:
				return nil, c
			}
		}
		return value.Undefined, normalC(nil)
	}
}

func orUndefined(v value.Value) value.Value {
	if v == nil {
		return value.Undefined
	}
	return v
}

// thisForCall applies sloppy/strict `this` defaulting: a
// non-strict function sees the global object for a nullish `this`;
// strict mode leaves it as Undefined.
func (in *Interpreter) thisForCall(this value.Value, strict bool) value.Value {
	if value.IsNullish(this) {
		if strict {
			return value.Undefined
		}
		return in.Realm.GlobalObject
	}
	return this
}

// makeArgumentsObject builds a minimal, non-strict `arguments`
// array-like: index properties plus length, no mapped-argument linking
// to named parameters.
func (in *Interpreter) makeArgumentsObject(args []value.Value) *value.Object {
	o := value.NewObject(in.Realm.ObjectProto)
	o.Kind = value.KindArguments
	o.Class = "Arguments"
	for i, a := range args {
		o.DefineOwnProperty(value.StringKey(itoa(i)), value.DataProperty(a))
	}
	o.DefineOwnProperty(value.StringKey("length"), value.NonEnumerable(value.Number(len(args))))
	o.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(in.arrayIteratorMaker(args)))
	return o
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// bindParameters applies the parameter list's patterns/defaults/rest
// against args in a fresh parameter scope: destructuring is applied and
// defaults are evaluated in the parameter scope.
func (in *Interpreter) bindParameters(params []ast.Pattern, args []value.Value, env *environment.Environment) Completion {
	for i, p := range params {
		if rest, ok := p.(*ast.RestElement); ok {
			var tail []value.Value
			if i < len(args) {
				tail = append(tail, args[i:]...)
			}
			arr := in.newArray()
			arr.Elements = tail
			if c := in.bindPattern(rest.Argument, arr, env, environment.KindParameter); isAbrupt(c) {
				return c
			}
			continue
		}
		var v value.Value = value.Undefined
		if i < len(args) && args[i] != nil {
			v = args[i]
		}
		if c := in.bindPattern(p, v, env, environment.KindParameter); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

// arrayIteratorMaker is implemented in iteration.go; declared here for
// locality with the arguments-object construction above.

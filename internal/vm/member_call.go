package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// chainResult threads optional-chaining short-circuit state through a
// nested member/call chain: once any `?.` link sees a
// nullish base, the rest of the chain evaluates to Undefined without
// evaluating further operands or throwing.
type chainResult struct {
	value value.Value
	this value.Value // the member's object operand, used as `this` for a trailing call
	short bool
}

// evalChainPart recursively evaluates a Member/Call chain, short-
// circuiting at the first `?.` that sees a nullish base.
func (in *Interpreter) evalChainPart(e ast.Expression, env *environment.Environment) (chainResult, *Completion) {
	switch ex := e.(type) {
	case *ast.MemberExpression:
		base, c := in.evalChainPart(ex.Object, env)
		if c != nil {
			return chainResult{}, c
		}
		if base.short {
			return chainResult{short: true}, nil
		}
		if ex.Optional && value.IsNullish(base.value) {
			return chainResult{short: true}, nil
		}
		v, this, c := in.memberGet(ex, base.value, env)
		if c != nil {
			return chainResult{}, c
		}
		return chainResult{value: v, this: this}, nil

	case *ast.CallExpression:
		if _, ok := ex.Callee.(*ast.SuperExpression); ok {
			v, c := in.evalSuperCall(ex, env)
			if c != nil {
				return chainResult{}, c
			}
			return chainResult{value: v}, nil
		}
		callee, c := in.evalChainPart(ex.Callee, env)
		if c != nil {
			return chainResult{}, c
		}
		if callee.short {
			return chainResult{short: true}, nil
		}
		if ex.Optional && value.IsNullish(callee.value) {
			return chainResult{short: true}, nil
		}
		args, c := in.evalArguments(ex.Arguments, env)
		if c != nil {
			return chainResult{}, c
		}
		fn, ok := callee.value.(*value.Object)
		if !ok || fn.Kind != value.KindFunction {
			cc := in.throwTypeError("%s is not a function", calleeDisplayName(ex.Callee))
			return chainResult{}, &cc
		}
		this := callee.this
		if this == nil {
			this = value.Undefined
		}
		v, cc := in.CallFunction(fn, this, args, nil)
		if isAbrupt(cc) {
			return chainResult{}, &cc
		}
		return chainResult{value: v}, nil

	default:
		v, c := in.evalExpr(e, env)
		if c != nil {
			return chainResult{}, c
		}
		return chainResult{value: v, this: value.Undefined}, nil
	}
}

func (in *Interpreter) evalMember(ex *ast.MemberExpression, env *environment.Environment) (value.Value, value.Value, *Completion) {
	r, c := in.evalChainPart(ex, env)
	if c != nil {
		return nil, nil, c
	}
	if r.short {
		return value.Undefined, value.Undefined, nil
	}
	return r.value, r.this, nil
}

func (in *Interpreter) evalCall(ex *ast.CallExpression, env *environment.Environment) (value.Value, *Completion) {
	r, c := in.evalChainPart(ex, env)
	if c != nil {
		return nil, c
	}
	if r.short {
		return value.Undefined, nil
	}
	return r.value, nil
}

// evalCallee resolves a callee expression to (function value, this
// value) without invoking it, for tagged templates and other call-
// adjacent sites that need the receiver separately.
func (in *Interpreter) evalCallee(e ast.Expression, env *environment.Environment) (value.Value, value.Value, *Completion) {
	if mem, ok := e.(*ast.MemberExpression); ok {
		return in.evalMember(mem, env)
	}
	v, c := in.evalExpr(e, env)
	if c != nil {
		return nil, nil, c
	}
	return v, value.Undefined, nil
}

// evalArguments evaluates a call/new argument list, splicing in spread
// elements via the iterator protocol.
func (in *Interpreter) evalArguments(list []ast.Expression, env *environment.Environment) ([]value.Value, *Completion) {
	var out []value.Value
	for _, a := range list {
		if sp, ok := a.(*ast.SpreadElement); ok {
			v, c := in.evalExpr(sp.Argument, env)
			if c != nil {
				return nil, c
			}
			items, c := in.iterateToSlice(v)
			if c != nil {
				return nil, c
			}
			out = append(out, items...)
			continue
		}
		v, c := in.evalExpr(a, env)
		if c != nil {
			return nil, c
		}
		out = append(out, v)
	}
	return out, nil
}

func calleeDisplayName(e ast.Expression) string {
	switch ex := e.(type) {
	case *ast.Identifier:
		return ex.Name
	case *ast.MemberExpression:
		if !ex.Computed {
			if id, ok := ex.Property.(*ast.Identifier); ok {
				return id.Name
			}
			if priv, ok := ex.Property.(*ast.PrivateIdentifier); ok {
				return priv.Name
			}
		}
	}
	return "value"
}

// memberKey computes the ordinary (non-private) property key a member
// expression addresses; private fields are resolved separately since
// they never live in an object's ordinary property table.
func (in *Interpreter) memberKey(mem *ast.MemberExpression, env *environment.Environment) (value.PropertyKey, *Completion) {
	if !mem.Computed {
		switch p := mem.Property.(type) {
		case *ast.Identifier:
			return value.StringKey(p.Name), nil
		case *ast.Literal:
			return value.StringKey(literalKeyString(p)), nil
		}
	}
	v, c := in.evalExpr(mem.Property, env)
	if c != nil {
		return value.PropertyKey{}, c
	}
	pk, err := value.ToPropertyKey(v, in.call)
	if err != nil {
		cc := in.toThrowCompletion(err)
		return value.PropertyKey{}, &cc
	}
	return pk, nil
}

func memberPropName(ex *ast.MemberExpression) string {
	if !ex.Computed {
		if id, ok := ex.Property.(*ast.Identifier); ok {
			return id.Name
		}
	}
	return "value"
}

// resolvePrivateName looks up the *Symbol a lexically-enclosing class
// minted for #name.
func (in *Interpreter) resolvePrivateName(env *environment.Environment, name string) (*value.Symbol, *Completion) {
	sym, ok := environment.LookupPrivateName(env, name)
	if !ok {
		c := in.throwSyntaxError("Private field '%s' must be declared in an enclosing class", name)
		return nil, &c
	}
	return sym, nil
}

// memberGet evaluates the property-access half of a MemberExpression
// given its already-evaluated object operand, handling `super.x`,
// `obj.#priv`, and ordinary/computed property lookup.
func (in *Interpreter) memberGet(ex *ast.MemberExpression, objVal value.Value, env *environment.Environment) (value.Value, value.Value, *Completion) {
	if _, ok := ex.Object.(*ast.SuperExpression); ok {
		home, _, ok2 := environment.SuperContext(env)
		if !ok2 || home == nil || home.Prototype == nil {
			cc := in.throwSyntaxError("'super' keyword is only valid inside a method")
			return nil, nil, &cc
		}
		this := environment.ThisBinding(env)
		key, c := in.memberKey(ex, env)
		if c != nil {
			return nil, nil, c
		}
		v, err := home.Prototype.Get(key, this, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, nil, &cc
		}
		return v, this, nil
	}

	if priv, ok := ex.Property.(*ast.PrivateIdentifier); ok && !ex.Computed {
		obj, ok := objVal.(*value.Object)
		if !ok {
			cc := in.throwTypeError("Cannot read private member %s from an object whose class did not declare it", priv.Name)
			return nil, nil, &cc
		}
		sym, c := in.resolvePrivateName(env, priv.Name)
		if c != nil {
			return nil, nil, c
		}
		v, ok := obj.PrivateFields[sym]
		if !ok {
			cc := in.throwTypeError("Cannot read private member %s from an object whose class did not declare it", priv.Name)
			return nil, nil, &cc
		}
		if acc, ok := v.(*value.PrivateAccessor); ok {
			if acc.Get == nil {
				cc := in.throwTypeError("'%s' was defined without a getter", priv.Name)
				return nil, nil, &cc
			}
			rv, cc := in.CallFunction(acc.Get, objVal, nil, nil)
			if isAbrupt(cc) {
				return nil, nil, &cc
			}
			return rv, objVal, nil
		}
		return v, objVal, nil
	}

	if value.IsNullish(objVal) {
		cc := in.throwTypeError("Cannot read properties of %s (reading '%s')", displayOf(objVal), memberPropName(ex))
		return nil, nil, &cc
	}
	key, c := in.memberKey(ex, env)
	if c != nil {
		return nil, nil, c
	}
	obj, cc := in.coerceToObject(objVal)
	if cc != nil {
		return nil, nil, cc
	}
	v, err := obj.Get(key, obj, in.call)
	if err != nil {
		ccc := in.toThrowCompletion(err)
		return nil, nil, &ccc
	}
	return v, objVal, nil
}

// assignToTarget writes v to an identifier or member-expression
// assignment target, used by simple/compound assignment, increment/
// decrement, and destructuring-assignment leaves.
func (in *Interpreter) assignToTarget(target ast.Expression, v value.Value, env *environment.Environment) Completion {
	switch t := target.(type) {
	case *ast.Identifier:
		if err := environment.Assign(env, t.Name, v, jserrorPos()); err != nil {
			return in.wrapEnvErr(err, env, t.Name, v)
		}
		return normalC(nil)
	case *ast.MemberExpression:
		return in.assignMember(t, v, env)
	}
	return in.throwTypeError("invalid assignment target")
}

func (in *Interpreter) assignMember(mem *ast.MemberExpression, v value.Value, env *environment.Environment) Completion {
	if _, ok := mem.Object.(*ast.SuperExpression); ok {
		home, _, ok2 := environment.SuperContext(env)
		if !ok2 || home == nil || home.Prototype == nil {
			return in.throwSyntaxError("'super' keyword is only valid inside a method")
		}
		this := environment.ThisBinding(env)
		key, c := in.memberKey(mem, env)
		if c != nil {
			return *c
		}
		if err := home.Prototype.Set(key, v, this, in.call); err != nil {
			return in.toThrowCompletion(err)
		}
		return normalC(nil)
	}

	objV, c := in.evalExpr(mem.Object, env)
	if c != nil {
		return *c
	}

	if priv, ok := mem.Property.(*ast.PrivateIdentifier); ok && !mem.Computed {
		obj, ok := objV.(*value.Object)
		if !ok {
			return in.throwTypeError("Cannot write private member %s to a non-object", priv.Name)
		}
		sym, cc := in.resolvePrivateName(env, priv.Name)
		if cc != nil {
			return *cc
		}
		if obj.PrivateFields == nil {
			obj.PrivateFields = map[*value.Symbol]value.Value{}
		}
		if acc, ok := obj.PrivateFields[sym].(*value.PrivateAccessor); ok {
			if acc.Set == nil {
				return in.throwTypeError("'%s' was defined without a setter", priv.Name)
			}
			_, c := in.CallFunction(acc.Set, objV, []value.Value{v}, nil)
			return c
		}
		obj.PrivateFields[sym] = v
		return normalC(nil)
	}

	if value.IsNullish(objV) {
		return in.throwTypeError("Cannot set properties of %s (setting '%s')", displayOf(objV), memberPropName(mem))
	}
	key, c := in.memberKey(mem, env)
	if c != nil {
		return *c
	}
	obj, cc := in.coerceToObject(objV)
	if cc != nil {
		return *cc
	}
	if err := obj.Set(key, v, objV, in.call); err != nil {
		return in.toThrowCompletion(err)
	}
	return normalC(nil)
}

// ---------------------------------------------------------------------
// new / class construction protocol
// ---------------------------------------------------------------------

// classFrame tracks the instance under construction for one nested
// class-constructor call, so a `super(...)` call inside its body can
// find the object being built and run this class's own field
// initializers once the super constructor returns: derived-class
// instance fields initialize after super returns; base classes
// initialize them before the constructor body runs.
type classFrame struct {
	class *value.ClassData
	this *value.Object
	fieldsRan bool
}

func (in *Interpreter) evalNew(ex *ast.NewExpression, env *environment.Environment) (value.Value, *Completion) {
	calleeV, c := in.evalExpr(ex.Callee, env)
	if c != nil {
		return nil, c
	}
	fn, ok := calleeV.(*value.Object)
	if !ok || fn.Kind != value.KindFunction {
		cc := in.throwTypeError("%s is not a constructor", calleeDisplayName(ex.Callee))
		return nil, &cc
	}
	args, c := in.evalArguments(ex.Arguments, env)
	if c != nil {
		return nil, c
	}
	v, cc := in.construct(fn, args, fn)
	if isAbrupt(cc) {
		return nil, &cc
	}
	return v, nil
}

// construct implements the [[Construct]] protocol for both native and
// script function objects.
func (in *Interpreter) construct(fn *value.Object, args []value.Value, newTarget *value.Object) (value.Value, Completion) {
	fd := fn.Function
	if fd == nil {
		return nil, in.throwTypeError("value is not a constructor")
	}
	if fd.Kind == value.FuncBound {
		fullArgs := append(append([]value.Value{}, fd.BoundArgs...), args...)
		return in.construct(fd.BoundTarget, fullArgs, newTarget)
	}
	if fd.Kind == value.FuncArrow || fd.Kind == value.FuncAsync || fd.Kind == value.FuncGenerator || fd.Kind == value.FuncAsyncGenerator {
		return nil, in.throwTypeError("%s is not a constructor", fd.Name)
	}
	if fd.Kind == value.FuncNative {
		if err := in.pushFrame(fd.Name, jserror.Position{}); err != nil {
			return nil, in.throwRangeError("Maximum call stack size exceeded")
		}
		defer in.popFrame()
		v, err := fd.Native(value.Undefined, args)
		if err != nil {
			return nil, in.toThrowCompletion(err)
		}
		if v == nil {
			v = value.Undefined
		}
		return v, normalC(nil)
	}

	protoVal, err := newTarget.Get(value.StringKey("prototype"), newTarget, in.call)
	if err != nil {
		return nil, in.toThrowCompletion(err)
	}
	proto, _ := protoVal.(*value.Object)
	if proto == nil {
		proto = in.Realm.ObjectProto
	}
	this := value.NewObject(proto)
	return in.invokeConstructorBody(fn, this, args, newTarget)
}

// invokeConstructorBody runs a class/ordinary constructor's body bound
// to an already-allocated `this`, applying instance field initializers
// at the correct point for base vs. derived classes.
func (in *Interpreter) invokeConstructorBody(fn *value.Object, this *value.Object, args []value.Value, newTarget *value.Object) (value.Value, Completion) {
	fd := fn.Function
	cd := fd.OwnerClass
	lit, _ := fd.Node.(*ast.FunctionLiteral)
	closure, _ := fd.Closure.(*environment.Environment)
	if lit == nil || closure == nil {
		// Implicit constructor (no body was parsed for a base class with
		// no explicit `constructor`): just run its field initializers.
		if c := in.runInstanceFields(cd, this); isAbrupt(c) {
			return nil, c
		}
		return this, normalC(nil)
	}

	if err := in.pushFrame(fd.Name, posOf(lit)); err != nil {
		return nil, in.throwRangeError("Maximum call stack size exceeded")
	}
	defer in.popFrame()

	callEnv := environment.NewFunctionScope(closure)
	callEnv.HasThis = true
	callEnv.ThisVal = this
	callEnv.HasNewTarget = true
	callEnv.NewTargetVal = newTarget
	if cd != nil && cd.SuperClass != nil {
		callEnv.HasSuper = true
		callEnv.SuperHome = fd.HomeObject
		callEnv.SuperCtor = cd.SuperClass
	}
	callEnv.HasArguments = true
	callEnv.ArgumentsVal = in.makeArgumentsObject(args)
	if c := in.bindParameters(lit.Params, args, callEnv); isAbrupt(c) {
		return nil, c
	}

	frame := &classFrame{class: cd, this: this}
	in.classFrames = append(in.classFrames, frame)
	defer func() { in.classFrames = in.classFrames[:len(in.classFrames)-1] }()

	if cd == nil || !cd.IsDerived {
		if c := in.runInstanceFields(cd, this); isAbrupt(c) {
			return nil, c
		}
		frame.fieldsRan = true
	}

	bodyEnv := environment.New(callEnv)
	in.hoistFunctionBody(lit.Body, bodyEnv)
	for _, stmt := range lit.Body.Body {
		c := in.execStatement(stmt, bodyEnv)
		switch c.Kind {
		case CompReturn:
			if obj, ok := c.Value.(*value.Object); ok {
				return obj, normalC(nil)
			}
			return this, normalC(nil)
		case CompThrow:
			return nil, c
		}
	}
	return this, normalC(nil)
}

// runInstanceFields evaluates cd's field initializers against this,
// each in its own scope closing over the class body's environment.
func (in *Interpreter) runInstanceFields(cd *value.ClassData, this *value.Object) Completion {
	if cd == nil {
		return normalC(nil)
	}
	for _, f := range cd.InstanceFields {
		closure, _ := f.Closure.(*environment.Environment)
		fieldEnv := environment.New(closure)
		fieldEnv.HasThis = true
		fieldEnv.ThisVal = this
		if cd.InstanceProto != nil {
			fieldEnv.HasSuper = true
			fieldEnv.SuperHome = cd.InstanceProto
			fieldEnv.SuperCtor = cd.InstanceProto.Prototype
		}
		var v value.Value = value.Undefined
		if f.Precomputed != nil {
			v = f.Precomputed
		} else if f.Node != nil {
			expr, _ := f.Node.(ast.Expression)
			var c *Completion
			v, c = in.evalExpr(expr, fieldEnv)
			if c != nil {
				return *c
			}
		}
		if f.IsPriv {
			if this.PrivateFields == nil {
				this.PrivateFields = map[*value.Symbol]value.Value{}
			}
			this.PrivateFields[f.PrivName] = v
		} else {
			this.DefineOwnProperty(f.Key, value.DataProperty(v))
		}
	}
	return normalC(nil)
}

// evalSuperCall implements `super(...)` inside a derived class
// constructor: it runs the super constructor against the same `this`
// under construction, then (if not already done) runs this class's own
// field initializers.
func (in *Interpreter) evalSuperCall(ex *ast.CallExpression, env *environment.Environment) (value.Value, *Completion) {
	if len(in.classFrames) == 0 {
		cc := in.throwSyntaxError("'super' keyword is only valid inside a class constructor")
		return nil, &cc
	}
	frame := in.classFrames[len(in.classFrames)-1]
	_, superCtor, ok := environment.SuperContext(env)
	if !ok || superCtor == nil {
		cc := in.throwSyntaxError("'super' keyword is unexpected here")
		return nil, &cc
	}
	args, c := in.evalArguments(ex.Arguments, env)
	if c != nil {
		return nil, c
	}
	newTarget := environment.NewTarget(env)
	ntObj, _ := newTarget.(*value.Object)
	if ntObj == nil {
		ntObj = superCtor
	}
	_, cc := in.invokeConstructorBody(superCtor, frame.this, args, ntObj)
	if isAbrupt(cc) {
		return nil, &cc
	}
	if !frame.fieldsRan {
		if c := in.runInstanceFields(frame.class, frame.this); isAbrupt(c) {
			return nil, &c
		}
		frame.fieldsRan = true
	}
	return value.Undefined, nil
}

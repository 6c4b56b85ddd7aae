package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// execStatement is the exhaustive statement-level type switch used in
// place of a virtual-dispatch visitor; it returns a Completion
// (Normal/Break/Continue/Return/Throw), never a Go panic, for any
// in-language control flow.
func (in *Interpreter) execStatement(s ast.Statement, env *environment.Environment) Completion {
	switch st := s.(type) {
	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return normalC(nil)

	case *ast.ExpressionStatement:
		v, c := in.evalExpr(st.Expression, env)
		if c != nil {
			return *c
		}
		return normalC(v)

	case *ast.BlockStatement:
		blockEnv := environment.New(env)
		in.hoistBlockBody(st.Body, blockEnv, false)
		bc := in.execStatements(st.Body, blockEnv)
		if dc := in.disposeEnv(blockEnv); isAbrupt(dc) && !isAbrupt(bc) {
			return dc
		}
		return bc

	case *ast.VariableDeclaration:
		return in.execVarDecl(st, env)

	case *ast.UsingDeclaration:
		return in.execUsingDecl(st, env)

	case *ast.FunctionDeclaration:
		return normalC(nil) // already hoisted

	case *ast.ClassDeclaration:
		cls, c := in.evalClass(st.Class, env)
		if c != nil {
			return *c
		}
		if st.ID != nil {
			environment.Initialize(env, st.ID.Name, cls)
		}
		return normalC(nil)

	case *ast.IfStatement:
		t, c := in.evalExpr(st.Test, env)
		if c != nil {
			return *c
		}
		if value.ToBoolean(t) {
			return in.execStatement(st.Consequent, env)
		}
		if st.Alternate != nil {
			return in.execStatement(st.Alternate, env)
		}
		return normalC(nil)

	case *ast.WhileStatement:
		return in.execWhile(st, env)

	case *ast.DoWhileStatement:
		return in.execDoWhile(st, env)

	case *ast.ForStatement:
		return in.execFor(st, env)

	case *ast.ForInStatement:
		return in.execForIn(st, env)

	case *ast.ForOfStatement:
		return in.execForOf(st, env)

	case *ast.LabeledStatement:
		c := in.execStatement(st.Body, env)
		if c.Kind == CompBreak && c.Label == st.Label.Name {
			return normalC(nil)
		}
		if c.Kind == CompContinue && c.Label == st.Label.Name {
			return normalC(nil)
		}
		return c

	case *ast.ReturnStatement:
		if st.Argument == nil {
			return returnC(value.Undefined)
		}
		if call, ok := st.Argument.(*ast.CallExpression); ok && tailCallEligible(call, env) {
			if tc := in.evalTailCall(call, env); tc != nil {
				return *tc
			}
		}
		v, c := in.evalExpr(st.Argument, env)
		if c != nil {
			return *c
		}
		return returnC(v)

	case *ast.BreakStatement:
		if st.Label != nil {
			return breakC(st.Label.Name)
		}
		return breakC("")

	case *ast.ContinueStatement:
		if st.Label != nil {
			return continueC(st.Label.Name)
		}
		return continueC("")

	case *ast.ThrowStatement:
		v, c := in.evalExpr(st.Argument, env)
		if c != nil {
			return *c
		}
		return throwC(v)

	case *ast.TryStatement:
		return in.execTry(st, env)

	case *ast.SwitchStatement:
		return in.execSwitch(st, env)

	case *ast.WithStatement:
		return in.execWith(st, env)

	case *ast.ImportDeclaration, *ast.ExportNamedDeclaration, *ast.ExportDefaultDeclaration, *ast.ExportAllDeclaration:
		return in.execModuleStatement(s, env)
	}
	return in.throwTypeError("unsupported statement node")
}

// execStatements runs a statement list sequentially, threading the last
// normal-completion value through (the statement-list completion value
// rule) and stopping at the first abrupt completion.
func (in *Interpreter) execStatements(stmts []ast.Statement, env *environment.Environment) Completion {
	var last value.Value
	for _, s := range stmts {
		c := in.execStatement(s, env)
		if isAbrupt(c) {
			return c
		}
		if c.Value != nil {
			last = c.Value
		}
	}
	return normalC(last)
}

func (in *Interpreter) execVarDecl(st *ast.VariableDeclaration, env *environment.Environment) Completion {
	kind := environment.KindVar
	switch st.Kind {
	case ast.VarLet:
		kind = environment.KindLet
	case ast.VarConst:
		kind = environment.KindConst
	}
	for _, decl := range st.Declarations {
		var v value.Value = value.Undefined
		if decl.Init != nil {
			var c *Completion
			v, c = in.evalExpr(decl.Init, env)
			if c != nil {
				return *c
			}
			if name, ok := decl.ID.(*ast.IdentifierPattern); ok {
				nameFunctionIfAnonymous(v, name.Name)
			}
		} else if st.Kind == ast.VarConst {
			return in.throwSyntaxError("Missing initializer in const declaration")
		}
		if st.Kind == ast.VarVar {
			if id, ok := decl.ID.(*ast.IdentifierPattern); ok {
				if decl.Init == nil {
					continue // don't clobber a pre-hoisted value with undefined
				}
				if err := environment.Assign(env, id.Name, v, jserrorPos()); err != nil {
					return in.wrapEnvErr(err, env, id.Name, v)
				}
				continue
			}
		}
		if c := in.bindPattern(decl.ID, v, env, kind); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

// nameFunctionIfAnonymous is a no-op placeholder: naming anonymous
// function/class expressions after the binding they're assigned to is a
// cosmetic inferred-name convenience with no other observable effect, so
// it is intentionally left unimplemented.
func nameFunctionIfAnonymous(value.Value, string) {}

func (in *Interpreter) execUsingDecl(st *ast.UsingDeclaration, env *environment.Environment) Completion {
	for _, decl := range st.Declarations {
		v := value.Value(value.Undefined)
		if decl.Init != nil {
			var c *Completion
			v, c = in.evalExpr(decl.Init, env)
			if c != nil {
				return *c
			}
		}
		if id, ok := decl.ID.(*ast.IdentifierPattern); ok {
			environment.Define(env, id.Name, v, environment.KindConst)
		}
		if !value.IsNullish(v) {
			environment.RegisterDisposable(env, v, st.Await)
		}
	}
	return normalC(nil)
}

func (in *Interpreter) execWhile(st *ast.WhileStatement, env *environment.Environment) Completion {
	for {
		t, c := in.evalExpr(st.Test, env)
		if c != nil {
			return *c
		}
		if !value.ToBoolean(t) {
			return normalC(nil)
		}
		bc := in.execStatement(st.Body, env)
		if r, done := loopControl(bc); done {
			return r
		}
	}
}

func (in *Interpreter) execDoWhile(st *ast.DoWhileStatement, env *environment.Environment) Completion {
	for {
		bc := in.execStatement(st.Body, env)
		if r, done := loopControl(bc); done {
			return r
		}
		t, c := in.evalExpr(st.Test, env)
		if c != nil {
			return *c
		}
		if !value.ToBoolean(t) {
			return normalC(nil)
		}
	}
}

// loopControl interprets a loop body's completion: unlabeled break exits
// the loop (caller returns Normal); unlabeled continue moves to the next
// iteration; anything else (labeled break/continue, return, throw)
// propagates unchanged.
func loopControl(c Completion) (Completion, bool) {
	switch c.Kind {
	case CompBreak:
		if c.Label == "" {
			return normalC(nil), true
		}
		return c, true
	case CompContinue:
		if c.Label == "" {
			return Completion{}, false
		}
		return c, true
	case CompNormal:
		return Completion{}, false
	default:
		return c, true
	}
}

func (in *Interpreter) execFor(st *ast.ForStatement, env *environment.Environment) Completion {
	loopEnv := environment.New(env)
	if vd, ok := st.Init.(*ast.VariableDeclaration); ok {
		if c := in.execVarDecl(vd, loopEnv); isAbrupt(c) {
			return c
		}
	} else if expr, ok := st.Init.(ast.Expression); ok {
		if _, c := in.evalExpr(expr, loopEnv); c != nil {
			return *c
		}
	}
	for {
		if st.Test != nil {
			t, c := in.evalExpr(st.Test, loopEnv)
			if c != nil {
				return *c
			}
			if !value.ToBoolean(t) {
				return normalC(nil)
			}
		}
		iterEnv := environment.New(loopEnv)
		copyLetBindings(loopEnv, iterEnv)
		bc := in.execStatement(st.Body, iterEnv)
		copyLetBindingsBack(iterEnv, loopEnv)
		if r, done := loopControl(bc); done {
			return r
		}
		if st.Update != nil {
			if _, c := in.evalExpr(st.Update, loopEnv); c != nil {
				return *c
			}
		}
	}
}

// copyLetBindings/copyLetBindingsBack implement the per-iteration `let`
// binding semantics of a C-style for loop: each iteration gets a fresh
// copy of the loop-declared bindings, initialized from the previous
// iteration's final values.
func copyLetBindings(from, to *environment.Environment) {
	environment.CopyOwnBindings(from, to)
}

func copyLetBindingsBack(from, to *environment.Environment) {
	environment.CopyOwnBindings(from, to)
}

func (in *Interpreter) execForIn(st *ast.ForInStatement, env *environment.Environment) Completion {
	rv, c := in.evalExpr(st.Right, env)
	if c != nil {
		return *c
	}
	if value.IsNullish(rv) {
		return normalC(nil)
	}
	obj, cc := in.coerceToObject(rv)
	if cc != nil {
		return *cc
	}
	seen := map[string]bool{}
	cur := obj
	var keys []string
	for cur != nil {
		for _, k := range cur.EnumerableStringKeys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
		cur = cur.Prototype
	}
	for _, k := range keys {
		iterEnv := environment.New(env)
		if cmp := in.bindForTarget(st.Left, value.String(k), iterEnv); isAbrupt(cmp) {
			return cmp
		}
		bc := in.execStatement(st.Body, iterEnv)
		if r, done := loopControl(bc); done {
			return r
		}
	}
	return normalC(nil)
}

func (in *Interpreter) execForOf(st *ast.ForOfStatement, env *environment.Environment) Completion {
	rv, c := in.evalExpr(st.Right, env)
	if c != nil {
		return *c
	}
	it, cc := in.getIterator(rv)
	if cc != nil {
		return *cc
	}
	for {
		item, done, cc := in.iteratorStep(it)
		if cc != nil {
			return *cc
		}
		if done {
			return normalC(nil)
		}
		iterEnv := environment.New(env)
		if cmp := in.bindForTarget(st.Left, item, iterEnv); isAbrupt(cmp) {
			in.closeIterator(it)
			return cmp
		}
		bc := in.execStatement(st.Body, iterEnv)
		if r, stop := loopControl(bc); stop {
			in.closeIterator(it)
			return r
		}
	}
}

// bindForTarget applies the left-hand side of a for-in/for-of head,
// which is either a single-declarator VariableDeclaration or a bare
// assignment target expression/pattern.
func (in *Interpreter) bindForTarget(left ast.Node, v value.Value, env *environment.Environment) Completion {
	switch l := left.(type) {
	case *ast.VariableDeclaration:
		kind := environment.KindVar
		switch l.Kind {
		case ast.VarLet:
			kind = environment.KindLet
		case ast.VarConst:
			kind = environment.KindConst
		}
		return in.bindPattern(l.Declarations[0].ID, v, env, kind)
	case ast.Pattern:
		return in.destructureAssign(l, v, env)
	case ast.Expression:
		return in.assignToTarget(l, v, env)
	}
	return in.throwTypeError("invalid for-in/for-of target")
}

// execTry runs the protected block, its optional handler, and its
// optional finally block under a shared guardEnv marked InTry, so a
// `return direct(...)` anywhere inside any of the three falls back to
// an ordinary (non-tail) call: a pending finally still has to run after
// the callee returns, which a replaced activation could never come back
// to run.
func (in *Interpreter) execTry(st *ast.TryStatement, env *environment.Environment) Completion {
	guardEnv := environment.New(env)
	guardEnv.InTry = true
	c := in.execStatement(st.Block, guardEnv)
	if c.Kind == CompThrow && st.Handler != nil {
		catchEnv := environment.New(guardEnv)
		if st.Handler.Param != nil {
			if pc := in.bindPattern(st.Handler.Param, c.Value, catchEnv, environment.KindCatch); isAbrupt(pc) {
				c = pc
			} else {
				c = in.execStatement(st.Handler.Body, catchEnv)
			}
		} else {
			c = in.execStatement(st.Handler.Body, catchEnv)
		}
	}
	if st.Finally != nil {
		fc := in.execStatement(st.Finally, guardEnv)
		if isAbrupt(fc) {
			return fc // finally's abrupt completion overrides try/catch's
		}
	}
	return c
}

// tailCallEligible reports whether a `return call(...)` statement sits
// in tail position: the enclosing function activation is strict, the
// call isn't an optional call (or chained off an optional member) and
// isn't `super(...)`, and no try/catch/finally of the current
// activation needs to run after it returns.
func tailCallEligible(call *ast.CallExpression, env *environment.Environment) bool {
	if call.Optional {
		return false
	}
	if _, ok := call.Callee.(*ast.SuperExpression); ok {
		return false
	}
	if !simpleTailCallee(call.Callee) {
		return false
	}
	if !environment.FunctionStrict(env) {
		return false
	}
	return !environment.InTailGuardedRegion(env)
}

// simpleTailCallee restricts the callee shapes eligible for in-place
// replacement to a bare identifier or a chain of non-optional member
// accesses (including `super.method`, which resolves through the home
// object's prototype rather than a construction protocol); anything
// else falls back to evaluating the call normally.
func simpleTailCallee(e ast.Expression) bool {
	switch ex := e.(type) {
	case *ast.Identifier:
		return true
	case *ast.MemberExpression:
		if ex.Optional {
			return false
		}
		if _, ok := ex.Object.(*ast.SuperExpression); ok {
			return true
		}
		return simpleTailCallee(ex.Object)
	}
	return false
}

// evalTailCall resolves a tail-position call's callee/this/arguments
// without invoking them. A nil result means the callee didn't resolve to
// a callable function object; the caller then falls through to
// evaluating the call normally, reproducing the same TypeError a
// non-tail call would throw. A non-nil CompThrow completion propagates
// an error raised while resolving the callee or arguments. Otherwise the
// completion is CompReturn with Tail set, for CallFunction's trampoline
// to splice in place of a plain synchronous function's own activation —
// or, for every other function kind (native, bound, generator, async,
// class constructor, which all run their own call protocol instead of
// being replaced in place), CompReturn already carrying the call's
// actual result.
func (in *Interpreter) evalTailCall(call *ast.CallExpression, env *environment.Environment) *Completion {
	calleeV, this, c := in.evalCallee(call.Callee, env)
	if c != nil {
		return c
	}
	fn, ok := calleeV.(*value.Object)
	if !ok || fn.Kind != value.KindFunction || fn.Function == nil {
		return nil
	}
	args, c := in.evalArguments(call.Arguments, env)
	if c != nil {
		return c
	}
	if fd := fn.Function; fd.Kind != value.FuncOrdinary && fd.Kind != value.FuncArrow {
		v, cc := in.CallFunction(fn, this, args, nil)
		if isAbrupt(cc) {
			return &cc
		}
		out := returnC(v)
		return &out
	}
	out := returnC(nil)
	out.Tail = &tailCall{Fn: fn, This: this, Args: args}
	return &out
}

func (in *Interpreter) execSwitch(st *ast.SwitchStatement, env *environment.Environment) Completion {
	d, c := in.evalExpr(st.Discriminant, env)
	if c != nil {
		return *c
	}
	switchEnv := environment.New(env)
	for _, cs := range st.Cases {
		in.hoistBlockBody(cs.Consequent, switchEnv, false)
	}
	matchIdx := -1
	for i, cs := range st.Cases {
		if cs.Test == nil {
			continue
		}
		tv, c := in.evalExpr(cs.Test, switchEnv)
		if c != nil {
			return *c
		}
		if value.StrictEquals(d, tv) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		for i, cs := range st.Cases {
			if cs.Test == nil {
				matchIdx = i
				break
			}
		}
	}
	if matchIdx == -1 {
		return normalC(nil)
	}
	for i := matchIdx; i < len(st.Cases); i++ {
		for _, stmt := range st.Cases[i].Consequent {
			bc := in.execStatement(stmt, switchEnv)
			if bc.Kind == CompBreak && bc.Label == "" {
				return normalC(nil)
			}
			if isAbrupt(bc) {
				return bc
			}
		}
	}
	return normalC(nil)
}

// disposeEnv runs env's `using`-registered disposals in reverse
// declaration order.
func (in *Interpreter) disposeEnv(env *environment.Environment) Completion {
	list := environment.TakeDisposables(env)
	for i := len(list) - 1; i >= 0; i-- {
		d := list[i]
		obj, ok := d.Value.(*value.Object)
		if !ok {
			continue
		}
		key := value.SymbolKey(value.SymDispose)
		if d.Await {
			key = value.SymbolKey(value.SymAsyncDispose)
		}
		fnVal, err := obj.Get(key, obj, in.call)
		if err != nil {
			return in.toThrowCompletion(err)
		}
		fn, ok := fnVal.(*value.Object)
		if !ok || fn.Kind != value.KindFunction {
			continue
		}
		if _, c := in.CallFunction(fn, obj, nil, nil); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

// unscopablesOf reads obj[Symbol.unscopables] for `with`-statement name
// filtering; a non-object result means no names are filtered.
func (in *Interpreter) unscopablesOf(obj *value.Object) map[string]bool {
	v, err := obj.Get(value.SymbolKey(value.SymUnscopables), obj, in.call)
	if err != nil {
		return nil
	}
	uobj, ok := v.(*value.Object)
	if !ok {
		return nil
	}
	out := map[string]bool{}
	for _, k := range uobj.EnumerableStringKeys() {
		pv, _ := uobj.Get(value.StringKey(k), uobj, in.call)
		if value.ToBoolean(pv) {
			out[k] = true
		}
	}
	return out
}

func (in *Interpreter) execWith(st *ast.WithStatement, env *environment.Environment) Completion {
	ov, c := in.evalExpr(st.Object, env)
	if c != nil {
		return *c
	}
	obj, cc := in.coerceToObject(ov)
	if cc != nil {
		return *cc
	}
	withEnv := environment.NewWith(env, obj, in.unscopablesOf(obj))
	return in.execStatement(st.Body, withEnv)
}

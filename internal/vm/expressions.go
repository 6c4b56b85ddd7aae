package vm

import (
	"math"
	"math/big"
	"strings"

	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// evalExpr is the exhaustive expression-level type switch companion to
// execStatement. It returns (value, nil) on normal
// completion or (nil, &Completion{Kind: CompThrow,...}) on an abrupt
// completion — expressions abrupt-complete via Throw, or via Return when
// a yield resumed by .return() ends a generator body.
func (in *Interpreter) evalExpr(e ast.Expression, env *environment.Environment) (value.Value, *Completion) {
	switch ex := e.(type) {
	case *ast.Literal:
		return in.evalLiteral(ex)

	case *ast.RegExpLiteral:
		return in.newRegExp(ex.Pattern, ex.Flags)

	case *ast.TemplateLiteral:
		return in.evalTemplateLiteral(ex, env)

	case *ast.TaggedTemplateExpression:
		return in.evalTaggedTemplate(ex, env)

	case *ast.Identifier:
		v, c := in.lookupIdentifier(env, ex.Name, jserrorPos())
		return v, c

	case *ast.ThisExpression:
		return environment.ThisBinding(env), nil

	case *ast.SuperExpression:
		return value.Undefined, nil // only meaningful composed with MemberExpression/CallExpression

	case *ast.ArrayExpression:
		return in.evalArrayExpression(ex, env)

	case *ast.ObjectExpression:
		return in.evalObjectExpression(ex, env)

	case *ast.FunctionExpression:
		name := ""
		if ex.Function.ID != nil {
			name = ex.Function.ID.Name
		}
		fnEnv := env
		if name != "" {
			fnEnv = environment.New(env)
		}
		fn := in.makeFunction(ex.Function, fnEnv, nil)
		if name != "" {
			environment.Define(fnEnv, name, fn, environment.KindConst)
		}
		return fn, nil

	case *ast.ClassExpression:
		cls, c := in.evalClass(ex.Class, env)
		if c != nil {
			return nil, c
		}
		return cls, nil

	case *ast.UnaryExpression:
		return in.evalUnary(ex, env)

	case *ast.BinaryExpression:
		return in.evalBinary(ex, env)

	case *ast.LogicalExpression:
		return in.evalLogical(ex, env)

	case *ast.AssignmentExpression:
		return in.evalAssignment(ex, env)

	case *ast.ConditionalExpression:
		t, c := in.evalExpr(ex.Test, env)
		if c != nil {
			return nil, c
		}
		if value.ToBoolean(t) {
			return in.evalExpr(ex.Consequent, env)
		}
		return in.evalExpr(ex.Alternate, env)

	case *ast.SequenceExpression:
		var last value.Value = value.Undefined
		for _, sub := range ex.Expressions {
			v, c := in.evalExpr(sub, env)
			if c != nil {
				return nil, c
			}
			last = v
		}
		return last, nil

	case *ast.CallExpression:
		return in.evalCall(ex, env)

	case *ast.NewExpression:
		return in.evalNew(ex, env)

	case *ast.MemberExpression:
		v, _, c := in.evalMember(ex, env)
		return v, c

	case *ast.AwaitExpression:
		return in.evalAwait(ex, env)

	case *ast.YieldExpression:
		return in.evalYield(ex, env)

	case *ast.ImportExpression:
		return in.evalDynamicImport(ex, env)

	case *ast.MetaProperty:
		if ex.Meta == "new" {
			return environment.NewTarget(env), nil
		}
		return in.currentModuleMeta(), nil

	case *ast.SpreadElement:
		// Only reached if a spread appears somewhere evalExpr is called
		// directly (defensive); array/call/object builders handle spread
		// inline via their own element loops.
		return in.evalExpr(ex.Argument, env)
	}
	c := in.throwTypeError("unsupported expression node")
	return nil, &c
}

func (in *Interpreter) evalLiteral(lit *ast.Literal) (value.Value, *Completion) {
	switch lit.Kind {
	case ast.LitNumberValue, ast.LitLegacyOctal:
		return value.Number(lit.Number), nil
	case ast.LitString:
		return value.String(lit.Str), nil
	case ast.LitBigInt:
		bi := new(big.Int)
		bi.SetString(lit.BigInt, 10)
		return value.NewBigInt(bi), nil
	case ast.LitBoolean:
		return value.Boolean(lit.Bool), nil
	case ast.LitNull:
		return value.Null, nil
	case ast.LitUndefined:
		return value.Undefined, nil
	}
	c := in.throwTypeError("malformed literal")
	return nil, &c
}

func (in *Interpreter) evalTemplateLiteral(t *ast.TemplateLiteral, env *environment.Environment) (value.Value, *Completion) {
	var sb strings.Builder
	for i, q := range t.Quasis {
		sb.WriteString(q.Cooked)
		if i < len(t.Expressions) {
			v, c := in.evalExpr(t.Expressions[i], env)
			if c != nil {
				return nil, c
			}
			s, err := value.ToStringValue(v, in.call)
			if err != nil {
				cc := in.toThrowCompletion(err)
				return nil, &cc
			}
			sb.WriteString(string(s))
		}
	}
	return value.String(sb.String()), nil
}

func (in *Interpreter) evalTaggedTemplate(t *ast.TaggedTemplateExpression, env *environment.Environment) (value.Value, *Completion) {
	tagFn, thisArg, c := in.evalCallee(t.Tag, env)
	if c != nil {
		return nil, c
	}
	strings_ := in.newArray()
	raw := in.newArray()
	for _, q := range t.Quasi.Quasis {
		strings_.Elements = append(strings_.Elements, value.String(q.Cooked))
		raw.Elements = append(raw.Elements, value.String(q.Raw))
	}
	strings_.DefineOwnProperty(value.StringKey("raw"), value.DataProperty(raw))
	args := []value.Value{strings_}
	for _, ex := range t.Quasi.Expressions {
		v, c := in.evalExpr(ex, env)
		if c != nil {
			return nil, c
		}
		args = append(args, v)
	}
	fn, ok := tagFn.(*value.Object)
	if !ok || fn.Kind != value.KindFunction {
		cc := in.throwTypeError("tag is not a function")
		return nil, &cc
	}
	v, cc := in.CallFunction(fn, thisArg, args, nil)
	if isAbrupt(cc) {
		return nil, &cc
	}
	return v, nil
}

func (in *Interpreter) evalArrayExpression(ex *ast.ArrayExpression, env *environment.Environment) (value.Value, *Completion) {
	arr := in.newArray()
	for _, el := range ex.Elements {
		if el == nil {
			arr.Elements = append(arr.Elements, value.Undefined)
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			sv, c := in.evalExpr(sp.Argument, env)
			if c != nil {
				return nil, c
			}
			items, c := in.iterateToSlice(sv)
			if c != nil {
				return nil, c
			}
			arr.Elements = append(arr.Elements, items...)
			continue
		}
		v, c := in.evalExpr(el, env)
		if c != nil {
			return nil, c
		}
		arr.Elements = append(arr.Elements, v)
	}
	return arr, nil
}

// iterateToSlice drains an iterable into a Go slice, used by array/call
// spread and destructuring-adjacent helpers.
func (in *Interpreter) iterateToSlice(v value.Value) ([]value.Value, *Completion) {
	it, c := in.getIterator(v)
	if c != nil {
		return nil, c
	}
	var out []value.Value
	for {
		item, done, c := in.iteratorStep(it)
		if c != nil {
			return nil, c
		}
		if done {
			return out, nil
		}
		out = append(out, item)
	}
}

func (in *Interpreter) evalObjectExpression(ex *ast.ObjectExpression, env *environment.Environment) (value.Value, *Completion) {
	obj := value.NewObject(in.Realm.ObjectProto)
	for _, p := range ex.Properties {
		if p.Kind == ast.PropSpread {
			sv, c := in.evalExpr(p.Key, env)
			if c != nil {
				return nil, c
			}
			if value.IsNullish(sv) {
				continue
			}
			src, c := in.coerceToObject(sv)
			if c != nil {
				return nil, c
			}
			for _, k := range src.OwnKeys() {
				d, ok := src.GetOwnProperty(k)
				if !ok || !d.Enumerable {
					continue
				}
				pv, err := src.Get(k, src, in.call)
				if err != nil {
					cc := in.toThrowCompletion(err)
					return nil, &cc
				}
				obj.DefineOwnProperty(k, value.DataProperty(pv))
			}
			continue
		}
		key, c := in.evalPropertyKey(p.Key, p.Computed, env)
		if c != nil {
			return nil, c
		}
		switch p.Kind {
		case ast.PropGet:
			fn := in.makeFunction(p.Value.(*ast.FunctionExpression).Function, env, obj)
			existing, _ := obj.GetOwnProperty(key)
			desc := &value.PropertyDescriptor{Get: fn, Enumerable: true, Configurable: true, IsAccessor: true}
			if existing != nil && existing.IsAccessor {
				desc.Set = existing.Set
			}
			obj.DefineOwnProperty(key, desc)
		case ast.PropSet:
			fn := in.makeFunction(p.Value.(*ast.FunctionExpression).Function, env, obj)
			existing, _ := obj.GetOwnProperty(key)
			desc := &value.PropertyDescriptor{Set: fn, Enumerable: true, Configurable: true, IsAccessor: true}
			if existing != nil && existing.IsAccessor {
				desc.Get = existing.Get
			}
			obj.DefineOwnProperty(key, desc)
		default:
			var v value.Value
			var c *Completion
			if fnExpr, ok := p.Value.(*ast.FunctionExpression); ok && p.Kind == ast.PropMethod {
				v = in.makeFunction(fnExpr.Function, env, obj)
			} else {
				v, c = in.evalExpr(p.Value, env)
				if c != nil {
					return nil, c
				}
			}
			obj.DefineOwnProperty(key, value.DataProperty(v))
		}
	}
	return obj, nil
}

func (in *Interpreter) evalUnary(ex *ast.UnaryExpression, env *environment.Environment) (value.Value, *Completion) {
	switch ex.Operator {
	case ast.UnaryTypeof:
		if id, ok := ex.Argument.(*ast.Identifier); ok && !environment.Has(env, id.Name) {
			return value.String("undefined"), nil
		}
		v, c := in.evalExpr(ex.Argument, env)
		if c != nil {
			return nil, c
		}
		return value.String(typeOfValue(v)), nil

	case ast.UnaryDelete:
		return in.evalDelete(ex.Argument, env)

	case ast.UnaryVoid:
		if _, c := in.evalExpr(ex.Argument, env); c != nil {
			return nil, c
		}
		return value.Undefined, nil

	case ast.UnaryIncrement, ast.UnaryDecrement:
		return in.evalIncDec(ex, env)
	}

	v, c := in.evalExpr(ex.Argument, env)
	if c != nil {
		return nil, c
	}
	switch ex.Operator {
	case ast.UnaryMinus:
		if bi, ok := v.(value.BigInt); ok {
			return value.NewBigInt(new(big.Int).Neg(bi.V)), nil
		}
		n, err := value.ToNumber(v, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		return -n, nil
	case ast.UnaryPlus:
		n, err := value.ToNumber(v, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		return n, nil
	case ast.UnaryNot:
		return value.Boolean(!value.ToBoolean(v)), nil
	case ast.UnaryBitNot:
		if bi, ok := v.(value.BigInt); ok {
			return value.NewBigInt(new(big.Int).Not(bi.V)), nil
		}
		i32, err := value.ToInt32(v, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		return value.Number(float64(^i32)), nil
	}
	cc := in.throwTypeError("unsupported unary operator %q", ex.Operator)
	return nil, &cc
}

// evalAssignment implements every assignment operator:
// plain `=` (including destructuring), compound arithmetic/bitwise
// operators, and the short-circuiting logical-assignment trio, which
// skip the right-hand side (and any side effects in it) entirely when
// the left-hand value already decides the result.
func (in *Interpreter) evalAssignment(ex *ast.AssignmentExpression, env *environment.Environment) (value.Value, *Completion) {
	if da, ok := ex.Left.(*ast.DestructuringAssignment); ok {
		v, c := in.evalExpr(ex.Right, env)
		if c != nil {
			return nil, c
		}
		if cc := in.destructureAssign(da.Target, v, env); isAbrupt(cc) {
			return nil, &cc
		}
		return v, nil
	}

	target := ex.Left.(ast.Expression)

	switch ex.Operator {
	case "=":
		v, c := in.evalExpr(ex.Right, env)
		if c != nil {
			return nil, c
		}
		if cc := in.assignToTarget(target, v, env); isAbrupt(cc) {
			return nil, &cc
		}
		return v, nil

	case "&&=", "||=", "??=":
		cur, c := in.evalExpr(target, env)
		if c != nil {
			return nil, c
		}
		switch ex.Operator {
		case "&&=":
			if !value.ToBoolean(cur) {
				return cur, nil
			}
		case "||=":
			if value.ToBoolean(cur) {
				return cur, nil
			}
		case "??=":
			if !value.IsNullish(cur) {
				return cur, nil
			}
		}
		v, c := in.evalExpr(ex.Right, env)
		if c != nil {
			return nil, c
		}
		if cc := in.assignToTarget(target, v, env); isAbrupt(cc) {
			return nil, &cc
		}
		return v, nil

	default:
		op := strings.TrimSuffix(ex.Operator, "=")
		cur, c := in.evalExpr(target, env)
		if c != nil {
			return nil, c
		}
		rv, c := in.evalExpr(ex.Right, env)
		if c != nil {
			return nil, c
		}
		v, cc := in.applyBinary(ast.BinaryOperator(op), cur, rv)
		if cc != nil {
			return nil, cc
		}
		if ac := in.assignToTarget(target, v, env); isAbrupt(ac) {
			return nil, &ac
		}
		return v, nil
	}
}

func typeOfValue(v value.Value) string {
	if obj, ok := v.(*value.Object); ok && obj.Kind == value.KindFunction {
		return "function"
	}
	return v.TypeOf()
}

func (in *Interpreter) evalDelete(target ast.Expression, env *environment.Environment) (value.Value, *Completion) {
	mem, ok := target.(*ast.MemberExpression)
	if !ok {
		return value.Boolean(true), nil
	}
	ov, c := in.evalExpr(mem.Object, env)
	if c != nil {
		return nil, c
	}
	obj, ok := ov.(*value.Object)
	if !ok {
		return value.Boolean(true), nil
	}
	key, c := in.memberKey(mem, env)
	if c != nil {
		return nil, c
	}
	obj.DeleteOwnProperty(key)
	return value.Boolean(true), nil
}

func (in *Interpreter) evalIncDec(ex *ast.UnaryExpression, env *environment.Environment) (value.Value, *Completion) {
	old, c := in.evalExpr(ex.Argument, env)
	if c != nil {
		return nil, c
	}
	var next value.Value
	var result value.Value
	if bi, ok := old.(value.BigInt); ok {
		delta := big.NewInt(1)
		if ex.Operator == ast.UnaryDecrement {
			delta = big.NewInt(-1)
		}
		next = value.NewBigInt(new(big.Int).Add(bi.V, delta))
		result = old
	} else {
		n, err := value.ToNumber(old, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		if ex.Operator == ast.UnaryIncrement {
			next = n + 1
		} else {
			next = n - 1
		}
		result = n
	}
	if ac := in.assignToTarget(ex.Argument, next, env); isAbrupt(ac) {
		return nil, &ac
	}
	if ex.Prefix {
		return next, nil
	}
	return result, nil
}

func (in *Interpreter) evalBinary(ex *ast.BinaryExpression, env *environment.Environment) (value.Value, *Completion) {
	if ex.Operator == "in" {
		if priv, ok := ex.Left.(*ast.PrivateIdentifier); ok {
			rv, c := in.evalExpr(ex.Right, env)
			if c != nil {
				return nil, c
			}
			obj, ok := rv.(*value.Object)
			if !ok {
				cc := in.throwTypeError("cannot use 'in' operator on a non-object")
				return nil, &cc
			}
			sym, c := in.resolvePrivateName(env, priv.Name)
			if c != nil {
				return nil, c
			}
			_, has := obj.PrivateFields[sym]
			return value.Boolean(has), nil
		}
	}
	l, c := in.evalExpr(ex.Left, env)
	if c != nil {
		return nil, c
	}
	r, c := in.evalExpr(ex.Right, env)
	if c != nil {
		return nil, c
	}
	return in.applyBinary(ex.Operator, l, r)
}

func (in *Interpreter) applyBinary(op ast.BinaryOperator, l, r value.Value) (value.Value, *Completion) {
	switch op {
	case "+":
		return in.opAdd(l, r)
	case "-":
		return in.numericOp(l, r, func(a, b float64) float64 { return a - b }, func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })
	case "*":
		return in.numericOp(l, r, func(a, b float64) float64 { return a * b }, func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })
	case "/":
		return in.numericOp(l, r, func(a, b float64) float64 { return a / b }, func(a, b *big.Int) *big.Int {
			if b.Sign() == 0 {
				return big.NewInt(0)
			}
			return new(big.Int).Quo(a, b)
		})
	case "%":
		return in.numericOp(l, r, math.Mod, func(a, b *big.Int) *big.Int {
			if b.Sign() == 0 {
				return big.NewInt(0)
			}
			return new(big.Int).Rem(a, b)
		})
	case "**":
		return in.numericOp(l, r, math.Pow, func(a, b *big.Int) *big.Int { return new(big.Int).Exp(a, b, nil) })
	case "&":
		return in.intOp(l, r, func(a, b int32) int32 { return a & b }, func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) })
	case "|":
		return in.intOp(l, r, func(a, b int32) int32 { return a | b }, func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) })
	case "^":
		return in.intOp(l, r, func(a, b int32) int32 { return a ^ b }, func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) })
	case "<<":
		return in.shiftOp(l, r, func(a int32, b uint32) int32 { return a << (b & 31) })
	case ">>":
		return in.shiftOp(l, r, func(a int32, b uint32) int32 { return a >> (b & 31) })
	case ">>>":
		ln, err := value.ToUint32(l, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		rn, err := value.ToUint32(r, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		return value.Number(float64(ln >> (rn & 31))), nil
	case "==":
		eq, err := value.LooseEquals(l, r, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		return value.Boolean(eq), nil
	case "!=":
		eq, err := value.LooseEquals(l, r, in.call)
		if err != nil {
			cc := in.toThrowCompletion(err)
			return nil, &cc
		}
		return value.Boolean(!eq), nil
	case "===":
		return value.Boolean(value.StrictEquals(l, r)), nil
	case "!==":
		return value.Boolean(!value.StrictEquals(l, r)), nil
	case "<", ">", "<=", ">=":
		return in.relational(op, l, r)
	case "instanceof":
		return in.opInstanceof(l, r)
	case "in":
		return in.opIn(l, r)
	}
	c := in.throwTypeError("unsupported binary operator %q", op)
	return nil, &c
}

func (in *Interpreter) opAdd(l, r value.Value) (value.Value, *Completion) {
	lp, err := value.ToPrimitive(l, value.HintDefault, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	rp, err := value.ToPrimitive(r, value.HintDefault, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	_, lIsStr := lp.(value.String)
	_, rIsStr := rp.(value.String)
	if lIsStr || rIsStr {
		ls, err := value.ToStringValue(lp, in.call)
		if err != nil {
			c := in.toThrowCompletion(err)
			return nil, &c
		}
		rs, err := value.ToStringValue(rp, in.call)
		if err != nil {
			c := in.toThrowCompletion(err)
			return nil, &c
		}
		return value.String(string(ls) + string(rs)), nil
	}
	if lbi, ok := lp.(value.BigInt); ok {
		rbi, ok := rp.(value.BigInt)
		if !ok {
			c := in.throwTypeError("Cannot mix BigInt and other types, use explicit conversions")
			return nil, &c
		}
		return value.NewBigInt(new(big.Int).Add(lbi.V, rbi.V)), nil
	}
	ln, err := value.ToNumber(lp, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	rn, err := value.ToNumber(rp, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	return ln + rn, nil
}

func (in *Interpreter) numericOp(l, r value.Value, numFn func(a, b float64) float64, bigFn func(a, b *big.Int) *big.Int) (value.Value, *Completion) {
	lbi, lok := l.(value.BigInt)
	rbi, rok := r.(value.BigInt)
	if lok || rok {
		if !lok || !rok {
			c := in.throwTypeError("Cannot mix BigInt and other types, use explicit conversions")
			return nil, &c
		}
		return value.NewBigInt(bigFn(lbi.V, rbi.V)), nil
	}
	ln, err := value.ToNumber(l, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	rn, err := value.ToNumber(r, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	return value.Number(numFn(float64(ln), float64(rn))), nil
}

func (in *Interpreter) intOp(l, r value.Value, intFn func(a, b int32) int32, bigFn func(a, b *big.Int) *big.Int) (value.Value, *Completion) {
	lbi, lok := l.(value.BigInt)
	rbi, rok := r.(value.BigInt)
	if lok || rok {
		if !lok || !rok {
			c := in.throwTypeError("Cannot mix BigInt and other types, use explicit conversions")
			return nil, &c
		}
		return value.NewBigInt(bigFn(lbi.V, rbi.V)), nil
	}
	li, err := value.ToInt32(l, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	ri, err := value.ToInt32(r, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	return value.Number(float64(intFn(li, ri))), nil
}

func (in *Interpreter) shiftOp(l, r value.Value, fn func(a int32, b uint32) int32) (value.Value, *Completion) {
	li, err := value.ToInt32(l, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	ru, err := value.ToUint32(r, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	return value.Number(float64(fn(li, ru))), nil
}

func (in *Interpreter) relational(op ast.BinaryOperator, l, r value.Value) (value.Value, *Completion) {
	lp, err := value.ToPrimitive(l, value.HintNumber, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	rp, err := value.ToPrimitive(r, value.HintNumber, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	ls, lIsStr := lp.(value.String)
	rs, rIsStr := rp.(value.String)
	if lIsStr && rIsStr {
		cmp := strings.Compare(string(ls), string(rs))
		return value.Boolean(compareOK(op, cmp)), nil
	}
	if lbi, ok := lp.(value.BigInt); ok {
		if rbi, ok := rp.(value.BigInt); ok {
			return value.Boolean(compareOK(op, lbi.V.Cmp(rbi.V))), nil
		}
	}
	ln, err := value.ToNumber(lp, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	rn, err := value.ToNumber(rp, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	if math.IsNaN(float64(ln)) || math.IsNaN(float64(rn)) {
		return value.Boolean(false), nil
	}
	cmp := 0
	switch {
	case ln < rn:
		cmp = -1
	case ln > rn:
		cmp = 1
	}
	return value.Boolean(compareOK(op, cmp)), nil
}

func compareOK(op ast.BinaryOperator, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func (in *Interpreter) opInstanceof(l, r value.Value) (value.Value, *Completion) {
	ctor, ok := r.(*value.Object)
	if !ok || ctor.Kind != value.KindFunction {
		c := in.throwTypeError("Right-hand side of 'instanceof' is not callable")
		return nil, &c
	}
	obj, ok := l.(*value.Object)
	if !ok {
		return value.Boolean(false), nil
	}
	protoVal, err := ctor.Get(value.StringKey("prototype"), ctor, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	proto, ok := protoVal.(*value.Object)
	if !ok {
		c := in.throwTypeError("Function has non-object prototype in instanceof check")
		return nil, &c
	}
	for cur := obj.Prototype; cur != nil; cur = cur.Prototype {
		if cur == proto {
			return value.Boolean(true), nil
		}
	}
	return value.Boolean(false), nil
}

func (in *Interpreter) opIn(l, r value.Value) (value.Value, *Completion) {
	obj, ok := r.(*value.Object)
	if !ok {
		c := in.throwTypeError("Cannot use 'in' operator to search for a property in a non-object")
		return nil, &c
	}
	key, err := value.ToPropertyKey(l, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	return value.Boolean(obj.HasProperty(key)), nil
}

func (in *Interpreter) evalLogical(ex *ast.LogicalExpression, env *environment.Environment) (value.Value, *Completion) {
	l, c := in.evalExpr(ex.Left, env)
	if c != nil {
		return nil, c
	}
	switch ex.Operator {
	case ast.LogicalAnd:
		if !value.ToBoolean(l) {
			return l, nil
		}
	case ast.LogicalOr:
		if value.ToBoolean(l) {
			return l, nil
		}
	case ast.LogicalNullish:
		if !value.IsNullish(l) {
			return l, nil
		}
	}
	return in.evalExpr(ex.Right, env)
}

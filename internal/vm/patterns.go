package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// bindPattern is the single recursive function driving array/object
// pattern destructuring (including nested patterns and rest elements),
// applying default values only when the source slot is Undefined, and
// declaring each leaf identifier with kind in env.
func (in *Interpreter) bindPattern(p ast.Pattern, v value.Value, env *environment.Environment, kind environment.BindingKind) Completion {
	switch pat := p.(type) {
	case *ast.IdentifierPattern:
		environment.Define(env, pat.Name, v, kind)
		return normalC(nil)

	case *ast.AssignmentPattern:
		if value.IsUndefined(v) {
			dv, c := in.evalExpr(pat.Default, env)
			if c != nil {
				return *c
			}
			v = dv
		}
		return in.bindPattern(pat.Target, v, env, kind)

	case *ast.ArrayPattern:
		return in.bindArrayPattern(pat, v, env, kind)

	case *ast.ObjectPattern:
		return in.bindObjectPattern(pat, v, env, kind)

	case *ast.ExpressionPattern:
		return in.assignToTarget(pat.Expression, v, env)

	case *ast.RestElement:
		return in.bindPattern(pat.Argument, v, env, kind)

	case *ast.DestructuringAssignment:
		return in.destructureAssign(pat.Target, v, env)
	}
	return in.throwTypeError("unsupported binding pattern")
}

// bindArrayPattern drives the iterator protocol over v (Symbol.iterator,
// .next, .done) and binds each element/rest.
func (in *Interpreter) bindArrayPattern(pat *ast.ArrayPattern, v value.Value, env *environment.Environment, kind environment.BindingKind) Completion {
	it, c := in.getIterator(v)
	if c != nil {
		return *c
	}
	defer in.closeIterator(it)

	for _, el := range pat.Elements {
		if el.Rest {
			rest := in.newArray()
			for {
				item, done, c := in.iteratorStep(it)
				if c != nil {
					return *c
				}
				if done {
					break
				}
				rest.Elements = append(rest.Elements, item)
			}
			if el.Pattern != nil {
				if c := in.bindPattern(el.Pattern, rest, env, kind); isAbrupt(c) {
					return c
				}
			}
			return normalC(nil)
		}
		item, done, c := in.iteratorStep(it)
		if c != nil {
			return *c
		}
		if done {
			item = value.Undefined
		}
		if el.Pattern == nil {
			continue // elision/hole
		}
		if c := in.bindPattern(el.Pattern, item, env, kind); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

func (in *Interpreter) bindObjectPattern(pat *ast.ObjectPattern, v value.Value, env *environment.Environment, kind environment.BindingKind) Completion {
	if value.IsNullish(v) {
		return in.throwTypeError("Cannot destructure '%s' as it is %s.", displayOf(v), v.TypeOf())
	}
	obj, c := in.coerceToObject(v)
	if c != nil {
		return *c
	}
	used := make(map[value.PropertyKey]bool)
	for _, prop := range pat.Properties {
		key, c := in.evalPropertyKey(prop.Key, prop.Computed, env)
		if c != nil {
			return *c
		}
		used[key] = true
		pv, err := obj.Get(key, obj, in.call)
		if err != nil {
			return in.toThrowCompletion(err)
		}
		if c := in.bindPattern(prop.Value, pv, env, kind); isAbrupt(c) {
			return c
		}
	}
	if pat.Rest != nil {
		rest := value.NewObject(in.Realm.ObjectProto)
		for _, k := range obj.OwnKeys() {
			if used[k] || k.IsSymbol() {
				continue
			}
			d, _ := obj.GetOwnProperty(k)
			if d != nil && !d.Enumerable {
				continue
			}
			pv, err := obj.Get(k, obj, in.call)
			if err != nil {
				return in.toThrowCompletion(err)
			}
			rest.DefineOwnProperty(k, value.DataProperty(pv))
		}
		if c := in.bindPattern(pat.Rest, rest, env, kind); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

func (in *Interpreter) coerceToObject(v value.Value) (*value.Object, *Completion) {
	obj, err := value.ToObject(v, value.Prototypes{
		Boolean: in.Realm.BooleanProto, Number: in.Realm.NumberProto,
		String: in.Realm.StringProto, BigInt: in.Realm.BigIntProto, Symbol: in.Realm.SymbolProto,
	})
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	return obj, nil
}

func (in *Interpreter) evalPropertyKey(key ast.Expression, computed bool, env *environment.Environment) (value.PropertyKey, *Completion) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return value.StringKey(k.Name), nil
		case *ast.Literal:
			return value.StringKey(literalKeyString(k)), nil
		}
	}
	v, c := in.evalExpr(key, env)
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

func literalKeyString(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LitString:
		return lit.Str
	case ast.LitNumberValue:
		return value.Number(lit.Number).DisplayString()
	}
	return lit.Raw
}

// destructureAssign applies a (non-declaration) destructuring
// assignment: `[a, b] = x;` / `({a, b} = x);` — it reuses bindPattern's
// recursive walk but performs ExpressionPattern leaves as assignments
// rather than declarations, and for array/object patterns directly
// (Target) rather than through a declaration kind.
func (in *Interpreter) destructureAssign(p ast.Pattern, v value.Value, env *environment.Environment) Completion {
	switch pat := p.(type) {
	case *ast.ArrayPattern:
		return in.destructureArrayAssign(pat, v, env)
	case *ast.ObjectPattern:
		return in.destructureObjectAssign(pat, v, env)
	}
	return in.assignPatternLeaf(p, v, env)
}

func (in *Interpreter) assignPatternLeaf(p ast.Pattern, v value.Value, env *environment.Environment) Completion {
	switch pat := p.(type) {
	case *ast.IdentifierPattern:
		if err := environment.Assign(env, pat.Name, v, jserrorPos()); err != nil {
			return in.wrapEnvErr(err, env, pat.Name, v)
		}
		return normalC(nil)
	case *ast.ExpressionPattern:
		return in.assignToTarget(pat.Expression, v, env)
	case *ast.AssignmentPattern:
		if value.IsUndefined(v) {
			dv, c := in.evalExpr(pat.Default, env)
			if c != nil {
				return *c
			}
			v = dv
		}
		return in.assignPatternLeaf(pat.Target, v, env)
	case *ast.ArrayPattern:
		return in.destructureArrayAssign(pat, v, env)
	case *ast.ObjectPattern:
		return in.destructureObjectAssign(pat, v, env)
	}
	return in.throwTypeError("invalid assignment target")
}

func (in *Interpreter) destructureArrayAssign(pat *ast.ArrayPattern, v value.Value, env *environment.Environment) Completion {
	it, c := in.getIterator(v)
	if c != nil {
		return *c
	}
	defer in.closeIterator(it)
	for _, el := range pat.Elements {
		if el.Rest {
			rest := in.newArray()
			for {
				item, done, c := in.iteratorStep(it)
				if c != nil {
					return *c
				}
				if done {
					break
				}
				rest.Elements = append(rest.Elements, item)
			}
			if el.Pattern != nil {
				if c := in.assignPatternLeaf(el.Pattern, rest, env); isAbrupt(c) {
					return c
				}
			}
			return normalC(nil)
		}
		item, done, c := in.iteratorStep(it)
		if c != nil {
			return *c
		}
		if done {
			item = value.Undefined
		}
		if el.Pattern == nil {
			continue
		}
		if c := in.assignPatternLeaf(el.Pattern, item, env); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

func (in *Interpreter) destructureObjectAssign(pat *ast.ObjectPattern, v value.Value, env *environment.Environment) Completion {
	obj, c := in.coerceToObject(v)
	if c != nil {
		return *c
	}
	used := make(map[value.PropertyKey]bool)
	for _, prop := range pat.Properties {
		key, c := in.evalPropertyKey(prop.Key, prop.Computed, env)
		if c != nil {
			return *c
		}
		used[key] = true
		pv, err := obj.Get(key, obj, in.call)
		if err != nil {
			return in.toThrowCompletion(err)
		}
		if c := in.assignPatternLeaf(prop.Value, pv, env); isAbrupt(c) {
			return c
		}
	}
	if pat.Rest != nil {
		rest := value.NewObject(in.Realm.ObjectProto)
		for _, k := range obj.OwnKeys() {
			if used[k] || k.IsSymbol() {
				continue
			}
			pv, err := obj.Get(k, obj, in.call)
			if err != nil {
				return in.toThrowCompletion(err)
			}
			rest.DefineOwnProperty(k, value.DataProperty(pv))
		}
		if c := in.assignPatternLeaf(pat.Rest, rest, env); isAbrupt(c) {
			return c
		}
	}
	return normalC(nil)
}

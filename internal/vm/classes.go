package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// evalClass evaluates a class declaration/expression body into its
// constructor function object: it wires the prototype chain to the
// superclass (or Object.prototype for a base class), mints the
// private-name schema every #name in the body shares (a private field
// is inaccessible outside the class body that declared it), installs
// methods/accessors (public and private, instance and static) and
// collects instance field initializers for per-construction application
// while running static fields/blocks immediately, in declaration order,
// the way static class elements run at class-definition time rather
// than per instance.
func (in *Interpreter) evalClass(cl *ast.ClassLiteral, env *environment.Environment) (*value.Object, *Completion) {
	// Class bodies are always strict; the parser already
	// enforces the accompanying Early Errors, so the evaluator only needs
	// the scoping/prototype machinery here.
	classEnv := environment.New(env)

	isDerived := cl.SuperClass != nil
	var superCtor *value.Object
	superProto := in.Realm.ObjectProto
	if isDerived {
		v, c := in.evalExpr(cl.SuperClass, classEnv)
		if c != nil {
			return nil, c
		}
		if value.IsNull(v) {
			superCtor, superProto = nil, nil
		} else {
			obj, ok := v.(*value.Object)
			if !ok || obj.Kind != value.KindFunction {
				cc := in.throwTypeError("Class extends value is not a constructor")
				return nil, &cc
			}
			superCtor = obj
			protoVal, err := obj.Get(value.StringKey("prototype"), obj, in.call)
			if err != nil {
				cc := in.toThrowCompletion(err)
				return nil, &cc
			}
			if p, ok := protoVal.(*value.Object); ok {
				superProto = p
			} else {
				superProto = nil
			}
		}
	}

	proto := value.NewObject(superProto)

	privateNames := map[string]*value.Symbol{}
	for _, m := range cl.Body {
		if priv, ok := m.Key.(*ast.PrivateIdentifier); ok {
			if _, exists := privateNames[priv.Name]; !exists {
				privateNames[priv.Name] = value.NewSymbol(priv.Name)
			}
		}
	}
	environment.DeclarePrivateNames(classEnv, privateNames)

	name := ""
	if cl.ID != nil {
		name = cl.ID.Name
	}
	cd := &value.ClassData{
		Name: name,
		SuperClass: superCtor,
		IsDerived: isDerived,
		PrivateNames: privateNames,
		Closure: classEnv,
		InstanceProto: proto,
	}

	var ctorLit *ast.FunctionLiteral
	for _, m := range cl.Body {
		if m.Kind == ast.ClassMethod && !m.Static && !m.Computed {
			if id, ok := m.Key.(*ast.Identifier); ok && id.Name == "constructor" {
				ctorLit, _ = m.Value.(*ast.FunctionLiteral)
			}
		}
	}

	var ctorObj *value.Object
	if ctorLit != nil {
		ctorObj = in.makeFunction(ctorLit, classEnv, proto)
	} else {
		ctorObj = value.NewObject(in.Realm.FunctionProto)
		ctorObj.Kind = value.KindFunction
		ctorObj.Class = "Function"
		ctorObj.Function = &value.FunctionData{HomeObject: proto}
	}
	ctorObj.Function.Kind = value.FuncClassConstructor
	ctorObj.Function.Name = name
	ctorObj.Function.OwnerClass = cd
	if superCtor != nil {
		ctorObj.Prototype = superCtor
	}
	ctorObj.DefineOwnProperty(value.StringKey("name"), value.NonEnumerable(value.String(name)))
	ctorObj.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto, Writable: false, Enumerable: false, Configurable: false})
	proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctorObj))
	cd.Constructor = ctorObj

	// The class's own binding is in scope (as an uninitialized-until-now
	// TDZ name declared by the enclosing hoist pass for a declaration, or
	// simply a fresh const binding here for a named class expression) so
	// the class body can refer to itself recursively.
	if cl.ID != nil {
		environment.Define(classEnv, cl.ID.Name, ctorObj, environment.KindConst)
	}

	for _, m := range cl.Body {
		if m.Kind == ast.ClassStaticBlock {
			continue
		}
		if m.Kind == ast.ClassMethod && !m.Static && !m.Computed {
			if id, ok := m.Key.(*ast.Identifier); ok && id.Name == "constructor" {
				continue
			}
		}
		target := proto
		if m.Static {
			target = ctorObj
		}

		if priv, ok := m.Key.(*ast.PrivateIdentifier); ok {
			sym := privateNames[priv.Name]
			if err := in.definePrivateClassMember(cd, target, sym, m, classEnv); err != nil {
				return nil, err
			}
			continue
		}

		switch m.Kind {
		case ast.ClassField:
			if err := in.definePublicField(cd, target, m, classEnv, m.Static); err != nil {
				return nil, err
			}
		case ast.ClassMethod:
			fn := in.makeFunction(m.Value.(*ast.FunctionLiteral), classEnv, target)
			key, c := in.evalPropertyKey(m.Key, m.Computed, classEnv)
			if c != nil {
				return nil, c
			}
			target.DefineOwnProperty(key, value.NonEnumerable(fn))
		case ast.ClassGetter, ast.ClassSetter:
			fn := in.makeFunction(m.Value.(*ast.FunctionLiteral), classEnv, target)
			key, c := in.evalPropertyKey(m.Key, m.Computed, classEnv)
			if c != nil {
				return nil, c
			}
			existing, _ := target.GetOwnProperty(key)
			desc := &value.PropertyDescriptor{Enumerable: false, Configurable: true, IsAccessor: true}
			if existing != nil && existing.IsAccessor {
				desc.Get, desc.Set = existing.Get, existing.Set
			}
			if m.Kind == ast.ClassGetter {
				desc.Get = fn
			} else {
				desc.Set = fn
			}
			target.DefineOwnProperty(key, desc)
		}
	}

	// Static blocks run interleaved with static fields in declaration
	// order during class definition; run them now in a second pass
	// restricted to static elements so an earlier static
	// field is visible to a later static block and vice versa — since
	// both were just installed directly onto ctorObj above, a literal
	// second ordered pass over static blocks alone is sufficient.
	for _, m := range cl.Body {
		if m.Kind != ast.ClassStaticBlock {
			continue
		}
		blockEnv := environment.New(classEnv)
		blockEnv.HasThis = true
		blockEnv.ThisVal = ctorObj
		if isDerived {
			blockEnv.HasSuper = true
			blockEnv.SuperHome = ctorObj
			blockEnv.SuperCtor = superCtor
		}
		in.hoistBlockBody(m.Body.Body, blockEnv, false)
		if c := in.execStatements(m.Body.Body, blockEnv); c.Kind == CompThrow {
			return nil, &c
		}
	}

	return ctorObj, nil
}

// definePublicField handles a (possibly computed, possibly static)
// public field declaration. A static field's initializer runs
// immediately with `this` bound to the constructor; an instance field's
// initializer is deferred to construction time via cd.InstanceFields.
func (in *Interpreter) definePublicField(cd *value.ClassData, target *value.Object, m *ast.ClassMember, classEnv *environment.Environment, static bool) *Completion {
	key, c := in.evalPropertyKey(m.Key, m.Computed, classEnv)
	if c != nil {
		return c
	}
	if !static {
		cd.InstanceFields = append(cd.InstanceFields, value.FieldInit{Key: key, Node: m.Value, Closure: classEnv})
		return nil
	}
	fieldEnv := environment.New(classEnv)
	fieldEnv.HasThis = true
	fieldEnv.ThisVal = target
	if cd.IsDerived {
		fieldEnv.HasSuper = true
		fieldEnv.SuperHome = target
		fieldEnv.SuperCtor = cd.SuperClass
	}
	var v value.Value = value.Undefined
	if m.Value != nil {
		var ec *Completion
		v, ec = in.evalExpr(m.Value, fieldEnv)
		if ec != nil {
			return ec
		}
	}
	target.DefineOwnProperty(key, value.DataProperty(v))
	return nil
}

// definePrivateClassMember installs a private field, method, or
// getter/setter (instance or static) under its minted *Symbol. Instance
// private methods/accessors share one function object across every
// instance (FieldInit.Precomputed), since a function's `this` is bound
// dynamically at call time and does not need per-instance re-creation;
// instance private fields still evaluate their initializer once per
// instance, in runInstanceFields.
func (in *Interpreter) definePrivateClassMember(cd *value.ClassData, target *value.Object, sym *value.Symbol, m *ast.ClassMember, classEnv *environment.Environment) *Completion {
	static := m.Static
	switch m.Kind {
	case ast.ClassField:
		if !static {
			cd.InstanceFields = append(cd.InstanceFields, value.FieldInit{IsPriv: true, PrivName: sym, Node: m.Value, Closure: classEnv})
			return nil
		}
		fieldEnv := environment.New(classEnv)
		fieldEnv.HasThis = true
		fieldEnv.ThisVal = target
		var v value.Value = value.Undefined
		if m.Value != nil {
			var ec *Completion
			v, ec = in.evalExpr(m.Value, fieldEnv)
			if ec != nil {
				return ec
			}
		}
		if target.PrivateFields == nil {
			target.PrivateFields = map[*value.Symbol]value.Value{}
		}
		target.PrivateFields[sym] = v
		return nil

	case ast.ClassMethod:
		fn := in.makeFunction(m.Value.(*ast.FunctionLiteral), classEnv, target)
		if static {
			if target.PrivateFields == nil {
				target.PrivateFields = map[*value.Symbol]value.Value{}
			}
			target.PrivateFields[sym] = fn
			return nil
		}
		cd.InstanceFields = append(cd.InstanceFields, value.FieldInit{IsPriv: true, PrivName: sym, Precomputed: fn})
		return nil

	case ast.ClassGetter, ast.ClassSetter:
		fn := in.makeFunction(m.Value.(*ast.FunctionLiteral), classEnv, target)
		if static {
			if target.PrivateFields == nil {
				target.PrivateFields = map[*value.Symbol]value.Value{}
			}
			acc, _ := target.PrivateFields[sym].(*value.PrivateAccessor)
			if acc == nil {
				acc = &value.PrivateAccessor{}
			}
			if m.Kind == ast.ClassGetter {
				acc.Get = fn
			} else {
				acc.Set = fn
			}
			target.PrivateFields[sym] = acc
			return nil
		}
		// Merge getter/setter halves declared separately by scanning any
		// FieldInit already queued for this private name.
		for i := range cd.InstanceFields {
			if cd.InstanceFields[i].IsPriv && cd.InstanceFields[i].PrivName == sym {
				if acc, ok := cd.InstanceFields[i].Precomputed.(*value.PrivateAccessor); ok {
					if m.Kind == ast.ClassGetter {
						acc.Get = fn
					} else {
						acc.Set = fn
					}
					return nil
				}
			}
		}
		acc := &value.PrivateAccessor{}
		if m.Kind == ast.ClassGetter {
			acc.Get = fn
		} else {
			acc.Set = fn
		}
		cd.InstanceFields = append(cd.InstanceFields, value.FieldInit{IsPriv: true, PrivName: sym, Precomputed: acc})
		return nil
	}
	return nil
}

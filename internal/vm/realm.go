package vm

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// newRealm allocates the intrinsic prototype objects and wires their
// prototype-chain links (Object.prototype is the terminal ancestor of
// every other intrinsic prototype, Function.prototype's prototype is
// Object.prototype, etc.). The full built-in method library is out of
// scope, but the addressable prototype/constructor objects themselves
// are required by the runtime substrate
// (instanceof checks, error classes, promises).
func newRealm() *Realm {
	r := &Realm{ErrorProtos: make(map[string]*value.Object), ErrorCtors: make(map[string]*value.Object)}

	r.ObjectProto = value.NewObject(nil)
	r.ObjectProto.Class = "Object"

	mk := func(class string) *value.Object {
		o := value.NewObject(r.ObjectProto)
		o.Class = class
		return o
	}

	r.FunctionProto = mk("Function")
	r.ArrayProto = mk("Array")
	r.ErrorProto = mk("Error")
	r.BooleanProto = mk("Boolean")
	r.NumberProto = mk("Number")
	r.StringProto = mk("String")
	r.SymbolProto = mk("Symbol")
	r.BigIntProto = mk("BigInt")
	r.PromiseProto = mk("Promise")
	r.RegExpProto = mk("RegExp")
	r.MapProto = mk("Map")
	r.SetProto = mk("Set")
	r.WeakMapProto = mk("WeakMap")
	r.WeakSetProto = mk("WeakSet")
	r.GeneratorProto = mk("Generator")
	r.AsyncGeneratorProto = mk("AsyncGenerator")

	for _, name := range []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "URIError", "EvalError"} {
		proto := value.NewObject(r.ErrorProto)
		proto.Class = name
		proto.DefineOwnProperty(value.StringKey("name"), value.NonEnumerable(value.String(name)))
		r.ErrorProtos[name] = proto
	}

	r.GlobalObject = mk("global")
	return r
}

// installGlobals registers the minimal global bindings the runtime
// substrate's own semantics depend on being addressable (
// "register_global" is how a host adds more; these are the ones the
// language itself needs: instanceof targets for built-in errors,
// Promise, Symbol, and bare constructors for Object/Array).
func installGlobals(in *Interpreter) {
	g := in.Global
	r := in.Realm

	objectCtor := in.newNativeFunction("Object", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.NewObject(r.ObjectProto), nil
		}
		return args[0], nil
	})
	objectCtor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: r.ObjectProto})
	r.ObjectProto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(objectCtor))
	environment.Define(g, "Object", objectCtor, environment.KindVar)

	arrayCtor := in.newNativeFunction("Array", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		arr := in.newArray()
		if len(args) == 1 {
			if n, ok := args[0].(value.Number); ok {
				arr.Elements = make([]value.Value, int(n))
				for i := range arr.Elements {
					arr.Elements[i] = value.Undefined
				}
				return arr, nil
			}
		}
		arr.Elements = append(arr.Elements, args...)
		return arr, nil
	})
	arrayCtor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: r.ArrayProto})
	environment.Define(g, "Array", arrayCtor, environment.KindVar)

	for _, name := range []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "URIError", "EvalError", "Error"} {
		name := name
		proto := r.ErrorProto
		if p, ok := r.ErrorProtos[name]; ok {
			proto = p
		}
		ctor := in.newNativeFunction(name, 1, func(this value.Value, args []value.Value) (value.Value, error) {
			msg := ""
			if len(args) > 0 {
				s, err := value.ToStringValue(args[0], in.call)
				if err != nil {
					return nil, err
				}
				msg = string(s)
			}
			return in.newErrorObject(name, msg), nil
		})
		ctor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto})
		proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctor))
		r.ErrorCtors[name] = ctor
		environment.Define(g, name, ctor, environment.KindVar)
	}

	symbolCtor := in.newNativeFunction("Symbol", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		desc := ""
		if len(args) > 0 {
			s, err := value.ToStringValue(args[0], in.call)
			if err != nil {
				return nil, err
			}
			desc = string(s)
		}
		return value.NewSymbol(desc), nil
	})
	symbolCtor.DefineOwnProperty(value.StringKey("iterator"), value.NonEnumerable(value.SymIterator))
	symbolCtor.DefineOwnProperty(value.StringKey("asyncIterator"), value.NonEnumerable(value.SymAsyncIterator))
	symbolCtor.DefineOwnProperty(value.StringKey("unscopables"), value.NonEnumerable(value.SymUnscopables))
	symbolCtor.DefineOwnProperty(value.StringKey("dispose"), value.NonEnumerable(value.SymDispose))
	symbolCtor.DefineOwnProperty(value.StringKey("asyncDispose"), value.NonEnumerable(value.SymAsyncDispose))
	symbolCtor.DefineOwnProperty(value.StringKey("toPrimitive"), value.NonEnumerable(value.SymToPrimitive))
	symbolCtor.DefineOwnProperty(value.StringKey("hasInstance"), value.NonEnumerable(value.SymHasInstance))
	environment.Define(g, "Symbol", symbolCtor, environment.KindVar)

	installPromiseGlobal(in)
	installMapSetGlobals(in)
	installRegExpProto(in)

	environment.Define(g, "undefined", value.Undefined, environment.KindConst)
	environment.Define(g, "NaN", value.Number(nan), environment.KindConst)
	environment.Define(g, "Infinity", value.Number(inf), environment.KindConst)
	environment.Define(g, "globalThis", r.GlobalObject, environment.KindVar)

	sendMessage := in.newNativeFunction("sendMessage", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undefined, fmt.Errorf("sendMessage requires a channel argument")
		}
		channel, err := value.ToStringValue(args[0], in.call)
		if err != nil {
			return nil, err
		}
		return in.Bus.Send(string(channel), args[1:])
	})
	environment.Define(g, "sendMessage", sendMessage, environment.KindVar)

	sendMessageAsync := in.newNativeFunction("sendMessageAsync", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.Undefined, fmt.Errorf("sendMessageAsync requires a channel argument")
		}
		channel, err := value.ToStringValue(args[0], in.call)
		if err != nil {
			return nil, err
		}
		promise, resolve, reject := in.newPromiseCapability()
		in.Bus.SendAsync(string(channel), args[1:], in.Loop.Enqueue, func(v value.Value, sendErr error) {
			if sendErr != nil {
				reject(in.errorValueFromGoErr(sendErr))
				return
			}
			resolve(v)
		})
		return promise, nil
	})
	environment.Define(g, "sendMessageAsync", sendMessageAsync, environment.KindVar)
}

func (in *Interpreter) errorValueFromGoErr(err error) value.Value {
	return in.newErrorObject("Error", err.Error())
}

func nan() float64 {
	var z float64
	return z / z
}

func inf() float64 {
	return 1e308 * 10
}

// newErrorObject builds an Error-kind object of the named built-in
// class, matching `new TypeError("msg")`'s shape: `e instanceof
// TypeError` must hold.
func (in *Interpreter) newErrorObject(class, msg string) *value.Object {
	proto := in.Realm.ErrorProto
	if p, ok := in.Realm.ErrorProtos[class]; ok {
		proto = p
	}
	o := value.NewObject(proto)
	o.Kind = value.KindError
	o.Class = class
	o.Error = &value.ErrorData{Name: class, Message: msg, Stack: in.snapshotStack().Format()}
	o.DefineOwnProperty(value.StringKey("message"), value.NonEnumerable(value.String(msg)))
	o.DefineOwnProperty(value.StringKey("name"), value.NonEnumerable(value.String(class)))
	o.DefineOwnProperty(value.StringKey("stack"), value.NonEnumerable(value.String(o.Error.Stack)))
	return o
}

func (in *Interpreter) newArray() *value.Object {
	o := value.NewObject(in.Realm.ArrayProto)
	o.Kind = value.KindArray
	o.Class = "Array"
	return o
}

package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// installMapSetGlobals wires Map, Set, WeakMap, and WeakSet as
// addressable constructors with their core prototype methods:
// internal/value.OrderedMap already backs all four, so exposing
// get/set/has/delete/forEach/size and the keys/values/entries
// iterators is a thin layer over it.
//
// WeakMap/WeakSet reuse the same OrderedMap-backed table as Map/Set
// rather than a true ephemeron table: entries are never collected when
// their key becomes otherwise unreachable (there is no GC hook to
// observe that here), so they trade the weak-reference memory behavior
// for an otherwise-faithful get/set/has/delete/add surface restricted
// to object/symbol keys (see DESIGN.md).
func installMapSetGlobals(in *Interpreter) {
	installMapGlobal(in)
	installSetGlobal(in)
	installWeakMapGlobal(in)
	installWeakSetGlobal(in)
}

// weakKeyOK restricts WeakMap/WeakSet keys to objects and symbols,
// matching the real built-ins' rejection of primitive keys.
func weakKeyOK(v value.Value) bool {
	switch v.(type) {
	case *value.Object, *value.Symbol:
		return true
	default:
		return false
	}
}

func installMapGlobal(in *Interpreter) {
	proto := in.Realm.MapProto

	thisMap := func(this value.Value, method string) (*value.Object, *Completion) {
		o, ok := this.(*value.Object)
		if !ok || o.Kind != value.KindMap || o.MapData == nil {
			c := in.throwTypeError("Method Map.prototype.%s called on incompatible receiver", method)
			return nil, &c
		}
		return o, nil
	}

	proto.DefineOwnProperty(value.StringKey("get"), value.NonEnumerable(in.newNativeFunction("get", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "get")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		v, ok := o.MapData.Get(firstArg(args))
		if !ok {
			return value.Undefined, nil
		}
		return v, nil
	})))
	proto.DefineOwnProperty(value.StringKey("set"), value.NonEnumerable(in.newNativeFunction("set", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "set")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		o.MapData.Set(firstArg(args), secondArg(args))
		return o, nil
	})))
	proto.DefineOwnProperty(value.StringKey("has"), value.NonEnumerable(in.newNativeFunction("has", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "has")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.MapData.Has(firstArg(args))), nil
	})))
	proto.DefineOwnProperty(value.StringKey("delete"), value.NonEnumerable(in.newNativeFunction("delete", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "delete")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.MapData.Delete(firstArg(args))), nil
	})))
	proto.DefineOwnProperty(value.StringKey("clear"), value.NonEnumerable(in.newNativeFunction("clear", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "clear")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		o.MapData.Clear()
		return value.Undefined, nil
	})))
	proto.DefineOwnProperty(value.StringKey("forEach"), value.NonEnumerable(in.newNativeFunction("forEach", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "forEach")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		cb, ok := firstArg(args).(*value.Object)
		if !ok || cb.Kind != value.KindFunction {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "callback is not a function"))
		}
		for _, e := range o.MapData.Entries() {
			if _, comp := in.CallFunction(cb, secondArg(args), []value.Value{e[1], e[0], o}, nil); comp.Kind == CompThrow {
				return nil, in.thrownValueAsError(comp.Value)
			}
		}
		return value.Undefined, nil
	})))
	proto.DefineOwnProperty(value.StringKey("size"), &value.PropertyDescriptor{
		IsAccessor: true,
		Get: in.newNativeFunction("get size", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			o, c := thisMap(this, "size")
			if c != nil {
				return nil, in.thrownValueAsError(c.Value)
			}
			return value.Number(o.MapData.Size()), nil
		}),
		Enumerable: false, Configurable: true,
	})
	entriesIter := func(o *value.Object, kind string) *value.Object {
		entries := o.MapData.Entries()
		idx := 0
		it := value.NewObject(in.Realm.ObjectProto)
		it.DefineOwnProperty(value.StringKey("next"), value.NonEnumerable(in.newNativeFunction("next", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			if idx >= len(entries) {
				return in.iterResult(value.Undefined, true), nil
			}
			e := entries[idx]
			idx++
			switch kind {
			case "keys":
				return in.iterResult(e[0], false), nil
			case "values":
				return in.iterResult(e[1], false), nil
			default:
				pair := in.newArray()
				pair.Elements = []value.Value{e[0], e[1]}
				return in.iterResult(pair, false), nil
			}
		})))
		it.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			return it, nil
		})))
		return it
	}
	proto.DefineOwnProperty(value.StringKey("keys"), value.NonEnumerable(in.newNativeFunction("keys", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "keys")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return entriesIter(o, "keys"), nil
	})))
	proto.DefineOwnProperty(value.StringKey("values"), value.NonEnumerable(in.newNativeFunction("values", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "values")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return entriesIter(o, "values"), nil
	})))
	proto.DefineOwnProperty(value.StringKey("entries"), value.NonEnumerable(in.newNativeFunction("entries", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "entries")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return entriesIter(o, "entries"), nil
	})))
	proto.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisMap(this, "Symbol.iterator")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return entriesIter(o, "entries"), nil
	})))

	ctor := in.newNativeFunction("Map", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o := value.NewObject(proto)
		o.Kind = value.KindMap
		o.Class = "Map"
		o.MapData = value.NewOrderedMap()
		if len(args) > 0 && !value.IsNullish(args[0]) {
			items, c := in.iterateToSlice(args[0])
			if c != nil {
				return nil, in.thrownValueAsError(c.Value)
			}
			for _, item := range items {
				pair, c := in.iterateToSlice(item)
				if c != nil {
					return nil, in.thrownValueAsError(c.Value)
				}
				var k, v value.Value = value.Undefined, value.Undefined
				if len(pair) > 0 {
					k = pair[0]
				}
				if len(pair) > 1 {
					v = pair[1]
				}
				o.MapData.Set(k, v)
			}
		}
		return o, nil
	})
	ctor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto})
	proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctor))
	environment.Define(in.Global, "Map", ctor, environment.KindVar)
}

func installSetGlobal(in *Interpreter) {
	proto := in.Realm.SetProto

	thisSet := func(this value.Value, method string) (*value.Object, *Completion) {
		o, ok := this.(*value.Object)
		if !ok || o.Kind != value.KindSet || o.SetData == nil {
			c := in.throwTypeError("Method Set.prototype.%s called on incompatible receiver", method)
			return nil, &c
		}
		return o, nil
	}

	proto.DefineOwnProperty(value.StringKey("add"), value.NonEnumerable(in.newNativeFunction("add", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "add")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		v := firstArg(args)
		o.SetData.Set(v, v)
		return o, nil
	})))
	proto.DefineOwnProperty(value.StringKey("has"), value.NonEnumerable(in.newNativeFunction("has", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "has")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.SetData.Has(firstArg(args))), nil
	})))
	proto.DefineOwnProperty(value.StringKey("delete"), value.NonEnumerable(in.newNativeFunction("delete", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "delete")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.SetData.Delete(firstArg(args))), nil
	})))
	proto.DefineOwnProperty(value.StringKey("clear"), value.NonEnumerable(in.newNativeFunction("clear", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "clear")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		o.SetData.Clear()
		return value.Undefined, nil
	})))
	proto.DefineOwnProperty(value.StringKey("forEach"), value.NonEnumerable(in.newNativeFunction("forEach", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "forEach")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		cb, ok := firstArg(args).(*value.Object)
		if !ok || cb.Kind != value.KindFunction {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "callback is not a function"))
		}
		for _, e := range o.SetData.Entries() {
			if _, comp := in.CallFunction(cb, secondArg(args), []value.Value{e[0], e[0], o}, nil); comp.Kind == CompThrow {
				return nil, in.thrownValueAsError(comp.Value)
			}
		}
		return value.Undefined, nil
	})))
	proto.DefineOwnProperty(value.StringKey("size"), &value.PropertyDescriptor{
		IsAccessor: true,
		Get: in.newNativeFunction("get size", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			o, c := thisSet(this, "size")
			if c != nil {
				return nil, in.thrownValueAsError(c.Value)
			}
			return value.Number(o.SetData.Size()), nil
		}),
		Enumerable: false, Configurable: true,
	})
	valuesIter := func(o *value.Object) *value.Object {
		entries := o.SetData.Entries()
		idx := 0
		it := value.NewObject(in.Realm.ObjectProto)
		it.DefineOwnProperty(value.StringKey("next"), value.NonEnumerable(in.newNativeFunction("next", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			if idx >= len(entries) {
				return in.iterResult(value.Undefined, true), nil
			}
			v := entries[idx][0]
			idx++
			return in.iterResult(v, false), nil
		})))
		it.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
			return it, nil
		})))
		return it
	}
	proto.DefineOwnProperty(value.StringKey("values"), value.NonEnumerable(in.newNativeFunction("values", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "values")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return valuesIter(o), nil
	})))
	if valuesDesc, ok := proto.GetOwnProperty(value.StringKey("values")); ok {
		proto.DefineOwnProperty(value.StringKey("keys"), valuesDesc)
	}
	proto.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisSet(this, "Symbol.iterator")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return valuesIter(o), nil
	})))

	ctor := in.newNativeFunction("Set", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o := value.NewObject(proto)
		o.Kind = value.KindSet
		o.Class = "Set"
		o.SetData = value.NewOrderedMap()
		if len(args) > 0 && !value.IsNullish(args[0]) {
			items, c := in.iterateToSlice(args[0])
			if c != nil {
				return nil, in.thrownValueAsError(c.Value)
			}
			for _, v := range items {
				o.SetData.Set(v, v)
			}
		}
		return o, nil
	})
	ctor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto})
	proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctor))
	environment.Define(in.Global, "Set", ctor, environment.KindVar)
}

// installWeakMapGlobal wires WeakMap: get/set/has/delete only, no
// size/forEach/iterators, matching the real WeakMap's non-enumerable
// surface (see installMapSetGlobals for the weak-reference caveat).
func installWeakMapGlobal(in *Interpreter) {
	proto := in.Realm.WeakMapProto

	thisWeakMap := func(this value.Value, method string) (*value.Object, *Completion) {
		o, ok := this.(*value.Object)
		if !ok || o.Kind != value.KindWeakMap || o.MapData == nil {
			c := in.throwTypeError("Method WeakMap.prototype.%s called on incompatible receiver", method)
			return nil, &c
		}
		return o, nil
	}

	proto.DefineOwnProperty(value.StringKey("get"), value.NonEnumerable(in.newNativeFunction("get", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakMap(this, "get")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		v, ok := o.MapData.Get(firstArg(args))
		if !ok {
			return value.Undefined, nil
		}
		return v, nil
	})))
	proto.DefineOwnProperty(value.StringKey("set"), value.NonEnumerable(in.newNativeFunction("set", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakMap(this, "set")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		k := firstArg(args)
		if !weakKeyOK(k) {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Invalid value used as weak map key"))
		}
		o.MapData.Set(k, secondArg(args))
		return o, nil
	})))
	proto.DefineOwnProperty(value.StringKey("has"), value.NonEnumerable(in.newNativeFunction("has", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakMap(this, "has")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.MapData.Has(firstArg(args))), nil
	})))
	proto.DefineOwnProperty(value.StringKey("delete"), value.NonEnumerable(in.newNativeFunction("delete", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakMap(this, "delete")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.MapData.Delete(firstArg(args))), nil
	})))

	ctor := in.newNativeFunction("WeakMap", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o := value.NewObject(proto)
		o.Kind = value.KindWeakMap
		o.Class = "WeakMap"
		o.MapData = value.NewOrderedMap()
		if len(args) > 0 && !value.IsNullish(args[0]) {
			items, c := in.iterateToSlice(args[0])
			if c != nil {
				return nil, in.thrownValueAsError(c.Value)
			}
			for _, item := range items {
				pair, c := in.iterateToSlice(item)
				if c != nil {
					return nil, in.thrownValueAsError(c.Value)
				}
				var k, v value.Value = value.Undefined, value.Undefined
				if len(pair) > 0 {
					k = pair[0]
				}
				if len(pair) > 1 {
					v = pair[1]
				}
				if !weakKeyOK(k) {
					return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Invalid value used as weak map key"))
				}
				o.MapData.Set(k, v)
			}
		}
		return o, nil
	})
	ctor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto})
	proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctor))
	environment.Define(in.Global, "WeakMap", ctor, environment.KindVar)
}

// installWeakSetGlobal wires WeakSet: add/has/delete only, no
// size/forEach/iterators, matching the real WeakSet's non-enumerable
// surface.
func installWeakSetGlobal(in *Interpreter) {
	proto := in.Realm.WeakSetProto

	thisWeakSet := func(this value.Value, method string) (*value.Object, *Completion) {
		o, ok := this.(*value.Object)
		if !ok || o.Kind != value.KindWeakSet || o.SetData == nil {
			c := in.throwTypeError("Method WeakSet.prototype.%s called on incompatible receiver", method)
			return nil, &c
		}
		return o, nil
	}

	proto.DefineOwnProperty(value.StringKey("add"), value.NonEnumerable(in.newNativeFunction("add", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakSet(this, "add")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		v := firstArg(args)
		if !weakKeyOK(v) {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Invalid value used in weak set"))
		}
		o.SetData.Set(v, v)
		return o, nil
	})))
	proto.DefineOwnProperty(value.StringKey("has"), value.NonEnumerable(in.newNativeFunction("has", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakSet(this, "has")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.SetData.Has(firstArg(args))), nil
	})))
	proto.DefineOwnProperty(value.StringKey("delete"), value.NonEnumerable(in.newNativeFunction("delete", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		o, c := thisWeakSet(this, "delete")
		if c != nil {
			return nil, in.thrownValueAsError(c.Value)
		}
		return value.Boolean(o.SetData.Delete(firstArg(args))), nil
	})))

	ctor := in.newNativeFunction("WeakSet", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		o := value.NewObject(proto)
		o.Kind = value.KindWeakSet
		o.Class = "WeakSet"
		o.SetData = value.NewOrderedMap()
		if len(args) > 0 && !value.IsNullish(args[0]) {
			items, c := in.iterateToSlice(args[0])
			if c != nil {
				return nil, in.thrownValueAsError(c.Value)
			}
			for _, v := range items {
				if !weakKeyOK(v) {
					return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Invalid value used in weak set"))
				}
				o.SetData.Set(v, v)
			}
		}
		return o, nil
	})
	ctor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto})
	proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctor))
	environment.Define(in.Global, "WeakSet", ctor, environment.KindVar)
}

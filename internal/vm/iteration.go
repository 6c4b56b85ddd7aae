package vm

import "github.com/kodjodevf/js-interpreter-sub006/internal/value"

// iterator is the host-side handle produced by getIterator: the iterator
// object itself plus its resolved `next` method, matching the iterator
// protocol (Symbol.iterator, .next, .done).
type iterator struct {
	obj *value.Object
	next *value.Object
}

// getIterator resolves v[Symbol.iterator] for array/object destructuring,
// for-of, and spread.
func (in *Interpreter) getIterator(v value.Value) (*iterator, *Completion) {
	if arr, ok := v.(*value.Object); ok && arr.Kind == value.KindArray {
		it := in.arrayIteratorObject(arr.Elements)
		return in.iteratorFromObject(it)
	}
	obj, c := in.coerceToObject(v)
	if c != nil {
		return nil, c
	}
	return in.iteratorFromObject(obj)
}

func (in *Interpreter) iteratorFromObject(obj *value.Object) (*iterator, *Completion) {
	fnVal, err := obj.Get(value.SymbolKey(value.SymIterator), obj, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	fn, ok := fnVal.(*value.Object)
	if !ok || fn.Kind != value.KindFunction {
		c := in.throwTypeError("value is not iterable")
		return nil, &c
	}
	itVal, comp := in.CallFunction(fn, obj, nil, nil)
	if isAbrupt(comp) {
		return nil, &comp
	}
	itObj, ok := itVal.(*value.Object)
	if !ok {
		c := in.throwTypeError("iterator result is not an object")
		return nil, &c
	}
	nextVal, err := itObj.Get(value.StringKey("next"), itObj, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, &c
	}
	nextFn, ok := nextVal.(*value.Object)
	if !ok || nextFn.Kind != value.KindFunction {
		c := in.throwTypeError("iterator.next is not a function")
		return nil, &c
	}
	return &iterator{obj: itObj, next: nextFn}, nil
}

// iteratorStep calls it.next and reads the result's .done/.value.
func (in *Interpreter) iteratorStep(it *iterator) (value.Value, bool, *Completion) {
	res, comp := in.CallFunction(it.next, it.obj, nil, nil)
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
	if value.ToBoolean(doneVal) {
		return value.Undefined, true, nil
	}
	v, err := resObj.Get(value.StringKey("value"), resObj, in.call)
	if err != nil {
		c := in.toThrowCompletion(err)
		return nil, false, &c
	}
	return v, false, nil
}

// closeIterator calls it.return if present, per the IteratorClose
// abstract operation; errors from a missing/absent return are ignored, as
// closeIterator is only ever used for early exits (destructuring rest,
// break out of for-of).
func (in *Interpreter) closeIterator(it *iterator) {
	if it == nil || it.obj == nil {
		return
	}
	retVal, err := it.obj.Get(value.StringKey("return"), it.obj, in.call)
	if err != nil {
		return
	}
	retFn, ok := retVal.(*value.Object)
	if !ok || retFn.Kind != value.KindFunction {
		return
	}
	_, _ = in.CallFunction(retFn, it.obj, nil, nil)
}

// arrayIteratorObject builds a one-shot iterator object over a fixed
// element slice (used for `arguments` and plain array iteration).
func (in *Interpreter) arrayIteratorObject(elements []value.Value) *value.Object {
	idx := 0
	o := value.NewObject(in.Realm.ObjectProto)
	o.Class = "Array Iterator"
	nextFn := in.newNativeFunction("next", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		res := value.NewObject(in.Realm.ObjectProto)
		if idx >= len(elements) {
			res.DefineOwnProperty(value.StringKey("done"), value.DataProperty(value.Boolean(true)))
			res.DefineOwnProperty(value.StringKey("value"), value.DataProperty(value.Undefined))
			return res, nil
		}
		v := elements[idx]
		idx++
		res.DefineOwnProperty(value.StringKey("done"), value.DataProperty(value.Boolean(false)))
		res.DefineOwnProperty(value.StringKey("value"), value.DataProperty(v))
		return res, nil
	})
	o.DefineOwnProperty(value.StringKey("next"), value.NonEnumerable(nextFn))
	selfFn := in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return o, nil
	})
	o.DefineOwnProperty(value.SymbolKey(value.SymIterator), value.NonEnumerable(selfFn))
	return o
}

// arrayIteratorMaker exposes arrayIteratorObject as a zero-arg factory
// function value suitable for installing on Symbol.iterator slots (e.g.
// the `arguments` object), reusing the same array-iterator shape.
func (in *Interpreter) arrayIteratorMaker(elements []value.Value) *value.Object {
	return in.newNativeFunction("[Symbol.iterator]", 0, func(this value.Value, args []value.Value) (value.Value, error) {
		return in.arrayIteratorObject(elements), nil
	})
}

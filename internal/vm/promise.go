package vm

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// newPromiseCapability builds a pending promise plus its resolve/reject
// functions, the PromiseCapability record.
func (in *Interpreter) newPromiseCapability() (*value.Object, func(value.Value), func(value.Value)) {
	p := value.NewObject(in.Realm.PromiseProto)
	p.Kind = value.KindPromise
	p.Class = "Promise"
	p.Promise = &value.PromiseData{State: value.Pending}
	resolve := func(v value.Value) { in.resolvePromise(p, v) }
	reject := func(v value.Value) { in.settlePromise(p, v, false) }
	return p, resolve, reject
}

// resolvePromise implements the Resolve capability: resolving with a
// thenable adopts its state asynchronously (PromiseResolveThenableJob);
// resolving with anything else fulfills immediately.
func (in *Interpreter) resolvePromise(p *value.Object, v value.Value) {
	if p.Promise == nil || p.Promise.AlreadyResolved {
		return
	}
	if v == p {
		p.Promise.AlreadyResolved = true
		in.settlePromise(p, in.newErrorObject("TypeError", "Chaining cycle detected for promise"), false)
		return
	}
	obj, ok := v.(*value.Object)
	if !ok {
		in.settlePromise(p, v, true)
		return
	}
	thenVal, err := obj.Get(value.StringKey("then"), obj, in.call)
	if err != nil {
		p.Promise.AlreadyResolved = true
		in.settlePromise(p, in.errValueOf(err), false)
		return
	}
	thenFn, ok := thenVal.(*value.Object)
	if !ok || thenFn.Kind != value.KindFunction {
		in.settlePromise(p, v, true)
		return
	}
	p.Promise.AlreadyResolved = true
	in.Loop.Enqueue(func() {
		resolveFn := in.newNativeFunction("", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
			in.resolvePromise(p, firstArg(args))
			return value.Undefined, nil
		})
		rejectFn := in.newNativeFunction("", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
			in.settlePromise(p, firstArg(args), false)
			return value.Undefined, nil
		})
		_, comp := in.CallFunction(thenFn, obj, []value.Value{resolveFn, rejectFn}, nil)
		if comp.Kind == CompThrow {
			in.settlePromise(p, comp.Value, false)
		}
	})
}

// settlePromise transitions p to fulfilled/rejected and schedules every
// already-registered reaction as a microtask; a promise never
// transitions out of a settled state.
func (in *Interpreter) settlePromise(p *value.Object, v value.Value, fulfilled bool) {
	pd := p.Promise
	if pd == nil || (pd.AlreadyResolved && pd.State != value.Pending) {
		return
	}
	if pd.State != value.Pending {
		return
	}
	pd.AlreadyResolved = true
	if fulfilled {
		pd.State = value.Fulfilled
	} else {
		pd.State = value.Rejected
	}
	pd.Result = v
	reactions := pd.Reactions
	pd.Reactions = nil
	for _, r := range reactions {
		in.scheduleReaction(r, pd.State, v)
	}
}

// scheduleReaction enqueues one registered then/catch continuation as a
// microtask; a reaction lacking the matching handler simply forwards the
// settlement to the derived promise.
func (in *Interpreter) scheduleReaction(r value.PromiseReaction, state value.PromiseState, v value.Value) {
	in.Loop.Enqueue(func() {
		handler := r.OnFulfilled
		if state == value.Rejected {
			handler = r.OnRejected
		}
		if handler == nil {
			if state == value.Rejected {
				r.Reject(v)
			} else {
				r.Resolve(v)
			}
			return
		}
		res, comp := in.CallFunction(handler, value.Undefined, []value.Value{v}, nil)
		if comp.Kind == CompThrow {
			r.Reject(comp.Value)
			return
		}
		r.Resolve(res)
	})
}

// performPromiseThen registers onFulfilled/onRejected against p (either
// may be nil) and returns the derived promise, the shared machinery
// behind Promise.prototype.then/catch/finally and await's continuation.
func (in *Interpreter) performPromiseThen(p *value.Object, onFulfilled, onRejected *value.Object) *value.Object {
	derived, resolve, reject := in.newPromiseCapability()
	reaction := value.PromiseReaction{OnFulfilled: onFulfilled, OnRejected: onRejected, Resolve: resolve, Reject: reject}
	pd := p.Promise
	if pd == nil {
		return derived
	}
	switch pd.State {
	case value.Pending:
		pd.Reactions = append(pd.Reactions, reaction)
	default:
		in.scheduleReaction(reaction, pd.State, pd.Result)
	}
	return derived
}

// ResolveAwaited inspects v after a top-level Eval has already drained the
// microtask queue to completion: if v is a promise, its state is final by
// construction, since the microtask queue is empty on any synchronous
// eval return, so this simply reads off the settled result
// instead of registering a new reaction. This is what the host-facing
// eval_async entry point awaits. A promise that is somehow still pending
// here (no in-language mechanism can cause that, short of a host future
// that never settles) is reported as an error rather than hung on.
func (in *Interpreter) ResolveAwaited(v value.Value) (value.Value, error) {
	obj, ok := v.(*value.Object)
	if !ok || obj.Kind != value.KindPromise || obj.Promise == nil {
		return v, nil
	}
	switch obj.Promise.State {
	case value.Fulfilled:
		return obj.Promise.Result, nil
	case value.Rejected:
		return nil, in.thrownValueAsError(obj.Promise.Result)
	default:
		return nil, fmt.Errorf("promise returned by eval_async did not settle synchronously")
	}
}

// promiseResolveValue implements the PromiseResolve abstract operation:
// returns v unchanged if it is already one of this realm's promises,
// otherwise wraps it in a new already-resolved promise.
func (in *Interpreter) promiseResolveValue(v value.Value) *value.Object {
	if obj, ok := v.(*value.Object); ok && obj.Kind == value.KindPromise {
		return obj
	}
	p, resolve, _ := in.newPromiseCapability()
	resolve(v)
	return p
}

func (in *Interpreter) errValueOf(err error) value.Value {
	c := in.toThrowCompletion(err)
	return c.Value
}

// installPromiseGlobal wires the Promise constructor, its instance
// methods (then/catch/finally) and static combinators (resolve/reject/
// all/allSettled/any/race) onto the realm.
func installPromiseGlobal(in *Interpreter) {
	proto := in.Realm.PromiseProto

	proto.DefineOwnProperty(value.StringKey("then"), value.NonEnumerable(in.newNativeFunction("then", 2, func(this value.Value, args []value.Value) (value.Value, error) {
		p, ok := this.(*value.Object)
		if !ok || p.Kind != value.KindPromise {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Promise.prototype.then called on non-Promise"))
		}
		onF, _ := firstArg(args).(*value.Object)
		onR, _ := secondArg(args).(*value.Object)
		return in.performPromiseThen(p, onF, onR), nil
	})))
	proto.DefineOwnProperty(value.StringKey("catch"), value.NonEnumerable(in.newNativeFunction("catch", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		thenFn, _ := proto.Get(value.StringKey("then"), this, in.call)
		fn, _ := thenFn.(*value.Object)
		return in.call(fn, this, []value.Value{value.Undefined, firstArg(args)})
	})))
	proto.DefineOwnProperty(value.StringKey("finally"), value.NonEnumerable(in.newNativeFunction("finally", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		p, ok := this.(*value.Object)
		if !ok || p.Kind != value.KindPromise {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Promise.prototype.finally called on non-Promise"))
		}
		onFinally, _ := firstArg(args).(*value.Object)
		wrap := func(passThrough bool) *value.Object {
			return in.newNativeFunction("", 1, func(_ value.Value, args []value.Value) (value.Value, error) {
				v := firstArg(args)
				if onFinally != nil {
					if _, comp := in.CallFunction(onFinally, value.Undefined, nil, nil); comp.Kind == CompThrow {
						return nil, in.thrownValueAsError(comp.Value)
					}
				}
				if passThrough {
					return v, nil
				}
				return nil, in.thrownValueAsError(v)
			})
		}
		return in.performPromiseThen(p, wrap(true), wrap(false)), nil
	})))

	ctor := in.newNativeFunction("Promise", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		executor, ok := firstArg(args).(*value.Object)
		if !ok || executor.Kind != value.KindFunction {
			return nil, in.thrownValueAsError(in.newErrorObject("TypeError", "Promise resolver is not a function"))
		}
		p, resolve, reject := in.newPromiseCapability()
		resolveFn := in.newNativeFunction("", 1, func(_ value.Value, a []value.Value) (value.Value, error) {
			resolve(firstArg(a))
			return value.Undefined, nil
		})
		rejectFn := in.newNativeFunction("", 1, func(_ value.Value, a []value.Value) (value.Value, error) {
			reject(firstArg(a))
			return value.Undefined, nil
		})
		if _, comp := in.CallFunction(executor, value.Undefined, []value.Value{resolveFn, rejectFn}, nil); comp.Kind == CompThrow {
			reject(comp.Value)
		}
		return p, nil
	})
	ctor.DefineOwnProperty(value.StringKey("prototype"), &value.PropertyDescriptor{Value: proto, Writable: false, Enumerable: false, Configurable: false})
	proto.DefineOwnProperty(value.StringKey("constructor"), value.NonEnumerable(ctor))

	ctor.DefineOwnProperty(value.StringKey("resolve"), value.NonEnumerable(in.newNativeFunction("resolve", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return in.promiseResolveValue(firstArg(args)), nil
	})))
	ctor.DefineOwnProperty(value.StringKey("reject"), value.NonEnumerable(in.newNativeFunction("reject", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		p, _, reject := in.newPromiseCapability()
		reject(firstArg(args))
		return p, nil
	})))
	ctor.DefineOwnProperty(value.StringKey("all"), value.NonEnumerable(in.newNativeFunction("all", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return in.promiseCombinator(firstArg(args), combinatorAll)
	})))
	ctor.DefineOwnProperty(value.StringKey("allSettled"), value.NonEnumerable(in.newNativeFunction("allSettled", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return in.promiseCombinator(firstArg(args), combinatorAllSettled)
	})))
	ctor.DefineOwnProperty(value.StringKey("any"), value.NonEnumerable(in.newNativeFunction("any", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return in.promiseCombinator(firstArg(args), combinatorAny)
	})))
	ctor.DefineOwnProperty(value.StringKey("race"), value.NonEnumerable(in.newNativeFunction("race", 1, func(this value.Value, args []value.Value) (value.Value, error) {
		return in.promiseCombinator(firstArg(args), combinatorRace)
	})))

	environment.Define(in.Global, "Promise", ctor, environment.KindVar)
}

func secondArg(args []value.Value) value.Value {
	if len(args) < 2 {
		return value.Undefined
	}
	return args[1]
}

type combinatorKind int

const (
	combinatorAll combinatorKind = iota
	combinatorAllSettled
	combinatorAny
	combinatorRace
)

// promiseCombinator implements Promise.all/allSettled/any/race, each
// driven by the same iterate-and-count-settlements shape.
func (in *Interpreter) promiseCombinator(iterable value.Value, kind combinatorKind) (value.Value, error) {
	items, cerr := in.iterateToSlice(iterable)
	if cerr != nil {
		return nil, in.thrownValueAsError(cerr.Value)
	}
	result, resolve, reject := in.newPromiseCapability()
	n := len(items)
	if n == 0 {
		switch kind {
		case combinatorAll, combinatorAllSettled:
			resolve(in.newArray())
		case combinatorAny:
			reject(in.newErrorObject("AggregateError", "All promises were rejected"))
		case combinatorRace:
			// stays pending forever for an empty iterable.
		}
		return result, nil
	}

	values := make([]value.Value, n)
	remaining := n
	settled := false

	for i, item := range items {
		idx := i
		p := in.promiseResolveValue(item)
		onFulfilled := in.newNativeFunction("", 1, func(_ value.Value, a []value.Value) (value.Value, error) {
			v := firstArg(a)
			switch kind {
			case combinatorRace:
				if !settled {
					settled = true
					resolve(v)
				}
			case combinatorAny:
				if !settled {
					settled = true
					resolve(v)
				}
			case combinatorAllSettled:
				o := value.NewObject(in.Realm.ObjectProto)
				o.DefineOwnProperty(value.StringKey("status"), value.DataProperty(value.String("fulfilled")))
				o.DefineOwnProperty(value.StringKey("value"), value.DataProperty(v))
				values[idx] = o
				remaining--
				if remaining == 0 && !settled {
					settled = true
					arr := in.newArray()
					arr.Elements = values
					resolve(arr)
				}
			default: // combinatorAll
				values[idx] = v
				remaining--
				if remaining == 0 && !settled {
					settled = true
					arr := in.newArray()
					arr.Elements = values
					resolve(arr)
				}
			}
			return value.Undefined, nil
		})
		onRejected := in.newNativeFunction("", 1, func(_ value.Value, a []value.Value) (value.Value, error) {
			v := firstArg(a)
			switch kind {
			case combinatorRace:
				if !settled {
					settled = true
					reject(v)
				}
			case combinatorAllSettled:
				o := value.NewObject(in.Realm.ObjectProto)
				o.DefineOwnProperty(value.StringKey("status"), value.DataProperty(value.String("rejected")))
				o.DefineOwnProperty(value.StringKey("reason"), value.DataProperty(v))
				values[idx] = o
				remaining--
				if remaining == 0 && !settled {
					settled = true
					arr := in.newArray()
					arr.Elements = values
					resolve(arr)
				}
			case combinatorAny:
				values[idx] = v
				remaining--
				if remaining == 0 && !settled {
					settled = true
					arr := in.newArray()
					arr.Elements = values
					reject(in.newErrorObject("AggregateError", "All promises were rejected"))
				}
			default: // combinatorAll
				if !settled {
					settled = true
					reject(v)
				}
			}
			return value.Undefined, nil
		})
		in.performPromiseThen(p, onFulfilled, onRejected)
	}
	return result, nil
}

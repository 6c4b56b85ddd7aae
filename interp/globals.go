package interp

import (
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// HostFunc is a Go callback exposed to scripts as a callable global. args
// is already evaluated; the return value (or error, surfaced to script
// as a thrown Error) becomes the call's completion.
type HostFunc func(this Value, args []Value) (Value, error)

// RegisterGlobal binds name to v in the interpreter's global environment.
// v converts to the internal value representation for free when it
// already is one (the common case: a Value returned from a prior Eval);
// any other Go Value implementation is accepted as-is since interp.
// Value's method set is exactly what the evaluator needs from it.
func (in *Interpreter) RegisterGlobal(name string, v Value) error {
	environment.Define(in.vm.Global, name, asInternalValue(v), environment.KindVar)
	return nil
}

// RegisterFunction binds name to a host Go function, callable from script
// like any other function value: RegisterGlobal extended to callbacks,
// the mechanism on_message-style host integration needs.
func (in *Interpreter) RegisterFunction(name string, length int, fn HostFunc) error {
	native := in.vm.NewNativeFunction(name, length, func(this value.Value, args []value.Value) (value.Value, error) {
		hostArgs := make([]Value, len(args))
		for i, a := range args {
			hostArgs[i] = a
		}
		result, err := fn(this, hostArgs)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return value.Undefined, nil
		}
		return asInternalValue(result), nil
	})
	environment.Define(in.vm.Global, name, native, environment.KindVar)
	return nil
}

// GetGlobal reads a global binding. The bool is false if no such global
// exists.
func (in *Interpreter) GetGlobal(name string) (Value, bool) {
	if !environment.Has(in.vm.Global, name) {
		return nil, false
	}
	v, err := environment.Lookup(in.vm.Global, name, jserror.Position{})
	if err != nil {
		return nil, false
	}
	return v, true
}

// SetGlobal writes an existing global binding, or creates one if absent
// — unlike script-level assignment, the host is never in strict mode
// and may always introduce a new global this way.
func (in *Interpreter) SetGlobal(name string, v Value) error {
	if environment.Has(in.vm.Global, name) {
		return environment.Assign(in.vm.Global, name, asInternalValue(v), jserror.Position{})
	}
	environment.Define(in.vm.Global, name, asInternalValue(v), environment.KindVar)
	return nil
}

// HasGlobal reports whether name is bound in the global environment.
func (in *Interpreter) HasGlobal(name string) bool {
	return environment.Has(in.vm.Global, name)
}

// asInternalValue recovers the internal/value.Value a host Value wraps.
// Every Value this package hands out already is one (Eval/EvalModule
// results, GetGlobal reads); a host-authored Value implementation that
// isn't falls back to its own TypeOf/DisplayString projected onto a
// plain string, since the evaluator has no other way to use it.
func asInternalValue(v Value) value.Value {
	if v == nil {
		return value.Undefined
	}
	if iv, ok := v.(value.Value); ok {
		return iv
	}
	return value.String(v.DisplayString())
}

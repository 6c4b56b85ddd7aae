package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// jserrorPos is used at call sites that do not have a convenient AST
// node handy for position reporting; error messages remain accurate,
// only the position is omitted.
func jserrorPos() jserror.Position { return jserror.Position{} }

// wrapEnvErr converts an error from environment.Lookup/Assign into a
// Completion: a *jserror.JSError becomes a thrown Error instance of the
// matching class, and a *environment.WithLookup (the sentinel meaning
// "this name resolves through a `with` object record") is resolved by
// performing the actual property Get/Set here, since only vm holds the
// call protocol needed to run accessors.
func (in *Interpreter) wrapEnvErr(err error, env *environment.Environment, name string, setValue value.Value) Completion {
	if wl, ok := err.(*environment.WithLookup); ok {
		if setValue != nil {
			if serr := wl.Record.Set(value.StringKey(name), setValue, wl.Record, in.call); serr != nil {
				return in.toThrowCompletion(serr)
			}
			return normalC(nil)
		}
		v, gerr := wl.Record.Get(value.StringKey(name), wl.Record, in.call)
		if gerr != nil {
			return in.toThrowCompletion(gerr)
		}
		return normalC(v)
	}
	if je, ok := err.(*jserror.JSError); ok {
		return in.throwError(je.Kind.String(), je.Message, je.Pos)
	}
	return in.throwTypeError("%s", err.Error())
}

// lookupIdentifier resolves a free identifier, honoring `with` object
// records (environment.Lookup returns a WithLookup sentinel in that
// case, which this wraps into the real Get).
func (in *Interpreter) lookupIdentifier(env *environment.Environment, name string, pos jserror.Position) (value.Value, *Completion) {
	v, err := environment.Lookup(env, name, pos)
	if err == nil {
		return v, nil
	}
	c := in.wrapEnvErr(err, env, name, nil)
	if c.Kind == CompNormal {
		return c.Value, nil
	}
	return nil, &c
}

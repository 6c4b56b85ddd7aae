// Package interp is the host-facing façade: the one public entry point
// an embedder imports. It owns one interpreter
// instance's global environment, module registry, event loop, and
// message bus (internal/vm.Interpreter), and translates between the
// internal value representation and the small, stable surface a host
// program is meant to depend on.
package interp

import (
	"github.com/sirupsen/logrus"

	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/module"
	"github.com/kodjodevf/js-interpreter-sub006/internal/vm"
	"github.com/kodjodevf/js-interpreter-sub006/parser"
)

// Value is the host-visible projection of an evaluated script value: just
// enough to type-check and print it without exposing the internal object
// representation. internal/value.Value carries exactly this method set,
// so any value this package hands back or accepts converts to/from it
// without an adapter.
type Value interface {
	TypeOf() string
	DisplayString() string
}

// Interpreter is one embeddable script engine instance: an explicit
// handle owning its global environment, module registry, microtask
// queue, and message bus.
type Interpreter struct {
	vm *vm.Interpreter
	logger logrus.FieldLogger
	maps *jserror.SourceMapIndex
}

// Option configures a new Interpreter.
type Option func(*Interpreter)

// WithLogger supplies the structured logger the interpreter and its
// event loop use (the module registry and bus do not log), the way
// lib.TestPreInitState.Logger carries one through k6's runtime, instead
// of a package-global logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// New constructs a fresh interpreter instance with its own global
// environment, module registry, microtask queue, and message bus.
func New(opts...Option) *Interpreter {
	in := &Interpreter{maps: jserror.NewSourceMapIndex()}
	for _, opt := range opts {
		opt(in)
	}
	in.vm = vm.New(in.logger)
	if in.logger == nil {
		in.logger = in.vm.Logger
	}
	return in
}

// ID is this interpreter instance's process-unique identity; each
// instance owns its own message bus.
func (in *Interpreter) ID() string { return in.vm.ID.String() }

// Eval parses and runs source as a script: synchronous, throwing on
// parse or runtime error. The microtask queue is drained to quiescence
// before Eval returns.
func (in *Interpreter) Eval(source string) (Value, error) {
	prog, err := parser.Parse(source, false)
	if err != nil {
		return nil, err
	}
	return in.vm.EvalProgram(prog)
}

// EvalAsync is Eval plus awaiting a returned promise: if the script's
// completion value is a Promise, its settled result (or rejection) is
// returned instead of the promise wrapper itself.
func (in *Interpreter) EvalAsync(source string) (Value, error) {
	v, err := in.Eval(source)
	if err != nil {
		return nil, err
	}
	return in.vm.ResolveAwaited(v)
}

// EvalModule parses source in module mode and registers/evaluates it
// under id, returning its export bindings by name; "this" is undefined
// and import/export are legal.
func (in *Interpreter) EvalModule(id, source string) (map[string]Value, error) {
	exports, err := in.vm.EvalModule(id, source)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(exports))
	for k, v := range exports {
		out[k] = v
	}
	return out, nil
}

// EvalModuleAsync is EvalModule; module evaluation in this implementation
// is already synchronous end-to-end (every dynamic import and top-level
// await drains through the same single-threaded microtask queue before
// Evaluate returns), so there is no distinct asynchronous code path to
// run here — kept as its own entry point to match the host-facing
// naming convention rather than collapsing the two names.
func (in *Interpreter) EvalModuleAsync(id, source string) (map[string]Value, error) {
	return in.EvalModule(id, source)
}

// RegisterModule inserts an unevaluated module into the registry, to be
// linked in when something imports it.
func (in *Interpreter) RegisterModule(id, source string) error {
	_, err := in.vm.Modules.Register(id, source)
	return err
}

// RegisterModuleWithSourceMap is RegisterModule plus an associated source
// map, so stack frames produced while evaluating this module resolve
// back to original-source positions.
func (in *Interpreter) RegisterModuleWithSourceMap(id, source string, mapContent []byte) error {
	_, err := in.vm.Modules.RegisterWithSourceMap(id, source, mapContent)
	if err != nil {
		return err
	}
	return in.maps.Register(id, mapContent)
}

// SetModuleLoader installs the host callback consulted for an unknown
// module id during import resolution: fn(id) → source. fn is expected
// to block; wrap a genuinely asynchronous fetch in the host's own
// synchronization primitive before passing it here.
func (in *Interpreter) SetModuleLoader(fn func(id string) (string, error)) {
	in.vm.Modules.SetLoader(module.LoaderFunc(fn))
}

// SetModuleResolver installs the host callback that canonicalizes an
// import specifier relative to its importer: fn(id, importer_id) →
// canonical_id.
func (in *Interpreter) SetModuleResolver(fn func(specifier, importerID string) (string, error)) {
	in.vm.Modules.SetResolver(module.ResolverFunc(fn))
}

// StackTrace resolves err's call stack through any source maps
// registered via RegisterModuleWithSourceMap, falling back to the
// generated positions for frames with no map.
func (in *Interpreter) StackTrace(err error) []jserror.ResolvedFrame {
	je, ok := err.(*jserror.JSError)
	if !ok {
		return nil
	}
	return in.maps.ResolveStack(je.Stack)
}

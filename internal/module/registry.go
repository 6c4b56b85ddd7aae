// Package module implements the module registry: a two-phase
// (instantiate, evaluate) linker keyed by normalized module identifier,
// with cyclic imports observing the partial-exports snapshot of a
// module still linking.
//
// This package deliberately does not import internal/vm (module body
// evaluation is injected as an EvaluateFunc) to avoid an import cycle:
// internal/vm needs the registry to resolve imports, and the registry
// needs internal/vm to run a module's body.
package module

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
	"github.com/kodjodevf/js-interpreter-sub006/parser"
)

// LinkingState is the module lifecycle of.
type LinkingState int

const (
	Unlinked LinkingState = iota
	Linking
	Linked
	Evaluating
	Evaluated
	Errored
)

func (s LinkingState) String() string {
	return [...]string{"unlinked", "linking", "linked", "evaluating", "evaluated", "errored"}[s]
}

// Module is one entry in the registry: its source, parsed AST, exports
// record, and linking state.
type Module struct {
	ID string
	Source string
	AST *ast.Program
	Exports map[string]value.Value
	State LinkingState
	Err error

	// dependencies, in static-import order, resolved during Instantiate.
	dependencies []string
	// Env is set by the EvaluateFunc once the module's top-level
	// environment exists, so nested cyclic imports can see live bindings:
	// a cyclic import observes the partial-exports snapshot at the
	// moment of access.
	Env any
}

// LoaderFunc fetches source text for an unknown id (the host's
// set_module_loader hook). It may block; callers that want asynchronous
// behavior wrap it themselves (interp.Interpreter does, for the dynamic
// import promise).
type LoaderFunc func(id string) (string, error)

// ResolverFunc canonicalizes a specifier relative to its importer (the
// host's set_module_resolver hook).
type ResolverFunc func(specifier, importerID string) (string, error)

// EvaluateFunc runs a module's top-level body exactly once. It is
// supplied by internal/vm at Interpreter construction time.
type EvaluateFunc func(m *Module) error

// Registry is one interpreter instance's module graph, owned by a
// single interpreter instance.
type Registry struct {
	modules map[string]*Module
	loader LoaderFunc
	resolver ResolverFunc
	evaluate EvaluateFunc
	sourceMapOf map[string][]byte
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

func (r *Registry) SetLoader(fn LoaderFunc) { r.loader = fn }
func (r *Registry) SetResolver(fn ResolverFunc) { r.resolver = fn }
func (r *Registry) SetEvaluator(fn EvaluateFunc) { r.evaluate = fn }

// Register inserts an unevaluated module into the registry (the host's
// register_module call), parsing it eagerly so syntax errors surface at
// registration time rather than first import.
func (r *Registry) Register(id, source string) (*Module, error) {
	prog, err := parser.ParseModule(source)
	if err != nil {
		return nil, err
	}
	m := &Module{ID: id, Source: source, AST: prog, Exports: make(map[string]value.Value), State: Unlinked}
	r.modules[id] = m
	return m, nil
}

// RegisterWithSourceMap is Register plus an associated source map for
// stack-trace resolution.
func (r *Registry) RegisterWithSourceMap(id, source string, mapContent []byte) (*Module, error) {
	m, err := r.Register(id, source)
	if err != nil {
		return nil, err
	}
	if r.sourceMapOf == nil {
		r.sourceMapOf = make(map[string][]byte)
	}
	r.sourceMapOf[id] = mapContent
	return m, nil
}

// SourceMap returns the registered source map content for id, if any.
func (r *Registry) SourceMap(id string) ([]byte, bool) {
	b, ok := r.sourceMapOf[id]
	return b, ok
}

// Get returns an already-registered module without loading.
func (r *Registry) Get(id string) (*Module, bool) {
	m, ok := r.modules[id]
	return m, ok
}

// Resolve canonicalizes specifier relative to importerID, via the
// host resolver if one was installed, identity otherwise.
func (r *Registry) Resolve(specifier, importerID string) (string, error) {
	if r.resolver != nil {
		return r.resolver(specifier, importerID)
	}
	return specifier, nil
}

// GetOrLoad resolves specifier, returning the already-registered module
// or fetching its source via the installed loader and parsing it.
func (r *Registry) GetOrLoad(specifier, importerID string) (*Module, error) {
	id, err := r.Resolve(specifier, importerID)
	if err != nil {
		return nil, err
	}
	if m, ok := r.modules[id]; ok {
		return m, nil
	}
	if r.loader == nil {
		return nil, fmt.Errorf("module %q not found and no module loader is registered", id)
	}
	src, err := r.loader(id)
	if err != nil {
		return nil, err
	}
	return r.Register(id, src)
}

// Instantiate resolves m's import graph depth-first, parsing each
// dependency and recursing, detecting cycles by the Linking state: a
// module evaluates at most once, and cycles are allowed during
// instantiation, simply not re-entered.
func (r *Registry) Instantiate(m *Module) error {
	switch m.State {
	case Linked, Evaluating, Evaluated:
		return nil
	case Linking:
		return nil // cycle: let the outer call finish linking
	case Errored:
		return m.Err
	}
	m.State = Linking
	for _, stmt := range m.AST.Body {
		imp, ok := stmt.(*ast.ImportDeclaration)
		if !ok {
			continue
		}
		dep, err := r.GetOrLoad(imp.Source, m.ID)
		if err != nil {
			m.State, m.Err = Errored, err
			return err
		}
		m.dependencies = append(m.dependencies, dep.ID)
		if err := r.Instantiate(dep); err != nil {
			m.State, m.Err = Errored, err
			return err
		}
	}
	for _, stmt := range m.AST.Body {
		var src string
		switch exp := stmt.(type) {
		case *ast.ExportAllDeclaration:
			src = exp.Source
		case *ast.ExportNamedDeclaration:
			src = exp.Source
		}
		if src == "" {
			continue
		}
		dep, err := r.GetOrLoad(src, m.ID)
		if err != nil {
			m.State, m.Err = Errored, err
			return err
		}
		m.dependencies = append(m.dependencies, dep.ID)
		if err := r.Instantiate(dep); err != nil {
			m.State, m.Err = Errored, err
			return err
		}
	}
	m.State = Linked
	return nil
}

// Evaluate runs m's body exactly once, recursively evaluating
// dependencies first in source-import order. Cyclic dependencies are
// broken because a module already Evaluating is skipped, letting its
// partial Exports map be observed by the importer that re-enters it.
func (r *Registry) Evaluate(m *Module) error {
	if err := r.Instantiate(m); err != nil {
		return err
	}
	return r.evaluateLinked(m)
}

func (r *Registry) evaluateLinked(m *Module) error {
	switch m.State {
	case Evaluated:
		return nil
	case Evaluating:
		return nil // cyclic re-entry: caller observes partial Exports
	case Errored:
		return m.Err
	}
	m.State = Evaluating
	for _, depID := range m.dependencies {
		dep := r.modules[depID]
		if err := r.evaluateLinked(dep); err != nil {
			m.State, m.Err = Errored, err
			return err
		}
	}
	if r.evaluate == nil {
		m.State, m.Err = Errored, fmt.Errorf("no module evaluator installed")
		return m.Err
	}
	if err := r.evaluate(m); err != nil {
		m.State, m.Err = Errored, err
		return err
	}
	m.State = Evaluated
	return nil
}

// Namespace returns the live export bindings visible to `import * as ns`
// or a dynamic import's resolved value; since Exports is a map held by
// reference, updates the module makes to live bindings after evaluation
// (rare, but `export let x` permits reassignment) are observed.
func (m *Module) Namespace() map[string]value.Value { return m.Exports }

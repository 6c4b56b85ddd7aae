package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/module"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// evaluateModuleBody is the module.EvaluateFunc installed on Interpreter
// construction: it runs one module's top-level body, binding imports
// before the body runs and collecting this module's own exports once
// it has.
func (in *Interpreter) evaluateModuleBody(m *module.Module) error {
	env := environment.New(in.Global)
	env.IsFunctionScope = true
	env.HasThis = true
	env.ThisVal = value.Undefined
	m.Env = env

	prevModule, prevSource := in.currentModule, in.currentSource
	in.currentModule, in.currentSource = m, m.ID
	defer func() { in.currentModule, in.currentSource = prevModule, prevSource }()

	for _, stmt := range m.AST.Body {
		imp, ok := stmt.(*ast.ImportDeclaration)
		if !ok {
			continue
		}
		if err := in.linkImport(m, imp, env); err != nil {
			return err
		}
	}

	in.hoistProgram(m.AST, env)

	for _, stmt := range m.AST.Body {
		c := in.execStatement(stmt, env)
		if c.Kind == CompThrow {
			return in.thrownValueAsError(c.Value)
		}
	}

	in.collectExports(m, env)
	return nil
}

// linkImport resolves one import declaration's dependency module (already
// instantiated by module.Registry.Instantiate before evaluation reaches
// m) and binds its specifiers into env as import-kind bindings.
func (in *Interpreter) linkImport(m *module.Module, imp *ast.ImportDeclaration, env *environment.Environment) error {
	dep, err := in.resolveDependency(m, imp.Source)
	if err != nil {
		return err
	}
	for _, spec := range imp.Specifiers {
		switch spec.Kind {
		case ast.ImportDefault:
			environment.Define(env, spec.Local.Name, dep.Exports["default"], environment.KindImport)
		case ast.ImportNamespace:
			environment.Define(env, spec.Local.Name, in.makeNamespaceObject(dep), environment.KindImport)
		case ast.ImportNamed:
			environment.Define(env, spec.Local.Name, dep.Exports[spec.Imported.Name], environment.KindImport)
		}
	}
	return nil
}

// resolveDependency canonicalizes specifier relative to m and fetches
// the already-registered Module for it (module.Registry.Instantiate
// ensures every static dependency is registered before evaluation
// begins).
func (in *Interpreter) resolveDependency(m *module.Module, specifier string) (*module.Module, error) {
	id, err := in.Modules.Resolve(specifier, m.ID)
	if err != nil {
		return nil, err
	}
	dep, ok := in.Modules.Get(id)
	if !ok {
		return nil, in.thrownValueAsError(in.newErrorObject("ReferenceError", "module \""+id+"\" is not registered"))
	}
	return dep, nil
}

// makeNamespaceObject builds the immutable record observable via
// `import * as ns`: a plain object
// with one non-configurable, non-writable data property per export,
// "default" included.
func (in *Interpreter) makeNamespaceObject(dep *module.Module) *value.Object {
	ns := value.NewObject(nil)
	ns.Class = "Module"
	for name, v := range dep.Exports {
		ns.DefineOwnProperty(value.StringKey(name), &value.PropertyDescriptor{
			Value: v, Writable: false, Enumerable: true, Configurable: false,
		})
	}
	return ns
}

// execModuleStatement runs the import/export statement kinds that only
// make sense at module top level. Imports are already bound by
// linkImport before the body runs, so only the executable forms of
// export (a wrapped declaration, or `export default`) do real work here;
// the bookkeeping forms (`export {x}`, `export * from`) are resolved by
// collectExports once the whole body has executed.
func (in *Interpreter) execModuleStatement(s ast.Statement, env *environment.Environment) Completion {
	m := in.currentModule
	switch st := s.(type) {
	case *ast.ImportDeclaration:
		return normalC(nil)

	case *ast.ExportNamedDeclaration:
		if st.Declaration != nil {
			return in.execStatement(st.Declaration, env)
		}
		return normalC(nil)

	case *ast.ExportDefaultDeclaration:
		switch d := st.Declaration.(type) {
		case *ast.FunctionDeclaration:
			fn := in.makeFunction(d.Function, env, nil)
			if d.ID != nil {
				environment.Define(env, d.ID.Name, fn, environment.KindFunction)
			}
			if m != nil {
				m.Exports["default"] = fn
			}
			return normalC(nil)
		case *ast.ClassDeclaration:
			cls, c := in.evalClass(d.Class, env)
			if c != nil {
				return *c
			}
			if d.ID != nil {
				environment.Define(env, d.ID.Name, cls, environment.KindLet)
			}
			if m != nil {
				m.Exports["default"] = cls
			}
			return normalC(nil)
		default:
			v, c := in.evalExpr(st.Declaration.(ast.Expression), env)
			if c != nil {
				return *c
			}
			if m != nil {
				m.Exports["default"] = v
			}
			return normalC(nil)
		}

	case *ast.ExportAllDeclaration:
		return normalC(nil)
	}
	return normalC(nil)
}

// collectExports fills m.Exports for the declarative/specifier export
// forms once the module body has finished running and every local
// binding (and every dependency's own Exports map) is available:
// `export {x, y as z}`, `export {x} from "dep"`, `export * from "dep"`,
// `export * as ns from "dep"`, and named declarations (`export const`/
// `export function`/`export class`).
func (in *Interpreter) collectExports(m *module.Module, env *environment.Environment) {
	for _, stmt := range m.AST.Body {
		switch st := stmt.(type) {
		case *ast.ExportNamedDeclaration:
			if st.Declaration != nil {
				in.collectDeclaredExportNames(st.Declaration, env, m.Exports)
				continue
			}
			if st.Source != "" {
				dep, err := in.resolveDependency(m, st.Source)
				if err != nil {
					continue
				}
				for _, spec := range st.Specifiers {
					m.Exports[spec.Exported.Name] = dep.Exports[spec.Local.Name]
				}
				continue
			}
			for _, spec := range st.Specifiers {
				v, err := environment.Lookup(env, spec.Local.Name, jserrorPos())
				if err == nil {
					m.Exports[spec.Exported.Name] = v
				}
			}

		case *ast.ExportAllDeclaration:
			dep, err := in.resolveDependency(m, st.Source)
			if err != nil {
				continue
			}
			if st.Exported != nil {
				m.Exports[st.Exported.Name] = in.makeNamespaceObject(dep)
				continue
			}
			for name, v := range dep.Exports {
				if name == "default" {
					continue
				}
				m.Exports[name] = v
			}
		}
	}
}

// collectDeclaredExportNames reads the bound values for every name a
// wrapped `export <declaration>` introduces (already bound by the time
// this runs: execModuleStatement executed the declaration in-place).
func (in *Interpreter) collectDeclaredExportNames(decl ast.Statement, env *environment.Environment, exports map[string]value.Value) {
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		for _, declr := range d.Declarations {
			for _, name := range patternNames(declr.ID) {
				if v, err := environment.Lookup(env, name, jserrorPos()); err == nil {
					exports[name] = v
				}
			}
		}
	case *ast.FunctionDeclaration:
		if d.ID != nil {
			if v, err := environment.Lookup(env, d.ID.Name, jserrorPos()); err == nil {
				exports[d.ID.Name] = v
			}
		}
	case *ast.ClassDeclaration:
		if d.ID != nil {
			if v, err := environment.Lookup(env, d.ID.Name, jserrorPos()); err == nil {
				exports[d.ID.Name] = v
			}
		}
	}
}

// evalDynamicImport implements `import(specifier)`:
// it returns a Promise that resolves to the imported module's namespace.
// Resolution, loading, instantiation and evaluation all run inside a
// microtask job so the call itself returns synchronously with a pending
// promise, matching every other asynchronous entry point in this
// evaluator: an asynchronous host call is internally implemented by
// attaching a terminal continuation and draining until quiescent.
func (in *Interpreter) evalDynamicImport(ex *ast.ImportExpression, env *environment.Environment) (value.Value, *Completion) {
	specVal, c := in.evalExpr(ex.Source, env)
	if c != nil {
		return nil, c
	}
	specifier, err := value.ToStringValue(specVal, in.call)
	if err != nil {
		tc := in.toThrowCompletion(err)
		return nil, &tc
	}

	importerID := ""
	if in.currentModule != nil {
		importerID = in.currentModule.ID
	}

	promise, resolve, reject := in.newPromiseCapability()
	in.Loop.Enqueue(func() {
		dep, loadErr := in.Modules.GetOrLoad(string(specifier), importerID)
		if loadErr != nil {
			reject(in.errorValueFromGoErr(loadErr))
			return
		}
		if evalErr := in.Modules.Evaluate(dep); evalErr != nil {
			reject(in.errValueOf(evalErr))
			return
		}
		resolve(in.makeNamespaceObject(dep))
	})
	return promise, nil
}

// currentModuleMeta builds the `import.meta` object; the parser's Early
// Errors reject its use outside module mode, so by the time this runs
// in.currentModule is always non-nil.
func (in *Interpreter) currentModuleMeta() value.Value {
	meta := value.NewObject(in.Realm.ObjectProto)
	if in.currentModule != nil {
		meta.DefineOwnProperty(value.StringKey("url"), value.NonEnumerable(value.String(in.currentModule.ID)))
	}
	return meta
}

// EvalModule parses src in module mode, registers it under id, links and
// evaluates its dependency graph, and returns its own namespace.
func (in *Interpreter) EvalModule(id, src string) (map[string]value.Value, error) {
	m, err := in.Modules.Register(id, src)
	if err != nil {
		return nil, err
	}
	if err := in.Modules.Evaluate(m); err != nil {
		in.Loop.Drain()
		return nil, err
	}
	in.Loop.Drain()
	return m.Exports, nil
}

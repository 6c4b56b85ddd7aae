package vm

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
)

// hoistProgram performs top-level var/function/let/const/class hoisting
// for a script-mode Program.
func (in *Interpreter) hoistProgram(prog *ast.Program, env *environment.Environment) {
	in.hoistBlockBody(prog.Body, env, true)
}

// hoistFunctionBody performs the same hoisting for a function activation
// body scope.
func (in *Interpreter) hoistFunctionBody(body *ast.BlockStatement, env *environment.Environment) {
	in.hoistBlockBody(body.Body, env, true)
}

// hoistBlockBody walks stmts (not recursing into nested function
// bodies) collecting var names (hoisted to the nearest function/global
// scope) and pre-registering let/const/class/function names in env
// (the block scope itself):
// - var hoists to the nearest function or module scope
// - let/const/class are pre-registered uninitialized (TDZ)
// - function declarations are fully initialized at entry
//
// topLevel does not change the result: function declarations are
// initialized in env at entry of a function/program body and of a
// nested block alike (block-scoped function declarations are
// initialized block-locally when the block is entered).
func (in *Interpreter) hoistBlockBody(stmts []ast.Statement, env *environment.Environment, topLevel bool) {
	for _, s := range stmts {
		in.hoistVarNames(s, env)
	}
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.VariableDeclaration:
			if d.Kind == ast.VarVar {
				continue
			}
			kind := environment.KindLet
			if d.Kind == ast.VarConst {
				kind = environment.KindConst
			}
			for _, decl := range d.Declarations {
				declarePatternNames(decl.ID, env, kind)
			}
		case *ast.ClassDeclaration:
			if d.ID != nil {
				environment.DeclareUninitialized(env, d.ID.Name, environment.KindLet)
			}
		case *ast.FunctionDeclaration:
			if d.ID != nil {
				fn := in.makeFunction(d.Function, env, nil)
				environment.Define(env, d.ID.Name, fn, environment.KindFunction)
			}
		}
	}
	_ = topLevel
}

// hoistVarNames recurses into every statement position a `var` can
// appear in without crossing a function boundary, hoisting each name to
// env's nearest function/global scope.
func (in *Interpreter) hoistVarNames(s ast.Statement, env *environment.Environment) {
	switch st := s.(type) {
	case *ast.VariableDeclaration:
		if st.Kind != ast.VarVar {
			return
		}
		for _, decl := range st.Declarations {
			for _, name := range patternNames(decl.ID) {
				environment.HoistVar(env, name)
			}
		}
	case *ast.BlockStatement:
		for _, inner := range st.Body {
			in.hoistVarNames(inner, env)
		}
	case *ast.IfStatement:
		in.hoistVarNames(st.Consequent, env)
		if st.Alternate != nil {
			in.hoistVarNames(st.Alternate, env)
		}
	case *ast.WhileStatement:
		in.hoistVarNames(st.Body, env)
	case *ast.DoWhileStatement:
		in.hoistVarNames(st.Body, env)
	case *ast.ForStatement:
		if vd, ok := st.Init.(*ast.VariableDeclaration); ok && vd.Kind == ast.VarVar {
			for _, decl := range vd.Declarations {
				for _, name := range patternNames(decl.ID) {
					environment.HoistVar(env, name)
				}
			}
		}
		in.hoistVarNames(st.Body, env)
	case *ast.ForInStatement:
		if vd, ok := st.Left.(*ast.VariableDeclaration); ok && vd.Kind == ast.VarVar {
			for _, decl := range vd.Declarations {
				for _, name := range patternNames(decl.ID) {
					environment.HoistVar(env, name)
				}
			}
		}
		in.hoistVarNames(st.Body, env)
	case *ast.ForOfStatement:
		if vd, ok := st.Left.(*ast.VariableDeclaration); ok && vd.Kind == ast.VarVar {
			for _, decl := range vd.Declarations {
				for _, name := range patternNames(decl.ID) {
					environment.HoistVar(env, name)
				}
			}
		}
		in.hoistVarNames(st.Body, env)
	case *ast.TryStatement:
		for _, inner := range st.Block.Body {
			in.hoistVarNames(inner, env)
		}
		if st.Handler != nil {
			for _, inner := range st.Handler.Body.Body {
				in.hoistVarNames(inner, env)
			}
		}
		if st.Finally != nil {
			for _, inner := range st.Finally.Body {
				in.hoistVarNames(inner, env)
			}
		}
	case *ast.SwitchStatement:
		for _, c := range st.Cases {
			for _, inner := range c.Consequent {
				in.hoistVarNames(inner, env)
			}
		}
	case *ast.LabeledStatement:
		in.hoistVarNames(st.Body, env)
	case *ast.WithStatement:
		in.hoistVarNames(st.Body, env)
	}
}

func patternNames(p ast.Pattern) []string {
	var out []string
	var walk func(ast.Pattern)
	walk = func(p ast.Pattern) {
		switch pt := p.(type) {
		case *ast.IdentifierPattern:
			out = append(out, pt.Name)
		case *ast.AssignmentPattern:
			walk(pt.Target)
		case *ast.ArrayPattern:
			for _, el := range pt.Elements {
				if el.Pattern != nil {
					walk(el.Pattern)
				}
			}
		case *ast.ObjectPattern:
			for _, prop := range pt.Properties {
				walk(prop.Value)
			}
			if pt.Rest != nil {
				walk(pt.Rest)
			}
		case *ast.RestElement:
			walk(pt.Argument)
		}
	}
	walk(p)
	return out
}

func declarePatternNames(p ast.Pattern, env *environment.Environment, kind environment.BindingKind) {
	for _, name := range patternNames(p) {
		environment.DeclareUninitialized(env, name, kind)
	}
}

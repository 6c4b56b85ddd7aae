package ast_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
	"github.com/stretchr/testify/assert"
)

func TestNodePositionsArePropagated(t *testing.T) {
	t.Parallel()
	pos := token.Pos{Line: 4, Column: 2, Offset: 10}
	id := &ast.Identifier{Name: "x"}
	id.Base = ast.NewBase(pos)
	assert.Equal(t, pos, id.Pos())
	assert.Equal(t, 4, id.Line)
}

func TestVarKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "let", ast.VarLet.String())
	assert.Equal(t, "const", ast.VarConst.String())
	assert.Equal(t, "var", ast.VarVar.String())
}

func TestTemplateLiteralQuasisExpressionsInvariant(t *testing.T) {
	t.Parallel()
	tmpl := &ast.TemplateLiteral{
		Quasis: []ast.TemplateElement{
			{Cooked: "a"}, {Cooked: "b"}, {Cooked: "c", Tail: true},
		},
		Expressions: []ast.Expression{&ast.Identifier{Name: "x"}, &ast.Identifier{Name: "y"}},
	}
	assert.Equal(t, len(tmpl.Expressions)+1, len(tmpl.Quasis))
}

func TestDirectiveValue(t *testing.T) {
	t.Parallel()
	stmt := &ast.ExpressionStatement{
		Expression: &ast.Literal{Kind: ast.LitString, Str: "use strict"},
	}
	val, ok := ast.DirectiveValue(stmt)
	assert.True(t, ok)
	assert.Equal(t, "use strict", val)

	nonDirective := &ast.ExpressionStatement{Expression: &ast.Identifier{Name: "x"}}
	_, ok = ast.DirectiveValue(nonDirective)
	assert.False(t, ok)
}

func TestIsPattern(t *testing.T) {
	t.Parallel()
	assert.True(t, ast.IsPattern(&ast.IdentifierPattern{Name: "x"}))
	assert.False(t, ast.IsPattern(&ast.Identifier{Name: "x"}))
}

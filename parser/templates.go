package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// parseTemplateLiteral consumes a template token run already interleaved
// with ordinary expression tokens by the lexer: a
// TEMPLATE_NO_SUB stands alone, otherwise TEMPLATE_HEAD is followed by an
// Expression, then alternating TEMPLATE_MIDDLE/Expression pairs, ending
// in TEMPLATE_TAIL.
func (p *Parser) parseTemplateLiteral() *ast.TemplateLiteral {
	start := p.cur().Start
	if p.at(token.TEMPLATE_NO_SUB) {
		t := p.advance()
		return &ast.TemplateLiteral{
			ast.ExprBase{Base: ast.NewBase(start)},
			[]ast.TemplateElement{{Cooked: t.Literal.String, Raw: t.Literal.Raw, Tail: true}},
			nil,
		}
	}
	head := p.expect(token.TEMPLATE_HEAD)
	quasis := []ast.TemplateElement{{Cooked: head.Literal.String, Raw: head.Literal.Raw}}
	var exprs []ast.Expression
	for {
		exprs = append(exprs, p.parseExpression())
		if p.at(token.TEMPLATE_TAIL) {
			t := p.advance()
			quasis = append(quasis, ast.TemplateElement{Cooked: t.Literal.String, Raw: t.Literal.Raw, Tail: true})
			break
		}
		t := p.expect(token.TEMPLATE_MIDDLE)
		quasis = append(quasis, ast.TemplateElement{Cooked: t.Literal.String, Raw: t.Literal.Raw})
	}
	return &ast.TemplateLiteral{ast.ExprBase{Base: ast.NewBase(start)}, quasis, exprs}
}

package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// parseLeftHandSideExpression parses NewExpression/CallExpression/member
// chains including optional chaining (?.), which once entered short-
// circuits the whole chain at evaluation time (handled in package vm;
// the parser only records Optional on each link).
func (p *Parser) parseLeftHandSideExpression() ast.Expression {
	start := p.cur().Start
	var expr ast.Expression
	if p.at(token.NEW) {
		expr = p.parseNewExpression()
	} else {
		expr = p.parsePrimaryExpression()
	}
	return p.parseCallTail(expr, start)
}

func (p *Parser) parseNewExpression() ast.Expression {
	start := p.advance().Start
	if p.at(token.DOT) {
		p.advance()
		prop := p.expect(token.IDENT)
		if prop.Lexeme != "target" {
			p.failAt(prop.Start, "expected 'target' after 'new.'")
		}
		if !p.ctx.inFunction {
			p.failAt(start, "'new.target' expression is not allowed here")
		}
		return &ast.MetaProperty{ast.ExprBase{Base: ast.NewBase(start)}, "new", "target"}
	}
	var callee ast.Expression
	if p.at(token.NEW) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimaryExpression()
	}
	callee = p.parseMemberTail(callee, start)
	var args []ast.Expression
	if p.at(token.LPAREN) {
		args = p.parseArguments()
	}
	return &ast.NewExpression{ast.ExprBase{Base: ast.NewBase(start)}, callee, args}
}

// parseMemberTail parses only `.`/`[...]`/tagged-template links (no call
// parens), used after `new` so `new a.b.c(...)` attaches the call to the
// whole member chain rather than to `c` alone.
func (p *Parser) parseMemberTail(expr ast.Expression, start token.Pos) ast.Expression {
	for {
		switch {
		case p.at(token.DOT):
			p.advance()
			expr = p.parseDotProperty(expr, start, false)
		case p.at(token.LBRACKET):
			p.advance()
			prop := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &ast.MemberExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, prop, true, false}
		case p.at(token.TEMPLATE_NO_SUB) || p.at(token.TEMPLATE_HEAD):
			quasi := p.parseTemplateLiteral()
			expr = &ast.TaggedTemplateExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, quasi}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallTail(expr ast.Expression, start token.Pos) ast.Expression {
	for {
		switch {
		case p.at(token.DOT):
			p.advance()
			expr = p.parseDotProperty(expr, start, false)
		case p.at(token.QUESTION_DOT):
			p.advance()
			switch {
			case p.at(token.LPAREN):
				args := p.parseArguments()
				expr = &ast.CallExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, args, true}
			case p.at(token.LBRACKET):
				p.advance()
				prop := p.parseExpression()
				p.expect(token.RBRACKET)
				expr = &ast.MemberExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, prop, true, true}
			default:
				expr = p.parseDotProperty(expr, start, true)
			}
		case p.at(token.LBRACKET):
			p.advance()
			prop := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = &ast.MemberExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, prop, true, false}
		case p.at(token.LPAREN):
			args := p.parseArguments()
			expr = &ast.CallExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, args, false}
		case p.at(token.TEMPLATE_NO_SUB) || p.at(token.TEMPLATE_HEAD):
			quasi := p.parseTemplateLiteral()
			expr = &ast.TaggedTemplateExpression{ast.ExprBase{Base: ast.NewBase(start)}, expr, quasi}
		default:
			return expr
		}
	}
}

func (p *Parser) parseDotProperty(obj ast.Expression, start token.Pos, optional bool) ast.Expression {
	if p.at(token.PRIVATE_NAME) {
		t := p.advance()
		prop := &ast.PrivateIdentifier{Name: t.Lexeme}
		prop.Base = ast.NewBase(t.Start)
		return &ast.MemberExpression{ast.ExprBase{Base: ast.NewBase(start)}, obj, prop, false, optional}
	}
	t := p.cur()
	if !t.Kind.IsKeyword() && t.Kind != token.IDENT {
		p.fail("expected property name after '.'")
	}
	p.advance()
	prop := &ast.Identifier{Name: t.Lexeme}
	prop.Base = ast.NewBase(t.Start)
	return &ast.MemberExpression{ast.ExprBase{Base: ast.NewBase(start)}, obj, prop, false, optional}
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.at(token.RPAREN) {
		if p.at(token.DOT_DOT_DOT) {
			sstart := p.advance().Start
			arg := p.parseAssignmentExpression()
			args = append(args, &ast.SpreadElement{ast.ExprBase{Base: ast.NewBase(sstart)}, arg})
		} else {
			args = append(args, p.parseAssignmentExpression())
		}
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return args
}

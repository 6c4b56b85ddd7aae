package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

func (p *Parser) parseClassDeclaration() ast.Statement {
	start := p.cur().Start
	cls := p.parseClassLiteral()
	return &ast.ClassDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, cls.ID, cls}
}

func (p *Parser) parseClassExpression() ast.Expression {
	cls := p.parseClassLiteral()
	ce := &ast.ClassExpression{Class: cls}
	ce.Base = cls.Base
	return ce
}

// parseClassLiteral parses `class [name] [extends Expr] {... }`. Class
// bodies are always strict-mode code regardless of the enclosing
// context.
func (p *Parser) parseClassLiteral() *ast.ClassLiteral {
	start := p.expect(token.CLASS).Start
	savedStrict := p.ctx.strict
	p.ctx.strict = true

	var id *ast.Identifier
	if p.at(token.IDENT) {
		id = p.identFromToken(p.advance())
	}
	var super ast.Expression
	if p.at(token.EXTENDS) {
		p.advance()
		super = p.parseLeftHandSideExpression()
	}

	wasClass := p.ctx.inClass
	p.ctx.inClass = true
	members := p.parseClassBody(super != nil)
	p.ctx.inClass = wasClass

	p.ctx.strict = savedStrict
	cls := &ast.ClassLiteral{ID: id, SuperClass: super, Body: members}
	cls.Base = ast.NewBase(start)
	return cls
}

func (p *Parser) parseClassBody(hasSuper bool) []*ast.ClassMember {
	p.expect(token.LBRACE)
	var members []*ast.ClassMember
	sawConstructor := false
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.SEMICOLON) {
			p.advance()
			continue
		}
		m := p.parseClassMember(hasSuper)
		if m.Kind == ast.ClassMethod && !m.Static && !m.Computed {
			if id, ok := m.Key.(*ast.Identifier); ok && id.Name == "constructor" {
				if sawConstructor {
					p.failAt(m.Pos(), "a class may only have one constructor")
				}
				sawConstructor = true
			}
		}
		members = append(members, m)
	}
	p.expect(token.RBRACE)
	return members
}

func (p *Parser) parseClassMember(hasSuper bool) *ast.ClassMember {
	start := p.cur().Start

	static := false
	if p.atContextual("static") && !p.classNextIsTerminator() {
		static = true
		p.advance()
		if p.at(token.LBRACE) {
			body := p.parseBlockStatement()
			m := &ast.ClassMember{Kind: ast.ClassStaticBlock, Static: true, Body: body}
			m.Base = ast.NewBase(start)
			return m
		}
	}

	isAsync, isGenerator := false, false
	if p.atContextual("async") && !p.peek(1).NewlineBefore && !p.classNextIsTerminator() {
		isAsync = true
		p.advance()
	}
	if p.at(token.STAR) {
		isGenerator = true
		p.advance()
	}
	if (p.atContextual("get") || p.atContextual("set")) && !p.classNextIsTerminator() {
		isGetter := p.atContextual("get")
		p.advance()
		key, computed := p.parsePropertyKey()
		fn := p.parseMethodRest(false, false)
		kind := ast.ClassGetter
		if !isGetter {
			kind = ast.ClassSetter
		}
		m := &ast.ClassMember{Kind: kind, Key: key, Computed: computed, Static: static, Value: fnExprFrom(fn)}
		m.Base = ast.NewBase(start)
		return m
	}

	key, computed := p.parsePropertyKey()

	if p.at(token.LPAREN) {
		fn := p.parseMethodRest(isAsync, isGenerator)
		m := &ast.ClassMember{Kind: ast.ClassMethod, Key: key, Computed: computed, Static: static, Value: fnExprFrom(fn)}
		m.Base = ast.NewBase(start)
		return m
	}

	// Field, possibly with initializer.
	var init ast.Expression
	if p.at(token.ASSIGN) {
		p.advance()
		wasField := p.ctx.fieldInit
		p.ctx.fieldInit = true
		init = p.parseAssignmentExpression()
		p.ctx.fieldInit = wasField
	}
	p.expectSemicolon()
	m := &ast.ClassMember{Kind: ast.ClassField, Key: key, Computed: computed, Static: static, Value: init}
	m.Base = ast.NewBase(start)
	return m
}

func fnExprFrom(fn *ast.FunctionLiteral) *ast.FunctionExpression {
	fe := &ast.FunctionExpression{Function: fn}
	fe.Base = fn.Base
	return fe
}

// classNextIsTerminator reports whether the token after a modifier-shaped
// identifier (static/async/get/set) means that identifier is itself the
// member name, not the modifier (`static {}`, `static = 1`, `static;`).
func (p *Parser) classNextIsTerminator() bool {
	switch p.peek(1).Kind {
	case token.LPAREN, token.ASSIGN, token.SEMICOLON, token.RBRACE:
		return true
	}
	return false
}

package parser

import (
	"strings"

	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

func (p *Parser) parsePrimaryExpression() ast.Expression {
	t := p.cur()
	switch t.Kind {
	case token.NUMBER:
		p.advance()
		kind := ast.LitNumberValue
		if t.Literal.IsOctal {
			kind = ast.LitLegacyOctal
			if p.ctx.strict {
				p.failAt(t.Start, "octal literals are not allowed in strict mode")
			}
		}
		lit := &ast.Literal{Kind: kind, Number: t.Literal.Number, Raw: t.Lexeme}
		lit.Base = ast.NewBase(t.Start)
		return lit
	case token.BIGINT:
		p.advance()
		lit := &ast.Literal{Kind: ast.LitBigInt, BigInt: t.Literal.BigInt, Raw: t.Lexeme}
		lit.Base = ast.NewBase(t.Start)
		return lit
	case token.STRING:
		p.advance()
		if p.ctx.strict && t.Literal.IsOctal {
			p.failAt(t.Start, "octal escape sequences are not allowed in strict mode")
		}
		lit := &ast.Literal{Kind: ast.LitString, Str: t.Literal.String, Raw: t.Literal.Raw}
		lit.Base = ast.NewBase(t.Start)
		return lit
	case token.TRUE, token.FALSE:
		p.advance()
		lit := &ast.Literal{Kind: ast.LitBoolean, Bool: t.Kind == token.TRUE, Raw: t.Lexeme}
		lit.Base = ast.NewBase(t.Start)
		return lit
	case token.NULL:
		p.advance()
		lit := &ast.Literal{Kind: ast.LitNull, Raw: "null"}
		lit.Base = ast.NewBase(t.Start)
		return lit
	case token.REGEXP:
		p.advance()
		pattern, flags := splitRegex(t.Lexeme)
		re := &ast.RegExpLiteral{Pattern: pattern, Flags: flags}
		re.Base = ast.NewBase(t.Start)
		return re
	case token.TEMPLATE_NO_SUB, token.TEMPLATE_HEAD:
		return p.parseTemplateLiteral()
	case token.THIS:
		p.advance()
		th := &ast.ThisExpression{}
		th.Base = ast.NewBase(t.Start)
		return th
	case token.SUPER:
		p.advance()
		su := &ast.SuperExpression{}
		su.Base = ast.NewBase(t.Start)
		return su
	case token.FUNCTION:
		return p.parseFunctionExpression(false)
	case token.CLASS:
		return p.parseClassExpression()
	case token.LPAREN:
		return p.parseParenthesizedExpression()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.IMPORT:
		return p.parseImportMetaOrExpression()
	}
	if p.atContextual("async") && p.peek(1).Kind == token.FUNCTION && !p.peek(1).NewlineBefore {
		p.advance()
		return p.parseFunctionExpression(true)
	}
	if t.Kind == token.IDENT || isContextualIdentLike(t.Kind) {
		p.checkIdentifierReferenceName(t)
		p.advance()
		id := &ast.Identifier{Name: t.Lexeme}
		id.Base = ast.NewBase(t.Start)
		return id
	}
	p.fail("unexpected token %s in expression", t.Kind)
	return nil
}

// isContextualIdentLike reports whether k is one of the lexer's
// contextual-keyword kinds that still behave as plain identifiers
// wherever they are not recognized positionally (async/await/yield/
// static/get/set/of/from/as/let/target/meta).
func isContextualIdentLike(k token.Kind) bool {
	switch k {
	case token.ASYNC, token.AWAIT_CONTEXTUAL, token.YIELD_CONTEXTUAL, token.STATIC,
		token.GET, token.SET, token.OF, token.FROM, token.AS, token.LET, token.TARGET, token.META:
		return true
	}
	return false
}

func (p *Parser) checkIdentifierReferenceName(t token.Token) {
	if t.Kind == token.LET && p.ctx.strict {
		p.failAt(t.Start, "'let' is a reserved identifier in strict mode")
	}
	if t.Lexeme == "yield" {
		if p.ctx.strict || p.ctx.generator {
			p.failAt(t.Start, "'yield' is not a valid identifier here")
		}
	}
	if t.Lexeme == "await" && p.ctx.async {
		p.failAt(t.Start, "'await' is not a valid identifier inside an async function")
	}
	if t.Kind.IsKeyword() {
		p.failAt(t.Start, "unexpected reserved word %q", t.Lexeme)
	}
}

func splitRegex(lexeme string) (pattern, flags string) {
	last := strings.LastIndexByte(lexeme, '/')
	return lexeme[1:last], lexeme[last+1:]
}

func (p *Parser) parseParenthesizedExpression() ast.Expression {
	p.expect(token.LPAREN)
	expr := p.parseExpression()
	p.expect(token.RPAREN)
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.expect(token.LBRACKET).Start
	var elems []ast.Expression
	for !p.at(token.RBRACKET) {
		if p.at(token.COMMA) {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		if p.at(token.DOT_DOT_DOT) {
			sstart := p.advance().Start
			arg := p.parseAssignmentExpression()
			sp := &ast.SpreadElement{Argument: arg}
			sp.Base = ast.NewBase(sstart)
			elems = append(elems, sp)
		} else {
			elems = append(elems, p.parseAssignmentExpression())
		}
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayExpression{ast.ExprBase{Base: ast.NewBase(start)}, elems}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	start := p.expect(token.LBRACE).Start
	var props []*ast.Property
	for !p.at(token.RBRACE) {
		props = append(props, p.parseObjectProperty())
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	return &ast.ObjectExpression{ast.ExprBase{Base: ast.NewBase(start)}, props}
}

func (p *Parser) parseObjectProperty() *ast.Property {
	pstart := p.cur().Start

	if p.at(token.DOT_DOT_DOT) {
		p.advance()
		arg := p.parseAssignmentExpression()
		return &ast.Property{Base: ast.NewBase(pstart), Kind: ast.PropSpread, Key: arg}
	}

	isAsync, isGenerator := false, false
	if p.atContextual("async") && !p.peek(1).NewlineBefore && !p.nextTerminatesProperty() {
		isAsync = true
		p.advance()
	}
	if p.at(token.STAR) {
		isGenerator = true
		p.advance()
	}
	if (p.atContextual("get") || p.atContextual("set")) && !p.nextTerminatesProperty() {
		isGetter := p.atContextual("get")
		p.advance()
		key, computed := p.parsePropertyKey()
		fn := p.parseMethodRest(false, false)
		kind := ast.PropGet
		if !isGetter {
			kind = ast.PropSet
		}
		fnExpr := &ast.FunctionExpression{Function: fn}
		fnExpr.Base = ast.NewBase(pstart)
		return &ast.Property{Base: ast.NewBase(pstart), Kind: kind, Key: key, Value: fnExpr, Computed: computed}
	}

	key, computed := p.parsePropertyKey()

	if p.at(token.LPAREN) {
		fn := p.parseMethodRest(isAsync, isGenerator)
		fnExpr := &ast.FunctionExpression{Function: fn}
		fnExpr.Base = ast.NewBase(pstart)
		return &ast.Property{Base: ast.NewBase(pstart), Kind: ast.PropMethod, Key: key, Value: fnExpr, Computed: computed}
	}

	if p.at(token.COLON) {
		p.advance()
		val := p.parseAssignmentExpression()
		return &ast.Property{Base: ast.NewBase(pstart), Kind: ast.PropInit, Key: key, Value: val, Computed: computed}
	}

	// Shorthand `{ x }` or `{ x = default }` (the latter only valid when
	// later reinterpreted as an object pattern).
	id, ok := key.(*ast.Identifier)
	if !ok || computed {
		p.failAt(pstart, "invalid shorthand property")
	}
	if p.at(token.ASSIGN) {
		p.advance()
		def := p.parseAssignmentExpression()
		idCopy := &ast.Identifier{Name: id.Name}
		idCopy.Base = ast.NewBase(id.Pos())
		assign := &ast.AssignmentExpression{ast.ExprBase{Base: ast.NewBase(pstart)}, "=", idCopy, def}
		return &ast.Property{Base: ast.NewBase(pstart), Kind: ast.PropInit, Key: key, Value: assign, Computed: false, Shorthand: true}
	}
	idCopy := &ast.Identifier{Name: id.Name}
	idCopy.Base = ast.NewBase(id.Pos())
	return &ast.Property{Base: ast.NewBase(pstart), Kind: ast.PropInit, Key: key, Value: idCopy, Computed: false, Shorthand: true}
}

// nextTerminatesProperty reports whether the token after a get/set
// identifier means "get"/"set" is actually being used as the property
// name itself (`{ get() {} }`, `{ get: 1 }`, `{ get, }`), not the
// accessor keyword.
func (p *Parser) nextTerminatesProperty() bool {
	switch p.peek(1).Kind {
	case token.LPAREN, token.COLON, token.COMMA, token.RBRACE, token.ASSIGN:
		return true
	}
	return false
}

func (p *Parser) parseImportMetaOrExpression() ast.Expression {
	start := p.advance().Start
	if p.at(token.DOT) {
		p.advance()
		prop := p.expect(token.IDENT)
		if prop.Lexeme != "meta" {
			p.failAt(prop.Start, "expected 'meta' after 'import.'")
		}
		if !p.ctx.inModule {
			p.failAt(start, "'import.meta' may only appear in a module")
		}
		mp := &ast.MetaProperty{Meta: "import", Property: "meta"}
		mp.Base = ast.NewBase(start)
		return mp
	}
	p.expect(token.LPAREN)
	src := p.parseAssignmentExpression()
	if p.at(token.COMMA) {
		p.advance()
		if !p.at(token.RPAREN) {
			p.parseAssignmentExpression() // import-assertion options argument, evaluated and discarded
		}
	}
	p.expect(token.RPAREN)
	imp := &ast.ImportExpression{Source: src}
	imp.Base = ast.NewBase(start)
	return imp
}

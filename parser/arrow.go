package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// tryParseArrowFunction speculatively attempts to parse an arrow function
// head starting at the current position, backtracking cleanly if the
// tokens turn out to belong to some other expression (a parenthesized
// expression, a call to a function literally named "async", etc). This
// is the one place the parser needs true backtracking, since the head of
// `(a, b)` is not distinguishable from a parenthesized SequenceExpression
// until the `=>` (or its absence) is seen.
func (p *Parser) tryParseArrowFunction() (ast.Expression, bool) {
	if !p.at(token.LPAREN) && !p.at(token.IDENT) && !p.atContextual("async") {
		return nil, false
	}
	saved := p.pos
	savedCtx := p.ctx
	var result ast.Expression
	ok := p.attempt(func() bool {
		start := p.cur().Start
		isAsync := false
		if p.atContextual("async") {
			nxt := p.peek(1)
			if nxt.NewlineBefore || (nxt.Kind != token.LPAREN && nxt.Kind != token.IDENT) {
				return false
			}
			isAsync = true
			p.advance()
		}

		var params []ast.Pattern
		switch {
		case p.at(token.LPAREN):
			ps, _ := p.parseFunctionParams()
			params = ps
		case p.at(token.IDENT):
			tok := p.advance()
			ip := &ast.IdentifierPattern{Name: tok.Lexeme}
			ip.Base = ast.NewBase(tok.Start)
			params = []ast.Pattern{ip}
		default:
			return false
		}

		if p.cur().NewlineBefore || !p.at(token.ARROW) {
			return false
		}
		p.advance()
		result = p.finishArrowFunction(start, params, isAsync)
		return true
	})
	if !ok {
		p.pos = saved
		p.ctx = savedCtx
		return nil, false
	}
	return result, true
}

// attempt runs fn, treating any *Error panic as a plain "false" result
// and letting every other panic propagate.
func (p *Parser) attempt(fn func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isSyntaxErr := r.(*Error); isSyntaxErr {
				ok = false
				return
			}
			panic(r)
		}
	}()
	return fn()
}

func (p *Parser) finishArrowFunction(start token.Pos, params []ast.Pattern, isAsync bool) ast.Expression {
	savedCtx := p.ctx
	p.ctx.async = isAsync
	p.ctx.generator = false
	p.ctx.inFunction = true
	p.ctx.inLoop = false
	p.ctx.inSwitch = false
	p.ctx.labels = map[string]bool{}

	simple := isSimpleParamList(params)

	var body *ast.BlockStatement
	var exprBody ast.Expression
	strict := savedCtx.strict
	if p.at(token.LBRACE) {
		b, s := p.parseFunctionBodyBlock()
		body = b
		strict = s
	} else {
		exprBody = p.parseAssignmentExpression()
	}
	if !simple && strict && !savedCtx.strict {
		p.failAt(start, "illegal 'use strict' directive in arrow function with non-simple parameter list")
	}
	p.checkDuplicateParams(params, true)

	fn := &ast.FunctionLiteral{
		Params: params, Body: body, ExpressionBody: exprBody,
		Arrow: true, Async: isAsync, IsStrict: strict, SimpleParameterList: simple,
	}
	fn.Base = ast.NewBase(start)
	p.ctx = savedCtx

	fe := &ast.FunctionExpression{Function: fn}
	fe.Base = ast.NewBase(start)
	return fe
}

func isSimpleParamList(params []ast.Pattern) bool {
	for _, pm := range params {
		if _, ok := pm.(*ast.IdentifierPattern); !ok {
			return false
		}
	}
	return true
}

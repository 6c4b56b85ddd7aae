package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

func (p *Parser) parseFunctionDeclaration(isAsync bool) ast.Statement {
	return p.parseFunctionDeclarationRest(isAsync, false)
}

// parseDefaultExportedFunctionDeclaration parses the FunctionDeclaration
// production used after `export default`, where the name is optional:
// the grammar carves out HoistableDeclaration[Default] for exactly this
// position.
func (p *Parser) parseDefaultExportedFunctionDeclaration(isAsync bool) ast.Statement {
	return p.parseFunctionDeclarationRest(isAsync, true)
}

func (p *Parser) parseFunctionDeclarationRest(isAsync, allowAnonymous bool) ast.Statement {
	start := p.expect(token.FUNCTION).Start
	isGenerator := false
	if p.at(token.STAR) {
		isGenerator = true
		p.advance()
	}
	var id *ast.Identifier
	if p.at(token.IDENT) {
		id = p.identFromToken(p.advance())
	} else if !isGenerator && !allowAnonymous {
		p.fail("function declaration requires a name")
	}
	fn := p.parseFunctionRest(id, isAsync, isGenerator, false)
	return &ast.FunctionDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, id, fn}
}

func (p *Parser) parseFunctionExpression(isAsync bool) ast.Expression {
	start := p.expect(token.FUNCTION).Start
	isGenerator := false
	if p.at(token.STAR) {
		isGenerator = true
		p.advance()
	}
	var id *ast.Identifier
	if p.at(token.IDENT) {
		id = p.identFromToken(p.advance())
	}
	fn := p.parseFunctionRest(id, isAsync, isGenerator, false)
	fe := &ast.FunctionExpression{Function: fn}
	fe.Base = ast.NewBase(start)
	return fe
}

// parseMethodRest parses the parameter list and body of an object/class
// method whose name has already been consumed by the caller.
func (p *Parser) parseMethodRest(isAsync, isGenerator bool) *ast.FunctionLiteral {
	return p.parseFunctionRest(nil, isAsync, isGenerator, false)
}

// parseFunctionRest parses `(params) { body }` shared by declarations,
// expressions, and methods, switching the async/generator/strict
// context flags for the duration of the body.
func (p *Parser) parseFunctionRest(id *ast.Identifier, isAsync, isGenerator, isArrow bool) *ast.FunctionLiteral {
	start := p.cur().Start
	savedCtx := p.ctx
	p.ctx.async = isAsync
	p.ctx.generator = isGenerator
	p.ctx.inFunction = true
	p.ctx.inLoop = false
	p.ctx.inSwitch = false
	p.ctx.labels = map[string]bool{}

	params, simple := p.parseFunctionParams()
	body, strict := p.parseFunctionBodyBlock()
	if !simple && strict && !savedCtx.strict {
		p.failAt(start, "illegal 'use strict' directive in function with non-simple parameter list")
	}
	p.checkDuplicateParams(params, strict || isArrow || !simple)

	fn := &ast.FunctionLiteral{
		ID: id, Params: params, Body: body, Generator: isGenerator, Async: isAsync,
		Arrow: isArrow, IsStrict: strict, SimpleParameterList: simple,
	}
	fn.Base = ast.NewBase(start)
	p.ctx = savedCtx
	return fn
}

func (p *Parser) parseFunctionParams() (params []ast.Pattern, simple bool) {
	p.expect(token.LPAREN)
	simple = true
	for !p.at(token.RPAREN) {
		if p.at(token.DOT_DOT_DOT) {
			simple = false
			rstart := p.advance().Start
			target := p.parseBindingTarget()
			rest := &ast.RestElement{Argument: target}
			rest.Base = ast.NewBase(rstart)
			params = append(params, rest)
			break
		}
		start := p.cur().Start
		target := p.parseBindingTarget()
		if _, ok := target.(*ast.IdentifierPattern); !ok {
			simple = false
		}
		if p.at(token.ASSIGN) {
			simple = false
			p.advance()
			def := p.parseAssignmentExpression()
			params = append(params, &ast.AssignmentPattern{ast.PatternBase{Base: ast.NewBase(start)}, target, def})
		} else {
			params = append(params, target)
		}
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params, simple
}

func (p *Parser) parseFunctionBodyBlock() (*ast.BlockStatement, bool) {
	start := p.expect(token.LBRACE).Start
	body, strict := p.parseStatementListWithDirectives(false)
	p.expect(token.RBRACE)
	return &ast.BlockStatement{ast.StmtBase{Base: ast.NewBase(start)}, body}, strict
}

func (p *Parser) checkDuplicateParams(params []ast.Pattern, forbidDuplicates bool) {
	if !forbidDuplicates {
		return
	}
	seen := map[string]bool{}
	var walk func(pat ast.Pattern)
	walk = func(pat ast.Pattern) {
		switch v := pat.(type) {
		case *ast.IdentifierPattern:
			if seen[v.Name] {
				p.failAt(v.Pos(), "duplicate parameter name %q not allowed in this context", v.Name)
			}
			seen[v.Name] = true
		case *ast.AssignmentPattern:
			walk(v.Target)
		case *ast.RestElement:
			walk(v.Argument)
		case *ast.ArrayPattern:
			for _, e := range v.Elements {
				if e.Pattern != nil {
					walk(e.Pattern)
				}
			}
		case *ast.ObjectPattern:
			for _, pr := range v.Properties {
				walk(pr.Value)
			}
			if v.Rest != nil {
				walk(v.Rest)
			}
		}
	}
	for _, pm := range params {
		walk(pm)
	}
}

package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

func (p *Parser) parseProgram(isModule bool) (prog *ast.Program, err error) {
	defer func() { err = recoverErr(recover()) }()

	start := p.pos_()
	body, strict := p.parseStatementListWithDirectives(isModule)
	p.expectEOF()

	sourceType := "script"
	if isModule {
		sourceType = "module"
	}
	return &ast.Program{
		Base: ast.NewBase(start),
		Body: body,
		IsModule: isModule,
		IsStrict: strict || isModule,
		SourceType: sourceType,
	}, nil
}

// parseStatementListWithDirectives parses a top-level or function-body
// statement list, first peeling off the directive prologue (a run of bare
// string-literal expression statements) to detect "use strict" and seed
// ctx.strict for everything that follows.
func (p *Parser) parseStatementListWithDirectives(isModule bool) ([]ast.Statement, bool) {
	wasStrict := p.ctx.strict
	var body []ast.Statement
	inPrologue := true
	for !p.at(token.EOF) && !p.at(token.RBRACE) {
		if inPrologue {
			if dir, ok := p.peekDirective(); ok {
				if dir == "use strict" {
					p.ctx.strict = true
				}
				stmt := p.parseStatement(isModule)
				if es, ok := stmt.(*ast.ExpressionStatement); ok {
					es.Directive = dir
				}
				body = append(body, stmt)
				continue
			}
			inPrologue = false
		}
		body = append(body, p.parseStatement(isModule))
	}
	strict := p.ctx.strict
	p.ctx.strict = wasStrict
	return body, strict
}

// peekDirective reports whether the upcoming statement is a bare string
// literal (a directive candidate) without consuming it.
func (p *Parser) peekDirective() (string, bool) {
	if p.cur().Kind != token.STRING {
		return "", false
	}
	// A directive must be the *entire* statement: string literal then
	// `;`, newline-ASI, `}`, or EOF, with no trailing operator.
	next := p.peek(1)
	switch next.Kind {
	case token.SEMICOLON, token.RBRACE, token.EOF:
		return p.cur().Literal.String, true
	default:
		if next.NewlineBefore {
			return p.cur().Literal.String, true
		}
	}
	return "", false
}

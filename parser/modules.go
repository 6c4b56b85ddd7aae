package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

func (p *Parser) parseImportDeclaration() ast.Statement {
	start := p.expect(token.IMPORT).Start

	if p.at(token.STRING) {
		src := p.advance().Literal.String
		p.expectSemicolon()
		return &ast.ImportDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, nil, src}
	}

	var specs []*ast.ImportSpecifier

	if p.at(token.IDENT) {
		local := p.identFromToken(p.advance())
		spec := &ast.ImportSpecifier{Kind: ast.ImportDefault, Local: local}
		spec.Base = local.Base
		specs = append(specs, spec)
		if p.atAny(token.STAR, token.LBRACE) {
			p.expect(token.COMMA)
		}
	}
	switch {
	case p.at(token.STAR):
		sstart := p.advance().Start
		p.expectContextual("as")
		local := p.identFromToken(p.expect(token.IDENT))
		spec := &ast.ImportSpecifier{Kind: ast.ImportNamespace, Local: local}
		spec.Base = ast.NewBase(sstart)
		specs = append(specs, spec)
	case p.at(token.LBRACE):
		p.advance()
		for !p.at(token.RBRACE) {
			sstart := p.cur().Start
			imported := p.identFromToken(p.advanceIdentLike())
			local := imported
			if p.atContextual("as") {
				p.advance()
				local = p.identFromToken(p.expect(token.IDENT))
			}
			spec := &ast.ImportSpecifier{Kind: ast.ImportNamed, Local: local, Imported: imported}
			spec.Base = ast.NewBase(sstart)
			specs = append(specs, spec)
			if !p.at(token.COMMA) {
				break
			}
			p.advance()
		}
		p.expect(token.RBRACE)
	}

	p.expectContextual("from")
	src := p.expect(token.STRING).Literal.String
	p.expectSemicolon()
	return &ast.ImportDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, specs, src}
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	start := p.expect(token.EXPORT).Start

	if p.at(token.DEFAULT) {
		p.advance()
		var decl ast.Node
		switch {
		case p.at(token.FUNCTION):
			decl = p.parseDefaultExportedFunctionDeclaration(false)
		case p.atContextual("async") && p.peek(1).Kind == token.FUNCTION:
			p.advance()
			decl = p.parseDefaultExportedFunctionDeclaration(true)
		case p.at(token.CLASS):
			decl = p.parseClassDeclaration()
		default:
			decl = p.parseAssignmentExpression()
			p.expectSemicolon()
		}
		return &ast.ExportDefaultDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, decl}
	}

	if p.at(token.STAR) {
		p.advance()
		var exported *ast.Identifier
		if p.atContextual("as") {
			p.advance()
			exported = p.identFromToken(p.expect(token.IDENT))
		}
		p.expectContextual("from")
		src := p.expect(token.STRING).Literal.String
		p.expectSemicolon()
		return &ast.ExportAllDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, exported, src}
	}

	if p.at(token.LBRACE) {
		p.advance()
		var specs []*ast.ExportSpecifier
		for !p.at(token.RBRACE) {
			sstart := p.cur().Start
			local := p.identFromToken(p.advanceIdentLike())
			exported := local
			if p.atContextual("as") {
				p.advance()
				exported = p.identFromToken(p.advanceIdentLike())
			}
			spec := &ast.ExportSpecifier{Local: local, Exported: exported}
			spec.Base = ast.NewBase(sstart)
			specs = append(specs, spec)
			if !p.at(token.COMMA) {
				break
			}
			p.advance()
		}
		p.expect(token.RBRACE)
		var source string
		if p.atContextual("from") {
			p.advance()
			source = p.expect(token.STRING).Literal.String
		}
		p.expectSemicolon()
		return &ast.ExportNamedDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, nil, specs, source}
	}

	decl := p.parseStatement(true)
	return &ast.ExportNamedDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, decl, nil, ""}
}

func (p *Parser) expectContextual(word string) {
	if !p.atContextual(word) {
		p.fail("expected %q but found %s", word, p.cur().Kind)
	}
	p.advance()
}

// advanceIdentLike consumes an IDENT-shaped token for positions (import/
// export specifier names) where a reserved word is syntactically
// permitted as the external name.
func (p *Parser) advanceIdentLike() token.Token {
	t := p.cur()
	if t.Kind != token.IDENT && !t.Kind.IsKeyword() {
		p.fail("expected identifier but found %s", t.Kind)
	}
	return p.advance()
}

package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

func (p *Parser) parseStatement(isModule bool) ast.Statement {
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.VAR, token.CONST:
		return p.parseVariableStatement()
	case token.SEMICOLON:
		start := p.advance().Start
		return &ast.EmptyStatement{stmtBaseAt(start)}
	case token.IF:
		return p.parseIfStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.WITH:
		return p.parseWithStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.DEBUGGER:
		start := p.advance().Start
		p.expectSemicolon()
		return &ast.DebuggerStatement{stmtBaseAt(start)}
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.IMPORT:
		if isModule && !(p.peek(1).Kind == token.LPAREN || p.peek(1).Kind == token.DOT) {
			return p.parseImportDeclaration()
		}
	case token.EXPORT:
		if isModule {
			return p.parseExportDeclaration()
		}
	}
	if p.atContextual("let") && p.letStartsDeclaration() {
		return p.parseVariableStatement()
	}
	if p.atContextual("async") && p.peek(1).Kind == token.FUNCTION && !p.peek(1).NewlineBefore {
		p.advance()
		return p.parseFunctionDeclaration(true)
	}
	if p.atContextual("using") && p.peek(1).Kind == token.IDENT && !p.peek(1).NewlineBefore {
		return p.parseUsingDeclaration(false)
	}
	if p.atContextual("await") && p.peek(1).Kind == token.IDENT && p.peek(1).Lexeme == "using" && !p.peek(1).NewlineBefore {
		p.advance()
		return p.parseUsingDeclaration(true)
	}
	if (p.at(token.IDENT) || p.cur().Kind.IsKeyword()) && p.peek(1).Kind == token.COLON {
		return p.parseLabeledStatement()
	}
	return p.parseExpressionStatement()
}

// letStartsDeclaration disambiguates `let` as a LexicalDeclaration
// keyword from `let` used as an ordinary (sloppy-mode only) identifier,
// per the lookahead restriction in.
func (p *Parser) letStartsDeclaration() bool {
	nxt := p.peek(1)
	if nxt.Kind == token.IDENT || isContextualIdentLike(nxt.Kind) || nxt.Kind == token.LBRACKET || nxt.Kind == token.LBRACE {
		return true
	}
	return false
}

// stmtBaseAt builds the embeddable ast.StmtBase for a statement starting at pos.
func stmtBaseAt(pos token.Pos) ast.StmtBase {
	return ast.StmtBase{Base: ast.NewBase(pos)}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.expect(token.LBRACE).Start
	var body []ast.Statement
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		body = append(body, p.parseStatement(false))
	}
	p.expect(token.RBRACE)
	return &ast.BlockStatement{ast.StmtBase{Base: ast.NewBase(start)}, body}
}

func (p *Parser) varKindFromToken() ast.VarKind {
	switch p.cur().Kind {
	case token.VAR:
		return ast.VarVar
	case token.CONST:
		return ast.VarConst
	default:
		return ast.VarLet
	}
}

func (p *Parser) parseVariableStatement() *ast.VariableDeclaration {
	decl := p.parseVariableDeclarationList(false)
	p.expectSemicolon()
	return decl
}

// parseVariableDeclarationList parses `var|let|const a = 1, b = 2` without
// consuming the trailing semicolon, so for-statement init clauses can
// reuse it. noIn suppresses `in` as a binary operator inside the
// initializer (needed to disambiguate `for (let x in y)`).
func (p *Parser) parseVariableDeclarationList(noIn bool) *ast.VariableDeclaration {
	start := p.cur().Start
	kind := p.varKindFromToken()
	p.advance()

	var decls []*ast.VariableDeclarator
	for {
		dstart := p.cur().Start
		target := p.parseBindingTarget()
		var init ast.Expression
		if p.at(token.ASSIGN) {
			p.advance()
			wasNoIn := p.ctx.noIn
			p.ctx.noIn = noIn
			init = p.parseAssignmentExpression()
			p.ctx.noIn = wasNoIn
		} else if kind == ast.VarConst {
			p.failAt(dstart, "missing initializer in const declaration")
		} else if _, ok := target.(*ast.IdentifierPattern); !ok {
			p.failAt(dstart, "missing initializer in destructuring declaration")
		}
		decls = append(decls, &ast.VariableDeclarator{Base: ast.NewBase(dstart), ID: target, Init: init})
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	return &ast.VariableDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, kind, decls}
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.advance().Start
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	cons := p.parseStatement(false)
	var alt ast.Statement
	if p.at(token.ELSE) {
		p.advance()
		alt = p.parseStatement(false)
	}
	return &ast.IfStatement{ast.StmtBase{Base: ast.NewBase(start)}, test, cons, alt}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.advance().Start
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	wasLoop := p.ctx.inLoop
	p.ctx.inLoop = true
	body := p.parseStatement(false)
	p.ctx.inLoop = wasLoop
	return &ast.WhileStatement{ast.StmtBase{Base: ast.NewBase(start)}, test, body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	start := p.advance().Start
	wasLoop := p.ctx.inLoop
	p.ctx.inLoop = true
	body := p.parseStatement(false)
	p.ctx.inLoop = wasLoop
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression()
	p.expect(token.RPAREN)
	if p.at(token.SEMICOLON) {
		p.advance()
	}
	return &ast.DoWhileStatement{ast.StmtBase{Base: ast.NewBase(start)}, body, test}
}

func (p *Parser) parseForStatement() ast.Statement {
	start := p.advance().Start
	isAwait := false
	if p.atContextual("await") {
		isAwait = true
		p.advance()
	}
	p.expect(token.LPAREN)

	var init ast.Node
	if p.at(token.SEMICOLON) {
		init = nil
	} else if p.atAny(token.VAR, token.CONST) || (p.atContextual("let") && p.letStartsDeclaration()) {
		decl := p.parseVariableDeclarationList(true)
		init = decl
	} else {
		wasNoIn := p.ctx.noIn
		p.ctx.noIn = true
		init = p.parseExpression()
		p.ctx.noIn = wasNoIn
	}

	if p.atContextual("of") || p.at(token.IN) {
		isOf := p.atContextual("of")
		p.advance()
		left := p.forHeadLeft(init)
		right := p.parseAssignmentExpressionNoIn(isOf)
		p.expect(token.RPAREN)
		wasLoop := p.ctx.inLoop
		p.ctx.inLoop = true
		body := p.parseStatement(false)
		p.ctx.inLoop = wasLoop
		if isOf {
			return &ast.ForOfStatement{ast.StmtBase{Base: ast.NewBase(start)}, left, right, body, isAwait}
		}
		return &ast.ForInStatement{ast.StmtBase{Base: ast.NewBase(start)}, left, right, body}
	}

	p.expect(token.SEMICOLON)
	var test ast.Expression
	if !p.at(token.SEMICOLON) {
		test = p.parseExpression()
	}
	p.expect(token.SEMICOLON)
	var update ast.Expression
	if !p.at(token.RPAREN) {
		update = p.parseExpression()
	}
	p.expect(token.RPAREN)
	wasLoop := p.ctx.inLoop
	p.ctx.inLoop = true
	body := p.parseStatement(false)
	p.ctx.inLoop = wasLoop
	return &ast.ForStatement{ast.StmtBase{Base: ast.NewBase(start)}, init, test, update, body}
}

// forHeadLeft converts the already-parsed for-head init into the Left
// operand of a for-in/for-of statement: either the single declarator of
// a var/let/const form, or a pattern reinterpreted from an expression.
func (p *Parser) forHeadLeft(init ast.Node) ast.Node {
	switch v := init.(type) {
	case *ast.VariableDeclaration:
		if len(v.Declarations) != 1 {
			p.failAt(v.Pos(), "for-in/for-of loop may only declare one binding")
		}
		return v
	case ast.Expression:
		return p.exprToAssignmentTarget(v)
	default:
		p.fail("invalid left-hand side in for-in/for-of loop")
		return nil
	}
}

func (p *Parser) parseAssignmentExpressionNoIn(_ bool) ast.Expression {
	// for-of/for-in right-hand sides are ordinary AssignmentExpressions;
	// `in` is unambiguous here since the head already consumed its own
	// `in`/`of` keyword.
	return p.parseAssignmentExpression()
}

func (p *Parser) parseContinueStatement() ast.Statement {
	start := p.advance().Start
	var label *ast.Identifier
	if p.at(token.IDENT) && !p.cur().NewlineBefore {
		label = p.identFromToken(p.advance())
		if !p.ctx.labels[label.Name] {
			p.failAt(label.Pos(), "undefined label %q", label.Name)
		}
		if !p.ctx.inLoop {
			p.failAt(start, "illegal continue statement: no surrounding iteration statement")
		}
	} else if !p.ctx.inLoop {
		p.failAt(start, "illegal continue statement: no surrounding iteration statement")
	}
	p.expectSemicolon()
	return &ast.ContinueStatement{ast.StmtBase{Base: ast.NewBase(start)}, label}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	start := p.advance().Start
	var label *ast.Identifier
	if p.at(token.IDENT) && !p.cur().NewlineBefore {
		label = p.identFromToken(p.advance())
		if !p.ctx.labels[label.Name] {
			p.failAt(label.Pos(), "undefined label %q", label.Name)
		}
	} else if !p.ctx.inLoop && !p.ctx.inSwitch {
		p.failAt(start, "illegal break statement")
	}
	p.expectSemicolon()
	return &ast.BreakStatement{ast.StmtBase{Base: ast.NewBase(start)}, label}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.advance().Start
	if !p.ctx.inFunction {
		p.failAt(start, "illegal return statement: not inside a function")
	}
	var arg ast.Expression
	if !p.at(token.SEMICOLON) && !p.at(token.RBRACE) && !p.at(token.EOF) && !p.cur().NewlineBefore {
		arg = p.parseExpression()
	}
	p.expectSemicolon()
	return &ast.ReturnStatement{ast.StmtBase{Base: ast.NewBase(start)}, arg}
}

func (p *Parser) parseWithStatement() ast.Statement {
	start := p.advance().Start
	if p.ctx.strict {
		p.failAt(start, "'with' statements are not allowed in strict mode")
	}
	p.expect(token.LPAREN)
	obj := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement(false)
	return &ast.WithStatement{ast.StmtBase{Base: ast.NewBase(start)}, obj, body}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	start := p.advance().Start
	if p.cur().NewlineBefore {
		p.failAt(start, "illegal newline after 'throw'")
	}
	arg := p.parseExpression()
	p.expectSemicolon()
	return &ast.ThrowStatement{ast.StmtBase{Base: ast.NewBase(start)}, arg}
}

func (p *Parser) parseTryStatement() ast.Statement {
	start := p.advance().Start
	block := p.parseBlockStatement()
	var handler *ast.CatchClause
	var finally *ast.BlockStatement
	if p.at(token.CATCH) {
		cstart := p.advance().Start
		var param ast.Pattern
		if p.at(token.LPAREN) {
			p.advance()
			param = p.parseBindingTarget()
			p.expect(token.RPAREN)
		}
		body := p.parseBlockStatement()
		handler = &ast.CatchClause{Base: ast.NewBase(cstart), Param: param, Body: body}
	}
	if p.at(token.FINALLY) {
		p.advance()
		finally = p.parseBlockStatement()
	}
	if handler == nil && finally == nil {
		p.fail("missing catch or finally after try")
	}
	return &ast.TryStatement{ast.StmtBase{Base: ast.NewBase(start)}, block, handler, finally}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	start := p.advance().Start
	p.expect(token.LPAREN)
	disc := p.parseExpression()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	wasSwitch := p.ctx.inSwitch
	p.ctx.inSwitch = true
	var cases []*ast.SwitchCase
	sawDefault := false
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		cstart := p.cur().Start
		var test ast.Expression
		if p.at(token.CASE) {
			p.advance()
			test = p.parseExpression()
		} else {
			p.expect(token.DEFAULT)
			if sawDefault {
				p.failAt(cstart, "more than one default clause in switch statement")
			}
			sawDefault = true
		}
		p.expect(token.COLON)
		var body []ast.Statement
		for !p.atAny(token.CASE, token.DEFAULT, token.RBRACE) {
			body = append(body, p.parseStatement(false))
		}
		cases = append(cases, &ast.SwitchCase{Base: ast.NewBase(cstart), Test: test, Consequent: body})
	}
	p.expect(token.RBRACE)
	p.ctx.inSwitch = wasSwitch
	return &ast.SwitchStatement{ast.StmtBase{Base: ast.NewBase(start)}, disc, cases}
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	start := p.cur().Start
	label := p.identFromToken(p.advance())
	p.expect(token.COLON)
	if p.ctx.labels[label.Name] {
		p.failAt(start, "label %q has already been declared", label.Name)
	}
	p.ctx.labels[label.Name] = true
	body := p.parseStatement(false)
	delete(p.ctx.labels, label.Name)
	return &ast.LabeledStatement{ast.StmtBase{Base: ast.NewBase(start)}, label, body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.cur().Start
	expr := p.parseExpression()
	p.expectSemicolon()
	return &ast.ExpressionStatement{StmtBase: ast.StmtBase{Base: ast.NewBase(start)}, Expression: expr}
}

func (p *Parser) parseUsingDeclaration(isAwait bool) ast.Statement {
	start := p.cur().Start
	p.advance() // consume "using"
	var decls []*ast.VariableDeclarator
	for {
		dstart := p.cur().Start
		name := p.expect(token.IDENT)
		id := &ast.IdentifierPattern{Name: name.Lexeme}
		id.Base = ast.NewBase(name.Start)
		p.expect(token.ASSIGN)
		init := p.parseAssignmentExpression()
		decls = append(decls, &ast.VariableDeclarator{Base: ast.NewBase(dstart), ID: id, Init: init})
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expectSemicolon()
	return &ast.UsingDeclaration{ast.StmtBase{Base: ast.NewBase(start)}, isAwait, decls}
}

func (p *Parser) identFromToken(t token.Token) *ast.Identifier {
	id := &ast.Identifier{Name: t.Lexeme}
	id.Base = ast.NewBase(t.Start)
	return id
}

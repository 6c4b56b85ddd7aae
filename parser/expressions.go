package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// parseExpression parses a full Expression production, including the
// comma operator.
func (p *Parser) parseExpression() ast.Expression {
	start := p.cur().Start
	first := p.parseAssignmentExpression()
	if !p.at(token.COMMA) {
		return first
	}
	exprs := []ast.Expression{first}
	for p.at(token.COMMA) {
		p.advance()
		exprs = append(exprs, p.parseAssignmentExpression())
	}
	return &ast.SequenceExpression{ast.ExprBase{Base: ast.NewBase(start)}, exprs}
}

var assignOps = map[token.Kind]string{
	token.ASSIGN: "=", token.PLUS_ASSIGN: "+=", token.MINUS_ASSIGN: "-=",
	token.STAR_ASSIGN: "*=", token.SLASH_ASSIGN: "/=", token.PERCENT_ASSIGN: "%=",
	token.STAR_STAR_ASSIGN: "**=", token.SHL_ASSIGN: "<<=", token.SHR_ASSIGN: ">>=",
	token.USHR_ASSIGN: ">>>=", token.AMP_ASSIGN: "&=", token.PIPE_ASSIGN: "|=",
	token.CARET_ASSIGN: "^=", token.AND_AND_ASSIGN: "&&=", token.OR_OR_ASSIGN: "||=",
	token.QUESTION_QUESTION_ASSIGN: "??=",
}

// parseAssignmentExpression handles arrow functions, yield, and every
// assignment operator, falling back to the conditional-expression chain.
func (p *Parser) parseAssignmentExpression() ast.Expression {
	if p.ctx.generator && p.at(token.YIELD) {
		return p.parseYieldExpression()
	}
	if arrow, ok := p.tryParseArrowFunction(); ok {
		return arrow
	}

	start := p.cur().Start
	left := p.parseConditionalExpression()

	if op, ok := assignOps[p.cur().Kind]; ok {
		p.advance()
		target := p.exprToAssignmentTarget(left)
		right := p.parseAssignmentExpression()
		return &ast.AssignmentExpression{ast.ExprBase{Base: ast.NewBase(start)}, op, target, right}
	}
	return left
}

func (p *Parser) parseYieldExpression() ast.Expression {
	start := p.advance().Start
	delegate := false
	if p.at(token.STAR) {
		delegate = true
		p.advance()
	}
	var arg ast.Expression
	if !p.cur().NewlineBefore && !p.atAny(token.SEMICOLON, token.RPAREN, token.RBRACKET, token.RBRACE, token.COMMA, token.COLON, token.EOF) {
		arg = p.parseAssignmentExpression()
	}
	return &ast.YieldExpression{ast.ExprBase{Base: ast.NewBase(start)}, arg, delegate}
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	start := p.cur().Start
	test := p.parseNullishExpression()
	if !p.at(token.QUESTION) {
		return test
	}
	p.advance()
	wasNoIn := p.ctx.noIn
	p.ctx.noIn = false
	cons := p.parseAssignmentExpression()
	p.expect(token.COLON)
	alt := p.parseAssignmentExpression()
	p.ctx.noIn = wasNoIn
	return &ast.ConditionalExpression{ast.ExprBase{Base: ast.NewBase(start)}, test, cons, alt}
}

func (p *Parser) parseNullishExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseLogicalOrExpression()
	if !p.at(token.QUESTION_QUESTION) {
		return left
	}
	if _, isLogical := left.(*ast.LogicalExpression); isLogical {
		p.fail("cannot mix '??' with '&&' or '||' without parentheses")
	}
	for p.at(token.QUESTION_QUESTION) {
		p.advance()
		right := p.parseLogicalOrExpression()
		if _, isLogical := right.(*ast.LogicalExpression); isLogical {
			p.fail("cannot mix '??' with '&&' or '||' without parentheses")
		}
		left = &ast.LogicalExpression{ast.ExprBase{Base: ast.NewBase(start)}, ast.LogicalNullish, left, right}
	}
	return left
}

func (p *Parser) parseLogicalOrExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseLogicalAndExpression()
	for p.at(token.OR_OR) {
		p.advance()
		right := p.parseLogicalAndExpression()
		left = &ast.LogicalExpression{ast.ExprBase{Base: ast.NewBase(start)}, ast.LogicalOr, left, right}
	}
	return left
}

func (p *Parser) parseLogicalAndExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseBitwiseOrExpression()
	for p.at(token.AND_AND) {
		p.advance()
		right := p.parseBitwiseOrExpression()
		left = &ast.LogicalExpression{ast.ExprBase{Base: ast.NewBase(start)}, ast.LogicalAnd, left, right}
	}
	return left
}

func (p *Parser) parseBitwiseOrExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseBitwiseXorExpression()
	for p.at(token.PIPE) {
		p.advance()
		right := p.parseBitwiseXorExpression()
		left = p.binExpr(start, "|", left, right)
	}
	return left
}

func (p *Parser) parseBitwiseXorExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseBitwiseAndExpression()
	for p.at(token.CARET) {
		p.advance()
		right := p.parseBitwiseAndExpression()
		left = p.binExpr(start, "^", left, right)
	}
	return left
}

func (p *Parser) parseBitwiseAndExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseEqualityExpression()
	for p.at(token.AMP) {
		p.advance()
		right := p.parseEqualityExpression()
		left = p.binExpr(start, "&", left, right)
	}
	return left
}

var equalityOps = map[token.Kind]string{
	token.EQ: "==", token.NE: "!=", token.SEQ: "===", token.SNE: "!==",
}

func (p *Parser) parseEqualityExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseRelationalExpression()
	for {
		op, ok := equalityOps[p.cur().Kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseRelationalExpression()
		left = p.binExpr(start, op, left, right)
	}
}

var relationalOps = map[token.Kind]string{
	token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=", token.INSTANCEOF: "instanceof",
}

func (p *Parser) parseRelationalExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseShiftExpression()
	for {
		if p.at(token.IN) && !p.ctx.noIn {
			p.advance()
			right := p.parseShiftExpression()
			left = p.binExpr(start, "in", left, right)
			continue
		}
		op, ok := relationalOps[p.cur().Kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseShiftExpression()
		left = p.binExpr(start, op, left, right)
	}
}

var shiftOps = map[token.Kind]string{token.SHL: "<<", token.SHR: ">>", token.USHR: ">>>"}

func (p *Parser) parseShiftExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseAdditiveExpression()
	for {
		op, ok := shiftOps[p.cur().Kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseAdditiveExpression()
		left = p.binExpr(start, op, left, right)
	}
}

func (p *Parser) parseAdditiveExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseMultiplicativeExpression()
	for p.atAny(token.PLUS, token.MINUS) {
		op := "+"
		if p.at(token.MINUS) {
			op = "-"
		}
		p.advance()
		right := p.parseMultiplicativeExpression()
		left = p.binExpr(start, op, left, right)
	}
	return left
}

var multiplicativeOps = map[token.Kind]string{token.STAR: "*", token.SLASH: "/", token.PERCENT: "%"}

func (p *Parser) parseMultiplicativeExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseExponentiationExpression()
	for {
		op, ok := multiplicativeOps[p.cur().Kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseExponentiationExpression()
		left = p.binExpr(start, op, left, right)
	}
}

// parseExponentiationExpression is right-associative: `2 ** 3 ** 2` groups
// as `2 ** (3 ** 2)`.
func (p *Parser) parseExponentiationExpression() ast.Expression {
	start := p.cur().Start
	left := p.parseUnaryExpression()
	if !p.at(token.STAR_STAR) {
		return left
	}
	if isUnaryWithoutParens(left) {
		p.failAt(start, "unary operator used immediately before exponentiation expression; parenthesize")
	}
	p.advance()
	right := p.parseExponentiationExpression()
	return p.binExpr(start, "**", left, right)
}

func isUnaryWithoutParens(e ast.Expression) bool {
	_, ok := e.(*ast.UnaryExpression)
	return ok
}

func (p *Parser) binExpr(start token.Pos, op string, left, right ast.Expression) ast.Expression {
	return &ast.BinaryExpression{ast.ExprBase{Base: ast.NewBase(start)}, ast.BinaryOperator(op), left, right}
}

var unaryOps = map[token.Kind]ast.UnaryOperator{
	token.PLUS: ast.UnaryPlus, token.MINUS: ast.UnaryMinus, token.NOT: ast.UnaryNot,
	token.TILDE: ast.UnaryBitNot, token.TYPEOF: ast.UnaryTypeof, token.VOID: ast.UnaryVoid,
	token.DELETE: ast.UnaryDelete,
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	start := p.cur().Start
	if op, ok := unaryOps[p.cur().Kind]; ok {
		p.advance()
		arg := p.parseUnaryExpression()
		if op == ast.UnaryDelete && p.ctx.strict {
			if id, ok := arg.(*ast.Identifier); ok {
				p.failAt(start, "delete of an unqualified identifier %q in strict mode", id.Name)
			}
		}
		return &ast.UnaryExpression{ast.ExprBase{Base: ast.NewBase(start)}, op, arg, true}
	}
	if p.atAny(token.PLUS_PLUS, token.MINUS_MINUS) {
		op := ast.UnaryIncrement
		if p.at(token.MINUS_MINUS) {
			op = ast.UnaryDecrement
		}
		p.advance()
		arg := p.parseUnaryExpression()
		p.checkSimpleAssignmentTarget(arg, start)
		return &ast.UnaryExpression{ast.ExprBase{Base: ast.NewBase(start)}, op, arg, true}
	}
	if p.atContextual("await") {
		p.advance()
		arg := p.parseUnaryExpression()
		return &ast.AwaitExpression{ast.ExprBase{Base: ast.NewBase(start)}, arg}
	}
	return p.parsePostfixExpression()
}

func (p *Parser) parsePostfixExpression() ast.Expression {
	start := p.cur().Start
	expr := p.parseLeftHandSideExpression()
	if !p.cur().NewlineBefore && p.atAny(token.PLUS_PLUS, token.MINUS_MINUS) {
		op := ast.UnaryIncrement
		if p.at(token.MINUS_MINUS) {
			op = ast.UnaryDecrement
		}
		p.checkSimpleAssignmentTarget(expr, start)
		p.advance()
		return &ast.UnaryExpression{ast.ExprBase{Base: ast.NewBase(start)}, op, expr, false}
	}
	return expr
}

func (p *Parser) checkSimpleAssignmentTarget(e ast.Expression, at token.Pos) {
	switch v := e.(type) {
	case *ast.Identifier:
		if p.ctx.strict && (v.Name == "eval" || v.Name == "arguments") {
			p.failAt(at, "invalid assignment target %q in strict mode", v.Name)
		}
	case *ast.MemberExpression:
		// always valid
	default:
		p.failAt(at, "invalid assignment target")
	}
}

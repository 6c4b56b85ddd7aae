// Package parser turns a token stream (package lexer) into an AST
// (package ast) via recursive descent for statements and precedence
// climbing for expressions, enforcing the Early Error static semantics
// as it goes rather than in a separate pass.
package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/lexer"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// context tracks the grammar parameters threaded through recursive
// descent (the [Yield], [Await], [In] productions of the ECMAScript grammar,
// plus the bookkeeping Early Errors need) without a parameter on every
// single parse method.
type context struct {
	strict bool
	async bool
	generator bool
	inFunction bool
	inLoop bool
	inSwitch bool
	inClass bool
	inModule bool // module code, for import.meta's Early Error
	fieldInit bool // inside a class field initializer or static block
	labels map[string]bool
	noIn bool // suppress top-level `in` while parsing for-statement init
}

func (c context) clone() context {
	c2 := c
	c2.labels = make(map[string]bool, len(c.labels))
	for k := range c.labels {
		c2.labels[k] = true
	}
	return c2
}

// Parser consumes a fixed token slice produced ahead of time by the
// lexer; there is no re-lexing, so template literals and regex/divide
// disambiguation are already resolved by the time the parser sees them.
type Parser struct {
	toks []token.Token
	pos int
	ctx context
}

// Parse parses src as a Script. initialStrict
// seeds strict mode for embedders that always run in strict mode.
func Parse(src string, initialStrict bool) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks, ctx: context{strict: initialStrict, labels: map[string]bool{}}}
	return p.parseProgram(false)
}

// ParseModule parses src as a Module; modules are always strict.
func ParseModule(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks, ctx: context{strict: true, inModule: true, labels: map[string]bool{}}}
	return p.parseProgram(true)
}

// ParseExpression parses src as a single standalone expression, used by
// embedder APIs that accept an expression rather than a full program.
func ParseExpression(src string) (expr ast.Expression, err error) {
	toks, lexErr := lexer.Tokenize(src)
	if lexErr != nil {
		return nil, lexErr
	}
	p := &Parser{toks: toks, ctx: context{labels: map[string]bool{}}}
	defer func() { err = recoverErr(recover()) }()
	expr = p.parseExpression()
	p.expectEOF()
	return expr, nil
}

func recoverErr(r any) error {
	if r == nil {
		return nil
	}
	if e, ok := r.(*Error); ok {
		return e
	}
	panic(r)
}

// ---------------------------------------------------------------------
// Cursor primitives
// ---------------------------------------------------------------------

// fail records a SyntaxError and panics with it; recovered at the top of
// parseProgram/ParseExpression so callers get a normal error return
// instead of threading error values through every recursive call.
func (p *Parser) fail(format string, args...any) {
	panic(newError(p.cur().Start, format, args...))
}

func (p *Parser) failAt(pos token.Pos, format string, args...any) {
	panic(newError(pos, format, args...))
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) atAny(ks...token.Kind) bool {
	for _, k := range ks {
		if p.cur().Kind == k {
			return true
		}
	}
	return false
}

// atContextual reports whether the current token is an IDENT-shaped
// contextual keyword with the given spelling (async/static/get/set/...).
func (p *Parser) atContextual(word string) bool {
	t := p.cur()
	return t.Kind == token.IDENT && t.Lexeme == word && !t.HasUnicodeEscape
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.fail("expected %s but found %s", k, p.cur().Kind)
	}
	return p.advance()
}

func (p *Parser) expectEOF() {
	if !p.at(token.EOF) {
		p.fail("unexpected token %s", p.cur().Kind)
	}
}

// expectSemicolon implements Automatic Semicolon Insertion: an explicit
// `;` is consumed; otherwise ASI applies if the next token is `}`, EOF,
// or preceded by a line terminator, and fails
// otherwise.
func (p *Parser) expectSemicolon() {
	if p.at(token.SEMICOLON) {
		p.advance()
		return
	}
	if p.at(token.RBRACE) || p.at(token.EOF) || p.cur().NewlineBefore {
		return
	}
	p.fail("expected ';' but found %s", p.cur().Kind)
}

func (p *Parser) pos_() token.Pos { return p.cur().Start }

package lexer_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub006/lexer"
	"github.com/kodjodevf/js-interpreter-sub006/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestTokenizeBasicArithmetic(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.NUMBER, token.PLUS, token.NUMBER, token.STAR, token.NUMBER, token.EOF,
	}, kinds(t, toks))
}

func TestNumericLiteralBases(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("0o10 0b10 0xff 1_000_000")
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.InDelta(t, 8, toks[0].Literal.Number, 0)
	assert.InDelta(t, 2, toks[1].Literal.Number, 0)
	assert.InDelta(t, 255, toks[2].Literal.Number, 0)
	assert.InDelta(t, 1000000, toks[3].Literal.Number, 0)
}

func TestLegacyOctalLiteral(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("010")
	require.NoError(t, err)
	assert.True(t, toks[0].Literal.IsOctal)
	assert.InDelta(t, 8, toks[0].Literal.Number, 0)
}

func TestBigIntLiteral(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("123456789012345678901234567890n")
	require.NoError(t, err)
	assert.Equal(t, token.BIGINT, toks[0].Kind)
	assert.Equal(t, "123456789012345678901234567890", toks[0].Literal.BigInt)
}

func TestRegexVsDivideDisambiguation(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("a / b")
	require.NoError(t, err)
	assert.Equal(t, token.SLASH, toks[1].Kind)

	toks, err = lexer.Tokenize("return /abc/g")
	require.NoError(t, err)
	assert.Equal(t, token.REGEXP, toks[1].Kind)
	assert.Equal(t, "/abc/g", toks[1].Lexeme)
}

func TestTemplateLiteralNoSubstitution(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("`hello world`")
	require.NoError(t, err)
	require.Equal(t, token.TEMPLATE_NO_SUB, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Literal.String)
}

func TestTemplateLiteralWithInterpolation(t *testing.T) {
	t.Parallel()
	// `a${b}c${d}e` -> Head("a") IDENT(b) Middle("c") IDENT(d) Tail("e")
	toks, err := lexer.Tokenize("`a${b}c${d}e`")
	require.NoError(t, err)
	got := kinds(t, toks)
	assert.Equal(t, []token.Kind{
		token.TEMPLATE_HEAD, token.IDENT, token.TEMPLATE_MIDDLE,
		token.IDENT, token.TEMPLATE_TAIL, token.EOF,
	}, got)
	assert.Equal(t, "a", toks[0].Literal.String)
	assert.Equal(t, "c", toks[2].Literal.String)
	assert.Equal(t, "e", toks[4].Literal.String)
}

func TestTemplateLiteralWithObjectLiteralInHole(t *testing.T) {
	t.Parallel()
	// The `}` closing the object literal must not be mistaken for the
	// template hole's closing brace.
	toks, err := lexer.Tokenize("`x${ {a:1}.a }y`")
	require.NoError(t, err)
	got := kinds(t, toks)
	assert.Equal(t, []token.Kind{
		token.TEMPLATE_HEAD, token.LBRACE, token.IDENT, token.COLON, token.NUMBER,
		token.RBRACE, token.DOT, token.IDENT, token.TEMPLATE_TAIL, token.EOF,
	}, got)
}

func TestNestedTemplateLiterals(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("`a${`b${c}d`}e`")
	require.NoError(t, err)
	got := kinds(t, toks)
	assert.Equal(t, []token.Kind{
		token.TEMPLATE_HEAD, // `a${
		token.TEMPLATE_HEAD, // `b${
		token.IDENT,         // c
		token.TEMPLATE_TAIL, // d`
		token.TEMPLATE_TAIL, // e`
		token.EOF,
	}, got)
}

func TestIdentifierWithUnicodeEscape(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("a\\u0062c")
	require.NoError(t, err)
	assert.Equal(t, token.IDENT, toks[0].Kind)
	assert.Equal(t, "abc", toks[0].Literal.String)
	assert.True(t, toks[0].HasUnicodeEscape)
}

func TestEscapedKeywordIsNotAKeyword(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("i\\u0066 (1) {}")
	require.NoError(t, err)
	// "if" with an escaped 'f' must lex as an identifier, not the IF keyword.
	assert.Equal(t, token.IDENT, toks[0].Kind)
}

func TestPrivateName(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("this.#x")
	require.NoError(t, err)
	assert.Equal(t, token.PRIVATE_NAME, toks[2].Kind)
	assert.Equal(t, "#x", toks[2].Lexeme)
}

func TestASINewlineTracking(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("a\nb")
	require.NoError(t, err)
	assert.False(t, toks[0].NewlineBefore)
	assert.True(t, toks[1].NewlineBefore)
}

func TestLineCommentAndBlockComment(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("1 // comment\n/* block\ncomment */ 2")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(t, toks))
	assert.True(t, toks[1].NewlineBefore)
}

func TestHTMLLikeComments(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("<!-- comment\n1\n--> also a comment\n2")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(t, toks))
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	t.Parallel()
	_, err := lexer.Tokenize(`"unterminated`)
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
}

func TestStringEscapeSequences(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize(`"a\nb\tcA"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tcA", toks[0].Literal.String)
}

func TestTokenPositionsAreWellFormed(t *testing.T) {
	t.Parallel()
	toks, err := lexer.Tokenize("let x = 1;\nlet y = 2;")
	require.NoError(t, err)
	for _, tok := range toks {
		assert.GreaterOrEqual(t, tok.Start.Line, 1)
		assert.GreaterOrEqual(t, tok.Start.Column, 1)
		assert.LessOrEqual(t, tok.Start.Offset, tok.End.Offset)
	}
}

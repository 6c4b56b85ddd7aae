package token_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub006/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordLookup(t *testing.T) {
	t.Parallel()
	kind, ok := token.Keywords["function"]
	require.True(t, ok)
	assert.Equal(t, token.FUNCTION, kind)
	assert.True(t, kind.IsKeyword())
}

func TestContextualKeywordsAreNotReserved(t *testing.T) {
	t.Parallel()
	assert.True(t, token.ContextualKeywords["async"])
	_, isReserved := token.Keywords["async"]
	assert.False(t, isReserved)
}

func TestRegexAllowedAfter(t *testing.T) {
	t.Parallel()
	assert.True(t, token.ASSIGN.RegexAllowedAfter())
	assert.True(t, token.RETURN.RegexAllowedAfter())
	assert.False(t, token.IDENT.RegexAllowedAfter())
	assert.False(t, token.RPAREN.RegexAllowedAfter())
	assert.False(t, token.NUMBER.RegexAllowedAfter())
}

func TestTokenString(t *testing.T) {
	t.Parallel()
	tok := token.Token{Kind: token.IDENT, Lexeme: "foo", Start: token.Pos{Line: 1, Column: 1}}
	assert.Contains(t, tok.String(), "foo")
	assert.Equal(t, "EOF", token.Token{Kind: token.EOF}.String())
}

func TestPosString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "3:7", token.Pos{Line: 3, Column: 7}.String())
}

package parser

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// Error is a SyntaxError raised during parsing, either from the
// underlying lexer or from a grammar/Early Error violation.
type Error struct {
	Msg string
	At  token.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("SyntaxError: %s (%s)", e.Msg, e.At)
}

func newError(at token.Pos, format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), At: at}
}

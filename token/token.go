// Package token defines the lexical token kinds and the Token value
// produced by the lexer and consumed by the parser.
package token

import "fmt"

// Kind enumerates every distinct lexical category the lexer can emit.
// Comments never surface as tokens; ASI is modeled on Token.NewlineBefore
// rather than as a synthetic kind.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT // foo
	PRIVATE_NAME // #foo
	NUMBER // 3.14
	BIGINT // 3n
	STRING // "foo"
	REGEXP // /foo/gi

	// Template literal fragments. NoSubstitutionTemplate is a whole
	// `...` with no interpolation; Head/Middle/Tail bracket `${ }` holes:
	// `a${... }b${... }c` => Head("a")... Middle("b")... Tail("c")
	TEMPLATE_NO_SUB
	TEMPLATE_HEAD
	TEMPLATE_MIDDLE
	TEMPLATE_TAIL

	// Contextual keywords (the lexer scans these words as IDENT, or as a
	// keyword for await/yield; the parser recognizes them by spelling)
	ASYNC
	AWAIT_CONTEXTUAL // "await" used contextually outside async function
	YIELD_CONTEXTUAL
	STATIC
	GET
	SET
	OF
	FROM
	AS
	LET
	TARGET // the "target" in new.target
	META // the "meta" in import.meta

	// Keywords (ECMA-262 ReservedWord)
	keywordBeg
	BREAK
	CASE
	CATCH
	CLASS
	CONST
	CONTINUE
	DEBUGGER
	DEFAULT
	DELETE
	DO
	ELSE
	EXPORT
	EXTENDS
	FINALLY
	FOR
	FUNCTION
	IF
	IMPORT
	IN
	INSTANCEOF
	NEW
	RETURN
	SUPER
	SWITCH
	THIS
	THROW
	TRY
	TYPEOF
	VAR
	VOID
	WHILE
	WITH
	NULL
	TRUE
	FALSE
	YIELD
	AWAIT
	// Strict-mode reserved
	IMPLEMENTS
	INTERFACE
	PACKAGE
	PRIVATE
	PROTECTED
	PUBLIC
	keywordEnd

	// Punctuators
	punctBeg
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )
	LBRACKET // [
	RBRACKET // ]
	DOT //.
	DOT_DOT_DOT //...
	SEMICOLON //;
	COMMA //,
	LT // <
	GT // >
	LE // <=
	GE // >=
	EQ // ==
	NE // !=
	SEQ // ===
	SNE // !==
	PLUS // +
	MINUS // -
	STAR // *
	PERCENT // %
	STAR_STAR // **
	PLUS_PLUS // ++
	MINUS_MINUS
	SHL // <<
	SHR // >>
	USHR // >>>
	AMP // &
	PIPE // |
	CARET // ^
	NOT // !
	TILDE // ~
	AND_AND // &&
	OR_OR // ||
	QUESTION // ?
	QUESTION_QUESTION // ??
	QUESTION_DOT // ?.
	COLON //:
	ASSIGN // =
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	STAR_STAR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	USHR_ASSIGN
	AMP_ASSIGN
	PIPE_ASSIGN
	CARET_ASSIGN
	AND_AND_ASSIGN
	OR_OR_ASSIGN
	QUESTION_QUESTION_ASSIGN
	ARROW // =>
	SLASH // /
	HASH // # (leading a private name, handled specially)
	AT // @ (decorators, tokenized but unused by the parser)
	punctEnd
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", PRIVATE_NAME: "PRIVATE_NAME", NUMBER: "NUMBER", BIGINT: "BIGINT",
	STRING: "STRING", REGEXP: "REGEXP",
	TEMPLATE_NO_SUB: "TEMPLATE_NO_SUB", TEMPLATE_HEAD: "TEMPLATE_HEAD",
	TEMPLATE_MIDDLE: "TEMPLATE_MIDDLE", TEMPLATE_TAIL: "TEMPLATE_TAIL",
	ASYNC: "async", STATIC: "static", GET: "get", SET: "set", OF: "of", FROM: "from",
	AS: "as", LET: "let", TARGET: "target", META: "meta",
	BREAK: "break", CASE: "case", CATCH: "catch", CLASS: "class", CONST: "const",
	CONTINUE: "continue", DEBUGGER: "debugger", DEFAULT: "default", DELETE: "delete",
	DO: "do", ELSE: "else", EXPORT: "export", EXTENDS: "extends", FINALLY: "finally",
	FOR: "for", FUNCTION: "function", IF: "if", IMPORT: "import", IN: "in",
	INSTANCEOF: "instanceof", NEW: "new", RETURN: "return", SUPER: "super",
	SWITCH: "switch", THIS: "this", THROW: "throw", TRY: "try", TYPEOF: "typeof",
	VAR: "var", VOID: "void", WHILE: "while", WITH: "with", NULL: "null",
	TRUE: "true", FALSE: "false", YIELD: "yield", AWAIT: "await",
	IMPLEMENTS: "implements", INTERFACE: "interface", PACKAGE: "package",
	PRIVATE: "private", PROTECTED: "protected", PUBLIC: "public",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	DOT: ".", DOT_DOT_DOT: "...", SEMICOLON: ";", COMMA: ",",
	LT: "<", GT: ">", LE: "<=", GE: ">=", EQ: "==", NE: "!=", SEQ: "===", SNE: "!==",
	PLUS: "+", MINUS: "-", STAR: "*", PERCENT: "%", STAR_STAR: "**",
	PLUS_PLUS: "++", MINUS_MINUS: "--", SHL: "<<", SHR: ">>", USHR: ">>>",
	AMP: "&", PIPE: "|", CARET: "^", NOT: "!", TILDE: "~",
	AND_AND: "&&", OR_OR: "||", QUESTION: "?", QUESTION_QUESTION: "??",
	QUESTION_DOT: "?.", COLON: ":", ASSIGN: "=",
	PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	PERCENT_ASSIGN: "%=", STAR_STAR_ASSIGN: "**=", SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=",
	USHR_ASSIGN: ">>>=", AMP_ASSIGN: "&=", PIPE_ASSIGN: "|=", CARET_ASSIGN: "^=",
	AND_AND_ASSIGN: "&&=", OR_OR_ASSIGN: "||=", QUESTION_QUESTION_ASSIGN: "??=",
	ARROW: "=>", SLASH: "/", HASH: "#", AT: "@",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word (not a contextual one).
func (k Kind) IsKeyword() bool { return k > keywordBeg && k < keywordEnd }

// IsPunctuator reports whether k is a punctuator.
func (k Kind) IsPunctuator() bool { return k > punctBeg && k < punctEnd }

// Keywords maps the textual spelling of every reserved word to its Kind,
// used by the lexer once an identifier has been scanned.
var Keywords = map[string]Kind{
	"break": BREAK, "case": CASE, "catch": CATCH, "class": CLASS, "const": CONST,
	"continue": CONTINUE, "debugger": DEBUGGER, "default": DEFAULT, "delete": DELETE,
	"do": DO, "else": ELSE, "export": EXPORT, "extends": EXTENDS, "finally": FINALLY,
	"for": FOR, "function": FUNCTION, "if": IF, "import": IMPORT, "in": IN,
	"instanceof": INSTANCEOF, "new": NEW, "return": RETURN, "super": SUPER,
	"switch": SWITCH, "this": THIS, "throw": THROW, "try": TRY, "typeof": TYPEOF,
	"var": VAR, "void": VOID, "while": WHILE, "with": WITH, "null": NULL,
	"true": TRUE, "false": FALSE, "yield": YIELD, "await": AWAIT,
	"implements": IMPLEMENTS, "interface": INTERFACE, "package": PACKAGE,
	"private": PRIVATE, "protected": PROTECTED, "public": PUBLIC,
}

// ContextualKeywords are identifier-shaped tokens that keep IDENT kind but
// are recognized by spelling at parse sites that require them.
var ContextualKeywords = map[string]bool{
	"async": true, "static": true, "get": true, "set": true, "of": true,
	"from": true, "as": true, "let": true,
}

// Pos is a 1-based line/column source position.
type Pos struct {
	Line int
	Column int
	Offset int // byte offset
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// LiteralValue is the decoded payload of a literal token. Exactly one
// field is meaningful, selected by the owning Token's Kind.
type LiteralValue struct {
	Number float64
	BigInt string // decimal digits, sign-free; arbitrary precision kept as text
	String string // decoded string/template-quasi content
	Raw string // raw source text between quote/backtick delimiters
	IsOctal bool // legacy octal numeric literal (NUMBER kind only)
}

// Token is a single lexical unit together with its exact source span.
type Token struct {
	Kind Kind
	Lexeme string // exact source substring [Start, End)
	Literal LiteralValue
	Start Pos
	End Pos

	// HasUnicodeEscape is true if the lexeme contained a \uXXXX / \u{...}
	// escape the lexer decoded — used by Early Error checks that forbid
	// escaped reserved words in certain positions.
	HasUnicodeEscape bool

	// NewlineBefore is true if at least one line terminator appeared in
	// the trivia preceding this token; it drives ASI.
	NewlineBefore bool
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Start)
}

// RegexAllowedAfter reports whether a '/' immediately following a token of
// this kind begins a regular-expression literal rather than a division
// operator.
func (k Kind) RegexAllowedAfter() bool {
	switch k {
	case IDENT, NUMBER, BIGINT, STRING, REGEXP, PRIVATE_NAME,
		TEMPLATE_NO_SUB, TEMPLATE_TAIL,
		RPAREN, RBRACKET, RBRACE,
		THIS, SUPER, NULL, TRUE, FALSE,
		PLUS_PLUS, MINUS_MINUS:
		return false
	}
	return true
}

// Package jserror defines the typed host-visible error taxonomy: lex/
// parse errors always surface as SyntaxError, runtime faults carry the
// ECMAScript error class that produced them, and a user `throw` of an
// arbitrary value is reified without losing that value.
//
// The shape mirrors how go.k6.io/k6's errext package tags a plain error
// with an additional, narrowly-scoped interface (HasHint, HasExitCode)
// instead of growing a single monolithic error struct; here the added
// facets are Kind (the ECMAScript error class) and a CallStack.
package jserror

import (
	"fmt"
	"strings"
)

// Kind is the closed taxonomy of error classes a script or the evaluator
// can raise. Kind is compared structurally — never by substring match
// against a formatted message.
type Kind int

const (
	// SyntaxErrorKind covers lex errors and parser Early Errors; these
	// never reach the evaluator, they escape the parse entry point.
	SyntaxErrorKind Kind = iota
	TypeErrorKind
	ReferenceErrorKind
	RangeErrorKind
	URIErrorKind
	// UserThrowKind wraps an arbitrary thrown script value that is not
	// itself one of the built-in error classes.
	UserThrowKind
	// HostExceptionKind reifies a Go panic/error escaping a sendMessage
	// handler into a JS-visible throw.
	HostExceptionKind
)

func (k Kind) String() string {
	switch k {
	case SyntaxErrorKind:
		return "SyntaxError"
	case TypeErrorKind:
		return "TypeError"
	case ReferenceErrorKind:
		return "ReferenceError"
	case RangeErrorKind:
		return "RangeError"
	case URIErrorKind:
		return "URIError"
	case UserThrowKind:
		return "UserThrow"
	case HostExceptionKind:
		return "HostException"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Position is a lightweight copy of token.Pos so this package does not
// need to import the lexer/parser stack.
type Position struct {
	Line, Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// StackFrame is one activation record, pushed by the call protocol in
// internal/vm and popped on return/throw: a stack trace is a sequence
// of activation frames.
type StackFrame struct {
	FunctionName string
	Pos Position
	// Source is the module/script identifier the frame's call site lives
	// in, used by Resolve to pick the right source map.
	Source string
}

func (f StackFrame) String() string {
	name := f.FunctionName
	if name == "" {
		name = "<anonymous>"
	}
	if f.Source != "" {
		return fmt.Sprintf(" at %s (%s:%s)", name, f.Source, f.Pos)
	}
	return fmt.Sprintf(" at %s (%s)", name, f.Pos)
}

// CallStack is an ordered sequence of activation frames, innermost first.
type CallStack []StackFrame

// Format renders the stack the way Error.prototype.stack does: one frame
// per line, innermost call first.
func (cs CallStack) Format() string {
	if len(cs) == 0 {
		return ""
	}
	lines := make([]string, len(cs))
	for i, f := range cs {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

// ResolvedFrame pairs a StackFrame with the original position and source
// that a source map maps it to; StackFrame itself stores only the
// generated position.
type ResolvedFrame struct {
	StackFrame
	OriginalLine, OriginalColumn int
	OriginalSource string
}

// ScriptValue is the minimal surface jserror needs from internal/value
// without importing it (which would create an import cycle, since value
// constructs JSError instances for TypeError/RangeError etc).
type ScriptValue interface {
	// DisplayString renders the value the way it would print in an
	// uncaught-exception banner.
	DisplayString() string
}

// JSError is the error type every throw completion carries once it
// crosses a Go function boundary: internal/vm uses Completion records
// for in-language propagation, and JSError is for the handful of places
// — eval/evalAsync return, panics recovered at the call-protocol
// boundary — that need a Go error value instead.
type JSError struct {
	Kind Kind
	Message string
	// Value is the thrown script value (an Error object instance for the
	// built-in classes, or any arbitrary script value for UserThrowKind).
	Value ScriptValue
	Pos Position
	Stack CallStack
	// wrapped is set when JSError reifies a Go error (HostExceptionKind).
	wrapped error
}

func (e *JSError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Pos != (Position{}) {
		fmt.Fprintf(&b, " (%s)", e.Pos)
	}
	return b.String()
}

func (e *JSError) Unwrap() error { return e.wrapped }

// StackTrace implements the same informal interface as k6's errext
// fakeException/StackTrace facet: a multi-line, human-oriented rendering
// used by CLI error printing.
func (e *JSError) StackTrace() string {
	if len(e.Stack) == 0 {
		return e.Error()
	}
	return e.Error() + "\n" + e.Stack.Format()
}

// New constructs a JSError of the given kind with a formatted message.
func New(kind Kind, pos Position, format string, args...any) *JSError {
	return &JSError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Syntax is the constructor every lex/parse Early Error failure uses;
// it never carries a call stack since it never reaches the evaluator.
func Syntax(pos Position, format string, args...any) *JSError {
	return New(SyntaxErrorKind, pos, format, args...)
}

func TypeErr(pos Position, format string, args...any) *JSError {
	return New(TypeErrorKind, pos, format, args...)
}

func ReferenceErr(pos Position, format string, args...any) *JSError {
	return New(ReferenceErrorKind, pos, format, args...)
}

func RangeErr(pos Position, format string, args...any) *JSError {
	return New(RangeErrorKind, pos, format, args...)
}

func URIErr(pos Position, format string, args...any) *JSError {
	return New(URIErrorKind, pos, format, args...)
}

// Thrown wraps an arbitrary script value thrown by `throw expr;`.
func Thrown(v ScriptValue, pos Position) *JSError {
	msg := ""
	if v != nil {
		msg = v.DisplayString()
	}
	return &JSError{Kind: UserThrowKind, Message: msg, Value: v, Pos: pos}
}

// FromHostPanic reifies a panic/error escaping a sendMessage handler
// into a script-visible throw.
func FromHostPanic(r any) *JSError {
	var wrapped error
	msg := fmt.Sprint(r)
	if err, ok := r.(error); ok {
		wrapped = err
		msg = err.Error()
	}
	return &JSError{Kind: HostExceptionKind, Message: msg, wrapped: wrapped}
}

// WithStack attaches a call stack snapshot, innermost-first, matching it
// to the order internal/vm's call protocol maintains its frame slice.
func (e *JSError) WithStack(stack CallStack) *JSError {
	e.Stack = stack
	return e
}

// IsKind reports whether err is a *JSError of the given kind, unwrapping
// through fmt.Errorf %w wrapping the way errors.As would.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if je, ok := err.(*JSError); ok {
			return je.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

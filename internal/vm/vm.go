// Package vm is the evaluator substrate: it implements the visitor over
// ast's closed node family as an exhaustive type switch, replacing a
// virtual-dispatch visitor hierarchy with exhaustive pattern-matching,
// and propagates Completion records rather than host-language
// exceptions for in-language control flow. Only the handful of
// boundaries that must hand a Go error to an embedder -
// Interpreter.Eval's return, a sendMessage handler's panic - convert a
// throw Completion into a *jserror.JSError.
package vm

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/internal/bus"
	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/eventloop"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/module"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// CompletionKind is the closed completion-type enumeration: normal,
// break, continue, return, or throw.
type CompletionKind int

const (
	CompNormal CompletionKind = iota
	CompBreak
	CompContinue
	CompReturn
	CompThrow
)

// Completion is the tagged result of evaluating a statement or
// expression. Expression evaluation produces CompNormal (the
// expression's value) or CompThrow, plus CompReturn when a yield resumed
// by .return() ends a generator body; statement evaluation uses the full
// set.
type Completion struct {
	Kind CompletionKind
	Value value.Value
	Label string // target label for Break/Continue; "" means unlabeled

	// Tail is set on a CompReturn completion produced by a strict-mode
	// `return direct(...)` statement in tail position (statements.go's
	// tailCallEligible/evalTailCall): it carries the resolved callee/
	// this/arguments without having invoked them yet, so CallFunction's
	// trampoline can splice in the callee's activation in place of the
	// current one instead of recursing. Nil everywhere else.
	Tail *tailCall
}

// tailCall is the resolved-but-not-yet-invoked call a tail-position
// return statement hands back to CallFunction.
type tailCall struct {
	Fn *value.Object
	This value.Value
	Args []value.Value
}

func normalC(v value.Value) Completion { return Completion{Kind: CompNormal, Value: v} }
func throwC(v value.Value) Completion { return Completion{Kind: CompThrow, Value: v} }
func returnC(v value.Value) Completion { return Completion{Kind: CompReturn, Value: v} }
func breakC(label string) Completion { return Completion{Kind: CompBreak, Label: label} }
func continueC(label string) Completion { return Completion{Kind: CompContinue, Label: label} }

func isAbrupt(c Completion) bool { return c.Kind != CompNormal }

// maxCallDepth guards against unbounded recursion; exceeding it raises a
// RangeError.
const maxCallDepth = 2000

// Realm bundles the intrinsic prototypes/constructors the runtime
// substrate needs as addressable values: a minimal global object and a
// handful of constructor stubs, provided only insofar as the runtime
// substrate requires them.
type Realm struct {
	ObjectProto, FunctionProto, ArrayProto *value.Object
	ErrorProto *value.Object
	ErrorProtos map[string]*value.Object // TypeError, RangeError,...
	ErrorCtors map[string]*value.Object
	BooleanProto, NumberProto, StringProto, SymbolProto *value.Object
	BigIntProto, PromiseProto, RegExpProto *value.Object
	MapProto, SetProto, GeneratorProto, AsyncGeneratorProto *value.Object
	WeakMapProto, WeakSetProto *value.Object
	GlobalObject *value.Object
}

// Interpreter is the host-facing-adjacent evaluator handle: it owns the
// global environment, module registry, microtask queue and message bus
// for one embeddable instance. Multiple interpreters are independent
// and may coexist.
type Interpreter struct {
	ID uuid.UUID
	Global *environment.Environment
	Realm *Realm
	Loop *eventloop.Queue
	Modules *module.Registry
	Bus *bus.Bus
	Logger logrus.FieldLogger

	callStack jserror.CallStack
	callDepth int

	// currentSource names the module/script id the currently-executing
	// frame belongs to, used to tag new StackFrames.
	currentSource string

	// classFrames tracks the instance under construction for each
	// nested class-constructor call currently on the Go call stack, so
	// a `super(...)` call and instance-field initializers can find the
	// object being built.
	classFrames []*classFrame

	// coroutines tracks the generator/async-function coroutine
	// currently running on this goroutine chain, so `yield`/`await`
	// inside a deeply-nested call can find the channel pair that
	// suspends it back to its driver (internal/vm/generator.go,
	// internal/vm/async.go).
	coroutines []*coroutine

	// currentModule is set while evaluating a module body, so
	// import.meta and dynamic import resolve relative to it.
	currentModule *module.Module

	// Strictness is not tracked on the Interpreter; it is carried by
	// ast.Program.IsStrict / ast.FunctionLiteral.IsStrict, decided at
	// parse time.
}

// New constructs an Interpreter with a fresh global environment and
// realm. logger may be nil (a discarding logger is installed, matching
// go.k6.io/k6's always-non-nil logrus.FieldLogger convention).
func New(logger logrus.FieldLogger) *Interpreter {
	if logger == nil {
		l := logrus.New()
		l.Out = discardWriter{}
		logger = l
	}
	in := &Interpreter{
		ID: uuid.New(),
		Loop: eventloop.New(logger),
		Modules: module.NewRegistry(),
		Bus: bus.New(),
		Logger: logger,
	}
	in.Realm = newRealm()
	in.Global = environment.New(nil)
	in.Global.HasThis = true
	in.Global.ThisVal = value.Undefined
	installGlobals(in)
	in.Modules.SetEvaluator(in.evaluateModuleBody)
	return in
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func posOf(n ast.Node) jserror.Position {
	p := n.Pos()
	return jserror.Position{Line: p.Line, Column: p.Column}
}

func tokPos(p token.Pos) jserror.Position {
	return jserror.Position{Line: p.Line, Column: p.Column}
}

// pushFrame/popFrame maintain the activation stack for stack traces and
// enforce maxCallDepth: a stack trace is a sequence of activation
// frames maintained across calls.
func (in *Interpreter) pushFrame(name string, pos jserror.Position) error {
	in.callDepth++
	if in.callDepth > maxCallDepth {
		in.callDepth--
		return fmt.Errorf("call depth exceeded")
	}
	in.callStack = append(in.callStack, jserror.StackFrame{FunctionName: name, Pos: pos, Source: in.currentSource})
	return nil
}

func (in *Interpreter) popFrame() {
	if len(in.callStack) > 0 {
		in.callStack = in.callStack[:len(in.callStack)-1]
	}
	in.callDepth--
}

func (in *Interpreter) snapshotStack() jserror.CallStack {
	cp := make(jserror.CallStack, len(in.callStack))
	copy(cp, in.callStack)
	return cp
}

// throwTypeError/throwRangeError/... build an Error instance of the
// named built-in class and wrap it as a CompThrow completion, attaching
// the live call stack.
func (in *Interpreter) throwError(class, msg string, pos jserror.Position) Completion {
	obj := in.newErrorObject(class, msg)
	_ = pos
	return throwC(obj)
}

func (in *Interpreter) throwTypeError(format string, args...any) Completion {
	return in.throwError("TypeError", fmt.Sprintf(format, args...), jserror.Position{})
}

func (in *Interpreter) throwRangeError(format string, args...any) Completion {
	return in.throwError("RangeError", fmt.Sprintf(format, args...), jserror.Position{})
}

func (in *Interpreter) throwReferenceError(format string, args...any) Completion {
	return in.throwError("ReferenceError", fmt.Sprintf(format, args...), jserror.Position{})
}

func (in *Interpreter) throwSyntaxError(format string, args...any) Completion {
	return in.throwError("SyntaxError", fmt.Sprintf(format, args...), jserror.Position{})
}

// toThrowCompletion converts a conversion-layer error (value.ConversionError)
// or a jserror.JSError escaping a sub-call into the matching Completion.
func (in *Interpreter) toThrowCompletion(err error) Completion {
	if je, ok := err.(*jserror.JSError); ok {
		if je.Value != nil {
			if v, ok := je.Value.(value.Value); ok {
				return throwC(v)
			}
		}
		return in.throwError(je.Kind.String(), je.Message, je.Pos)
	}
	return in.throwTypeError("%s", err.Error())
}

// call is the shape injected into internal/value's conversion helpers so
// they can invoke valueOf/toString/Symbol.toPrimitive without an import
// cycle.
func (in *Interpreter) call(fn *value.Object, this value.Value, args []value.Value) (value.Value, error) {
	v, c := in.CallFunction(fn, this, args, nil)
	if c.Kind == CompThrow {
		return nil, &jserror.JSError{Kind: jserror.TypeErrorKind, Message: displayOf(c.Value), Value: scriptValueAdapter{c.Value}}
	}
	return v, nil
}

// scriptValueAdapter lets a value.Value satisfy jserror.ScriptValue.
type scriptValueAdapter struct{ v value.Value }

func (a scriptValueAdapter) DisplayString() string { return displayOf(a.v) }

func displayOf(v value.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.DisplayString()
}

// EvalProgram runs a parsed script-mode Program to completion, draining
// the microtask queue before returning: a synchronous host-visible
// top-level call (eval) drains microtasks before returning.
func (in *Interpreter) EvalProgram(prog *ast.Program) (value.Value, error) {
	env := in.Global
	in.hoistProgram(prog, env)
	var last value.Value = value.Undefined
	for _, stmt := range prog.Body {
		c := in.execStatement(stmt, env)
		switch c.Kind {
		case CompThrow:
			in.Loop.Drain()
			return nil, in.completionToError(c)
		case CompNormal:
			if c.Value != nil {
				last = c.Value
			}
		}
	}
	in.Loop.Drain()
	return last, nil
}

func (in *Interpreter) completionToError(c Completion) error {
	stack := in.snapshotStack()
	v := c.Value
	if obj, ok := v.(*value.Object); ok && obj.Kind == value.KindError && obj.Error != nil {
		return (&jserror.JSError{
			Kind: classToKind(obj.Error.Name),
			Message: obj.Error.Message,
			Value: scriptValueAdapter{v},
		}).WithStack(stack)
	}
	return (&jserror.JSError{
		Kind: jserror.UserThrowKind,
		Message: displayOf(v),
		Value: scriptValueAdapter{v},
	}).WithStack(stack)
}

// thrownValueAsError adapts a thrown script value into the *jserror.JSError
// shape a native-function boundary (generator/async driver, host call) must
// return, mirroring completionToError's Error-object unwrapping.
func (in *Interpreter) thrownValueAsError(v value.Value) error {
	if obj, ok := v.(*value.Object); ok && obj.Kind == value.KindError && obj.Error != nil {
		return &jserror.JSError{Kind: classToKind(obj.Error.Name), Message: obj.Error.Message, Value: scriptValueAdapter{v}}
	}
	return &jserror.JSError{Kind: jserror.UserThrowKind, Message: displayOf(v), Value: scriptValueAdapter{v}}
}

func classToKind(class string) jserror.Kind {
	switch class {
	case "TypeError":
		return jserror.TypeErrorKind
	case "ReferenceError":
		return jserror.ReferenceErrorKind
	case "RangeError":
		return jserror.RangeErrorKind
	case "URIError":
		return jserror.URIErrorKind
	case "SyntaxError":
		return jserror.SyntaxErrorKind
	default:
		return jserror.UserThrowKind
	}
}

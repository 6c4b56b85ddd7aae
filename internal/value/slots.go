package value

// FunctionKind distinguishes the calling convention/capability of a
// function object: ordinary, arrow, async, generator, async generator,
// native, or bound.
type FunctionKind int

const (
	FuncOrdinary FunctionKind = iota
	FuncArrow
	FuncAsync
	FuncGenerator
	FuncAsyncGenerator
	FuncNative
	FuncBound
	FuncClassConstructor
)

// NativeFunc is the calling convention for a host/built-in function; it
// receives `this` and the evaluated argument list and returns a result
// or an error (always a *jserror.JSError in practice, kept as `error`
// here to avoid an import cycle).
type NativeFunc func(this Value, args []Value) (Value, error)

// FunctionData is the Function internal slot. The Node/Closure fields
// hold `any` (ast.*FunctionLiteral / *environment.Environment) rather
// than a concrete type to avoid value<->ast<->environment import cycles;
// internal/vm type-asserts them back at call time.
type FunctionData struct {
	Kind FunctionKind
	Name string
	// Node is the *ast.FunctionLiteral this closure was created from;
	// nil for FuncNative/FuncBound.
	Node any
	// Closure is the *environment.Environment captured at creation time.
	Closure any
	// Native is the host implementation for FuncNative.
	Native NativeFunc
	// BoundTarget/BoundThis/BoundArgs implement Function.prototype.bind.
	BoundTarget *Object
	BoundThis Value
	BoundArgs []Value
	// HomeObject supports `super` method lookup inside object/class
	// methods (it is the object literal or class prototype the method
	// was defined on).
	HomeObject *Object
	// Lexical distinguishes lexical-this (arrows) from own-this.
	Lexical bool
	Length int
	// OwnerClass is non-nil for a class constructor function (Kind ==
	// FuncClassConstructor), linking back to the instance-field/super
	// schema the construction protocol needs.
	OwnerClass *ClassData
}

// ClassData is the Class internal slot: the constructor link plus the
// private-field name schema allocated at class-definition time so every
// instance gets the same *Symbol identities for #name fields; a private
// field is inaccessible outside the class body that declared it.
type ClassData struct {
	Name string
	Constructor *Object // function object, Kind==FuncClassConstructor
	SuperClass *Object // nil for a base class
	PrivateNames map[string]*Symbol
	InstanceFields []FieldInit
	StaticBlocks []any // []*ast.ClassMember static blocks, run at definition time
	IsDerived bool
	// Closure is the *environment.Environment the class body was
	// evaluated in, closed over by static-block bodies.
	Closure any
	// InstanceProto is this class's own prototype object (cd.Constructor's
	// "prototype" property value), needed to wire `super.x` lexically
	// inside instance field initializers the same way methods get it via
	// FunctionData.HomeObject.
	InstanceProto *Object
}

// FieldInit is one instance-field initializer, run during construction
// before user constructor code (after super in derived classes).
type FieldInit struct {
	Key PropertyKey
	IsPriv bool
	PrivName *Symbol
	Node any // ast.Expression initializer, nil for no-initializer fields
	Closure any // environment.Environment the initializer closes over
	// Precomputed, when non-nil, is used instead of evaluating Node: the
	// shared method/accessor-function value a private method/getter/
	// setter declaration installs into every instance's PrivateFields;
	// methods need not be re-evaluated per instance since
	// FunctionData.Closure already captures `this` dynamically through
	// the ordinary call protocol.
	Precomputed Value
}

// PrivateAccessor pairs a private getter/setter sharing one #name, the
// private counterpart of an accessor PropertyDescriptor; stored directly
// as a PrivateFields value since private names have no descriptor table.
type PrivateAccessor struct {
	Get, Set *Object
}

func (*PrivateAccessor) TypeOf() string { return "undefined" }
func (*PrivateAccessor) DisplayString() string { return "undefined" }

// PromiseState is pending/fulfilled/rejected.
type PromiseState int

const (
	Pending PromiseState = iota
	Fulfilled
	Rejected
)

// PromiseReaction is one registered `then` continuation.
type PromiseReaction struct {
	OnFulfilled *Object // nil if absent
	OnRejected *Object
	// Resolve/Reject settle the derived promise this reaction belongs to.
	Resolve func(Value)
	Reject func(Value)
}

// PromiseData is the Promise internal slot: invariant "a promise never
// transitions out of a settled state" is enforced by the vm package's
// resolve/reject functions checking State before mutating.
type PromiseData struct {
	State PromiseState
	Result Value
	Reactions []PromiseReaction
	// AlreadyResolved latches true the instant resolve/reject is first
	// invoked, guarding against a later call through a stale capability.
	AlreadyResolved bool
	// HandledRejection tracks whether a rejection has ever had a
	// rejection handler attached, for diagnostics of unhandled rejects.
	HandledRejection bool
}

// RegexData is the Regex internal slot; Compiled is a *regexp2.Regexp
// kept as `any` here to avoid this package depending on dlclark/regexp2
// directly (the lexer/vm import it and store the compiled form here).
type RegexData struct {
	Source string
	Flags string
	Compiled any
	LastIndex int
}

// ErrorData is the Error internal slot.
type ErrorData struct {
	Name string
	Message string
	// Stack is a pre-rendered jserror.CallStack.Format string, attached
	// when the Error object is constructed so `.stack` reads work without
	// reaching back into the vm's live call stack.
	Stack string
}

// mapEntry preserves insertion order, required by Map/Set iteration
// order guarantees.
type mapEntry struct {
	key, val Value
	deleted bool
}

// OrderedMap backs both Map (key+value) and Set (key only, val==key);
// SameValueZero is used for key comparison.
type OrderedMap struct {
	entries []mapEntry
	index map[any]int // keyed by a hashable projection of SameValueZero-equal keys
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[any]int)}
}

func (m *OrderedMap) hashKey(v Value) any {
	switch k := v.(type) {
	case Number:
		f := float64(k)
		if f != f { // NaN: SameValueZero treats all NaNs as one key
			return "NaN"
		}
		return f
	case String:
		return "s:" + string(k)
	case Boolean:
		return k
	case BigInt:
		if k.V != nil {
			return "b:" + k.V.String()
		}
		return "b:0"
	case undefinedType:
		return "undefined"
	case nullType:
		return "null"
	default:
		return v // *Object, *Symbol compare by pointer identity
	}
}

func (m *OrderedMap) Get(key Value) (Value, bool) {
	idx, ok := m.index[m.hashKey(key)]
	if !ok || m.entries[idx].deleted {
		return nil, false
	}
	return m.entries[idx].val, true
}

func (m *OrderedMap) Set(key, val Value) {
	h := m.hashKey(key)
	if idx, ok := m.index[h]; ok && !m.entries[idx].deleted {
		m.entries[idx].val = val
		return
	}
	m.index[h] = len(m.entries)
	m.entries = append(m.entries, mapEntry{key: key, val: val})
}

func (m *OrderedMap) Delete(key Value) bool {
	h := m.hashKey(key)
	idx, ok := m.index[h]
	if !ok || m.entries[idx].deleted {
		return false
	}
	m.entries[idx].deleted = true
	delete(m.index, h)
	return true
}

func (m *OrderedMap) Has(key Value) bool {
	_, ok := m.Get(key)
	return ok
}

func (m *OrderedMap) Size() int {
	n := 0
	for _, e := range m.entries {
		if !e.deleted {
			n++
		}
	}
	return n
}

// Entries yields live entries in insertion order.
func (m *OrderedMap) Entries() [][2]Value {
	out := make([][2]Value, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.deleted {
			out = append(out, [2]Value{e.key, e.val})
		}
	}
	return out
}

func (m *OrderedMap) Clear() {
	m.entries = nil
	m.index = make(map[any]int)
}

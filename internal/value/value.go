// Package value implements the tagged ECMAScript value lattice: the
// primitive variants, the shared heap Object shape specialized by kind,
// property descriptors, and the abstract-operation conversions the
// evaluator drives (ToPrimitive, ToNumber, ToString, ...).
//
// The shape follows a Value-interface-plus-concrete-struct idiom (Value
// is a small interface implemented by one struct per variant) rather
// than a single giant tagged struct, so a type switch gives the
// compiler exhaustiveness help the way ast.Node's closed family does.
package value

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Value is implemented by every runtime value variant in the lattice.
type Value interface {
	// TypeOf returns the ECMAScript `typeof` result string.
	TypeOf() string
	// DisplayString renders the value for console/error-message display;
	// it is distinct from ToString (String), which is itself a
	// conversion some variants reject (Symbol).
	DisplayString() string
}

// ---------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------

type undefinedType struct{}

func (undefinedType) TypeOf() string { return "undefined" }
func (undefinedType) DisplayString() string { return "undefined" }

// Undefined is the single Undefined value.
var Undefined Value = undefinedType{}

// IsUndefined/IsNull/IsNullish let other packages test for these
// singletons without reaching into this package's unexported types.
func IsUndefined(v Value) bool { _, ok := v.(undefinedType); return ok }
func IsNull(v Value) bool { _, ok := v.(nullType); return ok }
func IsNullish(v Value) bool { return v == nil || IsUndefined(v) || IsNull(v) }

type nullType struct{}

func (nullType) TypeOf() string { return "object" }
func (nullType) DisplayString() string { return "null" }

// Null is the single Null value.
var Null Value = nullType{}

// Boolean is a tagged true/false.
type Boolean bool

func (Boolean) TypeOf() string { return "boolean" }
func (b Boolean) DisplayString() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is an IEEE-754 double. Display distinguishes integral doubles
// from fractional ones the way Number.prototype.toString does.
type Number float64

func (Number) TypeOf() string { return "number" }

func (n Number) DisplayString() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "0" // ToString(-0) displays the same as +0
		}
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// BigInt is an arbitrary-precision integer. Arithmetic mixing BigInt and
// Number always throws TypeError; the evaluator enforces
// that, this type only carries the payload.
type BigInt struct {
	V *big.Int
}

func NewBigInt(v *big.Int) BigInt { return BigInt{V: v} }

func (BigInt) TypeOf() string { return "bigint" }
func (b BigInt) DisplayString() string {
	if b.V == nil {
		return "0n"
	}
	return b.V.String() + "n"
}

// String is a sequence of UTF-16 code units; Go strings are kept as
// decoded UTF-8 for simplicity of host interop, with surrogate-pair
// handling done at the lexer/JSON boundary rather than here.
type String string

func (String) TypeOf() string { return "string" }
func (s String) DisplayString() string { return string(s) }

// Symbol is a process-unique identity with an optional description;
// identity is the pointer itself, never structural.
type Symbol struct {
	Description string
}

func NewSymbol(desc string) *Symbol { return &Symbol{Description: desc} }

func (*Symbol) TypeOf() string { return "symbol" }
func (s *Symbol) DisplayString() string {
	return fmt.Sprintf("Symbol(%s)", s.Description)
}

// Well-known symbols, allocated once per process: Symbol.unscopables
// backs `with`'s binding exclusion list; others are provided for
// completeness of the addressable well-known-symbol surface.
var (
	SymIterator = NewSymbol("Symbol.iterator")
	SymAsyncIterator = NewSymbol("Symbol.asyncIterator")
	SymUnscopables = NewSymbol("Symbol.unscopables")
	SymDispose = NewSymbol("Symbol.dispose")
	SymAsyncDispose = NewSymbol("Symbol.asyncDispose")
	SymToPrimitive = NewSymbol("Symbol.toPrimitive")
	SymHasInstance = NewSymbol("Symbol.hasInstance")
)

// ---------------------------------------------------------------------
// Property keys & descriptors
// ---------------------------------------------------------------------

// PropertyKey is either a String or a *Symbol, per ToPropertyKey.
type PropertyKey struct {
	Str string
	Sym *Symbol
}

func StringKey(s string) PropertyKey { return PropertyKey{Str: s} }
func SymbolKey(s *Symbol) PropertyKey { return PropertyKey{Sym: s} }

func (k PropertyKey) IsSymbol() bool { return k.Sym != nil }

func (k PropertyKey) String() string {
	if k.Sym != nil {
		return k.Sym.DisplayString()
	}
	return k.Str
}

// PropertyDescriptor follows: either a data descriptor
// (Value/Writable) or an accessor descriptor (Get/Set), tagged by
// IsAccessor, plus the shared Enumerable/Configurable attributes.
type PropertyDescriptor struct {
	Value Value
	Get, Set *Object // function objects, nil if absent
	Writable bool
	Enumerable bool
	Configurable bool
	IsAccessor bool
}

// DataProperty is the common-case constructor: writable/enumerable/
// configurable, as script-created properties default to.
func DataProperty(v Value) *PropertyDescriptor {
	return &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// NonEnumerable builds a data property matching what built-in methods and
// hoisted bindings install (function.length/.name, class prototype links,
// and similar non-enumerable own properties).
func NonEnumerable(v Value) *PropertyDescriptor {
	return &PropertyDescriptor{Value: v, Writable: true, Enumerable: false, Configurable: true}
}

// ---------------------------------------------------------------------
// Object kinds
// ---------------------------------------------------------------------

// ObjectKind discriminates the internal-slot specialization of an
// Object: array, function, map/set, and the other heap-value kinds.
type ObjectKind int

const (
	KindOrdinary ObjectKind = iota
	KindArray
	KindFunction
	KindClass
	KindPromise
	KindRegex
	KindDate
	KindError
	KindTypedArray
	KindMap
	KindSet
	KindWeakMap
	KindWeakSet
	KindArguments
	KindGenerator
	KindModuleNamespace
)

// orderedKey is used to keep insertion order for own-key enumeration,
// matching [[OwnPropertyKeys]]'s integer-index-then-insertion-order rule
// closely enough for this interpreter's purposes (exact integer-index
// sorting is applied separately in OwnKeys).
type orderedKey struct {
	key PropertyKey
	order int
}

// Object is the shared heap-value shape: a property map plus a prototype
// reference, specialized by Kind and the optional slot pointers below.
// Cyclic graphs (obj.self = obj, prototype<->constructor links) are
// supported directly since Object is always handled by pointer — the Go
// garbage collector plays the role of "reachability from
// any root" tracing sweep, so no arena/index indirection is needed.
type Object struct {
	Kind ObjectKind
	Class string // the [[Class]]-ish display tag, e.g. "Array", "Error"
	Prototype *Object
	Extensible bool

	props map[PropertyKey]*PropertyDescriptor
	order []orderedKey
	next int

	// Array slot.
	Elements []Value // dense backing; sparse indices also live in props

	// Function slot.
	Function *FunctionData

	// Class slot.
	Class_ *ClassData

	// Promise slot.
	Promise *PromiseData

	// Regex slot.
	Regex *RegexData

	// Error slot.
	Error *ErrorData

	// Map/Set slots.
	MapData *OrderedMap
	SetData *OrderedMap

	// Private field storage, keyed by the *Symbol minted per class
	// definition for each #name.
	PrivateFields map[*Symbol]Value

	// PrimitiveValue holds the wrapped primitive for Boolean/Number/
	// String/Symbol/BigInt wrapper objects created via `new Number(1)`
	// etc.
	PrimitiveValue Value
	HasPrimitive bool
}

func NewObject(proto *Object) *Object {
	return &Object{
		Kind: KindOrdinary,
		Class: "Object",
		Prototype: proto,
		Extensible: true,
		props: make(map[PropertyKey]*PropertyDescriptor),
	}
}

func (*Object) TypeOf() string { return "object" }

func (o *Object) DisplayString() string {
	switch o.Kind {
	case KindArray:
		parts := make([]string, len(o.Elements))
		for i, e := range o.Elements {
			if e == nil {
				continue
			}
			parts[i] = e.DisplayString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		name := "anonymous"
		if o.Function != nil && o.Function.Name != "" {
			name = o.Function.Name
		}
		return fmt.Sprintf("function %s { [native or script code] }", name)
	case KindError:
		if o.Error != nil {
			return o.Error.Name + ": " + o.Error.Message
		}
	}
	return "[object " + o.Class + "]"
}

// GetOwnProperty returns this object's own descriptor for key, ignoring
// the prototype chain.
func (o *Object) GetOwnProperty(key PropertyKey) (*PropertyDescriptor, bool) {
	d, ok := o.props[key]
	return d, ok
}

// DefineOwnProperty installs or replaces an own property, recording
// insertion order on first definition.
func (o *Object) DefineOwnProperty(key PropertyKey, desc *PropertyDescriptor) {
	if _, exists := o.props[key]; !exists {
		o.order = append(o.order, orderedKey{key: key, order: o.next})
		o.next++
	}
	o.props[key] = desc
	if !key.IsSymbol() {
		o.syncArrayLength(key)
	}
}

// syncArrayLength keeps Kind==KindArray's Elements/length invariant
// (length equals the highest numeric-indexed property count) in step
// when a numeric-string key is defined directly rather than through
// PushElement.
func (o *Object) syncArrayLength(key PropertyKey) {
	if o.Kind != KindArray {
		return
	}
	if idx, ok := arrayIndex(key.Str); ok {
		for len(o.Elements) <= idx {
			o.Elements = append(o.Elements, Undefined)
		}
	}
}

func arrayIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != s {
		return 0, false // leading zeros etc. are not canonical array indices
	}
	return int(n), true
}

// DeleteOwnProperty removes a property the way `delete` does (caller
// enforces Configurable before calling this).
func (o *Object) DeleteOwnProperty(key PropertyKey) {
	delete(o.props, key)
	for i, ok := range o.order {
		if ok.key == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Get walks the prototype chain, invoking getters with receiver as
// `this` via the supplied call function (injected to avoid an import
// cycle with internal/vm, which implements the call protocol).
func (o *Object) Get(key PropertyKey, receiver Value, call func(fn *Object, this Value, args []Value) (Value, error)) (Value, error) {
	cur := o
	for cur != nil {
		if d, ok := cur.GetOwnProperty(key); ok {
			if d.IsAccessor {
				if d.Get == nil {
					return Undefined, nil
				}
				return call(d.Get, receiver, nil)
			}
			return d.Value, nil
		}
		cur = cur.Prototype
	}
	if o.Kind == KindArray && !key.IsSymbol() {
		if key.Str == "length" {
			return Number(len(o.Elements)), nil
		}
		if idx, ok := arrayIndex(key.Str); ok && idx < len(o.Elements) {
			v := o.Elements[idx]
			if v == nil {
				return Undefined, nil
			}
			return v, nil
		}
	}
	return Undefined, nil
}

// Set walks the prototype chain looking for a setter; if none is found
// anywhere in the chain, it defines/updates an own data property on o
// (ordinary [[Set]] default behavior).
func (o *Object) Set(key PropertyKey, v Value, receiver Value, call func(fn *Object, this Value, args []Value) (Value, error)) error {
	cur := o
	for cur != nil {
		if d, ok := cur.GetOwnProperty(key); ok {
			if d.IsAccessor {
				if d.Set == nil {
					return nil // silently ignored outside strict mode; vm enforces strict throw
				}
				_, err := call(d.Set, receiver, []Value{v})
				return err
			}
			if cur == o {
				if !d.Writable {
					return nil
				}
				d.Value = v
				o.syncArrayLength(key)
				return nil
			}
			break
		}
		cur = cur.Prototype
	}
	if o.Kind == KindArray && !key.IsSymbol() {
		if key.Str == "length" {
			n, ok := v.(Number)
			if ok {
				o.setArrayLength(int(n))
				return nil
			}
		}
		if idx, ok := arrayIndex(key.Str); ok {
			for len(o.Elements) <= idx {
				o.Elements = append(o.Elements, Undefined)
			}
			o.Elements[idx] = v
			return nil
		}
	}
	o.DefineOwnProperty(key, DataProperty(v))
	return nil
}

func (o *Object) setArrayLength(n int) {
	if n < len(o.Elements) {
		o.Elements = o.Elements[:n]
	} else {
		for len(o.Elements) < n {
			o.Elements = append(o.Elements, Undefined)
		}
	}
}

// HasProperty reports membership anywhere on the prototype chain (the
// `in` operator and `has(name)`-style checks).
func (o *Object) HasProperty(key PropertyKey) bool {
	cur := o
	for cur != nil {
		if _, ok := cur.GetOwnProperty(key); ok {
			return true
		}
		cur = cur.Prototype
	}
	if o.Kind == KindArray && !key.IsSymbol() {
		if key.Str == "length" {
			return true
		}
		if idx, ok := arrayIndex(key.Str); ok {
			return idx < len(o.Elements)
		}
	}
	return false
}

// OwnKeys returns this object's own keys in the standard ordering: integer indices
// ascending, then string keys in insertion order, then symbol keys in
// insertion order.
func (o *Object) OwnKeys() []PropertyKey {
	var ints []int
	var strs []PropertyKey
	var syms []PropertyKey
	seen := make(map[PropertyKey]bool)

	if o.Kind == KindArray {
		for i := range o.Elements {
			ints = append(ints, i)
		}
	}
	for _, ok := range o.order {
		if seen[ok.key] {
			continue
		}
		seen[ok.key] = true
		if ok.key.IsSymbol() {
			syms = append(syms, ok.key)
			continue
		}
		if idx, isIdx := arrayIndex(ok.key.Str); isIdx {
			if o.Kind != KindArray {
				ints = append(ints, idx)
			}
			continue
		}
		strs = append(strs, ok.key)
	}
	sort.Ints(ints)
	out := make([]PropertyKey, 0, len(ints)+len(strs)+len(syms))
	for _, i := range ints {
		out = append(out, StringKey(strconv.Itoa(i)))
	}
	out = append(out, strs...)
	out = append(out, syms...)
	return out
}

// EnumerableStringKeys is OwnKeys filtered to enumerable, string-valued
// own properties, what `for...in` and Object.keys walk.
func (o *Object) EnumerableStringKeys() []string {
	var out []string
	for _, k := range o.OwnKeys() {
		if k.IsSymbol() {
			continue
		}
		if d, ok := o.GetOwnProperty(k); ok && !d.Enumerable {
			continue
		}
		out = append(out, k.Str)
	}
	return out
}

// PushElement appends to a KindArray object's dense storage, keeping
// the length invariant; this is the fast path array literal evaluation
// and.push use instead of going through DefineOwnProperty per index.
func (o *Object) PushElement(v Value) {
	o.Elements = append(o.Elements, v)
}

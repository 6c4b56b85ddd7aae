package value

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// CallFunc is the shape internal/vm's call protocol is injected as, so
// conversions that must invoke user-visible methods (toString, valueOf,
// Symbol.toPrimitive) do not require this package to depend on vm.
type CallFunc func(fn *Object, this Value, args []Value) (Value, error)

// ToBoolean implements the abstract operation of the same name; it never
// fails.
func ToBoolean(v Value) bool {
	switch t := v.(type) {
	case undefinedType, nullType:
		return false
	case Boolean:
		return bool(t)
	case Number:
		f := float64(t)
		return f != 0 && f == f // false for 0, -0, NaN
	case BigInt:
		return t.V != nil && t.V.Sign() != 0
	case String:
		return len(t) > 0
	default:
		return true // every Object is truthy
	}
}

// PreferredHint selects which valueOf/toString ordering ToPrimitive uses.
type PreferredHint int

const (
	HintDefault PreferredHint = iota
	HintNumber
	HintString
)

// ToPrimitive implements the abstract operation: if v is already a
// primitive it is returned unchanged; otherwise Symbol.toPrimitive is
// tried, then valueOf/toString (or the reverse order for HintString).
func ToPrimitive(v Value, hint PreferredHint, call CallFunc) (Value, error) {
	obj, ok := v.(*Object)
	if !ok {
		return v, nil
	}
	if exotic, ok := obj.GetOwnProperty(SymbolKey(SymToPrimitive)); ok {
		if fn, ok := methodOf(exotic); ok {
			hintStr := "default"
			switch hint {
			case HintNumber:
				hintStr = "number"
			case HintString:
				hintStr = "string"
			}
			res, err := call(fn, obj, []Value{String(hintStr)})
			if err != nil {
				return nil, err
			}
			if _, isObj := res.(*Object); isObj {
				return nil, typeErrorPlaceholder("Cannot convert object to primitive value")
			}
			return res, nil
		}
	}
	methods := []string{"valueOf", "toString"}
	if hint == HintString {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		m, err := obj.Get(StringKey(name), obj, call)
		if err != nil {
			return nil, err
		}
		if fn, ok := methodOf(&PropertyDescriptor{Value: m}); ok {
			res, err := call(fn, obj, nil)
			if err != nil {
				return nil, err
			}
			if _, isObj := res.(*Object); !isObj {
				return res, nil
			}
		}
	}
	return nil, typeErrorPlaceholder("Cannot convert object to primitive value")
}

func methodOf(d *PropertyDescriptor) (*Object, bool) {
	if d == nil {
		return nil, false
	}
	obj, ok := d.Value.(*Object)
	if !ok || obj.Kind != KindFunction {
		return nil, false
	}
	return obj, true
}

// typeErrorPlaceholder lets this package raise a conversion failure
// without importing internal/jserror (which would cycle back through
// ScriptValue); internal/vm wraps these into *jserror.JSError at the
// call boundary by checking for *ConversionError.
type ConversionError struct{ Message string }

func (e *ConversionError) Error() string { return e.Message }

func typeErrorPlaceholder(msg string) error { return &ConversionError{Message: msg} }

// ToNumber implements the abstract operation, including the rule that
// BigInt cannot silently convert to Number: callers that
// need the cross-type arithmetic rule should check for BigInt explicitly
// before calling ToNumber on a mixed pair.
func ToNumber(v Value, call CallFunc) (Number, error) {
	switch t := v.(type) {
	case undefinedType:
		return Number(math.NaN()), nil
	case nullType:
		return 0, nil
	case Boolean:
		if t {
			return 1, nil
		}
		return 0, nil
	case Number:
		return t, nil
	case BigInt:
		return 0, typeErrorPlaceholder("Cannot convert a BigInt value to a number")
	case String:
		return Number(stringToNumber(string(t))), nil
	case *Object:
		prim, err := ToPrimitive(t, HintNumber, call)
		if err != nil {
			return 0, err
		}
		return ToNumber(prim, call)
	}
	return Number(math.NaN()), nil
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if s == "Infinity" || s == "+Infinity" {
		return math.Inf(1)
	}
	if s == "-Infinity" {
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToStringValue implements the ToString abstract operation (named to
// avoid colliding with fmt.Stringer on this package's own types).
func ToStringValue(v Value, call CallFunc) (String, error) {
	switch t := v.(type) {
	case undefinedType:
		return "undefined", nil
	case nullType:
		return "null", nil
	case Boolean:
		if t {
			return "true", nil
		}
		return "false", nil
	case Number:
		return String(t.DisplayString()), nil
	case BigInt:
		if t.V == nil {
			return "0", nil
		}
		return String(t.V.String()), nil
	case String:
		return t, nil
	case *Symbol:
		return "", typeErrorPlaceholder("Cannot convert a Symbol value to a string")
	case *Object:
		prim, err := ToPrimitive(t, HintString, call)
		if err != nil {
			return "", err
		}
		return ToStringValue(prim, call)
	}
	return "", nil
}

// ToObject implements the abstract operation; Undefined/Null throw.
func ToObject(v Value, protos Prototypes) (*Object, error) {
	switch t := v.(type) {
	case *Object:
		return t, nil
	case undefinedType, nullType:
		return nil, typeErrorPlaceholder("Cannot convert undefined or null to object")
	case Boolean:
		o := NewObject(protos.Boolean)
		o.Class = "Boolean"
		o.PrimitiveValue, o.HasPrimitive = t, true
		return o, nil
	case Number:
		o := NewObject(protos.Number)
		o.Class = "Number"
		o.PrimitiveValue, o.HasPrimitive = t, true
		return o, nil
	case String:
		o := NewObject(protos.String)
		o.Class = "String"
		o.PrimitiveValue, o.HasPrimitive = t, true
		for i := 0; i < len(t); i++ {
			o.DefineOwnProperty(StringKey(strconv.Itoa(i)), NonEnumerable(String(t[i])))
		}
		o.DefineOwnProperty(StringKey("length"), NonEnumerable(Number(len(t))))
		return o, nil
	case BigInt:
		o := NewObject(protos.BigInt)
		o.Class = "BigInt"
		o.PrimitiveValue, o.HasPrimitive = t, true
		return o, nil
	case *Symbol:
		o := NewObject(protos.Symbol)
		o.Class = "Symbol"
		o.PrimitiveValue, o.HasPrimitive = t, true
		return o, nil
	}
	return nil, typeErrorPlaceholder("Cannot convert value to object")
}

// Prototypes is the minimal set of intrinsic prototypes ToObject needs;
// internal/vm's realm supplies the live set.
type Prototypes struct {
	Boolean, Number, String, BigInt, Symbol *Object
}

// ToPropertyKey implements the abstract operation.
func ToPropertyKey(v Value, call CallFunc) (PropertyKey, error) {
	if sym, ok := v.(*Symbol); ok {
		return SymbolKey(sym), nil
	}
	s, err := ToStringValue(v, call)
	if err != nil {
		return PropertyKey{}, err
	}
	return StringKey(string(s)), nil
}

// ToInteger implements the abstract operation (NaN -> 0, infinities
// preserved, truncation toward zero otherwise).
func ToInteger(v Value, call CallFunc) (float64, error) {
	n, err := ToNumber(v, call)
	if err != nil {
		return 0, err
	}
	f := float64(n)
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) {
		return f, nil
	}
	return math.Trunc(f), nil
}

// ToLength implements the abstract operation: ToInteger clamped to
// [0, 2^53-1].
func ToLength(v Value, call CallFunc) (int, error) {
	f, err := ToInteger(v, call)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, nil
	}
	const maxLen = 1<<53 - 1
	if f > maxLen {
		return maxLen, nil
	}
	return int(f), nil
}

// ToInt32/ToUint32 implement the bitwise-operator coercions.
func ToInt32(v Value, call CallFunc) (int32, error) {
	n, err := ToNumber(v, call)
	if err != nil {
		return 0, err
	}
	return int32(toUint32Bits(float64(n))), nil
}

func ToUint32(v Value, call CallFunc) (uint32, error) {
	n, err := ToNumber(v, call)
	if err != nil {
		return 0, err
	}
	return toUint32Bits(float64(n)), nil
}

func toUint32Bits(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	i := int64(math.Trunc(f))
	return uint32(uint64(i) & 0xFFFFFFFF)
}

// ---------------------------------------------------------------------
// Equality
// ---------------------------------------------------------------------

// SameValue implements the abstract operation (Object.is semantics):
// distinguishes +0/-0 and treats NaN as equal to itself.
func SameValue(a, b Value) bool {
	if numA, ok := a.(Number); ok {
		numB, ok := b.(Number)
		if !ok {
			return false
		}
		fa, fb := float64(numA), float64(numB)
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		if fa == 0 && fb == 0 {
			return math.Signbit(fa) == math.Signbit(fb)
		}
		return fa == fb
	}
	return sameValueCore(a, b)
}

// SameValueZero is SameValue except +0 and -0 compare equal (used by
// Array.prototype.includes, Map/Set key comparison).
func SameValueZero(a, b Value) bool {
	if numA, ok := a.(Number); ok {
		numB, ok := b.(Number)
		if !ok {
			return false
		}
		fa, fb := float64(numA), float64(numB)
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	}
	return sameValueCore(a, b)
}

func sameValueCore(a, b Value) bool {
	switch ta := a.(type) {
	case undefinedType:
		_, ok := b.(undefinedType)
		return ok
	case nullType:
		_, ok := b.(nullType)
		return ok
	case Boolean:
		tb, ok := b.(Boolean)
		return ok && ta == tb
	case String:
		tb, ok := b.(String)
		return ok && ta == tb
	case BigInt:
		tb, ok := b.(BigInt)
		if !ok || ta.V == nil || tb.V == nil {
			return ok && ta.V == nil && tb.V == nil
		}
		return ta.V.Cmp(tb.V) == 0
	case *Symbol:
		tb, ok := b.(*Symbol)
		return ok && ta == tb
	case *Object:
		tb, ok := b.(*Object)
		return ok && ta == tb
	}
	return false
}

// StrictEquals implements `===`: SameValue but +0 == -0.
func StrictEquals(a, b Value) bool {
	if a.TypeOf() != b.TypeOf() {
		return false
	}
	return SameValueZero(a, b)
}

// LooseEquals implements `==` with the full coercion table, recursing
// per the abstract-equality algorithm.
func LooseEquals(a, b Value, call CallFunc) (bool, error) {
	if a.TypeOf() == b.TypeOf() {
		return StrictEquals(a, b), nil
	}
	_, aNull := a.(nullType)
	_, aUndef := a.(undefinedType)
	_, bNull := b.(nullType)
	_, bUndef := b.(undefinedType)
	if (aNull || aUndef) && (bNull || bUndef) {
		return true, nil
	}
	if aNull || aUndef || bNull || bUndef {
		return false, nil
	}
	if bigA, ok := a.(BigInt); ok {
		if numB, ok := b.(Number); ok {
			return bigIntEqualsNumber(bigA, numB), nil
		}
		if strB, ok := b.(String); ok {
			bi, ok := new(big.Int).SetString(string(strB), 10)
			return ok && bigA.V != nil && bigA.V.Cmp(bi) == 0, nil
		}
	}
	if _, ok := b.(BigInt); ok {
		return LooseEquals(b, a, call) // symmetry: delegate via swapped args
	}
	if numA, ok := a.(Number); ok {
		if strB, ok := b.(String); ok {
			return float64(numA) == stringToNumber(string(strB)), nil
		}
		if boolB, ok := b.(Boolean); ok {
			bv := Number(0)
			if boolB {
				bv = 1
			}
			return numA == bv, nil
		}
	}
	if strA, ok := a.(String); ok {
		if numB, ok := b.(Number); ok {
			return stringToNumber(string(strA)) == float64(numB), nil
		}
	}
	if boolA, ok := a.(Boolean); ok {
		av := Number(0)
		if boolA {
			av = 1
		}
		return LooseEquals(av, b, call)
	}
	if _, ok := b.(Boolean); ok {
		return LooseEquals(b, a, call)
	}
	if objA, ok := a.(*Object); ok {
		switch b.(type) {
		case Number, String, BigInt:
			prim, err := ToPrimitive(objA, HintDefault, call)
			if err != nil {
				return false, err
			}
			return LooseEquals(prim, b, call)
		}
	}
	if objB, ok := b.(*Object); ok {
		switch a.(type) {
		case Number, String, BigInt:
			prim, err := ToPrimitive(objB, HintDefault, call)
			if err != nil {
				return false, err
			}
			return LooseEquals(a, prim, call)
		}
	}
	return false, nil
}

func bigIntEqualsNumber(b BigInt, n Number) bool {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	if b.V == nil {
		return f == 0
	}
	bf := new(big.Float).SetInt(b.V)
	nf := new(big.Float).SetFloat64(f)
	return bf.Cmp(nf) == 0
}

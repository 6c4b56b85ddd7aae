package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

func TestNumberDisplayString(t *testing.T) {
	cases := []struct {
		n value.Number
		want string
	}{
		{value.Number(0), "0"},
		{value.Number(-0.0), "0"},
		{value.Number(42), "42"},
		{value.Number(3.5), "3.5"},
		{value.Number(1e21), "1e+21"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.n.DisplayString())
	}
}

func TestIsNullish(t *testing.T) {
	assert.True(t, value.IsNullish(value.Undefined))
	assert.True(t, value.IsNullish(value.Null))
	assert.True(t, value.IsNullish(nil))
	assert.False(t, value.IsNullish(value.Number(0)))
	assert.False(t, value.IsNullish(value.String("")))
}

func TestSymbolIdentityIsPointer(t *testing.T) {
	a := value.NewSymbol("x")
	b := value.NewSymbol("x")
	assert.NotSame(t, a, b)
	assert.Equal(t, "Symbol(x)", a.DisplayString())

	key1 := value.SymbolKey(a)
	key2 := value.SymbolKey(b)
	assert.NotEqual(t, key1, key2)
	assert.True(t, key1.IsSymbol())
}

func TestObjectGetSetPrototypeChain(t *testing.T) {
	proto := value.NewObject(nil)
	proto.DefineOwnProperty(value.StringKey("greeting"), value.DataProperty(value.String("hi")))

	obj := value.NewObject(proto)
	v, err := obj.Get(value.StringKey("greeting"), obj, nil)
	assert.NoError(t, err)
	assert.Equal(t, value.String("hi"), v)

	err = obj.Set(value.StringKey("greeting"), value.String("bye"), obj, nil)
	assert.NoError(t, err)

	v, _ = obj.Get(value.StringKey("greeting"), obj, nil)
	assert.Equal(t, value.String("bye"), v, "own property shadows the one on the prototype")

	v, _ = proto.Get(value.StringKey("greeting"), proto, nil)
	assert.Equal(t, value.String("hi"), v, "prototype's own property is unaffected by the child's shadowing set")
}

func TestObjectArrayLengthInvariant(t *testing.T) {
	arr := value.NewObject(nil)
	arr.Kind = value.KindArray
	arr.PushElement(value.Number(1))
	arr.PushElement(value.Number(2))

	length, err := arr.Get(value.StringKey("length"), arr, nil)
	assert.NoError(t, err)
	assert.Equal(t, value.Number(2), length)

	assert.NoError(t, arr.Set(value.StringKey("5"), value.Number(9), arr, nil))
	length, _ = arr.Get(value.StringKey("length"), arr, nil)
	assert.Equal(t, value.Number(6), length, "writing index 5 grows the dense backing to length 6")

	assert.NoError(t, arr.Set(value.StringKey("length"), value.Number(2), arr, nil))
	length, _ = arr.Get(value.StringKey("length"), arr, nil)
	assert.Equal(t, value.Number(2), length, "shrinking length truncates the dense backing")
}

func TestObjectOwnKeysOrdering(t *testing.T) {
	obj := value.NewObject(nil)
	obj.DefineOwnProperty(value.StringKey("b"), value.DataProperty(value.Number(1)))
	obj.DefineOwnProperty(value.StringKey("2"), value.DataProperty(value.Number(1)))
	obj.DefineOwnProperty(value.StringKey("a"), value.DataProperty(value.Number(1)))
	obj.DefineOwnProperty(value.StringKey("1"), value.DataProperty(value.Number(1)))
	sym := value.NewSymbol("s")
	obj.DefineOwnProperty(value.SymbolKey(sym), value.DataProperty(value.Number(1)))

	keys := obj.OwnKeys()
	var got []string
	for _, k := range keys {
		got = append(got, k.String())
	}
	assert.Equal(t, []string{"1", "2", "b", "a", "Symbol(s)"}, got)
}

func TestObjectDeleteOwnProperty(t *testing.T) {
	obj := value.NewObject(nil)
	obj.DefineOwnProperty(value.StringKey("x"), value.DataProperty(value.Number(1)))
	assert.True(t, obj.HasProperty(value.StringKey("x")))

	obj.DeleteOwnProperty(value.StringKey("x"))
	assert.False(t, obj.HasProperty(value.StringKey("x")))
}

func TestEnumerableStringKeysSkipsNonEnumerableAndSymbols(t *testing.T) {
	obj := value.NewObject(nil)
	obj.DefineOwnProperty(value.StringKey("visible"), value.DataProperty(value.Number(1)))
	obj.DefineOwnProperty(value.StringKey("hidden"), value.NonEnumerable(value.Number(1)))
	obj.DefineOwnProperty(value.SymbolKey(value.NewSymbol("s")), value.DataProperty(value.Number(1)))

	assert.Equal(t, []string{"visible"}, obj.EnumerableStringKeys())
}

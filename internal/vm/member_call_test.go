package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestOptionalChainingShortCircuitsWholeChainOnNullishBase covers `?.`
// skipping the rest of a member/call chain, including later calls,
// once a nullish base is seen, without throwing.
func TestOptionalChainingShortCircuitsWholeChainOnNullishBase(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const o = { a: null };
		o.a?.b.c.method();
	`)
	require.NoError(t, err)
	assert.Equal(t, "undefined", v.TypeOf())
}

// TestOptionalCallOnNullishCalleeShortCircuits covers `?.(` short-
// circuiting to undefined rather than throwing "not a function".
func TestOptionalCallOnNullishCalleeShortCircuits(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const o = {};
		o.missing?.();
	`)
	require.NoError(t, err)
	assert.Equal(t, "undefined", v.TypeOf())
}

// TestMethodCallUsesObjectOperandAsThis covers a plain (non-optional)
// method call binding `this` to the object the method was read off of.
func TestMethodCallUsesObjectOperandAsThis(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const o = { name: "box", getName() { return this.name; } };
		o.getName();
	`)
	require.NoError(t, err)
	assert.Equal(t, "box", v.DisplayString())
}

// TestReadingPropertyOffNullishBaseThrowsTypeError covers a non-
// optional member access on null/undefined throwing rather than
// returning undefined.
func TestReadingPropertyOffNullishBaseThrowsTypeError(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		const o = { a: null };
		o.a.b;
	`)
	require.Error(t, err)
}

// TestSpreadArgumentsSpliceIterableIntoCallArgumentList covers a spread
// element in a call's argument list expanding via the iterator
// protocol rather than being passed as a single array value.
func TestSpreadArgumentsSpliceIterableIntoCallArgumentList(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		function sum3(a, b, c) { return a + b + c; }
		const nums = [1, 2, 3];
		sum3(...nums);
	`)
	require.NoError(t, err)
	assert.Equal(t, "6", v.DisplayString())
}

// TestNewOnNonConstructorThrowsTypeError covers `new` on an arrow
// function throwing because arrows have no [[Construct]] slot.
func TestNewOnNonConstructorThrowsTypeError(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		const f = () => 1;
		new f();
	`)
	require.Error(t, err)
}

// TestConstructorReturningObjectOverridesImplicitThis covers a
// constructor's explicit `return someObject` replacing the freshly
// allocated `this` as the construction result.
func TestConstructorReturningObjectOverridesImplicitThis(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		function Widget() {
			this.a = 1;
			return { a: 99 };
		}
		new Widget().a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "99", v.DisplayString())
}

// TestPrivateFieldWriteOutsideDeclaringClassThrows covers assigning to
// a private field name with no enclosing class declaring it throwing a
// syntax error rather than silently creating an ordinary property.
func TestPrivateFieldWriteOutsideDeclaringClassThrows(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		class Box {}
		const b = new Box();
		function setIt() { b.#missing = 1; }
		setIt();
	`)
	require.Error(t, err)
}

package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestObjectDestructuringWithRestExcludesDestructuredKeys covers a rest
// pattern in an object binding collecting every own enumerable property
// not already bound by name.
func TestObjectDestructuringWithRestExcludesDestructuredKeys(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const { a, ...rest } = { a: 1, b: 2, c: 3 };
		a + ":" + rest.b + "," + rest.c + "," + ("a" in rest);
	`)
	require.NoError(t, err)
	assert.Equal(t, "1:2,3,false", v.DisplayString())
}

// TestDestructuringDefaultOnlyAppliesWhenValueIsUndefined covers a
// default value firing only for an undefined slot, not for null or any
// other falsy value.
func TestDestructuringDefaultOnlyAppliesWhenValueIsUndefined(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const { a = 10, b = 20, c = 30 } = { a: undefined, b: null, c: 0 };
		a + "," + b + "," + c;
	`)
	require.NoError(t, err)
	assert.Equal(t, "10,null,0", v.DisplayString())
}

// TestDestructuringAssignmentReusesExistingBindingsRatherThanDeclaring
// covers `[a, b] = [b, a]`-style swap assignment writing through to
// already-declared variables instead of creating new ones.
func TestDestructuringAssignmentReusesExistingBindingsRatherThanDeclaring(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		let a = 1, b = 2;
		[a, b] = [b, a];
		a + "," + b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "2,1", v.DisplayString())
}

// TestNestedArrayPatternInObjectDestructuringBindsThroughBothLevels
// covers a pattern that mixes object and array destructuring, binding
// names found after unwrapping both levels.
func TestNestedArrayPatternInObjectDestructuringBindsThroughBothLevels(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const { list: [first, second] } = { list: ["x", "y"] };
		first + second;
	`)
	require.NoError(t, err)
	assert.Equal(t, "xy", v.DisplayString())
}

// TestComputedKeyInDestructuringPatternIsEvaluated covers a `[expr]:
// target` pattern property evaluating expr to determine which source
// property to read.
func TestComputedKeyInDestructuringPatternIsEvaluated(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const key = "value";
		const { [key]: picked } = { value: 7, other: 8 };
		picked;
	`)
	require.NoError(t, err)
	assert.Equal(t, "7", v.DisplayString())
}

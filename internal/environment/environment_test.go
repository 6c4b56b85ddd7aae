package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/internal/environment"
	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

func TestDefineAndLookup(t *testing.T) {
	global := environment.New(nil)
	assert.True(t, global.IsGlobal)
	assert.True(t, global.IsFunctionScope)

	environment.Define(global, "x", value.Number(1), environment.KindVar)
	v, err := environment.Lookup(global, "x", jserror.Position{})
	require.NoError(t, err)
	assert.Equal(t, value.Number(1), v)
}

func TestLookupUndefinedNameIsReferenceError(t *testing.T) {
	global := environment.New(nil)
	_, err := environment.Lookup(global, "missing", jserror.Position{})
	require.Error(t, err)
}

func TestTDZBeforeInitialization(t *testing.T) {
	global := environment.New(nil)
	environment.DeclareUninitialized(global, "x", environment.KindLet)

	_, err := environment.Lookup(global, "x", jserror.Position{})
	require.Error(t, err, "reading before Initialize must fail with a TDZ error")

	environment.Initialize(global, "x", value.Number(5))
	v, err := environment.Lookup(global, "x", jserror.Position{})
	require.NoError(t, err)
	assert.Equal(t, value.Number(5), v)
}

func TestAssignToConstThrows(t *testing.T) {
	global := environment.New(nil)
	environment.Define(global, "x", value.Number(1), environment.KindConst)

	err := environment.Assign(global, "x", value.Number(2), jserror.Position{})
	require.Error(t, err)
}

func TestAssignWalksParentChain(t *testing.T) {
	parent := environment.New(nil)
	environment.Define(parent, "x", value.Number(1), environment.KindVar)
	child := environment.New(parent)

	err := environment.Assign(child, "x", value.Number(9), jserror.Position{})
	require.NoError(t, err)

	v, err := environment.Lookup(parent, "x", jserror.Position{})
	require.NoError(t, err)
	assert.Equal(t, value.Number(9), v)
}

func TestHoistVarTargetsNearestFunctionScope(t *testing.T) {
	fn := environment.NewFunctionScope(nil)
	block := environment.New(fn)

	environment.HoistVar(block, "x")

	_, found := environment.LookupBinding(block, "x")
	require.NotNil(t, found, "HoistVar must install the binding on the function scope, reachable from the block")
	assert.Same(t, fn, found)
}

func TestThisBindingSkipsArrowScopes(t *testing.T) {
	fn := environment.New(nil)
	fn.HasThis = true
	fn.ThisVal = value.String("outer-this")

	arrow := environment.New(fn) // arrow functions never set HasThis on their own scope

	assert.Equal(t, value.String("outer-this"), environment.ThisBinding(arrow))
}

func TestHasDoesNotTriggerTDZError(t *testing.T) {
	global := environment.New(nil)
	environment.DeclareUninitialized(global, "x", environment.KindLet)

	assert.True(t, environment.Has(global, "x"))
	assert.False(t, environment.Has(global, "y"))
}

func TestDeleteBindingOnlyAffectsOwnScope(t *testing.T) {
	parent := environment.New(nil)
	environment.Define(parent, "x", value.Number(1), environment.KindVar)
	child := environment.New(parent)

	assert.False(t, environment.DeleteBinding(child, "x"), "x lives on parent, not child")
	assert.True(t, environment.DeleteBinding(parent, "x"))
	assert.False(t, environment.Has(parent, "x"))
}

func TestCopyOwnBindingsGivesIndependentSlots(t *testing.T) {
	from := environment.New(nil)
	environment.Define(from, "i", value.Number(0), environment.KindLet)
	to := environment.New(nil)

	environment.CopyOwnBindings(from, to)
	environment.Initialize(to, "i", value.Number(5))

	v, err := environment.Lookup(from, "i", jserror.Position{})
	require.NoError(t, err)
	assert.Equal(t, value.Number(0), v, "copied binding must be an independent slot")
}

func TestNewWithConsultsObjectRecordBeforeBindings(t *testing.T) {
	obj := value.NewObject(nil)
	obj.DefineOwnProperty(value.StringKey("x"), value.DataProperty(value.String("from-with")))

	global := environment.New(nil)
	environment.Define(global, "x", value.Number(1), environment.KindVar)
	withEnv := environment.NewWith(global, obj, nil)

	_, err := environment.Lookup(withEnv, "x", jserror.Position{})
	require.Error(t, err, "a WithLookup sentinel error, not a value, is returned when the object record claims the name")
	_, ok := err.(*environment.WithLookup)
	assert.True(t, ok)
}

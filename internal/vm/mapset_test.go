package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestMapPreservesInsertionOrderAcrossGetSetDelete covers Map iteration
// order tracking insertion order rather than key hash order, and
// surviving the delete of another key.
func TestMapPreservesInsertionOrderAcrossGetSetDelete(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const m = new Map();
		m.set("a", 1).set("b", 2).set("c", 3);
		m.delete("b");
		let out = "";
		for (const [k, val] of m) out += k + val;
		out + "/" + m.size;
	`)
	require.NoError(t, err)
	assert.Equal(t, "a1c3/2", v.DisplayString())
}

// TestMapConstructorAcceptsIterableOfEntryPairs covers `new
// Map([[k,v],...])` seeding entries from any iterable of 2-element
// pairs, matching the Set/Map/Array constructor convention.
func TestMapConstructorAcceptsIterableOfEntryPairs(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const m = new Map([["x", 10], ["y", 20]]);
		m.get("x") + m.get("y");
	`)
	require.NoError(t, err)
	assert.Equal(t, "30", v.DisplayString())
}

// TestSetDeduplicatesBySameValueZero covers adding an equal value twice
// leaving the Set's size unchanged.
func TestSetDeduplicatesBySameValueZero(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const s = new Set([1, 2, 2, 3]);
		s.add(3);
		s.size;
	`)
	require.NoError(t, err)
	assert.Equal(t, "3", v.DisplayString())
}

// TestSetForEachPassesValueTwiceMatchingMapCallbackShape covers Set's
// forEach invoking its callback with (value, value, set), mirroring
// Map's (value, key, map) shape with key === value.
func TestSetForEachPassesValueTwiceMatchingMapCallbackShape(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const s = new Set(["a", "b"]);
		let out = "";
		s.forEach((val, key) => { out += val + key; });
		out;
	`)
	require.NoError(t, err)
	assert.Equal(t, "aabb", v.DisplayString())
}

// TestWeakMapGetSetHasDelete covers the object-keyed get/set/has/delete
// surface WeakMap shares with Map, minus size/forEach/iteration.
func TestWeakMapGetSetHasDelete(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const k1 = {}, k2 = {};
		const wm = new WeakMap();
		wm.set(k1, "one").set(k2, "two");
		let out = wm.has(k1) + "," + wm.get(k2);
		wm.delete(k1);
		out += "," + wm.has(k1);
		out;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true,two,false", v.DisplayString())
}

// TestWeakMapRejectsPrimitiveKey covers WeakMap.prototype.set throwing
// a TypeError for a non-object, non-symbol key.
func TestWeakMapRejectsPrimitiveKey(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`new WeakMap().set("not-an-object", 1);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weak map key")
}

// TestWeakSetAddHasDelete covers WeakSet's add/has/delete surface and
// that it has no size property.
func TestWeakSetAddHasDelete(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const k = {};
		const ws = new WeakSet([k]);
		let out = ws.has(k) + "," + (ws.size === undefined);
		ws.delete(k);
		out += "," + ws.has(k);
		out;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true,true,false", v.DisplayString())
}

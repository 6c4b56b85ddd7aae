package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestClassPrivateFieldsAreInaccessibleOutsideTheClassBody covers a
// private field read from outside the declaring class body always
// throwing rather than returning undefined.
func TestClassPrivateFieldsAreInaccessibleOutsideTheClassBody(t *testing.T) {
	in := interp.New()
	_, err := in.Eval(`
		class Box { #v = 1; }
		const b = new Box();
		b.v;
		({}).constructor;
		class Peek { static read(o) { return o.#v; } }
	`)
	require.Error(t, err)
}

// TestDerivedClassInstanceFieldsRunAfterSuper covers a derived class's
// own instance-field initializers running after the super() call
// completes, so they can reference state super's constructor set up.
func TestDerivedClassInstanceFieldsRunAfterSuper(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		class Base { constructor() { this.tag = "base"; } }
		class Derived extends Base {
			mark = this.tag + "-derived";
			constructor() { super(); }
		}
		new Derived().mark;
	`)
	require.NoError(t, err)
	assert.Equal(t, "base-derived", v.DisplayString())
}

// TestStaticBlockSeesEarlierStaticFieldInSameClass covers static fields
// and static blocks running in declaration order at class-definition
// time, sharing the same `this`.
func TestStaticBlockSeesEarlierStaticFieldInSameClass(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		class C {
			static base = 10;
			static total;
			static { C.total = C.base + 5; }
		}
		C.total;
	`)
	require.NoError(t, err)
	assert.Equal(t, "15", v.DisplayString())
}

// TestPrivateMethodSharesOneFunctionObjectAcrossInstances covers a
// private method being callable against any instance despite being
// installed once at class-definition time.
func TestPrivateMethodSharesOneFunctionObjectAcrossInstances(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		class Counter {
			#n = 0;
			#inc() { this.#n++; return this.#n; }
			bump() { return this.#inc(); }
		}
		const a = new Counter(), b = new Counter();
		a.bump(); a.bump(); b.bump();
		a.bump() + "," + b.bump();
	`)
	require.NoError(t, err)
	assert.Equal(t, "3,2", v.DisplayString())
}

// TestGetterSetterPairDeclaredSeparatelyShareOneAccessor covers a class
// getter and setter for the same name merging into one accessor property
// rather than the setter clobbering the getter.
func TestGetterSetterPairDeclaredSeparatelyShareOneAccessor(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		class Box {
			#v = 0;
			get value() { return this.#v; }
			set value(n) { this.#v = n * 2; }
		}
		const b = new Box();
		b.value = 21;
		b.value;
	`)
	require.NoError(t, err)
	assert.Equal(t, "42", v.DisplayString())
}

// TestSuperMethodCallResolvesThroughHomeObjectPrototype covers a derived
// class's overriding method calling the base implementation via `super`.
func TestSuperMethodCallResolvesThroughHomeObjectPrototype(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		class Animal { speak() { return "..."; } }
		class Dog extends Animal { speak() { return super.speak() + "woof"; } }
		new Dog().speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "...woof", v.DisplayString())
}

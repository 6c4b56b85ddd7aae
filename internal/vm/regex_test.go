package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestRegexTestReportsWhetherPatternMatches covers RegExp.prototype.test
// on a non-global pattern, which never advances lastIndex across calls.
func TestRegexTestReportsWhetherPatternMatches(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const re = /ab+c/;
		re.test("xxabbbcxx") + "," + re.test("nope");
	`)
	require.NoError(t, err)
	assert.Equal(t, "true,false", v.DisplayString())
}

// TestGlobalRegexExecAdvancesLastIndexAcrossCalls covers a `g`-flagged
// regex's exec resuming from lastIndex on each call, eventually
// returning null once the string is exhausted.
func TestGlobalRegexExecAdvancesLastIndexAcrossCalls(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const re = /\d+/g;
		const first = re.exec("a1 b22")[0];
		const second = re.exec("a1 b22")[0];
		const third = re.exec("a1 b22");
		first + "," + second + "," + (third === null);
	`)
	require.NoError(t, err)
	assert.Equal(t, "1,22,true", v.DisplayString())
}

// TestRegexExecResultCarriesIndexAndInputProperties covers the array
// exec returns exposing `index`/`input` alongside the numeric capture
// groups.
func TestRegexExecResultCarriesIndexAndInputProperties(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`
		const m = /world/.exec("hello world");
		m[0] + "@" + m.index + "/" + m.input;
	`)
	require.NoError(t, err)
	assert.Equal(t, "world@6/hello world", v.DisplayString())
}

// TestRegexToStringRoundTripsSourceAndFlags covers RegExp.prototype.
// toString rendering back the `/pattern/flags` literal form.
func TestRegexToStringRoundTripsSourceAndFlags(t *testing.T) {
	in := interp.New()
	v, err := in.Eval(`(/foo/gi).toString();`)
	require.NoError(t, err)
	assert.Equal(t, "/foo/gi", v.DisplayString())
}

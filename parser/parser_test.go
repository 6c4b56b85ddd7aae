package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/parser"
)

// TestValidProgramsParse exercises a representative slice of the
// accepted grammar, checking that each source parses without error into a
// Program whose start line is set.
func TestValidProgramsParse(t *testing.T) {
	sources := []string{
		`const x = 1;`,
		`let {a, b: {c}} = obj;`,
		`function* gen() { yield 1; yield* other; }`,
		`async function f() { await g; }`,
		`class C extends Base { #x = 1; static #y; get x() { return this.#x; } }`,
		`for (const [a, b] of pairs) {}`,
		`label: for (;;) { break label; }`,
		`try { } catch { } finally { }`,
		`a?.b?.[c]?.(d);`,
		`const o = {...spread, a, [k]: v, m() {} };`,
		`using r = acquire;`,
	}
	for _, src := range sources {
		src := src
		t.Run(src, func(t *testing.T) {
			prog, err := parser.Parse(src, false)
			require.NoError(t, err)
			require.NotNil(t, prog)
			assert.GreaterOrEqual(t, prog.Line, 1)
		})
	}
}

// TestValidModulesParse covers import/export declarations, which are
// only recognized in module goal code.
func TestValidModulesParse(t *testing.T) {
	sources := []string{
		`import x, { y as z } from "mod";`,
		`export default function () {}`,
		`export default class {}`,
		`export { a, b as c };`,
		`export * from "mod";`,
		`import.meta.url;`,
	}
	for _, src := range sources {
		src := src
		t.Run(src, func(t *testing.T) {
			prog, err := parser.ParseModule(src)
			require.NoError(t, err)
			require.NotNil(t, prog)
			assert.GreaterOrEqual(t, prog.Line, 1)
		})
	}
}

// TestEarlyErrors checks a representative sample of grammar-level
// static errors are rejected at parse time rather than silently
// accepted or deferred to evaluation.
func TestEarlyErrors(t *testing.T) {
	cases := []struct {
		name string
		src string
	}{
		{"duplicate params in strict function", `function f(a, a) { "use strict"; }`},
		{"duplicate params with non-simple list", `function f(a, [a]) {}`},
		{"use strict with non-simple params", `function f(a = 1) { "use strict"; }`},
		{"break outside loop/switch", `break;`},
		{"continue outside loop", `continue;`},
		{"undeclared labeled break", `break nope;`},
		{"continue targets non-iteration label", `L: { continue L; }`},
		{"duplicate default in switch", `switch (x) { default: default: }`},
		{"return outside function", `return 1;`},
		{"new.target outside function", `new.target;`},
		{"import.meta outside module", `import.meta;`},
		{"reserved word class name", `class yield {}`}, // within a function* this would be stricter; at top level strict-eq still reserved in strict code
		{"catch-binding empty parens", `try {} catch () {}`},
		{"legacy octal under strict mode", `"use strict"; var x = 010;`},
		{"await as async function param name", `async function f(await) {}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.Parse(tc.src, false)
			assert.Error(t, err, "expected a Syntax Error for: %s", tc.src)
		})
	}
}

// TestArrowParameterReinterpretation covers "parse as
// expression, then reinterpret" technique: each of these parses
// successfully as an arrow function despite the parenthesized head
// initially looking like a parenthesized expression or array/object
// literal.
func TestArrowParameterReinterpretation(t *testing.T) {
	sources := []string{
		`(a) => a;`,
		`(a = 1) => a;`,
		`([a,...rest]) => a;`,
		`({a, b: {c}}) => c;`,
		`(...rest) => rest;`,
		`async (a, b) => a + b;`,
	}
	for _, src := range sources {
		src := src
		t.Run(src, func(t *testing.T) {
			_, err := parser.Parse(src, false)
			require.NoError(t, err)
		})
	}
}

// TestDestructuringAssignmentPatternTagging covers the ast.Pattern
// invariant that array/object patterns on the left of `=` are tagged as
// DestructuringAssignment.
func TestDestructuringAssignmentPatternTagging(t *testing.T) {
	prog, err := parser.Parse(`[a, b] = [1, 2];`, false)
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)

	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	assign, ok := stmt.Expression.(*ast.AssignmentExpression)
	require.True(t, ok)
	dst, ok := assign.Left.(*ast.DestructuringAssignment)
	require.True(t, ok, "left-hand side of a destructuring assignment should parse as an ast.DestructuringAssignment")
	_, ok = dst.Target.(*ast.ArrayPattern)
	assert.True(t, ok, "the DestructuringAssignment should wrap an ast.ArrayPattern")
}

// TestRestElementMustBeLast covers "rest element is last
// in any array pattern" invariant.
func TestRestElementMustBeLast(t *testing.T) {
	_, err := parser.Parse(`let [...rest, a] = it;`, false)
	assert.Error(t, err)
}

// TestLegacyOctalAcceptedOutsideStrictMode covers a legacy octal
// literal being accepted in sloppy mode.
func TestLegacyOctalAcceptedOutsideStrictMode(t *testing.T) {
	_, err := parser.Parse(`var x = 010;`, false)
	require.NoError(t, err)
}

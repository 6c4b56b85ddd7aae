package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// TestModuleNamedAndDefaultExportsAreVisibleToAnImporter covers a
// dependency's `export const`/`export default` bindings reaching an
// importing module through `import`/`import default`.
func TestModuleNamedAndDefaultExportsAreVisibleToAnImporter(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterModule("math.js", `
		export const twice = n => n * 2;
		export default "math-module";
	`))
	exports, err := in.EvalModule("main.js", `
		import label, { twice } from "math.js";
		export const result = label + ":" + twice(21);
	`)
	require.NoError(t, err)
	assert.Equal(t, "math-module:42", exports["result"].DisplayString())
}

// TestImportStarNamespaceObjectExposesEveryNamedExport covers `import *
// as ns` collecting every export (default included) onto one
// namespace object.
func TestImportStarNamespaceObjectExposesEveryNamedExport(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterModule("colors.js", `
		export const red = "r";
		export const blue = "b";
		export default "unused";
	`))
	exports, err := in.EvalModule("main.js", `
		import * as colors from "colors.js";
		export const result = colors.red + colors.blue + (colors.default === undefined);
	`)
	require.NoError(t, err)
	assert.Equal(t, "rbfalse", exports["result"].DisplayString())
}

// TestReexportFromAnotherModuleForwardsItsBinding covers `export {x}
// from "dep"` re-exporting a dependency's binding under the importing
// module's own export table without that module ever binding the name
// locally.
func TestReexportFromAnotherModuleForwardsItsBinding(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterModule("base.js", `export const value = 7;`))
	require.NoError(t, in.RegisterModule("forward.js", `export { value } from "base.js";`))
	exports, err := in.EvalModule("main.js", `
		import { value } from "forward.js";
		export const seen = value;
	`)
	require.NoError(t, err)
	assert.Equal(t, "7", exports["seen"].DisplayString())
}

// TestDynamicImportResolvesToNamespaceViaPromise covers `import(...)`
// returning a promise that fulfills with the target module's namespace
// once awaited from an async function.
func TestDynamicImportResolvesToNamespaceViaPromise(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterModule("lazy.js", `export const loaded = "yes";`))
	v, err := in.EvalAsync(`
		async function run() {
			const ns = await import("lazy.js");
			return ns.loaded;
		}
		run();
	`)
	require.NoError(t, err)
	assert.Equal(t, "yes", v.DisplayString())
}

// TestTopLevelAwaitSettlesBeforeExportsAreCollected covers `await` used
// directly in a module's top-level body (outside any function) blocking
// that module's own evaluation until the awaited promise settles, so
// its result is visible to the module's own exports.
func TestTopLevelAwaitSettlesBeforeExportsAreCollected(t *testing.T) {
	in := interp.New()
	require.NoError(t, in.RegisterModule("lazy.js", `export const loaded = "yes";`))
	exports, err := in.EvalModule("main.js", `
		const ns = await import("lazy.js");
		export const loaded = ns.loaded;
	`)
	require.NoError(t, err)
	assert.Equal(t, "yes", exports["loaded"].DisplayString())
}

// TestTopLevelAwaitPropagatesRejectionAsModuleEvaluationError covers a
// rejected promise awaited at module top level surfacing as the
// module's own evaluation error rather than being silently swallowed.
func TestTopLevelAwaitPropagatesRejectionAsModuleEvaluationError(t *testing.T) {
	in := interp.New()
	_, err := in.EvalModule("main.js", `
		await Promise.reject("boom");
		export const unreached = 1;
	`)
	require.Error(t, err)
}

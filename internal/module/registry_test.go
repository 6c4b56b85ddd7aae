package module_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodjodevf/js-interpreter-sub006/internal/module"
	"github.com/kodjodevf/js-interpreter-sub006/internal/value"
)

// evaluator is a minimal EvaluateFunc standing in for internal/vm's real
// module-body evaluator, recording evaluation order without needing the
// full interpreter.
func evaluator(order *[]string) module.EvaluateFunc {
	return func(m *module.Module) error {
		*order = append(*order, m.ID)
		m.Exports["default"] = value.String(m.ID)
		return nil
	}
}

func TestRegisterParsesEagerly(t *testing.T) {
	r := module.NewRegistry()
	_, err := r.Register("bad.js", "let = ;")
	require.Error(t, err, "a syntax error must surface at registration time")
}

func TestEvaluateRunsDependenciesBeforeDependent(t *testing.T) {
	r := module.NewRegistry()
	var order []string
	r.SetEvaluator(evaluator(&order))
	r.SetLoader(func(id string) (string, error) {
		switch id {
		case "dep.js":
			return `export const x = 1;`, nil
		}
		return "", fmt.Errorf("unknown module %q", id)
	})

	entry, err := r.Register("main.js", `import "dep.js"; export const y = 2;`)
	require.NoError(t, err)

	err = r.Evaluate(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"dep.js", "main.js"}, order)
	assert.Equal(t, module.Evaluated, entry.State)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	r := module.NewRegistry()
	var order []string
	r.SetEvaluator(evaluator(&order))

	m, err := r.Register("once.js", `export const z = 1;`)
	require.NoError(t, err)

	require.NoError(t, r.Evaluate(m))
	require.NoError(t, r.Evaluate(m))
	assert.Equal(t, []string{"once.js"}, order, "a module's body evaluates exactly once even if Evaluate is called twice")
}

func TestCyclicImportsDoNotInfiniteLoop(t *testing.T) {
	r := module.NewRegistry()
	var order []string
	r.SetEvaluator(evaluator(&order))
	r.SetLoader(func(id string) (string, error) {
		switch id {
		case "a.js":
			return `import "b.js"; export const a = 1;`, nil
		case "b.js":
			return `import "a.js"; export const b = 2;`, nil
		}
		return "", fmt.Errorf("unknown module %q", id)
	})

	m, err := r.Register("a.js", `import "b.js"; export const a = 1;`)
	require.NoError(t, err)

	err = r.Evaluate(m)
	require.NoError(t, err)
	assert.Len(t, order, 2)
	assert.Equal(t, module.Evaluated, m.State)
}

func TestGetOrLoadReusesAlreadyRegisteredModule(t *testing.T) {
	r := module.NewRegistry()
	loadCount := 0
	r.SetLoader(func(id string) (string, error) {
		loadCount++
		return `export const x = 1;`, nil
	})

	m1, err := r.GetOrLoad("shared.js", "main.js")
	require.NoError(t, err)
	m2, err := r.GetOrLoad("shared.js", "main.js")
	require.NoError(t, err)

	assert.Same(t, m1, m2)
	assert.Equal(t, 1, loadCount)
}

func TestGetOrLoadWithoutLoaderFails(t *testing.T) {
	r := module.NewRegistry()
	_, err := r.GetOrLoad("missing.js", "main.js")
	require.Error(t, err)
}

func TestEvaluateWithoutEvaluatorFails(t *testing.T) {
	r := module.NewRegistry()
	m, err := r.Register("x.js", `export const x = 1;`)
	require.NoError(t, err)

	err = r.Evaluate(m)
	require.Error(t, err)
	assert.Equal(t, module.Errored, m.State)
}

func TestResolverCanonicalizesSpecifier(t *testing.T) {
	r := module.NewRegistry()
	r.SetResolver(func(specifier, importerID string) (string, error) {
		return "resolved/" + specifier, nil
	})
	id, err := r.Resolve("x.js", "main.js")
	require.NoError(t, err)
	assert.Equal(t, "resolved/x.js", id)
}

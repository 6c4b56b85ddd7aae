package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(stdin string) (*globalState, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	logger := logrus.New()
	logger.Out = errOut
	gs := &globalState{
		args: []string{"ecmarun"},
		stdOut: out,
		stdErr: errOut,
		stdIn: strings.NewReader(stdin),
		logger: logger,
	}
	return gs, out, errOut
}

func TestEvalCommandPrintsResult(t *testing.T) {
	gs, out, _ := testState("")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"eval", "1 + 2"})

	require.NoError(t, rc.cmd.Execute())
	assert.Equal(t, "3\n", out.String())
}

func TestEvalCommandAsyncAwaitsPromise(t *testing.T) {
	gs, out, _ := testState("")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"eval", "--async", `Promise.resolve(41 + 1)`})

	require.NoError(t, rc.cmd.Execute())
	assert.Equal(t, "42\n", out.String())
}

func TestRunCommandReadsFromStdin(t *testing.T) {
	gs, out, _ := testState("1 + 1;")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"run", "-"})

	require.NoError(t, rc.cmd.Execute())
	assert.Equal(t, "2\n", out.String())
}

func TestRunCommandModuleModePrintsExports(t *testing.T) {
	gs, out, _ := testState("export const a = 1; export const b = 2;")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"run", "--module", "-"})

	require.NoError(t, rc.cmd.Execute())
	assert.Equal(t, "{ a: 1, b: 2 }\n", out.String())
}

func TestRunCommandPropagatesScriptError(t *testing.T) {
	gs, _, _ := testState("not valid js (((")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"run", "-"})

	assert.Error(t, rc.cmd.Execute())
}

func TestLogFormatFlagRejectsUnknownFormat(t *testing.T) {
	gs, _, _ := testState("")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"--log-format", "yaml", "eval", "1"})

	assert.Error(t, rc.cmd.Execute())
}

func TestVerboseFlagEnablesDebugLogging(t *testing.T) {
	gs, _, _ := testState("")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"--verbose", "eval", "1"})

	require.NoError(t, rc.cmd.Execute())
	assert.Equal(t, logrus.DebugLevel, gs.logger.Level)
}

func TestVersionCommandPrintsVersion(t *testing.T) {
	gs, out, _ := testState("")
	rc := newRootCommand(gs)
	rc.cmd.SetArgs([]string{"version"})

	require.NoError(t, rc.cmd.Execute())
	assert.Contains(t, out.String(), "ecmarun v")
}

func TestReadSourceFromFileNotFoundErrors(t *testing.T) {
	gs, _, _ := testState("")
	_, err := readSource(gs, "/nonexistent/path/does/not/exist.js")
	assert.Error(t, err)
}

func TestMustPanicsOnError(t *testing.T) {
	assert.Panics(t, func() { must(assertErr{}) })
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

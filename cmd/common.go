// Package cmd implements the command-line surface of ecmarun, the
// reference embedder for the interpreter: a root command with persistent
// logging flags and run/eval/repl subcommands, built around an explicit
// globalState handle instead of package globals, cobra + pflag for flag
// parsing, and logrus for structured logging.
package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kodjodevf/js-interpreter-sub006/internal/jserror"
	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// globalState groups the process-external state (stdio, args) that
// would otherwise be reached for directly through the os package: it
// exists so the CLI can be exercised in tests against fake streams
// instead of the real process.
type globalState struct {
	args []string
	stdOut, stdErr io.Writer
	stdIn io.Reader
	logger *logrus.Logger
}

func newGlobalState() *globalState {
	logger := logrus.New()
	logger.Out = os.Stderr
	logger.Formatter = &logrus.TextFormatter{DisableColors: true}
	logger.Level = logrus.InfoLevel

	return &globalState{
		args: append([]string(nil), os.Args...),
		stdOut: os.Stdout,
		stdErr: os.Stderr,
		stdIn: os.Stdin,
		logger: logger,
	}
}

// exitFunc is os.Exit indirected behind a variable so tests can observe
// a requested exit code without killing the test process.
var exitFunc = os.Exit

// must panics on a programmer error: a flag the command itself defined
// failing to parse can't happen, but check anyway.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// readSource reads script source from a file path, or from stdin when
// path is "-", the conventional stdin marker for a `run` command that
// otherwise reads from disk.
func readSource(gs *globalState, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(gs.stdIn)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// newInterpreter builds one interpreter instance wired to the CLI's
// logger and a single `print` function registered through the
// host-facing façade (interp.RegisterFunction), the way an embedder
// application is expected to extend the global environment.
func newInterpreter(gs *globalState) *interp.Interpreter {
	fieldLogger := gs.logger.WithField("component", "ecmarun")
	in := interp.New(interp.WithLogger(fieldLogger))

	logFn := func(level logrus.Level) interp.HostFunc {
		return func(_ interp.Value, args []interp.Value) (interp.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.DisplayString()
			}
			fieldLogger.Log(level, strings.Join(parts, " "))
			return nil, nil
		}
	}
	_ = in.RegisterFunction("print", 1, logFn(logrus.InfoLevel))
	return in
}

// formatError renders a script-visible error the way a terminal JS
// engine's uncaught-exception banner does: the typed kind/message, then
// the activation-frame stack from jserror.JSError.StackTrace when one is
// attached.
func formatError(err error) string {
	if je, ok := err.(*jserror.JSError); ok {
		return je.StackTrace()
	}
	return err.Error()
}

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// rootCommand wraps the cobra root command and the globalState it was
// built against, so PersistentPreRunE can reach the state its flags
// configured.
type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command
}

func newRootCommand(gs *globalState) *rootCommand {
	rc := &rootCommand{gs: gs}

	root := &cobra.Command{
		Use:           "ecmarun",
		Short:         "Run ECMAScript source through the embedded interpreter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rc.applyLogFlags(cmd.Flags())
		},
	}
	root.PersistentFlags().AddFlagSet(rootPersistentFlagSet())
	root.SetOut(gs.stdOut)
	root.SetErr(gs.stdErr)
	root.SetIn(gs.stdIn)

	root.AddCommand(
		getRunCmd(gs),
		getEvalCmd(gs),
		getReplCmd(gs),
		getVersionCmd(gs),
	)

	rc.cmd = root
	return rc
}

func rootPersistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.String("log-format", "text", "log output format: text or json")
	flags.BoolP("verbose", "v", false, "enable debug-level logging")
	flags.Bool("no-color", false, "disable colored REPL output")
	return flags
}

func (rc *rootCommand) applyLogFlags(flags *pflag.FlagSet) error {
	format, err := flags.GetString("log-format")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		rc.gs.logger.Formatter = &logrus.JSONFormatter{}
	case "text":
		rc.gs.logger.Formatter = &logrus.TextFormatter{DisableColors: true}
	default:
		return fmt.Errorf("unsupported --log-format %q, want text or json", format)
	}

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		rc.gs.logger.Level = logrus.DebugLevel
	}
	return nil
}

// Execute is the single entry point main.main calls: build the
// process-backed globalState, wire the command tree, run it, and
// translate a returned error into a non-zero process exit.
func Execute() {
	gs := newGlobalState()
	rc := newRootCommand(gs)

	if err := rc.cmd.Execute(); err != nil {
		gs.logger.Error(formatError(err))
		exitFunc(1)
	}
}

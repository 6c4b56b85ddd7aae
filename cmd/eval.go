package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getEvalCmd returns the `eval` subcommand: evaluate a single inline
// expression or statement list passed on the command line, the
// lightweight counterpart to `run` for one-liners (
// eval(source)).
func getEvalCmd(gs *globalState) *cobra.Command {
	var async bool

	evalCmd := &cobra.Command{
		Use: "eval <source>",
		Short: "Evaluate an inline expression",
		Args: cobra.ExactArgs(1),
		Example: ` ecmarun eval "1 + 2"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newInterpreter(gs)

			eval := in.Eval
			if async {
				eval = in.EvalAsync
			}
			v, err := eval(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(gs.stdOut, formatValue(v))
			return nil
		},
	}

	evalCmd.Flags().BoolVar(&async, "async", false, "await a returned promise before printing")
	return evalCmd
}

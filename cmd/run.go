package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kodjodevf/js-interpreter-sub006/interp"
)

// getRunCmd returns the `run` subcommand: read a script file (or stdin,
// via "-") and evaluate it as a top-level script, draining the
// microtask queue before returning.
func getRunCmd(gs *globalState) *cobra.Command {
	var asModule bool

	runCmd := &cobra.Command{
		Use: "run [file]",
		Short: "Evaluate a script file",
		Long: `Evaluate a script file.

Pass "-" to read the script from stdin. The script runs as a top-level
program unless --module selects module mode (strict, import/export
legal, "this" is undefined).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(gs, args[0])
			if err != nil {
				return err
			}

			in := newInterpreter(gs)
			if asModule {
				exports, err := in.EvalModuleAsync(args[0], src)
				if err != nil {
					return err
				}
				fmt.Fprintln(gs.stdOut, formatModule(exports))
				return nil
			}

			v, err := in.EvalAsync(src)
			if err != nil {
				return err
			}
			fmt.Fprintln(gs.stdOut, formatValue(v))
			return nil
		},
	}

	runCmd.Flags().BoolVar(&asModule, "module", false, "evaluate the script in module mode")
	return runCmd
}

func formatValue(v interp.Value) string {
	if v == nil {
		return "undefined"
	}
	return v.DisplayString()
}

func formatModule(exports map[string]interp.Value) string {
	if len(exports) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(exports))
	for k := range exports {
		names = append(names, k)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + formatValue(exports[name])
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags; "dev" is the fallback for
// a plain `go build`/`go run`.
var version = "dev"

func getVersionCmd(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the ecmarun version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(gs.stdOut, "ecmarun v%s\n", version)
			return nil
		},
	}
}

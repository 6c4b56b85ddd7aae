// Command ecmarun embeds the interpreter and exposes it as a CLI: run a
// script file, evaluate an inline expression, or drop into an
// interactive REPL. See cmd.Execute for the command tree.
package main

import "github.com/kodjodevf/js-interpreter-sub006/cmd"

func main() {
	cmd.Execute()
}

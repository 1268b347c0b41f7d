// macro10 is the command-line interface to the assembler.
package main

import (
	"context"
	"os"

	"github.com/smoynes/macro10/internal/cli"
	"github.com/smoynes/macro10/internal/cli/cmd"
)

var (
	commands = []cli.Command{
		cmd.Assemble(),
	}
)

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}

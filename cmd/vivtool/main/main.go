package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/vivtool/vivtool/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Printfln("%v", err)

		// Show the help of the command that failed
		fmt.Fprintln(os.Stderr)
		_ = rootCmd.Help()

		os.Exit(1)
	}
}

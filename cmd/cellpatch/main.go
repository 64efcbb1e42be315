// Command cellpatch applies idempotent patch plans to Jupyter notebooks.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/cellpatch/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// Commands report their own ExitErrors; anything else came from cobra.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}

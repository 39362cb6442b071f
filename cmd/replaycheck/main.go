// Command replaycheck cross-checks the JSON output of two replay parsers.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/replaycheck/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// Commands report their own failures; cobra errors (unknown flags,
		// bad arguments) are printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}

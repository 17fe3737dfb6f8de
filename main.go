package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/startrelay/startrelay/cli"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		// A failed workflow already printed its summary.
		if !errors.Is(err, cli.ErrWorkflowFailed) {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		}
		os.Exit(1)
	}
}

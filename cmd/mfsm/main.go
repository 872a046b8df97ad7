package main

import (
	"os"

	"github.com/comalice/mfsm/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

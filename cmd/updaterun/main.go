package main

import (
	"os"

	"github.com/voyago/updaterun/cmd/updaterun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}

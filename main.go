package main

import (
	"os"

	"github.com/rogersnm/fieldwork/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}

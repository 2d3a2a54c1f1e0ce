package main

import (
	"os"

	"todoscan/cmd"
	"todoscan/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}

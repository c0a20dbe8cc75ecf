package main

import (
	"os"

	"github.com/veripay-dev/veripay/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

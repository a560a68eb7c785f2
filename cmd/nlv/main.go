package main

import (
	"os"

	"github.com/Dicklesworthstone/numberline_viewer/cmd/nlv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

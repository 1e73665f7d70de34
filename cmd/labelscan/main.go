package main

import (
	"os"

	"github.com/zombor/expiry-tracker/cmd/labelscan/cmd"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := cmd.NewRootCommand(version).Execute(); err != nil {
		os.Exit(1)
	}
}

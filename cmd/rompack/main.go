// Package main is the entry point for the rompack CLI.
package main

import (
	"os"

	"github.com/dshills/rompack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the entry point for the ricegrep CLI.
package main

import (
	"os"

	"github.com/ricegrep/ricegrep/cmd/ricegrep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

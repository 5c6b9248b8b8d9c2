// Package main is the entry point of the nesso CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/nesso/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

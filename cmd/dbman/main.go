// Package main provides the dbman command-line tool.
package main

import (
	"os"

	"github.com/yangaound/dbman/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

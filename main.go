// Package main is the entry point for the forge-release CLI.
package main

import (
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-forge-release/cmd"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

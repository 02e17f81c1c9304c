// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/modelkeep/modelkeep/cmd/modelkeep/commands"
)

var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

func main() {
	// Wipe all memguard-held key material on exit, including exits forced
	// by a signal.
	defer memguard.Purge()
	memguard.CatchInterrupt()

	root := commands.NewRootCommand(fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.Purge()
		os.Exit(1)
	}
}

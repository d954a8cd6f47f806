// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for keykapp.
//
// Usage:
//
//	go run . [flags]
//	./keykapp [flags]
//
// Appends the configured message to the configured log file. See --help
// for options.
package main

import (
	"os"

	"github.com/toeirei/keykapp/ui/cli"
)

func main() {
	// Errors are logged by the CLI before they reach us.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

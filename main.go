package main

import (
	"fmt"
	"os"

	"soundscope/cmd"
	"soundscope/internal/build"
	"soundscope/internal/log"
)

// main has two phases:
//
// 1. Startup:
//   - apply build information injected with -ldflags
//   - build the command tree, load configuration and flags
//
// 2. Command:
//   - one-off commands (info, spectrum, list) print and return
//   - the default command opens the inspector until the user quits
//
// Errors from either phase are printed and exit with status 1.
func main() {
	// Development builds carry no ldflags; that is worth a debug line only.
	if err := build.Initialize(); err != nil {
		log.Debugf("build info incomplete: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", build.Get().Name, err)
		os.Exit(1)
	}
}

// Package main provides the classmate CLI for indexing markup identifiers
// and generating collision-free class/id names.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Errors are silenced on the command tree so they print once, here.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

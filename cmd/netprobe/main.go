// Package main provides the netprobe CLI: a batch inference driver that
// evaluates chess positions from stdin with a policy/value network.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

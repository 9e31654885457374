package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/netprobe/internal/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List available network backends",
	Long: `List the registered network backends in selection order. Without an
explicit --backend, the first listed backend is used.`,
	Args: cobra.NoArgs,
	RunE: runBackends,
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

func runBackends(cmd *cobra.Command, args []string) error {
	names := backend.Backends()
	if len(names) == 0 {
		return backend.ErrNoBackend
	}
	for i, name := range names {
		if i == 0 {
			fmt.Printf("%s (default)\n", name)
			continue
		}
		fmt.Println(name)
	}
	return nil
}

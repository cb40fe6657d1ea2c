package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beeball/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in levels",
	Long:  `Shows every level embedded in the binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		printLevels(os.Stdout)
	},
}

func printLevels(w io.Writer) {
	levels := registry.List()

	if len(levels) == 0 {
		fmt.Fprintln(w, "No levels available.")
		return
	}

	fmt.Fprintln(w, "Available levels:")
	fmt.Fprintln(w)

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Fprintf(w, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(w, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, l := range levels {
		fmt.Fprintf(w, "  %-*s  %s\n", maxIDLen, l.ID, l.Title)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'beeball play <id>' to play a level.")
}

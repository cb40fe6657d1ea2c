package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/games/beeball"
)

var checkCmd = &cobra.Command{
	Use:   "check <level|file>",
	Short: "Validate a level",
	Long: `Parses a level and prints a summary of what it contains.
Warnings about capacity or undefined block types are logged to stderr.
Exits with status 1 when the level is malformed.

Examples:
  beeball check ./mylevel.dat
  beeball check level01`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnErr(err)
		src, err := openLevel(args[0])
		exitOnErr(err)
		logger, err := newLogger(os.Stderr)
		exitOnErr(err)

		exitOnErr(checkLevel(os.Stdout, src, cfg, logger))
	},
}

// checkLevel parses src and writes its summary to w.
func checkLevel(w io.Writer, src levelSource, cfg config.BeeballConfig, logger *log.Logger) error {
	f, err := beeball.LoadField(bytes.NewReader(src.Data), cfg, beeball.WithLogger(logger))
	if err != nil {
		return err
	}
	defer f.Destroy()

	title := f.Title()
	if title == "" {
		title = "(untitled)"
	}
	g := f.Grid()

	fmt.Fprintf(w, "Level:   %s\n", src.ID)
	fmt.Fprintf(w, "Title:   %s\n", title)
	fmt.Fprintf(w, "Map:     %dx%d blocks (%dx%d px)\n", g.Width(), g.Height(), f.Width(), f.Height())
	fmt.Fprintf(w, "Blocks:  %d\n", g.Live())
	fmt.Fprintf(w, "Balls:   %d\n", f.NumBalls())
	fmt.Fprintf(w, "Paddles: %d\n", f.NumPaddles())
	fmt.Fprintf(w, "Holes:   %d\n", f.NumHoles())

	if f.NumBalls() == 0 {
		fmt.Fprintln(w, "Warning: no balls, the level ends immediately")
	}
	if g.Live() == 0 {
		fmt.Fprintln(w, "Warning: no blocks, the level is cleared immediately")
	}
	if f.Width() != cfg.Canvas.Width || f.Height() != cfg.Canvas.Height {
		fmt.Fprintf(w, "Note: field differs from the %dx%d canvas\n", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	return nil
}

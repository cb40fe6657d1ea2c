// beeball is a terminal port of Beeball, a breakout game where a bee
// bounces around a field of blocks, paddles and hungry holes.
//
// Usage:
//
//	beeball list                  - List built-in levels
//	beeball play <level|file>     - Play a level
//	beeball check <level|file>    - Validate a level file
//	beeball run <level|file>      - Simulate a level headless and print a summary
//
// Global flags:
//
//	--config <path>     - Custom configuration YAML
//	--seed <value>      - RNG seed for reproducible gameplay
//	--fps <rate>        - Override the simulation rate
//	--difficulty <name> - easy, normal or hard
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/beeball/internal/config"
	_ "github.com/vovakirdan/beeball/internal/levels" // Register built-in levels
	"github.com/vovakirdan/beeball/internal/registry"
)

var (
	// Global flags
	flagConfig     string
	flagSeed       int64
	flagFPS        int
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beeball",
	Short: "Beeball - bounce a bee through a field of blocks",
	Long: `Beeball is a breakout game for the terminal. A bee bounces off paddles,
walls and blocks; holes swallow it, and falling power-ups change how it
flies.

Available commands:
  list     - Show the built-in levels
  play     - Play a level
  check    - Validate a level file
  run      - Simulate a level without a terminal

Examples:
  beeball list
  beeball play level01
  beeball play ./mylevel.dat --watch
  beeball check ./mylevel.dat
  beeball run level02 --seed 42 --ticks 6000`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time for play, 1 for run)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Simulation rate override (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
}

// loadConfig reads the configuration and applies the global flags to it.
func loadConfig() (config.BeeballConfig, error) {
	cfg, err := config.LoadBeeball(flagConfig)
	if err != nil {
		return cfg, err
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagFPS > 0 {
		cfg.Simulation.FPS = flagFPS
	}
	return cfg, cfg.Validate()
}

// newLogger creates the command logger writing to w.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "beeball",
		Level:           level,
	}), nil
}

// levelSource is a level resolved from the command line.
type levelSource struct {
	ID   string
	Data []byte
	Path string // Empty for built-in levels
}

// openLevel resolves arg as a registered level ID, falling back to a file path.
func openLevel(arg string) (levelSource, error) {
	if registry.Exists(arg) {
		l, err := registry.Open(arg)
		if err != nil {
			return levelSource{}, err
		}
		return levelSource{ID: l.ID, Data: l.Data}, nil
	}

	data, err := os.ReadFile(arg) //#nosec G304 -- user supplied level path
	if err != nil {
		if os.IsNotExist(err) {
			return levelSource{}, fmt.Errorf("%q is neither a built-in level nor a file (run 'beeball list')", arg)
		}
		return levelSource{}, fmt.Errorf("failed to read level: %w", err)
	}
	base := filepath.Base(arg)
	return levelSource{
		ID:   strings.TrimSuffix(base, filepath.Ext(base)),
		Data: data,
		Path: arg,
	}, nil
}

// assetPaths returns the sprite search path for a level: the configured
// directories, then an images directory next to a level file.
func assetPaths(cfg config.BeeballConfig, src levelSource) []string {
	paths := append([]string(nil), cfg.Assets.Paths...)
	if src.Path != "" {
		paths = append(paths, filepath.Join(filepath.Dir(src.Path), "images"))
	}
	if home := config.HomeDir(); home != "" {
		paths = append(paths, filepath.Join(home, "images"))
	}
	return paths
}

// exitOnErr prints err and exits with status 1.
func exitOnErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/beeball/internal/audio"
	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/core"
	"github.com/vovakirdan/beeball/internal/games/beeball"
	"github.com/vovakirdan/beeball/internal/platform/tui"
	"github.com/vovakirdan/beeball/internal/resource"
)

var (
	flagWatch bool
	flagMute  bool
)

var playCmd = &cobra.Command{
	Use:   "play <level|file>",
	Short: "Play a level",
	Long: `Start playing a built-in level or a level file.

Controls:
  Mouse        - Move paddles (horizontal paddles follow x, vertical follow y)
  ←/→ or A/D   - Move horizontal paddles
  ↑/↓ or W/S   - Move vertical paddles
  P/Esc        - Pause
  R            - Restart the level
  Ctrl+S       - Save a screenshot to ~/.beeball/screenshots
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Examples:
  beeball play level01
  beeball play level03 --difficulty hard
  beeball play ./mylevel.dat --watch
  beeball play level02 --mute --seed 7`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the level file whenever it changes")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound effects")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnErr(err)

	src, err := openLevel(args[0])
	exitOnErr(err)
	if flagWatch && src.Path == "" {
		exitOnErr(fmt.Errorf("--watch needs a level file, %q is built in", src.ID))
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, logOut := openLogFile()
	if logFile != nil {
		defer logFile.Close()
	}
	logger, err := newLogger(logOut)
	exitOnErr(err)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Simulation.FPS,
		Seed:     flagSeed,
	}

	images := resource.NewLoader(
		resource.WithLogger(logger),
		resource.WithPaths(assetPaths(cfg, src)...),
	)
	game := beeball.New(src.ID, src.Data, cfg, beeball.Options{Logger: logger, Images: images})

	opts := tui.Options{Logger: logger}
	if !flagMute {
		opts.Sound = newSound(cfg.Audio, logger)
		defer opts.Sound.Cleanup()
	}
	if flagWatch {
		w, werr := tui.NewLevelWatcher(src.Path)
		exitOnErr(werr)
		defer w.Close()
		opts.Watcher = w
	}

	logger.Info("starting", "level", src.ID, "seed", rt.Seed, "fps", rt.TickRate)
	if runErr := tui.Run(game, rt, opts); runErr != nil {
		exitOnErr(runErr)
	}

	st := game.State()
	switch {
	case st.Cleared:
		fmt.Printf("Level %q cleared with %d lives left.\n", game.Title(), st.Lives)
	case st.GameOver:
		fmt.Printf("Game over on %q with %d blocks left.\n", game.Title(), st.Blocks)
	}
}

// newSound opens the speaker, or returns nil when audio is off or unavailable.
func newSound(cfg config.AudioConfig, logger *log.Logger) *audio.SoundManager {
	sm := audio.NewSoundManager(cfg, audio.WithLogger(logger))
	if err := sm.Initialize(); err != nil {
		logger.Warn("audio unavailable, playing silently", "error", err)
		return nil
	}
	return sm
}

// openLogFile opens ~/.beeball/beeball.log for appending. Logs are
// discarded when the file cannot be created.
func openLogFile() (*os.File, io.Writer) {
	dir := config.HomeDir()
	if dir == "" {
		return nil, io.Discard
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, io.Discard
	}
	f, err := os.OpenFile(filepath.Join(dir, "beeball.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //#nosec G304 -- fixed location under home
	if err != nil {
		return nil, io.Discard
	}
	return f, f
}

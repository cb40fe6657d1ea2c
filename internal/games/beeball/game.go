package beeball

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/core"
)

// Game states
const (
	StatePlaying  = "playing"  // Balls in flight
	StatePaused   = "paused"   // Simulation frozen
	StateGameOver = "gameover" // No balls left
	StateCleared  = "cleared"  // Every block destroyed
	StateError    = "error"    // Level failed to load
)

// Options configures a Game.
type Options struct {
	Logger *log.Logger
	Images ImageSource
}

// Game wraps a Field with lives, pause and restart handling so a platform
// can drive it one tick at a time.
type Game struct {
	id    string
	level []byte
	cfg   config.BeeballConfig
	opts  Options

	runtime   core.RuntimeConfig
	field     *Field
	player    *Player
	rng       *SimpleRNG
	state     string
	tickCount int
	events    []Event
	err       error
}

// New creates a game for the level source. Reset must be called before the
// first Step.
func New(id string, level []byte, cfg config.BeeballConfig, opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Images == nil {
		opts.Images = noImages{}
	}
	return &Game{id: id, level: level, cfg: cfg, opts: opts, state: StateError}
}

// ID returns the level identifier.
func (g *Game) ID() string { return g.id }

// Title returns the level title, falling back to its ID.
func (g *Game) Title() string {
	if g.field != nil && g.field.Title() != "" {
		return g.field.Title()
	}
	return g.id
}

// Err returns the last level load error.
func (g *Game) Err() error { return g.err }

// Field returns the running field, or nil when the level failed to load.
func (g *Game) Field() *Field { return g.field }

// Events returns what happened during the last Step.
func (g *Game) Events() []Event { return g.events }

// Reset (re)starts the level from its source with full lives.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if err := g.load(g.level); err != nil {
		g.opts.Logger.Error("level failed to load", "level", g.id, "err", err)
	}
}

// Reload replaces the level source and restarts. When the new source is
// malformed the running level is kept and the error returned.
func (g *Game) Reload(level []byte) error {
	if err := g.load(level); err != nil {
		return err
	}
	g.level = level
	return nil
}

func (g *Game) load(level []byte) error {
	rng := NewSimpleRNG(g.runtime.Seed)
	field, err := LoadField(bytes.NewReader(level), g.cfg,
		WithLogger(g.opts.Logger),
		WithImages(g.opts.Images),
		WithRand(rng),
	)
	if err != nil {
		err = fmt.Errorf("level %s: %w", g.id, err)
		if g.field == nil {
			g.err = err
			g.state = StateError
		}
		return err
	}

	g.field.Destroy()
	g.field = field
	g.rng = rng
	g.player = NewPlayer(g.cfg.Player.Lives)
	g.state = StatePlaying
	g.tickCount = 0
	g.events = g.events[:0]
	g.err = nil
	return nil
}

// Step advances the simulation by one fixed tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.events = g.events[:0]

	if in.Has(core.ActionRestart) && g.state != StateError {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePlaying:
			g.state = StatePaused
		case StatePaused:
			g.state = StatePlaying
		}
	}

	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	g.field.Update(g.player, in)
	g.events = append(g.events, g.field.Events()...)

	switch {
	case g.field.Grid().Live() == 0:
		g.state = StateCleared
	case g.field.NumBalls() == 0:
		g.state = StateGameOver
	}

	return core.StepResult{State: g.State()}
}

// Tick returns the number of simulated ticks since the last reset.
func (g *Game) Tick() int { return g.tickCount }

// Status returns the state name.
func (g *Game) Status() string { return g.state }

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.state == StateGameOver,
		Cleared:  g.state == StateCleared,
		Paused:   g.state == StatePaused,
	}
	if g.player != nil {
		st.Lives = g.player.Lives
	}
	if g.field != nil && g.field.Grid() != nil {
		st.Blocks = g.field.Grid().Live()
	}
	return st
}

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beeball/internal/audio"
	"github.com/vovakirdan/beeball/internal/config"
	"github.com/vovakirdan/beeball/internal/core"
	"github.com/vovakirdan/beeball/internal/games/beeball"
)

// holdWindow is how long a movement key counts as held after its last
// press or repeat. Terminals report no key release.
const holdWindow = 150 * time.Millisecond

// Options configures the play screen.
type Options struct {
	Sound   *audio.SoundManager // nil plays silently
	Watcher *LevelWatcher       // nil disables hot reload
	Logger  *log.Logger
}

// Model is the Bubble Tea model for playing a level.
type Model struct {
	game       *beeball.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	held       map[core.Action]time.Time
	gameState  core.GameState
	keys       KeyMap
	help       help.Model
	sound      *audio.SoundManager
	watcher    *LevelWatcher
	logger     *log.Logger
	now        func() time.Time
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game *beeball.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		held:       make(map[core.Action]time.Time),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		sound:      opts.Sound,
		watcher:    opts.Watcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)

	return tea.Batch(tickCmd(m.config.TickRate), waitForLevelChange(m.watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case LevelChangedMsg:
		return m.handleLevelChanged(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.config.ScreenW, m.fieldRows())
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action == core.ActionNone {
		return m, nil
	}

	m.inputFrame.Set(action)
	if isMovement(action) {
		m.held[action] = m.now()
		delete(m.held, opposite(action))
	}
	return m, nil
}

// handleMouse turns pointer motion over the field into pointer input.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return m, nil
	}
	l := m.game.Layout(m.screen.Width(), m.screen.Height())
	if l.TooSmall {
		return m, nil
	}
	x, y := l.ToField(msg.X, msg.Y)
	m.inputFrame.Point(x, y)
	return m, nil
}

// handleResize processes window resize events. The field keeps its size
// in pixels; only the mapping to cells changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, m.fieldRows())
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	now := m.now()
	for a, t := range m.held {
		if now.Sub(t) > holdWindow {
			delete(m.held, a)
			continue
		}
		m.inputFrame.Hold(a)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	for _, s := range tickSounds(m.game.Events()) {
		m.sound.Play(s)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// handleLevelChanged reloads the level after its file was edited. A level
// that fails to parse is logged and the running one is kept.
func (m Model) handleLevelChanged(msg LevelChangedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err != nil:
		m.logger.Warn("level watch failed", "path", msg.Path, "error", msg.Err)
	default:
		if err := m.game.Reload(msg.Data); err != nil {
			m.logger.Warn("level reload rejected", "path", msg.Path, "error", err)
		} else {
			m.logger.Info("level reloaded", "path", msg.Path, "title", m.game.Title())
			clear(m.held)
		}
	}
	return m, waitForLevelChange(m.watcher)
}

// fieldRows is the screen height left after the help footer.
func (m Model) fieldRows() int {
	footer := 1
	if m.help.ShowAll {
		footer = len(m.keys.FullHelp()[0])
	}
	return max(m.config.ScreenH-footer, 1)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	base := config.HomeDir()
	if base == "" {
		return
	}
	dir := filepath.Join(base, "screenshots")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Run starts the Bubble Tea program with the given game.
func Run(game *beeball.Game, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	_, err := p.Run()
	return err
}

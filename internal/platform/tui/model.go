package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

// Game is what the terminal platform drives. A game holds pure logic; the
// platform owns input mapping, timing and drawing to the terminal.
type Game interface {
	// StageID keys stored runs and screenshots.
	StageID() string

	// Reset starts a new run. Called at start, on restart and when a resize
	// cannot be followed.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Recorder is implemented by games that can hand back a replay of the
// current run.
type Recorder interface {
	Recording() *replay.Recording
}

// Resizer is implemented by games that can follow a terminal resize
// without restarting.
type Resizer interface {
	Resize(w, h int)
}

// GameModel is the Bubble Tea model for a single running game.
type GameModel struct {
	game      Game
	screen    *core.Screen
	store     *storage.Store
	logger    *log.Logger
	config    core.RuntimeConfig
	input     *HeldInput
	keyMapper *KeyMapper
	gameState core.GameState
	loop      uint64
	clock     *sim.Clock
	lastTick  time.Time

	quitting   bool
	backToMenu bool
	quitOnBack bool // no menu to return to
	runSaved   bool // Whether the finished run has been stored
}

// NewGameModel creates a new game model. store and logger may be nil.
func NewGameModel(game Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.Default()
	}

	return GameModel{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		logger:    logger,
		config:    cfg,
		input:     NewHeldInput(DefaultHoldTicks * cfg.TickRate / 60),
		keyMapper: NewKeyMapper(),
		loop:      nextLoop(),
		clock:     sim.NewClock(cfg.TickRate, 0),
	}
}

// Init starts the game and the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick(msg.Time)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys
	switch {
	case key.Matches(msg, keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Debug("screenshot saved", "path", path)
		}
		return m, nil
	case key.Matches(msg, keys.AutoFire):
		m.input.ToggleAutoFire()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.saveRun()
			m.backToMenu = true
			if m.quitOnBack {
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, nil
	case core.ActionRestart:
		if !m.gameState.GameOver {
			return m, nil
		}
	}

	m.input.Press(action)
	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(Resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick runs the ticks that are due since the previous TickMsg. A
// message without a timestamp runs exactly one.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	steps := 1
	if !now.IsZero() {
		if !m.lastTick.IsZero() {
			steps = m.clock.Advance(now.Sub(m.lastTick))
		}
		m.lastTick = now
	}

	for range steps {
		frame := m.input.Frame()

		// Restart with a fresh seed
		if frame.Has(core.ActionRestart) && m.gameState.GameOver {
			m.config.Seed = time.Now().UnixNano()
			m.game.Reset(m.config)
			m.gameState = m.game.State()
			m.runSaved = false
			m.input.Release()
			m.clock.Reset()
			break
		}

		result := m.game.Step(frame)
		m.gameState = result.State
		if result.Hit {
			m.logger.Debug("player hit", "life", m.gameState.Life)
		}

		if m.gameState.GameOver {
			m.saveRun()
			break
		}
	}

	return m, tickCmd(m.config.TickRate, m.loop)
}

// saveRun stores the current run once. Runs that never started are skipped.
func (m *GameModel) saveRun() {
	if m.runSaved || m.store == nil {
		return
	}

	if rec, ok := m.game.(Recorder); ok {
		r := rec.Recording()
		if r == nil || len(r.Inputs) == 0 {
			return
		}
		run, err := m.store.SaveRecording(r, m.gameState.Score)
		if err != nil {
			m.logger.Error("could not save run", "error", err)
			return
		}
		m.logger.Info("run saved", "id", run.ID, "stage", run.StageID, "score", run.Score, "kills", run.Kills, "cleared", run.Cleared)
	} else if m.gameState.GameOver && m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(m.game.StageID(), m.gameState.Score); err != nil {
			m.logger.Error("could not save score", "error", err)
			return
		}
	}
	m.runSaved = true
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, config.AppDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := m.game.StageID()
	if name == "" {
		name = "danmaku"
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, timestamp))
	return path, os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last observed game state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program for a single game.
func Run(game Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, store, cfg, logger)
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

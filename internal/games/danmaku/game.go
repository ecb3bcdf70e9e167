// Package danmaku adapts the bullet-hell simulation to the terminal platform:
// it maps platform actions to simulation input, keeps score and draws the
// world into a character grid.
package danmaku

import (
	"fmt"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
	"github.com/vovakirdan/tui-danmaku/internal/replay"
)

// KillScore is awarded per destroyed enemy; each whole second survived adds one.
const KillScore = 100

// GameState constants
const (
	StatePlaying  = "playing"
	StatePaused   = "paused"
	StateGameOver = "gameover"
	StateCleared  = "cleared"
	StateError    = "error" // config or stage failed to load
)

// Options pins the configuration and stage of a run. A nil Config uses the
// embedded defaults and a nil Stage the default builtin stage.
type Options struct {
	Config *config.DanmakuConfig
	Stage  *catalog.Stage
}

// Game drives one danmaku run for the terminal platform.
type Game struct {
	opts Options

	runtime core.RuntimeConfig
	cfg     config.DanmakuConfig
	stage   catalog.Stage
	setup   replay.Setup
	world   *sim.World
	frames  []replay.Frame // input fed to the world this run
	loadErr error

	state    string
	score    int
	hitFlash int // ticks left to flash the player after taking damage

	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// NewWithOptions creates a game with a fixed config and stage.
func NewWithOptions(opts Options) *Game {
	return &Game{opts: opts}
}

// StageID returns the ID of the loaded stage.
func (g *Game) StageID() string { return g.stage.ID }

// Reset loads configuration and the stage and starts a new run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.loadErr = nil

	g.minScreenW = 40
	g.minScreenH = 16
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH

	cfg, err := g.loadConfig()
	if err != nil {
		g.fail(err)
		return
	}
	g.cfg = cfg

	stage, err := g.loadStage()
	if err != nil {
		g.fail(err)
		return
	}
	g.stage = stage

	if runtime.TickRate > 0 {
		cfg.World.TickRate = runtime.TickRate
	}
	setup, err := replay.NewSetup(cfg, stage.ID, stage.Descriptors, runtime.Seed)
	if err != nil {
		g.fail(err)
		return
	}
	g.setup = setup
	g.world = setup.NewWorld()
	g.frames = g.frames[:0]

	g.state = StatePlaying
	g.score = 0
	g.hitFlash = 0
}

// Resize adapts to a new terminal size without restarting the run.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.screenTooSmall = w < g.minScreenW || h < g.minScreenH
}

func (g *Game) loadConfig() (config.DanmakuConfig, error) {
	cfg := config.DefaultDanmakuConfig()
	if g.opts.Config != nil {
		cfg = *g.opts.Config
	}
	return cfg, cfg.Validate()
}

func (g *Game) loadStage() (catalog.Stage, error) {
	if g.opts.Stage != nil {
		return *g.opts.Stage, nil
	}
	return catalog.Default()
}

func (g *Game) fail(err error) {
	g.loadErr = err
	g.world = nil
	g.state = StateError
}

// Step advances the simulation by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.world == nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && (g.state == StateGameOver || g.state == StateCleared) {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		switch g.state {
		case StatePaused:
			g.state = StatePlaying
		case StatePlaying:
			g.state = StatePaused
		}
	}

	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	si := sim.Input{
		Move: in.Axis(),
		Fire: in.Has(core.ActionFire),
	}
	g.frames = append(g.frames, replay.FrameOf(si))
	res := g.world.Step(si)

	if res.PlayerHits > 0 {
		g.hitFlash = g.world.Tuning().TickRate / 4
	} else if g.hitFlash > 0 {
		g.hitFlash--
	}

	g.score = Score(g.world.Kills(), g.world.Elapsed())

	switch {
	case res.GameOver:
		g.state = StateGameOver
	case res.Cleared:
		g.state = StateCleared
	}

	return core.StepResult{State: g.State(), Hit: res.PlayerHits > 0}
}

// Score combines kills and survival time.
func Score(kills int, elapsedSeconds float64) int {
	return kills*KillScore + int(elapsedSeconds)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.score,
		GameOver: g.state == StateGameOver || g.state == StateCleared || g.state == StateError,
		Cleared:  g.state == StateCleared,
		Paused:   g.state == StatePaused,
	}
	if g.world != nil {
		st.Kills = g.world.Kills()
		st.Life = g.world.Player().HitPoints()
	}
	return st
}

// World exposes the running simulation, or nil if loading failed.
func (g *Game) World() *sim.World { return g.world }

// Recording captures the run so far, or nil if loading failed.
func (g *Game) Recording() *replay.Recording {
	if g.world == nil {
		return nil
	}
	return replay.New(g.setup, append([]replay.Frame(nil), g.frames...), g.world.Summary())
}

// Stage returns the loaded stage.
func (g *Game) Stage() catalog.Stage { return g.stage }

// Err returns the load error that stopped the run, if any.
func (g *Game) Err() error { return g.loadErr }

// Status is a one-line description of the run for logs.
func (g *Game) Status() string {
	if g.world == nil {
		return fmt.Sprintf("%s: %v", g.state, g.loadErr)
	}
	return fmt.Sprintf("%s stage=%s tick=%d kills=%d life=%d score=%d",
		g.state, g.stage.ID, g.world.Tick(), g.world.Kills(), g.world.Player().HitPoints(), g.score)
}

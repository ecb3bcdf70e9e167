package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
	"github.com/vovakirdan/tui-danmaku/internal/storage"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(&strings.Builder{}, log.Options{})
}

func duelStage() *catalog.Stage {
	return &catalog.Stage{
		ID:   "duel",
		Name: "Duel",
		Descriptors: []sim.Descriptor{
			{Tag: sim.TagPlayer, Position: core.V(0, 0), Size: core.V(8, 8), Life: 10, MaxCollisionTimeout: 0.5},
			{Tag: sim.TagEnemy, Position: core.V(0, 10), Size: core.V(8, 8), Life: 1, MaxCollisionTimeout: 0.2},
		},
	}
}

func newTestModel(t *testing.T, store *storage.Store) GameModel {
	t.Helper()
	cfg := config.DefaultDanmakuConfig()
	game := danmaku.NewWithOptions(danmaku.Options{Config: &cfg, Stage: duelStage()})
	m := NewGameModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 9}, quietLogger())
	m.Init()
	return m
}

func update(t *testing.T, m GameModel, msg tea.Msg) GameModel {
	t.Helper()
	next, _ := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm
}

func TestGameModelClearsAndSavesRun(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store)
	m = update(t, m, runeKey('z'))
	for i := 0; i < 10 && !m.State().GameOver; i++ {
		m = update(t, m, TickMsg{Loop: m.loop})
	}

	if !m.State().Cleared {
		t.Fatalf("duel not won: %+v", m.State())
	}
	runs, err := store.RecentRuns("duel", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || !runs[0].Cleared || runs[0].Kills != 1 {
		t.Fatalf("stored runs = %+v", runs)
	}

	// Further ticks after the end must not store the run again.
	m = update(t, m, TickMsg{Loop: m.loop})
	if runs, _ := store.RecentRuns("duel", 10); len(runs) != 1 {
		t.Errorf("run stored %d times", len(runs))
	}

	m = update(t, m, runeKey('r'))
	m = update(t, m, TickMsg{Loop: m.loop})
	if m.State().GameOver || m.runSaved {
		t.Errorf("restart did not start a fresh run: %+v", m.State())
	}
}

func TestGameModelIgnoresForeignTicks(t *testing.T) {
	m := newTestModel(t, nil)
	game := m.game.(*danmaku.Game)

	m = update(t, m, TickMsg{Loop: m.loop + 1000})
	if game.World().Tick() != 0 {
		t.Errorf("foreign tick advanced the world to %d", game.World().Tick())
	}
	m = update(t, m, TickMsg{Loop: m.loop})
	if game.World().Tick() != 1 {
		t.Errorf("own tick did not advance the world: %d", game.World().Tick())
	}
}

func TestGameModelCatchesUpToWallTime(t *testing.T) {
	m := newTestModel(t, nil)
	game := m.game.(*danmaku.Game)
	step := time.Second / 60
	t0 := time.Unix(1000, 0)

	m = update(t, m, TickMsg{Time: t0, Loop: m.loop})
	if game.World().Tick() != 1 {
		t.Fatalf("first tick ran %d steps", game.World().Tick())
	}

	// a late message runs every tick that is due
	m = update(t, m, TickMsg{Time: t0.Add(3 * step), Loop: m.loop})
	if game.World().Tick() != 4 {
		t.Errorf("late tick: world at %d, want 4", game.World().Tick())
	}

	// an early message runs none
	m = update(t, m, TickMsg{Time: t0.Add(3*step + step/4), Loop: m.loop})
	if game.World().Tick() != 4 {
		t.Errorf("early tick: world at %d, want 4", game.World().Tick())
	}

	// a long stall is capped
	update(t, m, TickMsg{Time: t0.Add(10 * time.Second), Loop: m.loop})
	if got := game.World().Tick(); got != 4+sim.DefaultMaxCatchUp {
		t.Errorf("stalled tick: world at %d, want %d", got, 4+sim.DefaultMaxCatchUp)
	}
}

func TestGameModelBackOnlyWhenStopped(t *testing.T) {
	m := newTestModel(t, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("back left a running game")
	}

	m = update(t, m, runeKey('p'))
	m = update(t, m, TickMsg{Loop: m.loop})
	if !m.State().Paused {
		t.Fatal("pause key did not pause")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("back ignored while paused")
	}
}

func TestGameModelQuit(t *testing.T) {
	m := newTestModel(t, nil)
	m = update(t, m, runeKey('q'))
	if !m.IsQuitting() || m.View() != "" {
		t.Error("quit did not stop the model")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawText(0, 0, "hi")
	s.SetColored(3, 1, '*', core.ColorEnemyShot)

	out := RenderScreen(s)
	if !strings.Contains(out, "hi") || !strings.Contains(out, "*") {
		t.Errorf("RenderScreen() = %q", out)
	}
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Errorf("got %d lines, want 2", len(lines))
	}
}

func TestSessionMenuToScoreboardAndBack(t *testing.T) {
	stages, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	m := NewSessionModel(SessionOptions{Stages: stages, Logger: quietLogger()}, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(SessionModel)
	if m.scoreboard == nil {
		t.Fatal("tab did not open the board")
	}
	if !strings.Contains(m.View(), "BEST RUNS") {
		t.Error("board not rendered")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SessionModel)
	if m.scoreboard != nil || !strings.Contains(m.View(), "Select a stage") {
		t.Error("back did not return to the menu")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(SessionModel)
	if m.gameModel == nil {
		t.Fatal("enter did not start a run")
	}
}

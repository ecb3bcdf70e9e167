package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg DanmakuConfig
	if err := yaml.Unmarshal(defaultDanmakuYAML, &cfg); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if cfg != DefaultDanmakuConfig() {
		t.Errorf("embedded defaults drifted from DefaultDanmakuConfig:\n%+v\n%+v", cfg, DefaultDanmakuConfig())
	}
}

func TestDefaultTuningMatchesSimulation(t *testing.T) {
	if got, want := DefaultDanmakuConfig().Tuning(), sim.DefaultTuning(); got != want {
		t.Errorf("Tuning() = %+v\nwant %+v", got, want)
	}
}

func TestLoadDanmakuCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "player:\n  life: 3\nenemy:\n  burst_count: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadDanmaku(path)
	if err != nil {
		t.Fatalf("LoadDanmaku() error: %v", err)
	}
	if cfg.Player.Life != 3 || cfg.Enemy.BurstCount != 2 {
		t.Errorf("overrides not applied: life=%d burst=%d", cfg.Player.Life, cfg.Enemy.BurstCount)
	}
	// untouched keys keep their defaults
	if cfg.World.TickRate != 60 || cfg.Enemy.Shot.Count != 7 {
		t.Errorf("defaults lost: tick=%d count=%d", cfg.World.TickRate, cfg.Enemy.Shot.Count)
	}
}

func TestLoadDanmakuErrors(t *testing.T) {
	if _, err := LoadDanmaku(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom path did not fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("world: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDanmaku(path); err == nil {
		t.Error("malformed yaml did not fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*DanmakuConfig)
		wantErr bool
	}{
		{"defaults", func(*DanmakuConfig) {}, false},
		{"zero tick rate", func(c *DanmakuConfig) { c.World.TickRate = 0 }, true},
		{"negative width", func(c *DanmakuConfig) { c.World.Width = -1 }, true},
		{"dead player", func(c *DanmakuConfig) { c.Player.Life = 0 }, true},
		{"negative burst", func(c *DanmakuConfig) { c.Enemy.BurstCount = -1 }, true},
		{"bad progression", func(c *DanmakuConfig) { c.Difficulty.Progression.Type = "score" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDanmakuConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDanmakuPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		life    int32
		burst   int
		enabled bool
		initial float64
	}{
		{DifficultyEasy, 15, 0, true, 0.0},
		{DifficultyNormal, 10, 0, true, 0.3},
		{DifficultyHard, 5, 3, true, 0.7},
		{DifficultyFixed, 10, 0, false, 0.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultDanmakuConfig()
			ApplyDanmakuPreset(&cfg, tt.preset)
			if cfg.Player.Life != tt.life || cfg.Enemy.BurstCount != tt.burst {
				t.Errorf("life=%d burst=%d, want %d %d", cfg.Player.Life, cfg.Enemy.BurstCount, tt.life, tt.burst)
			}
			if cfg.Difficulty.Enabled != tt.enabled || cfg.Difficulty.InitialLevel != tt.initial {
				t.Errorf("difficulty = %+v", cfg.Difficulty)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, err := ParsePreset(""); err != nil || p != DifficultyNormal {
		t.Errorf("ParsePreset(\"\") = %q, %v", p, err)
	}
	if p, err := ParsePreset("hard"); err != nil || p != DifficultyHard {
		t.Errorf("ParsePreset(hard) = %q, %v", p, err)
	}
	if _, err := ParsePreset("nightmare"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ParsePreset(nightmare) error = %v", err)
	}
}

func TestDifficultyManagerCadence(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0,
		Progression:  ProgressionConfig{Type: "kills", MaxAt: 4},
		Scaling:      ScalingConfig{CadenceReduction: 0.5},
	}
	dm := NewDifficultyManager(cfg)

	tests := []struct {
		kills int
		want  float32
	}{
		{0, 0.5},
		{2, 0.375},
		{4, 0.25},
		{40, 0.25},
	}
	for _, tt := range tests {
		if got := dm.EnemyCadence(0.5, tt.kills, 0); got != tt.want {
			t.Errorf("EnemyCadence(kills=%d) = %v, want %v", tt.kills, got, tt.want)
		}
	}

	cfg.Enabled = false
	if got := NewDifficultyManager(cfg).EnemyCadence(0.5, 4, 0); got != 0.5 {
		t.Errorf("disabled manager changed cadence to %v", got)
	}

	// never below the floor
	hard := NewDifficultyManager(DifficultyConfig{Enabled: true, InitialLevel: 1, Progression: ProgressionConfig{Type: "time", MaxAt: 10}, Scaling: ScalingConfig{CadenceReduction: 1}})
	if got := hard.EnemyCadence(0.5, 0, 0); got != minCadence {
		t.Errorf("cadence = %v, want floor %v", got, float32(minCadence))
	}
}

func TestDifficultyManagerBursts(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:     ScalingConfig{BurstIncrease: 2},
	})

	tests := []struct {
		tick uint64
		want int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{99, 2},
		{100, 3},
		{1000, 3},
	}
	for _, tt := range tests {
		if got := dm.EnemyBursts(1, 0, tt.tick); got != tt.want {
			t.Errorf("EnemyBursts(tick=%d) = %d, want %d", tt.tick, got, tt.want)
		}
	}

	if !dm.Progressive() {
		t.Error("time progression not progressive")
	}
	still := NewDifficultyManager(DifficultyConfig{Enabled: true, InitialLevel: 0.5, Progression: ProgressionConfig{Type: "none"}})
	if still.Progressive() || still.Level(100, 100000) != 0.5 {
		t.Errorf("level without progression = %v", still.Level(100, 100000))
	}
}

func TestPacer(t *testing.T) {
	cfg := DefaultDanmakuConfig()
	if cfg.Pacer() != nil {
		t.Error("default config should not pace enemy fire")
	}
	ApplyDanmakuPreset(&cfg, DifficultyHard)
	if cfg.Pacer() == nil {
		t.Error("hard preset returned no pacer")
	}
}

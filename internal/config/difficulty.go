package config

import "math"

// minCadence keeps enemy fire from degenerating into one volley per tick.
const minCadence = 0.05

// DifficultyManager escalates enemy fire with kills or elapsed ticks.
// It implements sim.Pacer.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// Progressive reports whether the level moves during a run.
func (d *DifficultyManager) Progressive() bool {
	switch d.cfg.Progression.Type {
	case "kills", "time":
		return d.cfg.Enabled
	}
	return false
}

// Level returns the difficulty in [0, 1]. It starts at the initial level
// and reaches 1 at Progression.MaxAt kills or ticks.
func (d *DifficultyManager) Level(kills int, ticks uint64) float64 {
	if !d.Progressive() {
		return d.initialLevel
	}

	maxAt := float64(max(d.cfg.Progression.MaxAt, 1))
	var progress float64
	if d.cfg.Progression.Type == "kills" {
		progress = float64(kills) / maxAt
	} else {
		progress = float64(ticks) / maxAt
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// EnemyCadence shortens the enemy volley interval as the level rises.
func (d *DifficultyManager) EnemyCadence(base float32, kills int, tick uint64) float32 {
	level := d.Level(kills, tick)
	c := float64(base) * (1.0 - level*d.cfg.Scaling.CadenceReduction)
	return float32(math.Max(c, minCadence))
}

// EnemyBursts adds up to Scaling.BurstIncrease random bullets per volley,
// one more for each equal step of the level.
func (d *DifficultyManager) EnemyBursts(base int, kills int, tick uint64) int {
	level := d.Level(kills, tick)
	return base + int(math.Floor(level*float64(d.cfg.Scaling.BurstIncrease)))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

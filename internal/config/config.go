// Package config provides YAML-based game configuration loading and
// difficulty management for the danmaku game.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

// DanmakuConfig contains all configuration for the danmaku game.
type DanmakuConfig struct {
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Enemy      EnemyConfig      `yaml:"enemy"`
	Bullet     BulletConfig     `yaml:"bullet"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines the simulated play field.
type WorldConfig struct {
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
	TickRate int     `yaml:"tick_rate"`
}

// PlayerConfig defines the player actor and its weapon.
type PlayerConfig struct {
	Life            int32      `yaml:"life"`
	Size            [2]float32 `yaml:"size"`
	Start           [2]float32 `yaml:"start"`
	Invulnerability float32    `yaml:"invulnerability"` // seconds after a hit
	InputGain       float32    `yaml:"input_gain"`
	Shot            ShotConfig `yaml:"shot"`
}

// EnemyConfig defines the enemy weapon.
type EnemyConfig struct {
	Shot       ShotConfig `yaml:"shot"`
	BurstCount int        `yaml:"burst_count"` // extra random bullets per volley
}

// ShotConfig defines one circle volley.
type ShotConfig struct {
	Cadence  float32 `yaml:"cadence"` // seconds between volleys
	Count    int     `yaml:"count"`
	ArcStart float32 `yaml:"arc_start"` // fractions of a full turn
	ArcEnd   float32 `yaml:"arc_end"`
	Speed    float32 `yaml:"speed"`
	Spin     float32 `yaml:"spin"` // radians added to facing per tick
}

// BulletConfig defines bullet sizes and lifetimes.
type BulletConfig struct {
	Life          int32      `yaml:"life"` // ticks
	CircleSize    [2]float32 `yaml:"circle_size"`
	BurstSize     [2]float32 `yaml:"burst_size"`
	BurstMaxSpeed float32    `yaml:"burst_max_speed"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "kills", "time", or "none"
	MaxAt int    `yaml:"max_at"` // kills/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	CadenceReduction float64 `yaml:"cadence_reduction"` // fraction of enemy cadence removed at max difficulty
	BurstIncrease    int     `yaml:"burst_increase"`    // extra random bullets per volley at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ErrUnknownPreset is returned by ParsePreset.
var ErrUnknownPreset = errors.New("unknown difficulty preset")

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Validate rejects configurations the simulation cannot run.
func (c DanmakuConfig) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.World.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.World.TickRate))
	}
	if c.Player.Life <= 0 {
		errs = append(errs, fmt.Errorf("player life must be positive, got %d", c.Player.Life))
	}
	if c.Player.Shot.Count < 0 || c.Enemy.Shot.Count < 0 || c.Enemy.BurstCount < 0 || c.Difficulty.Scaling.BurstIncrease < 0 {
		errs = append(errs, errors.New("shot counts must not be negative"))
	}
	if c.Bullet.Life <= 0 {
		errs = append(errs, fmt.Errorf("bullet life must be positive, got %d", c.Bullet.Life))
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "kills", "time":
	default:
		errs = append(errs, fmt.Errorf("unknown progression type %q", c.Difficulty.Progression.Type))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid danmaku config: %w", err)
	}
	return nil
}

// Tuning converts the configuration into simulation constants.
func (c DanmakuConfig) Tuning() sim.Tuning {
	return sim.Tuning{
		ScreenSize: core.V(c.World.Width, c.World.Height),
		TickRate:   c.World.TickRate,

		PlayerLife:            c.Player.Life,
		PlayerSize:            vec(c.Player.Size),
		PlayerStart:           vec(c.Player.Start),
		PlayerInvulnerability: c.Player.Invulnerability,
		InputGain:             c.Player.InputGain,

		PlayerShotCadence: c.Player.Shot.Cadence,
		PlayerShotCount:   c.Player.Shot.Count,
		PlayerShotArc:     sim.Arc{Start: c.Player.Shot.ArcStart, End: c.Player.Shot.ArcEnd},
		PlayerShotSpeed:   c.Player.Shot.Speed,

		EnemyShotCadence: c.Enemy.Shot.Cadence,
		EnemyShotCount:   c.Enemy.Shot.Count,
		EnemyShotArc:     sim.Arc{Start: c.Enemy.Shot.ArcStart, End: c.Enemy.Shot.ArcEnd},
		EnemyShotSpeed:   c.Enemy.Shot.Speed,
		EnemyShotSpin:    c.Enemy.Shot.Spin,
		EnemyBurstCount:  c.Enemy.BurstCount,

		BulletLife:       c.Bullet.Life,
		CircleBulletSize: vec(c.Bullet.CircleSize),
		BurstBulletSize:  vec(c.Bullet.BurstSize),
		BurstMaxSpeed:    c.Bullet.BurstMaxSpeed,
	}
}

// Pacer returns the escalation schedule for the configured difficulty, or
// nil when difficulty is disabled.
func (c DanmakuConfig) Pacer() sim.Pacer {
	if !c.Difficulty.Enabled {
		return nil
	}
	return NewDifficultyManager(c.Difficulty)
}

func vec(v [2]float32) core.Vec2 {
	return core.V(v[0], v[1])
}

package config

import (
	_ "embed"
	"math"
)

//go:embed defaults/danmaku.yaml
var defaultDanmakuYAML []byte

// DefaultDanmakuConfig returns the default danmaku configuration.
func DefaultDanmakuConfig() DanmakuConfig {
	return DanmakuConfig{
		World: WorldConfig{
			Width:    800,
			Height:   600,
			TickRate: 60,
		},
		Player: PlayerConfig{
			Life:            10,
			Size:            [2]float32{8, 8},
			Start:           [2]float32{0, -300},
			Invulnerability: 0.5,
			InputGain:       10000,
			Shot: ShotConfig{
				Cadence:  0.5,
				Count:    5,
				ArcStart: -0.4,
				ArcEnd:   0.0,
				Speed:    100,
			},
		},
		Enemy: EnemyConfig{
			Shot: ShotConfig{
				Cadence:  0.5,
				Count:    7,
				ArcStart: 0.0,
				ArcEnd:   1.0,
				Speed:    12.5,
				Spin:     0.01,
			},
		},
		Bullet: BulletConfig{
			Life:          math.MaxInt32,
			CircleSize:    [2]float32{4, 4},
			BurstSize:     [2]float32{3, 3},
			BurstMaxSpeed: 50,
		},
		Difficulty: DifficultyConfig{
			Enabled:      false,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "kills",
				MaxAt: 5,
			},
			Scaling: ScalingConfig{
				CadenceReduction: 0.6,
				BurstIncrease:    2,
			},
		},
	}
}

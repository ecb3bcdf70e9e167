package sim

import (
	"math"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// Arc is a fraction-of-a-turn range used by circle patterns.
type Arc struct {
	Start float32
	End   float32
}

// Tuning holds every gameplay constant the simulation reads.
// The config package builds it from YAML; DefaultTuning mirrors the shipped defaults.
type Tuning struct {
	ScreenSize core.Vec2 // world extent, centered on the origin
	TickRate   int

	PlayerLife            int32
	PlayerSize            core.Vec2
	PlayerStart           core.Vec2
	PlayerInvulnerability float32
	InputGain             float32 // velocity = axis * dt * InputGain

	PlayerShotCadence float32
	PlayerShotCount   int
	PlayerShotArc     Arc
	PlayerShotSpeed   float32

	EnemyShotCadence float32
	EnemyShotCount   int
	EnemyShotArc     Arc
	EnemyShotSpeed   float32
	EnemyShotSpin    float32
	EnemyBurstCount  int

	BulletLife       int32
	CircleBulletSize core.Vec2
	BurstBulletSize  core.Vec2
	BurstMaxSpeed    float32
}

// DefaultTuning returns the stock gameplay constants.
func DefaultTuning() Tuning {
	const shotSpeed = 100.0
	return Tuning{
		ScreenSize: core.V(800, 600),
		TickRate:   60,

		PlayerLife:            10,
		PlayerSize:            core.V(8, 8),
		PlayerStart:           core.V(0, -300),
		PlayerInvulnerability: 0.5,
		InputGain:             10000,

		PlayerShotCadence: 0.5,
		PlayerShotCount:   5,
		PlayerShotArc:     Arc{Start: -0.4, End: 0},
		PlayerShotSpeed:   shotSpeed,

		EnemyShotCadence: 0.5,
		EnemyShotCount:   7,
		EnemyShotArc:     Arc{Start: 0, End: 1},
		EnemyShotSpeed:   shotSpeed / 8,
		EnemyShotSpin:    0.01,
		EnemyBurstCount:  0,

		BulletLife:       math.MaxInt32,
		CircleBulletSize: core.V(4, 4),
		BurstBulletSize:  core.V(3, 3),
		BurstMaxSpeed:    50,
	}
}

// Dt returns the fixed step in seconds.
func (t Tuning) Dt() float32 {
	if t.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1 / float32(t.TickRate)
}

// Descriptor is one fully parsed catalog entry.
type Descriptor struct {
	Tag                 Tag       `msgpack:"tag" yaml:"-"`
	Position            core.Vec2 `msgpack:"pos" yaml:"-"`
	Size                core.Vec2 `msgpack:"size" yaml:"-"`
	Facing              float32   `msgpack:"facing" yaml:"-"`
	Velocity            core.Vec2 `msgpack:"vel" yaml:"-"`
	AngularVelocity     float32   `msgpack:"ang_vel" yaml:"-"`
	Life                int32     `msgpack:"life" yaml:"-"`
	MaxCollisionTimeout float32   `msgpack:"max_collision_timeout" yaml:"-"`
}

// Actor builds the actor the descriptor describes.
func (d Descriptor) Actor() Actor {
	return NewActor(d.Tag, d.Position, d.Size, d.Facing, d.Velocity, d.AngularVelocity, d.Life, d.MaxCollisionTimeout)
}

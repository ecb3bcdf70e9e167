package sim

import (
	"math"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// CircleBullets spawns count bullets spread over arc, scaled by a full turn.
// Bullet i leaves at angle (i/count + arc.Start) * (arc.End - arc.Start) * 2π,
// one unit away from origin, facing and moving along that angle.
func CircleBullets(origin core.Vec2, count int, arc Arc, speed, angVel float32, size core.Vec2, life int32) []Actor {
	if count <= 0 {
		return nil
	}

	bullets := make([]Actor, 0, count)
	for i := 0; i < count; i++ {
		angle := (float32(i)/float32(count) + arc.Start) * (arc.End - arc.Start) * (2 * math.Pi)
		dir := core.FromAngle(angle)
		bullets = append(bullets, CreateBullet(
			origin.Add(dir),
			size,
			angle,
			dir.Mul(speed),
			angVel,
			life,
		))
	}
	return bullets
}

// RandomBurst spawns count bullets jittered within one unit of origin with
// random velocities below maxSpeed.
//
// Each bullet draws exactly four values from rng in a fixed order: spawn
// angle, spawn distance, velocity angle, velocity magnitude.
func RandomBurst(rng core.Float32Source, origin core.Vec2, count int, maxSpeed float32, size core.Vec2, life int32) []Actor {
	if count <= 0 {
		return nil
	}

	bullets := make([]Actor, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float32() * 2 * math.Pi
		dist := rng.Float32()
		vel := core.RandomVec(rng, maxSpeed)
		bullets = append(bullets, CreateBullet(
			origin.Add(core.FromAngle(angle).Mul(dist)),
			size,
			angle,
			vel,
			0,
			life,
		))
	}
	return bullets
}

// Package sim is the deterministic bullet-hell simulation: actors, spawn
// patterns, collision resolution, actor groups and the fixed-step world.
// It has no platform dependencies and never logs.
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// MaxPhysicsVel caps the speed of every actor after each integration step.
const MaxPhysicsVel float32 = 150.0

// Tag is the kind of an actor. It selects physics behavior and the sprite a
// renderer draws.
type Tag uint8

const (
	TagPlayer Tag = iota
	TagBullet
	TagEnemy
	TagOther
)

// ErrUnknownTag is returned by ParseTag for names outside the Tag set.
var ErrUnknownTag = errors.New("unknown actor tag")

// String returns the catalog name of the tag.
func (t Tag) String() string {
	switch t {
	case TagPlayer:
		return "Player"
	case TagBullet:
		return "Bullet"
	case TagEnemy:
		return "Enemy"
	case TagOther:
		return "Other"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// ParseTag maps a catalog name to a Tag. Matching is case-sensitive.
func ParseTag(s string) (Tag, error) {
	switch s {
	case "Player":
		return TagPlayer, nil
	case "Bullet":
		return TagBullet, nil
	case "Enemy":
		return TagEnemy, nil
	case "Other":
		return TagOther, nil
	default:
		return TagOther, fmt.Errorf("%w: %q", ErrUnknownTag, s)
	}
}

// Actor is the physical and combat state of one simulated entity.
// Actors are plain values; a group owns each one exclusively.
type Actor struct {
	tag             Tag
	Position        core.Vec2 // world-space center
	Size            core.Vec2 // half-extents
	Facing          float32   // radians; also the steering target of non-players
	Velocity        core.Vec2
	AngularVelocity float32

	// life is ticks-to-live for bullets and hit points for everything else.
	life int32

	collisionTimeout    float32
	maxCollisionTimeout float32
}

// NewActor builds an actor with a zero collision timeout.
func NewActor(tag Tag, pos, size core.Vec2, facing float32, vel core.Vec2, angVel float32, life int32, maxCollisionTimeout float32) Actor {
	return Actor{
		tag:                 tag,
		Position:            pos,
		Size:                size,
		Facing:              facing,
		Velocity:            vel,
		AngularVelocity:     angVel,
		life:                life,
		maxCollisionTimeout: maxCollisionTimeout,
	}
}

// Tag returns the immutable kind of the actor.
func (a Actor) Tag() Tag { return a.tag }

// Life returns the raw life counter.
func (a Actor) Life() int32 { return a.life }

// HitPoints reads life as hit points (players, enemies).
func (a Actor) HitPoints() int32 { return a.life }

// TicksRemaining reads life as a time-to-live in ticks (bullets).
func (a Actor) TicksRemaining() int32 { return a.life }

// CollisionTimeout returns the remaining invulnerability in seconds.
func (a Actor) CollisionTimeout() float32 { return a.collisionTimeout }

// MaxCollisionTimeout returns the invulnerability restored after a hit.
func (a Actor) MaxCollisionTimeout() float32 { return a.maxCollisionTimeout }

// Alive reports whether life is still positive.
func (a Actor) Alive() bool { return a.life > 0 }

// DecLife subtracts amount from life. There is no floor.
func (a *Actor) DecLife(amount int32) {
	a.life -= amount
}

// DecCollisionTimeout counts the invulnerability window down while it is
// non-negative. A fresh actor at 0 becomes vulnerable after its first tick.
func (a *Actor) DecCollisionTimeout(dt float32) {
	if dt > 0 && a.collisionTimeout >= 0 {
		a.collisionTimeout -= dt
	}
}

// SetCollisionTimeout sets the invulnerability window; non-positive values are ignored.
func (a *Actor) SetCollisionTimeout(t float32) {
	if t > 0 {
		a.collisionTimeout = t
	}
}

// Integrate advances the actor by dt seconds.
//
// Velocity is clamped to MaxPhysicsVel, non-players are steered toward their
// facing angle, then the position moves and facing accumulates the angular
// velocity once per call (not scaled by dt).
func (a *Actor) Integrate(dt float32) {
	a.Velocity = core.ClampLen(a.Velocity, MaxPhysicsVel)
	if a.tag != TagPlayer {
		a.steer()
	}
	a.Position = a.Position.Add(a.Velocity.Mul(dt))
	a.Facing += a.AngularVelocity
}

// steer bends the heading halfway toward the facing angle. The steered vector
// can be up to twice as long, so it is clamped again.
func (a *Actor) steer() {
	speed := core.Norm(a.Velocity)
	heading := core.Unit(a.Velocity).Add(core.FromAngle(a.Facing))
	a.Velocity = core.ClampLen(heading.Mul(speed), MaxPhysicsVel)
}

// Wrap moves the actor to the opposite edge when its center leaves the
// screen, independently on each axis.
func (a *Actor) Wrap(screen core.Vec2) {
	sx, sy := screen[0], screen[1]
	bx, by := sx/2, sy/2

	if a.Position[0] > bx {
		a.Position[0] -= sx
	} else if a.Position[0] < -bx {
		a.Position[0] += sx
	}
	if a.Position[1] > by {
		a.Position[1] -= sy
	} else if a.Position[1] < -by {
		a.Position[1] += sy
	}
}

// InsideWindow reports whether the center lies strictly inside the screen.
func (a Actor) InsideWindow(screen core.Vec2) bool {
	return abs32(a.Position[0]) < screen[0]/2 && abs32(a.Position[1]) < screen[1]/2
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// CreatePlayer builds the player actor from tuning.
func CreatePlayer(t Tuning) Actor {
	return NewActor(
		TagPlayer,
		t.PlayerStart,
		t.PlayerSize,
		0,
		core.Vec2{},
		0,
		t.PlayerLife,
		t.PlayerInvulnerability,
	)
}

// CreateBullet builds a bullet. Bullets never take collision damage, so their
// invulnerability ceiling is effectively infinite.
func CreateBullet(pos, size core.Vec2, facing float32, vel core.Vec2, angVel float32, life int32) Actor {
	return NewActor(TagBullet, pos, size, facing, vel, angVel, life, math.MaxFloat32)
}

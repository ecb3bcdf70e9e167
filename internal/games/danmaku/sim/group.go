package sim

import "github.com/vovakirdan/tui-danmaku/internal/core"

// Input is one tick of player intent.
type Input struct {
	Move core.Vec2 // each axis in [-1, 1], y up
	Fire bool
}

// Group is one actor plus the shots it has fired.
//
// Shots live in a flat slice that Prune compacts in place, so collision code
// can index into one group's shots while mutating another group's actor.
type Group struct {
	Actor       Actor
	shots       []Actor
	shotTimeout float32
}

// NewGroup wraps an actor with an empty shot pool and a ready cadence.
func NewGroup(a Actor) *Group {
	return &Group{Actor: a}
}

// Shots returns the live shots. The slice is owned by the group and is only
// valid until the next Update or Fire.
func (g *Group) Shots() []Actor { return g.shots }

// ShotTimeout returns the seconds left before the group may fire again.
func (g *Group) ShotTimeout() float32 { return g.shotTimeout }

// CanFire reports whether the cadence gate is open.
func (g *Group) CanFire() bool { return g.shotTimeout < 0 }

// DecShotTimeout counts the cadence down while it is non-negative.
func (g *Group) DecShotTimeout(dt float32) {
	if dt > 0 && g.shotTimeout >= 0 {
		g.shotTimeout -= dt
	}
}

// HandleInput sets the actor velocity straight from the movement axes.
func (g *Group) HandleInput(in Input, dt, gain float32) {
	g.Actor.Velocity = in.Move.Mul(dt * gain)
}

// Update advances the group by one tick of dt seconds.
func (g *Group) Update(dt float32, screen core.Vec2) {
	for i := range g.shots {
		g.shots[i].Integrate(dt)
		g.shots[i].DecLife(1)
	}

	g.DecShotTimeout(dt)

	g.Actor.DecCollisionTimeout(dt)
	g.Actor.Integrate(dt)
	g.Actor.Wrap(screen)

	g.Prune(screen)
}

// Prune drops shots that left the window or ran out of life.
func (g *Group) Prune(screen core.Vec2) {
	kept := g.shots[:0]
	for _, s := range g.shots {
		if s.InsideWindow(screen) && s.Alive() {
			kept = append(kept, s)
		}
	}
	// zero the tail so pruned actors do not linger in the backing array
	for i := len(kept); i < len(g.shots); i++ {
		g.shots[i] = Actor{}
	}
	g.shots = kept
}

// Fire resets the cadence and appends the pattern for the actor's tag.
// Callers check CanFire first. Tags other than Player and Enemy do nothing.
func (g *Group) Fire(t Tuning, rng core.Float32Source) {
	switch g.Actor.Tag() {
	case TagPlayer:
		g.shotTimeout = t.PlayerShotCadence
		g.shots = append(g.shots, CircleBullets(
			g.Actor.Position,
			t.PlayerShotCount,
			t.PlayerShotArc,
			t.PlayerShotSpeed,
			0,
			t.CircleBulletSize,
			t.BulletLife,
		)...)

	case TagEnemy:
		g.shotTimeout = t.EnemyShotCadence
		origin := g.Actor.Position.Add(g.Actor.Size.Mul(0.5))
		g.shots = append(g.shots, CircleBullets(
			origin,
			t.EnemyShotCount,
			t.EnemyShotArc,
			t.EnemyShotSpeed,
			t.EnemyShotSpin,
			t.CircleBulletSize,
			t.BulletLife,
		)...)
		if t.EnemyBurstCount > 0 && rng != nil {
			g.shots = append(g.shots, RandomBurst(
				rng,
				origin,
				t.EnemyBurstCount,
				t.BurstMaxSpeed,
				t.BurstBulletSize,
				t.BulletLife,
			)...)
		}
	}
}

package sim

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

// Sprite is the read-only view of one entity handed to renderers.
type Sprite struct {
	Tag      Tag
	Position core.Vec2
	Size     core.Vec2
	Facing   float32
	Life     int32
	Owner    Tag // tag of the group the entity belongs to
}

// StepResult reports what happened during one tick.
type StepResult struct {
	Tick       uint64
	PlayerHits int // damage the player took this tick
	EnemyHits  int // damage dealt to enemies this tick
	Kills      int // enemies removed this tick
	GameOver   bool
	Cleared    bool
}

// Summary is the compact end state used to compare two runs.
type Summary struct {
	Ticks       uint64 `msgpack:"ticks"`
	Kills       int    `msgpack:"kills"`
	PlayerLife  int32  `msgpack:"player_life"`
	Enemies     int    `msgpack:"enemies"`
	GameOver    bool   `msgpack:"game_over"`
	Cleared     bool   `msgpack:"cleared"`
	Fingerprint uint64 `msgpack:"fingerprint"`
}

// Pacer escalates enemy fire as a run progresses. Both methods must be pure
// functions of their arguments or runs stop being reproducible.
type Pacer interface {
	EnemyCadence(base float32, kills int, tick uint64) float32
	EnemyBursts(base int, kills int, tick uint64) int
}

// World is the whole simulation: the player group, the enemy roster and the
// random stream the spawn generators draw from.
type World struct {
	tuning Tuning
	dt     float32
	screen core.Vec2
	rng    *rand.Rand
	pacer  Pacer

	player  *Group
	enemies []*Group

	tick     uint64
	kills    int
	gameOver bool
}

// NewWorld builds a world from catalog descriptors.
//
// Player-tagged descriptors replace the default player built from tuning
// (the last one wins); every other descriptor becomes one roster group in
// catalog order.
func NewWorld(t Tuning, roster []Descriptor, seed int64) *World {
	w := &World{
		tuning: t,
		dt:     t.Dt(),
		screen: t.ScreenSize,
		rng:    rand.New(rand.NewSource(seed)),
		player: NewGroup(CreatePlayer(t)),
	}
	for _, d := range roster {
		if d.Tag == TagPlayer {
			w.player = NewGroup(d.Actor())
			continue
		}
		w.enemies = append(w.enemies, NewGroup(d.Actor()))
	}
	return w
}

// SetPacer installs an escalation schedule for enemy fire. Nil restores the
// constant cadence and burst size from tuning.
func (w *World) SetPacer(p Pacer) { w.pacer = p }

// Step runs exactly one fixed tick. Once the game is over it does nothing.
func (w *World) Step(in Input) StepResult {
	if w.gameOver {
		return w.result(StepResult{})
	}
	w.tick++
	var res StepResult

	// 1. player input and firing
	w.player.HandleInput(in, w.dt, w.tuning.InputGain)
	if in.Fire && w.player.CanFire() {
		w.player.Fire(w.tuning, w.rng)
	}

	// 2. player advance
	w.player.Update(w.dt, w.screen)

	// 3. enemies fire then advance, in roster order
	enemyTuning := w.tuning
	if w.pacer != nil {
		enemyTuning.EnemyShotCadence = w.pacer.EnemyCadence(w.tuning.EnemyShotCadence, w.kills, w.tick)
		enemyTuning.EnemyBurstCount = w.pacer.EnemyBursts(w.tuning.EnemyBurstCount, w.kills, w.tick)
	}
	for _, e := range w.enemies {
		if e.CanFire() {
			e.Fire(enemyTuning, w.rng)
		}
		e.Update(w.dt, w.screen)
	}

	// 4. cross collisions
	for _, e := range w.enemies {
		res.PlayerHits += ResolveAll(&w.player.Actor, e.Shots())
		res.EnemyHits += ResolveAll(&e.Actor, w.player.Shots())
	}

	// 5. drop dead enemies
	alive := w.enemies[:0]
	for _, e := range w.enemies {
		if e.Actor.Alive() {
			alive = append(alive, e)
			continue
		}
		res.Kills++
	}
	for i := len(alive); i < len(w.enemies); i++ {
		w.enemies[i] = nil
	}
	w.enemies = alive
	w.kills += res.Kills

	// 6. terminal condition
	if !w.player.Actor.Alive() {
		w.gameOver = true
	}

	return w.result(res)
}

func (w *World) result(res StepResult) StepResult {
	res.Tick = w.tick
	res.GameOver = w.gameOver
	res.Cleared = w.Cleared()
	return res
}

// Tick returns the number of ticks simulated so far.
func (w *World) Tick() uint64 { return w.tick }

// Kills returns how many enemies have been destroyed.
func (w *World) Kills() int { return w.kills }

// GameOver reports whether the player has run out of hit points.
func (w *World) GameOver() bool { return w.gameOver }

// Cleared reports whether no Enemy-tagged group is left. Other actors are
// scenery and never hold a stage open.
func (w *World) Cleared() bool { return w.Foes() == 0 }

// Foes counts the live Enemy-tagged groups.
func (w *World) Foes() int {
	n := 0
	for _, e := range w.enemies {
		if e.Actor.tag == TagEnemy {
			n++
		}
	}
	return n
}

// Elapsed returns simulated time in seconds.
func (w *World) Elapsed() float64 { return float64(w.tick) * float64(w.dt) }

// Screen returns the world extent.
func (w *World) Screen() core.Vec2 { return w.screen }

// Tuning returns the constants the world was built with.
func (w *World) Tuning() Tuning { return w.tuning }

// Player returns a copy of the player actor.
func (w *World) Player() Actor { return w.player.Actor }

// PlayerGroup returns the player group. Callers must not retain it across ticks.
func (w *World) PlayerGroup() *Group { return w.player }

// Enemies returns the live roster. Callers must not mutate it.
func (w *World) Enemies() []*Group { return w.enemies }

// View returns every entity in draw order: enemy shots, enemies, player
// shots, player.
func (w *World) View() []Sprite {
	n := 1 + len(w.player.shots)
	for _, e := range w.enemies {
		n += 1 + len(e.shots)
	}
	out := make([]Sprite, 0, n)
	for _, e := range w.enemies {
		for i := range e.shots {
			out = append(out, spriteOf(&e.shots[i], e.Actor.tag))
		}
	}
	for _, e := range w.enemies {
		out = append(out, spriteOf(&e.Actor, e.Actor.tag))
	}
	for i := range w.player.shots {
		out = append(out, spriteOf(&w.player.shots[i], w.player.Actor.tag))
	}
	out = append(out, spriteOf(&w.player.Actor, w.player.Actor.tag))
	return out
}

func spriteOf(a *Actor, owner Tag) Sprite {
	return Sprite{
		Tag:      a.Tag(),
		Position: a.Position,
		Size:     a.Size,
		Facing:   a.Facing,
		Life:     a.Life(),
		Owner:    owner,
	}
}

// Summary captures the end state, including a hash over every entity.
func (w *World) Summary() Summary {
	return Summary{
		Ticks:       w.tick,
		Kills:       w.kills,
		PlayerLife:  w.player.Actor.Life(),
		Enemies:     w.Foes(),
		GameOver:    w.gameOver,
		Cleared:     w.Cleared(),
		Fingerprint: w.Fingerprint(),
	}
}

// Fingerprint hashes the tag, position, velocity and life of every entity.
// Equal fingerprints mean two runs ended in the same state.
func (w *World) Fingerprint() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	put := func(f float32) {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		_, _ = h.Write(buf[:])
	}
	hashActor := func(a *Actor) {
		_, _ = h.Write([]byte{byte(a.tag)})
		put(a.Position[0])
		put(a.Position[1])
		put(a.Velocity[0])
		put(a.Velocity[1])
		binary.LittleEndian.PutUint32(buf[:], uint32(a.life))
		_, _ = h.Write(buf[:])
	}
	for _, e := range w.enemies {
		for i := range e.shots {
			hashActor(&e.shots[i])
		}
		hashActor(&e.Actor)
	}
	for i := range w.player.shots {
		hashActor(&w.player.shots[i])
	}
	hashActor(&w.player.Actor)
	return h.Sum64()
}

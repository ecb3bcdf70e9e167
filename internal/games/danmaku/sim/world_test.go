package sim

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-danmaku/internal/core"
)

func playerAt(pos core.Vec2, life int32) Descriptor {
	return Descriptor{Tag: TagPlayer, Position: pos, Size: core.V(8, 8), Life: life, MaxCollisionTimeout: 0.5}
}

func enemyAt(pos core.Vec2, life int32) Descriptor {
	return Descriptor{Tag: TagEnemy, Position: pos, Size: core.V(8, 8), Life: life, MaxCollisionTimeout: 0.2}
}

func TestNewWorldDefaultPlayer(t *testing.T) {
	w := NewWorld(DefaultTuning(), []Descriptor{enemyAt(core.V(0, 100), 5)}, 1)

	p := w.Player()
	if p.Tag() != TagPlayer || p.HitPoints() != 10 {
		t.Errorf("player = %v life %d", p.Tag(), p.HitPoints())
	}
	if len(w.Enemies()) != 1 {
		t.Errorf("roster size = %d, want 1", len(w.Enemies()))
	}
	if w.Cleared() || w.GameOver() {
		t.Error("fresh world already finished")
	}
}

func TestNewWorldPlayerDescriptorOverrides(t *testing.T) {
	w := NewWorld(DefaultTuning(), []Descriptor{playerAt(core.V(5, 5), 3), enemyAt(core.V(0, 100), 5)}, 1)
	if p := w.Player(); p.HitPoints() != 3 || p.Position != core.V(5, 5) {
		t.Errorf("player from descriptor not used: %v life %d", p.Position, p.HitPoints())
	}
	if len(w.Enemies()) != 1 {
		t.Errorf("player descriptor leaked into roster: %d groups", len(w.Enemies()))
	}
}

func TestWorldDeterminism(t *testing.T) {
	tn := DefaultTuning()
	tn.EnemyBurstCount = 4
	roster := []Descriptor{
		enemyAt(core.V(-100, 150), 50),
		enemyAt(core.V(120, 200), 50),
		{Tag: TagEnemy, Position: core.V(0, 100), Size: core.V(10, 10), Velocity: core.V(30, 0), AngularVelocity: 0.02, Life: 80, MaxCollisionTimeout: 0.1},
	}

	inputs := make([]Input, 600)
	for i := range inputs {
		x := float32(0)
		switch (i / 40) % 3 {
		case 0:
			x = -1
		case 2:
			x = 1
		}
		inputs[i] = Input{Move: core.V(x, 0), Fire: i%3 != 0}
	}

	run := func() Summary {
		w := NewWorld(tn, roster, 2024)
		for _, in := range inputs {
			w.Step(in)
		}
		return w.Summary()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("determinism failed:\nrun1=%+v\nrun2=%+v", a, b)
	}
	if a.Ticks == 0 {
		t.Error("no ticks simulated")
	}
}

func TestWorldSeedChangesBursts(t *testing.T) {
	tn := DefaultTuning()
	tn.EnemyBurstCount = 4
	roster := []Descriptor{enemyAt(core.V(0, 200), 1000)}

	run := func(seed int64) uint64 {
		w := NewWorld(tn, roster, seed)
		for i := 0; i < 30; i++ {
			w.Step(Input{})
		}
		return w.Fingerprint()
	}

	if run(1) == run(2) {
		t.Error("different seeds produced identical worlds")
	}
}

func TestWorldKillClearsRoster(t *testing.T) {
	w := NewWorld(DefaultTuning(), []Descriptor{
		playerAt(core.V(0, 0), 10),
		enemyAt(core.V(0, 10), 1),
	}, 1)

	fire := Input{Fire: true}

	// nobody may fire or be hit on the first tick
	res := w.Step(fire)
	if res.Kills != 0 || len(w.PlayerGroup().Shots()) != 0 {
		t.Fatalf("tick 1: kills=%d shots=%d", res.Kills, len(w.PlayerGroup().Shots()))
	}

	res = w.Step(fire)
	if res.Kills != 1 {
		t.Fatalf("tick 2: kills = %d, want 1", res.Kills)
	}
	if !res.Cleared || !w.Cleared() {
		t.Error("roster not cleared after last kill")
	}
	if w.Kills() != 1 {
		t.Errorf("Kills() = %d, want 1", w.Kills())
	}
}

func TestWorldOtherDoesNotHoldStage(t *testing.T) {
	obstacle := Descriptor{Tag: TagOther, Position: core.V(300, 250), Size: core.V(20, 20), Life: 1000}
	w := NewWorld(DefaultTuning(), []Descriptor{
		playerAt(core.V(0, 0), 10),
		enemyAt(core.V(0, 10), 1),
		obstacle,
	}, 1)

	if w.Foes() != 1 || w.Cleared() {
		t.Fatalf("fresh world: foes=%d cleared=%v", w.Foes(), w.Cleared())
	}

	w.Step(Input{Fire: true})
	res := w.Step(Input{Fire: true})
	if res.Kills != 1 {
		t.Fatalf("tick 2: kills = %d, want 1", res.Kills)
	}
	if !res.Cleared || w.Foes() != 0 {
		t.Errorf("cleared=%v foes=%d with only scenery left", res.Cleared, w.Foes())
	}
	if len(w.Enemies()) != 1 {
		t.Errorf("roster = %d groups, want the obstacle to remain", len(w.Enemies()))
	}
	if s := w.Summary(); s.Enemies != 0 || !s.Cleared {
		t.Errorf("summary = %+v", s)
	}
}

func TestWorldGameOver(t *testing.T) {
	w := NewWorld(DefaultTuning(), []Descriptor{
		playerAt(core.V(0, 0), 1),
		enemyAt(core.V(0, 0), 1000),
	}, 1)

	var res StepResult
	for i := 0; i < 10 && !res.GameOver; i++ {
		res = w.Step(Input{})
	}
	if !res.GameOver || !w.GameOver() {
		t.Fatalf("player survived point-blank fire: life %d", w.Player().HitPoints())
	}
	if res.PlayerHits != 1 {
		t.Errorf("PlayerHits = %d, want 1", res.PlayerHits)
	}

	// further steps are no-ops
	tick := w.Tick()
	fp := w.Fingerprint()
	after := w.Step(Input{Move: core.V(1, 1), Fire: true})
	if w.Tick() != tick || w.Fingerprint() != fp {
		t.Error("world advanced after game over")
	}
	if !after.GameOver || after.Tick != tick {
		t.Errorf("post game-over result = %+v", after)
	}
}

func TestWorldViewOrder(t *testing.T) {
	w := NewWorld(DefaultTuning(), []Descriptor{enemyAt(core.V(0, 200), 5)}, 1)
	for i := 0; i < 3; i++ {
		w.Step(Input{Fire: true})
	}

	view := w.View()
	if len(view) == 0 {
		t.Fatal("empty view")
	}
	if last := view[len(view)-1]; last.Tag != TagPlayer {
		t.Errorf("last sprite = %v, want Player on top", last.Tag)
	}
	want := 1 + len(w.PlayerGroup().Shots())
	for _, e := range w.Enemies() {
		want += 1 + len(e.Shots())
	}
	if len(view) != want {
		t.Errorf("view has %d sprites, want %d", len(view), want)
	}
}

func TestClockAdvance(t *testing.T) {
	c := NewClock(60, 5)
	step := c.Step()

	if n := c.Advance(step); n != 1 {
		t.Errorf("one step elapsed: %d ticks", n)
	}
	if n := c.Advance(step / 2); n != 0 {
		t.Errorf("half step elapsed: %d ticks", n)
	}
	if n := c.Advance(step / 2); n != 1 {
		t.Errorf("leftover did not carry: %d ticks", n)
	}
	if n := c.Advance(time.Second); n != 5 {
		t.Errorf("long stall: %d ticks, want capped 5", n)
	}
	if n := c.Advance(0); n != 0 {
		t.Errorf("stall backlog carried over: %d ticks", n)
	}
	if n := c.Advance(-time.Second); n != 0 {
		t.Errorf("negative elapsed produced %d ticks", n)
	}
}

type fixedPacer struct {
	cadence float32
	bursts  int
}

func (p fixedPacer) EnemyCadence(float32, int, uint64) float32 { return p.cadence }
func (p fixedPacer) EnemyBursts(base int, _ int, _ uint64) int { return base + p.bursts }

func TestWorldPacerEscalatesFire(t *testing.T) {
	roster := []Descriptor{enemyAt(core.V(0, 200), 50)}
	dt := DefaultTuning().Dt()

	plain := NewWorld(DefaultTuning(), roster, 3)
	paced := NewWorld(DefaultTuning(), roster, 3)
	paced.SetPacer(fixedPacer{cadence: 0.1, bursts: 4})

	// the first tick only starts the cadence countdown; the second fires
	for i := 0; i < 2; i++ {
		plain.Step(Input{})
		paced.Step(Input{})
	}

	plainShots := len(plain.Enemies()[0].Shots())
	pacedShots := len(paced.Enemies()[0].Shots())
	if plainShots != 7 {
		t.Fatalf("plain volley has %d bullets, want 7", plainShots)
	}
	if got := pacedShots - plainShots; got != 4 {
		t.Errorf("paced volley has %d extra bullets, want 4", got)
	}

	tests := []struct {
		name string
		w    *World
		want float32
	}{
		{"plain cadence", plain, 0.5 - dt},
		{"paced cadence", paced, 0.1 - dt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Enemies()[0].ShotTimeout(); math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("shot timeout = %v, want %v", got, tt.want)
			}
		})
	}

	for i := 0; i < 10; i++ {
		plain.Step(Input{})
		paced.Step(Input{})
	}
	if got := len(plain.Enemies()[0].Shots()); got != 7 {
		t.Errorf("plain enemy fired again early: %d bullets", got)
	}
	if got := len(paced.Enemies()[0].Shots()); got < 2*11 {
		t.Errorf("paced enemy has %d bullets, want a second volley", got)
	}

	paced.SetPacer(nil)
	plain = NewWorld(DefaultTuning(), roster, 3)
	if paced.Tuning() != plain.Tuning() {
		t.Error("pacer leaked into the world tuning")
	}
}

package replay

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/vovakirdan/tui-danmaku/internal/config"
	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
	"github.com/vovakirdan/tui-danmaku/internal/replay/mocks"
)

func testSetup(t *testing.T) Setup {
	t.Helper()
	cfg := config.DefaultDanmakuConfig()
	cfg.Enemy.BurstCount = 2
	cfg.Difficulty.Enabled = true
	roster := []sim.Descriptor{
		{Tag: sim.TagEnemy, Position: core.V(-120, 150), Size: core.V(10, 10), Life: 40, MaxCollisionTimeout: 0.2},
		{Tag: sim.TagEnemy, Position: core.V(0, 60), Size: core.V(8, 8), Velocity: core.V(20, 0), Life: 3, MaxCollisionTimeout: 0.2},
	}
	s, err := NewSetup(cfg, "test", roster, 99)
	if err != nil {
		t.Fatalf("NewSetup: %v", err)
	}
	return s
}

func TestNewSetup(t *testing.T) {
	s := testSetup(t)
	if s.Pacing == nil {
		t.Error("enabled difficulty not captured")
	}
	if s.Tuning.EnemyBurstCount != 2 {
		t.Errorf("burst count = %d, want 2", s.Tuning.EnemyBurstCount)
	}

	cfg := config.DefaultDanmakuConfig()
	if s, _ := NewSetup(cfg, "x", nil, 1); s.Pacing != nil {
		t.Error("disabled difficulty captured")
	}

	cfg.World.TickRate = 0
	if _, err := NewSetup(cfg, "x", nil, 1); err == nil {
		t.Error("invalid config accepted")
	}
}

func TestScripted(t *testing.T) {
	s := Strafe(2)
	wantX := []float32{-1, -1, 1, 1, -1}
	for tick, x := range wantX {
		in, ok := s.Next(uint64(tick))
		if !ok || in.Move[0] != x || !in.Fire {
			t.Errorf("tick %d: got %+v ok=%v, want x=%v firing", tick, in, ok, x)
		}
	}

	if in, ok := (Scripted{}).Next(7); !ok || in != (sim.Input{}) {
		t.Errorf("empty script = %+v ok=%v", in, ok)
	}
}

func TestRecordedStops(t *testing.T) {
	r := Recorded{Frames: []Frame{{X: 1, Fire: true}}}
	if in, ok := r.Next(0); !ok || in.Move != core.V(1, 0) || !in.Fire {
		t.Errorf("frame 0 = %+v ok=%v", in, ok)
	}
	if _, ok := r.Next(1); ok {
		t.Error("recording did not end")
	}
}

func TestRecordUsesSource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mocks.NewMockInputSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Next(uint64(0)).Return(sim.Input{Move: core.V(1, 0)}, true),
		src.EXPECT().Next(uint64(1)).Return(sim.Input{Fire: true}, true),
		src.EXPECT().Next(uint64(2)).Return(sim.Input{}, false),
	)

	rec, err := Record(context.Background(), testSetup(t), src, 100)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Inputs) != 2 {
		t.Fatalf("recorded %d frames, want 2", len(rec.Inputs))
	}
	if rec.Inputs[0] != (Frame{X: 1}) || rec.Inputs[1] != (Frame{Fire: true}) {
		t.Errorf("frames = %+v", rec.Inputs)
	}
	if rec.Final.Ticks != 2 {
		t.Errorf("final ticks = %d, want 2", rec.Final.Ticks)
	}
	if rec.RunID == "" || rec.Version != Version {
		t.Errorf("header = %q v%d", rec.RunID, rec.Version)
	}
}

func TestRecordRespectsTickLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := mocks.NewMockInputSource(ctrl)
	src.EXPECT().Next(gomock.Any()).Return(sim.Input{}, true).Times(5)

	rec, err := Record(context.Background(), testSetup(t), src, 5)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(rec.Inputs) != 5 {
		t.Errorf("recorded %d frames, want 5", len(rec.Inputs))
	}
}

func TestRecordCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Record(ctx, testSetup(t), Strafe(10), 100)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestVerify(t *testing.T) {
	rec, err := Record(context.Background(), testSetup(t), Strafe(30), 600)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := Verify(context.Background(), rec)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != rec.Final {
		t.Errorf("summary = %+v, want %+v", got, rec.Final)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, err := Record(context.Background(), testSetup(t), Strafe(30), 300)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *Recording)
		want   error
	}{
		{"seed", func(r *Recording) { r.Setup.Seed++ }, ErrDiverged},
		{"final", func(r *Recording) { r.Final.Kills += 1 }, ErrDiverged},
		{"dropped frame", func(r *Recording) { r.Inputs = r.Inputs[:len(r.Inputs)-1] }, ErrDiverged},
		{"version", func(r *Recording) { r.Version = Version + 1 }, ErrVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := *rec
			cp.Inputs = append([]Frame(nil), rec.Inputs...)
			tt.mutate(&cp)
			if _, err := Verify(context.Background(), &cp); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncoding(t *testing.T) {
	rec, err := Record(context.Background(), testSetup(t), Strafe(20), 200)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	data, err := Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.RunID != rec.RunID || back.Final != rec.Final || len(back.Inputs) != len(rec.Inputs) {
		t.Errorf("decoded recording differs: %+v", back.Final)
	}
	if _, err := Verify(context.Background(), back); err != nil {
		t.Errorf("decoded recording does not verify: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Read(&buf); err != nil {
		t.Errorf("Read: %v", err)
	}

	path := filepath.Join(t.TempDir(), "run.replay")
	if err := Save(path, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Setup.Seed != rec.Setup.Seed || loaded.Setup.Pacing == nil {
		t.Errorf("loaded setup = %+v", loaded.Setup)
	}

	if _, err := Unmarshal([]byte("not msgpack")); err == nil {
		t.Error("garbage decoded")
	}
}

package catalog

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog/formats"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

const header = "tag,pos_x,pos_y,size_x,size_y,facing,vel_x,vel_y,ang_vel,life,max_collision_timeout\n"

func quietLoader(root string) *Loader {
	return NewLoader(root, log.New(io.Discard))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseCSV(t *testing.T) {
	data := header + "Enemy, 1.5, -2, 8, 8, 0.25, 3, 4, 0.01, 7, 0.3\n"
	stage, err := Parse([]byte(data), "waves/alpha.csv")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if stage.ID != "alpha" {
		t.Errorf("ID = %q, want alpha", stage.ID)
	}
	if len(stage.Descriptors) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(stage.Descriptors))
	}

	want := sim.Descriptor{
		Tag:                 sim.TagEnemy,
		Position:            core.V(1.5, -2),
		Size:                core.V(8, 8),
		Facing:              0.25,
		Velocity:            core.V(3, 4),
		AngularVelocity:     0.01,
		Life:                7,
		MaxCollisionTimeout: 0.3,
	}
	if stage.Descriptors[0] != want {
		t.Errorf("descriptor = %+v, want %+v", stage.Descriptors[0], want)
	}
}

func TestParseCSVErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantRow   int
		wantField string
		wantIs    error
	}{
		{"empty", "", 0, "", formats.ErrMissingHeader},
		{"no header", "Enemy,0,0,1,1,0,0,0,0,1,0\n", 0, "", formats.ErrMissingHeader},
		{"typo in first row", "Enmy,0,0,1,1,0,0,0,0,1,0\nEnemy,0,0,1,1,0,0,0,0,1,0\n", 0, "", formats.ErrMissingHeader},
		{"misspelled column", strings.Replace(header, "ang_vel", "angvel", 1) + "Enemy,0,0,1,1,0,0,0,0,1,0\n", 0, "", formats.ErrMissingHeader},
		{"short header", "tag,pos_x,pos_y\nEnemy,0,0,1,1,0,0,0,0,1,0\n", 0, "", formats.ErrMissingHeader},
		{"bad tag", header + "enemy,0,0,1,1,0,0,0,0,1,0\n", 1, "tag", sim.ErrUnknownTag},
		{"short row", header + "Enemy,0,0,1,1\n", 1, "", formats.ErrFieldCount},
		{"bad float", header + "Enemy,0,0,1,1,0,0,x,0,1,0\n", 1, "vel_y", nil},
		{"float life", header + "Enemy,0,0,1,1,0,0,0,0,1.5,0\n", 1, "life", nil},
		{"second row", header + "Enemy,0,0,1,1,0,0,0,0,1,0\nOther,0,0,1,1,0,0,0,0,1,oops\n", 2, "max_collision_timeout", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, err := Parse([]byte(tt.data), "bad.csv")
			if err == nil {
				t.Fatalf("Parse() succeeded with %d descriptors", len(stage.Descriptors))
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a ParseError", err)
			}
			if pe.Row != tt.wantRow || pe.Field != tt.wantField || pe.Source != "bad.csv" {
				t.Errorf("ParseError = %+v, want row %d field %q", pe, tt.wantRow, tt.wantField)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
			if stage.Descriptors != nil {
				t.Error("partial descriptors returned alongside error")
			}
		})
	}
}

func TestLoadFileCommitsNothingOnBadRow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mixed.csv", header+
		"Enemy,0,100,8,8,0,0,0,0,5,0.2\n"+
		"Goblin,0,0,1,1,0,0,0,0,1,0\n")

	stage, err := quietLoader(dir).LoadFile(path)
	if !errors.Is(err, sim.ErrUnknownTag) {
		t.Fatalf("LoadFile() error = %v, want ErrUnknownTag", err)
	}
	if len(stage.Descriptors) != 0 {
		t.Errorf("committed %d descriptors from a bad source", len(stage.Descriptors))
	}
}

func TestParseYAML(t *testing.T) {
	data := `
id: boss
name: Boss Rush
actors:
  - tag: Enemy
    pos: [0, 200]
    size: [12, 12]
    vel: [10, 0]
    life: 50
    max_collision_timeout: 0.4
  - tag: Other
    pos: [5, 5]
    size: [1, 1]
    life: 3
`
	stage, err := Parse([]byte(data), "x/boss_file.yaml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if stage.ID != "boss" || stage.Name != "Boss Rush" {
		t.Errorf("ID/Name = %q/%q", stage.ID, stage.Name)
	}
	if len(stage.Descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(stage.Descriptors))
	}
	d := stage.Descriptors[0]
	if d.Tag != sim.TagEnemy || d.Position != core.V(0, 200) || d.Life != 50 || d.Velocity != core.V(10, 0) {
		t.Errorf("first descriptor = %+v", d)
	}
	if stage.Enemies() != 1 {
		t.Errorf("Enemies() = %d, want 1 (Other is not a foe)", stage.Enemies())
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantRow   int
		wantField string
	}{
		{"missing tag", "actors:\n  - pos: [0, 0]\n    size: [1, 1]\n    life: 1\n", 1, "tag"},
		{"unknown tag", "actors:\n  - tag: Ghost\n    pos: [0, 0]\n    size: [1, 1]\n    life: 1\n", 1, "tag"},
		{"missing life", "actors:\n  - tag: Enemy\n    pos: [0, 0]\n    size: [1, 1]\n", 1, "life"},
		{"short pos", "actors:\n  - tag: Enemy\n    pos: [0, 0]\n    size: [1, 1]\n    life: 1\n  - tag: Enemy\n    pos: [3]\n    size: [1, 1]\n    life: 1\n", 2, "pos"},
		{"malformed", "actors: [:\n", 0, ""},
		{"old list key", "enemies:\n  - tag: Enemy\n    pos: [0, 0]\n    size: [1, 1]\n    life: 1\n", 0, ""},
		{"no actors", "id: empty\nname: Nothing\n", 0, "actors"},
		{"empty document", "", 0, "actors"},
		{"unknown actor key", "actors:\n  - tag: Enemy\n    pos: [0, 0]\n    size: [1, 1]\n    life: 1\n    hp: 3\n", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "s.yml")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a ParseError", err)
			}
			if pe.Row != tt.wantRow || pe.Field != tt.wantField {
				t.Errorf("ParseError = %+v, want row %d field %q", pe, tt.wantRow, tt.wantField)
			}
		})
	}
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", header+"Enemy,0,0,1,1,0,0,0,0,1,0\n")
	writeFile(t, dir, "a.yaml", "actors:\n  - tag: Enemy\n    pos: [0, 0]\n    size: [1, 1]\n    life: 1\n")
	writeFile(t, dir, "notes.txt", "ignored")

	l := quietLoader(dir)
	ids, err := l.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs() error: %v", err)
	}
	if strings.Join(ids, ",") != "a,b" {
		t.Errorf("ids = %v, want [a b]", ids)
	}

	s, err := l.LoadByID("b")
	if err != nil || len(s.Descriptors) != 1 {
		t.Errorf("LoadByID(b) = %+v, %v", s, err)
	}
	if _, err := l.LoadByID("zzz"); err == nil {
		t.Error("LoadByID of a missing stage succeeded")
	}

	// one bad file fails the whole directory
	writeFile(t, dir, "c.csv", header+"Enemy,0,0\n")
	if _, err := l.LoadAll(); err == nil {
		t.Error("LoadAll() ignored a bad file")
	}
}

func TestLoaderLogs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.csv", header+"Enemy,0,0,1,1,0,0,0,0,1,0\n")

	var buf bytes.Buffer
	l := NewLoader(dir, log.New(&buf))
	if _, err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !strings.Contains(buf.String(), "catalog loaded") {
		t.Errorf("log output = %q, want load message", buf.String())
	}
}

func TestBuiltinStages(t *testing.T) {
	stages, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error: %v", err)
	}
	if len(stages) < 2 {
		t.Fatalf("got %d builtin stages, want at least 2", len(stages))
	}

	def, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if def.ID != DefaultStageID || def.Enemies() == 0 {
		t.Errorf("default stage = %q with %d enemies", def.ID, def.Enemies())
	}

	if _, err := Resolve("stage2", nil); err != nil {
		t.Errorf("Resolve(stage2) error: %v", err)
	}
	if _, err := Resolve("nope", nil); err == nil {
		t.Error("Resolve of unknown id succeeded")
	}
}

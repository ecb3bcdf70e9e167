// Package catalog loads stage files: the enemy rosters a run starts from.
// A stage either loads completely or not at all.
package catalog

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/catalog/formats"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

//go:embed stages/*
var builtin embed.FS

// DefaultStageID is the stage used when no catalog is given.
const DefaultStageID = "stage1"

// ParseError locates a bad record inside a catalog source.
type ParseError = formats.ParseError

// Stage is one loaded roster.
type Stage struct {
	ID          string
	Name        string
	Descriptors []sim.Descriptor
	FilePath    string
}

// Enemies counts the Enemy descriptors.
func (s Stage) Enemies() int {
	n := 0
	for _, d := range s.Descriptors {
		if d.Tag == sim.TagEnemy {
			n++
		}
	}
	return n
}

// Loader loads stages from a directory.
type Loader struct {
	Root   string
	Logger *log.Logger
}

// NewLoader creates a loader rooted at root. A nil logger uses the default.
func NewLoader(root string, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{Root: root, Logger: logger}
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return log.Default()
	}
	return l.Logger
}

// LoadAll recursively loads every stage file under Root, sorted by ID.
// Any bad file fails the whole call.
func (l *Loader) LoadAll() ([]Stage, error) {
	var stages []Stage

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		stage, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		stages = append(stages, stage)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: walking %s: %w", l.Root, err)
	}

	sort.Slice(stages, func(i, j int) bool {
		return stages[i].ID < stages[j].ID
	})
	return stages, nil
}

// LoadFile loads a single stage file.
func (l *Loader) LoadFile(path string) (Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger().Error("catalog read failed", "path", path, "err", err)
		return Stage{}, fmt.Errorf("catalog: reading %s: %w", path, err)
	}

	stage, err := Parse(data, path)
	if err != nil {
		l.logger().Error("catalog rejected", "path", path, "err", err)
		return Stage{}, err
	}
	stage.FilePath = path

	l.logger().Info("catalog loaded", "stage", stage.ID, "entities", len(stage.Descriptors))
	return stage, nil
}

// LoadByID loads a specific stage by ID.
func (l *Loader) LoadByID(id string) (Stage, error) {
	stages, err := l.LoadAll()
	if err != nil {
		return Stage{}, err
	}
	for _, s := range stages {
		if s.ID == id {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("catalog: stage not found: %s", id)
}

// ListIDs returns all stage IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	stages, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(stages))
	for i, s := range stages {
		ids[i] = s.ID
	}
	return ids, nil
}

// Parse parses stage data, picking the format from the source's extension.
// The stage ID defaults to the file name without extension.
func Parse(data []byte, source string) (Stage, error) {
	ext := strings.ToLower(filepath.Ext(source))
	stage := Stage{ID: strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))}

	switch ext {
	case ".csv":
		ds, err := formats.ParseCSV(data, source)
		if err != nil {
			return Stage{}, err
		}
		stage.Descriptors = ds
	case ".yaml", ".yml":
		ys, err := formats.ParseYAML(data, source)
		if err != nil {
			return Stage{}, err
		}
		if ys.ID != "" {
			stage.ID = ys.ID
		}
		stage.Name = ys.Name
		stage.Descriptors = ys.Descriptors
	default:
		return Stage{}, fmt.Errorf("catalog: unsupported extension: %s", ext)
	}

	if stage.Name == "" {
		stage.Name = stage.ID
	}
	return stage, nil
}

// Builtin returns the stages compiled into the binary, sorted by ID.
func Builtin() ([]Stage, error) {
	entries, err := builtin.ReadDir("stages")
	if err != nil {
		return nil, fmt.Errorf("catalog: reading builtin stages: %w", err)
	}

	stages := make([]Stage, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := "stages/" + e.Name()
		data, err := builtin.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
		}
		s, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		s.FilePath = "builtin:" + path
		stages = append(stages, s)
	}

	sort.Slice(stages, func(i, j int) bool {
		return stages[i].ID < stages[j].ID
	})
	return stages, nil
}

// Default returns the builtin default stage.
func Default() (Stage, error) {
	return BuiltinByID(DefaultStageID)
}

// BuiltinByID returns one builtin stage.
func BuiltinByID(id string) (Stage, error) {
	stages, err := Builtin()
	if err != nil {
		return Stage{}, err
	}
	for _, s := range stages {
		if s.ID == id {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("catalog: builtin stage not found: %s", id)
}

// Resolve finds a stage by reference: an existing file path, or otherwise a
// builtin stage ID. An empty ref means the default stage.
func Resolve(ref string, logger *log.Logger) (Stage, error) {
	if ref == "" {
		return Default()
	}
	if _, err := os.Stat(ref); err == nil {
		return NewLoader(filepath.Dir(ref), logger).LoadFile(ref)
	}
	return BuiltinByID(ref)
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

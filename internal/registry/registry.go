// Package registry holds the scripted pilots that fly headless runs.
// Pilots register themselves in init() functions, allowing the runner
// to list and build them by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-danmaku/internal/replay"
)

// Options tunes a pilot instance.
type Options struct {
	// Hold is how many ticks a pilot keeps one maneuver. Zero lets the
	// pilot pick its own default.
	Hold int

	// Seed drives pilots that make random choices.
	Seed int64
}

// PilotInfo contains metadata about a registered pilot.
type PilotInfo struct {
	Name        string
	Description string
}

// Factory builds a fresh input source for one run.
type Factory func(opts Options) replay.InputSource

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a pilot factory to the registry.
// Typically called from an init() function.
// Panics if a pilot with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: pilot %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered pilots, sorted by name.
func List() []PilotInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PilotInfo, 0, len(factories))
	for name := range factories {
		result = append(result, PilotInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create builds a pilot by name.
// Returns an error if the name is not registered.
func Create(name string, opts Options) (replay.InputSource, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown pilot %q", name)
	}

	return f(opts), nil
}

// Exists checks if a pilot with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}

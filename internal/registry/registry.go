// Package registry provides a global registry of built-in levels.
// Level packs register themselves in init() functions, allowing the platform
// to discover levels without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownLevel is returned when no level is registered under an ID.
var ErrUnknownLevel = errors.New("unknown level")

// Level is a registered level source.
type Level struct {
	ID    string
	Title string
	Data  []byte
}

// LevelInfo contains metadata about a registered level.
type LevelInfo struct {
	ID    string
	Title string
	Size  int
}

var (
	levels = make(map[string]Level)
	mu     sync.RWMutex
)

// Register adds a level to the registry.
// Typically called from a level pack's init() function.
// Panics if a level with the same ID is already registered.
func Register(id, title string, data []byte) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := levels[id]; exists {
		panic(fmt.Sprintf("registry: level %q already registered", id))
	}

	levels[id] = Level{ID: id, Title: title, Data: data}
}

// List returns information about all registered levels, sorted by ID.
func List() []LevelInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LevelInfo, 0, len(levels))
	for id, l := range levels {
		result = append(result, LevelInfo{
			ID:    id,
			Title: l.Title,
			Size:  len(l.Data),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Open returns the level registered under id.
// The returned data is a copy and may be modified by the caller.
func Open(id string) (Level, error) {
	mu.RLock()
	defer mu.RUnlock()

	l, ok := levels[id]
	if !ok {
		return Level{}, fmt.Errorf("registry: %w %q", ErrUnknownLevel, id)
	}

	l.Data = append([]byte(nil), l.Data...)
	return l, nil
}

// Exists checks if a level with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := levels[id]
	return ok
}

// unregister removes a level. Only used by tests.
func unregister(id string) {
	mu.Lock()
	defer mu.Unlock()
	delete(levels, id)
}

package pipeline

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Stage)
	mu       sync.RWMutex
)

// Register adds a stage to the registry.
func Register(stage Stage) {
	mu.Lock()
	defer mu.Unlock()
	registry[stage.Name()] = stage
}

// Get retrieves a stage by name.
func Get(name string) (Stage, error) {
	mu.RLock()
	defer mu.RUnlock()

	stage, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown stage: %s", name)
	}
	return stage, nil
}

// List returns all registered stage names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

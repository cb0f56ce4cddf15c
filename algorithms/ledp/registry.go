package ledp

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/mundrapranay/neighborsim/algorithms/common"
)

var (
	algorithmsMu sync.RWMutex
	algorithms   = make(map[string]func() common.GraphAlgorithm)
)

// Register registers an LEDP algorithm implementation
func Register(name string, constructor func() common.GraphAlgorithm) {
	algorithmsMu.Lock()
	defer algorithmsMu.Unlock()

	if constructor == nil {
		panic(fmt.Sprintf("algorithm constructor for %s is nil", name))
	}

	if _, exists := algorithms[name]; exists {
		panic(fmt.Sprintf("algorithm %s is already registered", name))
	}

	algorithms[name] = constructor
}

// Get returns a new instance of a registered algorithm
func Get(name string) (common.GraphAlgorithm, error) {
	algorithmsMu.RLock()
	defer algorithmsMu.RUnlock()

	constructor, exists := algorithms[name]
	if !exists {
		return nil, fmt.Errorf("ledp algorithm %s not found", name)
	}

	return constructor(), nil
}

// List returns all registered algorithm names in sorted order
func List() []string {
	algorithmsMu.RLock()
	defer algorithmsMu.RUnlock()

	return slices.Sorted(maps.Keys(algorithms))
}

package schema

import (
	"sync"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

var (
	registryMu sync.RWMutex
	registry   []*EntityBuilder
)

// Register adds an entity to the process-wide model set.
// Called by generated model packages in their init() functions.
func Register(b *EntityBuilder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, b)
}

// Registered builds every registered entity in registration order.
func Registered() ([]core.EntityDescriptor, error) {
	registryMu.RLock()
	builders := make([]*EntityBuilder, len(registry))
	copy(builders, registry)
	registryMu.RUnlock()
	return Build(builders...)
}

// RegisteredNames returns the names of registered entities in registration order.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, b := range registry {
		names = append(names, b.name)
	}
	return names
}

// Reset clears the registry. Intended for tests.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = nil
}

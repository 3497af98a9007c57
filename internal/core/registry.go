package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]TargetDefinition)
	registryMu sync.RWMutex
)

// Register adds a target definition to the registry.
// Panics if a target with the same key is already registered, or if the
// definition cannot export a lot number.
func Register(def TargetDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("target already registered: %s", def.Info.Key))
	}
	if _, ok := def.Headers[FieldLotNum]; !ok {
		panic(fmt.Sprintf("target %s does not export %s", def.Info.Key, FieldLotNum))
	}

	if def.Info.Label == "" {
		def.Info.Label = def.Info.Key
	}
	if def.Info.FilePrefix == "" {
		def.Info.FilePrefix = def.Info.Label
	}

	registry[def.Info.Key] = def
}

// Get returns a target definition by key.
// Returns false if not found.
func Get(key string) (TargetDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered target definitions.
// Sorted by processing order then by key.
func All() []TargetDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TargetDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Order != result[j].Info.Order {
			return result[i].Info.Order < result[j].Info.Order
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Clear removes all registered targets.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]TargetDefinition)
}

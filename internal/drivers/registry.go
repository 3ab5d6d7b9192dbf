package drivers

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/datashield/datashield-go/internal/models"
)

// entry keeps the name a driver was registered with, the registry being
// keyed by its normalized form.
type entry struct {
	name   string
	driver models.Driver
}

var (
	registry      = make(map[string]entry)
	registryMutex sync.RWMutex
)

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a driver to the registry. The first registration of a
// name wins.
func Register(name string, driver models.Driver) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	if _, exists := registry[key(name)]; exists {
		return
	}
	registry[key(name)] = entry{name: strings.TrimSpace(name), driver: driver}
}

// Set replaces a driver in the registry (useful for testing)
func Set(name string, driver models.Driver) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	registry[key(name)] = entry{name: strings.TrimSpace(name), driver: driver}
}

// Unregister removes a driver, if registered.
func Unregister(name string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	delete(registry, key(name))
}

// Get returns the driver registered under name, the lookup is case insensitive.
func Get(name string) (models.Driver, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	e, exists := registry[key(name)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", models.ErrDriverNotFound, name)
	}
	return e.driver, nil
}

// Names lists the registered driver identifiers as they were registered,
// sorted case insensitively.
func Names() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(key(a), key(b))
	})
	return names
}

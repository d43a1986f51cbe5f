package panel

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Registry maps panel names to their drivers.
type Registry struct {
	mu      sync.Mutex
	drivers map[string]Driver
}

// DefaultRegistry is used by the register functions when no registry is given.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register a driver under a unique name.
func (r *Registry) Register(name string, d Driver) error {
	if name == "" || d == nil {
		return fmt.Errorf("%w: panel: register needs a name and a driver", ErrInvalidParam)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.drivers[name]; dup {
		return fmt.Errorf("%w: panel: %q is already registered", ErrInvalidParam, name)
	}
	r.drivers[name] = d

	if debug {
		info := d.Info()
		log.Printf("panel: registered %s %dx%d %s", name, info.Width, info.Height, info.Format)
	}
	return nil
}

// Find the driver registered as name.
func (r *Registry) Find(name string) (Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: panel: no panel named %q", ErrInvalidParam, name)
	}
	return d, nil
}

// Names of the registered panels, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func registryOrDefault(r *Registry) *Registry {
	if r == nil {
		return DefaultRegistry
	}
	return r
}

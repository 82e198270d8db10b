package importer

import (
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/pkg/errors"
)

// Factory builds a plugin with live AWS clients.
type Factory func(awsCfg aws.Config) Importer

// Registry maps resource-type names to plugin factories. The plugin for a
// run is selected here at startup instead of by redefining behavior at
// runtime.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a plugin factory under its type name. Registering the same
// name twice is a programming error.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return errors.Errorf("resource type %q registered twice", name)
	}
	r.factories[name] = f
	return nil
}

// Get builds the plugin registered under name.
func (r *Registry) Get(name string, awsCfg aws.Config) (Importer, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown resource type %q; known types: %v", name, r.Names())
	}
	return f(awsCfg), nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package plugin

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry holds every loadable formatter capability for a single
// application instance, keyed by the identifier configuration files use in
// their plugins list.
type Registry struct {
	entries map[string]any
}

// NewRegistry creates and initializes a new Registry instance.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{entries: make(map[string]any)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register adds a capability under name. The value is kept untyped; the
// resolver asserts the Plugin contract at tree-resolution time so that a
// registered value lacking the features capability is a resolution error,
// not a registration error.
func (r *Registry) Register(name string, capability any) {
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("plugin with name '%s' already registered", name))
	}
	slog.Debug("Registering plugin.", "name", name)
	r.entries[name] = capability
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	v, ok := r.entries[name]
	return v, ok
}

// Names returns the sorted identifiers of every registered capability.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

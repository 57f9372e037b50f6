package logs

import "fmt"

// Factory is a function that creates a Source for a given endpoint. The
// endpoint is adapter-specific: a base URL for HTTP stores, a path for
// file-backed stores.
type Factory func(endpoint string) (Source, error)

// sources maps source type names (e.g., "file", "http") to their factory
// functions. Adapters register themselves via init() using Register().
var sources = map[string]Factory{}

// Register adds a Source factory under the given name.
// Typically called from an adapter's init() function.
func Register(name string, factory Factory) {
	sources[name] = factory
}

// Open creates a Source for the given source type and endpoint.
// Returns an error if the source type is not registered.
func Open(sourceType, endpoint string) (Source, error) {
	factory, ok := sources[sourceType]
	if !ok {
		return nil, fmt.Errorf("unsupported log source type %q (registered types: %v)", sourceType, registeredTypes())
	}
	return factory(endpoint)
}

// registeredTypes returns the names of all registered source types.
func registeredTypes() []string {
	types := make([]string, 0, len(sources))
	for name := range sources {
		types = append(types, name)
	}
	return types
}

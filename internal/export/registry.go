package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/pdxmph/contact-form/internal/contacts"
)

// ErrUnknownFormat is returned when no exporter is registered under a name
var ErrUnknownFormat = errors.New("unknown export format")

// Exporter serializes a record list into one file format
type Exporter interface {
	// Name returns the format identifier (e.g., "csv", "json")
	Name() string

	// FileName returns the name of the file the export is saved as
	FileName() string

	// Encode writes records to w. It never mutates records.
	Encode(w io.Writer, records []contacts.Contact) error
}

// Factory is a function that creates a new instance of an Exporter
type Factory func() Exporter

// Registry manages available exporters
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Factory
}

// NewRegistry creates a new exporter registry
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[string]Factory),
	}
}

// Register adds a new exporter factory to the registry
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.exporters[name]; exists {
		return fmt.Errorf("exporter %s already registered", name)
	}

	r.exporters[name] = factory
	return nil
}

// Lookup instantiates an exporter by name
func (r *Registry) Lookup(name string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.exporters[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}

	return factory(), nil
}

// Names returns all registered format names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry instance
var defaultRegistry = NewRegistry()

// Register adds an exporter to the global registry
func Register(name string, factory Factory) error {
	return defaultRegistry.Register(name, factory)
}

// Lookup creates an exporter from the global registry
func Lookup(name string) (Exporter, error) {
	return defaultRegistry.Lookup(name)
}

// Names returns all format names in the global registry
func Names() []string {
	return defaultRegistry.Names()
}

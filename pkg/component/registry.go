package component

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

var (
	// ErrUnknownComponent is returned for keys that are not registered.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrDuplicateComponent is returned when a key is registered twice.
	ErrDuplicateComponent = errors.New("duplicate component")
)

// Registry holds components by key. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: map[string]Component{}}
}

// Register adds components after validating their metadata.
func (r *Registry) Register(components ...Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range components {
		meta := c.Metadata()
		if err := meta.Validate(); err != nil {
			return err
		}
		if _, exists := r.components[meta.Key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, meta.Key)
		}
		r.components[meta.Key] = c
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(components ...Component) {
	if err := r.Register(components...); err != nil {
		panic(err)
	}
}

// Get returns the component registered under key.
func (r *Registry) Get(key string) (Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, key)
	}
	return c, nil
}

// List returns the metadata of all components sorted by key.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := lo.MapToSlice(r.components, func(_ string, c Component) Metadata {
		return c.Metadata()
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Key < list[j].Key })
	return list
}

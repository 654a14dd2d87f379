package goap

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a T from host dependencies D.
type Factory[D, T any] func(deps D) (T, error)

// Registry maps tags to factories. It replaces discovery of behaviours on a
// live object: hosts register every concrete action or goal variant once, and
// agent definitions refer to them by tag.
type Registry[D, T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[D, T]
}

// NewRegistry creates an empty registry.
func NewRegistry[D, T any]() *Registry[D, T] {
	return &Registry[D, T]{factories: make(map[string]Factory[D, T])}
}

// Register adds a factory under tag, replacing any previous one.
func (r *Registry[D, T]) Register(tag string, f Factory[D, T]) {
	if tag == "" || f == nil {
		panic("goap.Registry.Register: empty tag or nil factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[tag] = f
}

// Has reports whether tag is registered.
func (r *Registry[D, T]) Has(tag string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[tag]
	return ok
}

// Tags returns the registered tags, sorted.
func (r *Registry[D, T]) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Build creates one value per tag, in the order given.
func (r *Registry[D, T]) Build(deps D, tags ...string) ([]T, error) {
	out := make([]T, 0, len(tags))
	for _, tag := range tags {
		r.mu.RLock()
		f, ok := r.factories[tag]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
		}
		v, err := f(deps)
		if err != nil {
			return nil, fmt.Errorf("goap: build %q: %w", tag, err)
		}
		out = append(out, v)
	}
	return out, nil
}

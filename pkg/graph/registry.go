package graph

import (
	"fmt"
	"sort"
)

// Factory produces a fresh behavior instance for one node kind.
type Factory func() Behavior

// Registry maps type tags to behavior factories. The engine bakes no
// node kinds in; the host installs a catalog and hands the registry to
// Load so saved documents can be re-instantiated.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register installs a factory under the tag its definition declares.
// Registering a tag twice is a programming error and is rejected.
func (r *Registry) Register(f Factory) error {
	def := f().Definition()
	if def.Tag == "" {
		return fmt.Errorf("graph: factory with empty type tag")
	}
	if _, dup := r.factories[def.Tag]; dup {
		return fmt.Errorf("graph: type tag %q registered twice", def.Tag)
	}
	r.factories[def.Tag] = f
	return nil
}

// New instantiates a behavior for the given tag.
func (r *Registry) New(tag string) (Behavior, error) {
	f, ok := r.factories[tag]
	if !ok {
		return nil, &UnknownTypeError{Tag: tag}
	}
	return f(), nil
}

// Has reports whether a tag is registered.
func (r *Registry) Has(tag string) bool {
	_, ok := r.factories[tag]
	return ok
}

// Definitions lists every registered kind, sorted by tag. Hosts build
// their palette from this.
func (r *Registry) Definitions() []Definition {
	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	defs := make([]Definition, 0, len(tags))
	for _, tag := range tags {
		defs = append(defs, r.factories[tag]().Definition())
	}
	return defs
}

package domain

import (
	"fmt"
)

// Registry is the ordered, read-only set of configured instances.
// It is built once at startup and shared by reference.
type Registry struct {
	instances []Instance
}

// NewRegistry validates src and builds the registry.
//
// Rules, checked in order:
//   - a named "default" entry and any top-level field -> ErrConfigConflict
//   - top-level fields partially set -> ErrConfigIncomplete
//   - a complete top-level block becomes a trailing "default" entry
//
// Duplicate non-default names are kept; Resolve returns the first one.
func NewRegistry(src RegistrySource) (*Registry, error) {
	hasNamedDefault := false
	for _, inst := range src.Instances {
		if inst.Name == DefaultInstanceName {
			hasNamedDefault = true
			break
		}
	}

	if hasNamedDefault && src.Default.anySet() {
		return nil, fmt.Errorf("%w: found both a top-level default instance and a named instance called %q, declare only one of them",
			ErrConfigConflict, DefaultInstanceName)
	}

	if src.Default.anySet() && !src.Default.complete() {
		return nil, fmt.Errorf("%w: top-level baseUrl and credential must be set together",
			ErrConfigIncomplete)
	}

	instances := make([]Instance, 0, len(src.Instances)+1)
	instances = append(instances, src.Instances...)

	if src.Default.complete() {
		instances = append(instances, Instance{
			Name:            DefaultInstanceName,
			BaseURL:         src.Default.BaseURL,
			ExternalBaseURL: src.Default.ExternalBaseURL,
			Credential:      src.Default.Credential,
		})
	}

	return &Registry{instances: instances}, nil
}

// Resolve returns the first instance matching name.
// An empty name selects the default instance.
func (r *Registry) Resolve(name string) (Instance, error) {
	if name == "" || name == DefaultInstanceName {
		if inst, ok := r.lookup(DefaultInstanceName); ok {
			return inst, nil
		}
		if name == "" {
			return Instance{}, fmt.Errorf("%w: no instance name given and no default instance configured",
				ErrInstanceNotFound)
		}
		return Instance{}, fmt.Errorf("%w: no instance named %q configured, set the top-level baseUrl and credential or add a named %q instance",
			ErrInstanceNotFound, DefaultInstanceName, DefaultInstanceName)
	}

	if inst, ok := r.lookup(name); ok {
		return inst, nil
	}
	return Instance{}, fmt.Errorf("%w: no instance named %q configured", ErrInstanceNotFound, name)
}

func (r *Registry) lookup(name string) (Instance, bool) {
	for _, inst := range r.instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instance{}, false
}

// Instances returns a copy of the configured instances in declaration order.
func (r *Registry) Instances() []Instance {
	out := make([]Instance, len(r.instances))
	copy(out, r.instances)
	return out
}

// Len returns the number of configured instances.
func (r *Registry) Len() int {
	return len(r.instances)
}

// HasDefault reports whether unnamed requests can be resolved.
func (r *Registry) HasDefault() bool {
	_, ok := r.lookup(DefaultInstanceName)
	return ok
}

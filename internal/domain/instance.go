package domain

import (
	"errors"
	"fmt"
)

// DefaultInstanceName is the name selected when a request names no instance.
const DefaultInstanceName = "default"

var (
	// ErrConfigConflict is returned when a named "default" instance and the
	// top-level default block are both configured.
	ErrConfigConflict = errors.New("configuration conflict")

	// ErrConfigIncomplete is returned when an instance declaration misses a
	// required field.
	ErrConfigIncomplete = errors.New("configuration incomplete")

	// ErrInstanceNotFound is returned by Resolve for unknown names.
	ErrInstanceNotFound = errors.New("instance not found")
)

// Instance is one configured code-quality service endpoint.
//
// Instances are values: the registry hands out copies and nothing mutates
// them after construction.
type Instance struct {
	// Name addresses the instance in requests. Unique for "default".
	Name string

	// BaseURL is the API root used for outbound calls.
	// Example: https://quality.example.com
	BaseURL string

	// ExternalBaseURL is the user-facing UI root (optional).
	ExternalBaseURL string

	// Credential is sent as the bearer token. Never log it.
	Credential string
}

// IsDefault reports whether the instance answers unnamed requests.
func (i Instance) IsDefault() bool {
	return i.Name == DefaultInstanceName
}

// String renders the instance without its credential.
func (i Instance) String() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.BaseURL)
}

// DefaultBlock is the top-level single-instance declaration.
// An empty string means the field was not configured.
type DefaultBlock struct {
	BaseURL         string
	ExternalBaseURL string
	Credential      string
}

// anySet reports whether at least one field of the block is configured.
func (b DefaultBlock) anySet() bool {
	return b.BaseURL != "" || b.ExternalBaseURL != "" || b.Credential != ""
}

// complete reports whether the required fields are all configured.
func (b DefaultBlock) complete() bool {
	return b.BaseURL != "" && b.Credential != ""
}

// RegistrySource is the raw configuration tree a Registry is built from.
type RegistrySource struct {
	Default   DefaultBlock
	Instances []Instance
}

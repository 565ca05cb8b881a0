// Package step defines the provisioning step model: identities, kinds,
// statuses, the step interface, and the ordered registry.
package step

import (
	"errors"
	"regexp"
	"strings"
)

// ID uniquely identifies a step within the registry.
// Format: component:action (e.g., "mariadb:install-server").
type ID struct {
	value string
}

// Errors for ID validation.
var (
	ErrEmptyID   = errors.New("step ID cannot be empty")
	ErrInvalidID = errors.New("step ID format invalid: must be alphanumeric with colons, hyphens, or underscores")
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*(?::[a-z0-9][a-z0-9_-]*)*$`)

// NewID creates a new ID from a string.
func NewID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyID
	}
	if !idPattern.MatchString(trimmed) {
		return ID{}, ErrInvalidID
	}
	return ID{value: trimmed}, nil
}

// MustNewID creates a new ID from a string, panicking on error.
// Use this for compile-time known values that should never fail validation.
func MustNewID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic("invalid step ID: " + value + ": " + err.Error())
	}
	return id
}

// String returns the string representation.
func (id ID) String() string {
	return id.value
}

// Equals checks equality with another ID.
func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// IsZero returns true if this is a zero-value ID.
func (id ID) IsZero() bool {
	return id.value == ""
}

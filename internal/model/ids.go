// Package model holds the shared domain entities of the scheduling and
// tolerance-analysis engines: calendars, resources, tasks, milestones,
// components, features, mates, stackups, quotes, and assemblies. Entities
// are plain data; the solvers in internal/schedule, internal/stackup, and
// internal/bom never mutate them.
package model

import "github.com/google/uuid"

// ID is a stable entity identifier, a version-4 random UUID assigned at
// creation and never reused (spec.md 3.1).
type ID string

// NewID mints a fresh random identifier.
func NewID() ID {
	return ID(uuid.New().String())
}

func (id ID) String() string {
	return string(id)
}

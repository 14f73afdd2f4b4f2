// Package freeserferr defines the error taxonomy shared by the map, pathfinding,
// and AI planner packages.
package freeserferr

import "errors"

// ErrInvalidArgument covers out-of-range spiral distances, unsupported map
// sizes, and build requests against the wrong terrain/ownership. Reported to
// the caller, never logged as an error.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnbuildable means a can_build_* predicate returned false. The planner
// retries at the next candidate position.
var ErrUnbuildable = errors.New("position unbuildable")

// ErrDisconnected means a newly built building's flag could not be connected
// to the road network. The planner burns the building and flag down and
// records the position in its bad_positions set.
var ErrDisconnected = errors.New("flag could not be connected")

// ErrInvariantViolation marks a broken structural invariant (dangling path
// back-reference, missing flag where a building insists one exists). Fatal.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrSavegameMismatch means position data referenced a missing building or
// flag during load. Fatal.
var ErrSavegameMismatch = errors.New("savegame mismatch")

// IsRecoverable reports whether err represents an outcome the planner can
// retry from (Unbuildable, Disconnected) rather than one that must abort
// the process.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnbuildable) || errors.Is(err, ErrDisconnected)
}

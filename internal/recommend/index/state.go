// Bookrec - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookrec

package index

// State is the lifecycle state of the Manager.
type State int32

const (
	// StateUninitialized means no snapshot has been built or loaded.
	StateUninitialized State = iota
	// StateLoading means the first snapshot is being loaded or built.
	StateLoading
	// StateReady means a snapshot is being served.
	StateReady
	// StateRebuilding means a snapshot is served while a new one is built.
	StateRebuilding
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

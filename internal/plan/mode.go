// Package plan implements the action planner (C4): turning a classified
// diff.Pairing stream into a typed, totally ordered action list per
// backup mode, per spec.md §4.4.
package plan

import (
	"errors"
	"fmt"
)

// ErrInsufficientSpace is returned by CheckFreeSpace when the backup root
// lacks enough free space for the plan's copy actions and the configured
// policy does not authorize proceeding anyway.
var ErrInsufficientSpace = errors.New("insufficient free space for backup")

// Mode selects the matrix applied to each diff.Pairing.
type Mode string

const (
	// ModeSave copies new and changed files, never deletes, never
	// materializes unchanged files.
	ModeSave Mode = "save"
	// ModeMirror additionally deletes compare-only entries so the target
	// becomes an exact mirror of the source.
	ModeMirror Mode = "mirror"
	// ModeHardlink materializes every source file into a new versioned
	// backup, hardlinking unchanged files to the prior backup instead of
	// copying them.
	ModeHardlink Mode = "hardlink"
)

// Valid reports whether m is one of the three recognized modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSave, ModeMirror, ModeHardlink:
		return true
	default:
		return false
	}
}

// UnmarshalYAML implements a strict enum decode for configuration loading.
func (m *Mode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	candidate := Mode(raw)
	if !candidate.Valid() {
		return fmt.Errorf("invalid mode %q: must be one of save, mirror, hardlink", raw)
	}
	*m = candidate
	return nil
}

package world

import (
	"errors"
	"fmt"
)

// ErrNilInteraction rejects a nil interaction handed to Process.
var ErrNilInteraction = errors.New("world: interaction is nil")

// PlacementError reports a failed actor placement.
type PlacementError struct {
	World    string
	Actor    string
	Position Position
	Reason   string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("world %q: place %q at %v: %s", e.World, e.Actor, e.Position, e.Reason)
}

// MoveError reports a blocked or impossible actor movement or field
// manipulation.
type MoveError struct {
	World  string
	Actor  string
	Target Position
	Reason string
}

func (e *MoveError) Error() string {
	if e.Actor == "" {
		return fmt.Sprintf("world %q: %s", e.World, e.Reason)
	}
	return fmt.Sprintf("world %q: %q cannot reach %v: %s", e.World, e.Actor, e.Target, e.Reason)
}

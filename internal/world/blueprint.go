package world

import (
	"fmt"
)

// Spawn is the initial actor placement a world prescribes.
type Spawn struct {
	Position Position
	Heading  Heading
}

// Blueprint describes a grid before it is built. Blueprints come out of
// world plugin discovery and assignment manifests; Build turns one into a
// live grid.
type Blueprint struct {
	Name   string
	Width  int
	Height int
	Walls  []Position
	Spawn  Spawn
}

// Validate checks the blueprint without building it.
func (b Blueprint) Validate() error {
	if b.Width < 1 || b.Height < 1 {
		return fmt.Errorf("world %q: invalid dimensions %dx%d", b.Name, b.Width, b.Height)
	}
	inside := func(p Position) bool {
		return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
	}
	for _, w := range b.Walls {
		if !inside(w) {
			return fmt.Errorf("world %q: wall %v outside %dx%d bounds", b.Name, w, b.Width, b.Height)
		}
		if w == b.Spawn.Position {
			return fmt.Errorf("world %q: spawn %v collides with a wall", b.Name, w)
		}
	}
	if !inside(b.Spawn.Position) {
		return fmt.Errorf("world %q: spawn %v outside %dx%d bounds", b.Name, b.Spawn.Position, b.Width, b.Height)
	}
	return nil
}

// Build validates the blueprint and constructs the grid. The spawn is not
// applied here; placing the actor is the runtime's mounting step.
func (b Blueprint) Build() (*Grid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return NewGrid(b.Name, b.Width, b.Height, b.Walls)
}

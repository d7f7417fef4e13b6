// Package world implements the simulated environment: a bounded grid of
// fields with walls, marks and actor placements, plus the rule-checked
// facade through which every interaction reaches it.
package world

import (
	"fmt"
	"strings"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
)

// Position is a grid coordinate. X grows eastward, Y grows northward; the
// south-west corner of the grid is (0, 0).
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("[%d, %d]", p.X, p.Y)
}

// Heading is a cardinal facing direction.
type Heading int

const (
	North Heading = iota
	East
	South
	West
)

func (h Heading) String() string {
	switch h {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("heading(%d)", int(h))
}

// ParseHeading converts a heading name into a Heading, case-insensitively.
func ParseHeading(s string) (Heading, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, nil
	case "east", "e":
		return East, nil
	case "south", "s":
		return South, nil
	case "west", "w":
		return West, nil
	}
	return North, fmt.Errorf("world: unknown heading %q", s)
}

// Left returns the heading after a 90 degree counter-clockwise turn.
func (h Heading) Left() Heading { return (h + 3) % 4 }

// Right returns the heading after a 90 degree clockwise turn.
func (h Heading) Right() Heading { return (h + 1) % 4 }

// Ahead returns the position one step ahead of p in direction h.
func (h Heading) Ahead(p Position) Position {
	switch h {
	case North:
		return Position{X: p.X, Y: p.Y + 1}
	case East:
		return Position{X: p.X + 1, Y: p.Y}
	case South:
		return Position{X: p.X, Y: p.Y - 1}
	default:
		return Position{X: p.X - 1, Y: p.Y}
	}
}

type placement struct {
	actor   interaction.Actor
	pos     Position
	heading Heading
}

// Grid is the environment state. All mutation goes through methods that
// emit change events on the grid's emitter; the grid itself enforces only
// physical consistency (bounds, walls, occupancy), not admission rules.
type Grid struct {
	name    string
	width   int
	height  int
	walls   map[Position]struct{}
	marks   map[Position]struct{}
	actors  map[string]*placement
	fields  map[Position]string
	emitter *event.Emitter
}

// NewGrid builds an empty grid of the given dimensions with walls at the
// given positions. Dimensions below 1x1 and walls outside the bounds are
// construction errors.
func NewGrid(name string, width, height int, walls []Position) (*Grid, error) {
	if name == "" {
		name = "world"
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("world %q: invalid dimensions %dx%d", name, width, height)
	}
	g := &Grid{
		name:    name,
		width:   width,
		height:  height,
		walls:   make(map[Position]struct{}, len(walls)),
		marks:   make(map[Position]struct{}),
		actors:  make(map[string]*placement),
		fields:  make(map[Position]string),
		emitter: event.NewEmitter(),
	}
	for _, w := range walls {
		if !g.Inside(w) {
			return nil, fmt.Errorf("world %q: wall %v outside %dx%d bounds", name, w, width, height)
		}
		g.walls[w] = struct{}{}
	}
	return g, nil
}

// Name returns the world name.
func (g *Grid) Name() string { return g.name }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Emitter returns the grid's change event source.
func (g *Grid) Emitter() *event.Emitter { return g.emitter }

// Inside reports whether p lies within the grid bounds.
func (g *Grid) Inside(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Wall reports whether p holds a wall. Positions outside the grid are
// treated as walls, so the boundary behaves like a solid enclosure.
func (g *Grid) Wall(p Position) bool {
	if !g.Inside(p) {
		return true
	}
	_, ok := g.walls[p]
	return ok
}

// Marked reports whether the field at p carries a mark.
func (g *Grid) Marked(p Position) bool {
	_, ok := g.marks[p]
	return ok
}

// Marks returns every marked position, unordered.
func (g *Grid) Marks() []Position {
	out := make([]Position, 0, len(g.marks))
	for p := range g.marks {
		out = append(out, p)
	}
	return out
}

// Occupant returns the ID of the actor standing on p.
func (g *Grid) Occupant(p Position) (string, bool) {
	id, ok := g.fields[p]
	return id, ok
}

// Placement returns the position and heading of the actor with the given ID.
func (g *Grid) Placement(actorID string) (Position, Heading, bool) {
	pl, ok := g.actors[actorID]
	if !ok {
		return Position{}, North, false
	}
	return pl.pos, pl.heading, true
}

// Place registers an actor on the grid. Placement fails on positions that
// are out of bounds, walled, or occupied, and for actors already placed.
func (g *Grid) Place(a interaction.Actor, p Position, h Heading) error {
	if a == nil {
		return &PlacementError{World: g.name, Reason: "actor is nil"}
	}
	if _, ok := g.actors[a.ID()]; ok {
		return &PlacementError{World: g.name, Actor: a.Name(), Position: p, Reason: "actor already placed"}
	}
	if !g.Inside(p) {
		return &PlacementError{World: g.name, Actor: a.Name(), Position: p, Reason: "position out of bounds"}
	}
	if g.Wall(p) {
		return &PlacementError{World: g.name, Actor: a.Name(), Position: p, Reason: "position holds a wall"}
	}
	if occupant, ok := g.fields[p]; ok {
		return &PlacementError{World: g.name, Actor: a.Name(), Position: p,
			Reason: fmt.Sprintf("position occupied by %s", occupant)}
	}
	g.actors[a.ID()] = &placement{actor: a, pos: p, heading: h}
	g.fields[p] = a.ID()
	g.emitter.NotifyAll(event.WorldChanged{World: g.name, Change: "actor placed"})
	g.emitter.NotifyAll(event.PositionChanged{Robot: a.Name(), X: p.X, Y: p.Y, Heading: h.String()})
	return nil
}

// MoveForward advances the actor one field in its heading. Walls, bounds
// and occupied fields block the move with a MoveError; the actor stays put.
func (g *Grid) MoveForward(actorID string) (Position, error) {
	pl, ok := g.actors[actorID]
	if !ok {
		return Position{}, &MoveError{World: g.name, Reason: "actor not placed"}
	}
	target := pl.heading.Ahead(pl.pos)
	switch {
	case !g.Inside(target):
		return pl.pos, &MoveError{World: g.name, Actor: pl.actor.Name(), Target: target, Reason: "out of bounds"}
	case g.Wall(target):
		return pl.pos, &MoveError{World: g.name, Actor: pl.actor.Name(), Target: target, Reason: "wall ahead"}
	}
	if occupant, ok := g.fields[target]; ok {
		return pl.pos, &MoveError{World: g.name, Actor: pl.actor.Name(), Target: target,
			Reason: fmt.Sprintf("occupied by %s", occupant)}
	}
	delete(g.fields, pl.pos)
	g.fields[target] = actorID
	pl.pos = target
	g.emitter.NotifyAll(event.PositionChanged{
		Robot: pl.actor.Name(), X: target.X, Y: target.Y, Heading: pl.heading.String(),
	})
	return target, nil
}

// Turn rotates the actor 90 degrees, counter-clockwise when left is true.
func (g *Grid) Turn(actorID string, left bool) (Heading, error) {
	pl, ok := g.actors[actorID]
	if !ok {
		return North, &MoveError{World: g.name, Reason: "actor not placed"}
	}
	if left {
		pl.heading = pl.heading.Left()
	} else {
		pl.heading = pl.heading.Right()
	}
	g.emitter.NotifyAll(event.PositionChanged{
		Robot: pl.actor.Name(), X: pl.pos.X, Y: pl.pos.Y, Heading: pl.heading.String(),
	})
	return pl.heading, nil
}

// SetMark sets or clears the mark under the actor. It returns whether the
// field changed; marking a marked field (or clearing a clean one) is a
// no-op and emits nothing.
func (g *Grid) SetMark(actorID string, on bool) (bool, error) {
	pl, ok := g.actors[actorID]
	if !ok {
		return false, &MoveError{World: g.name, Reason: "actor not placed"}
	}
	if g.Marked(pl.pos) == on {
		return false, nil
	}
	if on {
		g.marks[pl.pos] = struct{}{}
	} else {
		delete(g.marks, pl.pos)
	}
	g.emitter.NotifyAll(event.MarkChanged{X: pl.pos.X, Y: pl.pos.Y, Marked: on})
	return true, nil
}

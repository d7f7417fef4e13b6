package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/robot"
)

func TestNewGridValidation(t *testing.T) {
	t.Parallel()

	_, err := NewGrid("w", 0, 3, nil)
	require.Error(t, err)

	_, err = NewGrid("w", 3, -1, nil)
	require.Error(t, err)

	_, err = NewGrid("w", 3, 3, []Position{{X: 3, Y: 0}})
	require.Error(t, err)

	g, err := NewGrid("w", 3, 3, []Position{{X: 1, Y: 1}})
	require.NoError(t, err)
	require.True(t, g.Wall(Position{X: 1, Y: 1}))
	require.False(t, g.Wall(Position{X: 0, Y: 0}))
}

func TestGridBoundaryIsWall(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 2, 2, nil)
	require.NoError(t, err)
	require.True(t, g.Wall(Position{X: -1, Y: 0}))
	require.True(t, g.Wall(Position{X: 0, Y: 2}))
}

func TestHeadingMath(t *testing.T) {
	t.Parallel()

	require.Equal(t, West, North.Left())
	require.Equal(t, East, North.Right())
	require.Equal(t, North, West.Right())
	require.Equal(t, North, East.Left())

	require.Equal(t, Position{X: 1, Y: 2}, North.Ahead(Position{X: 1, Y: 1}))
	require.Equal(t, Position{X: 2, Y: 1}, East.Ahead(Position{X: 1, Y: 1}))
	require.Equal(t, Position{X: 1, Y: 0}, South.Ahead(Position{X: 1, Y: 1}))
	require.Equal(t, Position{X: 0, Y: 1}, West.Ahead(Position{X: 1, Y: 1}))
}

func TestParseHeading(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Heading{
		"north": North, "N": North,
		"East": East, "e": East,
		"south": South,
		" west ": West,
	} {
		got, err := ParseHeading(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseHeading("up")
	require.Error(t, err)
}

func TestPlace(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 3, 3, []Position{{X: 2, Y: 2}})
	require.NoError(t, err)

	var events []event.Event
	g.Emitter().Register(event.Func(func(ev event.Event) { events = append(events, ev) }))

	r := robot.New("karel")
	require.NoError(t, g.Place(r, Position{X: 0, Y: 0}, East))

	pos, heading, ok := g.Placement(r.ID())
	require.True(t, ok)
	require.Equal(t, Position{X: 0, Y: 0}, pos)
	require.Equal(t, East, heading)

	occupant, ok := g.Occupant(Position{X: 0, Y: 0})
	require.True(t, ok)
	require.Equal(t, r.ID(), occupant)

	require.Len(t, events, 2)
	require.Equal(t, event.NameWorldChanged, events[0].Name())
	require.Equal(t, event.NamePositionChanged, events[1].Name())
}

func TestPlaceRejections(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 3, 3, []Position{{X: 1, Y: 0}})
	require.NoError(t, err)
	r := robot.New("karel")
	require.NoError(t, g.Place(r, Position{X: 0, Y: 0}, North))

	var perr *PlacementError

	require.ErrorAs(t, g.Place(r, Position{X: 2, Y: 2}, North), &perr)
	require.Contains(t, perr.Reason, "already placed")

	require.ErrorAs(t, g.Place(robot.New("out"), Position{X: 5, Y: 5}, North), &perr)
	require.Contains(t, perr.Reason, "out of bounds")

	require.ErrorAs(t, g.Place(robot.New("walled"), Position{X: 1, Y: 0}, North), &perr)
	require.Contains(t, perr.Reason, "wall")

	require.ErrorAs(t, g.Place(robot.New("crowded"), Position{X: 0, Y: 0}, North), &perr)
	require.Contains(t, perr.Reason, "occupied")

	require.ErrorAs(t, g.Place(nil, Position{}, North), &perr)
}

func TestMoveForward(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 3, 1, nil)
	require.NoError(t, err)
	r := robot.New("karel")
	require.NoError(t, g.Place(r, Position{X: 0, Y: 0}, East))

	pos, err := g.MoveForward(r.ID())
	require.NoError(t, err)
	require.Equal(t, Position{X: 1, Y: 0}, pos)

	_, ok := g.Occupant(Position{X: 0, Y: 0})
	require.False(t, ok, "previous field must be vacated")

	pos, err = g.MoveForward(r.ID())
	require.NoError(t, err)
	require.Equal(t, Position{X: 2, Y: 0}, pos)

	// Edge of the world.
	var merr *MoveError
	_, err = g.MoveForward(r.ID())
	require.ErrorAs(t, err, &merr)
	require.Contains(t, merr.Reason, "out of bounds")

	got, _, ok := g.Placement(r.ID())
	require.True(t, ok)
	require.Equal(t, Position{X: 2, Y: 0}, got, "blocked move must not displace the actor")
}

func TestMoveForwardBlockedByWall(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 3, 1, []Position{{X: 1, Y: 0}})
	require.NoError(t, err)
	r := robot.New("karel")
	require.NoError(t, g.Place(r, Position{X: 0, Y: 0}, East))

	var merr *MoveError
	_, err = g.MoveForward(r.ID())
	require.ErrorAs(t, err, &merr)
	require.Contains(t, merr.Reason, "wall")
}

func TestMoveForwardBlockedByActor(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 3, 1, nil)
	require.NoError(t, err)
	mover := robot.New("mover")
	blocker := robot.New("blocker")
	require.NoError(t, g.Place(mover, Position{X: 0, Y: 0}, East))
	require.NoError(t, g.Place(blocker, Position{X: 1, Y: 0}, West))

	var merr *MoveError
	_, err = g.MoveForward(mover.ID())
	require.ErrorAs(t, err, &merr)
	require.Contains(t, merr.Reason, "occupied")
}

func TestMoveForwardUnplacedActor(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 3, 3, nil)
	require.NoError(t, err)

	var merr *MoveError
	_, err = g.MoveForward("ghost")
	require.ErrorAs(t, err, &merr)
}

func TestTurnFullRotation(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 1, 1, nil)
	require.NoError(t, err)
	r := robot.New("karel")
	require.NoError(t, g.Place(r, Position{}, North))

	want := []Heading{East, South, West, North}
	for _, expect := range want {
		h, err := g.Turn(r.ID(), false)
		require.NoError(t, err)
		require.Equal(t, expect, h)
	}
}

func TestSetMark(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("w", 2, 1, nil)
	require.NoError(t, err)
	r := robot.New("karel")
	require.NoError(t, g.Place(r, Position{}, East))

	var marks []event.Event
	g.Emitter().Register(event.Func(func(ev event.Event) {
		if ev.Name() == event.NameMarkChanged {
			marks = append(marks, ev)
		}
	}))

	changed, err := g.SetMark(r.ID(), true)
	require.NoError(t, err)
	require.True(t, changed)
	require.True(t, g.Marked(Position{}))

	changed, err = g.SetMark(r.ID(), true)
	require.NoError(t, err)
	require.False(t, changed, "marking a marked field is a no-op")

	changed, err = g.SetMark(r.ID(), false)
	require.NoError(t, err)
	require.True(t, changed)
	require.False(t, g.Marked(Position{}))

	require.Len(t, marks, 2, "no-op mark operations emit nothing")
	require.Equal(t, []Position{}, g.Marks())
}

func TestBlueprintValidate(t *testing.T) {
	t.Parallel()

	good := Blueprint{Name: "w", Width: 3, Height: 3,
		Walls: []Position{{X: 1, Y: 1}},
		Spawn: Spawn{Position: Position{X: 0, Y: 0}, Heading: East}}
	require.NoError(t, good.Validate())

	bad := good
	bad.Width = 0
	require.Error(t, bad.Validate())

	bad = good
	bad.Spawn.Position = Position{X: 1, Y: 1}
	require.Error(t, bad.Validate(), "spawn on a wall")

	bad = good
	bad.Spawn.Position = Position{X: 9, Y: 0}
	require.Error(t, bad.Validate(), "spawn out of bounds")

	bad = good
	bad.Walls = []Position{{X: -1, Y: 0}}
	require.Error(t, bad.Validate())
}

func TestBlueprintBuild(t *testing.T) {
	t.Parallel()

	g, err := Blueprint{Name: "maze", Width: 4, Height: 2,
		Walls: []Position{{X: 2, Y: 0}}}.Build()
	require.NoError(t, err)
	require.Equal(t, "maze", g.Name())
	require.Equal(t, 4, g.Width())
	require.Equal(t, 2, g.Height())
	require.True(t, g.Wall(Position{X: 2, Y: 0}))
}

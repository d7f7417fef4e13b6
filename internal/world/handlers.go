package world

import (
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
)

// gridHandler binds one interaction kind to a grid operation.
type gridHandler struct {
	kind string
	grid *Grid
	run  func(g *Grid, ia *interaction.Interaction) (any, error)
}

func (h *gridHandler) Kind() string { return h.kind }

func (h *gridHandler) Execute(ia *interaction.Interaction) (any, error) {
	if ia.Kind() != h.kind {
		return nil, &interaction.DispatchMismatchError{
			HandlerKind:     h.kind,
			InteractionKind: ia.Kind(),
		}
	}
	return h.run(h.grid, ia)
}

// builtinHandlers returns one handler per built-in interaction kind, all
// operating on g. Result values use plain Go types so they convert cleanly
// into script values.
func builtinHandlers(g *Grid) []interaction.Handler {
	return []interaction.Handler{
		&gridHandler{kind: interaction.KindMoveForward, grid: g, run: moveForward},
		&gridHandler{kind: interaction.KindTurnLeft, grid: g, run: turn(true)},
		&gridHandler{kind: interaction.KindTurnRight, grid: g, run: turn(false)},
		&gridHandler{kind: interaction.KindPlaceMark, grid: g, run: setMark(true)},
		&gridHandler{kind: interaction.KindRemoveMark, grid: g, run: setMark(false)},
		&gridHandler{kind: interaction.KindScanWall, grid: g, run: scanWall},
		&gridHandler{kind: interaction.KindScanMark, grid: g, run: scanMark},
		&gridHandler{kind: interaction.KindLocate, grid: g, run: locate},
	}
}

func moveForward(g *Grid, ia *interaction.Interaction) (any, error) {
	pos, err := g.MoveForward(ia.Actor().ID())
	if err != nil {
		return nil, err
	}
	return map[string]any{"x": pos.X, "y": pos.Y}, nil
}

func turn(left bool) func(*Grid, *interaction.Interaction) (any, error) {
	return func(g *Grid, ia *interaction.Interaction) (any, error) {
		h, err := g.Turn(ia.Actor().ID(), left)
		if err != nil {
			return nil, err
		}
		return h.String(), nil
	}
}

func setMark(on bool) func(*Grid, *interaction.Interaction) (any, error) {
	return func(g *Grid, ia *interaction.Interaction) (any, error) {
		return g.SetMark(ia.Actor().ID(), on)
	}
}

func scanWall(g *Grid, ia *interaction.Interaction) (any, error) {
	pos, heading, ok := g.Placement(ia.Actor().ID())
	if !ok {
		return nil, &MoveError{World: g.Name(), Reason: "actor not placed"}
	}
	return g.Wall(heading.Ahead(pos)), nil
}

func scanMark(g *Grid, ia *interaction.Interaction) (any, error) {
	pos, _, ok := g.Placement(ia.Actor().ID())
	if !ok {
		return nil, &MoveError{World: g.Name(), Reason: "actor not placed"}
	}
	return g.Marked(pos), nil
}

func locate(g *Grid, ia *interaction.Interaction) (any, error) {
	pos, heading, ok := g.Placement(ia.Actor().ID())
	if !ok {
		return nil, &MoveError{World: g.Name(), Reason: "actor not placed"}
	}
	return map[string]any{"x": pos.X, "y": pos.Y, "heading": heading.String()}, nil
}

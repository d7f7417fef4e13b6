package robot

import (
	"fmt"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
)

// InvokeFunc submits a constructed interaction to the environment and
// returns the environment's result. The runtime wires every mounted unit to
// the world facade through one of these.
type InvokeFunc func(ia *interaction.Interaction) (any, error)

// Unit is one capability instance. A unit is built by a Factory, mounted on
// exactly one robot, and wired to an environment before it can execute.
type Unit struct {
	name        string
	description string
	kind        string
	owner       *Robot
	invoke      InvokeFunc
}

// NewUnit returns an unmounted, unwired unit.
func NewUnit(name, description, kind string) *Unit {
	return &Unit{name: name, description: description, kind: kind}
}

// Name returns the unit name submissions address it by.
func (u *Unit) Name() string { return u.name }

// Description returns the human-readable capability description.
func (u *Unit) Description() string { return u.description }

// Kind returns the interaction kind this unit produces.
func (u *Unit) Kind() string { return u.kind }

// Owner returns the owning actor, or nil while the unit is unmounted.
func (u *Unit) Owner() interaction.Actor {
	if u.owner == nil {
		return nil
	}
	return u.owner
}

// Wire connects the unit to the environment it submits interactions to.
func (u *Unit) Wire(invoke InvokeFunc) { u.invoke = invoke }

// Wired reports whether the unit can reach an environment.
func (u *Unit) Wired() bool { return u.invoke != nil }

// Execute builds one interaction carrying args and submits it to the wired
// environment. It refuses to act for a deactivated owner and fails when the
// unit was never wired.
func (u *Unit) Execute(args ...any) (any, error) {
	if u.owner != nil && !u.owner.Active() {
		return nil, fmt.Errorf("unit %q: robot %q: %w", u.name, u.owner.Name(), ErrInactiveActor)
	}
	ia, err := interaction.New(u.kind, u,
		interaction.WithDescription(u.description),
		interaction.WithArgs(args...))
	if err != nil {
		return nil, err
	}
	if u.invoke == nil {
		return nil, fmt.Errorf("unit %q: %w", u.name, ErrUnwired)
	}
	return u.invoke(ia)
}

var _ interaction.Unit = (*Unit)(nil)

// Factory produces units of one capability type. Factories come out of unit
// plugin discovery; their descriptors are validated before construction.
type Factory struct {
	name        string
	description string
	kind        string
}

// NewFactory validates the descriptor triple and returns a factory for it.
// The kind must be part of the built-in interaction catalog.
func NewFactory(name, description, kind string) (*Factory, error) {
	if name == "" {
		return nil, fmt.Errorf("unit factory: %w", ErrEmptyName)
	}
	if kind == "" {
		return nil, fmt.Errorf("unit factory %q: %w", name, interaction.ErrEmptyKind)
	}
	if !interaction.KnownKind(kind) {
		return nil, &UnknownKindError{Factory: name, Kind: kind}
	}
	return &Factory{name: name, description: description, kind: kind}, nil
}

// Name returns the factory (and produced unit) name.
func (f *Factory) Name() string { return f.name }

// Description returns the capability description.
func (f *Factory) Description() string { return f.description }

// Kind returns the interaction kind produced units generate.
func (f *Factory) Kind() string { return f.kind }

// Build returns a fresh unmounted unit.
func (f *Factory) Build() *Unit {
	return NewUnit(f.name, f.description, f.kind)
}

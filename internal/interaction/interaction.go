// Package interaction defines the contract between acting entities and the
// environment they act in: the interaction kinds, the Interaction value
// itself, the handler registry that executes interactions, and the stateful
// rules that admit or reject them.
package interaction

import (
	"fmt"
)

// Actor is the acting entity an interaction ultimately belongs to. The
// environment needs identity, liveness, and the deactivation hook; it never
// needs the concrete robot type.
type Actor interface {
	ID() string
	Name() string
	Active() bool
	Deactivate()
}

// Unit is the capability that originates an interaction. A unit without an
// owning actor cannot interact; Owner returning nil marks an unmounted unit.
type Unit interface {
	Name() string
	Description() string
	Kind() string
	Owner() Actor
}

// Interaction is one concrete action request issued by a unit on behalf of
// its owning actor. An Interaction is immutable after construction.
type Interaction struct {
	name        string
	description string
	kind        string
	unit        Unit
	args        []any
	onReject    func(error)
}

// Option configures optional Interaction fields at construction.
type Option func(*Interaction)

// WithDescription overrides the human-readable description.
func WithDescription(description string) Option {
	return func(ia *Interaction) { ia.description = description }
}

// WithArgs attaches call arguments carried to the executing handler.
func WithArgs(args ...any) Option {
	return func(ia *Interaction) { ia.args = args }
}

// WithRejectCallback replaces the default rejection reaction. The default
// deactivates the owning actor.
func WithRejectCallback(fn func(error)) Option {
	return func(ia *Interaction) { ia.onReject = fn }
}

// New builds an interaction of the given kind originating from unit. It
// fails when the kind is empty, the unit is nil, or the unit has no owning
// actor; an interaction is never created half-bound.
func New(kind string, unit Unit, opts ...Option) (*Interaction, error) {
	if kind == "" {
		return nil, ErrEmptyKind
	}
	if unit == nil {
		return nil, ErrNilUnit
	}
	owner := unit.Owner()
	if owner == nil {
		return nil, fmt.Errorf("%w: unit %q", ErrOrphanUnit, unit.Name())
	}
	ia := &Interaction{
		name: fmt.Sprintf("%s by %s", kind, unit.Name()),
		kind: kind,
		unit: unit,
		onReject: func(error) {
			owner.Deactivate()
		},
	}
	for _, opt := range opts {
		opt(ia)
	}
	return ia, nil
}

// Name returns the human-readable identity, e.g. "move_forward by engine".
func (ia *Interaction) Name() string { return ia.name }

// Description returns the optional free-form description.
func (ia *Interaction) Description() string { return ia.description }

// Kind returns the interaction kind used for handler routing.
func (ia *Interaction) Kind() string { return ia.kind }

// Unit returns the originating unit.
func (ia *Interaction) Unit() Unit { return ia.unit }

// Actor returns the owning actor, resolved through the originating unit.
func (ia *Interaction) Actor() Actor { return ia.unit.Owner() }

// Args returns the call arguments. The returned slice is shared; treat it
// as read-only.
func (ia *Interaction) Args() []any { return ia.args }

// Reject invokes the rejection callback with the cause. The environment
// calls this when rules refuse the interaction mid-flight.
func (ia *Interaction) Reject(cause error) {
	if ia.onReject != nil {
		ia.onReject(cause)
	}
}

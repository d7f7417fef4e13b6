package interaction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyKind rejects interactions and handlers without a kind.
	ErrEmptyKind = errors.New("interaction: empty kind")
	// ErrNilUnit rejects interactions with no originating unit.
	ErrNilUnit = errors.New("interaction: originating unit is nil")
	// ErrOrphanUnit rejects interactions from a unit with no owning actor.
	ErrOrphanUnit = errors.New("interaction: originating unit has no owning actor")
	// ErrNilHandler rejects nil handler registrations.
	ErrNilHandler = errors.New("interaction: handler is nil")
)

// DuplicateHandlerError reports a second handler registration for a kind
// that is already covered.
type DuplicateHandlerError struct {
	Kind string
}

func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("interaction: handler for kind %q already registered", e.Kind)
}

// NoHandlerError reports an interaction whose kind no handler covers.
type NoHandlerError struct {
	Kind string
}

func (e *NoHandlerError) Error() string {
	return fmt.Sprintf("interaction: no handler for kind %q", e.Kind)
}

// DispatchMismatchError reports a handler asked to execute an interaction of
// a kind it does not accept. Unreachable through correct manager routing.
type DispatchMismatchError struct {
	HandlerKind     string
	InteractionKind string
}

func (e *DispatchMismatchError) Error() string {
	return fmt.Sprintf("interaction: handler for kind %q cannot execute kind %q",
		e.HandlerKind, e.InteractionKind)
}

// RuleViolationError carries the complete set of rules one interaction
// violated.
type RuleViolationError struct {
	Interaction string
	Violated    []Rule
}

func (e *RuleViolationError) Error() string {
	return fmt.Sprintf("interaction: %s rejected, violates [%s]",
		e.Interaction, strings.Join(e.RuleNames(), ", "))
}

// RuleNames returns the violated rule names in evaluation order.
func (e *RuleViolationError) RuleNames() []string {
	names := make([]string, len(e.Violated))
	for i, r := range e.Violated {
		names[i] = r.Name()
	}
	return names
}

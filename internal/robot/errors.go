package robot

import (
	"errors"
	"fmt"
)

var (
	// ErrInactiveActor rejects unit execution for a deactivated robot.
	ErrInactiveActor = errors.New("robot: actor is deactivated")
	// ErrUnwired rejects unit execution before the runtime wired the unit
	// to an environment.
	ErrUnwired = errors.New("robot: unit is not wired to an environment")
	// ErrEmptyName rejects factories and robots without a name.
	ErrEmptyName = errors.New("robot: empty name")
)

// MountingError reports a violation of the mounting contract.
type MountingError struct {
	Robot  string
	Unit   string
	Reason string
}

func (e *MountingError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("robot %q: mounting: %s", e.Robot, e.Reason)
	}
	return fmt.Sprintf("robot %q: mounting unit %q: %s", e.Robot, e.Unit, e.Reason)
}

// UnknownKindError reports a unit factory declaring a kind outside the
// built-in interaction catalog.
type UnknownKindError struct {
	Factory string
	Kind    string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unit factory %q: unknown interaction kind %q", e.Factory, e.Kind)
}

package runtime

import "fmt"

// State is the runtime's lifecycle position. A trial walks
// Unbuilt → Prepared → Mounted → Running and ends in exactly one of the
// three terminal states.
type State int

const (
	StateUnbuilt State = iota
	StatePrepared
	StateMounted
	StateRunning
	StateSuccess
	StateFailure
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StatePrepared:
		return "prepared"
	case StateMounted:
		return "mounted"
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether s ends the lifecycle.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure || s == StateError
}

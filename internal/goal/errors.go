package goal

import (
	"fmt"
)

// BindingError reports an attempt to rebind a write-once ownership: a Func
// to a second task, or a task to a second target.
type BindingError struct {
	Kind      string // "function" or "task"
	Name      string
	Bound     string
	Attempted string
}

func (e *BindingError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("goal: %s already bound to %q, cannot bind to %q", e.Kind, e.Bound, e.Attempted)
	}
	return fmt.Sprintf("goal: %s %q already bound to %q, cannot bind to %q", e.Kind, e.Name, e.Bound, e.Attempted)
}

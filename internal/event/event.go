// Package event provides the synchronous notification bus that connects the
// simulated world to goal evaluation and visualization. Emitters deliver
// events in registration order on the calling goroutine; there is no queue
// and no fan-out goroutine.
package event

// Event is a notification payload delivered through an Emitter. Concrete
// events expose a stable name and a flat field map so that predicate
// expressions can match on them without knowing the Go types.
type Event interface {
	// Name identifies the event kind, e.g. "position_changed".
	Name() string
	// Fields returns the payload as a flat map keyed by field name. The
	// map always contains "name" with the same value Name returns.
	Fields() map[string]any
}

// Event kind names.
const (
	NamePositionChanged = "position_changed"
	NameMarkChanged     = "mark_changed"
	NameActorChanged    = "actor_changed"
	NameWorldChanged    = "world_changed"
	NameLogMessage      = "log_message"
)

// PositionChanged reports that an actor occupies a new position or heading.
type PositionChanged struct {
	Robot   string
	X       int
	Y       int
	Heading string
}

func (e PositionChanged) Name() string { return NamePositionChanged }

func (e PositionChanged) Fields() map[string]any {
	return map[string]any{
		"name":    e.Name(),
		"robot":   e.Robot,
		"x":       e.X,
		"y":       e.Y,
		"heading": e.Heading,
	}
}

// MarkChanged reports that a field gained or lost its mark.
type MarkChanged struct {
	X      int
	Y      int
	Marked bool
}

func (e MarkChanged) Name() string { return NameMarkChanged }

func (e MarkChanged) Fields() map[string]any {
	return map[string]any{
		"name":   e.Name(),
		"x":      e.X,
		"y":      e.Y,
		"marked": e.Marked,
	}
}

// ActorChanged reports an actor activation state change, typically a
// deactivation after a contained fault.
type ActorChanged struct {
	Robot  string
	Active bool
	Reason string
}

func (e ActorChanged) Name() string { return NameActorChanged }

func (e ActorChanged) Fields() map[string]any {
	return map[string]any{
		"name":   e.Name(),
		"robot":  e.Robot,
		"active": e.Active,
		"reason": e.Reason,
	}
}

// WorldChanged reports a coarse world state transition, e.g. that the world
// finished building or that an actor was placed into it.
type WorldChanged struct {
	World  string
	Change string
}

func (e WorldChanged) Name() string { return NameWorldChanged }

func (e WorldChanged) Fields() map[string]any {
	return map[string]any{
		"name":   e.Name(),
		"world":  e.World,
		"change": e.Change,
	}
}

// LogMessage mirrors one trial log entry onto the bus so that goal
// predicates can react to submission output.
type LogMessage struct {
	Context string
	Message string
}

func (e LogMessage) Name() string { return NameLogMessage }

func (e LogMessage) Fields() map[string]any {
	return map[string]any{
		"name":    e.Name(),
		"context": e.Context,
		"message": e.Message,
	}
}

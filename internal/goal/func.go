// Package goal implements target evaluation: boolean predicate trees whose
// leaves latch on world events and whose composites recompute on demand.
// Predicates over event payloads are expr expressions compiled at
// construction time.
package goal

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
)

// Func is a boolean goal predicate. Leaves subscribe to event sources and
// latch; composites recurse into their children. Every Func belongs to
// exactly one task, enforced at task construction.
type Func interface {
	Name() string
	// Configure wires the predicate to its event sources. Composites
	// forward to their children; leaves subscribe.
	Configure(sources ...*event.Emitter)
	// Eval reports whether the predicate currently holds.
	Eval() bool

	attach(t *Task) error
}

// bound carries the write-once task ownership every Func shares.
type bound struct {
	task *Task
}

func (b *bound) attach(t *Task) error {
	if t == nil {
		return fmt.Errorf("goal: attach to nil task")
	}
	if b.task != nil {
		return &BindingError{Kind: "function", Bound: b.task.Name(), Attempted: t.Name()}
	}
	b.task = t
	return nil
}

// matchEnv is the expression environment a leaf evaluates events against.
type matchEnv struct {
	Event map[string]any `expr:"event"`
}

// WhenEvent is a leaf predicate that latches true the first time an
// observed event satisfies its expression, then drops its subscriptions.
// Once satisfied it stays satisfied; later events cannot revoke it.
type WhenEvent struct {
	bound
	name      string
	source    string
	program   *vm.Program
	satisfied bool
	sources   []*event.Emitter
}

// NewWhenEvent compiles expression into a leaf predicate. The expression
// sees the event payload as "event", e.g.
//
//	event.name == "position_changed" && event.x == 2 && event.y == 0
func NewWhenEvent(name, expression string) (*WhenEvent, error) {
	program, err := expr.Compile(expression, expr.Env(matchEnv{}), expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("goal %q: compile %q: %w", name, expression, err)
	}
	return &WhenEvent{name: name, source: expression, program: program}, nil
}

func (f *WhenEvent) Name() string { return f.name }

// Expression returns the original expression source.
func (f *WhenEvent) Expression() string { return f.source }

func (f *WhenEvent) Configure(sources ...*event.Emitter) {
	if f.satisfied {
		return
	}
	for _, s := range sources {
		if s == nil {
			continue
		}
		f.sources = append(f.sources, s)
		s.Register(f)
	}
}

// HandleEvent tests ev against the expression. On the first match the leaf
// latches and unsubscribes from all sources, mid-delivery included.
func (f *WhenEvent) HandleEvent(ev event.Event) {
	if f.satisfied {
		return
	}
	res, err := expr.Run(f.program, matchEnv{Event: ev.Fields()})
	if err != nil {
		slog.Debug("goal predicate evaluation failed",
			"goal", f.name, "event", ev.Name(), "error", err)
		return
	}
	ok, _ := res.(bool)
	if !ok {
		return
	}
	f.satisfied = true
	for _, s := range f.sources {
		s.Deregister(f)
	}
	f.sources = nil
}

func (f *WhenEvent) Eval() bool { return f.satisfied }

// Always is a constant-true leaf. It backs "always completed" targets and
// needs no event sources.
type Always struct {
	bound
	name string
}

// NewAlways returns the constant-true predicate.
func NewAlways(name string) *Always {
	return &Always{name: name}
}

func (f *Always) Name() string { return f.name }

func (f *Always) Configure(...*event.Emitter) {}

func (f *Always) Eval() bool { return true }

// All is satisfied when every child is. An All with no children is
// vacuously true.
type All struct {
	bound
	name     string
	children []Func
}

// NewAll returns the conjunction of children.
func NewAll(name string, children ...Func) *All {
	return &All{name: name, children: children}
}

func (f *All) Name() string { return f.name }

func (f *All) attach(t *Task) error {
	if err := f.bound.attach(t); err != nil {
		return err
	}
	return attachAll(f.children, t)
}

func (f *All) Configure(sources ...*event.Emitter) {
	for _, c := range f.children {
		c.Configure(sources...)
	}
}

func (f *All) Eval() bool {
	for _, c := range f.children {
		if !c.Eval() {
			return false
		}
	}
	return true
}

// Any is satisfied when at least one child is.
type Any struct {
	bound
	name     string
	children []Func
}

// NewAny returns the disjunction of children.
func NewAny(name string, children ...Func) *Any {
	return &Any{name: name, children: children}
}

func (f *Any) Name() string { return f.name }

func (f *Any) attach(t *Task) error {
	if err := f.bound.attach(t); err != nil {
		return err
	}
	return attachAll(f.children, t)
}

func (f *Any) Configure(sources ...*event.Emitter) {
	for _, c := range f.children {
		c.Configure(sources...)
	}
}

// Eval reports whether at least one child is satisfied. An Any with no
// children reports true, mirroring All's vacuous truth; callers that want
// empty disjunctions rejected must do so at construction.
func (f *Any) Eval() bool {
	if len(f.children) == 0 {
		return true
	}
	for _, c := range f.children {
		if c.Eval() {
			return true
		}
	}
	return false
}

// Not inverts its child. Note that a Not over a latching leaf flips from
// true to false when the leaf latches, so Not subtrees are not sticky.
type Not struct {
	bound
	name  string
	child Func
}

// NewNot returns the negation of child.
func NewNot(name string, child Func) *Not {
	return &Not{name: name, child: child}
}

func (f *Not) Name() string { return f.name }

func (f *Not) attach(t *Task) error {
	if err := f.bound.attach(t); err != nil {
		return err
	}
	if f.child == nil {
		return nil
	}
	return f.child.attach(t)
}

func (f *Not) Configure(sources ...*event.Emitter) {
	if f.child != nil {
		f.child.Configure(sources...)
	}
}

func (f *Not) Eval() bool {
	if f.child == nil {
		return false
	}
	return !f.child.Eval()
}

// attachAll binds every child to t, so that no node of a composed tree can
// serve two tasks.
func attachAll(children []Func, t *Task) error {
	for _, c := range children {
		if err := c.attach(t); err != nil {
			return err
		}
	}
	return nil
}

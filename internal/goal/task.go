package goal

import (
	"fmt"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
)

// Task is one scored objective: identity plus the predicate deciding it. A
// task owns its Func and belongs to at most one target; both relationships
// are write-once.
type Task struct {
	name        string
	description string
	fn          Func
	target      *Target
}

// NewTask pairs identity metadata with fn and binds fn to the task. A Func
// already owned by another task is rejected.
func NewTask(name, description string, fn Func) (*Task, error) {
	if name == "" {
		return nil, fmt.Errorf("goal: task without a name")
	}
	if fn == nil {
		return nil, fmt.Errorf("goal: task %q without a function", name)
	}
	t := &Task{name: name, description: description, fn: fn}
	if err := fn.attach(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

// Description returns the human-readable objective.
func (t *Task) Description() string { return t.description }

// Func returns the deciding predicate.
func (t *Task) Func() Func { return t.fn }

// Eval reports whether the task is currently satisfied.
func (t *Task) Eval() bool { return t.fn.Eval() }

// Target returns the owning target, nil before the task is added to one.
func (t *Task) Target() *Target { return t.target }

func (t *Task) bind(g *Target) error {
	if t.target != nil {
		return &BindingError{Kind: "task", Name: t.name, Bound: t.target.Name(), Attempted: g.Name()}
	}
	t.target = g
	return nil
}

// TaskResult is the scored outcome of one task after a trial.
type TaskResult struct {
	Name        string
	Description string
	Passed      bool
}

// Target is the overall goal of one assignment: an ordered set of tasks
// scored independently.
type Target struct {
	name        string
	description string
	tasks       []*Task
}

// NewTarget returns an empty target.
func NewTarget(name, description string) *Target {
	return &Target{name: name, description: description}
}

// Name returns the target name.
func (g *Target) Name() string { return g.name }

// Description returns the assignment description shown to submitters.
func (g *Target) Description() string { return g.description }

// AddTask appends t, binding it to this target. Tasks already owned by
// another target and duplicate task names are rejected.
func (g *Target) AddTask(t *Task) error {
	if t == nil {
		return fmt.Errorf("goal: target %q: add nil task", g.name)
	}
	for _, existing := range g.tasks {
		if existing.Name() == t.Name() {
			return fmt.Errorf("goal: target %q: duplicate task %q", g.name, t.Name())
		}
	}
	if err := t.bind(g); err != nil {
		return err
	}
	g.tasks = append(g.tasks, t)
	return nil
}

// Tasks returns the tasks in insertion order.
func (g *Target) Tasks() []*Task {
	out := make([]*Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Configure wires every task's predicate to the given event sources. Call
// it once, after the world is built and before the submission runs.
func (g *Target) Configure(sources ...*event.Emitter) {
	for _, t := range g.tasks {
		t.fn.Configure(sources...)
	}
}

// Results evaluates every task once and returns the outcomes in task order.
func (g *Target) Results() []TaskResult {
	out := make([]TaskResult, len(g.tasks))
	for i, t := range g.tasks {
		out[i] = TaskResult{Name: t.Name(), Description: t.Description(), Passed: t.Eval()}
	}
	return out
}

// Score returns the fraction of satisfied tasks in [0, 1]. A target with no
// tasks scores 0; descriptor validation keeps such targets out of trials.
func (g *Target) Score() float64 {
	if len(g.tasks) == 0 {
		return 0
	}
	passed := 0
	for _, t := range g.tasks {
		if t.Eval() {
			passed++
		}
	}
	return float64(passed) / float64(len(g.tasks))
}

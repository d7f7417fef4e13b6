package goal

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Desc is the neutral, not-yet-compiled form of a target as produced by
// world plugins and manifests.
type Desc struct {
	Name        string
	Description string
	Tasks       []TaskDesc
}

// TaskDesc describes one task and the condition deciding it.
type TaskDesc struct {
	Name        string
	Description string
	When        WhenDesc
}

// WhenDesc is a recursive predicate descriptor. Exactly one branch must be
// populated: Always, Expr, All, Any or Not.
type WhenDesc struct {
	Always bool
	Expr   string
	All    []WhenDesc
	Any    []WhenDesc
	Not    *WhenDesc
}

func (w WhenDesc) branches() int {
	n := 0
	if w.Always {
		n++
	}
	if w.Expr != "" {
		n++
	}
	if w.All != nil {
		n++
	}
	if w.Any != nil {
		n++
	}
	if w.Not != nil {
		n++
	}
	return n
}

func (w WhenDesc) validate(path string) error {
	switch n := w.branches(); {
	case n == 0:
		return fmt.Errorf("goal: %s: empty condition", path)
	case n > 1:
		return fmt.Errorf("goal: %s: condition sets more than one branch", path)
	}
	switch {
	case w.Expr != "":
		if _, err := expr.Compile(w.Expr, expr.Env(matchEnv{}), expr.AsBool(), expr.AllowUndefinedVariables()); err != nil {
			return fmt.Errorf("goal: %s: %w", path, err)
		}
	case w.All != nil:
		for i, c := range w.All {
			if err := c.validate(fmt.Sprintf("%s.all[%d]", path, i)); err != nil {
				return err
			}
		}
	case w.Any != nil:
		for i, c := range w.Any {
			if err := c.validate(fmt.Sprintf("%s.any[%d]", path, i)); err != nil {
				return err
			}
		}
	case w.Not != nil:
		return w.Not.validate(path + ".not")
	}
	return nil
}

// Validate checks the descriptor including expression compilation, without
// building the target.
func (d Desc) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("goal: target without a name")
	}
	if len(d.Tasks) == 0 {
		return fmt.Errorf("goal: target %q has no tasks", d.Name)
	}
	seen := make(map[string]struct{}, len(d.Tasks))
	for _, t := range d.Tasks {
		if t.Name == "" {
			return fmt.Errorf("goal: target %q: task without a name", d.Name)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("goal: target %q: duplicate task %q", d.Name, t.Name)
		}
		seen[t.Name] = struct{}{}
		if err := t.When.validate(t.Name); err != nil {
			return err
		}
	}
	return nil
}

// Compile validates d and builds the live target with its Func tree.
func Compile(d Desc) (*Target, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	target := NewTarget(d.Name, d.Description)
	for _, td := range d.Tasks {
		fn, err := compileWhen(td.When, td.Name)
		if err != nil {
			return nil, err
		}
		task, err := NewTask(td.Name, td.Description, fn)
		if err != nil {
			return nil, err
		}
		if err := target.AddTask(task); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func compileWhen(w WhenDesc, name string) (Func, error) {
	switch {
	case w.Always:
		return NewAlways(name), nil
	case w.Expr != "":
		return NewWhenEvent(name, w.Expr)
	case w.All != nil:
		children, err := compileChildren(w.All, name+".all")
		if err != nil {
			return nil, err
		}
		return NewAll(name, children...), nil
	case w.Any != nil:
		children, err := compileChildren(w.Any, name+".any")
		if err != nil {
			return nil, err
		}
		return NewAny(name, children...), nil
	case w.Not != nil:
		child, err := compileWhen(*w.Not, name+".not")
		if err != nil {
			return nil, err
		}
		return NewNot(name, child), nil
	}
	return nil, fmt.Errorf("goal: %s: empty condition", name)
}

func compileChildren(descs []WhenDesc, prefix string) ([]Func, error) {
	children := make([]Func, 0, len(descs))
	for i, d := range descs {
		fn, err := compileWhen(d, fmt.Sprintf("%s[%d]", prefix, i))
		if err != nil {
			return nil, err
		}
		children = append(children, fn)
	}
	return children, nil
}

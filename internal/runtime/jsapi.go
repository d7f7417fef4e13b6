package runtime

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/plugin"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/robot"
)

// robotObject is the submission-facing view of the trial's actor, passed as
// the single argument of the program's run function. Go errors returned
// from the bound functions surface in JS as catchable exceptions.
func (r *Runtime) robotObject() map[string]any {
	return map[string]any{
		"name": r.rob.Name(),
		"id":   r.rob.ID(),
		"units": func() []string {
			return r.rob.UnitNames()
		},
		"unit": func(name string) (map[string]any, error) {
			u, ok := r.rob.Unit(name)
			if !ok {
				return nil, fmt.Errorf("no unit %q mounted", name)
			}
			return r.unitObject(u), nil
		},
		"log": func(message string) {
			r.log.Append(r.rob.Name(), message)
		},
		"terminate": func(status, message string) error {
			tag, err := ParseTerminationTag(status)
			if err != nil {
				return err
			}
			r.module.Interrupt(&Termination{Tag: tag, Message: message})
			return nil
		},
	}
}

func (r *Runtime) unitObject(u *robot.Unit) map[string]any {
	return map[string]any{
		"name":        u.Name(),
		"description": u.Description(),
		"kind":        u.Kind(),
		"execute": func(args ...any) (any, error) {
			return u.Execute(args...)
		},
	}
}

// mounterObject is passed to the submission's mount function. Violations
// throw, but swallowing them does not help: the mounter records its first
// violation and the mounting check replays it.
func (r *Runtime) mounterObject() map[string]any {
	return map[string]any{
		"available": func() []string {
			return r.mounter.Available()
		},
		"mount": func(name string) error {
			return r.mounter.Mount(name)
		},
	}
}

// entry resolves the run and optional mount functions from the trial VM,
// honoring both program conventions. The trial trusts what the fresh VM
// actually exposes, not what discovery recorded.
func (r *Runtime) entry() (goja.Callable, goja.Callable, error) {
	if r.cfg.Program.Entry == plugin.EntryGetProgram {
		return r.entryFromAccessor()
	}
	run, ok := r.module.Callable(plugin.ProgramRunSymbol)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not callable", plugin.ProgramRunSymbol)
	}
	if !r.module.Has(plugin.ProgramMountSymbol) {
		return run, nil, nil
	}
	mount, ok := r.module.Callable(plugin.ProgramMountSymbol)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not callable", plugin.ProgramMountSymbol)
	}
	return run, mount, nil
}

func (r *Runtime) entryFromAccessor() (goja.Callable, goja.Callable, error) {
	v, err := r.module.CallSymbol(plugin.ProgramAccessor)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", plugin.ProgramAccessor, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil, fmt.Errorf("%s returned no program object", plugin.ProgramAccessor)
	}
	obj := v.ToObject(r.module.VM())
	run, ok := goja.AssertFunction(obj.Get(plugin.ProgramRunSymbol))
	if !ok {
		return nil, nil, fmt.Errorf("%s: %s is not callable", plugin.ProgramAccessor, plugin.ProgramRunSymbol)
	}
	mv := obj.Get(plugin.ProgramMountSymbol)
	if mv == nil || goja.IsUndefined(mv) || goja.IsNull(mv) {
		return run, nil, nil
	}
	mount, ok := goja.AssertFunction(mv)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %s is not callable", plugin.ProgramAccessor, plugin.ProgramMountSymbol)
	}
	return run, mount, nil
}

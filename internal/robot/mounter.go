package robot

import (
	"fmt"
)

// Mounter mediates the mounting phase of a trial. It resolves unit names
// against the full factory catalog while only the allowed subset may
// actually mount; asking for anything else is a mounting violation.
//
// Violations are sticky: the first one is recorded and replayed by
// CheckMounting even when the submission swallowed the original error.
type Mounter struct {
	robot     *Robot
	catalog   map[string]*Factory
	order     []string
	allowed   map[string]struct{}
	violation error
}

// NewMounter returns a mounter for robot over the discovered factory
// catalog, permitting only the allowed unit names.
func NewMounter(robot *Robot, catalog []*Factory, allowed []string) *Mounter {
	m := &Mounter{
		robot:   robot,
		catalog: make(map[string]*Factory, len(catalog)),
		allowed: make(map[string]struct{}, len(allowed)),
	}
	for _, f := range catalog {
		if f == nil {
			continue
		}
		if _, ok := m.catalog[f.Name()]; ok {
			continue
		}
		m.catalog[f.Name()] = f
		m.order = append(m.order, f.Name())
	}
	for _, name := range allowed {
		m.allowed[name] = struct{}{}
	}
	return m
}

// Available returns the unit names a submission may mount: the allowed
// names present in the catalog, in catalog order.
func (m *Mounter) Available() []string {
	var names []string
	for _, name := range m.order {
		if _, ok := m.allowed[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Mount builds and mounts the named unit. Unknown names, disallowed names
// and duplicate mounts are recorded as violations and returned.
func (m *Mounter) Mount(name string) error {
	f, ok := m.catalog[name]
	if !ok {
		return m.violate(&MountingError{
			Robot:  m.robot.Name(),
			Unit:   name,
			Reason: "no such unit",
		})
	}
	if _, ok := m.allowed[name]; !ok {
		return m.violate(&MountingError{
			Robot:  m.robot.Name(),
			Unit:   name,
			Reason: "unit not allowed for this assignment",
		})
	}
	if err := m.robot.Mount(f.Build()); err != nil {
		return m.violate(err)
	}
	return nil
}

// MountAllowed mounts every available unit. It is the default mounting
// strategy for submissions that do not customize their loadout.
func (m *Mounter) MountAllowed() error {
	for _, name := range m.Available() {
		if err := m.Mount(name); err != nil {
			return err
		}
	}
	return nil
}

// CheckMounting verifies the mounting phase outcome: any recorded violation
// is returned, and every mounted unit must be in the allowed set even if it
// got there without this mounter's help.
func (m *Mounter) CheckMounting() error {
	if m.violation != nil {
		return m.violation
	}
	for _, u := range m.robot.Units() {
		if _, ok := m.allowed[u.Name()]; !ok {
			return &MountingError{
				Robot:  m.robot.Name(),
				Unit:   u.Name(),
				Reason: "mounted unit is not in the allowed set",
			}
		}
	}
	return nil
}

func (m *Mounter) violate(err error) error {
	if m.violation == nil {
		m.violation = err
	}
	return fmt.Errorf("mount: %w", err)
}

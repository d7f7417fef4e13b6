// Package robot models the acting entity a submission programs: the robot
// itself, the units mounted on it, the factories units are built from, and
// the mounter that mediates which units an assignment permits.
package robot

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
)

// Robot is one simulated actor. A robot starts active; the environment
// deactivates it when a fault is attributed to it, after which its units
// refuse to execute.
type Robot struct {
	id     string
	name   string
	active bool
	units  []*Unit
	byName map[string]*Unit
}

// New returns an active robot with a fresh unique ID.
func New(name string) *Robot {
	return &Robot{
		id:     uuid.NewString(),
		name:   name,
		active: true,
		byName: make(map[string]*Unit),
	}
}

// ID returns the robot's unique identifier.
func (r *Robot) ID() string { return r.id }

// Name returns the robot's display name.
func (r *Robot) Name() string { return r.name }

// Active reports whether the robot may still act.
func (r *Robot) Active() bool { return r.active }

// Activate re-enables the robot.
func (r *Robot) Activate() { r.active = true }

// Deactivate disables the robot. Deactivation is idempotent.
func (r *Robot) Deactivate() { r.active = false }

// Mount attaches u to the robot. Mounting fails when the unit is nil,
// already owned, or when a unit of the same name is already mounted.
func (r *Robot) Mount(u *Unit) error {
	if u == nil {
		return &MountingError{Robot: r.name, Reason: "unit is nil"}
	}
	if u.owner != nil {
		return &MountingError{
			Robot:  r.name,
			Unit:   u.Name(),
			Reason: fmt.Sprintf("already mounted on %q", u.owner.Name()),
		}
	}
	if _, ok := r.byName[u.Name()]; ok {
		return &MountingError{
			Robot:  r.name,
			Unit:   u.Name(),
			Reason: "unit with this name already mounted",
		}
	}
	u.owner = r
	r.units = append(r.units, u)
	r.byName[u.Name()] = u
	return nil
}

// Units returns the mounted units in mounting order.
func (r *Robot) Units() []*Unit {
	out := make([]*Unit, len(r.units))
	copy(out, r.units)
	return out
}

// Unit returns the mounted unit with the given name.
func (r *Robot) Unit(name string) (*Unit, bool) {
	u, ok := r.byName[name]
	return u, ok
}

// UnitNames returns the mounted unit names in mounting order.
func (r *Robot) UnitNames() []string {
	names := make([]string, len(r.units))
	for i, u := range r.units {
		names[i] = u.Name()
	}
	return names
}

// KindsMounted returns the distinct kinds of the mounted units, sorted.
func (r *Robot) KindsMounted() []string {
	seen := make(map[string]struct{}, len(r.units))
	for _, u := range r.units {
		seen[u.Kind()] = struct{}{}
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

var _ interaction.Actor = (*Robot)(nil)

// Package manifest loads and validates the assignment manifest, the
// operator-authored YAML document describing one grading run: where the
// plugin drop-boxes live, which units submissions may mount, interaction
// ceilings, robot identity and placement, and the trial deadline.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/world"
)

// DefaultFileName is the manifest filename dprobot looks for in a workspace.
const DefaultFileName = "assignment.yaml"

// DefaultRobotName is used when the manifest does not name the robot.
const DefaultRobotName = "robot"

// Assignment models assignment.yaml.
type Assignment struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Dirs         Dirs     `yaml:"dirs"`
	AllowedUnits []string `yaml:"allowed_units"`
	Limits       Limits   `yaml:"limits"`
	Robot        Robot    `yaml:"robot"`
	Deadline     Duration `yaml:"deadline"`
	Authors      []string `yaml:"authors"`
}

// Dirs locates the three plugin drop-boxes. Relative paths are resolved
// against the manifest file's directory by Load.
type Dirs struct {
	Units    string `yaml:"units"`
	Programs string `yaml:"programs"`
	Worlds   string `yaml:"worlds"`
}

// Limits carries the interaction ceilings for one trial. Total of zero means
// no global ceiling; a per-kind entry of zero blocks that kind entirely,
// while kinds without an entry are unlimited.
type Limits struct {
	Total   int            `yaml:"total"`
	PerKind map[string]int `yaml:"per_kind"`
}

// Robot names the actor and optionally pins its starting placement,
// overriding the world's own spawn point.
type Robot struct {
	Name  string     `yaml:"name"`
	Place *Placement `yaml:"place"`
}

// Placement is a manifest-level spawn override.
type Placement struct {
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Heading string `yaml:"heading"`
}

// Spawn converts the placement into a world spawn. A missing heading
// defaults to north, matching world descriptors.
func (p Placement) Spawn() (world.Spawn, error) {
	heading := world.North
	if p.Heading != "" {
		var err error
		heading, err = world.ParseHeading(p.Heading)
		if err != nil {
			return world.Spawn{}, err
		}
	}
	return world.Spawn{Position: world.Position{X: p.X, Y: p.Y}, Heading: heading}, nil
}

// Duration wraps time.Duration so manifests can write human-readable values
// like "250ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("deadline must be a duration string: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("deadline: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

// Value returns the wrapped duration.
func (d Duration) Value() time.Duration { return time.Duration(d) }

// Load reads the manifest at path, applies defaults, resolves relative
// drop-box paths against the manifest's directory, and validates.
func Load(path string) (*Assignment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	a, err := FromYAML(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	base := filepath.Dir(path)
	a.Dirs.Units = resolve(base, a.Dirs.Units)
	a.Dirs.Programs = resolve(base, a.Dirs.Programs)
	a.Dirs.Worlds = resolve(base, a.Dirs.Worlds)
	return a, nil
}

// FromYAML parses and validates a manifest from raw YAML bytes. Drop-box
// paths are left as written; use Load to resolve them against a location.
func FromYAML(data []byte) (*Assignment, error) {
	var a Assignment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("invalid manifest yaml: %w", err)
	}
	a.applyDefaults()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Assignment) applyDefaults() {
	if a.Dirs.Units == "" {
		a.Dirs.Units = "units"
	}
	if a.Dirs.Programs == "" {
		a.Dirs.Programs = "programs"
	}
	if a.Dirs.Worlds == "" {
		a.Dirs.Worlds = "worlds"
	}
	if a.Robot.Name == "" {
		a.Robot.Name = DefaultRobotName
	}
}

// Validate ensures the manifest is internally consistent.
func (a *Assignment) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("manifest.name is required")
	}
	if a.Limits.Total < 0 {
		return fmt.Errorf("manifest.limits.total must not be negative")
	}
	for kind, ceiling := range a.Limits.PerKind {
		if !interaction.KnownKind(kind) {
			return fmt.Errorf("manifest.limits.per_kind: unknown interaction kind %q", kind)
		}
		if ceiling < 0 {
			return fmt.Errorf("manifest.limits.per_kind.%s must not be negative", kind)
		}
	}
	for i, unit := range a.AllowedUnits {
		if unit == "" {
			return fmt.Errorf("manifest.allowed_units[%d] is empty", i)
		}
	}
	if a.Robot.Place != nil {
		if _, err := a.Robot.Place.Spawn(); err != nil {
			return fmt.Errorf("manifest.robot.place: %w", err)
		}
	}
	if a.Deadline < 0 {
		return fmt.Errorf("manifest.deadline must not be negative")
	}
	for i, author := range a.Authors {
		if author == "" {
			return fmt.Errorf("manifest.authors[%d] is empty", i)
		}
	}
	return nil
}

// AllowsAll reports whether the manifest leaves the allowed-unit set open,
// letting a submission mount any discovered unit.
func (a *Assignment) AllowsAll() bool { return len(a.AllowedUnits) == 0 }

func resolve(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// GenerateDefault returns the default manifest YAML for a fresh workspace.
func GenerateDefault(name string) string {
	return fmt.Sprintf(defaultTemplate, name)
}

const defaultTemplate = `name: %s
description: Scaffolded assignment. Drop plugins into the directories below.

dirs:
  units: units
  programs: programs
  worlds: worlds

# Names of units submissions may mount. Empty means every discovered unit.
allowed_units: []

limits:
  # Global interaction ceiling per trial. 0 means unlimited.
  total: 0
  # Per-kind ceilings. Kinds without an entry are unlimited.
  per_kind: {}

robot:
  name: robot

# Trial deadline, e.g. "2s". Omit for no deadline.
`

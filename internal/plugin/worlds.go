package plugin

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/goal"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/scripting"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/world"
)

// WorldAccessor is the symbol a world plugin must export. Calling it with
// no arguments returns the world descriptor:
//
//	{
//	  name: "corridor", width: 5, height: 1,
//	  walls: [[3, 0]],
//	  spawn: { x: 0, y: 0, heading: "east" },
//	  target: {
//	    name: "walk", description: "reach the second field",
//	    tasks: [
//	      { name: "step", description: "stand on [2,0]",
//	        when: 'event.name == "position_changed" && event.x == 2 && event.y == 0' },
//	    ],
//	  },
//	}
//
// A task's "when" is true (always satisfied), an expression string, or a
// combinator object {all: [...]}, {any: [...]}, {not: ...}.
const WorldAccessor = "get_runtime_factory"

// WorldPrefix is the file name prefix identifying world plugins.
const WorldPrefix = "runtime_"

// World pairs a grid blueprint with its goal descriptor, as produced by one
// world plugin. A World is pure data; trials build fresh grids and targets
// from it.
type World struct {
	Name   string
	Path   string
	Grid   world.Blueprint
	Target goal.Desc
}

// WorldReport pairs the generic discovery report with the extracted worlds,
// index-aligned with Report.Valid.
type WorldReport struct {
	*Report
	Worlds []*World
}

// WorldLoader discovers world plugins.
type WorldLoader struct {
	loader *Loader
	worlds []*World
}

// NewWorldLoader returns a loader for world plugins in dir.
func NewWorldLoader(dir string, console scripting.ConsoleFunc) *WorldLoader {
	identifiers := []Identifier{
		RegularFile(),
		HasPrefix(WorldPrefix),
	}
	validators := []Validator{
		Loadable(),
		CallableSymbol(WorldAccessor),
		Probe(WorldAccessor, func(p *Plugin, v goja.Value) error {
			_, err := parseWorldDescriptor(p, v)
			return err
		}),
	}
	return &WorldLoader{loader: NewLoader(dir, identifiers, validators, console)}
}

// Dir returns the destination directory.
func (l *WorldLoader) Dir() string { return l.loader.Dir() }

// Worlds returns the worlds from the most recent Load.
func (l *WorldLoader) Worlds() []*World {
	out := make([]*World, len(l.worlds))
	copy(out, l.worlds)
	return out
}

// Load re-scans the world directory.
func (l *WorldLoader) Load() (*WorldReport, error) {
	report, err := l.loader.Load()
	if report == nil {
		return nil, err
	}
	out := &WorldReport{Report: report}
	out.Valid, out.Worlds = extractAll(report, WorldAccessor,
		func(p *Plugin) (*World, error) {
			v, callErr := p.CallSymbol(WorldAccessor)
			if callErr != nil {
				return nil, callErr
			}
			return parseWorldDescriptor(p, v)
		})
	l.worlds = out.Worlds
	if err != nil {
		return out, err
	}
	if len(out.Worlds) == 0 {
		return out, fmt.Errorf("plugin: %s: %w", l.loader.Dir(), ErrNoValidPlugins)
	}
	return out, nil
}

// parseWorldDescriptor validates the full descriptor: grid shape, walls,
// spawn and the goal tree including expression compilation.
func parseWorldDescriptor(p *Plugin, v goja.Value) (*World, error) {
	m, err := exportedObject(v)
	if err != nil {
		return nil, err
	}
	name, err := stringField(m, "name")
	if err != nil {
		return nil, err
	}
	width, err := intField(m, "width")
	if err != nil {
		return nil, err
	}
	height, err := intField(m, "height")
	if err != nil {
		return nil, err
	}
	walls, err := parseWalls(m)
	if err != nil {
		return nil, err
	}
	spawn, err := parseSpawn(m)
	if err != nil {
		return nil, err
	}
	blueprint := world.Blueprint{
		Name:   name,
		Width:  width,
		Height: height,
		Walls:  walls,
		Spawn:  spawn,
	}
	if err := blueprint.Validate(); err != nil {
		return nil, err
	}
	target, err := parseTarget(m)
	if err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return &World{Name: name, Path: p.Path(), Grid: blueprint, Target: target}, nil
}

func parseWalls(m map[string]any) ([]world.Position, error) {
	list, err := listField(m, "walls")
	if err != nil {
		return nil, err
	}
	walls := make([]world.Position, 0, len(list))
	for i, raw := range list {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("walls[%d] is not an [x, y] pair", i)
		}
		x, err := toInt(pair[0], fmt.Sprintf("walls[%d].x", i))
		if err != nil {
			return nil, err
		}
		y, err := toInt(pair[1], fmt.Sprintf("walls[%d].y", i))
		if err != nil {
			return nil, err
		}
		walls = append(walls, world.Position{X: x, Y: y})
	}
	return walls, nil
}

func parseSpawn(m map[string]any) (world.Spawn, error) {
	raw, ok := m["spawn"].(map[string]any)
	if !ok {
		return world.Spawn{}, fmt.Errorf("field %q is missing or not an object", "spawn")
	}
	x, err := intField(raw, "x")
	if err != nil {
		return world.Spawn{}, fmt.Errorf("spawn: %w", err)
	}
	y, err := intField(raw, "y")
	if err != nil {
		return world.Spawn{}, fmt.Errorf("spawn: %w", err)
	}
	heading := world.North
	if h := optionalStringField(raw, "heading"); h != "" {
		heading, err = world.ParseHeading(h)
		if err != nil {
			return world.Spawn{}, fmt.Errorf("spawn: %w", err)
		}
	}
	return world.Spawn{Position: world.Position{X: x, Y: y}, Heading: heading}, nil
}

func parseTarget(m map[string]any) (goal.Desc, error) {
	raw, ok := m["target"].(map[string]any)
	if !ok {
		return goal.Desc{}, fmt.Errorf("field %q is missing or not an object", "target")
	}
	name, err := stringField(raw, "name")
	if err != nil {
		return goal.Desc{}, fmt.Errorf("target: %w", err)
	}
	desc := goal.Desc{
		Name:        name,
		Description: optionalStringField(raw, "description"),
	}
	tasks, err := listField(raw, "tasks")
	if err != nil {
		return goal.Desc{}, fmt.Errorf("target: %w", err)
	}
	for i, rawTask := range tasks {
		taskObj, ok := rawTask.(map[string]any)
		if !ok {
			return goal.Desc{}, fmt.Errorf("target.tasks[%d] is not an object", i)
		}
		taskName, err := stringField(taskObj, "name")
		if err != nil {
			return goal.Desc{}, fmt.Errorf("target.tasks[%d]: %w", i, err)
		}
		when, err := parseWhen(taskObj["when"], fmt.Sprintf("target.tasks[%d].when", i))
		if err != nil {
			return goal.Desc{}, err
		}
		desc.Tasks = append(desc.Tasks, goal.TaskDesc{
			Name:        taskName,
			Description: optionalStringField(taskObj, "description"),
			When:        when,
		})
	}
	return desc, nil
}

func parseWhen(raw any, path string) (goal.WhenDesc, error) {
	switch cond := raw.(type) {
	case bool:
		if !cond {
			return goal.WhenDesc{}, fmt.Errorf("%s: literal false is never satisfiable", path)
		}
		return goal.WhenDesc{Always: true}, nil
	case string:
		if cond == "" {
			return goal.WhenDesc{}, fmt.Errorf("%s: empty expression", path)
		}
		return goal.WhenDesc{Expr: cond}, nil
	case map[string]any:
		return parseWhenObject(cond, path)
	case nil:
		return goal.WhenDesc{}, fmt.Errorf("%s is missing", path)
	}
	return goal.WhenDesc{}, fmt.Errorf("%s: want true, an expression string, or a combinator object", path)
}

func parseWhenObject(m map[string]any, path string) (goal.WhenDesc, error) {
	if len(m) != 1 {
		return goal.WhenDesc{}, fmt.Errorf("%s: combinator object must have exactly one of all, any, not", path)
	}
	if raw, ok := m["not"]; ok {
		child, err := parseWhen(raw, path+".not")
		if err != nil {
			return goal.WhenDesc{}, err
		}
		return goal.WhenDesc{Not: &child}, nil
	}
	for _, key := range []string{"all", "any"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return goal.WhenDesc{}, fmt.Errorf("%s.%s is not an array", path, key)
		}
		children := make([]goal.WhenDesc, 0, len(list))
		for i, rawChild := range list {
			child, err := parseWhen(rawChild, fmt.Sprintf("%s.%s[%d]", path, key, i))
			if err != nil {
				return goal.WhenDesc{}, err
			}
			children = append(children, child)
		}
		if key == "all" {
			return goal.WhenDesc{All: children}, nil
		}
		return goal.WhenDesc{Any: children}, nil
	}
	return goal.WhenDesc{}, fmt.Errorf("%s: combinator object must have exactly one of all, any, not", path)
}

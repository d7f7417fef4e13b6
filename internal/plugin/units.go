package plugin

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/robot"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/scripting"
)

// UnitAccessor is the symbol a unit plugin must export. Calling it with no
// arguments returns the unit descriptor:
//
//	{ name: "engine", description: "moves ahead", interaction: "move_forward" }
const UnitAccessor = "get_unit_factory"

// UnitPrefix is the file name prefix identifying unit plugins.
const UnitPrefix = "unit_"

// UnitReport pairs the generic discovery report with the extracted unit
// factories, index-aligned with Report.Valid.
type UnitReport struct {
	*Report
	Factories []*robot.Factory
}

// UnitLoader discovers unit factory plugins.
type UnitLoader struct {
	loader    *Loader
	factories []*robot.Factory
}

// NewUnitLoader returns a loader for unit plugins in dir.
func NewUnitLoader(dir string, console scripting.ConsoleFunc) *UnitLoader {
	identifiers := []Identifier{
		RegularFile(),
		HasExtension(".js"),
		HasPrefix(UnitPrefix),
	}
	validators := []Validator{
		Loadable(),
		CallableSymbol(UnitAccessor),
		Probe(UnitAccessor, func(_ *Plugin, v goja.Value) error {
			_, err := parseUnitFactory(v)
			return err
		}),
	}
	return &UnitLoader{loader: NewLoader(dir, identifiers, validators, console)}
}

// Dir returns the destination directory.
func (l *UnitLoader) Dir() string { return l.loader.Dir() }

// Factories returns the factories from the most recent Load.
func (l *UnitLoader) Factories() []*robot.Factory {
	out := make([]*robot.Factory, len(l.factories))
	copy(out, l.factories)
	return out
}

// Load re-scans the unit directory and extracts a factory per valid plugin.
// Plugins whose accessor misbehaves on the extraction call are demoted to
// invalid. An empty factory set yields ErrNoValidPlugins.
func (l *UnitLoader) Load() (*UnitReport, error) {
	report, err := l.loader.Load()
	if report == nil {
		return nil, err
	}
	out := &UnitReport{Report: report}
	out.Valid, out.Factories = extractAll(report, UnitAccessor,
		func(p *Plugin) (*robot.Factory, error) {
			v, callErr := p.CallSymbol(UnitAccessor)
			if callErr != nil {
				return nil, callErr
			}
			return parseUnitFactory(v)
		})
	l.factories = out.Factories
	if err != nil {
		return out, err
	}
	if len(out.Factories) == 0 {
		return out, fmt.Errorf("plugin: %s: %w", l.loader.Dir(), ErrNoValidPlugins)
	}
	return out, nil
}

// parseUnitFactory validates the descriptor object and builds the factory.
func parseUnitFactory(v goja.Value) (*robot.Factory, error) {
	m, err := exportedObject(v)
	if err != nil {
		return nil, err
	}
	name, err := stringField(m, "name")
	if err != nil {
		return nil, err
	}
	kind, err := stringField(m, "interaction")
	if err != nil {
		return nil, err
	}
	return robot.NewFactory(name, optionalStringField(m, "description"), kind)
}

// extractAll runs extract over every valid plugin of report, demoting those
// whose extraction fails. It returns the surviving plugins and their
// extracted objects, index-aligned.
func extractAll[T any](report *Report, accessor string, extract func(*Plugin) (T, error)) ([]*Plugin, []T) {
	var kept []*Plugin
	var objects []T
	for _, p := range report.Valid {
		obj, err := extract(p)
		if err != nil {
			report.Invalid = append(report.Invalid, Rejection{
				Path:   p.Path(),
				Rule:   "extract:" + accessor,
				Reason: err.Error(),
			})
			continue
		}
		kept = append(kept, p)
		objects = append(objects, obj)
	}
	return kept, objects
}

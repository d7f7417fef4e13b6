package command

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/config"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/manifest"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/metrics"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/plugin"
)

// resolveWorkspace returns the effective workspace directory: the flag value
// when given, otherwise the configured workspace (env over config over ".").
func resolveWorkspace(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return config.DefaultSchema().Resolve(cfg, "workspace")
}

// manifestName returns the manifest file name within the workspace.
func manifestName(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return config.DefaultSchema().Resolve(cfg, "manifest")
}

// loadAssignment resolves the workspace and parses its manifest. An absolute
// manifest flag wins over the workspace entirely.
func loadAssignment(cfg *config.Config, workspace, manifestFlag string) (*manifest.Assignment, error) {
	name := manifestName(cfg, manifestFlag)
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(resolveWorkspace(cfg, workspace), name)
	}
	asn, err := manifest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'dprobot init' to scaffold a workspace)", err)
	}
	return asn, nil
}

// discovery carries the three loader reports for one workspace scan.
type discovery struct {
	Units    *plugin.UnitReport
	Programs *plugin.ProgramReport
	Worlds   *plugin.WorldReport
}

// discover runs the three loaders over the assignment's drop-boxes and counts
// accept/reject outcomes on m (nil disables counting). Scan failures abort;
// drop-boxes with no valid plugins are reported, the caller decides whether
// that is fatal.
func discover(asn *manifest.Assignment, m *metrics.Metrics) (*discovery, error) {
	d := &discovery{}

	units, err := plugin.NewUnitLoader(asn.Dirs.Units, nil).Load()
	if err != nil && !errors.Is(err, plugin.ErrNoValidPlugins) {
		return nil, err
	}
	d.Units = units
	countPlugins(m, metrics.KindUnit, units.Report)

	programs, err := plugin.NewProgramLoader(asn.Dirs.Programs, nil).Load()
	if err != nil && !errors.Is(err, plugin.ErrNoValidPlugins) {
		return nil, err
	}
	d.Programs = programs
	countPlugins(m, metrics.KindProgram, programs.Report)

	worlds, err := plugin.NewWorldLoader(asn.Dirs.Worlds, nil).Load()
	if err != nil && !errors.Is(err, plugin.ErrNoValidPlugins) {
		return nil, err
	}
	d.Worlds = worlds
	countPlugins(m, metrics.KindWorld, worlds.Report)

	return d, nil
}

func countPlugins(m *metrics.Metrics, kind string, r *plugin.Report) {
	for range r.Valid {
		m.PluginAccepted(kind)
	}
	for range r.Invalid {
		m.PluginRejected(kind, metrics.StageValidate)
	}
	for range r.Unidentified {
		m.PluginRejected(kind, metrics.StageIdentify)
	}
}

// warnAuthors flags duplicate author ids across the accepted programs and,
// when the manifest names expected authors, ids outside that set.
func warnAuthors(w io.Writer, asn *manifest.Assignment, programs []*plugin.Program) {
	byID := make(map[string]string, len(programs))
	for _, p := range programs {
		if prev, ok := byID[p.AuthorID]; ok {
			_, _ = fmt.Fprintf(w, "Warning: programs %s and %s share author id %q\n", prev, p.Name, p.AuthorID)
			continue
		}
		byID[p.AuthorID] = p.Name
	}
	if len(asn.Authors) == 0 {
		return
	}
	expected := make(map[string]struct{}, len(asn.Authors))
	for _, id := range asn.Authors {
		expected[id] = struct{}{}
	}
	for _, p := range programs {
		if _, ok := expected[p.AuthorID]; !ok {
			_, _ = fmt.Fprintf(w, "Warning: program %s has unexpected author id %q\n", p.Name, p.AuthorID)
		}
	}
}

// boolOption resolves a command-section boolean from the config, falling back
// to the schema default when unset or malformed.
func boolOption(cfg *config.Config, section, key string) bool {
	v, ok := cfg.GetCommandOption(section, key)
	if !ok {
		opt := config.DefaultSchema().Lookup(section, key)
		if opt == nil {
			return false
		}
		v = opt.Default
	}
	return parseBoolLoose(v)
}

// globalBool resolves a global boolean via the schema (env over config over
// default).
func globalBool(cfg *config.Config, key string) bool {
	return parseBoolLoose(config.DefaultSchema().Resolve(cfg, key))
}

func parseBoolLoose(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

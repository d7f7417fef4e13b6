package plugin

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/scripting"
)

// Rejection records why one file failed discovery.
type Rejection struct {
	Path   string
	Rule   string
	Reason string
}

// Report is the complete outcome of one discovery pass over a directory.
type Report struct {
	Dir string
	// Valid holds the plugins that passed every identifier and validator.
	Valid []*Plugin
	// Invalid holds candidates rejected by a validator.
	Invalid []Rejection
	// Unidentified holds directory entries rejected by an identifier,
	// retained for diagnostics.
	Unidentified []Rejection
}

// Loader drives one discovery context: a destination directory, an ordered
// identifier chain and an ordered validator chain. Load may be called
// repeatedly; each call re-scans from scratch.
type Loader struct {
	dir         string
	identifiers []Identifier
	validators  []Validator
	console     scripting.ConsoleFunc
	report      *Report
}

// NewLoader returns a loader over dir with the given rule chains.
func NewLoader(dir string, identifiers []Identifier, validators []Validator, console scripting.ConsoleFunc) *Loader {
	return &Loader{dir: dir, identifiers: identifiers, validators: validators, console: console}
}

// Dir returns the destination directory.
func (l *Loader) Dir() string { return l.dir }

// Report returns the result of the most recent Load, nil before the first.
func (l *Loader) Report() *Report { return l.report }

// Load re-scans the destination directory, replacing the previous result
// set wholesale. A file is shortlisted when every identifier accepts it and
// valid when additionally every validator accepts it; per-file rejections
// never abort the scan. Filesystem failures do. When a complete scan yields
// zero valid plugins, Load returns the report together with
// ErrNoValidPlugins, since an empty result set is a configuration error.
func (l *Loader) Load() (*Report, error) {
	report := &Report{Dir: l.dir}
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		for _, id := range l.identifiers {
			if !id.Identify(path, info) {
				report.Unidentified = append(report.Unidentified, Rejection{
					Path:   path,
					Rule:   id.Name(),
					Reason: id.Description(),
				})
				return nil
			}
		}
		p := NewPlugin(path, l.console)
		for _, v := range l.validators {
			if verr := v.Validate(p); verr != nil {
				report.Invalid = append(report.Invalid, Rejection{
					Path:   path,
					Rule:   v.Name(),
					Reason: verr.Error(),
				})
				return nil
			}
		}
		report.Valid = append(report.Valid, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("plugin: scan %s: %w", l.dir, err)
	}
	l.report = report
	if len(report.Valid) == 0 {
		return report, fmt.Errorf("plugin: %s: %w", l.dir, ErrNoValidPlugins)
	}
	return report, nil
}

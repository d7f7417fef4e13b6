package plugin

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/scripting"
)

// Program entry conventions. A submission either exports run (and
// optionally mount) at module level, or exports get_program returning an
// object carrying them.
const (
	ProgramRunSymbol   = "run"
	ProgramMountSymbol = "mount"
	ProgramAccessor    = "get_program"
)

// Program entry convention markers.
const (
	EntryRun        = "run"
	EntryGetProgram = "get_program"
)

// Required program metadata symbols and their minimum lengths.
const (
	DocSymbol        = "DOC"
	AuthorIDSymbol   = "AUTHOR_ID"
	AuthorNameSymbol = "AUTHOR_NAME"

	MinDocLen        = 1
	MinAuthorIDLen   = 3
	MinAuthorNameLen = 4
)

// ProgramPrefix is the file name prefix identifying submission programs.
const ProgramPrefix = "program_"

// Program is a vetted submission: its source plus the metadata extracted at
// discovery. The probe VM used for validation is discarded; each trial
// loads Source into a fresh VM of its own.
type Program struct {
	Name       string
	Path       string
	Source     string
	Entry      string
	HasMount   bool
	Doc        string
	AuthorID   string
	AuthorName string
}

// ProgramReport pairs the generic discovery report with the extracted
// programs, index-aligned with Report.Valid.
type ProgramReport struct {
	*Report
	Programs []*Program
}

// ProgramLoader discovers submission programs.
type ProgramLoader struct {
	loader   *Loader
	programs []*Program
}

// NewProgramLoader returns a loader for submission programs in dir. The
// identifier chain deliberately has no extension rule: any program_ file
// under the size ceiling is a candidate, and non-JS content surfaces as a
// loadable-validator rejection with a reason instead of being silently
// ignored.
func NewProgramLoader(dir string, console scripting.ConsoleFunc) *ProgramLoader {
	identifiers := []Identifier{
		RegularFile(),
		HasPrefix(ProgramPrefix),
		MaxSize(MaxPluginSize),
	}
	validators := []Validator{
		Loadable(),
		programEntry(),
		StringSymbol(DocSymbol, MinDocLen),
		StringSymbol(AuthorIDSymbol, MinAuthorIDLen),
		StringSymbol(AuthorNameSymbol, MinAuthorNameLen),
	}
	return &ProgramLoader{loader: NewLoader(dir, identifiers, validators, console)}
}

// Dir returns the destination directory.
func (l *ProgramLoader) Dir() string { return l.loader.Dir() }

// Programs returns the programs from the most recent Load.
func (l *ProgramLoader) Programs() []*Program {
	out := make([]*Program, len(l.programs))
	copy(out, l.programs)
	return out
}

// Load re-scans the program directory.
func (l *ProgramLoader) Load() (*ProgramReport, error) {
	report, err := l.loader.Load()
	if report == nil {
		return nil, err
	}
	out := &ProgramReport{Report: report}
	out.Valid, out.Programs = extractAll(report, ProgramAccessor, extractProgram)
	l.programs = out.Programs
	if err != nil {
		return out, err
	}
	if len(out.Programs) == 0 {
		return out, fmt.Errorf("plugin: %s: %w", l.loader.Dir(), ErrNoValidPlugins)
	}
	return out, nil
}

// programEntry validates the entry convention: exactly one of a module
// level run function or a get_program accessor, with mount optional and, if
// present, callable.
func programEntry() Validator {
	return NewValidator("entry",
		"module provides run() or get_program()",
		func(p *Plugin) error {
			if err := p.Load(); err != nil {
				return err
			}
			_, hasRun := p.Callable(ProgramRunSymbol)
			_, hasAccessor := p.Callable(ProgramAccessor)
			switch {
			case hasRun && hasAccessor:
				return errors.New("module binds both run and get_program, want exactly one entry convention")
			case hasRun:
				if p.Has(ProgramMountSymbol) {
					if _, ok := p.Callable(ProgramMountSymbol); !ok {
						return fmt.Errorf("symbol %q is present but not a function", ProgramMountSymbol)
					}
				}
				return nil
			case hasAccessor:
				v, err := p.CallSymbol(ProgramAccessor)
				if err != nil {
					return fmt.Errorf("calling %q: %w", ProgramAccessor, err)
				}
				return checkProgramObject(v)
			case p.Has(ProgramRunSymbol):
				return fmt.Errorf("symbol %q is present but not a function", ProgramRunSymbol)
			default:
				return errors.New("module binds neither run nor get_program")
			}
		})
}

// checkProgramObject validates the object returned by get_program.
func checkProgramObject(v goja.Value) error {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return fmt.Errorf("%s must return an object", ProgramAccessor)
	}
	run := obj.Get(ProgramRunSymbol)
	if run == nil || goja.IsUndefined(run) {
		return fmt.Errorf("%s result is missing %q", ProgramAccessor, ProgramRunSymbol)
	}
	if _, ok := goja.AssertFunction(run); !ok {
		return fmt.Errorf("%s result field %q is not a function", ProgramAccessor, ProgramRunSymbol)
	}
	if mount := obj.Get(ProgramMountSymbol); mount != nil && !goja.IsUndefined(mount) && !goja.IsNull(mount) {
		if _, ok := goja.AssertFunction(mount); !ok {
			return fmt.Errorf("%s result field %q is not a function", ProgramAccessor, ProgramMountSymbol)
		}
	}
	return nil
}

func extractProgram(p *Plugin) (*Program, error) {
	source, err := p.Source()
	if err != nil {
		return nil, err
	}
	prog := &Program{
		Name:   strings.TrimSuffix(p.Name(), filepath.Ext(p.Name())),
		Path:   p.Path(),
		Source: source,
	}
	if _, ok := p.Callable(ProgramRunSymbol); ok {
		prog.Entry = EntryRun
		_, prog.HasMount = p.Callable(ProgramMountSymbol)
	} else {
		prog.Entry = EntryGetProgram
		v, err := p.CallSymbol(ProgramAccessor)
		if err != nil {
			return nil, err
		}
		obj, ok := v.(*goja.Object)
		if !ok {
			return nil, fmt.Errorf("%s must return an object", ProgramAccessor)
		}
		if mount := obj.Get(ProgramMountSymbol); mount != nil && !goja.IsUndefined(mount) && !goja.IsNull(mount) {
			_, prog.HasMount = goja.AssertFunction(mount)
		}
	}
	var ok bool
	if prog.Doc, ok = p.ExportString(DocSymbol); !ok {
		return nil, fmt.Errorf("symbol %q is missing", DocSymbol)
	}
	if prog.AuthorID, ok = p.ExportString(AuthorIDSymbol); !ok {
		return nil, fmt.Errorf("symbol %q is missing", AuthorIDSymbol)
	}
	if prog.AuthorName, ok = p.ExportString(AuthorNameSymbol); !ok {
		return nil, fmt.Errorf("symbol %q is missing", AuthorNameSymbol)
	}
	return prog, nil
}

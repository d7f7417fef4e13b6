package command

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/config"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/plugin"
)

// InspectCommand runs only the discovery pipeline and reports, per kind, what
// was accepted and what was rejected, with the rejecting rule and reason.
type InspectCommand struct {
	*BaseCommand
	config *config.Config

	workspace string
	manifest  string
}

// NewInspectCommand creates a new inspect command.
func NewInspectCommand(cfg *config.Config) *InspectCommand {
	return &InspectCommand{
		BaseCommand: NewBaseCommand(
			"inspect",
			"Discover plugins and report acceptance and rejections",
			"inspect [options]",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the inspect command.
func (c *InspectCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.workspace, "workspace", "", "Workspace directory (default: configured workspace)")
	fs.StringVar(&c.manifest, "manifest", "", "Manifest file name or path (default: configured manifest)")
}

// Execute reports the discovery outcome without running any trial.
func (c *InspectCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}

	asn, err := loadAssignment(c.config, c.workspace, c.manifest)
	if err != nil {
		return err
	}
	disc, err := discover(asn, nil)
	if err != nil {
		return err
	}

	showValid := boolOption(c.config, "inspect", "show-valid")

	unitNames := make([]string, len(disc.Units.Factories))
	for i, f := range disc.Units.Factories {
		unitNames[i] = fmt.Sprintf("%s (%s)", f.Name(), f.Kind())
	}
	writeKindReport(stdout, "units", disc.Units.Report, unitNames, showValid)

	programNames := make([]string, len(disc.Programs.Programs))
	for i, p := range disc.Programs.Programs {
		programNames[i] = fmt.Sprintf("%s by %s (%s)", p.Name, p.AuthorName, p.AuthorID)
	}
	writeKindReport(stdout, "programs", disc.Programs.Report, programNames, showValid)

	worldNames := make([]string, len(disc.Worlds.Worlds))
	for i, w := range disc.Worlds.Worlds {
		worldNames[i] = fmt.Sprintf("%s (%dx%d)", w.Name, w.Grid.Width, w.Grid.Height)
	}
	writeKindReport(stdout, "worlds", disc.Worlds.Report, worldNames, showValid)

	return nil
}

// writeKindReport prints one loader's outcome. names annotates the accepted
// entries, index-aligned with report.Valid.
func writeKindReport(w io.Writer, kind string, report *plugin.Report, names []string, showValid bool) {
	_, _ = fmt.Fprintf(w, "%s: %s\n", kind, report.Dir)
	_, _ = fmt.Fprintf(w, "  accepted: %d\n", len(names))
	if showValid {
		for i, p := range report.Valid {
			name := p.Name()
			if i < len(names) {
				name = names[i]
			}
			_, _ = fmt.Fprintf(w, "    %s  %s\n", name, relPath(report.Dir, p.Path()))
		}
	}
	writeRejections(w, "rejected", report.Dir, report.Invalid)
	writeRejections(w, "unidentified", report.Dir, report.Unidentified)
}

func writeRejections(w io.Writer, label, dir string, rejections []plugin.Rejection) {
	if len(rejections) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "  %s: %d\n", label, len(rejections))
	for _, r := range rejections {
		_, _ = fmt.Fprintf(w, "    %s: [%s] %s\n", relPath(dir, r.Path), r.Rule, r.Reason)
	}
}

func relPath(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return path
	}
	return rel
}

package command

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/config"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/manifest"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/metrics"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/runtime"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/world"
)

// RunCommand discovers the workspace plugins and executes every accepted
// program against every accepted world under the assignment's policy. A
// failing trial is part of the report, not a command failure.
type RunCommand struct {
	*BaseCommand
	config *config.Config

	workspace string
	manifest  string
	trialLogs bool
}

// NewRunCommand creates a new run command.
func NewRunCommand(cfg *config.Config) *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Discover plugins and run every program against every world",
			"run [options]",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.workspace, "workspace", "", "Workspace directory (default: configured workspace)")
	fs.StringVar(&c.manifest, "manifest", "", "Manifest file name or path (default: configured manifest)")
	fs.BoolVar(&c.trialLogs, "trial-logs", false, "Print each trial's captured log after the summary")
}

// Execute runs the batch.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}

	asn, err := loadAssignment(c.config, c.workspace, c.manifest)
	if err != nil {
		return err
	}

	m := metrics.New()
	disc, err := discover(asn, m)
	if err != nil {
		return err
	}

	rejected := len(disc.Units.Invalid) + len(disc.Units.Unidentified) +
		len(disc.Programs.Invalid) + len(disc.Programs.Unidentified) +
		len(disc.Worlds.Invalid) + len(disc.Worlds.Unidentified)
	_, _ = fmt.Fprintf(stdout, "Assignment %q: %d unit(s), %d program(s), %d world(s) accepted\n",
		asn.Name, len(disc.Units.Factories), len(disc.Programs.Programs), len(disc.Worlds.Worlds))
	if rejected > 0 {
		_, _ = fmt.Fprintf(stderr, "Warning: %d submission(s) rejected; run 'dprobot inspect' for details\n", rejected)
	}
	warnAuthors(stderr, asn, disc.Programs.Programs)

	if len(disc.Programs.Programs) == 0 {
		return fmt.Errorf("no valid programs in %s", asn.Dirs.Programs)
	}
	if len(disc.Worlds.Worlds) == 0 {
		return fmt.Errorf("no valid worlds in %s", asn.Dirs.Worlds)
	}
	if len(disc.Units.Factories) == 0 {
		_, _ = fmt.Fprintf(stderr, "Warning: no valid units in %s; programs cannot mount anything\n", asn.Dirs.Units)
	}

	deadline := asn.Deadline.Value()
	if deadline <= 0 {
		deadline = c.config.Trials.Deadline
	}
	limitTotal := asn.Limits.Total
	if limitTotal == 0 {
		limitTotal = c.config.Trials.LimitTotal
	}
	// Explicit "robot" in a manifest and a defaulted name behave the same:
	// both defer to the installation-level setting.
	robotName := asn.Robot.Name
	if robotName == manifest.DefaultRobotName && c.config.Trials.RobotName != "" {
		robotName = c.config.Trials.RobotName
	}
	var placement *world.Spawn
	if asn.Robot.Place != nil {
		spawn, err := asn.Robot.Place.Spawn()
		if err != nil {
			return fmt.Errorf("manifest robot placement: %w", err)
		}
		placement = &spawn
	}

	batch := runtime.Batch{
		Worlds:       disc.Worlds.Worlds,
		Programs:     disc.Programs.Programs,
		Units:        disc.Units.Factories,
		Allowed:      asn.AllowedUnits,
		RobotName:    robotName,
		Placement:    placement,
		LimitTotal:   limitTotal,
		LimitPerKind: asn.Limits.PerKind,
		Deadline:     deadline,
		Metrics:      m,
	}
	results := batch.Run()

	if boolOption(c.config, "run", "summary") {
		_, _ = fmt.Fprintln(stdout, "")
		writeResults(stdout, results)
	}
	if c.trialLogs || boolOption(c.config, "run", "trial-logs") {
		writeTrialLogs(stdout, results)
	}
	if globalBool(c.config, "metrics") {
		lines, err := m.Summary()
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Warning: metrics summary failed: %v\n", err)
		} else if len(lines) > 0 {
			_, _ = fmt.Fprintln(stdout, "")
			for _, line := range lines {
				_, _ = fmt.Fprintln(stdout, line)
			}
		}
	}
	return nil
}

// writeResults prints the per-trial summary table.
func writeResults(w io.Writer, results []*runtime.Result) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PROGRAM\tWORLD\tSTATE\tSCORE\tTASKS\tDETAIL")
	for _, res := range results {
		passed := 0
		for _, task := range res.Tasks {
			if task.Passed {
				passed++
			}
		}
		detail := res.Outcome.Message
		if res.Outcome.Failure != nil {
			detail = res.Outcome.Failure.String()
		}
		detail = strings.Join(strings.Fields(detail), " ")
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d/%d\t%s\n",
			res.Program, res.World, res.State, res.Score, passed, len(res.Tasks), truncate(detail, 60))
	}
	_ = tw.Flush()
}

// writeTrialLogs dumps every trial's captured log.
func writeTrialLogs(w io.Writer, results []*runtime.Result) {
	for _, res := range results {
		_, _ = fmt.Fprintf(w, "\n=== trial %s: %s @ %s ===\n", res.TrialID, res.Program, res.World)
		for _, entry := range res.Log.Entries() {
			_, _ = fmt.Fprintf(w, "%4d  %-12s %s\n", entry.Seq, entry.Context, entry.Message)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

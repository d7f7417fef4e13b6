package command

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/config"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/manifest"
)

// InitCommand scaffolds a workspace: the three plugin drop-boxes, a default
// assignment manifest and one sample plugin of each kind. The samples pass
// discovery as written, so a fresh workspace runs a complete trial.
type InitCommand struct {
	*BaseCommand
	config *config.Config

	workspace string
	name      string
	force     bool
}

// NewInitCommand creates a new init command.
func NewInitCommand(cfg *config.Config) *InitCommand {
	return &InitCommand{
		BaseCommand: NewBaseCommand(
			"init",
			"Scaffold a workspace with a manifest and sample plugins",
			"init [options]",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the init command.
func (c *InitCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.workspace, "workspace", "", "Workspace directory to scaffold (default: configured workspace)")
	fs.StringVar(&c.name, "name", "assignment", "Assignment name written into the manifest")
	fs.BoolVar(&c.force, "force", false, "Overwrite an existing manifest and sample plugins")
}

// Execute scaffolds the workspace.
func (c *InitCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}

	ws := resolveWorkspace(c.config, c.workspace)
	manifestPath := filepath.Join(ws, manifestName(c.config, ""))

	if _, err := os.Stat(manifestPath); err == nil && !c.force {
		_, _ = fmt.Fprintf(stdout, "Manifest already exists at: %s\n", manifestPath)
		_, _ = fmt.Fprintln(stdout, "Use --force to overwrite the manifest and sample plugins")
		return nil
	}

	files := []struct {
		path    string
		content string
	}{
		{manifestPath, manifest.GenerateDefault(c.name)},
		{filepath.Join(ws, "units", "unit_engine.js"), sampleUnit},
		{filepath.Join(ws, "programs", "program_walker.js"), sampleProgram},
		{filepath.Join(ws, "worlds", "runtime_corridor.js"), sampleWorld},
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}

	// Parse the manifest back to prove the scaffold is usable.
	if _, err := manifest.Load(manifestPath); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: scaffolded manifest failed to load: %v\n", err)
	}

	_, _ = fmt.Fprintf(stdout, "Initialized workspace at: %s\n", ws)
	for _, f := range files {
		rel, err := filepath.Rel(ws, f.path)
		if err != nil {
			rel = f.path
		}
		_, _ = fmt.Fprintf(stdout, "  %s\n", rel)
	}
	_, _ = fmt.Fprintln(stdout, "")
	_, _ = fmt.Fprintln(stdout, "Run 'dprobot run' to execute the sample trial.")
	return nil
}

const sampleUnit = `// A minimal unit: one factory describing one interaction kind.
function get_unit_factory() {
    return {
        name: "engine",
        description: "Drives the robot one field forward.",
        interaction: "move_forward",
    };
}
`

const sampleProgram = `var DOC = "Walks two fields east and reports success.";
var AUTHOR_ID = "sample";
var AUTHOR_NAME = "Sample Author";

function mount(mounter) {
    mounter.mount("engine");
}

function run(robot) {
    robot.unit("engine").execute();
    robot.unit("engine").execute();
    robot.log("reached the middle of the corridor");
    robot.terminate("success", "walked the corridor");
}
`

const sampleWorld = `function get_runtime_factory() {
    return {
        name: "corridor",
        width: 5,
        height: 1,
        walls: [],
        spawn: { x: 0, y: 0, heading: "east" },
        target: {
            name: "crossing",
            description: "Walk east along the corridor.",
            tasks: [
                {
                    name: "step-out",
                    description: "leave the spawn field",
                    when: 'event.name == "position_changed" && event.x == 1',
                },
                {
                    name: "halfway",
                    description: "stand on [2,0]",
                    when: 'event.name == "position_changed" && event.x == 2 && event.y == 0',
                },
            ],
        },
    };
}
`

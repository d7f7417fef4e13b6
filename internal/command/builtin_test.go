package command

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/config"
)

func TestHelpListsCommands(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	helpCmd := NewHelpCommand(registry)
	registry.Register(helpCmd)
	registry.Register(NewVersionCommand("1.0.0"))
	registry.Register(NewConfigCommand(config.NewConfig()))

	stdout, _, err := execCommand(t, helpCmd)
	if err != nil {
		t.Fatalf("help failed: %v", err)
	}
	for _, want := range []string{
		"dprobot",
		"Usage: dprobot <command>",
		"config",
		"help",
		"version",
		"Use 'dprobot help <command>'",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q:\n%s", want, stdout)
		}
	}
}

func TestHelpSpecificCommandShowsFlags(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewConfigCommand(config.NewConfig()))
	helpCmd := NewHelpCommand(registry)

	stdout, _, err := execCommand(t, helpCmd, "config")
	if err != nil {
		t.Fatalf("help config failed: %v", err)
	}
	for _, want := range []string{
		"Command: config",
		"Usage: config [options] [key] [value]",
		"Flags:",
		"-global",
		"-all",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help config output missing %q:\n%s", want, stdout)
		}
	}
}

func TestHelpUnknownCommand(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	helpCmd := NewHelpCommand(registry)

	_, stderr, err := execCommand(t, helpCmd, "nope")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(stderr, "Unknown command: nope") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestVersionOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := execCommand(t, NewVersionCommand("1.2.3"))
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if stdout != "dprobot version 1.2.3\n" {
		t.Errorf("unexpected version output: %q", stdout)
	}
}

func TestVersionRejectsArguments(t *testing.T) {
	t.Parallel()

	_, stderr, err := execCommand(t, NewVersionCommand("1.2.3"), "extra")
	if err == nil {
		t.Fatal("expected an error for unexpected arguments")
	}
	if !strings.Contains(stderr, "unexpected arguments") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestConfigShowsUsageWithoutArgs(t *testing.T) {
	t.Parallel()

	stdout, _, err := execCommand(t, NewConfigCommand(config.NewConfig()))
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(stdout, "config <key> <value>") {
		t.Errorf("expected usage text, got %q", stdout)
	}
}

func TestConfigGetResolvesSchemaDefault(t *testing.T) {
	t.Parallel()

	stdout, _, err := execCommand(t, NewConfigCommand(config.NewConfig()), "manifest")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(stdout, "manifest: assignment.yaml") {
		t.Errorf("expected the schema default, got %q", stdout)
	}
}

func TestConfigGetPrefersConfiguredValue(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SetGlobalOption("manifest", "exam.yaml")

	stdout, _, err := execCommand(t, NewConfigCommand(cfg), "manifest")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(stdout, "manifest: exam.yaml") {
		t.Errorf("expected the configured value, got %q", stdout)
	}
}

func TestConfigGetUnknownKey(t *testing.T) {
	t.Parallel()

	stdout, _, err := execCommand(t, NewConfigCommand(config.NewConfig()), "bogus")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(stdout, "Configuration key 'bogus' not found") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestConfigSetPersistsToDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config")
	cfg := config.NewConfig()

	stdout, stderr, err := execCommand(t, NewConfigCommand(cfg, path), "verbose", "true")
	if err != nil {
		t.Fatalf("config set failed: %v (stderr: %s)", err, stderr)
	}
	if !strings.Contains(stdout, "Set configuration: verbose = true") {
		t.Errorf("unexpected output: %q", stdout)
	}
	if v, ok := cfg.GetGlobalOption("verbose"); !ok || v != "true" {
		t.Errorf("in-memory config not updated: %q, %v", v, ok)
	}

	loaded, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if v, ok := loaded.GetGlobalOption("verbose"); !ok || v != "true" {
		t.Errorf("persisted config missing option: %q, %v", v, ok)
	}
}

func TestConfigShowAllSortsOptions(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SetGlobalOption("verbose", "true")
	cfg.SetGlobalOption("color", "never")
	cfg.SetCommandOption("run", "summary", "false")

	stdout, _, err := execCommand(t, NewConfigCommand(cfg), "-all")
	if err != nil {
		t.Fatalf("config -all failed: %v", err)
	}
	colorIdx := strings.Index(stdout, "color: never")
	verboseIdx := strings.Index(stdout, "verbose: true")
	if colorIdx < 0 || verboseIdx < 0 || colorIdx > verboseIdx {
		t.Errorf("expected sorted global options, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "[run]") || !strings.Contains(stdout, "summary: false") {
		t.Errorf("expected the run section, got:\n%s", stdout)
	}
}

func TestConfigValidateSubcommand(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	stdout, _, err := execCommand(t, NewConfigCommand(cfg), "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(stdout, "Configuration is valid.") {
		t.Errorf("unexpected output: %q", stdout)
	}

	cfg.SetGlobalOption("verbose", "maybe")
	stdout, _, err = execCommand(t, NewConfigCommand(cfg), "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(stdout, "1 issue(s)") {
		t.Errorf("expected one validation issue, got:\n%s", stdout)
	}
}

func TestConfigSchemaSubcommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execCommand(t, NewConfigCommand(config.NewConfig()), "schema")
	if err != nil {
		t.Fatalf("config schema failed: %v", err)
	}
	for _, want := range []string{"Global Options:", "[run] Options:", "[trials] Options:", "workspace", "robotName"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("schema output missing %q:\n%s", want, stdout)
		}
	}
}

package command

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"
)

// execCommand parses args through the command's own FlagSet and executes it,
// the same path main drives.
func execCommand(t *testing.T, cmd Command, args ...string) (string, string, error) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetupFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	var stdout, stderr bytes.Buffer
	err := cmd.Execute(fs.Args(), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewVersionCommand("1.0.0"))

	cmd, err := registry.Get("version")
	if err != nil {
		t.Fatalf("Get(version) failed: %v", err)
	}
	if cmd.Name() != "version" {
		t.Errorf("expected command name 'version', got %q", cmd.Name())
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	_, err := registry.Get("nope")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(err.Error(), "command not found: nope") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRegistryListSorted(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewVersionCommand("1.0.0"))
	registry.Register(NewHelpCommand(registry))
	registry.Register(NewRegistryProbe("apple"))

	names := registry.List()
	want := []string{"apple", "help", "version"}
	if len(names) != len(want) {
		t.Fatalf("expected %d commands, got %v", len(want), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestRegistryReplacesOnRename(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewVersionCommand("1.0.0"))
	registry.Register(NewVersionCommand("2.0.0"))

	if got := len(registry.List()); got != 1 {
		t.Fatalf("expected 1 command after double registration, got %d", got)
	}
	cmd, err := registry.Get("version")
	if err != nil {
		t.Fatalf("Get(version) failed: %v", err)
	}
	stdout, _, err := execCommand(t, cmd)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(stdout, "2.0.0") {
		t.Errorf("expected the later registration to win, got %q", stdout)
	}
}

// NewRegistryProbe returns a no-op command for registry tests.
func NewRegistryProbe(name string) Command {
	return &registryProbe{BaseCommand: NewBaseCommand(name, "probe command", name)}
}

type registryProbe struct{ *BaseCommand }

func (c *registryProbe) Execute(args []string, stdout, stderr io.Writer) error { return nil }

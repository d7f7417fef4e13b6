package scripting

import (
	"errors"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"
)

func TestLoadAndGet(t *testing.T) {
	t.Parallel()

	m, err := Load("test.js", `
		var DOC = "documentation";
		const AUTHOR_ID = "xyz01";
		let counter = 7;
		function run() { return counter; }
	`, Options{})
	require.NoError(t, err)
	require.Equal(t, "test.js", m.Name())

	require.True(t, m.Has("DOC"))
	require.True(t, m.Has("AUTHOR_ID"), "top-level const must resolve")
	require.True(t, m.Has("counter"), "top-level let must resolve")
	require.True(t, m.Has("run"))
	require.False(t, m.Has("missing"))

	doc, ok := m.ExportString("DOC")
	require.True(t, ok)
	require.Equal(t, "documentation", doc)

	_, ok = m.ExportString("counter")
	require.False(t, ok, "numbers are not strings")

	_, ok = m.Callable("run")
	require.True(t, ok)
	_, ok = m.Callable("DOC")
	require.False(t, ok)
}

func TestLoadCompileError(t *testing.T) {
	t.Parallel()

	_, err := Load("broken.js", `function (`, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "compile broken.js")
}

func TestLoadRuntimeError(t *testing.T) {
	t.Parallel()

	_, err := Load("raises.js", `throw new Error("boom at load");`, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom at load")
}

func TestLoadInstallsGlobals(t *testing.T) {
	t.Parallel()

	m, err := Load("globals.js", `var tripled = seed * 3;`, Options{
		Globals: map[string]any{"seed": 14},
	})
	require.NoError(t, err)

	v, ok := m.Get("tripled")
	require.True(t, ok)
	require.Equal(t, int64(42), v.ToInteger())
}

func TestConsoleCaptured(t *testing.T) {
	t.Parallel()

	type line struct{ level, message string }
	var lines []line
	_, err := Load("noisy.js", `
		console.log("hello", 42);
		console.warn("careful");
		console.error("bad");
	`, Options{Console: func(level, message string) {
		lines = append(lines, line{level, message})
	}})
	require.NoError(t, err)

	require.Equal(t, []line{
		{"log", "hello 42"},
		{"warn", "careful"},
		{"error", "bad"},
	}, lines)
}

func TestConsoleNilSinkDiscards(t *testing.T) {
	t.Parallel()

	_, err := Load("quiet.js", `console.log("dropped");`, Options{})
	require.NoError(t, err)
}

func TestRequireSourceModulesRejected(t *testing.T) {
	t.Parallel()

	// File and unregistered-native lookups both fail; the failure is a
	// normal JS exception the module can catch.
	m, err := Load("sandboxed.js", `
		var fileError = null, fsError = null;
		try { require("./secrets.js"); } catch (e) { fileError = String(e); }
		try { require("fs"); } catch (e) { fsError = String(e); }
	`, Options{})
	require.NoError(t, err)

	v, ok := m.Get("fileError")
	require.True(t, ok)
	require.Contains(t, v.String(), "secrets.js")
	require.True(t, m.Has("fsError"))
}

func TestRequireConsoleModuleAllowed(t *testing.T) {
	t.Parallel()

	var got string
	_, err := Load("needy.js", `
		const c = require("node:console");
		c.log("via require");
	`, Options{Console: func(_, message string) { got = message }})
	require.NoError(t, err)
	require.Equal(t, "via require", got)
}

func TestCallSymbol(t *testing.T) {
	t.Parallel()

	m, err := Load("calls.js", `function add(a, b) { return a + b; }`, Options{})
	require.NoError(t, err)

	v, err := m.CallSymbol("add", 19, 23)
	require.NoError(t, err)
	require.Equal(t, int64(42), v.ToInteger())

	_, err = m.CallSymbol("absent")
	var missing *MissingSymbolError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "absent", missing.Symbol)
}

func TestDescribeThrownError(t *testing.T) {
	t.Parallel()

	m, err := Load("throws.js", `function run() { undefined.property; }`, Options{})
	require.NoError(t, err)

	_, err = m.CallSymbol("run")
	require.Error(t, err)

	js := Describe(err)
	require.Equal(t, "TypeError", js.Kind)
	require.NotEmpty(t, js.Message)
	require.NotEmpty(t, js.Stack)
}

func TestDescribeThrownValue(t *testing.T) {
	t.Parallel()

	m, err := Load("throws.js", `function run() { throw "plain string"; }`, Options{})
	require.NoError(t, err)

	_, err = m.CallSymbol("run")
	js := Describe(err)
	require.Equal(t, "Throw", js.Kind)
	require.Equal(t, "plain string", js.Message)
}

func TestDescribeGoError(t *testing.T) {
	t.Parallel()

	js := Describe(errors.New("plain go error"))
	require.Equal(t, "GoError", js.Kind)
	require.Equal(t, "plain go error", js.Message)
	require.Nil(t, Describe(nil))
}

type terminationMarker struct {
	status string
}

func TestInterruptCarriesValue(t *testing.T) {
	t.Parallel()

	m, err := Load("spin.js", `function run() { for (;;) {} }`, Options{})
	require.NoError(t, err)

	marker := &terminationMarker{status: "success"}
	// The interrupt flag may be armed before the call; the VM honors it at
	// the first check inside run.
	m.Interrupt(marker)

	_, err = m.CallSymbol("run")
	require.Error(t, err)

	var interrupted *goja.InterruptedError
	require.ErrorAs(t, err, &interrupted)
	got, ok := interrupted.Value().(*terminationMarker)
	require.True(t, ok, "interrupt value must round-trip")
	require.Same(t, marker, got)
	require.Equal(t, "success", got.status)

	js := Describe(err)
	require.Equal(t, "Interrupted", js.Kind)

	// After clearing, the VM is usable again.
	m.ClearInterrupt()
	v, err := m.CallSymbol("run2")
	require.Error(t, err, "run2 does not exist")
	require.Nil(t, v)
}

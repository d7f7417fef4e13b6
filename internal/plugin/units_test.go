package plugin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const engineUnit = `
function get_unit_factory() {
	return {
		name: "engine",
		description: "moves the robot one field ahead",
		interaction: "move_forward",
	};
}
`

func TestUnitLoaderHappyPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "unit_engine.js", engineUnit)
	writeFile(t, dir, "unit_compass.js", `
		function get_unit_factory() {
			return { name: "compass", description: "locates the robot", interaction: "locate" };
		}
	`)

	l := NewUnitLoader(dir, nil)
	report, err := l.Load()
	require.NoError(t, err)
	require.Len(t, report.Factories, 2)
	require.Len(t, report.Valid, 2)

	compass := report.Factories[0]
	require.Equal(t, "compass", compass.Name())
	require.Equal(t, "locate", compass.Kind())
	require.Equal(t, "locates the robot", compass.Description())

	engine := report.Factories[1]
	require.Equal(t, "engine", engine.Name())
	require.Equal(t, "move_forward", engine.Kind())

	require.Len(t, l.Factories(), 2)
}

func TestUnitLoaderRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "unit_warp.js", `
		function get_unit_factory() {
			return { name: "warp", description: "teleports", interaction: "teleport" };
		}
	`)
	writeFile(t, dir, "unit_engine.js", engineUnit)

	report, err := NewUnitLoader(dir, nil).Load()
	require.NoError(t, err)
	require.Len(t, report.Factories, 1)
	require.Len(t, report.Invalid, 1)
	require.Equal(t, "probe:get_unit_factory", report.Invalid[0].Rule)
	require.Contains(t, report.Invalid[0].Reason, "teleport")
}

func TestUnitLoaderRejectsBadDescriptors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "unit_engine.js", engineUnit)
	writeFile(t, dir, "unit_missing.js", `var x = 1;`)
	writeFile(t, dir, "unit_notfn.js", `var get_unit_factory = 42;`)
	writeFile(t, dir, "unit_raises.js", `function get_unit_factory() { throw new Error("nope"); }`)
	writeFile(t, dir, "unit_scalar.js", `function get_unit_factory() { return "just a string"; }`)
	writeFile(t, dir, "unit_nameless.js", `function get_unit_factory() { return { interaction: "locate" }; }`)

	report, err := NewUnitLoader(dir, nil).Load()
	require.NoError(t, err)
	require.Len(t, report.Factories, 1)
	require.Len(t, report.Invalid, 5)

	rules := make(map[string]string, len(report.Invalid))
	for _, rej := range report.Invalid {
		rules[filepath.Base(rej.Path)] = rej.Rule
	}
	require.Equal(t, "callable:get_unit_factory", rules["unit_missing.js"])
	require.Equal(t, "callable:get_unit_factory", rules["unit_notfn.js"])
	require.Equal(t, "probe:get_unit_factory", rules["unit_raises.js"])
	require.Equal(t, "probe:get_unit_factory", rules["unit_scalar.js"])
	require.Equal(t, "probe:get_unit_factory", rules["unit_nameless.js"])
}

func TestUnitLoaderIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "unit_engine.js", engineUnit)
	writeFile(t, dir, "program_walker.js", `function run() {}`)
	writeFile(t, dir, "unit_notes.txt", `not a js file`)

	report, err := NewUnitLoader(dir, nil).Load()
	require.NoError(t, err)
	require.Len(t, report.Factories, 1)
	require.Len(t, report.Unidentified, 2)
}

func TestUnitLoaderEmptyDirIsError(t *testing.T) {
	t.Parallel()

	_, err := NewUnitLoader(t.TempDir(), nil).Load()
	require.ErrorIs(t, err, ErrNoValidPlugins)
}

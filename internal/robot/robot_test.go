package robot

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
)

func TestNewRobot(t *testing.T) {
	t.Parallel()

	r := New("karel")
	require.Equal(t, "karel", r.Name())
	require.NotEmpty(t, r.ID())
	require.True(t, r.Active())

	other := New("karel")
	require.NotEqual(t, r.ID(), other.ID())
}

func TestRobotDeactivate(t *testing.T) {
	t.Parallel()

	r := New("karel")
	r.Deactivate()
	require.False(t, r.Active())
	r.Deactivate()
	require.False(t, r.Active())
	r.Activate()
	require.True(t, r.Active())
}

func TestMountRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := New("karel")
	require.NoError(t, r.Mount(NewUnit("engine", "drives forward", interaction.KindMoveForward)))

	err := r.Mount(NewUnit("engine", "another engine", interaction.KindMoveForward))
	var merr *MountingError
	require.ErrorAs(t, err, &merr)
	require.Equal(t, "engine", merr.Unit)

	require.Len(t, r.Units(), 1)
}

func TestMountRejectsOwnedUnit(t *testing.T) {
	t.Parallel()

	u := NewUnit("engine", "drives forward", interaction.KindMoveForward)
	require.NoError(t, New("first").Mount(u))

	err := New("second").Mount(u)
	var merr *MountingError
	require.ErrorAs(t, err, &merr)
	require.Contains(t, merr.Reason, "already mounted")
}

func TestMountNil(t *testing.T) {
	t.Parallel()

	var merr *MountingError
	require.ErrorAs(t, New("karel").Mount(nil), &merr)
}

func TestUnitLookup(t *testing.T) {
	t.Parallel()

	r := New("karel")
	require.NoError(t, r.Mount(NewUnit("engine", "", interaction.KindMoveForward)))
	require.NoError(t, r.Mount(NewUnit("compass", "", interaction.KindLocate)))

	u, ok := r.Unit("compass")
	require.True(t, ok)
	require.Equal(t, interaction.KindLocate, u.Kind())

	_, ok = r.Unit("laser")
	require.False(t, ok)

	require.Equal(t, []string{"engine", "compass"}, r.UnitNames())
	require.Equal(t, []string{"locate", "move_forward"}, r.KindsMounted())
}

func TestUnitExecuteRoutesInteraction(t *testing.T) {
	t.Parallel()

	r := New("karel")
	u := NewUnit("engine", "drives forward", interaction.KindMoveForward)
	require.NoError(t, r.Mount(u))

	var got *interaction.Interaction
	u.Wire(func(ia *interaction.Interaction) (any, error) {
		got = ia
		return "moved", nil
	})

	res, err := u.Execute(1, 2)
	require.NoError(t, err)
	require.Equal(t, "moved", res)
	require.NotNil(t, got)
	require.Equal(t, interaction.KindMoveForward, got.Kind())
	require.Equal(t, []any{1, 2}, got.Args())
	require.Equal(t, r.ID(), got.Actor().ID())
}

func TestUnitExecuteUnwired(t *testing.T) {
	t.Parallel()

	r := New("karel")
	u := NewUnit("engine", "", interaction.KindMoveForward)
	require.NoError(t, r.Mount(u))
	require.False(t, u.Wired())

	_, err := u.Execute()
	require.ErrorIs(t, err, ErrUnwired)
}

func TestUnitExecuteUnmounted(t *testing.T) {
	t.Parallel()

	u := NewUnit("engine", "", interaction.KindMoveForward)
	u.Wire(func(*interaction.Interaction) (any, error) { return nil, nil })

	_, err := u.Execute()
	require.ErrorIs(t, err, interaction.ErrOrphanUnit)
}

func TestUnitExecuteInactiveActor(t *testing.T) {
	t.Parallel()

	r := New("karel")
	u := NewUnit("engine", "", interaction.KindMoveForward)
	require.NoError(t, r.Mount(u))
	u.Wire(func(*interaction.Interaction) (any, error) { return nil, nil })

	r.Deactivate()
	_, err := u.Execute()
	require.ErrorIs(t, err, ErrInactiveActor)
}

func TestFactoryValidation(t *testing.T) {
	t.Parallel()

	_, err := NewFactory("", "desc", interaction.KindLocate)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = NewFactory("compass", "desc", "")
	require.ErrorIs(t, err, interaction.ErrEmptyKind)

	_, err = NewFactory("warp", "desc", "teleport")
	var uk *UnknownKindError
	require.ErrorAs(t, err, &uk)
	require.Equal(t, "teleport", uk.Kind)
}

func TestFactoryBuild(t *testing.T) {
	t.Parallel()

	f, err := NewFactory("compass", "finds itself", interaction.KindLocate)
	require.NoError(t, err)

	a := f.Build()
	b := f.Build()
	require.NotSame(t, a, b)
	require.Equal(t, "compass", a.Name())
	require.Equal(t, "finds itself", a.Description())
	require.Equal(t, interaction.KindLocate, a.Kind())
	require.Nil(t, a.Owner())
}

package interaction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeActor struct {
	id     string
	name   string
	active bool
}

func (a *fakeActor) ID() string   { return a.id }
func (a *fakeActor) Name() string { return a.name }
func (a *fakeActor) Active() bool { return a.active }
func (a *fakeActor) Deactivate()  { a.active = false }

type fakeUnit struct {
	name  string
	kind  string
	owner Actor
}

func (u *fakeUnit) Name() string        { return u.name }
func (u *fakeUnit) Description() string { return "test unit" }
func (u *fakeUnit) Kind() string        { return u.kind }
func (u *fakeUnit) Owner() Actor        { return u.owner }

func newFakeUnit(kind string) (*fakeUnit, *fakeActor) {
	actor := &fakeActor{id: "actor-1", name: "tester", active: true}
	return &fakeUnit{name: kind + "-unit", kind: kind, owner: actor}, actor
}

func mustInteraction(t *testing.T, kind string, opts ...Option) *Interaction {
	t.Helper()
	unit, _ := newFakeUnit(kind)
	ia, err := New(kind, unit, opts...)
	require.NoError(t, err)
	return ia
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	unit, _ := newFakeUnit(KindMoveForward)

	_, err := New("", unit)
	require.ErrorIs(t, err, ErrEmptyKind)

	_, err = New(KindMoveForward, nil)
	require.ErrorIs(t, err, ErrNilUnit)

	orphan := &fakeUnit{name: "orphan", kind: KindMoveForward}
	_, err = New(KindMoveForward, orphan)
	require.ErrorIs(t, err, ErrOrphanUnit)
}

func TestNewIdentity(t *testing.T) {
	t.Parallel()

	unit, actor := newFakeUnit(KindLocate)
	ia, err := New(KindLocate, unit, WithDescription("where am I"), WithArgs(1, "x"))
	require.NoError(t, err)
	require.Equal(t, "locate by locate-unit", ia.Name())
	require.Equal(t, "where am I", ia.Description())
	require.Equal(t, KindLocate, ia.Kind())
	require.Same(t, Actor(actor), ia.Actor())
	require.Equal(t, []any{1, "x"}, ia.Args())
}

func TestRejectDefaultDeactivatesActor(t *testing.T) {
	t.Parallel()

	unit, actor := newFakeUnit(KindMoveForward)
	ia, err := New(KindMoveForward, unit)
	require.NoError(t, err)
	require.True(t, actor.Active())

	ia.Reject(errors.New("refused"))
	require.False(t, actor.Active())
}

func TestRejectCallbackOverride(t *testing.T) {
	t.Parallel()

	unit, actor := newFakeUnit(KindMoveForward)
	var got error
	ia, err := New(KindMoveForward, unit, WithRejectCallback(func(cause error) { got = cause }))
	require.NoError(t, err)

	cause := errors.New("refused")
	ia.Reject(cause)
	require.Same(t, cause, got)
	require.True(t, actor.Active(), "override must replace the deactivation default")
}

func TestKindCatalog(t *testing.T) {
	t.Parallel()

	require.True(t, KnownKind(KindMoveForward))
	require.True(t, KnownKind(KindScanMark))
	require.False(t, KnownKind("teleport"))
	require.Len(t, Kinds(), 8)

	kinds := Kinds()
	kinds[0] = "mutated"
	require.Equal(t, KindMoveForward, Kinds()[0])
}

type staticHandler struct {
	kind string
}

func (h *staticHandler) Kind() string { return h.kind }

func (h *staticHandler) Execute(*Interaction) (any, error) { return h.kind, nil }

func TestHandlerManagerAtMostOnePerKind(t *testing.T) {
	t.Parallel()

	m := NewHandlerManager()
	require.NoError(t, m.Register(&staticHandler{kind: KindMoveForward}))

	err := m.Register(&staticHandler{kind: KindMoveForward})
	var dup *DuplicateHandlerError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, KindMoveForward, dup.Kind)

	require.NoError(t, m.Register(&staticHandler{kind: KindTurnLeft}))
	require.Equal(t, []string{KindMoveForward, KindTurnLeft}, m.Kinds())
}

func TestHandlerManagerResolve(t *testing.T) {
	t.Parallel()

	m := NewHandlerManager()
	h := &staticHandler{kind: KindScanWall}
	require.NoError(t, m.Register(h))

	got, err := m.Resolve(mustInteraction(t, KindScanWall))
	require.NoError(t, err)
	require.Same(t, Handler(h), got)

	_, err = m.Resolve(mustInteraction(t, KindLocate))
	var missing *NoHandlerError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, KindLocate, missing.Kind)
}

func TestHandlerManagerRegisterInvalid(t *testing.T) {
	t.Parallel()

	m := NewHandlerManager()
	require.ErrorIs(t, m.Register(nil), ErrNilHandler)
	require.ErrorIs(t, m.Register(&staticHandler{}), ErrEmptyKind)
}

func TestLimitPerTrial(t *testing.T) {
	t.Parallel()

	r := NewLimitPerTrial(2)
	ia := mustInteraction(t, KindMoveForward)
	require.True(t, r.Check(ia))
	require.True(t, r.Check(ia))
	require.False(t, r.Check(ia))
	require.False(t, r.Check(ia))
	require.Zero(t, r.Remaining())
}

func TestLimitPerKindIsTypeAware(t *testing.T) {
	t.Parallel()

	r := NewLimitPerKind(map[string]int{
		KindMoveForward: 2,
		KindTurnLeft:    2,
	})
	move := mustInteraction(t, KindMoveForward)
	turn := mustInteraction(t, KindTurnLeft)

	// [A, A, A, B, B] with ceilings A:2, B:2 rejects exactly the third A.
	require.True(t, r.Check(move))
	require.True(t, r.Check(move))
	require.False(t, r.Check(move))
	require.True(t, r.Check(turn))
	require.True(t, r.Check(turn))

	scan := mustInteraction(t, KindScanMark)
	require.True(t, r.Check(scan), "kinds without a ceiling are unlimited")
}

func TestRuleManagerReturnsFullViolationSet(t *testing.T) {
	t.Parallel()

	exhaustedA := NewLimitPerTrial(0)
	exhaustedB := NewLimitPerKind(map[string]int{KindMoveForward: 0})
	m := NewRuleManager(exhaustedA, exhaustedB)

	violated := m.Violated(mustInteraction(t, KindMoveForward))
	require.Len(t, violated, 2)
	require.Same(t, Rule(exhaustedA), violated[0])
	require.Same(t, Rule(exhaustedB), violated[1])
}

func TestRuleManagerAlwaysTicksEveryRule(t *testing.T) {
	t.Parallel()

	blocked := NewLimitPerTrial(0)
	counting := NewLimitPerTrial(5)
	m := NewRuleManager(blocked, counting)

	ia := mustInteraction(t, KindMoveForward)
	violated := m.Violated(ia)
	require.Len(t, violated, 1)
	require.Same(t, Rule(blocked), violated[0])

	// The second rule consumed budget even though the first already
	// rejected the interaction.
	require.Equal(t, 4, counting.Remaining())
}

func TestRuleViolationError(t *testing.T) {
	t.Parallel()

	err := &RuleViolationError{
		Interaction: "move_forward by engine",
		Violated:    []Rule{NewLimitPerTrial(0), NewLimitPerKind(nil)},
	}
	require.Equal(t, []string{"limit-per-trial", "limit-per-kind"}, err.RuleNames())
	require.Contains(t, err.Error(), "move_forward by engine")
	require.Contains(t, err.Error(), "limit-per-trial")
}

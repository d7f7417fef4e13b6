// Package runtime orchestrates one trial: it builds a world and goal from a
// world plugin, mounts units onto a robot under the submission's control,
// wires everything to the interaction pipeline, and executes the submission
// on a dedicated worker goroutine. Faults are captured, never propagated; a
// finished trial always yields a Result.
package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/google/uuid"

	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/goal"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/metrics"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/plugin"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/robot"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/scripting"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/triallog"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/visual"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/world"
)

// ErrAlreadyRan is returned by Run on a runtime that already executed.
var ErrAlreadyRan = errors.New("runtime: trial already ran")

var errDeadlineExceeded = errors.New("trial deadline exceeded")

// Config assembles one trial.
type Config struct {
	World   *plugin.World
	Program *plugin.Program

	// Units is the discovered factory catalog. Allowed restricts which of
	// them the submission may mount; empty means all of them.
	Units   []*robot.Factory
	Allowed []string

	RobotName string

	// Placement overrides the world's spawn point when set.
	Placement *world.Spawn

	// LimitTotal caps interactions per trial (0 = unlimited). LimitPerKind
	// caps individual kinds; kinds without an entry are unlimited.
	LimitTotal   int
	LimitPerKind map[string]int

	// Deadline bounds the entry point's execution (0 = none). On expiry
	// the VM is interrupted and the trial ends in a deadline fault.
	Deadline time.Duration

	Observer visual.Observer
	Metrics  *metrics.Metrics
}

// Result is the report of one finished trial.
type Result struct {
	TrialID string
	World   string
	Program string
	State   State
	Outcome Outcome
	Score   float64
	Tasks   []goal.TaskResult
	Log     *triallog.Log
}

// Runtime executes exactly one trial.
type Runtime struct {
	id     string
	cfg    Config
	state  State
	log    *triallog.Log
	logger *slog.Logger

	grid    *world.Grid
	iface   *world.Interface
	rob     *robot.Robot
	mounter *robot.Mounter
	target  *goal.Target
	module  *scripting.Module
	runFn   goja.Callable
	mountFn goja.Callable

	outcome Outcome
	ran     bool
}

// New validates cfg and returns an unbuilt runtime.
func New(cfg Config) (*Runtime, error) {
	if cfg.World == nil {
		return nil, errors.New("runtime: nil world")
	}
	if cfg.Program == nil {
		return nil, errors.New("runtime: nil program")
	}
	if cfg.RobotName == "" {
		cfg.RobotName = "robot"
	}
	log := triallog.New()
	return &Runtime{
		id:     uuid.NewString(),
		cfg:    cfg,
		state:  StateUnbuilt,
		log:    log,
		logger: triallog.NewLogger(log, "runtime"),
	}, nil
}

// ID is the trial's unique identifier.
func (r *Runtime) ID() string { return r.id }

// State returns the current lifecycle position.
func (r *Runtime) State() State { return r.state }

// Log returns the trial log.
func (r *Runtime) Log() *triallog.Log { return r.log }

// Robot returns the trial's actor; nil before preparation.
func (r *Runtime) Robot() *robot.Robot { return r.rob }

// Target returns the compiled goal; nil before preparation.
func (r *Runtime) Target() *goal.Target { return r.target }

// Grid returns the trial's world; nil before preparation.
func (r *Runtime) Grid() *world.Grid { return r.grid }

// Outcome returns the entry point's tagged outcome; zero until terminal.
func (r *Runtime) Outcome() Outcome { return r.outcome }

// Run executes the trial exactly once and reports it. Faults inside the
// trial surface in the Result, not as a returned error; the only error Run
// itself produces is ErrAlreadyRan.
func (r *Runtime) Run() (*Result, error) {
	if r.ran {
		return nil, ErrAlreadyRan
	}
	r.ran = true

	out := r.trial()
	r.outcome = out
	r.state = out.Terminal()

	// Mounting, consistency, deadline and unclassified faults deactivate
	// the actor. Cooperative terminations are self-reports and do not.
	if out.Tag == TagFault && r.rob != nil && r.rob.Active() {
		r.rob.Deactivate()
		if r.grid != nil {
			r.grid.Emitter().NotifyAll(event.ActorChanged{
				Robot:  r.rob.Name(),
				Active: false,
				Reason: string(out.Failure.Kind) + " fault",
			})
		}
	}

	r.cfg.Metrics.TrialFinished(r.state.String())
	r.logVerdict()
	return r.result(), nil
}

func (r *Runtime) trial() Outcome {
	if f := r.prepare(); f != nil {
		return faultOutcome(f)
	}
	if f := r.mount(); f != nil {
		return faultOutcome(f)
	}
	if f := r.wire(); f != nil {
		return faultOutcome(f)
	}
	return r.execute()
}

// prepare builds the grid, rules, facade and goal from the world plugin and
// wires the goal's predicates to the event sources.
func (r *Runtime) prepare() *Failure {
	grid, err := r.cfg.World.Grid.Build()
	if err != nil {
		return &Failure{Kind: FailureConsistency, Message: err.Error()}
	}
	var rules []interaction.Rule
	if r.cfg.LimitTotal > 0 {
		rules = append(rules, interaction.NewLimitPerTrial(r.cfg.LimitTotal))
	}
	if len(r.cfg.LimitPerKind) > 0 {
		rules = append(rules, interaction.NewLimitPerKind(r.cfg.LimitPerKind))
	}
	iface, err := world.NewInterface(grid, interaction.NewRuleManager(rules...))
	if err != nil {
		return &Failure{Kind: FailureConsistency, Message: err.Error()}
	}
	target, err := goal.Compile(r.cfg.World.Target)
	if err != nil {
		return &Failure{Kind: FailureConsistency, Message: err.Error()}
	}

	r.grid, r.iface, r.target = grid, iface, target
	r.rob = robot.New(r.cfg.RobotName)

	if r.cfg.Observer != nil {
		grid.Emitter().Register(visual.NewBridge(r.cfg.Observer))
	}
	grid.Emitter().Register(event.Func(func(e event.Event) {
		r.log.Append("world", describeEvent(e))
	}))
	target.Configure(grid.Emitter(), r.log.Emitter())

	r.state = StatePrepared
	r.logger.Info("prepared", "world", r.cfg.World.Name, "tasks", len(target.Tasks()))
	return nil
}

// mount loads the submission into a fresh VM, resolves its entry points and
// runs its mounting procedure, or mounts every allowed unit when the
// submission has none. The mounted set is then checked against the allowed
// set regardless of how mounting went.
func (r *Runtime) mount() *Failure {
	module, err := scripting.Load(r.cfg.Program.Name, r.cfg.Program.Source, scripting.Options{
		Console: func(level, message string) {
			if level != "log" {
				message = level + ": " + message
			}
			r.log.Append("console", message)
		},
	})
	if err != nil {
		js := scripting.Describe(err)
		return &Failure{Kind: FailureUnclassified, Message: js.Kind + ": " + js.Message, Trace: js.Stack}
	}
	r.module = module

	run, mountFn, err := r.entry()
	if err != nil {
		return &Failure{Kind: FailureUnclassified, Message: err.Error()}
	}
	r.runFn, r.mountFn = run, mountFn

	allowed := r.cfg.Allowed
	if len(allowed) == 0 {
		for _, f := range r.cfg.Units {
			allowed = append(allowed, f.Name())
		}
	}
	r.mounter = robot.NewMounter(r.rob, r.cfg.Units, allowed)

	if r.mountFn != nil {
		if _, err := r.module.Call(r.mountFn, r.mounterObject()); err != nil {
			if checkErr := r.mounter.CheckMounting(); checkErr != nil {
				return &Failure{Kind: FailureMounting, Message: checkErr.Error()}
			}
			js := scripting.Describe(err)
			return &Failure{Kind: FailureUnclassified, Message: js.Kind + ": " + js.Message, Trace: js.Stack}
		}
	} else if err := r.mounter.MountAllowed(); err != nil {
		return &Failure{Kind: FailureMounting, Message: err.Error()}
	}
	if err := r.mounter.CheckMounting(); err != nil {
		return &Failure{Kind: FailureMounting, Message: err.Error()}
	}

	r.state = StateMounted
	r.logger.Info("mounted", "units", strings.Join(r.rob.UnitNames(), ","))
	return nil
}

// wire connects the mounted units to the interaction pipeline and places
// the actor into the grid.
func (r *Runtime) wire() *Failure {
	for _, u := range r.rob.Units() {
		u.Wire(r.process)
	}
	spawn := r.cfg.World.Grid.Spawn
	if r.cfg.Placement != nil {
		spawn = *r.cfg.Placement
	}
	if err := r.grid.Place(r.rob, spawn.Position, spawn.Heading); err != nil {
		return &Failure{Kind: FailureConsistency, Message: err.Error()}
	}
	return nil
}

// process is the InvokeFunc wired into every mounted unit.
func (r *Runtime) process(ia *interaction.Interaction) (any, error) {
	v, err := r.iface.Process(ia)
	switch {
	case err == nil:
		r.cfg.Metrics.Interaction(ia.Kind(), metrics.OutcomeOK)
	default:
		var verr *interaction.RuleViolationError
		if errors.As(err, &verr) {
			r.cfg.Metrics.Interaction(ia.Kind(), metrics.OutcomeRejected)
		} else {
			r.cfg.Metrics.Interaction(ia.Kind(), metrics.OutcomeFailed)
		}
	}
	return v, err
}

// execute starts the entry point on the worker goroutine and waits for its
// outcome, interrupting the VM when the deadline expires first. The worker
// is always joined before execute returns.
func (r *Runtime) execute() Outcome {
	r.state = StateRunning
	r.logger.Info("running", "program", r.cfg.Program.Name)

	outcomes := make(chan Outcome, 1)
	go func() {
		outcomes <- r.invoke()
	}()

	if r.cfg.Deadline <= 0 {
		return <-outcomes
	}
	timer := time.NewTimer(r.cfg.Deadline)
	defer timer.Stop()
	select {
	case out := <-outcomes:
		return out
	case <-timer.C:
		r.module.Interrupt(errDeadlineExceeded)
		return <-outcomes
	}
}

// invoke runs the entry point and classifies how it came back: a normal
// return, a cooperative termination, a deadline interrupt, or a fault.
func (r *Runtime) invoke() Outcome {
	_, err := r.module.Call(r.runFn, r.robotObject())
	if err == nil {
		return Outcome{Tag: TagCompleted}
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		switch v := interrupted.Value().(type) {
		case *Termination:
			return Outcome{Tag: v.Tag, Message: v.Message}
		case error:
			if errors.Is(v, errDeadlineExceeded) {
				return faultOutcome(&Failure{Kind: FailureDeadline, Message: v.Error()})
			}
		}
		return faultOutcome(&Failure{
			Kind:    FailureUnclassified,
			Message: fmt.Sprintf("interrupted: %v", interrupted.Value()),
		})
	}
	js := scripting.Describe(err)
	return faultOutcome(&Failure{Kind: FailureUnclassified, Message: js.Kind + ": " + js.Message, Trace: js.Stack})
}

func (r *Runtime) logVerdict() {
	if f := r.outcome.Failure; f != nil {
		r.logger.Error("fault", "kind", string(f.Kind), "message", f.Message)
	}
	if r.target != nil {
		for _, tr := range r.target.Results() {
			r.logger.Info("task verdict", "task", tr.Name, "passed", tr.Passed)
		}
	}
	r.logger.Info("trial finished",
		"state", r.state.String(),
		"outcome", r.outcome.Tag.String(),
		"score", fmt.Sprintf("%.2f", r.score()),
	)
}

func (r *Runtime) score() float64 {
	if r.target == nil {
		return 0
	}
	return r.target.Score()
}

func (r *Runtime) result() *Result {
	res := &Result{
		TrialID: r.id,
		World:   r.cfg.World.Name,
		Program: r.cfg.Program.Name,
		State:   r.state,
		Outcome: r.outcome,
		Score:   r.score(),
		Log:     r.log,
	}
	if r.target != nil {
		res.Tasks = r.target.Results()
	}
	return res
}

// describeEvent renders one event as a single log line with sorted fields.
func describeEvent(e event.Event) string {
	fields := e.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "name" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(e.Name())
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	return sb.String()
}

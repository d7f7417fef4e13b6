package world

import (
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/event"
	"github.com/vojtechpavlu/DP-Robot-sub000/internal/interaction"
)

// Interface is the rule-checked facade in front of a grid. Every
// interaction enters the world through Process and nowhere else: rules
// admit or reject it, then the handler for its kind executes it.
type Interface struct {
	grid     *Grid
	rules    *interaction.RuleManager
	handlers *interaction.HandlerManager
	guard    ownerGuard
}

// NewInterface wraps g with the built-in handler set and the given rules.
// A nil rules manager means no admission rules.
func NewInterface(g *Grid, rules *interaction.RuleManager) (*Interface, error) {
	if rules == nil {
		rules = interaction.NewRuleManager()
	}
	handlers := interaction.NewHandlerManager()
	for _, h := range builtinHandlers(g) {
		if err := handlers.Register(h); err != nil {
			return nil, err
		}
	}
	return &Interface{grid: g, rules: rules, handlers: handlers}, nil
}

// Grid returns the wrapped grid.
func (w *Interface) Grid() *Grid { return w.grid }

// Rules returns the admission rule manager.
func (w *Interface) Rules() *interaction.RuleManager { return w.rules }

// Handlers returns the handler manager.
func (w *Interface) Handlers() *interaction.HandlerManager { return w.handlers }

// Process admits and executes one interaction. Every rule is evaluated on
// every call; when any of them refuse, the interaction is rejected with the
// complete violation set and its rejection callback fires. Handler failures
// (a blocked move, say) are domain results and do not trigger rejection.
func (w *Interface) Process(ia *interaction.Interaction) (any, error) {
	w.guard.assertOwner()
	if ia == nil {
		return nil, ErrNilInteraction
	}
	if violated := w.rules.Violated(ia); len(violated) > 0 {
		err := &interaction.RuleViolationError{Interaction: ia.Name(), Violated: violated}
		owner := ia.Unit().Owner()
		wasActive := owner != nil && owner.Active()
		ia.Reject(err)
		if wasActive && !owner.Active() {
			w.grid.emitter.NotifyAll(event.ActorChanged{
				Robot:  owner.Name(),
				Active: false,
				Reason: "interaction rejected",
			})
		}
		return nil, err
	}
	h, err := w.handlers.Resolve(ia)
	if err != nil {
		return nil, err
	}
	return h.Execute(ia)
}

package interaction

// Rule is a stateful admission predicate over one interaction. Check both
// tests and ticks: evaluating a rule advances its internal counters even
// when another rule in the same pass rejects the interaction. Rule state
// lives for one trial and is never shared across trials.
type Rule interface {
	Name() string
	// Check reports whether the rule admits ia, consuming budget as a side
	// effect where the rule is quota-based.
	Check(ia *Interaction) bool
}

// LimitPerTrial caps the total number of interactions admitted during one
// trial, regardless of kind.
type LimitPerTrial struct {
	remaining int
}

// NewLimitPerTrial returns a rule admitting at most limit interactions.
func NewLimitPerTrial(limit int) *LimitPerTrial {
	return &LimitPerTrial{remaining: limit}
}

func (r *LimitPerTrial) Name() string { return "limit-per-trial" }

func (r *LimitPerTrial) Check(*Interaction) bool {
	if r.remaining <= 0 {
		return false
	}
	r.remaining--
	return true
}

// Remaining returns the unconsumed budget.
func (r *LimitPerTrial) Remaining() int { return r.remaining }

// LimitPerKind caps admitted interactions per kind. Kinds without a
// configured ceiling are unlimited and consume nothing.
type LimitPerKind struct {
	remaining map[string]int
}

// NewLimitPerKind returns a rule enforcing the given per-kind ceilings.
func NewLimitPerKind(limits map[string]int) *LimitPerKind {
	remaining := make(map[string]int, len(limits))
	for kind, n := range limits {
		remaining[kind] = n
	}
	return &LimitPerKind{remaining: remaining}
}

func (r *LimitPerKind) Name() string { return "limit-per-kind" }

func (r *LimitPerKind) Check(ia *Interaction) bool {
	n, ok := r.remaining[ia.Kind()]
	if !ok {
		return true
	}
	if n <= 0 {
		return false
	}
	r.remaining[ia.Kind()] = n - 1
	return true
}

// Remaining returns the unconsumed budget for kind and whether the kind has
// a ceiling at all.
func (r *LimitPerKind) Remaining(kind string) (int, bool) {
	n, ok := r.remaining[kind]
	return n, ok
}

// RuleManager evaluates every registered rule against each interaction.
type RuleManager struct {
	rules []Rule
}

// NewRuleManager returns a manager over the given rules.
func NewRuleManager(rules ...Rule) *RuleManager {
	m := &RuleManager{}
	for _, r := range rules {
		m.Register(r)
	}
	return m
}

// Register appends r to the evaluation order.
func (m *RuleManager) Register(r Rule) {
	if r == nil {
		return
	}
	m.rules = append(m.rules, r)
}

// Rules returns the registered rules in evaluation order.
func (m *RuleManager) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}

// Violated returns every rule that refuses ia. All rules are checked even
// after the first refusal, so quota rules consume budget on rejected
// interactions too; callers get the complete violation set, not just the
// first hit.
func (m *RuleManager) Violated(ia *Interaction) []Rule {
	var violated []Rule
	for _, r := range m.rules {
		if !r.Check(ia) {
			violated = append(violated, r)
		}
	}
	return violated
}

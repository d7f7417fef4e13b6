// Package metrics aggregates run counters on a private Prometheus registry.
// A nil *Metrics disables instrumentation entirely; every method is safe to
// call on a nil receiver.
package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Plugin kind labels.
const (
	KindUnit    = "unit"
	KindProgram = "program"
	KindWorld   = "world"
)

// Rejection stage labels.
const (
	StageIdentify = "identify"
	StageValidate = "validate"
)

// Interaction outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics owns the counters for one dprobot invocation.
type Metrics struct {
	registry *prometheus.Registry

	pluginsAccepted *prometheus.CounterVec
	pluginsRejected *prometheus.CounterVec
	interactions    *prometheus.CounterVec
	trials          *prometheus.CounterVec
}

// New builds the counter set on a fresh private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pluginsAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dprobot_plugins_accepted_total",
				Help: "Plugins that passed discovery, by kind.",
			},
			[]string{"kind"},
		),
		pluginsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dprobot_plugins_rejected_total",
				Help: "Plugins rejected during discovery, by kind and stage.",
			},
			[]string{"kind", "stage"},
		),
		interactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dprobot_interactions_total",
				Help: "Interactions processed by the world facade, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dprobot_trials_total",
				Help: "Finished trials by terminal state.",
			},
			[]string{"state"},
		),
	}
	m.registry.MustRegister(m.pluginsAccepted, m.pluginsRejected, m.interactions, m.trials)
	return m
}

// Registry exposes the private registry, e.g. for an exposition handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// PluginAccepted counts one plugin that survived discovery.
func (m *Metrics) PluginAccepted(kind string) {
	if m == nil {
		return
	}
	m.pluginsAccepted.WithLabelValues(kind).Inc()
}

// PluginRejected counts one plugin dropped at the given discovery stage.
func (m *Metrics) PluginRejected(kind, stage string) {
	if m == nil {
		return
	}
	m.pluginsRejected.WithLabelValues(kind, stage).Inc()
}

// Interaction counts one dispatched interaction and its outcome.
func (m *Metrics) Interaction(kind, outcome string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(kind, outcome).Inc()
}

// TrialFinished counts one trial reaching the named terminal state.
func (m *Metrics) TrialFinished(state string) {
	if m == nil {
		return
	}
	m.trials.WithLabelValues(state).Inc()
}

// Summary gathers the registry and renders one line per labeled counter in
// the text exposition shape, sorted for stable output. Counters that were
// never incremented produce no line.
func (m *Metrics) Summary() ([]string, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			lines = append(lines, renderCounter(family, metric))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func renderCounter(family *dto.MetricFamily, metric *dto.Metric) string {
	var sb strings.Builder
	sb.WriteString(family.GetName())
	if labels := metric.GetLabel(); len(labels) > 0 {
		sb.WriteByte('{')
		for i, label := range labels {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(label.GetName())
			sb.WriteString(`="`)
			sb.WriteString(label.GetValue())
			sb.WriteByte('"')
		}
		sb.WriteByte('}')
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(metric.GetCounter().GetValue(), 'g', -1, 64))
	return sb.String()
}

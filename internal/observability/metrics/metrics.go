package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics exposes counters/histograms for the agent workflow.
type AgentMetrics struct {
	processTotal    *prometheus.CounterVec
	decisionTotal   *prometheus.CounterVec
	modelLatency    *prometheus.HistogramVec
	policyOverrides prometheus.Counter
	defaultRules    prometheus.Counter
}

func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		processTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "orchestrator",
			Name:      "process_total",
			Help:      "Processed envelopes by exit path",
		}, []string{"path"}),
		decisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "orchestrator",
			Name:      "decision_total",
			Help:      "Final decisions by type",
		}, []string{"decision_type"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agent",
			Subsystem: "orchestrator",
			Name:      "model_latency_seconds",
			Help:      "Latency of forced tool-call model invocations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
		policyOverrides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "policy",
			Name:      "override_total",
			Help:      "Model decisions replaced by deterministic policy guards",
		}),
		defaultRules: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "context",
			Name:      "default_rules_total",
			Help:      "Requests served with substitute default clinic rules",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.processTotal, m.decisionTotal, m.modelLatency, m.policyOverrides, m.defaultRules)
	return m
}

func (m *AgentMetrics) ObserveProcess(path string) {
	if m == nil {
		return
	}
	m.processTotal.WithLabelValues(path).Inc()
}

func (m *AgentMetrics) ObserveDecision(decisionType string) {
	if m == nil {
		return
	}
	m.decisionTotal.WithLabelValues(decisionType).Inc()
}

func (m *AgentMetrics) ObserveModelLatency(step string, seconds float64) {
	if m == nil {
		return
	}
	m.modelLatency.WithLabelValues(step).Observe(seconds)
}

func (m *AgentMetrics) ObservePolicyOverride() {
	if m == nil {
		return
	}
	m.policyOverrides.Inc()
}

func (m *AgentMetrics) ObserveDefaultRules() {
	if m == nil {
		return
	}
	m.defaultRules.Inc()
}

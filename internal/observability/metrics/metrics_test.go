package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAgentMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAgentMetrics(reg)

	m.ObserveProcess("full")
	m.ObserveProcess("full")
	m.ObserveProcess("policy_block")
	m.ObserveDecision("block_price")
	m.ObserveModelLatency("extract", 0.25)
	m.ObservePolicyOverride()
	m.ObserveDefaultRules()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.processTotal.WithLabelValues("full")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processTotal.WithLabelValues("policy_block")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisionTotal.WithLabelValues("block_price")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.policyOverrides))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.defaultRules))
}

func TestAgentMetricsNilReceiverSafe(t *testing.T) {
	var m *AgentMetrics

	assert.NotPanics(t, func() {
		m.ObserveProcess("full")
		m.ObserveDecision("proceed")
		m.ObserveModelLatency("decide", 0.1)
		m.ObservePolicyOverride()
		m.ObserveDefaultRules()
	})
}

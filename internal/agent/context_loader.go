package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/gvasques77-sys/agent-service/internal/observability/metrics"
	"github.com/gvasques77-sys/agent-service/pkg/logging"
)

// NoKnowledgeMarker keeps prompts well-formed when a clinic has no snippets.
const NoKnowledgeMarker = "No clinic knowledge available."

// ClinicContext is the per-request bundle of tenant configuration and
// knowledge handed to the orchestrator.
type ClinicContext struct {
	Rules          *ClinicRules
	Snippets       []KnowledgeSnippet
	KnowledgeBlock string
	DefaultsUsed   bool
}

// ContextLoader fetches clinic rules and knowledge for a request. Store
// failures are fatal. A missing rules row is not: the documented default is
// substituted and a misconfiguration warning is emitted.
type ContextLoader struct {
	rules     RulesStore
	knowledge KnowledgeStore
	limit     int
	logger    *logging.Logger
	metrics   *metrics.AgentMetrics
}

// NewContextLoader wires a loader over the given stores.
func NewContextLoader(rules RulesStore, knowledge KnowledgeStore, limit int, logger *logging.Logger, m *metrics.AgentMetrics) *ContextLoader {
	if rules == nil {
		panic("agent: rules store cannot be nil")
	}
	if knowledge == nil {
		panic("agent: knowledge store cannot be nil")
	}
	if limit <= 0 {
		limit = 8
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ContextLoader{
		rules:     rules,
		knowledge: knowledge,
		limit:     limit,
		logger:    logger,
		metrics:   m,
	}
}

// Load returns the clinic context for a tenant.
func (l *ContextLoader) Load(ctx context.Context, clinicID string) (*ClinicContext, error) {
	rules, err := l.rules.GetRules(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("agent: load clinic rules: %w", err)
	}

	defaultsUsed := false
	if rules == nil {
		rules = DefaultRules(clinicID)
		defaultsUsed = true
		l.logger.Warn("no rules row for clinic, using defaults", "clinic_id", clinicID)
		l.metrics.ObserveDefaultRules()
	}

	snippets, err := l.knowledge.ListSnippets(ctx, clinicID, l.limit)
	if err != nil {
		return nil, fmt.Errorf("agent: load clinic knowledge: %w", err)
	}

	return &ClinicContext{
		Rules:          rules,
		Snippets:       snippets,
		KnowledgeBlock: BuildKnowledgeBlock(snippets),
		DefaultsUsed:   defaultsUsed,
	}, nil
}

// BuildKnowledgeBlock concatenates snippets into a single prompt-ready text
// block. An empty snippet list yields the explicit no-knowledge marker.
func BuildKnowledgeBlock(snippets []KnowledgeSnippet) string {
	if len(snippets) == 0 {
		return NoKnowledgeMarker
	}

	var b strings.Builder
	for i, snip := range snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		title := strings.TrimSpace(snip.Title)
		if title != "" {
			b.WriteString("### ")
			b.WriteString(title)
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(snip.Content))
	}
	return b.String()
}

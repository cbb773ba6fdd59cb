package agent

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gvasques77-sys/agent-service/pkg/logging"
)

// AgentEvent represents a structured event at one orchestration decision
// point. All events share the same base fields for easy filtering/grep.
type AgentEvent struct {
	Time          string         `json:"time"`
	Event         string         `json:"event"`
	CorrelationID string         `json:"correlation_id"`
	ClinicID      string         `json:"clinic_id"`
	Data          map[string]any `json:"data,omitempty"`
}

// EventLogger emits structured JSON events at each decision point in the
// agent flow. Designed for fast grep/filter debugging:
//
//	grep '"event":"intent_extracted"' /var/log/app.log
//	grep '"correlation_id":"corr_abc"' /var/log/app.log
type EventLogger struct {
	logger *logging.Logger
}

// NewEventLogger creates a new agent event logger.
func NewEventLogger(logger *logging.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Log emits a structured agent event.
func (e *EventLogger) Log(_ context.Context, event, correlationID, clinicID string, data map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	evt := AgentEvent{
		Time:          time.Now().UTC().Format(time.RFC3339Nano),
		Event:         event,
		CorrelationID: correlationID,
		ClinicID:      clinicID,
		Data:          data,
	}
	b, _ := json.Marshal(evt)
	e.logger.Info(string(b))
}

// Convenience methods for common events:

func (e *EventLogger) IntentExtracted(ctx context.Context, correlationID, clinicID string, intent *ExtractedIntent) {
	if intent == nil {
		return
	}
	e.Log(ctx, "intent_extracted", correlationID, clinicID, map[string]any{
		"intent_group": string(intent.IntentGroup),
		"intent":       intent.Intent,
		"confidence":   intent.Confidence,
	})
}

func (e *EventLogger) ExtractionFallback(ctx context.Context, correlationID, clinicID, reason string) {
	e.Log(ctx, "extraction_fallback", correlationID, clinicID, map[string]any{
		"reason": reason,
	})
}

func (e *EventLogger) ConfidenceGate(ctx context.Context, correlationID, clinicID string, confidence, threshold float64) {
	e.Log(ctx, "confidence_gate", correlationID, clinicID, map[string]any{
		"confidence": confidence,
		"threshold":  threshold,
	})
}

func (e *EventLogger) DecisionFallback(ctx context.Context, correlationID, clinicID, reason string) {
	e.Log(ctx, "decision_fallback", correlationID, clinicID, map[string]any{
		"reason": reason,
	})
}

func (e *EventLogger) DecisionMade(ctx context.Context, correlationID, clinicID string, decision *Decision) {
	if decision == nil {
		return
	}
	e.Log(ctx, "decision_made", correlationID, clinicID, map[string]any{
		"decision_type": string(decision.DecisionType),
		"confidence":    decision.Confidence,
		"action_count":  len(decision.Actions),
	})
}

func (e *EventLogger) PolicyOverride(ctx context.Context, correlationID, clinicID string, from, to DecisionType) {
	e.Log(ctx, "policy_override", correlationID, clinicID, map[string]any{
		"from": string(from),
		"to":   string(to),
	})
}

func (e *EventLogger) RequestAborted(ctx context.Context, correlationID, clinicID, step string) {
	e.Log(ctx, "request_aborted", correlationID, clinicID, map[string]any{
		"step": step,
	})
}

func (e *EventLogger) OutcomeLogFailed(ctx context.Context, correlationID, clinicID string, err error) {
	e.Log(ctx, "outcome_log_failed", correlationID, clinicID, map[string]any{
		"error": err.Error(),
	})
}

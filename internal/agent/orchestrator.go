package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gvasques77-sys/agent-service/internal/observability/metrics"
	"github.com/gvasques77-sys/agent-service/pkg/logging"
)

var agentTracer = otel.Tracer("agent.internal.orchestrator")

// Exit paths for one orchestrated request.
const (
	PathFull          = "full"
	PathPolicyBlock   = "policy_block"
	PathLowConfidence = "low_confidence"
	PathNoToolCall    = "no_tool_call"
	PathMalformedCall = "malformed_arguments"
	PathTimeout       = "timeout"
	PathModelError    = "model_error"
)

// User-facing fallback texts. The timeout apology is deliberately distinct
// from the generic one so operators can tell aborts from instability.
const (
	clarifyMessage        = "I want to make sure I get this right. Could you share your name and what you'd like help with, and a preferred day or time if you're looking to schedule?"
	timeoutApologyMessage = "Sorry, that took longer than expected on our side. Please send your message again in a moment."
	genericApologyMessage = "Sorry, we're having a temporary issue on our side. Please try again shortly."
)

// Default orchestration knobs; both are business thresholds kept
// configurable rather than derived.
const (
	DefaultMaxSteps            = 2
	DefaultConfidenceThreshold = 0.6
)

// RunResult is the orchestrator's outcome for one envelope. FinalMessage is
// always non-empty and Actions is always non-nil, on every path.
type RunResult struct {
	FinalMessage string
	Actions      []Action
	Intent       *ExtractedIntent
	Decision     *Decision
	Path         string
}

// OrchestratorConfig bounds the tool-calling loop.
type OrchestratorConfig struct {
	MaxSteps            int
	ConfidenceThreshold float64
}

// Orchestrator drives the bounded two-step tool-calling workflow: forced
// intent extraction, a confidence gate, a forced decision, and deterministic
// policy overrides. Each step is hard-coded to one specific tool; the model
// cannot skip it or chain extra calls. All per-request state is local, so
// concurrent requests need no coordination.
type Orchestrator struct {
	llm      ToolCaller
	outcomes OutcomeAppender
	events   *EventLogger
	metrics  *metrics.AgentMetrics
	logger   *logging.Logger
	cfg      OrchestratorConfig
}

// NewOrchestrator wires the agent workflow. outcomes and m may be nil.
func NewOrchestrator(llm ToolCaller, outcomes OutcomeAppender, logger *logging.Logger, m *metrics.AgentMetrics, cfg OrchestratorConfig) *Orchestrator {
	if llm == nil {
		panic("agent: tool caller cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return &Orchestrator{
		llm:      llm,
		outcomes: outcomes,
		events:   NewEventLogger(logger),
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run processes one validated envelope against its clinic context. It never
// returns an error: every failure mode ends in a degraded-but-valid result.
func (o *Orchestrator) Run(ctx context.Context, env *Envelope, cc *ClinicContext) *RunResult {
	start := time.Now()

	ctx, span := agentTracer.Start(ctx, "agent.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("agent.clinic_id", env.ClinicID),
		attribute.String("agent.correlation_id", env.CorrelationID),
	)

	result := o.run(ctx, env, cc)
	span.SetAttributes(attribute.String("agent.path", result.Path))

	o.metrics.ObserveProcess(result.Path)
	if result.Decision != nil {
		o.metrics.ObserveDecision(string(result.Decision.DecisionType))
	}
	o.logOutcome(ctx, env, result, time.Since(start))

	return result
}

func (o *Orchestrator) run(ctx context.Context, env *Envelope, cc *ClinicContext) *RunResult {
	stepsLeft := o.cfg.MaxSteps

	// EXTRACTING: force the extract_intent tool.
	if stepsLeft < 1 {
		return clarifyResult(nil, PathNoToolCall)
	}
	stepsLeft--

	call, err := o.invoke(ctx, "extract", extractionInstructions(cc.KnowledgeBlock), env.MessageText, ExtractIntentTool)
	if err != nil {
		if aborted(ctx, err) {
			o.events.RequestAborted(ctx, env.CorrelationID, env.ClinicID, "extract")
			return abortResult(nil)
		}
		o.logger.Error("intent extraction failed", "error", err, "correlation_id", env.CorrelationID)
		return errorResult(nil)
	}

	intent, status := parseIntentCall(call)
	if status != parseOK {
		// Expected degraded path, not a fault: ask the patient to clarify.
		o.events.ExtractionFallback(ctx, env.CorrelationID, env.ClinicID, statusReason(status))
		return clarifyResult(nil, pathForStatus(status))
	}
	o.events.IntentExtracted(ctx, env.CorrelationID, env.ClinicID, intent)

	// GATE_CHECK: low-certainty extractions must not drive a decision.
	if intent.Confidence < o.cfg.ConfidenceThreshold {
		o.events.ConfidenceGate(ctx, env.CorrelationID, env.ClinicID, intent.Confidence, o.cfg.ConfidenceThreshold)
		return clarifyResult(intent, PathLowConfidence)
	}

	// DECIDING: force the decide_next_action tool, falling back to the fixed
	// safe decision when the step budget is spent or output is unusable.
	decision := safeDefaultDecision()
	if stepsLeft >= 1 {
		stepsLeft--
		input, marshalErr := marshalIntentInput(intent)
		if marshalErr != nil {
			o.logger.Error("failed to serialize intent", "error", marshalErr, "correlation_id", env.CorrelationID)
		} else {
			call, err = o.invoke(ctx, "decide", decisionInstructions(cc.Rules, cc.KnowledgeBlock), input, DecideNextActionTool)
			switch {
			case err != nil && aborted(ctx, err):
				o.events.RequestAborted(ctx, env.CorrelationID, env.ClinicID, "decide")
				return abortResult(intent)
			case err != nil:
				o.logger.Warn("decision step failed, using safe default", "error", err, "correlation_id", env.CorrelationID)
				o.events.DecisionFallback(ctx, env.CorrelationID, env.ClinicID, "invoke_error")
			default:
				if parsed, st := parseDecisionCall(call); st == parseOK {
					decision = parsed
				} else {
					o.events.DecisionFallback(ctx, env.CorrelationID, env.ClinicID, statusReason(st))
				}
			}
		}
	}

	// POLICY_OVERRIDE: authoritative, runs regardless of the model output.
	previous := decision.DecisionType
	decision, overrode := ApplyPolicy(intent, cc.Rules, decision)
	path := PathFull
	if overrode {
		o.metrics.ObservePolicyOverride()
		o.events.PolicyOverride(ctx, env.CorrelationID, env.ClinicID, previous, decision.DecisionType)
		path = PathPolicyBlock
	}
	o.events.DecisionMade(ctx, env.CorrelationID, env.ClinicID, decision)

	actions := decision.Actions
	if actions == nil {
		actions = []Action{}
	}
	return &RunResult{
		FinalMessage: decision.Message,
		Actions:      actions,
		Intent:       intent,
		Decision:     decision,
		Path:         path,
	}
}

func (o *Orchestrator) invoke(ctx context.Context, step, instructions, input string, tool *ToolSchema) (*ToolCall, error) {
	started := time.Now()
	call, err := o.llm.Invoke(ctx, instructions, input, tool)
	o.metrics.ObserveModelLatency(step, time.Since(started).Seconds())
	return call, err
}

// logOutcome appends the audit record without blocking or affecting the
// response. The write is detached from the request deadline.
func (o *Orchestrator) logOutcome(ctx context.Context, env *Envelope, result *RunResult, latency time.Duration) {
	if o.outcomes == nil {
		return
	}

	rec := &OutcomeRecord{
		ClinicID:      env.ClinicID,
		CorrelationID: env.CorrelationID,
		Path:          result.Path,
		LatencyMS:     latency.Milliseconds(),
	}
	if result.Intent != nil {
		rec.IntentGroup = string(result.Intent.IntentGroup)
		rec.Intent = result.Intent.Intent
		rec.Confidence = result.Intent.Confidence
	}
	if result.Decision != nil {
		rec.DecisionType = string(result.Decision.DecisionType)
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.logger.Warn("outcome log panicked", "recover", r)
			}
		}()
		if err := o.outcomes.AppendOutcome(context.Background(), rec); err != nil {
			o.logger.Warn("failed to append outcome", "error", err, "correlation_id", rec.CorrelationID)
			o.events.OutcomeLogFailed(context.Background(), rec.CorrelationID, rec.ClinicID, err)
		}
	}()
}

// marshalIntentInput renders the extracted intent as the decision step's
// input payload.
func marshalIntentInput(intent *ExtractedIntent) (string, error) {
	b, err := json.Marshal(intent)
	if err != nil {
		return "", fmt.Errorf("agent: failed to marshal intent: %w", err)
	}
	return string(b), nil
}

func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func statusReason(s parseStatus) string {
	switch s {
	case parseEmpty:
		return "no_tool_call"
	case parseMalformed:
		return "malformed_arguments"
	default:
		return "ok"
	}
}

// pathForStatus maps a failed extraction parse to its exit path so audit
// rows and metrics separate a silent model from a schema-violating one.
func pathForStatus(s parseStatus) string {
	if s == parseMalformed {
		return PathMalformedCall
	}
	return PathNoToolCall
}

func clarifyResult(intent *ExtractedIntent, path string) *RunResult {
	return &RunResult{
		FinalMessage: clarifyMessage,
		Actions:      []Action{},
		Intent:       intent,
		Path:         path,
	}
}

func abortResult(intent *ExtractedIntent) *RunResult {
	return &RunResult{
		FinalMessage: timeoutApologyMessage,
		Actions:      []Action{},
		Intent:       intent,
		Path:         PathTimeout,
	}
}

func errorResult(intent *ExtractedIntent) *RunResult {
	return &RunResult{
		FinalMessage: genericApologyMessage,
		Actions:      []Action{},
		Intent:       intent,
		Path:         PathModelError,
	}
}

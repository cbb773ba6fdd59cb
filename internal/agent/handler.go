package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gvasques77-sys/agent-service/pkg/logging"
)

// ProcessResponse is the body returned by POST /process on every non-validation
// path. Actions is always present, possibly empty.
type ProcessResponse struct {
	CorrelationID string        `json:"correlation_id"`
	FinalMessage  string        `json:"final_message"`
	Actions       []Action      `json:"actions"`
	Debug         *DebugPayload `json:"debug,omitempty"`
}

// DebugPayload exposes intermediate workflow state when debug mode is on.
type DebugPayload struct {
	Path         string           `json:"path"`
	Intent       *ExtractedIntent `json:"intent,omitempty"`
	DecisionType string           `json:"decision_type,omitempty"`
	DefaultsUsed bool             `json:"defaults_used"`
}

type validationErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

// HandlerConfig carries the per-request knobs the handler needs.
type HandlerConfig struct {
	Timeout time.Duration
	Debug   bool
}

// Handler exposes the agent workflow over HTTP.
type Handler struct {
	loader       *ContextLoader
	orchestrator *Orchestrator
	logger       *logging.Logger
	cfg          HandlerConfig
}

func NewHandler(loader *ContextLoader, orchestrator *Orchestrator, logger *logging.Logger, cfg HandlerConfig) *Handler {
	if loader == nil {
		panic("agent: context loader cannot be nil")
	}
	if orchestrator == nil {
		panic("agent: orchestrator cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Handler{loader: loader, orchestrator: orchestrator, logger: logger, cfg: cfg}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "agent-service"})
}

// Process runs one inbound message through the agent workflow. Malformed
// envelopes are the only 400; everything past validation answers 200 with a
// usable final_message.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var env Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Error:   "invalid_envelope",
			Details: map[string]string{"body": "request body must be a JSON envelope"},
		})
		return
	}
	env.Normalize()

	if details := ValidateEnvelope(&env); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			Error:   "invalid_envelope",
			Details: details,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Timeout)
	defer cancel()

	cc, err := h.loader.Load(ctx, env.ClinicID)
	if err != nil {
		h.logger.Error("failed to load clinic context", "error", err, "clinic_id", env.ClinicID, "correlation_id", env.CorrelationID)
		msg := genericApologyMessage
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			msg = timeoutApologyMessage
		}
		writeJSON(w, http.StatusOK, ProcessResponse{
			CorrelationID: env.CorrelationID,
			FinalMessage:  msg,
			Actions:       []Action{},
		})
		return
	}

	result := h.orchestrator.Run(ctx, &env, cc)

	resp := ProcessResponse{
		CorrelationID: env.CorrelationID,
		FinalMessage:  result.FinalMessage,
		Actions:       result.Actions,
	}
	if resp.Actions == nil {
		resp.Actions = []Action{}
	}
	if h.cfg.Debug {
		resp.Debug = &DebugPayload{
			Path:         result.Path,
			Intent:       result.Intent,
			DefaultsUsed: cc.DefaultsUsed,
		}
		if result.Decision != nil {
			resp.Debug.DecisionType = string(result.Decision.DecisionType)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

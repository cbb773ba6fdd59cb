package agent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DecisionType enumerates the kinds of decision the agent can take.
type DecisionType string

const (
	DecisionAskMissing DecisionType = "ask_missing"
	DecisionBlockPrice DecisionType = "block_price"
	DecisionHandoff    DecisionType = "handoff"
	DecisionProceed    DecisionType = "proceed"
)

func validDecisionType(d DecisionType) bool {
	switch d {
	case DecisionAskMissing, DecisionBlockPrice, DecisionHandoff, DecisionProceed:
		return true
	}
	return false
}

// Action is one side-effect descriptor for the caller to execute, in order.
type Action struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Decision is the structured output of the decide step. The policy guard may
// replace it wholesale.
type Decision struct {
	DecisionType DecisionType `json:"decision_type"`
	Message      string       `json:"message"`
	Actions      []Action     `json:"actions,omitempty"`
	Confidence   float64      `json:"confidence"`
}

// askMissingDefaultMessage is the fixed safe reply when the decide step
// produces nothing usable.
const askMissingDefaultMessage = "Could you share your name and a preferred day or time? That way our team can help you right away."

// safeDefaultDecision is the substitute used when the decide step returns no
// tool call or unparseable output.
func safeDefaultDecision() *Decision {
	return &Decision{
		DecisionType: DecisionAskMissing,
		Message:      askMissingDefaultMessage,
		Actions:      []Action{},
		Confidence:   0,
	}
}

// parseDecisionCall validates a raw decide_next_action tool call.
func parseDecisionCall(call *ToolCall) (*Decision, parseStatus) {
	if call == nil {
		return nil, parseEmpty
	}
	if len(bytes.TrimSpace(call.Arguments)) == 0 {
		return nil, parseMalformed
	}

	var raw struct {
		DecisionType *string  `json:"decision_type"`
		Message      *string  `json:"message"`
		Actions      []Action `json:"actions"`
		Confidence   float64  `json:"confidence"`
	}
	dec := json.NewDecoder(bytes.NewReader(call.Arguments))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, parseMalformed
	}

	if raw.DecisionType == nil || raw.Message == nil {
		return nil, parseMalformed
	}
	decisionType := DecisionType(strings.TrimSpace(*raw.DecisionType))
	if !validDecisionType(decisionType) {
		return nil, parseMalformed
	}
	message := strings.TrimSpace(*raw.Message)
	if message == "" {
		return nil, parseMalformed
	}

	actions := raw.Actions
	if actions == nil {
		actions = []Action{}
	}
	for _, a := range actions {
		if strings.TrimSpace(a.Type) == "" {
			return nil, parseMalformed
		}
	}

	return &Decision{
		DecisionType: decisionType,
		Message:      message,
		Actions:      actions,
		Confidence:   clampConfidence(raw.Confidence),
	}, parseOK
}

package agent

import (
	"context"
	"encoding/json"
)

// ToolCall is the model's structured output for one forced tool invocation.
// Arguments may be malformed despite the forced schema; callers must parse
// defensively.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ToolCaller invokes the model with exactly one tool forced. A nil ToolCall
// with a nil error means the model produced no tool call at all.
type ToolCaller interface {
	Invoke(ctx context.Context, instructions, input string, tool *ToolSchema) (*ToolCall, error)
}

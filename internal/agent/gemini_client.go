package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/option"
)

var geminiTracer = otel.Tracer("agent.internal.gemini")

// GeminiToolCaller implements ToolCaller using Google's Gemini API with
// forced function calling.
type GeminiToolCaller struct {
	client  *genai.Client
	modelID string
}

// NewGeminiToolCaller creates a new Gemini tool-calling client.
func NewGeminiToolCaller(ctx context.Context, apiKey, modelID string) (*GeminiToolCaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("agent: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("agent: failed to create gemini client: %w", err)
	}

	return &GeminiToolCaller{
		client:  client,
		modelID: modelID,
	}, nil
}

// Invoke sends one message with the given tool forced and returns the first
// matching function call, or nil when the model declined to call it.
func (c *GeminiToolCaller) Invoke(ctx context.Context, instructions, input string, tool *ToolSchema) (*ToolCall, error) {
	if tool == nil || tool.Declaration == nil {
		return nil, errors.New("agent: tool schema is required")
	}

	ctx, span := geminiTracer.Start(ctx, "agent.gemini.invoke")
	defer span.End()
	span.SetAttributes(
		attribute.String("agent.tool", tool.Name),
		attribute.String("agent.model", c.modelID),
	)

	model := c.client.GenerativeModel(c.modelID)
	if strings.TrimSpace(instructions) != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(instructions))
	}
	model.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{tool.Declaration},
	}}
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode:                 genai.FunctionCallingAny,
			AllowedFunctionNames: []string{tool.Name},
		},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(input))
	if err != nil {
		return nil, fmt.Errorf("agent: gemini invocation failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			fc, ok := part.(genai.FunctionCall)
			if !ok || fc.Name != tool.Name {
				continue
			}
			args, err := json.Marshal(fc.Args)
			if err != nil {
				// Hand the caller an unparseable call rather than an error;
				// malformed output is an expected degraded path.
				args = nil
			}
			return &ToolCall{Name: fc.Name, Arguments: args}, nil
		}
	}

	return nil, nil
}

// Close releases resources held by the Gemini client.
func (c *GeminiToolCaller) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, caller ToolCaller, rules RulesStore, cfg HandlerConfig) *Handler {
	t.Helper()
	if rules == nil {
		rules = &fakeRulesStore{}
	}
	loader := NewContextLoader(rules, &fakeKnowledgeStore{}, 8, nil, nil)
	orchestrator := NewOrchestrator(caller, nil, nil, nil, OrchestratorConfig{})
	return NewHandler(loader, orchestrator, nil, cfg)
}

func postProcess(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Process(rec, req)
	return rec
}

func validBody() string {
	return `{"correlation_id":"corr-12345","clinic_id":"clinic-1","from":"+15551234567","message_text":"Can I book botox on Friday?"}`
}

func TestHandlerProcessSuccess(t *testing.T) {
	caller := &scriptedCaller{responses: map[string]*ToolCall{
		extractIntentToolName:    extractResponse("scheduling", 0.9),
		decideNextActionToolName: decideResponse("proceed", "We'll get you booked."),
	}}
	h := newTestHandler(t, caller, nil, HandlerConfig{})

	rec := postProcess(t, h, validBody())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "corr-12345", resp.CorrelationID)
	assert.Equal(t, "We'll get you booked.", resp.FinalMessage)
	assert.NotNil(t, resp.Actions)
	assert.Nil(t, resp.Debug)

	// actions must serialize as an array even when empty
	assert.Contains(t, rec.Body.String(), `"actions":[`)
}

func TestHandlerProcessInvalidEnvelope(t *testing.T) {
	h := newTestHandler(t, &scriptedCaller{}, nil, HandlerConfig{})

	rec := postProcess(t, h, `{"correlation_id":"abc","message_text":""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp validationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_envelope", resp.Error)
	assert.Contains(t, resp.Details, "correlation_id")
	assert.Contains(t, resp.Details, "clinic_id")
	assert.Contains(t, resp.Details, "from")
	assert.Contains(t, resp.Details, "message_text")
}

func TestHandlerProcessMalformedJSON(t *testing.T) {
	h := newTestHandler(t, &scriptedCaller{}, nil, HandlerConfig{})

	rec := postProcess(t, h, `{"correlation_id":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp validationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_envelope", resp.Error)
}

func TestHandlerProcessLoaderFailure(t *testing.T) {
	h := newTestHandler(t, &scriptedCaller{}, &fakeRulesStore{err: errors.New("redis down")}, HandlerConfig{})

	rec := postProcess(t, h, validBody())

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "corr-12345", resp.CorrelationID)
	assert.Equal(t, genericApologyMessage, resp.FinalMessage)
	assert.NotNil(t, resp.Actions)
}

func TestHandlerProcessLoaderDeadline(t *testing.T) {
	h := newTestHandler(t, &scriptedCaller{}, &fakeRulesStore{err: context.DeadlineExceeded}, HandlerConfig{Timeout: 50 * time.Millisecond})

	rec := postProcess(t, h, validBody())

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, timeoutApologyMessage, resp.FinalMessage)
}

func TestHandlerProcessDebugPayload(t *testing.T) {
	caller := &scriptedCaller{responses: map[string]*ToolCall{
		extractIntentToolName:    extractResponse("billing", 0.9),
		decideNextActionToolName: decideResponse("proceed", "Botox is $12 per unit."),
	}}
	h := newTestHandler(t, caller, nil, HandlerConfig{Debug: true})

	rec := postProcess(t, h, validBody())

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Debug)
	assert.Equal(t, PathPolicyBlock, resp.Debug.Path)
	assert.Equal(t, "block_price", resp.Debug.DecisionType)
	assert.True(t, resp.Debug.DefaultsUsed)
	require.NotNil(t, resp.Debug.Intent)
	assert.Equal(t, IntentGroupBilling, resp.Debug.Intent.IntentGroup)
}

func TestHandlerProcessIdempotent(t *testing.T) {
	caller := &scriptedCaller{responses: map[string]*ToolCall{
		extractIntentToolName:    extractResponse("billing", 0.9),
		decideNextActionToolName: decideResponse("proceed", "Botox is $12 per unit."),
	}}
	h := newTestHandler(t, caller, nil, HandlerConfig{})

	first := postProcess(t, h, validBody())
	second := postProcess(t, h, validBody())

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestHandlerHealth(t *testing.T) {
	h := newTestHandler(t, &scriptedCaller{}, nil, HandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"service":"agent-service"}`, rec.Body.String())

	var body struct {
		OK      bool   `json:"ok"`
		Service string `json:"service"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "agent-service", body.Service)
}

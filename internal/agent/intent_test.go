package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intentCall(t *testing.T, args string) *ToolCall {
	t.Helper()
	return &ToolCall{Name: extractIntentToolName, Arguments: json.RawMessage(args)}
}

func TestParseIntentCall(t *testing.T) {
	tests := []struct {
		name       string
		call       *ToolCall
		wantStatus parseStatus
	}{
		{
			name:       "no tool call",
			call:       nil,
			wantStatus: parseEmpty,
		},
		{
			name:       "empty arguments",
			call:       intentCall(t, ""),
			wantStatus: parseMalformed,
		},
		{
			name:       "invalid json",
			call:       intentCall(t, "{not json"),
			wantStatus: parseMalformed,
		},
		{
			name:       "unknown top-level field",
			call:       intentCall(t, `{"intent_group":"general","intent":"greeting","confidence":0.9,"extra":true}`),
			wantStatus: parseMalformed,
		},
		{
			name:       "unknown slot field",
			call:       intentCall(t, `{"intent_group":"general","intent":"greeting","confidence":0.9,"slots":{"favorite_color":"blue"}}`),
			wantStatus: parseMalformed,
		},
		{
			name:       "missing intent_group",
			call:       intentCall(t, `{"intent":"greeting","confidence":0.9}`),
			wantStatus: parseMalformed,
		},
		{
			name:       "missing confidence",
			call:       intentCall(t, `{"intent_group":"general","intent":"greeting"}`),
			wantStatus: parseMalformed,
		},
		{
			name:       "intent_group outside enum",
			call:       intentCall(t, `{"intent_group":"marketing","intent":"promo","confidence":0.9}`),
			wantStatus: parseMalformed,
		},
		{
			name:       "blank intent",
			call:       intentCall(t, `{"intent_group":"general","intent":"  ","confidence":0.9}`),
			wantStatus: parseMalformed,
		},
		{
			name:       "valid extraction",
			call:       intentCall(t, `{"intent_group":"scheduling","intent":"book_appointment","confidence":0.85,"slots":{"procedure":"botox"},"missing_fields":["preferred_time"]}`),
			wantStatus: parseOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, status := parseIntentCall(tt.call)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus == parseOK {
				require.NotNil(t, intent)
			} else {
				assert.Nil(t, intent)
			}
		})
	}
}

func TestParseIntentCallFields(t *testing.T) {
	call := intentCall(t, `{"intent_group":"billing","intent":"price_inquiry","confidence":0.92,"slots":{"billing_item":"filler"},"missing_fields":["patient_name"]}`)
	intent, status := parseIntentCall(call)
	require.Equal(t, parseOK, status)
	assert.Equal(t, IntentGroupBilling, intent.IntentGroup)
	assert.Equal(t, "price_inquiry", intent.Intent)
	assert.Equal(t, "filler", intent.Slots.BillingItem)
	assert.Equal(t, []string{"patient_name"}, intent.MissingFields)
	assert.InDelta(t, 0.92, intent.Confidence, 1e-9)
}

func TestParseIntentCallClampsConfidence(t *testing.T) {
	tests := []struct {
		name string
		args string
		want float64
	}{
		{"above one", `{"intent_group":"general","intent":"greeting","confidence":3.5}`, 1},
		{"below zero", `{"intent_group":"general","intent":"greeting","confidence":-0.2}`, 0},
		{"in range", `{"intent_group":"general","intent":"greeting","confidence":0.4}`, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, status := parseIntentCall(intentCall(t, tt.args))
			require.Equal(t, parseOK, status)
			assert.InDelta(t, tt.want, intent.Confidence, 1e-9)
		})
	}
}

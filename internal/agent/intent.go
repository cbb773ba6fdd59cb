package agent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// IntentGroup is the closed category set for extracted intents.
type IntentGroup string

const (
	IntentGroupScheduling  IntentGroup = "scheduling"
	IntentGroupBilling     IntentGroup = "billing"
	IntentGroupClinical    IntentGroup = "clinical"
	IntentGroupTestResults IntentGroup = "test_results"
	IntentGroupGeneral     IntentGroup = "general"
)

func validIntentGroup(g IntentGroup) bool {
	switch g {
	case IntentGroupScheduling, IntentGroupBilling, IntentGroupClinical,
		IntentGroupTestResults, IntentGroupGeneral:
		return true
	}
	return false
}

// IntentSlots is the fixed-shape mapping of named optional fields the model
// may fill during extraction.
type IntentSlots struct {
	PatientName   string `json:"patient_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	PreferredDate string `json:"preferred_date,omitempty"`
	PreferredTime string `json:"preferred_time,omitempty"`
	Procedure     string `json:"procedure,omitempty"`
	Symptom       string `json:"symptom,omitempty"`
	BillingItem   string `json:"billing_item,omitempty"`
	TestType      string `json:"test_type,omitempty"`
}

// ExtractedIntent is the structured output of the extraction step.
type ExtractedIntent struct {
	IntentGroup   IntentGroup `json:"intent_group"`
	Intent        string      `json:"intent"`
	Slots         IntentSlots `json:"slots,omitempty"`
	MissingFields []string    `json:"missing_fields,omitempty"`
	Confidence    float64     `json:"confidence"`
}

// parseStatus tags the outcome of defensively parsing a model tool call.
type parseStatus int

const (
	parseOK parseStatus = iota
	parseEmpty
	parseMalformed
)

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// parseIntentCall validates a raw extract_intent tool call. The model is
// untrusted: unknown fields, missing required fields, and out-of-enum groups
// all count as malformed.
func parseIntentCall(call *ToolCall) (*ExtractedIntent, parseStatus) {
	if call == nil {
		return nil, parseEmpty
	}
	if len(bytes.TrimSpace(call.Arguments)) == 0 {
		return nil, parseMalformed
	}

	var raw struct {
		IntentGroup   *string     `json:"intent_group"`
		Intent        *string     `json:"intent"`
		Slots         IntentSlots `json:"slots"`
		MissingFields []string    `json:"missing_fields"`
		Confidence    *float64    `json:"confidence"`
	}
	dec := json.NewDecoder(bytes.NewReader(call.Arguments))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, parseMalformed
	}

	if raw.IntentGroup == nil || raw.Intent == nil || raw.Confidence == nil {
		return nil, parseMalformed
	}
	group := IntentGroup(strings.TrimSpace(*raw.IntentGroup))
	if !validIntentGroup(group) {
		return nil, parseMalformed
	}
	intentLabel := strings.TrimSpace(*raw.Intent)
	if intentLabel == "" {
		return nil, parseMalformed
	}

	return &ExtractedIntent{
		IntentGroup:   group,
		Intent:        intentLabel,
		Slots:         raw.Slots,
		MissingFields: raw.MissingFields,
		Confidence:    clampConfidence(*raw.Confidence),
	}, parseOK
}

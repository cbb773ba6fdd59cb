// Package agent implements the guarded tool-calling workflow that turns an
// inbound clinic message into a final reply plus side-effect actions.
package agent

import (
	"strings"
	"time"
)

const (
	minCorrelationIDLength = 8
	minFromLength          = 3
)

// Envelope is the normalized inbound message record handed to this service by
// the upstream relay. Immutable once validated.
type Envelope struct {
	CorrelationID string `json:"correlation_id"`
	ClinicID      string `json:"clinic_id"`
	From          string `json:"from"`
	MessageText   string `json:"message_text"`
	PhoneNumberID string `json:"phone_number_id,omitempty"`
	ReceivedAtISO string `json:"received_at_iso,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (e *Envelope) Normalize() {
	e.CorrelationID = strings.TrimSpace(e.CorrelationID)
	e.ClinicID = strings.TrimSpace(e.ClinicID)
	e.From = strings.TrimSpace(e.From)
	e.MessageText = strings.TrimSpace(e.MessageText)
	e.PhoneNumberID = strings.TrimSpace(e.PhoneNumberID)
	e.ReceivedAtISO = strings.TrimSpace(e.ReceivedAtISO)
}

// ValidateEnvelope normalizes the envelope and returns every violated field
// constraint keyed by field name. An empty map means the envelope is valid.
func ValidateEnvelope(e *Envelope) map[string]string {
	e.Normalize()
	details := make(map[string]string)

	switch {
	case e.CorrelationID == "":
		details["correlation_id"] = "is required"
	case len(e.CorrelationID) < minCorrelationIDLength:
		details["correlation_id"] = "must be at least 8 characters"
	}

	if e.ClinicID == "" {
		details["clinic_id"] = "is required"
	}

	switch {
	case e.From == "":
		details["from"] = "is required"
	case len(e.From) < minFromLength:
		details["from"] = "must be at least 3 characters"
	}

	if e.MessageText == "" {
		details["message_text"] = "must be non-empty"
	}

	if e.ReceivedAtISO != "" {
		if _, err := time.Parse(time.RFC3339, e.ReceivedAtISO); err != nil {
			details["received_at_iso"] = "must be an RFC3339 timestamp"
		}
	}

	return details
}

package agent

import (
	"fmt"
	"strings"
)

// DayHours represents the opening hours for a single day.
// Nil means the clinic is closed that day.
type DayHours struct {
	Open  string `json:"open"`  // "09:00" in 24-hour format
	Close string `json:"close"` // "18:00" in 24-hour format
}

// BusinessHours maps day names to their hours.
type BusinessHours struct {
	Monday    *DayHours `json:"monday,omitempty"`
	Tuesday   *DayHours `json:"tuesday,omitempty"`
	Wednesday *DayHours `json:"wednesday,omitempty"`
	Thursday  *DayHours `json:"thursday,omitempty"`
	Friday    *DayHours `json:"friday,omitempty"`
	Saturday  *DayHours `json:"saturday,omitempty"`
	Sunday    *DayHours `json:"sunday,omitempty"`
}

// HasAnyHours returns true if at least one day has hours configured.
func (b *BusinessHours) HasAnyHours() bool {
	return b.Sunday != nil || b.Monday != nil || b.Tuesday != nil ||
		b.Wednesday != nil || b.Thursday != nil || b.Friday != nil || b.Saturday != nil
}

// Describe renders the weekly schedule as prompt-ready text.
func (b *BusinessHours) Describe() string {
	days := []struct {
		name  string
		hours *DayHours
	}{
		{"Monday", b.Monday},
		{"Tuesday", b.Tuesday},
		{"Wednesday", b.Wednesday},
		{"Thursday", b.Thursday},
		{"Friday", b.Friday},
		{"Saturday", b.Saturday},
		{"Sunday", b.Sunday},
	}

	var lines []string
	for _, d := range days {
		if d.hours == nil {
			lines = append(lines, fmt.Sprintf("%s: closed", d.name))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s - %s", d.name, d.hours.Open, d.hours.Close))
	}
	return strings.Join(lines, "\n")
}

// ClinicRules is the per-tenant configuration loaded for each request.
// Read-only within a request.
type ClinicRules struct {
	ClinicID      string        `json:"clinic_id"`
	AllowPrices   bool          `json:"allow_prices"`
	Timezone      string        `json:"timezone"`
	BusinessHours BusinessHours `json:"business_hours"`
	PoliciesText  string        `json:"policies_text"`
}

// DefaultRules returns the substitute configuration used when a clinic has no
// rules row. Prices stay blocked until a tenant opts in explicitly. The
// default is never persisted.
func DefaultRules(clinicID string) *ClinicRules {
	return &ClinicRules{
		ClinicID:    clinicID,
		AllowPrices: false,
		Timezone:    "America/New_York",
		BusinessHours: BusinessHours{
			Monday:    &DayHours{Open: "09:00", Close: "18:00"},
			Tuesday:   &DayHours{Open: "09:00", Close: "18:00"},
			Wednesday: &DayHours{Open: "09:00", Close: "18:00"},
			Thursday:  &DayHours{Open: "09:00", Close: "18:00"},
			Friday:    &DayHours{Open: "09:00", Close: "17:00"},
			Saturday:  nil,
			Sunday:    nil,
		},
		PoliciesText: "Be courteous and concise. Never promise a specific appointment slot; " +
			"scheduling is confirmed by clinic staff. Never discuss prices unless the clinic allows it.",
	}
}

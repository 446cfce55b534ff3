package model

import (
	"fmt"
	"strings"
	"time"
)

// Event is a single concrete calendar entry with absolute start/end
// instants. Instants are timezone-independent; any civil ("wall clock")
// interpretation happens at render time against a display timezone.
//
// Events are never edited in place: an edit is a delete followed by a
// recreate, so downstream consumers may treat an ID as naming an
// immutable value.
type Event struct {
	ID         string `json:"id" yaml:"id"`
	CalendarID string `json:"calendar_id" yaml:"calendar"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// AllDay events are pinned to civil days rather than clock times and
	// are kept out of the timed column layout.
	AllDay bool `json:"all_day" yaml:"all_day,omitempty"`

	// Start / End form a half-open interval [Start, End). End >= Start.
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Valid reports whether the event's interval is usable for layout.
// A zero Start or End, or End before Start, marks the event malformed;
// malformed events are skipped individually and never abort a render.
func (e Event) Valid() bool {
	if e.Start.IsZero() || e.End.IsZero() {
		return false
	}
	return !e.End.Before(e.Start)
}

// Calendar groups events for display purposes only: it contributes a
// name and a swatch color. It carries no access-control meaning here.
type Calendar struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color Color  `json:"color" yaml:"color"`
}

// Freq enumerates the supported recurrence frequencies.
type Freq string

const (
	FreqDaily   Freq = "daily"
	FreqWeekly  Freq = "weekly"
	FreqMonthly Freq = "monthly"
	FreqYearly  Freq = "yearly"
)

// ParseFreq maps a config/API string onto a Freq.
func ParseFreq(s string) (Freq, error) {
	switch Freq(strings.ToLower(strings.TrimSpace(s))) {
	case FreqDaily:
		return FreqDaily, nil
	case FreqWeekly:
		return FreqWeekly, nil
	case FreqMonthly:
		return FreqMonthly, nil
	case FreqYearly:
		return FreqYearly, nil
	}
	return "", fmt.Errorf("unknown recurrence frequency %q", s)
}

// RecurringEvent describes a repeating series. Start/End give the first
// occurrence; every expanded occurrence keeps the same duration.
//
// Count == 0 means the series is unbounded; expansion is then limited
// only by the requested window (plus the expander's safety cap). Until,
// when non-zero, is the last instant an occurrence may start at.
type RecurringEvent struct {
	ID         string `json:"id" yaml:"id"`
	CalendarID string `json:"calendar_id" yaml:"calendar"`

	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	AllDay      bool   `json:"all_day" yaml:"all_day,omitempty"`

	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`

	Freq     Freq      `json:"freq" yaml:"freq"`
	Interval int       `json:"interval" yaml:"interval"`
	Count    int       `json:"count,omitempty" yaml:"count,omitempty"`
	Until    time.Time `json:"until,omitempty" yaml:"until,omitempty"`
}

// Duration of a single occurrence.
func (r RecurringEvent) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

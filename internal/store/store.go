// Package store keeps the live calendar state: calendars, one-off
// events, and recurring definitions. Everything lives in memory and is
// seeded from the config file at startup; there is no database behind
// it.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/SturdyFool10/CoreCalendar/internal/model"
)

var (
	// ErrDuplicateID rejects a write reusing an existing ID.
	ErrDuplicateID = errors.New("store: duplicate id")
	// ErrUnknownCalendar rejects an event referencing no known calendar.
	ErrUnknownCalendar = errors.New("store: unknown calendar")
	// ErrInvalidInterval rejects an event whose times are missing or inverted.
	ErrInvalidInterval = errors.New("store: invalid time interval")
)

// Store is safe for concurrent use. Reads take snapshots so callers
// can lay out or encode without holding the lock.
type Store struct {
	mu        sync.RWMutex
	calendars []model.Calendar
	events    []model.Event
	recurring []model.RecurringEvent
	colors    map[string]model.Color
}

func New() *Store {
	return &Store{colors: make(map[string]model.Color)}
}

// AddCalendar registers a calendar, assigning an ID when none is given,
// and returns the stored value.
func (s *Store) AddCalendar(c model.Calendar) (model.Calendar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.colors[c.ID]; exists {
		return model.Calendar{}, ErrDuplicateID
	}
	s.calendars = append(s.calendars, c)
	s.colors[c.ID] = c.Color
	return c, nil
}

// Calendars returns all calendars in insertion order.
func (s *Store) Calendars() []model.Calendar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Calendar, len(s.calendars))
	copy(out, s.calendars)
	return out
}

// ColorOf resolves a calendar's swatch color. The bool reports whether
// the calendar exists, which the layout pass uses to skip orphaned
// events.
func (s *Store) ColorOf(calendarID string) (model.Color, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.colors[calendarID]
	return c, ok
}

// AddEvent stores a one-off event, assigning an ID when none is given.
// The interval must be well formed and the calendar known.
func (s *Store) AddEvent(ev model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ev.Valid() {
		return model.Event{}, ErrInvalidInterval
	}
	if _, ok := s.colors[ev.CalendarID]; !ok {
		return model.Event{}, ErrUnknownCalendar
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	for _, existing := range s.events {
		if existing.ID == ev.ID {
			return model.Event{}, ErrDuplicateID
		}
	}
	s.events = append(s.events, ev)
	return ev, nil
}

// DeleteEvent removes an event and reports whether it existed.
func (s *Store) DeleteEvent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return true
		}
	}
	return false
}

// ListEvents returns all one-off events in insertion order.
func (s *Store) ListEvents() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// AddRecurring stores a recurring definition, assigning an ID when
// none is given. The first occurrence's interval must be well formed
// and the calendar known.
func (s *Store) AddRecurring(def model.RecurringEvent) (model.RecurringEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if def.Start.IsZero() || def.End.IsZero() || def.End.Before(def.Start) {
		return model.RecurringEvent{}, ErrInvalidInterval
	}
	freq, err := model.ParseFreq(string(def.Freq))
	if err != nil {
		return model.RecurringEvent{}, err
	}
	def.Freq = freq
	if _, ok := s.colors[def.CalendarID]; !ok {
		return model.RecurringEvent{}, ErrUnknownCalendar
	}
	if def.Interval < 1 {
		def.Interval = 1
	}
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	for _, existing := range s.recurring {
		if existing.ID == def.ID {
			return model.RecurringEvent{}, ErrDuplicateID
		}
	}
	s.recurring = append(s.recurring, def)
	return def, nil
}

// DeleteRecurring removes a recurring definition and reports whether
// it existed.
func (s *Store) DeleteRecurring(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, def := range s.recurring {
		if def.ID == id {
			s.recurring = append(s.recurring[:i], s.recurring[i+1:]...)
			return true
		}
	}
	return false
}

// ListRecurring returns all recurring definitions in insertion order.
func (s *Store) ListRecurring() []model.RecurringEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RecurringEvent, len(s.recurring))
	copy(out, s.recurring)
	return out
}

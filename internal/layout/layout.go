// Package layout computes render-ready geometry for the events of one
// civil day: vertical placement from wall-clock time in a display
// timezone, and horizontal column splitting for events that overlap in
// time.
//
// Everything here is a pure function of its inputs (event set, day,
// timezone, now). No I/O, no retained state; a pass may be re-run at
// any frequency and identical inputs yield identical geometry.
package layout

import (
	"sort"
	"time"

	"github.com/SturdyFool10/CoreCalendar/internal/model"
)

// MinutesPerDay is the height of the sheet in civil minutes.
const MinutesPerDay = 24 * 60

// DefaultMinEventMinutes is the minimum visible event height when the
// caller does not configure one.
const DefaultMinEventMinutes = 15

// Palette resolves a calendar ID to its swatch color. The bool reports
// whether the calendar exists; events referencing an unknown calendar
// are skipped from the sheet entirely.
type Palette interface {
	ColorOf(calendarID string) (model.Color, bool)
}

// Box is the render-ready rectangle for one timed event on the sheet.
// Fractions are of the full sheet (0..1) so sinks of any pixel size can
// scale them.
type Box struct {
	Event model.Event
	Color model.Color

	// TopFraction / HeightFraction place the box vertically:
	// civil start minutes / 1440 and civil duration / 1440.
	TopFraction    float64
	HeightFraction float64

	// Column / ColumnsInGroup place the box horizontally inside its
	// overlap group: column i of g equal-width columns.
	Column         int
	ColumnsInGroup int

	// Spillover flags for multi-day events. Sinks suppress the top or
	// bottom corner rounding on the clamped edge.
	ContinuesFromPrevDay bool
	ContinuesToNextDay   bool

	// IsPast is true iff the event's absolute end is strictly before
	// the pass's "now". An event ending exactly at now is not past.
	IsPast bool
}

// AllDayEntry is an all-day event surfaced outside the timed grid.
type AllDayEntry struct {
	Event  model.Event
	Color  model.Color
	IsPast bool
}

// Sheet is the complete geometry for one civil day.
type Sheet struct {
	Day      model.Date
	Location *time.Location

	Boxes  []Box
	AllDay []AllDayEntry

	// Skipped counts events dropped by the per-event error policy
	// (malformed interval or unknown calendar). Never fatal.
	Skipped int
}

// Config parameterizes a layout pass. The zero value of optional
// fields picks documented defaults.
type Config struct {
	Day model.Date

	// Location is the display timezone. nil falls back to UTC, which
	// is also the policy for unresolvable timezone names upstream.
	Location *time.Location

	// Now is the live-clock sample for past/future styling. The caller
	// samples it once per pass.
	Now time.Time

	// Palette is the calendar lookup. A nil Palette disables the
	// unknown-calendar check and renders every event with the zero
	// color; this keeps pure-geometry tests independent of calendars.
	Palette Palette

	// MinEventMinutes clamps very short events to a visible height.
	// <= 0 selects DefaultMinEventMinutes.
	MinEventMinutes int
}

// Window returns the absolute bounds [start, end) of the civil day in
// loc. DST transition days keep their real 23h/25h span because both
// bounds come from civil midnights.
func Window(day model.Date, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	return day.StartIn(loc), day.Next().StartIn(loc)
}

// Overlaps reports whether two events' [Start, End) intervals
// intersect. The test is open-interval: back-to-back events sharing an
// instant do not overlap.
func Overlaps(a, b model.Event) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// EventsForDay returns the subset of events whose interval intersects
// the day's window in loc, preserving input order. Multi-day events
// are returned for every day they touch. An empty result is valid.
func EventsForDay(events []model.Event, day model.Date, loc *time.Location) []model.Event {
	dayStart, dayEnd := Window(day, loc)

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.Start.Before(dayEnd) && ev.End.After(dayStart) {
			out = append(out, ev)
		}
	}
	return out
}

// GroupOverlapping splits a day's events into overlap groups with a
// greedy single pass: each event joins the first existing group that
// contains at least one member overlapping it, else opens a new group.
//
// The pass is transitive by construction: when A overlaps B and B
// overlaps C, C lands in A's group even when A and C are disjoint, so
// the result is not a minimum column cover. Callers depend on that
// grouping staying stable, so it is kept as is.
//
// Group order and order within each group are input order, which is
// what assigns columns downstream.
func GroupOverlapping(events []model.Event) [][]model.Event {
	groups := make([][]model.Event, 0, len(events))

	for _, ev := range events {
		placed := false
		for gi := range groups {
			for _, member := range groups[gi] {
				if Overlaps(member, ev) {
					groups[gi] = append(groups[gi], ev)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []model.Event{ev})
		}
	}

	return groups
}

// SlotSpan returns the horizontal left offset and width (fractions of
// the sheet) for a column of a group, with a fixed gutter between
// columns. A single-event group spans the full width.
func SlotSpan(column, columns int, gutter float64) (left, width float64) {
	if columns <= 1 {
		return 0, 1
	}
	if gutter < 0 {
		gutter = 0
	}
	width = (1 - gutter*float64(columns-1)) / float64(columns)
	left = float64(column) * (width + gutter)
	return left, width
}

// BuildDaySheet runs a full layout pass.
//
// Order of operations:
//  1. filter the event set to the day's window,
//  2. drop events the error policy skips (malformed interval, unknown
//     calendar) so survivors get dense columns,
//  3. route all-day events to the sheet's all-day strip,
//  4. order timed events by start instant, ties broken by event ID
//     (lexicographic) so simultaneous events get deterministic columns,
//  5. group overlapping events and emit one Box per event.
func BuildDaySheet(events []model.Event, cfg Config) Sheet {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	sheet := Sheet{
		Day:      cfg.Day,
		Location: loc,
		Boxes:    []Box{},
		AllDay:   []AllDayEntry{},
	}

	dayStart, dayEnd := Window(cfg.Day, loc)

	timed := make([]model.Event, 0, len(events))
	colors := make(map[string]model.Color)
	for _, ev := range EventsForDay(events, cfg.Day, loc) {
		if !ev.Valid() {
			sheet.Skipped++
			continue
		}
		var color model.Color
		if cfg.Palette != nil {
			c, ok := cfg.Palette.ColorOf(ev.CalendarID)
			if !ok {
				sheet.Skipped++
				continue
			}
			color = c
		}
		colors[ev.ID] = color
		if ev.AllDay {
			sheet.AllDay = append(sheet.AllDay, AllDayEntry{
				Event:  ev,
				Color:  color,
				IsPast: ev.End.Before(cfg.Now),
			})
			continue
		}
		timed = append(timed, ev)
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].Start.Equal(timed[j].Start) {
			return timed[i].ID < timed[j].ID
		}
		return timed[i].Start.Before(timed[j].Start)
	})

	minMinutes := cfg.MinEventMinutes
	if minMinutes <= 0 {
		minMinutes = DefaultMinEventMinutes
	}

	for _, group := range GroupOverlapping(timed) {
		for i, ev := range group {
			box := layoutEvent(ev, i, len(group), dayStart, dayEnd, loc, cfg.Now, minMinutes)
			box.Color = colors[ev.ID]
			sheet.Boxes = append(sheet.Boxes, box)
		}
	}

	return sheet
}

// layoutEvent computes the geometry of a single timed event within its
// overlap group.
func layoutEvent(ev model.Event, index, groupSize int, dayStart, dayEnd time.Time, loc *time.Location, now time.Time, minMinutes int) Box {
	box := Box{
		Event:          ev,
		Column:         index,
		ColumnsInGroup: groupSize,
		IsPast:         ev.End.Before(now),
	}

	// Vertical placement in civil minutes. Spillover from adjacent
	// days clamps to the sheet edge and sets the continuation flag.
	startMin := 0
	if ev.Start.Before(dayStart) {
		box.ContinuesFromPrevDay = true
	} else {
		startMin = minutesIntoDay(ev.Start, loc)
	}

	endMin := MinutesPerDay
	if ev.End.After(dayEnd) {
		box.ContinuesToNextDay = true
	} else if ev.End.Equal(dayEnd) {
		// Ends exactly at midnight: reaches the bottom, no spillover.
	} else {
		endMin = minutesIntoDay(ev.End, loc)
	}

	height := endMin - startMin
	if height < minMinutes {
		height = minMinutes
	}
	if startMin+height > MinutesPerDay {
		height = MinutesPerDay - startMin
	}

	box.TopFraction = float64(startMin) / MinutesPerDay
	box.HeightFraction = float64(height) / MinutesPerDay
	return box
}

// minutesIntoDay converts an instant to civil minutes after midnight
// on its own civil day in loc. Seconds are truncated; the sheet's
// resolution is the minute.
func minutesIntoDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

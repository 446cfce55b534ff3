// Package view assembles day sheets from live store state: one-off
// events plus expanded recurring occurrences, laid out for a display
// timezone.
package view

import (
	"time"

	appLog "github.com/SturdyFool10/CoreCalendar/internal/log"
	"github.com/SturdyFool10/CoreCalendar/internal/layout"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
	"github.com/SturdyFool10/CoreCalendar/internal/recur"
	"github.com/SturdyFool10/CoreCalendar/internal/store"
)

// Planner turns store state into day sheets. It holds no state of its
// own beyond configuration; every sheet is computed fresh from the
// store so a pass can run at any frequency.
type Planner struct {
	store           *store.Store
	minEventMinutes int
}

func NewPlanner(s *store.Store, minEventMinutes int) *Planner {
	return &Planner{store: s, minEventMinutes: minEventMinutes}
}

// DaySheet computes the sheet for one civil day in loc, with past
// styling relative to now. The caller samples now once per pass.
func (p *Planner) DaySheet(day model.Date, loc *time.Location, now time.Time) layout.Sheet {
	if loc == nil {
		loc = time.UTC
	}
	windowStart, windowEnd := layout.Window(day, loc)

	events := p.store.ListEvents()
	expanded, err := recur.Expand(p.store.ListRecurring(), recur.Config{
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	})
	if err != nil {
		appLog.Error("view: recurrence expansion failed, using one-off events only", err, "day", day.String())
	} else {
		events = append(events, expanded.Events...)
	}

	sheet := layout.BuildDaySheet(events, layout.Config{
		Day:             day,
		Location:        loc,
		Now:             now,
		Palette:         p.store,
		MinEventMinutes: p.minEventMinutes,
	})
	if sheet.Skipped > 0 {
		appLog.Debug("view: events skipped during layout", "day", day.String(), "skipped", sheet.Skipped)
	}
	return sheet
}

// LocationOrUTC resolves a timezone name, falling back to UTC when the
// name is empty or unknown. The fallback is logged, never fatal.
func LocationOrUTC(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("view: unknown timezone, falling back to UTC", err, "tz", name)
		return time.UTC
	}
	return loc
}

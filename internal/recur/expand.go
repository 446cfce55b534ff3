// Package recur expands recurring definitions into concrete events for
// a bounded time window. Occurrences keep absolute instants; civil
// interpretation stays a render-time concern.
package recur

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "github.com/SturdyFool10/CoreCalendar/internal/log"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
)

const defaultMaxPerDefinition = 1000

// Config controls one expansion pass.
type Config struct {
	// WindowStart / WindowEnd bound the half-open interval occurrences
	// must intersect. An occurrence starting before WindowStart still
	// counts when it runs into the window.
	WindowStart time.Time
	WindowEnd   time.Time

	// MaxPerDefinition caps occurrences per definition so an unbounded
	// series cannot blow up a pass. If zero, defaultMaxPerDefinition
	// is used.
	MaxPerDefinition int
}

// Result wraps the expanded events and which definitions hit the cap.
type Result struct {
	Events []model.Event

	// Truncated records definition IDs that hit MaxPerDefinition.
	Truncated []string
}

// Expand turns recurring definitions into concrete events within the
// window. A definition that cannot be expanded (unknown frequency,
// inverted interval) is skipped with a log line; one bad definition
// never aborts the pass.
//
// Occurrence IDs are derived from the definition ID plus the
// occurrence start, so they are stable across passes and distinct
// across the series.
func Expand(defs []model.RecurringEvent, cfg Config) (Result, error) {
	var result Result

	if cfg.WindowEnd.Before(cfg.WindowStart) {
		return result, errors.New("expand: WindowEnd is before WindowStart")
	}
	if cfg.MaxPerDefinition <= 0 {
		cfg.MaxPerDefinition = defaultMaxPerDefinition
	}

	result.Events = make([]model.Event, 0)

	for _, def := range defs {
		events, hitCap, err := expandDefinition(def, cfg)
		if err != nil {
			appLog.Error("expand: skipping definition", err, "id", def.ID, "title", def.Title)
			continue
		}
		if hitCap {
			result.Truncated = append(result.Truncated, def.ID)
			appLog.Error("expand: truncated occurrences for definition",
				errors.New("max occurrences reached"),
				"id", def.ID,
				"cap", cfg.MaxPerDefinition,
			)
		}
		result.Events = append(result.Events, events...)
	}

	return result, nil
}

func expandDefinition(def model.RecurringEvent, cfg Config) ([]model.Event, bool, error) {
	freq, err := rruleFreq(def.Freq)
	if err != nil {
		return nil, false, err
	}
	dur := def.Duration()
	if dur < 0 {
		return nil, false, errors.New("definition end precedes start")
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: def.Interval,
		Count:    def.Count,
		Until:    def.Until,
		Dtstart:  def.Start,
	})
	if err != nil {
		return nil, false, err
	}

	// Pad the query backwards by one occurrence duration so a series
	// member that starts before the window but runs into it is found.
	starts := r.Between(cfg.WindowStart.Add(-dur), cfg.WindowEnd, true)

	hitCap := false
	if len(starts) > cfg.MaxPerDefinition {
		starts = starts[:cfg.MaxPerDefinition]
		hitCap = true
	}

	out := make([]model.Event, 0, len(starts))
	for _, start := range starts {
		end := start.Add(dur)
		if def.AllDay {
			start, end = allDaySpan(start, dur)
		}
		// Half-open window intersect, same rule the day filter uses.
		if !start.Before(cfg.WindowEnd) || !end.After(cfg.WindowStart) {
			continue
		}
		out = append(out, model.Event{
			ID:          occurrenceID(def.ID, start),
			CalendarID:  def.CalendarID,
			Title:       def.Title,
			Description: def.Description,
			AllDay:      def.AllDay,
			Start:       start,
			End:         end,
		})
	}

	return out, hitCap, nil
}

// allDaySpan pins an all-day occurrence to civil midnight in the
// occurrence's own timezone, spanning at least one full day.
func allDaySpan(start time.Time, dur time.Duration) (time.Time, time.Time) {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if dur < 24*time.Hour {
		dur = 24 * time.Hour
	}
	return day, day.Add(dur)
}

func occurrenceID(defID string, start time.Time) string {
	return defID + "@" + start.UTC().Format(time.RFC3339)
}

func rruleFreq(f model.Freq) (rrule.Frequency, error) {
	switch f {
	case model.FreqDaily:
		return rrule.DAILY, nil
	case model.FreqWeekly:
		return rrule.WEEKLY, nil
	case model.FreqMonthly:
		return rrule.MONTHLY, nil
	case model.FreqYearly:
		return rrule.YEARLY, nil
	}
	return 0, errors.New("unknown recurrence frequency " + string(f))
}

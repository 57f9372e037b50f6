// Package filter describes which slice of a log store a query covers.
//
// A Scope is a declarative filter description (a calendar date, a date range,
// an hour-of-day window, or a rolling preset). Resolve turns a Scope into a
// concrete Window of instants, validating the description along the way.
package filter

import (
	"fmt"
	"time"

	"github.com/logsift/logsift/pkg/errors"
)

// Window is a concrete [Start, End) instant range. A zero End means the
// window is open-ended ([Start, ∞)).
type Window struct {
	Start time.Time
	End   time.Time
}

// Open reports whether the window has no upper bound.
func (w Window) Open() bool {
	return w.End.IsZero()
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return w.Open() || t.Before(w.End)
}

// Scope is a tagged description of a query's time bounds. Exactly one
// variant is active at a time; use a type switch or Resolve to consume it.
type Scope interface {
	isScope()
}

// SpecificDate selects a single calendar day.
type SpecificDate struct {
	Date time.Time
}

// DateRange selects the days From through To, inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// HourRange selects [StartHour:00, EndHour:00) on a single day.
// StartHour is in [0,23], EndHour in [1,24]; EndHour == 24 denotes midnight
// of the following day.
type HourRange struct {
	Date      time.Time
	StartHour int
	EndHour   int
}

// Preset selects a rolling window ending at the time of resolution.
type Preset struct {
	ID PresetID
}

func (SpecificDate) isScope() {}
func (DateRange) isScope()    {}
func (HourRange) isScope()    {}
func (Preset) isScope()       {}

// Resolve maps a scope to a concrete window using the given location's
// calendar rules. Preset scopes are resolved relative to now, so resolving
// the same preset later yields a shifted window.
func Resolve(s Scope, now time.Time, loc *time.Location) (Window, error) {
	switch sc := s.(type) {
	case SpecificDate:
		start := startOfDay(sc.Date, loc)
		return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil

	case DateRange:
		from := startOfDay(sc.From, loc)
		to := startOfDay(sc.To, loc)
		if from.After(to) {
			return Window{}, errors.ResolutionError(
				"date range is inverted: 'from' is after 'to'",
				map[string]interface{}{
					"from": from.Format(time.DateOnly),
					"to":   to.Format(time.DateOnly),
				})
		}
		return Window{Start: from, End: to.AddDate(0, 0, 1)}, nil

	case HourRange:
		if sc.StartHour < 0 || sc.StartHour > 23 {
			return Window{}, errors.ResolutionError(
				fmt.Sprintf("start hour %d is outside [0,23]", sc.StartHour), nil)
		}
		if sc.EndHour < 1 || sc.EndHour > 24 {
			return Window{}, errors.ResolutionError(
				fmt.Sprintf("end hour %d is outside [1,24]", sc.EndHour), nil)
		}
		if sc.StartHour >= sc.EndHour {
			return Window{}, errors.ResolutionError(
				"hour range is empty or inverted: start hour must be before end hour",
				map[string]interface{}{
					"start_hour": sc.StartHour,
					"end_hour":   sc.EndHour,
				})
		}
		day := startOfDay(sc.Date, loc)
		start := day.Add(time.Duration(sc.StartHour) * time.Hour)
		var end time.Time
		if sc.EndHour == 24 {
			// Midnight of the following day.
			end = day.AddDate(0, 0, 1)
		} else {
			end = day.Add(time.Duration(sc.EndHour) * time.Hour)
		}
		return Window{Start: start, End: end}, nil

	case Preset:
		d, err := sc.ID.Duration()
		if err != nil {
			return Window{}, err
		}
		return Window{Start: now.Add(-d), End: now}, nil

	default:
		return Window{}, errors.ResolutionError(
			fmt.Sprintf("unknown scope type %T", s), nil)
	}
}

// startOfDay returns midnight of t's calendar day in the given location.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

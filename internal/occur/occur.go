// Package occur decides whether a calendar event falls on a given calendar
// day. All comparisons are half-open so that an event ending exactly at
// midnight is never counted on the following day.
package occur

import (
	"time"

	"plancal/internal/model"
)

// OnDay reports whether ev occurs on the calendar day containing day
// (interpreted in loc; day's own clock time is ignored). Events whose start
// cannot be resolved never occur.
func OnDay(ev model.CalendarEvent, day time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	if ev.IsAllDay {
		startKey, ok := ev.Start.ResolveDate(loc)
		if !ok {
			return false
		}
		endKey, ok := ev.End.ResolveDate(loc)
		if !ok || !endKey.After(startKey) {
			endKey = startKey.AddDate(0, 0, 1)
		}
		// [startKey, endKey) against the day key.
		return !dayStart.Before(startKey) && dayStart.Before(endKey)
	}

	start, ok := ev.Start.Resolve(loc)
	if !ok {
		return false
	}
	end, ok := ev.End.Resolve(loc)
	if !ok || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return start.Before(dayEnd) && end.After(dayStart)
}

// Span resolves an event's concrete start and end within loc, applying the
// same defaulting as OnDay (missing or inverted end becomes start + one
// day). The boolean is false when the start cannot be resolved.
func Span(ev model.CalendarEvent, loc *time.Location) (start, end time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	start, ok = ev.Start.Resolve(loc)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = ev.End.Resolve(loc)
	if !ok || !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return start, end, true
}

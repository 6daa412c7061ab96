package recur

import (
	"fmt"
	"time"

	"plancal/internal/model"
)

// maxSteps caps the expansion loop so that malformed rules or degenerate
// ranges can never spin; one step per candidate occurrence slot.
const maxSteps = 365

const (
	instanceDateLayout = "2006-01-02"
	localTimeLayout    = "2006-01-02T15:04:05"
)

// Expand materializes a recurring event's occurrences inside the inclusive
// range [rangeStart, rangeEnd]. It is total: events without a supported
// rule, or with an unresolvable start, expand to nothing.
//
// Each occurrence keeps the seed's time-of-day and duration, derives the id
// "<parentID>-instance-<date>", and points RecurringEventID at the seed.
func Expand(ev model.CalendarEvent, rangeStart, rangeEnd time.Time, loc *time.Location) []model.CalendarEvent {
	rule := ParseFirst(ev.Recurrence)
	if !rule.Supported() || rangeEnd.Before(rangeStart) {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}

	seedStart, ok := ev.Start.Resolve(loc)
	if !ok {
		return nil
	}
	dur := 24 * time.Hour
	if seedEnd, ok := ev.End.Resolve(loc); ok && seedEnd.After(seedStart) {
		dur = seedEnd.Sub(seedStart)
	}

	var out []model.CalendarEvent
	for step, cur := 0, seedStart; step < maxSteps; step++ {
		if cur.After(rangeEnd) {
			break
		}
		if !cur.Before(rangeStart) && matchesPattern(rule, cur, seedStart) {
			out = append(out, makeOccurrence(ev, cur, dur))
		}
		next, ok := advance(rule, cur, seedStart, step+1)
		if !ok {
			break
		}
		cur = next
	}
	return out
}

// matchesPattern tests a candidate instant against the rule's shape.
// MONTHLY and YEARLY pin the seed's day-of-month (and month); candidates
// normalized into a different day by a short month do not match.
func matchesPattern(rule Rule, cur, seed time.Time) bool {
	switch rule.Freq {
	case FreqWeekly:
		if rule.ByDay == nil {
			return true
		}
		return rule.ByDay[cur.Weekday()]
	case FreqMonthly:
		return cur.Day() == seed.Day()
	case FreqYearly:
		return cur.Day() == seed.Day() && cur.Month() == seed.Month()
	default:
		return true
	}
}

// advance produces the next candidate. MONTHLY/YEARLY candidates are
// re-derived from the seed with a step counter so that a short month never
// shifts subsequent occurrences off the seed's day-of-month.
func advance(rule Rule, cur, seed time.Time, step int) (time.Time, bool) {
	switch rule.Freq {
	case FreqDaily:
		return cur.AddDate(0, 0, 1), true
	case FreqWeekly:
		if rule.ByDay == nil {
			return cur.AddDate(0, 0, 7), true
		}
		for i := 1; i <= 7; i++ {
			next := cur.AddDate(0, 0, i)
			if rule.ByDay[next.Weekday()] {
				return next, true
			}
		}
		return time.Time{}, false
	case FreqMonthly:
		return time.Date(seed.Year(), seed.Month()+time.Month(step), seed.Day(),
			seed.Hour(), seed.Minute(), seed.Second(), 0, seed.Location()), true
	case FreqYearly:
		return time.Date(seed.Year()+step, seed.Month(), seed.Day(),
			seed.Hour(), seed.Minute(), seed.Second(), 0, seed.Location()), true
	default:
		return time.Time{}, false
	}
}

func makeOccurrence(parent model.CalendarEvent, start time.Time, dur time.Duration) model.CalendarEvent {
	occ := parent
	occ.ID = fmt.Sprintf("%s-instance-%s", parent.ID, start.Format(instanceDateLayout))
	occ.RecurringEventID = parent.ID
	occ.Recurrence = nil

	end := start.Add(dur)
	if parent.IsAllDay {
		occ.Start = model.EventDateTime{Date: start.Format(instanceDateLayout)}
		occ.End = model.EventDateTime{Date: end.Format(instanceDateLayout)}
	} else {
		occ.Start = model.EventDateTime{DateTime: start.Format(localTimeLayout), TimeZone: parent.Start.TimeZone}
		occ.End = model.EventDateTime{DateTime: end.Format(localTimeLayout), TimeZone: parent.Start.TimeZone}
	}
	return occ
}

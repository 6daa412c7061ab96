package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"plancal/internal/model"
	"plancal/internal/occur"
)

const prodID = "-//plancal//scheduling engine//EN"

// Export serializes planner occurrences as an ICS calendar so the user's
// other calendar clients can subscribe to the plan. Events whose start
// cannot be resolved are skipped.
func Export(events []model.CalendarEvent, loc *time.Location) []byte {
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().In(loc)
	for _, ev := range events {
		start, end, ok := occur.Span(ev, loc)
		if !ok {
			continue
		}

		ve := cal.AddEvent(ev.ID)
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Summary)
		if ev.IsAllDay {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(end)
		} else {
			ve.SetStartAt(start)
			ve.SetEndAt(end)
		}
	}

	return []byte(cal.Serialize())
}

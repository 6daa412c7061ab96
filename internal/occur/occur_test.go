package occur

import (
	"testing"
	"time"

	"plancal/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestOnDay_AllDay(t *testing.T) {
	ev := model.CalendarEvent{
		ID:       "trip",
		IsAllDay: true,
		Start:    model.EventDateTime{Date: "2025-01-10"},
		End:      model.EventDateTime{Date: "2025-01-12"},
	}

	cases := []struct {
		date string
		d    time.Time
		want bool
	}{
		{"day before", day(2025, time.January, 9), false},
		{"first day", day(2025, time.January, 10), true},
		{"middle day", day(2025, time.January, 11), true},
		{"end date is exclusive", day(2025, time.January, 12), false},
	}
	for _, c := range cases {
		t.Run(c.date, func(t *testing.T) {
			if got := OnDay(ev, c.d, time.Local); got != c.want {
				t.Errorf("OnDay(%v) = %v, want %v", c.d, got, c.want)
			}
		})
	}
}

func TestOnDay_AllDayMissingEnd(t *testing.T) {
	ev := model.CalendarEvent{
		IsAllDay: true,
		Start:    model.EventDateTime{Date: "2025-01-10"},
	}
	if !OnDay(ev, day(2025, time.January, 10), time.Local) {
		t.Error("single-date all-day event should occur on its date")
	}
	if OnDay(ev, day(2025, time.January, 11), time.Local) {
		t.Error("single-date all-day event should not spill onto the next day")
	}
}

func TestOnDay_Timed(t *testing.T) {
	ev := model.CalendarEvent{
		Start: model.EventDateTime{DateTime: "2025-01-10T22:00:00"},
		End:   model.EventDateTime{DateTime: "2025-01-11T00:00:00"},
	}

	if !OnDay(ev, day(2025, time.January, 10), time.Local) {
		t.Error("event should occur on its own evening")
	}
	// Ends exactly at midnight: half-open overlap keeps it off the 11th.
	if OnDay(ev, day(2025, time.January, 11), time.Local) {
		t.Error("event ending at midnight must not be double-counted on the next day")
	}
}

func TestOnDay_TimedCrossingMidnight(t *testing.T) {
	ev := model.CalendarEvent{
		Start: model.EventDateTime{DateTime: "2025-01-10T23:00:00"},
		End:   model.EventDateTime{DateTime: "2025-01-11T01:00:00"},
	}
	if !OnDay(ev, day(2025, time.January, 10), time.Local) || !OnDay(ev, day(2025, time.January, 11), time.Local) {
		t.Error("event crossing midnight should occur on both days")
	}
	if OnDay(ev, day(2025, time.January, 12), time.Local) {
		t.Error("event should not occur two days later")
	}
}

func TestOnDay_Degenerate(t *testing.T) {
	t.Run("unparseable start never occurs", func(t *testing.T) {
		ev := model.CalendarEvent{Start: model.EventDateTime{DateTime: "soon"}}
		if OnDay(ev, day(2025, time.January, 10), time.Local) {
			t.Error("unparseable event should not occur")
		}
	})

	t.Run("missing end defaults to one day", func(t *testing.T) {
		ev := model.CalendarEvent{Start: model.EventDateTime{DateTime: "2025-01-10T09:00:00"}}
		if !OnDay(ev, day(2025, time.January, 10), time.Local) {
			t.Error("event should occur on its start day")
		}
		if !OnDay(ev, day(2025, time.January, 11), time.Local) {
			t.Error("defaulted end (start+1d) reaches into the next day")
		}
		if OnDay(ev, day(2025, time.January, 12), time.Local) {
			t.Error("defaulted end should not reach two days out")
		}
	})
}

func TestSpan(t *testing.T) {
	ev := model.CalendarEvent{
		Start: model.EventDateTime{DateTime: "2025-01-10T09:00:00"},
		End:   model.EventDateTime{DateTime: "2025-01-10T10:00:00"},
	}
	start, end, ok := Span(ev, time.Local)
	if !ok {
		t.Fatal("expected resolvable span")
	}
	if end.Sub(start) != time.Hour {
		t.Errorf("span length = %v, want 1h", end.Sub(start))
	}

	if _, _, ok := Span(model.CalendarEvent{}, time.Local); ok {
		t.Error("empty event should have no span")
	}
}

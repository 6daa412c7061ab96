package recur

import (
	"testing"
	"time"

	"plancal/internal/model"
)

func TestParse(t *testing.T) {
	t.Run("full weekly rule", func(t *testing.T) {
		r := Parse("RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR")
		if r.Freq != FreqWeekly {
			t.Fatalf("Freq = %v, want FreqWeekly", r.Freq)
		}
		for _, wd := range []time.Weekday{time.Monday, time.Wednesday, time.Friday} {
			if !r.ByDay[wd] {
				t.Errorf("ByDay missing %v", wd)
			}
		}
		if len(r.ByDay) != 3 {
			t.Errorf("ByDay has %d entries, want 3", len(r.ByDay))
		}
	})

	t.Run("prefix optional", func(t *testing.T) {
		if r := Parse("FREQ=DAILY"); r.Freq != FreqDaily {
			t.Errorf("Freq = %v, want FreqDaily", r.Freq)
		}
	})

	t.Run("unknown freq is unsupported", func(t *testing.T) {
		if r := Parse("RRULE:FREQ=HOURLY"); r.Supported() {
			t.Error("HOURLY should not be supported")
		}
		if r := Parse("BYDAY=MO"); r.Supported() {
			t.Error("rule without FREQ should not be supported")
		}
		if r := Parse("garbage"); r.Supported() {
			t.Error("garbage should not be supported")
		}
	})

	t.Run("unknown BYDAY tokens are skipped", func(t *testing.T) {
		r := Parse("FREQ=WEEKLY;BYDAY=MO,XX,FR")
		if len(r.ByDay) != 2 {
			t.Errorf("ByDay has %d entries, want 2", len(r.ByDay))
		}
	})
}

func seedEvent(rrule string) model.CalendarEvent {
	return model.CalendarEvent{
		ID:      "ev1",
		Summary: "Study session",
		// 2025-01-06 is a Monday.
		Start:      model.EventDateTime{DateTime: "2025-01-06T09:00:00"},
		End:        model.EventDateTime{DateTime: "2025-01-06T10:30:00"},
		Recurrence: []string{rrule},
		EventType:  model.EventTask,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestExpand_WeeklyByDay(t *testing.T) {
	ev := seedEvent("RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR")
	start := day(2025, time.January, 6)
	end := day(2025, time.January, 19).Add(24*time.Hour - time.Second)

	occs := Expand(ev, start, end, time.Local)
	if len(occs) != 6 {
		t.Fatalf("expected 6 occurrences over 14 days, got %d", len(occs))
	}

	wantDates := []string{"2025-01-06", "2025-01-08", "2025-01-10", "2025-01-13", "2025-01-15", "2025-01-17"}
	for i, occ := range occs {
		wantID := "ev1-instance-" + wantDates[i]
		if occ.ID != wantID {
			t.Errorf("occ[%d].ID = %q, want %q", i, occ.ID, wantID)
		}
		if occ.RecurringEventID != "ev1" {
			t.Errorf("occ[%d].RecurringEventID = %q, want ev1", i, occ.RecurringEventID)
		}
		if occ.Start.DateTime != wantDates[i]+"T09:00:00" {
			t.Errorf("occ[%d] start = %q, time-of-day not preserved", i, occ.Start.DateTime)
		}
		if occ.End.DateTime != wantDates[i]+"T10:30:00" {
			t.Errorf("occ[%d] end = %q, duration not preserved", i, occ.End.DateTime)
		}
	}
}

func TestExpand_Daily(t *testing.T) {
	ev := seedEvent("FREQ=DAILY")
	occs := Expand(ev, day(2025, time.January, 6), day(2025, time.January, 10).Add(23*time.Hour), time.Local)
	if len(occs) != 5 {
		t.Fatalf("expected 5 daily occurrences, got %d", len(occs))
	}
}

func TestExpand_WeeklyWithoutByDay(t *testing.T) {
	ev := seedEvent("FREQ=WEEKLY")
	occs := Expand(ev, day(2025, time.January, 6), day(2025, time.February, 2), time.Local)
	if len(occs) != 4 {
		t.Fatalf("expected 4 weekly occurrences, got %d", len(occs))
	}
}

func TestExpand_MonthlyDay31(t *testing.T) {
	// Day 31 in months that lack it is skipped outright, not rolled into the
	// next month. This test pins that choice.
	ev := model.CalendarEvent{
		ID:         "pay",
		Start:      model.EventDateTime{DateTime: "2025-01-31T08:00:00"},
		End:        model.EventDateTime{DateTime: "2025-01-31T08:30:00"},
		Recurrence: []string{"RRULE:FREQ=MONTHLY"},
	}
	occs := Expand(ev, day(2025, time.January, 1), day(2025, time.June, 30).Add(23*time.Hour), time.Local)

	wantDates := []string{"2025-01-31", "2025-03-31", "2025-05-31"}
	if len(occs) != len(wantDates) {
		t.Fatalf("expected %d occurrences, got %d", len(wantDates), len(occs))
	}
	for i, occ := range occs {
		if occ.Start.DateTime != wantDates[i]+"T08:00:00" {
			t.Errorf("occ[%d] start = %q, want %s", i, occ.Start.DateTime, wantDates[i])
		}
	}
}

func TestExpand_Yearly(t *testing.T) {
	ev := model.CalendarEvent{
		ID:         "bday",
		IsAllDay:   true,
		Start:      model.EventDateTime{Date: "2024-03-15"},
		End:        model.EventDateTime{Date: "2024-03-16"},
		Recurrence: []string{"FREQ=YEARLY"},
	}
	occs := Expand(ev, day(2024, time.January, 1), day(2026, time.December, 31), time.Local)
	if len(occs) != 3 {
		t.Fatalf("expected 3 yearly occurrences, got %d", len(occs))
	}
	if occs[1].Start.Date != "2025-03-15" || occs[1].End.Date != "2025-03-16" {
		t.Errorf("occ[1] = %v..%v, want 2025-03-15..2025-03-16", occs[1].Start.Date, occs[1].End.Date)
	}
}

func TestExpand_Degenerate(t *testing.T) {
	t.Run("unsupported rule expands to nothing", func(t *testing.T) {
		ev := seedEvent("RRULE:FREQ=HOURLY")
		if occs := Expand(ev, day(2025, time.January, 1), day(2025, time.December, 31), time.Local); occs != nil {
			t.Errorf("expected nil, got %d occurrences", len(occs))
		}
	})

	t.Run("unresolvable start expands to nothing", func(t *testing.T) {
		ev := seedEvent("FREQ=DAILY")
		ev.Start = model.EventDateTime{DateTime: "not-a-time"}
		if occs := Expand(ev, day(2025, time.January, 1), day(2025, time.December, 31), time.Local); occs != nil {
			t.Errorf("expected nil, got %d occurrences", len(occs))
		}
	})

	t.Run("inverted range expands to nothing", func(t *testing.T) {
		ev := seedEvent("FREQ=DAILY")
		if occs := Expand(ev, day(2025, time.February, 1), day(2025, time.January, 1), time.Local); occs != nil {
			t.Errorf("expected nil, got %d occurrences", len(occs))
		}
	})

	t.Run("daily expansion is capped", func(t *testing.T) {
		ev := seedEvent("FREQ=DAILY")
		occs := Expand(ev, day(2025, time.January, 6), day(2030, time.January, 1), time.Local)
		if len(occs) != maxSteps {
			t.Errorf("expected expansion capped at %d, got %d", maxSteps, len(occs))
		}
	})
}

package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	appLog "plancal/internal/log"
	"plancal/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig controls how feed recurrence expansion is performed.
//
// Imported feeds carry the full RRULE grammar (intervals, counts, until
// dates, ...), so expansion here goes through a complete RRULE
// implementation rather than the planner's bounded rule subset.
type ExpandConfig struct {
	// DisplayLocation is the timezone all occurrences are converted into.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd define the inclusive occurrence window.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps expansion per event. Zero means the
	// default cap.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the expanded occurrences plus truncation info.
type ExpandResult struct {
	Occurrences []model.CalendarEvent
	// TruncatedUIDs records UIDs that hit the per-event cap.
	TruncatedUIDs []string
}

// Expand turns parsed feed events into concrete planner events of type
// EventImported within the configured range. Recurring events go through
// RRULE expansion with EXDATE removal and RECURRENCE-ID overrides applied.
func Expand(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	// Group base events and overrides by UID.
	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
		}
	}

	out := make([]model.CalendarEvent, 0)
	for uid, baseEvents := range baseByUID {
		ov := overridesByUID[uid]
		truncated := false

		for _, ev := range baseEvents {
			occ, hitCap := expandEvent(ev, ov, cfg)
			if hitCap {
				truncated = true
			}
			out = append(out, occ...)
		}

		if truncated {
			result.TruncatedUIDs = append(result.TruncatedUIDs, uid)
			appLog.Warn("expand: truncated occurrences for UID",
				"uid", uid, "cap", cfg.MaxOccurrencesPerEvent)
		}
	}

	result.Occurrences = out
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.CalendarEvent, bool) {
	if ev.RawRRule == "" {
		return expandSingleEvent(ev, overrides, cfg), false
	}
	return expandRecurringEvent(ev, overrides, cfg)
}

func expandSingleEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) []model.CalendarEvent {
	if !timeRangesOverlap(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
		return nil
	}

	baseStart, baseEnd := ev.Start, ev.End
	if o, ok := findOverrideForStart(overrides, baseStart); ok {
		baseStart, baseEnd = o.Start, o.End
		ev = o
	}
	return []model.CalendarEvent{makeImported(ev, baseStart, baseEnd, cfg.DisplayLocation)}
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.CalendarEvent, bool) {
	out := make([]model.CalendarEvent, 0)

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Warn("expand: failed to parse feed RRULE", "uid", ev.UID, "rrule", ev.RawRRule, "reason", err.Error())
		return out, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())
	occTimes := set.Between(rangeStart, rangeEnd, true)

	hitCap := false
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	dur := ev.End.Sub(ev.Start)
	for _, occStart := range occTimes {
		var occEnd time.Time
		if ev.AllDay {
			occStart = time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
			occEnd = occStart.Add(24 * time.Hour)
		} else {
			occEnd = occStart.Add(dur)
		}

		baseEv, baseStart, baseEnd := ev, occStart, occEnd
		if o, ok := findOverrideForStart(overrides, occStart); ok {
			baseEv, baseStart, baseEnd = o, o.Start, o.End
		}
		out = append(out, makeImported(baseEv, baseStart, baseEnd, cfg.DisplayLocation))
	}

	return out, hitCap
}

// findOverrideForStart finds an override event whose RECURRENCE-ID matches
// the given instance start with exact time equality.
func findOverrideForStart(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if ov.Recurrence.In(start.Location()).Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// makeImported converts a (possibly overridden) ParsedEvent plus concrete
// start/end into a planner CalendarEvent in the display timezone. The
// instance id follows the planner's derived-id convention so imported and
// planner occurrences key identically in day layout.
func makeImported(ev ParsedEvent, start, end time.Time, loc *time.Location) model.CalendarEvent {
	startLocal := start.In(loc)
	endLocal := end.In(loc)

	out := model.CalendarEvent{
		ID:        ev.UID + "-instance-" + startLocal.Format("2006-01-02"),
		Summary:   ev.Summary,
		IsAllDay:  ev.AllDay,
		EventType: model.EventImported,
	}
	if ev.RawRRule != "" {
		out.RecurringEventID = ev.UID
	} else {
		out.ID = ev.UID
	}

	if ev.AllDay {
		out.Start = model.EventDateTime{Date: startLocal.Format("2006-01-02")}
		out.End = model.EventDateTime{Date: endLocal.Format("2006-01-02")}
	} else {
		out.Start = model.EventDateTime{DateTime: startLocal.Format("2006-01-02T15:04:05"), TimeZone: loc.String()}
		out.End = model.EventDateTime{DateTime: endLocal.Format("2006-01-02T15:04:05"), TimeZone: loc.String()}
	}
	return out
}

func timeRangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}

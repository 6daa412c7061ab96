package model

import "time"

// dateLayout is the date-only wire form, e.g. "2025-01-10".
const dateLayout = "2006-01-02"

// dateTimeLayouts are the accepted local ISO date-time forms, tried in
// order. Offsets, when present, are honored; otherwise the value is read
// in the supplied location.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseClock parses an "HH:MM" 24-hour clock string into minutes since
// midnight. The boolean is false for anything outside that grammar; no
// value is ever guessed.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, ok := atoi2(s[0], s[1])
	if !ok || h > 23 {
		return 0, false
	}
	m, ok := atoi2(s[3], s[4])
	if !ok || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func atoi2(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// ParseDate parses a "YYYY-MM-DD" string as a local calendar date in loc.
// Date-only values must never pass through a UTC-shifting constructor;
// doing so moves the date by a day for users west of Greenwich.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resolve returns the concrete instant this EventDateTime describes. A
// DateTime value wins over a Date value; a Date resolves to local midnight.
// The boolean is false when neither field parses.
func (e EventDateTime) Resolve(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if e.TimeZone != "" {
		if l, err := time.LoadLocation(e.TimeZone); err == nil {
			loc = l
		}
	}
	if e.DateTime != "" {
		for _, layout := range dateTimeLayouts {
			if t, err := time.ParseInLocation(layout, e.DateTime, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	if e.Date != "" {
		return ParseDate(e.Date, loc)
	}
	return time.Time{}, false
}

// ResolveDate returns the calendar date (local midnight) this EventDateTime
// falls on, regardless of whether it carries a time component.
func (e EventDateTime) ResolveDate(loc *time.Location) (time.Time, bool) {
	t, ok := e.Resolve(loc)
	if !ok {
		return time.Time{}, false
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), true
}

// IsZero reports whether neither field is set.
func (e EventDateTime) IsZero() bool {
	return e.DateTime == "" && e.Date == ""
}

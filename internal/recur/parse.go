// Package recur implements the planner's bounded recurrence grammar:
//
//	["RRULE:"]FREQ=<DAILY|WEEKLY|MONTHLY|YEARLY>[;BYDAY=<MO,TU,WE,TH,FR,SA,SU,...>]
//
// Anything outside this grammar parses to a rule with FreqNone, which
// expands to zero occurrences. Imported calendar feeds with richer rules go
// through internal/ics instead, which uses a full RRULE implementation.
package recur

import (
	"strings"
	"time"
)

// Freq is the recurrence frequency.
type Freq int

const (
	FreqNone Freq = iota
	FreqDaily
	FreqWeekly
	FreqMonthly
	FreqYearly
)

// Rule is a parsed recurrence rule.
type Rule struct {
	Freq  Freq
	ByDay map[time.Weekday]bool // nil when BYDAY is absent
}

// Supported reports whether the rule will produce occurrences.
func (r Rule) Supported() bool {
	return r.Freq != FreqNone
}

var freqNames = map[string]Freq{
	"DAILY":   FreqDaily,
	"WEEKLY":  FreqWeekly,
	"MONTHLY": FreqMonthly,
	"YEARLY":  FreqYearly,
}

var byDayNames = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// Parse reads a rule string. It never fails: malformed or unsupported input
// yields a rule with FreqNone.
func Parse(raw string) Rule {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "RRULE:")

	var rule Rule
	for _, part := range strings.Split(s, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "FREQ":
			rule.Freq = freqNames[strings.ToUpper(strings.TrimSpace(val))]
		case "BYDAY":
			for _, name := range strings.Split(val, ",") {
				wd, ok := byDayNames[strings.ToUpper(strings.TrimSpace(name))]
				if !ok {
					continue
				}
				if rule.ByDay == nil {
					rule.ByDay = make(map[time.Weekday]bool)
				}
				rule.ByDay[wd] = true
			}
		}
	}
	return rule
}

// ParseFirst parses the first supported rule from an event's recurrence
// string list. Events commonly carry a single RRULE line.
func ParseFirst(lines []string) Rule {
	for _, line := range lines {
		if r := Parse(line); r.Supported() {
			return r
		}
	}
	return Rule{}
}

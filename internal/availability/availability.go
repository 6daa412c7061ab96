// Package availability computes how much free time a user actually has per
// week, net of sleep and their recurring work/blocked-time blocks, with
// support for A/B rotating week patterns.
package availability

import (
	"plancal/internal/interval"
	"plancal/internal/model"
)

const (
	minutesPerDay  = 1440
	daysPerWeek    = 7
	defaultWakeMin = 7 * 60  // 07:00 fallback when SleepEnd does not parse
	defaultBedMin  = 23 * 60 // 23:00 fallback when SleepStart does not parse
)

// Weekly is the weekly free-minutes figure per rotation pattern.
// When UsesPatterns is false, WeekAMinutes and WeekBMinutes equal
// DefaultMinutes.
type Weekly struct {
	DefaultMinutes int  `json:"default_minutes"`
	WeekAMinutes   int  `json:"week_a_minutes"`
	WeekBMinutes   int  `json:"week_b_minutes"`
	UsesPatterns   bool `json:"uses_patterns"`
}

// ComputeWeekly turns the user's constraints into weekly available minutes
// for the default week and for each rotation pattern.
//
// The awake window per day is [wake, bed); a sleep start at or before the
// wake minute is read as crossing midnight. Blocks are clipped to the awake
// window, merged to avoid double-counting overlaps, and subtracted per day.
func ComputeWeekly(tc model.TimeConstraints) Weekly {
	wake, ok := model.ParseClock(tc.SleepEnd)
	if !ok {
		wake = defaultWakeMin
	}
	bed, ok := model.ParseClock(tc.SleepStart)
	if !ok {
		bed = defaultBedMin
	}
	if bed <= wake {
		bed += minutesPerDay
	}
	awake := bed - wake

	blocks := make([]model.TimeBlock, 0, len(tc.WorkBlocks)+len(tc.BlockedSlots))
	blocks = append(blocks, tc.WorkBlocks...)
	blocks = append(blocks, tc.BlockedSlots...)

	usesPatterns := false
	for _, b := range blocks {
		if b.Pattern == model.PatternA || b.Pattern == model.PatternB {
			usesPatterns = true
			break
		}
	}

	out := Weekly{
		UsesPatterns:   usesPatterns,
		DefaultMinutes: weekMinutes(blocks, model.PatternDefault, wake, bed, awake),
	}
	if usesPatterns {
		out.WeekAMinutes = weekMinutes(blocks, model.PatternA, wake, bed, awake)
		out.WeekBMinutes = weekMinutes(blocks, model.PatternB, wake, bed, awake)
	} else {
		out.WeekAMinutes = out.DefaultMinutes
		out.WeekBMinutes = out.DefaultMinutes
	}
	return out
}

// weekMinutes sums the per-weekday availability for one requested pattern.
func weekMinutes(blocks []model.TimeBlock, pattern model.WeekPattern, wake, bed, awake int) int {
	total := 0
	for day := 0; day < daysPerWeek; day++ {
		total += dayMinutes(blocks, pattern, day, wake, bed, awake)
	}
	return total
}

func dayMinutes(blocks []model.TimeBlock, pattern model.WeekPattern, day, wake, bed, awake int) int {
	var occupied []interval.Interval
	for _, b := range blocks {
		if !b.Pattern.Matches(pattern) || !appliesOnDay(b, day) {
			continue
		}
		iv, ok := blockInterval(b)
		if !ok {
			continue
		}
		if clipped, ok := interval.Clip(iv, wake, bed); ok {
			occupied = append(occupied, clipped)
		}
	}
	blocked := interval.TotalLen(interval.Merge(occupied))
	free := awake - blocked
	if free < 0 {
		free = 0
	}
	return free
}

func appliesOnDay(b model.TimeBlock, day int) bool {
	for _, d := range b.Days {
		if d == day {
			return true
		}
	}
	return false
}

// blockInterval parses a block's clock range. Blocks with unparseable times
// or end <= start contribute nothing.
func blockInterval(b model.TimeBlock) (interval.Interval, bool) {
	start, ok := model.ParseClock(b.Start)
	if !ok {
		return interval.Interval{}, false
	}
	end, ok := model.ParseClock(b.End)
	if !ok || end <= start {
		return interval.Interval{}, false
	}
	return interval.Interval{Start: start, End: end}, true
}

// Package capacity evaluates whether a goal plan's required weekly minutes
// fit the user's available time, and rebalances over-committed plans by
// reducing session frequency toward each goal's priority-weighted share.
package capacity

import (
	"math"

	"plancal/internal/availability"
	"plancal/internal/model"
)

// Status bands a plan's utilization of available time.
type Status string

const (
	StatusOver   Status = "over"   // ratio > 1
	StatusTight  Status = "tight"  // ratio >= 0.85
	StatusWithin Status = "within" // everything else
)

const tightThreshold = 0.85

// Report is the feasibility verdict for a goal plan.
type Report struct {
	CapacityMinutes  int     `json:"capacity_minutes"`
	RequiredMinutes  int     `json:"required_minutes"`
	OverCapacity     bool    `json:"over_capacity"`
	UtilizationRatio float64 `json:"utilization_ratio"` // +Inf when capacity is 0 and time is required
	Status           Status  `json:"status"`
}

// CapacityMinutes picks the weekly figure to plan against. With rotation
// patterns in play it takes the minimum of the non-zero week figures, so
// plans are sized for the tighter rotation week.
func CapacityMinutes(w availability.Weekly) int {
	if !w.UsesPatterns {
		return w.DefaultMinutes
	}
	minutes := 0
	for _, v := range []int{w.WeekAMinutes, w.WeekBMinutes, w.DefaultMinutes} {
		if v > 0 && (minutes == 0 || v < minutes) {
			minutes = v
		}
	}
	return minutes
}

// RequiredMinutes sums weekly session time across goals. Negative
// frequencies or durations count as zero.
func RequiredMinutes(goals []model.Goal) int {
	total := 0
	for _, g := range goals {
		total += max(0, g.Frequency) * max(0, g.Duration)
	}
	return total
}

// Evaluate produces the feasibility report for a plan against a weekly
// availability figure.
func Evaluate(goals []model.Goal, w availability.Weekly) Report {
	capMinutes := CapacityMinutes(w)
	req := RequiredMinutes(goals)

	ratio := 0.0
	switch {
	case capMinutes > 0:
		ratio = float64(req) / float64(capMinutes)
	case req > 0:
		ratio = math.Inf(1)
	}

	status := StatusWithin
	switch {
	case ratio > 1:
		status = StatusOver
	case ratio >= tightThreshold:
		status = StatusTight
	}

	return Report{
		CapacityMinutes:  capMinutes,
		RequiredMinutes:  req,
		OverCapacity:     req > capMinutes && capMinutes > 0,
		UtilizationRatio: ratio,
		Status:           status,
	}
}

// Rebalance reduces goal frequencies toward each goal's priority-weighted
// share of capacity. Frequencies are only ever reduced, never increased; a
// goal with positive priority is floored at one session per week. The input
// slice is not modified.
func Rebalance(goals []model.Goal, capacityMinutes int) []model.Goal {
	var weightSum float64
	for _, g := range goals {
		if g.PriorityWeight > 0 {
			weightSum += g.PriorityWeight
		}
	}

	out := make([]model.Goal, len(goals))
	for i, g := range goals {
		out[i] = g
		if g.Duration <= 0 {
			// No session cost to cap against; leave the goal as-is.
			continue
		}

		var target float64
		if weightSum > 0 && g.PriorityWeight > 0 {
			target = float64(capacityMinutes) * (g.PriorityWeight / weightSum)
		}
		maxFreq := int(math.Floor(target / float64(g.Duration)))

		minFreq := 0
		if g.PriorityWeight > 0 {
			minFreq = 1
		}
		allowed := clampInt(maxFreq, minFreq, 7)
		if g.Frequency < allowed {
			allowed = g.Frequency
		}
		out[i].Frequency = allowed
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

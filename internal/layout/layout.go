// Package layout assigns temporally-overlapping events of a single day to
// non-colliding display columns using a left-to-right sweep with greedy
// interval-graph coloring.
package layout

import (
	"sort"
	"time"

	"plancal/internal/model"
	"plancal/internal/occur"
)

// Placement is one event's position in the day view. Col is the zero-based
// column; Cols is the column count shared by every event in the same
// overlap cluster.
type Placement struct {
	Col  int `json:"col"`
	Cols int `json:"cols"`
}

// entry is one event in the sweep, in minutes relative to the day start.
type entry struct {
	id         string
	start, end int
	col        int
}

// Day lays out one day's events. Events whose start cannot be resolved are
// left out of the result. An event ending at minute m does not collide with
// one starting at minute m.
func Day(events []model.CalendarEvent, day time.Time, loc *time.Location) map[string]Placement {
	if loc == nil {
		loc = time.Local
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

	entries := make([]*entry, 0, len(events))
	for _, ev := range events {
		start, end, ok := occur.Span(ev, loc)
		if !ok {
			continue
		}
		e := &entry{
			id:    ev.ID,
			start: int(start.Sub(dayStart) / time.Minute),
			end:   int(end.Sub(dayStart) / time.Minute),
		}
		if e.end <= e.start {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].start != entries[j].start {
			return entries[i].start < entries[j].start
		}
		return entries[i].end < entries[j].end
	})

	out := make(map[string]Placement, len(entries))

	var active []*entry
	var cluster []*entry
	clusterCols := 0

	finalize := func() {
		for _, e := range cluster {
			out[e.id] = Placement{Col: e.col, Cols: clusterCols}
		}
		cluster = cluster[:0]
		clusterCols = 0
	}

	for _, e := range entries {
		// Expire events that end at or before this start.
		live := active[:0]
		for _, a := range active {
			if a.end > e.start {
				live = append(live, a)
			}
		}
		active = live

		if len(active) == 0 && len(cluster) > 0 {
			finalize()
		}

		e.col = smallestFreeColumn(active)
		active = append(active, e)
		cluster = append(cluster, e)
		if len(active) > clusterCols {
			clusterCols = len(active)
		}
	}
	if len(cluster) > 0 {
		finalize()
	}
	return out
}

// smallestFreeColumn returns the lowest column index not held by any
// still-active event.
func smallestFreeColumn(active []*entry) int {
	for col := 0; ; col++ {
		taken := false
		for _, a := range active {
			if a.col == col {
				taken = true
				break
			}
		}
		if !taken {
			return col
		}
	}
}

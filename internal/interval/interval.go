package interval

import "sort"

// Interval is a half-open [Start, End) range in minutes. The end minute is
// excluded so that back-to-back intervals never double-count a boundary.
type Interval struct {
	Start int
	End   int
}

// Len returns the interval's length in minutes, never negative.
func (iv Interval) Len() int {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// Merge sorts the given intervals by start and coalesces overlapping or
// touching ones. Zero- and negative-length inputs are dropped. The input
// slice is not modified.
func Merge(ivs []Interval) []Interval {
	in := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.End > iv.Start {
			in = append(in, iv)
		}
	}
	if len(in) == 0 {
		return nil
	}

	sort.Slice(in, func(i, j int) bool { return in[i].Start < in[j].Start })

	out := []Interval{in[0]}
	for _, iv := range in[1:] {
		last := &out[len(out)-1]
		// Touching intervals merge: [a,b) followed by [b,c) becomes [a,c).
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Clip restricts iv to the window [lo, hi). The boolean is false when the
// clipped interval is empty.
func Clip(iv Interval, lo, hi int) (Interval, bool) {
	if iv.Start < lo {
		iv.Start = lo
	}
	if iv.End > hi {
		iv.End = hi
	}
	if iv.End <= iv.Start {
		return Interval{}, false
	}
	return iv, true
}

// TotalLen sums the lengths of the given intervals. Callers who need a
// double-count-free total should Merge first.
func TotalLen(ivs []Interval) int {
	total := 0
	for _, iv := range ivs {
		total += iv.Len()
	}
	return total
}

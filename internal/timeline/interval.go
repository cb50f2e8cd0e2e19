package timeline

import (
	"fmt"
	"sort"
)

// Epsilon is the adjacency tolerance used when coalescing intervals.
const Epsilon = 1e-6

// Interval is a half-open span of media time in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns End-Start. Degenerate intervals report zero.
func (iv Interval) Length() float64 {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// Empty reports whether the interval covers no time.
func (iv Interval) Empty() bool {
	return iv.End <= iv.Start
}

// Intersect returns the overlap of two intervals and whether it is non-empty.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	out := Interval{Start: max(iv.Start, other.Start), End: min(iv.End, other.End)}
	if out.End <= out.Start {
		return Interval{}, false
	}
	return out, true
}

// Clamp restricts the interval to [lo, hi].
func (iv Interval) Clamp(lo, hi float64) Interval {
	return Interval{Start: max(lo, iv.Start), End: min(hi, iv.End)}
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%.3f, %.3f)", iv.Start, iv.End)
}

// Merge returns the minimal sorted set of disjoint intervals covering the
// input. Two intervals coalesce when the next one starts no later than the
// running end plus Epsilon. The input slice is left untouched.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]Interval, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, next := range sorted[1:] {
		last := &merged[len(merged)-1]
		if next.Start <= last.End+Epsilon {
			last.End = max(last.End, next.End)
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// Total sums the lengths of the provided intervals.
func Total(intervals []Interval) float64 {
	var sum float64
	for _, iv := range intervals {
		sum += iv.Length()
	}
	return sum
}

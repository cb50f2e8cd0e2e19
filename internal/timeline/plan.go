package timeline

// MinKeepLength is the floor below which a keep interval is discarded rather
// than handed to the transcoder.
const MinKeepLength = 0.05

// PlanParams controls which detected silences become cuts.
type PlanParams struct {
	// SilenceThreshold is the minimum raw silence length worth cutting.
	// Shorter pauses are treated as speech rhythm and kept.
	SilenceThreshold float64
	// KeepPad widens each qualifying silence on both sides before it is
	// clamped and merged.
	KeepPad float64
}

// PlanCuts filters raw silences by length, pads each survivor by KeepPad on
// both sides, clamps it into [0, duration], and merges the result into a
// sorted disjoint cut set.
func PlanCuts(duration float64, raw []Interval, params PlanParams) []Interval {
	candidates := make([]Interval, 0, len(raw))
	for _, silence := range raw {
		if silence.End-silence.Start < params.SilenceThreshold {
			continue
		}
		padded := Interval{
			Start: silence.Start - params.KeepPad,
			End:   silence.End + params.KeepPad,
		}.Clamp(0, duration)
		if padded.Empty() {
			continue
		}
		candidates = append(candidates, padded)
	}
	return Merge(candidates)
}

// ComputeKeep inverts a cut set against [0, duration]. Gaps no longer than
// MinKeepLength are dropped and are not folded into their neighbours.
func ComputeKeep(duration float64, cuts []Interval) []Interval {
	if duration <= 0 {
		return nil
	}
	var keep []Interval
	cursor := 0.0
	for _, cut := range cuts {
		if cut.Start > cursor {
			keep = append(keep, Interval{Start: cursor, End: min(cut.Start, duration)})
		}
		cursor = max(cursor, cut.End)
	}
	if cursor < duration {
		keep = append(keep, Interval{Start: cursor, End: duration})
	}

	filtered := keep[:0]
	for _, iv := range keep {
		if iv.End-iv.Start > MinKeepLength {
			filtered = append(filtered, iv)
		}
	}
	return filtered
}

package timeline

import (
	"strings"

	"silencecut/internal/transcript"
)

// MinEntryLength drops remapped entries that would flash on screen after
// being clipped at a cut boundary.
const MinEntryLength = 0.2

// Offset maps one keep interval from the original timeline onto the
// compressed one. NewBase is the summed length of every earlier keep interval.
type Offset struct {
	OriginalStart float64
	OriginalEnd   float64
	NewBase       float64
}

// Span returns the original-timeline interval covered by the offset.
func (o Offset) Span() Interval {
	return Interval{Start: o.OriginalStart, End: o.OriginalEnd}
}

// Entry is a transcript line re-timed onto the compressed timeline.
type Entry struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns End-Start.
func (e Entry) Duration() float64 {
	return e.End - e.Start
}

// BuildOffsets constructs the offset table in keep order.
func BuildOffsets(keep []Interval) []Offset {
	offsets := make([]Offset, 0, len(keep))
	var cumulative float64
	for _, iv := range keep {
		offsets = append(offsets, Offset{
			OriginalStart: iv.Start,
			OriginalEnd:   iv.End,
			NewBase:       cumulative,
		})
		cumulative += iv.End - iv.Start
	}
	return offsets
}

// MapTime projects an original-timeline instant onto the compressed timeline.
// Instants that fall inside a cut report false.
func MapTime(offsets []Offset, t float64) (float64, bool) {
	for _, off := range offsets {
		if t >= off.OriginalStart && t < off.OriginalEnd {
			return off.NewBase + (t - off.OriginalStart), true
		}
	}
	return 0, false
}

// Remap re-times transcript segments against the keep set. A segment yields
// one entry per keep interval it overlaps, so a segment spanning a cut is
// split and a segment lying entirely inside a cut disappears. Segments with
// blank text are skipped, entries shorter than MinEntryLength are dropped,
// and indexes are assigned sequentially over the surviving entries.
func Remap(segments []transcript.Segment, keep []Interval) []Entry {
	offsets := BuildOffsets(keep)

	var entries []Entry
	index := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		span := Interval{Start: seg.Start, End: seg.End}
		for _, off := range offsets {
			isect, ok := span.Intersect(off.Span())
			if !ok {
				continue
			}
			start := off.NewBase + (isect.Start - off.OriginalStart)
			end := off.NewBase + (isect.End - off.OriginalStart)
			if end-start < MinEntryLength {
				continue
			}
			entries = append(entries, Entry{Index: index, Start: start, End: end, Text: text})
			index++
		}
	}
	return entries
}

package cutter

import (
	"strconv"
	"strings"

	"silencecut/internal/timeline"
)

// BuildFilterGraph returns a filter_complex expression that trims each keep
// interval out of input 0, restarts its timestamps at zero, and concatenates
// the pieces in keep order into the [v] and [a] output pads.
func BuildFilterGraph(keep []timeline.Interval) string {
	if len(keep) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keep)*2+1)
	var pads strings.Builder
	for i, iv := range keep {
		idx := strconv.Itoa(i)
		start := formatSeconds(iv.Start)
		end := formatSeconds(iv.End)
		parts = append(parts,
			"[0:v]trim=start="+start+":end="+end+",setpts=PTS-STARTPTS[v"+idx+"]",
			"[0:a]atrim=start="+start+":end="+end+",asetpts=PTS-STARTPTS[a"+idx+"]",
		)
		pads.WriteString("[v" + idx + "][a" + idx + "]")
	}
	parts = append(parts, pads.String()+"concat=n="+strconv.Itoa(len(keep))+":v=1:a=1[v][a]")
	return strings.Join(parts, ";")
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

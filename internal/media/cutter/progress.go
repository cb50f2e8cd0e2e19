package cutter

import (
	"strconv"
	"strings"
)

// Progress is one ffmpeg -progress report translated to output time.
type Progress struct {
	// OutSeconds is the encoded output position.
	OutSeconds float64
	// Percent is OutSeconds relative to the expected output length, capped at
	// 100; -1 when the expected length is unknown.
	Percent float64
	Speed   string
	Done    bool
}

// progressParser accumulates key=value lines until a progress= terminator
// closes the block.
type progressParser struct {
	expected float64
	current  Progress
}

func newProgressParser(expectedSeconds float64) *progressParser {
	return &progressParser{expected: expectedSeconds}
}

// feed returns a completed report when line ends a block.
func (p *progressParser) feed(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us":
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.current.OutSeconds = float64(us) / 1e6
		}
	case "speed":
		p.current.Speed = value
	case "progress":
		report := p.current
		report.Done = value == "end"
		report.Percent = -1
		if p.expected > 0 {
			report.Percent = min(report.OutSeconds/p.expected*100, 100)
			if report.Done {
				report.Percent = 100
			}
		}
		return report, true
	}
	return Progress{}, false
}

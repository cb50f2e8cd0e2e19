package silence

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"

	"silencecut/internal/timeline"
)

var (
	startPattern = regexp.MustCompile(`silence_start:\s*(\S+)`)
	endPattern   = regexp.MustCompile(`silence_end:\s*(\S+)\s*\|\s*silence_duration:\s*(\S+)`)
)

// Parser turns silencedetect log lines into intervals. It holds a single
// pending start; a second start before an end replaces it, and an end with
// no pending start is ignored.
type Parser struct {
	pending   float64
	awaiting  bool
	intervals []timeline.Interval
}

// Feed consumes one line of detector output.
func (p *Parser) Feed(line string) {
	if m := endPattern.FindStringSubmatch(line); m != nil {
		end, err := strconv.ParseFloat(m[1], 64)
		if err != nil || !p.awaiting {
			return
		}
		start := p.pending
		p.awaiting = false
		p.pending = 0
		if end > start {
			p.intervals = append(p.intervals, timeline.Interval{Start: start, End: end})
		}
		return
	}
	if m := startPattern.FindStringSubmatch(line); m != nil {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return
		}
		p.pending = start
		p.awaiting = true
	}
}

// Pending reports an opened silence that has not been closed yet.
func (p *Parser) Pending() (float64, bool) {
	return p.pending, p.awaiting
}

// Intervals returns the closed silences in the order they were reported.
func (p *Parser) Intervals() []timeline.Interval {
	out := make([]timeline.Interval, len(p.intervals))
	copy(out, p.intervals)
	return out
}

// Parse reads detector output to EOF and returns the closed silences.
func Parse(r io.Reader) ([]timeline.Interval, error) {
	var p Parser
	scanner := newLineScanner(r)
	for scanner.Scan() {
		p.Feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.Intervals(), nil
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLines)
	return scanner
}

// scanLines splits on \n or \r so carriage-return status updates do not glue
// detector events together.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

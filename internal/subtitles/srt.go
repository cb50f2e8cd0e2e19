package subtitles

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"silencecut/internal/timeline"
)

// Cue is one numbered SRT block.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// FromEntries converts remapped transcript entries into cues.
func FromEntries(entries []timeline.Entry) []Cue {
	cues := make([]Cue, 0, len(entries))
	for _, e := range entries {
		cues = append(cues, Cue{Index: e.Index, Start: e.Start, End: e.End, Text: e.Text})
	}
	return cues
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are rounded,
// hours are not capped, and negative or NaN input renders as zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms %= 3_600_000
	m := ms / 60_000
	ms %= 60_000
	s := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ParseTimestamp parses HH:MM:SS,mmm (a '.' separator is also accepted).
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	clock, millisText, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(millisText)
	if errH != nil || errM != nil || errS != nil || errMS != nil || minutes > 59 || seconds > 59 || millis > 999 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Encode writes cues in SubRip format. Blocks are separated by one blank
// line and the output ends with a single newline.
func Encode(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for i, cue := range cues {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n", cue.Index, FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cleanText(cue.Text))
	}
	return bw.Flush()
}

// WriteSRT writes cues to path, replacing any existing file.
func WriteSRT(path string, cues []Cue) error {
	var buf bytes.Buffer
	if err := Encode(&buf, cues); err != nil {
		return fmt.Errorf("encode srt: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// cleanText drops blank lines and trailing whitespace so a cue's text can
// never terminate its own block early.
func cleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Parse reads SubRip content back into cues.
func Parse(data []byte) ([]Cue, error) {
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		return nil, nil
	}
	var cues []Cue
	for n, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("block %d: expected index and timing lines", n+1)
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, fmt.Errorf("block %d: invalid index %q", n+1, lines[0])
		}
		startText, endText, ok := strings.Cut(lines[1], "-->")
		if !ok {
			return nil, fmt.Errorf("block %d: missing --> separator", n+1)
		}
		start, err := ParseTimestamp(startText)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", n+1, err)
		}
		end, err := ParseTimestamp(endText)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", n+1, err)
		}
		cues = append(cues, Cue{Index: index, Start: start, End: end, Text: strings.Join(lines[2:], "\n")})
	}
	return cues, nil
}

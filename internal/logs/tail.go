package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Record is one log entry: its header line plus any indented field lines.
type Record []string

// String joins the record back into its on-disk form without a trailing newline.
func (r Record) String() string {
	return strings.Join(r, "\n")
}

// Filter selects records; a nil Filter keeps everything.
type Filter func(Record) bool

// RunFilter keeps records mentioning runID. Console headers only carry the
// first eight characters of a run id, so matching uses that prefix.
func RunFilter(runID string) Filter {
	needle := strings.TrimSpace(runID)
	if len(needle) > 8 {
		needle = needle[:8]
	}
	if needle == "" {
		return nil
	}
	return func(r Record) bool {
		for _, line := range r {
			if strings.Contains(line, needle) {
				return true
			}
		}
		return false
	}
}

// Last returns up to limit of the newest records in path that pass keep,
// oldest first, along with the file offset reading stopped at. A missing
// file yields no records and offset zero. limit <= 0 returns no records.
func Last(path string, limit int, keep Filter) ([]Record, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	ring := make([]Record, max(limit, 0))
	count, idx := 0, 0
	offset, err := scanRecords(file, 0, func(r Record) {
		if limit <= 0 || (keep != nil && !keep(r)) {
			return
		}
		ring[idx] = r
		idx = (idx + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	records := make([]Record, 0, count)
	start := 0
	if count == limit {
		start = idx
	}
	for i := 0; i < count; i++ {
		records = append(records, ring[(start+i)%max(limit, 1)])
	}
	return records, offset, nil
}

// Follow polls path from offset and hands every new record that passes keep
// to emit until ctx ends. A file shorter than offset is treated as rotated
// and read from the start.
func Follow(ctx context.Context, path string, offset int64, poll time.Duration, keep Filter, emit func(Record)) error {
	if poll <= 0 {
		poll = 250 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		next, err := readFrom(path, offset, keep, emit)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readFrom(path string, offset int64, keep Filter, emit func(Record)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log file: %w", err)
	}
	return scanRecords(file, offset, func(r Record) {
		if keep == nil || keep(r) {
			emit(r)
		}
	})
}

// scanRecords groups complete lines into records. A trailing line without a
// newline is left unread so a half-written record is picked up on the next
// pass. The returned offset is just past the last consumed record.
func scanRecords(r io.Reader, offset int64, emit func(Record)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var (
		current  Record
		consumed = offset
		pending  int64
	)
	flush := func() {
		if len(current) > 0 {
			emit(current)
			consumed += pending
		}
		current, pending = nil, 0
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				flush()
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		text := strings.TrimRight(line, "\r\n")
		continuation := text != "" && (text[0] == ' ' || text[0] == '\t')
		if !continuation {
			flush()
		}
		if text == "" {
			consumed += int64(len(line))
			continue
		}
		current = append(current, text)
		pending += int64(len(line))
	}
}

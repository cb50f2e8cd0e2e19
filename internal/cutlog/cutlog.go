// Package cutlog reads and writes the CSV record of removed intervals.
//
// The file has a cut_start,cut_end,cut_duration header and one row per final
// cut, seconds formatted to three decimals. Read accepts the same layout so
// a previous run's cuts can drive a remap without re-encoding.
package cutlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"silencecut/internal/services"
	"silencecut/internal/timeline"
)

// Header is the column layout of a cut log.
var Header = []string{"cut_start", "cut_end", "cut_duration"}

// Encode writes the header and one row per cut.
func Encode(w io.Writer, cuts []timeline.Interval) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, cut := range cuts {
		row := []string{format(cut.Start), format(cut.End), format(cut.End - cut.Start)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write creates path and encodes cuts into it.
func Write(path string, cuts []timeline.Interval) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cut log: %w", err)
	}
	if err := Encode(file, cuts); err != nil {
		file.Close()
		return fmt.Errorf("write cut log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close cut log: %w", err)
	}
	return nil
}

// Decode parses a cut log. The duration column is informational and is not
// checked against start and end.
func Decode(r io.Reader) ([]timeline.Interval, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrValidation, "cutlog", "read", "missing header", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "cutlog", "read header", "", err)
	}
	for i, name := range Header {
		if strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")) != name {
			return nil, services.Wrap(services.ErrValidation, "cutlog", "read header",
				fmt.Sprintf("column %d is %q, want %q", i+1, header[i], name), nil)
		}
	}

	var cuts []timeline.Interval
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "cutlog", "read", fmt.Sprintf("row %d", row), err)
		}
		start, errS := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		end, errE := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if errS != nil || errE != nil {
			return nil, services.Wrap(services.ErrValidation, "cutlog", "read", fmt.Sprintf("row %d: invalid number", row), errors.Join(errS, errE))
		}
		if start < 0 || end <= start {
			return nil, services.Wrap(services.ErrValidation, "cutlog", "read", fmt.Sprintf("row %d: invalid interval [%v, %v)", row, start, end), nil)
		}
		cuts = append(cuts, timeline.Interval{Start: start, End: end})
	}
	return timeline.Merge(cuts), nil
}

// Read opens path and decodes it.
func Read(path string) ([]timeline.Interval, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "cutlog", "open", path, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "cutlog", "open", path, err)
	}
	defer file.Close()
	return Decode(file)
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"silencecut/internal/timeline"
)

// formatClock renders seconds as H:MM:SS.mmm.
func formatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms%1000)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64) + "s"
}

func formatPercent(part, whole float64) string {
	if whole <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/whole*100)
}

func formatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(100 * time.Millisecond).String()
}

func intervalRows(intervals []timeline.Interval) [][]string {
	rows := make([][]string, 0, len(intervals))
	for i, iv := range intervals {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatClock(iv.Start),
			formatClock(iv.End),
			formatSeconds(iv.Length()),
		})
	}
	return rows
}

func renderIntervals(title string, intervals []timeline.Interval) string {
	return tableSpec{
		Title:   title,
		Headers: []string{"#", "Start", "End", "Length"},
		Aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignRight},
		Rows:    intervalRows(intervals),
		Footer:  []string{"", "", "Total", formatSeconds(timeline.Total(intervals))},
	}.render()
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

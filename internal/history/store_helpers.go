package history

import (
	"database/sql"
	"errors"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id            int64
		runID         string
		inputPath     string
		outputPath    sql.NullString
		statusStr     string
		startedRaw    string
		finishedRaw   sql.NullString
		inputSeconds  float64
		outputSeconds float64
		cutSeconds    float64
		cutCount      int
		failedStage   sql.NullString
		errorMessage  sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&runID,
		&inputPath,
		&outputPath,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&inputSeconds,
		&outputSeconds,
		&cutSeconds,
		&cutCount,
		&failedStage,
		&errorMessage,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:            id,
		RunID:         runID,
		InputPath:     inputPath,
		OutputPath:    outputPath.String,
		Status:        Status(statusStr),
		InputSeconds:  inputSeconds,
		OutputSeconds: outputSeconds,
		CutSeconds:    cutSeconds,
		CutCount:      cutCount,
		FailedStage:   failedStage.String,
		ErrorMessage:  errorMessage.String,
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"silencecut/internal/services"
)

const runColumns = "id, run_id, input_path, output_path, status, started_at, finished_at, input_seconds, output_seconds, cut_seconds, cut_count, failed_stage, error_message"

// DefaultLimit is the number of rows Recent returns when limit <= 0.
const DefaultLimit = 20

// Begin records a new running row for runID.
func (s *Store) Begin(ctx context.Context, runID, inputPath string) (*Run, error) {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	now := time.Now().UTC()
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (run_id, input_path, status, started_at) VALUES (?, ?, ?, ?)`,
		runID,
		inputPath,
		StatusRunning,
		formatTime(now),
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.Get(ctx, runID)
}

// Finish closes the run, marking it failed when outcome.Err is set.
func (s *Store) Finish(ctx context.Context, runID string, outcome Outcome) error {
	status := StatusCompleted
	message := ""
	if outcome.Err != nil {
		status = StatusFailed
		message = strings.TrimSpace(outcome.Err.Error())
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs SET
            status = ?, finished_at = ?, output_path = ?,
            input_seconds = ?, output_seconds = ?, cut_seconds = ?, cut_count = ?,
            failed_stage = ?, error_message = ?
        WHERE run_id = ?`,
		status,
		formatTime(time.Now()),
		nullableString(outcome.OutputPath),
		outcome.InputSeconds,
		outcome.OutputSeconds,
		outcome.CutSeconds,
		outcome.CutCount,
		nullableString(outcome.FailedStage),
		nullableString(message),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "history", "finish", runID, nil)
	}
	return nil
}

// Get returns the run with runID, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), "SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Recent lists the most recently started runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+runColumns+" FROM runs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats returns a count of runs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// MarkInterrupted fails every run still marked running that started before
// the cutoff. A process killed mid-run never reaches Finish.
func (s *Store) MarkInterrupted(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ?
        WHERE status = ? AND started_at < ?`,
		StatusFailed,
		formatTime(time.Now()),
		"interrupted",
		StatusRunning,
		formatTime(before),
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return res.RowsAffected()
}

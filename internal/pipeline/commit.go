package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"silencecut/internal/fileutil"
	"silencecut/internal/logging"
	"silencecut/internal/services"
)

// stagedOutputs are the scratch-side artifact paths. srt is empty when no
// transcript was supplied.
type stagedOutputs struct {
	video  string
	srt    string
	cutLog string
}

type commitPair struct {
	from string
	to   string
}

func (s stagedOutputs) pairs(final Outputs) []commitPair {
	pairs := []commitPair{
		{from: s.video, to: final.Video},
		{from: s.cutLog, to: final.CutLog},
	}
	if s.srt != "" {
		pairs = append(pairs, commitPair{from: s.srt, to: final.SRT})
	}
	return pairs
}

// commit moves every staged artifact into place. If any move fails, the
// artifacts already moved by this call are removed again.
func commit(logger *slog.Logger, pairs []commitPair) error {
	var done []string
	rollback := func() {
		for _, path := range done {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logger.Error("failed to roll back committed output", logging.String("output_path", path), logging.Error(err))
			}
		}
	}
	for _, pair := range pairs {
		if err := os.MkdirAll(filepath.Dir(pair.to), 0o755); err != nil {
			rollback()
			return fmt.Errorf("create output dir for %s: %w", pair.to, err)
		}
		if err := fileutil.MoveFile(pair.from, pair.to); err != nil {
			rollback()
			return fmt.Errorf("commit %s: %w", pair.to, err)
		}
		done = append(done, pair.to)
		logger.Debug("output committed", logging.String("output_path", pair.to))
	}
	return nil
}

type outputLock struct {
	lock *flock.Flock
	path string
}

// acquireOutputLock takes an exclusive lock beside the output video so two
// runs never write the same outputs.
func acquireOutputLock(videoPath string) (*outputLock, error) {
	if err := os.MkdirAll(filepath.Dir(videoPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "create output dir", videoPath, err)
	}
	lockPath := videoPath + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "acquire", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "lock", "acquire", "another run is writing "+videoPath, nil)
	}
	return &outputLock{lock: lock, path: lockPath}, nil
}

func (l *outputLock) release(logger *slog.Logger) {
	if l == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logger.Warn("failed to release output lock", logging.String("lock_path", l.path), logging.Error(err))
	}
	_ = os.Remove(l.path)
}

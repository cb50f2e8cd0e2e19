package main

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"silencecut/internal/media/cutter"
)

// encodeProgress draws a percent bar for the encode stage on a terminal.
type encodeProgress struct {
	bar *progressbar.ProgressBar
}

func newEncodeProgress(w io.Writer) *encodeProgress {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("encoding"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
	)
	return &encodeProgress{bar: bar}
}

func (p *encodeProgress) update(report cutter.Progress) {
	if p == nil || report.Percent < 0 {
		return
	}
	_ = p.bar.Set(int(report.Percent))
	if report.Done {
		_ = p.bar.Finish()
	}
}

func (p *encodeProgress) close() {
	if p == nil {
		return
	}
	_ = p.bar.Exit()
}

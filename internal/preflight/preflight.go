package preflight

import (
	"context"
	"fmt"

	"silencecut/internal/config"
	"silencecut/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config: binary
// availability, ffmpeg filter support, directory access, and free space.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	ffmpegAvailable := false
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
		if status.Name == "FFmpeg" && status.Available {
			ffmpegAvailable = true
		}
	}
	if ffmpegAvailable {
		filters, err := deps.CheckFFmpegFilters(ctx, cfg.FFmpegBinary())
		result := fromStatus(filters)
		if err != nil {
			result.Detail = fmt.Sprintf("list filters failed (%v)", err)
		}
		results = append(results, result)
	}

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckFreeSpace("Work directory space", cfg.Paths.WorkDir, cfg.Tools.MinFreeGiB))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	if status.Available {
		detail := status.Path
		if detail == "" {
			detail = status.Command
		}
		return Result{Name: status.Name, Passed: true, Detail: detail}
	}
	return Result{Name: status.Name, Detail: status.Detail}
}

package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"silencecut/internal/config"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Requirement names an external binary a cut run needs.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status is the result of resolving one Requirement. Path is set when the
// binary was found; Detail explains why it was not.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Path        string
	Detail      string
}

// Requirements lists the binaries configured in cfg.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Silence detection and re-encoding"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Duration and stream probing"},
	}
}

// CheckBinaries resolves every requirement against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := lookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Available = true
	status.Path = path
	return status
}

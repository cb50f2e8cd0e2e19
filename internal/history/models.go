package history

import "time"

// Status is the lifecycle state of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one row of the runs table.
type Run struct {
	ID            int64      `json:"id"`
	RunID         string     `json:"run_id"`
	InputPath     string     `json:"input_path"`
	OutputPath    string     `json:"output_path,omitempty"`
	Status        Status     `json:"status"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	InputSeconds  float64    `json:"input_seconds"`
	OutputSeconds float64    `json:"output_seconds"`
	CutSeconds    float64    `json:"cut_seconds"`
	CutCount      int        `json:"cut_count"`
	FailedStage   string     `json:"failed_stage,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// Elapsed returns the wall time between start and finish, or zero while the
// run is still open.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt == nil || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome carries the values recorded when a run finishes.
type Outcome struct {
	OutputPath    string
	InputSeconds  float64
	OutputSeconds float64
	CutSeconds    float64
	CutCount      int
	FailedStage   string
	Err           error
}

package logging

import "strings"

// ProgressSampler thins encoder progress down to one record per step of
// percentage, plus one record when the stage changes and one at completion.
type ProgressSampler struct {
	step  float64
	stage string
	next  float64
	done  bool
}

// NewProgressSampler returns a sampler that logs every step percent. A
// non-positive step falls back to 5.
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 5
	}
	return &ProgressSampler{step: step}
}

// ShouldLog reports whether the update deserves a log record. A negative
// percent means the encoder has not reported a position yet.
func (s *ProgressSampler) ShouldLog(percent float64, stage string) bool {
	if s == nil {
		return true
	}
	changed := false
	if stage = strings.TrimSpace(stage); stage != "" && stage != s.stage {
		s.stage = stage
		s.next = 0
		s.done = false
		changed = true
	}
	switch {
	case percent < 0 || s.done:
		return changed
	case percent >= 100:
		s.done = true
		return true
	case percent >= s.next:
		s.next = (float64(int(percent/s.step)) + 1) * s.step
		return true
	}
	return changed
}

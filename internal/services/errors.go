package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classify failures for exit codes, logs and history.
var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
)

// markers is ordered by precedence: a timeout wrapping a tool error reports
// as a timeout.
var markers = []struct {
	err   error
	label string
	exit  int
}{
	{ErrTimeout, "timeout", 1},
	{ErrExternalTool, "external_tool", 1},
	{ErrValidation, "validation", 2},
	{ErrConfiguration, "configuration", 2},
	{ErrNotFound, "not_found", 2},
}

// Wrap returns an error reading "<marker>: <stage>: <op>: <message>: <err>"
// with empty parts omitted. It matches both marker and err under errors.Is.
// A nil marker defaults to ErrExternalTool.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrExternalTool
	}
	var parts []string
	for _, part := range []string{stage, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	detail := "service failure"
	if len(parts) > 0 {
		detail = strings.Join(parts, ": ")
	}
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for input and
// configuration problems, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for _, m := range markers {
		if errors.Is(err, m.err) {
			return m.exit
		}
	}
	return 1
}

// Marker returns the label of the highest-precedence sentinel in err, "" for
// nil and "unknown" when none match.
func Marker(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range markers {
		if errors.Is(err, m.err) {
			return m.label
		}
	}
	return "unknown"
}

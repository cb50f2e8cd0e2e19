package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// RequiredFilters are the ffmpeg filters a cut run builds its graphs from.
var RequiredFilters = []string{"silencedetect", "trim", "atrim", "setpts", "asetpts", "concat"}

// CheckFFmpegFilters runs `ffmpeg -hide_banner -filters` and reports which of
// RequiredFilters the build lacks.
func CheckFFmpegFilters(ctx context.Context, binary string) (Status, error) {
	result := Status{
		Name:        "FFmpeg filters",
		Command:     binary,
		Description: strings.Join(RequiredFilters, ", "),
	}

	cmd := commandContext(ctx, binary, "-hide_banner", "-filters")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		result.Detail = fmt.Sprintf("list filters: %v", err)
		return result, err
	}

	available := parseFilterList(stdout.Bytes())
	var missing []string
	for _, name := range RequiredFilters {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		result.Detail = "missing filters: " + strings.Join(missing, ", ")
		return result, nil
	}
	result.Available = true
	return result, nil
}

// parseFilterList extracts filter names from `ffmpeg -filters` output, where
// each filter line is "<flags> <name> <in>-><out> <description>".
func parseFilterList(output []byte) map[string]struct{} {
	names := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || !strings.Contains(fields[2], "->") {
			continue
		}
		names[fields[1]] = struct{}{}
	}
	return names
}

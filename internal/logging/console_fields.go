package logging

import "strings"

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

// infoHighlightKeys are shown first, in this order, on info lines.
var infoHighlightKeys = []string{
	FieldEventType,
	FieldErrorKind,
	FieldErrorHint,
	FieldImpact,
	"error",
	FieldProgressStage,
	FieldProgressPercent,
	"input",
	"output",
	"duration_seconds",
	"output_seconds",
	"cut_seconds",
	"cut_count",
	"keep_count",
	"silence_count",
	"entry_count",
	"stage_duration",
	"total_duration",
}

// selectInfoFields returns formatted info-level fields and a count of hidden
// entries. limit=0 means no limit.
func selectInfoFields(attrs []kv, limit int) ([]infoField, int) {
	if len(attrs) == 0 {
		return nil, 0
	}
	used := make([]bool, len(attrs))
	result := make([]infoField, 0, infoAttrLimit)
	hidden := 0

	add := func(idx int) {
		used[idx] = true
		attr := attrs[idx]
		if skipInfoKey(attr.key) {
			return
		}
		if isDebugOnlyKey(attr.key) {
			hidden++
			return
		}
		if limit > 0 && len(result) >= limit {
			hidden++
			return
		}
		result = append(result, infoField{label: displayLabel(attr.key), value: formatValueForKey(attr.key, attr.value)})
	}

	for _, key := range infoHighlightKeys {
		for idx, attr := range attrs {
			if !used[idx] && attr.key == key {
				add(idx)
				break
			}
		}
	}
	for idx := range attrs {
		if !used[idx] {
			add(idx)
		}
	}
	return result, hidden
}

func skipInfoKey(key string) bool {
	switch key {
	case "", FieldComponent, FieldRunID, FieldStage:
		return true
	default:
		return false
	}
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case "args", "filter_graph", "scratch_dir", "lock_path":
		return true
	}
	return strings.HasSuffix(key, "_path") && key != "output_path"
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorKind:
		return "Error Kind"
	case FieldErrorHint:
		return "Hint"
	case FieldProgressStage:
		return "Progress Stage"
	case FieldProgressPercent:
		return "Progress"
	case "duration_seconds":
		return "Input Duration"
	case "output_seconds":
		return "Output Duration"
	case "cut_seconds":
		return "Removed"
	case "cut_count":
		return "Cuts"
	case "keep_count":
		return "Kept Spans"
	case "silence_count":
		return "Silences"
	case "entry_count":
		return "Subtitles"
	case "stage_duration":
		return "Duration"
	default:
		return titleizeKey(key)
	}
}

func titleizeKey(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for i, part := range parts {
		lower := strings.ToLower(part)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

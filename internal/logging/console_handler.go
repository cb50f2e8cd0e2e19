package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// prettyHandler renders records as a one-line header followed by indented
// field lines:
//
//	2026-01-02 15:04:05.000 INFO [pipeline] Run 1a2b3c4d (plan) – cuts planned
//	    - Cuts: 3
type prettyHandler struct {
	out    *consoleSink
	attrs  []kv
	prefix []string
}

// consoleSink is shared by a handler and all handlers derived from it.
type consoleSink struct {
	mu        sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{out: &consoleSink{w: w, level: lvl, addSource: addSource}}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.out.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := slices.Clone(h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, attr)
		return true
	})
	fields = lastValueWins(fields)

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.Grow(128 + 32*len(fields))
	writeLogHeader(&b, ts, record.Level,
		lookup(fields, FieldComponent), lookup(fields, FieldRunID), lookup(fields, FieldStage),
		record.Message)
	if h.out.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			b.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	b.WriteByte('\n')
	if record.Level >= slog.LevelInfo {
		writeInfoFields(&b, fields)
	} else {
		writeDebugFields(&b, fields)
	}

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := io.WriteString(h.out.w, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	fields := slices.Clone(h.attrs)
	for _, attr := range attrs {
		fields = appendAttr(fields, h.prefix, attr)
	}
	return &prettyHandler{out: h.out, attrs: fields, prefix: h.prefix}
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	prefix := append(slices.Clone(h.prefix), name)
	return &prettyHandler{out: h.out, attrs: h.attrs, prefix: prefix}
}

func writeLogHeader(b *strings.Builder, ts time.Time, level slog.Level, component, runID, stage, message string) {
	b.WriteString(formatTimestamp(ts))
	b.WriteString(" " + levelLabel(level))
	if component != "" {
		b.WriteString(" [" + component + "]")
	}
	if subject := composeSubject(runID, stage); subject != "" {
		b.WriteString(" " + subject)
	}
	if message = strings.TrimSpace(message); message == "" {
		message = "(no message)"
	}
	b.WriteString(" – " + message)
}

func writeInfoFields(b *strings.Builder, fields []kv) {
	shown, hidden := selectInfoFields(fields, infoAttrLimit)
	for _, field := range shown {
		b.WriteString("    - " + field.label + ": " + field.value + "\n")
	}
	switch {
	case hidden == 1:
		b.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		b.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
	}
}

func writeDebugFields(b *strings.Builder, fields []kv) {
	for _, field := range fields {
		if !skipInfoKey(field.key) {
			b.WriteString("    " + field.key + ": " + formatValue(field.value) + "\n")
		}
	}
}

// composeSubject renders the "Run 1a2b3c4d (encode)" part of a header. Run
// IDs are shortened to their first dash-separated block.
func composeSubject(runID, stage string) string {
	runID, _, _ = strings.Cut(strings.TrimSpace(runID), "-")
	stage = strings.TrimSpace(stage)
	switch {
	case runID == "":
		return stage
	case stage == "":
		return "Run " + runID
	default:
		return "Run " + runID + " (" + stage + ")"
	}
}

type kv struct {
	key   string
	value slog.Value
}

// appendAttr flattens groups into dotted keys.
func appendAttr(dst []kv, prefix []string, attr slog.Attr) []kv {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix = append(slices.Clone(prefix), attr.Key)
		}
		for _, member := range value.Group() {
			dst = appendAttr(dst, prefix, member)
		}
		return dst
	}
	if attr.Key == "" {
		return dst
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	return append(dst, kv{key: key, value: value})
}

// lastValueWins drops repeated keys, keeping the first position and the last
// value.
func lastValueWins(fields []kv) []kv {
	if len(fields) < 2 {
		return fields
	}
	index := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, field := range fields {
		if i, ok := index[field.key]; ok {
			out[i].value = field.value
			continue
		}
		index[field.key] = len(out)
		out = append(out, field)
	}
	return out
}

func lookup(fields []kv, key string) string {
	for _, field := range fields {
		if field.key == key {
			return attrString(field.value)
		}
	}
	return ""
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}

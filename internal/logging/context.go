package logging

import (
	"context"
	"log/slog"

	"silencecut/internal/services"
)

// Standard attribute keys. The console handler lifts component, run and
// stage into the record header and labels the rest.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	// FieldEventType classifies a record for filtering, e.g. stage_complete.
	FieldEventType = "event_type"
	// FieldErrorKind is the services marker label: validation, timeout, ...
	FieldErrorKind = "error_kind"
	// FieldErrorHint is the next step a user should take after a failure.
	FieldErrorHint = "error_hint"
	// FieldImpact states what a warning costs the user.
	FieldImpact          = "impact"
	FieldProgressPercent = "progress_percent"
	FieldProgressStage   = "progress_stage"
)

// ContextFields returns the run and stage attributes carried by ctx.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var fields []Attr
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns logger tagged with ContextFields(ctx). A nil logger
// becomes a no-op logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if fields := ContextFields(ctx); len(fields) > 0 {
		return logger.With(Args(fields...)...)
	}
	return logger
}

package services

import "context"

type scopeKey struct{}

// runScope is the run identity carried through a pipeline context.
type runScope struct {
	runID string
	stage string
}

func scopeFrom(ctx context.Context) runScope {
	scope, _ := ctx.Value(scopeKey{}).(runScope)
	return scope
}

// WithRunID returns ctx tagged with the run identifier. An empty id leaves
// ctx unchanged.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	scope := scopeFrom(ctx)
	scope.runID = id
	return context.WithValue(ctx, scopeKey{}, scope)
}

// WithStage returns ctx tagged with the current stage name. An empty stage
// leaves ctx unchanged.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	scope := scopeFrom(ctx)
	scope.stage = stage
	return context.WithValue(ctx, scopeKey{}, scope)
}

func RunIDFromContext(ctx context.Context) (string, bool) {
	id := scopeFrom(ctx).runID
	return id, id != ""
}

func StageFromContext(ctx context.Context) (string, bool) {
	stage := scopeFrom(ctx).stage
	return stage, stage != ""
}

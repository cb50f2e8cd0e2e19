// Package notifications pushes run outcomes to an ntfy topic.
//
// NewService returns a no-op publisher when no topic is configured, so
// callers publish unconditionally and treat failures as warnings.
package notifications

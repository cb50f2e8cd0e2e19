// Package services defines shared utilities consumed by the pipeline stages
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that keep the failing
//     stage and external command in every surfaced error.
//   - ExitCode, which turns those markers into CLI exit statuses.
//
// Use these helpers when wiring new stage logic so failures read the same
// regardless of which tool or stage produced them.
package services

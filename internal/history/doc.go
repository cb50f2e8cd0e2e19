// Package history records every cut run in a small SQLite database so the
// CLI can list recent runs with their outcome and timing.
//
// The store mirrors the conventions of a job queue: WAL journaling, a busy
// timeout plus retry on SQLITE_BUSY, and a versioned embedded schema that is
// created on first open and verified on every subsequent open.
package history

// Package main hosts the silencecut CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once per invocation,
// builds the structured logger, and hands each subcommand a ready
// commandContext. Cutting, planning, and remapping live in internal/pipeline
// and internal/timeline; commands here only translate flags into requests and
// render results as tables, status lines, or JSON.
package main

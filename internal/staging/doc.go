// Package staging manages per-run scratch directories under the configured
// work directory. A run stages its encoded video, cut log, and subtitles in
// its own directory and removes it on exit; CleanStale sweeps directories
// left behind by runs that were killed before they could clean up.
package staging

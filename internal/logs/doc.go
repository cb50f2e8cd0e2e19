// Package logs reads the silencecut log file back for the `logs` command.
//
// Console output spreads one record over a header line followed by indented
// field lines, so reading is record-oriented: a record starts at any line
// without leading whitespace and absorbs the indented lines after it. JSON
// output is one record per line and needs no special handling.
//
// Last returns the trailing records with bounded memory, and Follow polls
// for appended records until its context ends.
package logs

// Package preflight provides readiness checks for the binaries and
// filesystem paths a cut run depends on.
//
// These checks run in two contexts:
//   - The pipeline calls CheckInput and CheckFreeSpace before probing, so a
//     run fails fast instead of after a long detection pass.
//   - The CLI "silencecut status" command calls RunAll to display health.
package preflight

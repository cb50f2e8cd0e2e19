// Package timeline holds the pure interval arithmetic behind silence removal.
//
// Raw silences flow through PlanCuts (threshold, pad, clamp, merge) into a
// disjoint cut set, ComputeKeep inverts that into the surviving keep set, and
// Remap projects transcript segments from the original timeline onto the
// compressed one, splitting segments that straddle a cut.
//
// Nothing here touches the filesystem or external processes, so every stage
// of the edit decision can be tested with literal interval lists.
package timeline

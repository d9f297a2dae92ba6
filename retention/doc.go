// Package retention holds the pieces of the store that look at the
// chain from the outside: a compact view of which CSNs are still active,
// throttling for the background work that touches the chain, and a sweep
// hook that reports (but does not yet act on) what could be reclaimed.
//
// Garbage collection and group merging are intentionally not implemented
// here - Sweep is a dry run. A real policy needs to decide how to
// relink a group's surviving deltas after dropping the reclaimable ones,
// which this package leaves as future work.
package retention

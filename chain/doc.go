// Package chain is the top of the version store: an ordered list of
// groups, and the three-phase protocol for inserting a new CSN into
// whichever group currently accepts writes.
//
// # Architecture
//
// Group boundaries are decided by a single counter, headGroupCount,
// guarded by capLock: every insert increments it, and the insert that
// finds it already at the maximum group size resets it to 1 and opens a
// fresh group instead of reusing the current one. This separates "who
// gets to open the next group" (capLock, brief) from "append this delta
// to the open group's chain" (the group's own lock, held only for that
// group's publish/materialize calls) - so two concurrent inserts
// destined for different groups share only the brief capLock section,
// never a group lock.
//
// Reads never take capLock or any group lock: they walk the group list
// and then a group's delta list, both via atomic loads only.
package chain

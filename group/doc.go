// Package group implements a single group: one reference bitmap plus a
// chain of deltas, each holding a codec.Payload encoded against that
// reference. How many deltas a group receives is decided by the chain
// package (chain.DefaultMaxGroupSize unless overridden); Group itself does
// not enforce a limit.
//
// # Architecture
//
// A Group is a lock-free read path over a writer-serialized chain. The
// delta list is linked newest-first through atomic.Pointer[Delta]; readers
// walk it with plain atomic loads and never block. Writers hold the
// group's mutex for the whole of a publish call, and for a materialize
// call from after the encode step onward (encoding against the immutable
// reference needs no lock), which is enough because every publish is a
// single node prepend and every materialize touches only the deltas
// already reachable from head.
//
// A delta's payload is itself behind an atomic.Pointer[codec.Payload]: a
// placeholder publish stores one payload, and materialize - plus any later
// propagation pass - replaces it wholesale rather than mutating it in
// place, so a concurrent reader never observes a torn payload.
package group

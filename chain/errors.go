package chain

import "errors"

var (
	// ErrOpenerHandle is returned by InsertContent when called with the
	// handle from an insert that opened a new group. That insert's
	// opening delta is published synchronously and must never be
	// materialized again.
	ErrOpenerHandle = errors.New("chain: insert_content called on a group-opener handle")

	// ErrNonMonotonicCSN is returned when a submitted CSN does not
	// strictly exceed every CSN submitted before it on this chain.
	ErrNonMonotonicCSN = errors.New("chain: csn is not strictly increasing")
)

package bitvis

import (
	"errors"
	"fmt"

	"github.com/hexadb/bitvis/chain"
	"github.com/hexadb/bitvis/codec"
)

var (
	// ErrNotFound marks a CSN with no visible bitmap: it was never
	// inserted, it falls outside every group's csn_range, or its
	// placeholder has not yet materialized. translateError maps
	// codec.ErrPlaceholder onto it; Store.Get does not return it and
	// reports a miss as a false bool instead.
	ErrNotFound = errors.New("bitvis: csn not found")

	// ErrOpenerHandle is returned by InsertContent when called with the
	// handle from an insert that opened a new group. That insert's
	// opening delta publishes synchronously and must never be
	// materialized again.
	ErrOpenerHandle = errors.New("bitvis: insert_content called on a group-opener handle")

	// ErrNonMonotonicCSN is returned when a submitted CSN does not
	// strictly exceed every CSN submitted before it.
	ErrNonMonotonicCSN = errors.New("bitvis: csn is not strictly increasing")

	// ErrRetentionDisabled is returned by Sweep when the store was
	// constructed without an ActiveCSNProvider.
	ErrRetentionDisabled = errors.New("bitvis: store has no active-csn provider configured")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, chain.ErrOpenerHandle) {
		return fmt.Errorf("%w: %w", ErrOpenerHandle, err)
	}
	if errors.Is(err, chain.ErrNonMonotonicCSN) {
		return fmt.Errorf("%w: %w", ErrNonMonotonicCSN, err)
	}
	if errors.Is(err, codec.ErrPlaceholder) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}

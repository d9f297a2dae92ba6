package retention

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// ActiveCSNProvider exposes the host database's current active-CSN
// snapshot, newest-first. A Hook does not cache this list; it consults it
// fresh on every Sweep, since the set of in-flight transactions changes
// continuously.
type ActiveCSNProvider interface {
	ActiveCSNs() []int64
}

// ActiveCSNSet is a compact, ordered view over an active-CSN snapshot.
// Roaring bitmaps address uint32 values, so CSNs handed to NewActiveCSNSet
// must fit that range; this only bounds retention bookkeeping, not the
// CSN domain the chain/group packages accept.
type ActiveCSNSet struct {
	rb *roaring.Bitmap
}

// NewActiveCSNSet builds a set from a snapshot of active CSNs.
func NewActiveCSNSet(csns []int64) (*ActiveCSNSet, error) {
	rb := roaring.New()
	for _, c := range csns {
		if c < 0 || c > math.MaxUint32 {
			return nil, fmt.Errorf("retention: csn %d out of range for active-csn tracking", c)
		}
		rb.Add(uint32(c))
	}
	return &ActiveCSNSet{rb: rb}, nil
}

// Contains reports whether csn is currently active.
func (s *ActiveCSNSet) Contains(csn int64) bool {
	if csn < 0 || csn > math.MaxUint32 {
		return false
	}
	return s.rb.Contains(uint32(csn))
}

// Oldest returns the lowest active CSN, the floor a sweep compares a
// group's csn_range.hi against, and whether any CSN is active at all.
func (s *ActiveCSNSet) Oldest() (int64, bool) {
	if s.rb.IsEmpty() {
		return 0, false
	}
	return int64(s.rb.Minimum()), true
}

// Snapshot returns the active CSNs in ascending order.
func (s *ActiveCSNSet) Snapshot() []int64 {
	raw := s.rb.ToArray()
	out := make([]int64, len(raw))
	for i, v := range raw {
		out[i] = int64(v)
	}
	return out
}

package group

import (
	"sync"
	"sync/atomic"

	"github.com/hexadb/bitvis/codec"
	"github.com/hexadb/bitvis/sortedset"
)

// Delta is one version inside a group: a reservation for a CSN, whose
// payload starts as a placeholder and is installed once by Materialize.
type Delta struct {
	csn     int64
	payload atomic.Pointer[codec.Payload]
	next    atomic.Pointer[Delta]
}

func newDelta(csn int64, p codec.Payload) *Delta {
	d := &Delta{csn: csn}
	d.payload.Store(&p)
	return d
}

// CSN returns the delta's commit sequence number.
func (d *Delta) CSN() int64 { return d.csn }

// Payload returns the delta's current payload. Safe to call without
// holding any lock.
func (d *Delta) Payload() codec.Payload { return *d.payload.Load() }

// Next returns the next-older delta in the chain, or nil at the tail.
func (d *Delta) Next() *Delta { return d.next.Load() }

// Group is one reference image plus its chain of deltas.
type Group struct {
	reference codec.Bitmap
	lo        int64 // immutable after construction

	mu                sync.Mutex
	head              atomic.Pointer[Delta]
	hi                atomic.Int64
	materializedCount int // guarded by mu

	next atomic.Pointer[Group]
}

// New opens a group at csn with reference set to a copy of opener. The
// group starts with a single materialized delta at csn: a zero-count
// sparse payload, since the opener's image equals the reference by
// construction.
func New(csn int64, opener codec.Bitmap) *Group {
	g := &Group{reference: opener, lo: csn}
	g.hi.Store(csn)
	opening := newDelta(csn, codec.SparsePayload(nil))
	g.head.Store(opening)
	g.materializedCount = 1
	return g
}

// Lo returns the lowest CSN this group can answer for.
func (g *Group) Lo() int64 { return g.lo }

// Hi returns the highest CSN materialized so far in this group. Readers
// may load this without holding the group's lock.
func (g *Group) Hi() int64 { return g.hi.Load() }

// MaterializedCount returns the number of deltas with installed content,
// including the opening delta.
func (g *Group) MaterializedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.materializedCount
}

// Next returns the next-older group in the chain, or nil at the tail.
func (g *Group) Next() *Group { return g.next.Load() }

// SetNext links the next-older group. Called once, before this group is
// published to any reader.
func (g *Group) SetNext(next *Group) { g.next.Store(next) }

// PublishPlaceholder prepends a reserved, empty delta for csn and returns
// its handle. The caller must later call Materialize with this handle
// exactly once.
func (g *Group) PublishPlaceholder(csn int64) *Delta {
	g.mu.Lock()
	defer g.mu.Unlock()
	d := newDelta(csn, codec.PlaceholderPayload())
	d.next.Store(g.head.Load())
	g.head.Store(d)
	return d
}

// Materialize encodes original against the group's reference, installs it
// as d's payload, and propagates d's bits into any already-materialized,
// strictly newer sibling that sits above d in the chain with no
// placeholder gap in between - the barrier that keeps out-of-order
// materialization consistent. It returns the number of siblings the
// propagation pass updated.
//
// d must be a handle previously returned by PublishPlaceholder on this
// same group.
func (g *Group) Materialize(d *Delta, original *codec.Bitmap) int {
	payload := codec.Encode(original, &g.reference)

	g.mu.Lock()
	defer g.mu.Unlock()

	var start *Delta
	startCSN := int64(-1)
	for cur := g.head.Load(); cur != nil && cur != d; cur = cur.Next() {
		if cur.Payload().Encoding() == codec.Placeholder {
			start = nil
			startCSN = -1
			continue
		}
		if start == nil {
			start = cur
			startCSN = cur.CSN()
		}
	}

	siblingsUpdated := 0
	if start != nil && payload.Encoding() == codec.Sparse {
		for cur := start; cur != nil && cur != d; cur = cur.Next() {
			cp := cur.Payload()
			if cp.Encoding() != codec.Sparse {
				continue
			}
			merged := codec.SparsePayload(sortedset.Union(cp.Positions(), payload.Positions()))
			cur.payload.Store(&merged)
			siblingsUpdated++
		}
	}

	d.payload.Store(&payload)
	g.materializedCount++

	finalCSN := d.csn
	if start != nil {
		finalCSN = startCSN
	}
	if finalCSN > g.hi.Load() {
		g.hi.Store(finalCSN)
	}
	return siblingsUpdated
}

// Lookup returns the reconstructed bitmap for csn, if a materialized delta
// for it exists in this group. It never blocks: only atomic loads.
func (g *Group) Lookup(csn int64) (codec.Bitmap, bool) {
	for cur := g.head.Load(); cur != nil; cur = cur.Next() {
		if cur.CSN() != csn {
			continue
		}
		p := cur.Payload()
		if p.Encoding() == codec.Placeholder {
			return codec.Bitmap{}, false
		}
		img, err := codec.Decode(&g.reference, p)
		if err != nil {
			return codec.Bitmap{}, false
		}
		return img, true
	}
	return codec.Bitmap{}, false
}

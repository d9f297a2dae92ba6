package chain

import (
	"sync"
	"sync/atomic"

	"github.com/hexadb/bitvis/codec"
	"github.com/hexadb/bitvis/group"
)

// DefaultMaxGroupSize is the number of deltas - including the opening
// delta - a group accepts before the next insert opens a new group.
const DefaultMaxGroupSize = 9

// Option configures a Controller at construction time.
type Option func(*options)

type options struct {
	maxGroupSize int
}

// WithMaxGroupSize overrides DefaultMaxGroupSize.
func WithMaxGroupSize(n int) Option {
	return func(o *options) { o.maxGroupSize = n }
}

// Controller is the chain of groups and the insert/read protocol over it.
type Controller struct {
	maxGroupSize int

	headLock sync.Mutex
	head     atomic.Pointer[group.Group]

	capLock        sync.Mutex
	headGroupCount int
	lastCSN        int64
	haveLastCSN    bool
}

// New builds an empty chain. The first insert always opens a new group:
// headGroupCount bootstraps at maxGroupSize, the same starting state the
// reference controller uses.
func New(opts ...Option) *Controller {
	o := options{maxGroupSize: DefaultMaxGroupSize}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller{maxGroupSize: o.maxGroupSize}
	c.headGroupCount = o.maxGroupSize
	return c
}

// Handle identifies one reserved delta for the later InsertContent call.
// A nil Handle.delta marks a group-opener, whose content was already
// published synchronously by InsertPlaceholder.
type Handle struct {
	group  *group.Group
	delta  *group.Delta
	csn    int64
	opened bool
}

// Opened reports whether this handle came from an insert that opened a
// new group, in which case its content was already published and it must
// not be passed to InsertContent.
func (h *Handle) Opened() bool { return h.opened }

// InsertPlaceholder reserves a slot for csn: either prepending a
// placeholder delta to the current head group, or opening a new group
// with image as its reference when the head group is full (or does not
// exist yet). csn must strictly exceed every CSN previously submitted to
// this chain.
func (c *Controller) InsertPlaceholder(csn int64, image *codec.Bitmap) (*Handle, error) {
	c.capLock.Lock()
	if c.haveLastCSN && csn <= c.lastCSN {
		c.capLock.Unlock()
		return nil, ErrNonMonotonicCSN
	}
	c.lastCSN = csn
	c.haveLastCSN = true

	openNew := c.headGroupCount >= c.maxGroupSize
	if openNew {
		c.headGroupCount = 1
	} else {
		c.headGroupCount++
	}
	c.capLock.Unlock()

	if openNew {
		g := group.New(csn, *image)
		c.headLock.Lock()
		g.SetNext(c.head.Load())
		c.head.Store(g)
		c.headLock.Unlock()
		return &Handle{group: g, csn: csn, opened: true}, nil
	}

	g := c.head.Load()
	d := g.PublishPlaceholder(csn)
	return &Handle{group: g, delta: d, csn: csn}, nil
}

// InsertContent materializes the reservation h holds, encoding image
// against h's group reference and propagating it into the group per
// group.Materialize. It returns the number of sibling deltas the
// propagation pass updated. It returns ErrOpenerHandle if h came from an
// insert that opened a new group.
func (c *Controller) InsertContent(h *Handle, image *codec.Bitmap) (int, error) {
	if h == nil || h.opened {
		return 0, ErrOpenerHandle
	}
	return h.group.Materialize(h.delta, image), nil
}

// Get reconstructs the bitmap visible at csn, if any. It walks groups
// newest-first: a group whose Lo exceeds csn is skipped toward older
// groups, but a group whose Hi is below csn ends the search immediately -
// every older group covers only lower CSNs, so csn was either never
// inserted or its placeholder has not materialized yet, and it is
// reported as not found. This trades a false negative during concurrent
// materialization for a lock-free read path.
func (c *Controller) Get(csn int64) (codec.Bitmap, bool) {
	for g := c.head.Load(); g != nil; g = g.Next() {
		if csn < g.Lo() {
			continue
		}
		if csn > g.Hi() {
			return codec.Bitmap{}, false
		}
		return g.Lookup(csn)
	}
	return codec.Bitmap{}, false
}

// Walk invokes fn for every group, newest first, passing its CSN range
// and materialized delta count. Walk stops early if fn returns false.
func (c *Controller) Walk(fn func(lo, hi int64, deltaCount int) bool) {
	for g := c.head.Load(); g != nil; g = g.Next() {
		if !fn(g.Lo(), g.Hi(), g.MaterializedCount()) {
			return
		}
	}
}

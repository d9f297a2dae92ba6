package bitvis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hexadb/bitvis/chain"
	"github.com/hexadb/bitvis/codec"
	"github.com/hexadb/bitvis/retention"
)

// Re-exported so callers need only import this package for the common
// path.
const (
	BitmapSize      = codec.BitmapSize
	SparseThreshold = codec.SparseThreshold
)

// Bitmap is a fixed-width visibility image.
type Bitmap = codec.Bitmap

// Handle identifies a reservation made by InsertPlaceholder, to be passed
// to the later InsertContent call.
type Handle struct {
	inner  *chain.Handle
	csn    int64
	opened bool
}

// Store is a chain of groups of version deltas, indexed by CSN.
type Store struct {
	id      uuid.UUID
	chain   *chain.Controller
	logger  *Logger
	metrics MetricsCollector

	resource *retention.Controller
	hook     *retention.Hook
}

// New builds an empty Store. activeCSNs, if non-nil, is consulted by
// Sweep to learn which CSNs are still active; passing nil disables Sweep
// (ErrRetentionDisabled).
func New(activeCSNs retention.ActiveCSNProvider, opts ...Option) *Store {
	o := applyOptions(opts)

	id := uuid.New()
	logger := o.logger
	if logger == nil {
		logger = NoopLogger()
	}
	logger = logger.WithStoreID(id.String())

	metrics := o.metricsCollector
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	s := &Store{
		id:      id,
		chain:   chain.New(chain.WithMaxGroupSize(o.maxGroupSize)),
		logger:  logger,
		metrics: metrics,
	}
	if o.haveResourceConfig {
		s.resource = retention.NewController(o.resourceConfig)
	}
	if activeCSNs != nil {
		s.hook = retention.NewHook(activeCSNs)
	}
	return s
}

// ID returns this store instance's unique identifier.
func (s *Store) ID() uuid.UUID { return s.id }

// InsertPlaceholder reserves csn's position in the chain: either
// prepending an empty placeholder to the current head group, or opening a
// new group with image as its reference if the head group is full. csn
// must strictly exceed every CSN previously submitted to this store.
//
// The returned Handle must be passed to exactly one later InsertContent
// call, unless this insert opened a new group - an opener's content is
// already published by this call, and InsertContent on its handle returns
// ErrOpenerHandle.
func (s *Store) InsertPlaceholder(csn int64, image *Bitmap) (*Handle, error) {
	start := time.Now()
	h, err := s.chain.InsertPlaceholder(csn, image)
	if err != nil {
		s.logger.LogPlaceholder(context.Background(), csn, false, err)
		s.metrics.RecordPlaceholder(time.Since(start), err)
		return nil, translateError(err)
	}

	s.logger.LogPlaceholder(context.Background(), csn, h.Opened(), nil)
	s.metrics.RecordPlaceholder(time.Since(start), nil)
	if h.Opened() {
		s.logger.LogGroupOpen(context.Background(), csn)
		s.metrics.RecordGroupOpen()
	}
	return &Handle{inner: h, csn: csn, opened: h.Opened()}, nil
}

// InsertContent materializes the reservation h holds: encoding image
// against h's group reference and propagating it into already-
// materialized, strictly newer siblings. It returns ErrOpenerHandle if h
// came from an insert that opened a new group.
//
// If the store was built with WithConcurrencyLimit, this call blocks
// (subject to ctx) until a materialization slot is free.
func (s *Store) InsertContent(ctx context.Context, h *Handle, image *Bitmap) error {
	if h == nil || h.opened {
		return translateError(chain.ErrOpenerHandle)
	}

	if s.resource != nil {
		release, err := s.resource.AcquireMaterialize(ctx)
		if err != nil {
			return err
		}
		defer release()
	}

	start := time.Now()
	siblingsUpdated, err := s.chain.InsertContent(h.inner, image)
	s.logger.LogMaterialize(ctx, h.csn, err)
	s.metrics.RecordMaterialize(time.Since(start), err)
	if err != nil {
		return translateError(err)
	}

	s.logger.LogPropagation(ctx, h.csn, siblingsUpdated)
	s.metrics.RecordPropagation(siblingsUpdated)
	return nil
}

// Get reconstructs the bitmap visible at csn, if any. It never blocks
// behind a writer.
func (s *Store) Get(csn int64) (Bitmap, bool) {
	start := time.Now()
	img, ok := s.chain.Get(csn)
	s.logger.LogRead(context.Background(), csn, ok)
	s.metrics.RecordRead(ok, time.Since(start))
	return img, ok
}

// Sweep reports which groups could be reclaimed given the active-CSN
// floor, without reclaiming anything. It returns ErrRetentionDisabled if
// the store was built without an ActiveCSNProvider.
func (s *Store) Sweep(ctx context.Context) (retention.SweepReport, error) {
	if s.hook == nil {
		return retention.SweepReport{}, ErrRetentionDisabled
	}
	if s.resource != nil {
		if err := s.resource.WaitSweep(ctx); err != nil {
			return retention.SweepReport{}, err
		}
	}
	report, err := s.hook.Sweep(ctx, s.chain)
	s.logger.LogSweep(ctx, report.GroupsReclaimable, report.DeltasReclaimable, err)
	s.metrics.RecordSweep(report.GroupsReclaimable, report.DeltasReclaimable, err)
	return report, err
}

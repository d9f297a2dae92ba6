package retention

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// SweepReport summarizes what a retention sweep could reclaim against the
// current active-CSN floor. It reclaims nothing itself.
type SweepReport struct {
	GroupsReclaimable int
	DeltasReclaimable int
	OldestActiveCSN   int64
	HasActiveCSN      bool
}

// ChainView is the minimal read surface Hook needs. chain.Controller
// satisfies it; the interface exists so this package does not import
// chain and create a cycle.
type ChainView interface {
	// Walk invokes fn for every group, newest first, until fn returns
	// false.
	Walk(fn func(lo, hi int64, deltaCount int) bool)
}

// Hook reports retention candidates against a live ActiveCSNProvider.
// Concurrent Sweep calls collapse onto a single in-flight computation.
type Hook struct {
	active ActiveCSNProvider
	flight singleflight.Group
}

// NewHook builds a Hook reading active CSNs from active.
func NewHook(active ActiveCSNProvider) *Hook {
	return &Hook{active: active}
}

// Sweep reports groups whose entire CSN range falls below the oldest
// currently active CSN. No group is modified or deleted: the merge/GC
// policy for actually reclaiming them is not implemented.
func (h *Hook) Sweep(ctx context.Context, chain ChainView) (SweepReport, error) {
	v, err, _ := h.flight.Do("sweep", func() (interface{}, error) {
		set, err := NewActiveCSNSet(h.active.ActiveCSNs())
		if err != nil {
			return SweepReport{}, err
		}
		return h.sweep(set, chain), nil
	})
	if err != nil {
		return SweepReport{}, err
	}
	return v.(SweepReport), nil
}

func (h *Hook) sweep(active *ActiveCSNSet, chain ChainView) SweepReport {
	var report SweepReport
	floor, ok := active.Oldest()
	report.HasActiveCSN = ok
	report.OldestActiveCSN = floor
	if !ok {
		return report
	}
	chain.Walk(func(lo, hi int64, deltaCount int) bool {
		if hi < floor {
			report.GroupsReclaimable++
			report.DeltasReclaimable += deltaCount
		}
		return true
	})
	return report
}

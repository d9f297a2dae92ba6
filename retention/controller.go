package retention

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ControllerConfig bounds the background work a store performs outside
// the insert path: how many materializations may run concurrently, and
// how often a sweep may run. Zero means unlimited.
type ControllerConfig struct {
	MaxConcurrentMaterializations int64
	SweepRatePerSecond            float64
}

// Controller throttles phase-3 materialization and retention sweeps so
// neither can starve the host process under load.
type Controller struct {
	materializeSem *semaphore.Weighted
	sweepLimiter   *rate.Limiter
}

// NewController builds a Controller from cfg.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{}
	if cfg.MaxConcurrentMaterializations > 0 {
		c.materializeSem = semaphore.NewWeighted(cfg.MaxConcurrentMaterializations)
	}
	if cfg.SweepRatePerSecond > 0 {
		c.sweepLimiter = rate.NewLimiter(rate.Limit(cfg.SweepRatePerSecond), 1)
	}
	return c
}

// AcquireMaterialize blocks, subject to ctx, until a materialization slot
// is free. The caller must invoke the returned release func exactly once
// when the encode-and-propagate phase finishes.
func (c *Controller) AcquireMaterialize(ctx context.Context) (release func(), err error) {
	if c.materializeSem == nil {
		return func() {}, nil
	}
	if err := c.materializeSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { c.materializeSem.Release(1) }, nil
}

// WaitSweep blocks, subject to ctx, until the sweep rate limiter admits
// another sweep.
func (c *Controller) WaitSweep(ctx context.Context) error {
	if c.sweepLimiter == nil {
		return nil
	}
	return c.sweepLimiter.Wait(ctx)
}

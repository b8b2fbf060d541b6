// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sigvectors.
//
// go-sigvectors is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"context"
	"runtime"
	"time"
)

// ResourceCollector periodically samples goroutine count and heap usage
// while a run is in flight. The peak goroutine count is a rough measure of
// how many case chains were live at once.
type ResourceCollector struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	done     chan struct{}
	peak     int
}

// NewResourceCollector creates a collector sampling at interval.
//
// Example:
//
//	collector := metrics.NewResourceCollector(ctx, 50*time.Millisecond)
//	go collector.Start()
//	defer collector.Stop()
func NewResourceCollector(ctx context.Context, interval time.Duration) *ResourceCollector {
	collectorCtx, cancel := context.WithCancel(ctx)
	return &ResourceCollector{
		ctx:      collectorCtx,
		cancel:   cancel,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start samples until Stop is called or the parent context is cancelled.
// It blocks and should be run in a goroutine.
func (rc *ResourceCollector) Start() {
	defer close(rc.done)

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	rc.collect()

	for {
		select {
		case <-rc.ctx.Done():
			return
		case <-ticker.C:
			rc.collect()
		}
	}
}

// Stop halts the collector and waits for the sampling loop to exit.
func (rc *ResourceCollector) Stop() {
	rc.cancel()
	<-rc.done
}

// Peak returns the highest goroutine count observed. Only valid after Stop.
func (rc *ResourceCollector) Peak() int {
	return rc.peak
}

func (rc *ResourceCollector) collect() {
	n := runtime.NumGoroutine()
	if n > rc.peak {
		rc.peak = n
	}
	if !IsEnabled() {
		return
	}
	Goroutines.Set(float64(n))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	MemoryAllocBytes.Set(float64(memStats.Alloc))
}

// CollectOnce performs a single collection of resource metrics.
func CollectOnce() {
	if !IsEnabled() {
		return
	}

	Goroutines.Set(float64(runtime.NumGoroutine()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	MemoryAllocBytes.Set(float64(memStats.Alloc))
}

// StartResourceCollector creates and starts a collector in the background.
func StartResourceCollector(ctx context.Context, interval time.Duration) *ResourceCollector {
	collector := NewResourceCollector(ctx, interval)
	go collector.Start()
	return collector
}

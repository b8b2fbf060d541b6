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

// Package metrics provides Prometheus instrumentation for conformance runs.
// It counts crypto engine operations, case outcomes and runs, and can write
// the collected series to a node_exporter textfile once a run finishes.
package metrics

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all sigvectors metrics
	Namespace = "sigvectors"

	// Label names
	LabelOperation = "operation"
	LabelEngine    = "engine"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelCase      = "case"
	LabelSet       = "set"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPass    = "pass"
	StatusFail    = "fail"

	// Operation names
	OpImport = "import"
	OpSign   = "sign"
	OpVerify = "verify"
)

var (
	// OperationsTotal tracks engine operations by type, engine, and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of crypto engine operations by type, engine, and status",
		},
		[]string{LabelOperation, LabelEngine, LabelStatus},
	)

	// OperationDuration tracks engine operation latency in seconds.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of crypto engine operations in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{LabelOperation, LabelEngine},
	)

	// ErrorsTotal tracks engine rejections by error category.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of crypto engine rejections by operation, engine, and error type",
		},
		[]string{LabelOperation, LabelEngine, LabelErrorType},
	)

	// CasesTotal tracks reported conformance cases by case kind and outcome.
	CasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cases_total",
			Help:      "Total number of conformance cases by kind and outcome",
		},
		[]string{LabelCase, LabelStatus},
	)

	// VectorsLoaded is the size of the loaded corpus by set (passing, failing).
	VectorsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "vectors_loaded",
			Help:      "Number of test vectors loaded by set",
		},
		[]string{LabelSet},
	)

	// RunsTotal counts completed harness runs.
	RunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Total number of completed conformance runs",
		},
	)

	// RunDuration is the wall time of the last run in seconds.
	RunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last conformance run in seconds",
		},
	)

	// Goroutines tracks the current number of goroutines.
	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	// MemoryAllocBytes tracks the current bytes of allocated heap objects.
	MemoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Current bytes of allocated heap objects",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records an engine operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	sig, err := engine.Sign(ctx, alg, key, data).Wait()
//	status := metrics.StatusSuccess
//	if err != nil {
//	    status = metrics.StatusError
//	}
//	metrics.RecordOperation(metrics.OpSign, "software", status, time.Since(start).Seconds())
func RecordOperation(operation, engine, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, engine, status).Inc()
	OperationDuration.WithLabelValues(operation, engine).Observe(duration)
}

// RecordError records an engine rejection by its error category name.
func RecordError(operation, engine, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, engine, errorType).Inc()
}

// RecordCase records the outcome of one reported conformance case.
func RecordCase(caseKind string, passed bool) {
	if !enabled.Load() {
		return
	}
	status := StatusPass
	if !passed {
		status = StatusFail
	}
	CasesTotal.WithLabelValues(caseKind, status).Inc()
}

// SetVectorsLoaded sets the number of loaded vectors for a set.
func SetVectorsLoaded(set string, count int) {
	if !enabled.Load() {
		return
	}
	VectorsLoaded.WithLabelValues(set).Set(float64(count))
}

// RecordRun records a completed run and its duration in seconds.
func RecordRun(duration float64) {
	if !enabled.Load() {
		return
	}
	RunsTotal.Inc()
	RunDuration.Set(duration)
}

// WriteTextfile writes every registered series to path in the Prometheus
// text exposition format, for pickup by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	CollectOnce()
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}

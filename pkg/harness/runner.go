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

// Package harness runs the sign/verify conformance cases for every vector
// in a corpus against a subtle.Subtle engine.
//
// Each case materializes its own clone of the vector, runs its operation
// chain, and reports a single outcome. Cases share nothing but the
// read-only corpus, so one failing case never affects another. The run
// waits for every case and then signals the Reporter exactly once.
package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/correlation"
	"github.com/jeremyhahn/go-sigvectors/pkg/logging"
	"github.com/jeremyhahn/go-sigvectors/pkg/metrics"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle"
	"github.com/jeremyhahn/go-sigvectors/pkg/validation"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

// ImportStepPrefix names the synthetic case registered when a vector's
// keys cannot be materialized.
const ImportStepPrefix = "importVectorKeys step: "

// importCaseLabel is the metrics label for synthetic import failures.
const importCaseLabel = "importVectorKeys"

// Reporter receives the outcome of every case.
type Reporter interface {
	// RegisterCase runs body and records its outcome under name. It
	// returns once body has returned. It is called concurrently.
	RegisterCase(name string, body func(ctx context.Context) error)

	// Done signals that every case has been registered and settled.
	Done()
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithCaseKinds restricts the run to the given kinds.
func WithCaseKinds(kinds ...CaseKind) Option {
	return func(r *Runner) {
		r.kinds = kinds
	}
}

// Runner drives a corpus through an engine.
type Runner struct {
	engine       subtle.Subtle
	reporter     Reporter
	materializer *Materializer
	logger       *logging.Logger
	kinds        []CaseKind
}

// NewRunner creates a Runner.
func NewRunner(engine subtle.Subtle, reporter Reporter, opts ...Option) *Runner {
	r := &Runner{
		engine:       engine,
		reporter:     reporter,
		materializer: NewMaterializer(engine),
		logger:       logging.Discard(),
		kinds:        AllCaseKinds(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run launches every applicable case for every passing vector, waits for
// all of them, then calls Reporter.Done exactly once. The returned future
// never rejects; failures are reported per case. Failing vectors are
// counted but not executed.
func (r *Runner) Run(ctx context.Context, store *vectors.Store) *async.Future[struct{}] {
	ctx, runID := correlation.Ensure(ctx)
	logger := r.logger.With(correlation.LogAttr, runID)

	return async.Go(func() (struct{}, error) {
		var once sync.Once
		done := func() { once.Do(r.reporter.Done) }
		defer done()
		defer func() {
			if p := recover(); p != nil {
				logger.Errorf("run aggregation faulted: %v", p)
			}
		}()

		r.run(ctx, logger, store)
		done()
		return struct{}{}, nil
	})
}

func (r *Runner) run(ctx context.Context, logger *logging.Logger, store *vectors.Store) {
	start := time.Now()

	passing := store.Passing()
	_, failingCount := store.Counts()
	metrics.SetVectorsLoaded("passing", len(passing))
	metrics.SetVectorsLoaded("failing", failingCount)
	logger.Info("starting run", "passing", len(passing), "failing", failingCount)

	var units []async.Settler
	for _, v := range passing {
		for _, c := range Cases(v, r.kinds) {
			units = append(units, r.launch(ctx, logger, c))
		}
	}

	errs, _ := async.JoinAll(units...).Wait()
	failed := async.CountErrors(errs)

	elapsed := time.Since(start)
	metrics.RecordRun(elapsed.Seconds())
	logger.Info("run complete",
		"cases", len(units),
		"failed", failed,
		"duration", elapsed)
}

// launch materializes the case's vector and registers the case. The
// returned future settles with the case's outcome once the reporter has
// run it.
func (r *Runner) launch(ctx context.Context, logger *logging.Logger, c Case) *async.Future[struct{}] {
	log := logger.With("case", c.Name)

	setup, pubUsages, privUsages := c.Setup()
	mf := r.materializer.Materialize(ctx, setup, pubUsages, privUsages)

	return async.Go(func() (struct{}, error) {
		mv, err := mf.Wait()
		if err != nil {
			name := c.ImportStepName()
			log.Warn("key materialization failed", "error", validation.SanitizeForLog(err.Error()))
			metrics.RecordCase(importCaseLabel, false)
			r.reporter.RegisterCase(name, func(context.Context) error { return err })
			return struct{}{}, err
		}

		var caseErr error
		r.reporter.RegisterCase(c.Name, func(bodyCtx context.Context) error {
			log.Debug("case started")
			caseErr = runCase(correlation.WithRunID(bodyCtx, correlation.GetRunID(ctx)), r.engine, c, mv)
			return caseErr
		})

		metrics.RecordCase(c.Kind.String(), caseErr == nil)
		if caseErr != nil {
			log.Warn("case failed", "error", validation.SanitizeForLog(caseErr.Error()))
		}
		return struct{}{}, caseErr
	})
}

// runCase converts a panic in a case body into that case's failure.
func runCase(ctx context.Context, engine subtle.Subtle, c Case, mv *vectors.TestVector) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", async.ErrPanic, p)
		}
	}()
	return c.Run(ctx, engine, mv)
}

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

// Package report collects case outcomes from a harness run and renders
// them as text, JSON or a table.
package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jeremyhahn/go-sigvectors/pkg/async"
	"github.com/jeremyhahn/go-sigvectors/pkg/correlation"
	"github.com/jeremyhahn/go-sigvectors/pkg/logging"
)

// Result is the outcome of one case.
type Result struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Summary is the outcome of a run.
type Summary struct {
	RunID    string        `json:"run_id,omitempty"`
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration_ns"`
	Results  []Result      `json:"results"`
}

// OK reports whether every case passed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

// Failures returns the failed results.
func (s Summary) Failures() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Reporter runs registered case bodies and records their outcomes. It
// implements harness.Reporter.
type Reporter struct {
	ctx    context.Context
	logger *logging.Logger

	mu        sync.Mutex
	results   []Result
	started   time.Time
	finished  time.Time
	doneCalls int

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a Reporter. ctx is passed to every case body.
func New(ctx context.Context, logger *logging.Logger) *Reporter {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reporter{
		ctx:     ctx,
		logger:  logger,
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// RegisterCase runs body and records its outcome. A panic in body is
// recorded as a failure.
func (r *Reporter) RegisterCase(name string, body func(ctx context.Context) error) {
	start := time.Now()
	err := runBody(r.ctx, body)

	result := Result{
		Name:     name,
		Passed:   err == nil,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Error = err.Error()
		r.logger.Debug("case failed", "case", name, "error", err)
	}

	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
}

// Done marks the run complete. Calls after the first are counted but
// otherwise ignored.
func (r *Reporter) Done() {
	r.mu.Lock()
	r.doneCalls++
	r.mu.Unlock()

	r.doneOnce.Do(func() {
		r.mu.Lock()
		r.finished = time.Now()
		r.mu.Unlock()
		close(r.done)
	})
}

// Finished is closed when Done is first called.
func (r *Reporter) Finished() <-chan struct{} {
	return r.done
}

// DoneCalls returns how many times Done was called.
func (r *Reporter) DoneCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneCalls
}

// Summary returns the results recorded so far, sorted by name.
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	results := make([]Result, len(r.results))
	copy(results, r.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	end := r.finished
	if end.IsZero() {
		end = time.Now()
	}

	s := Summary{
		RunID:    correlation.GetRunID(r.ctx),
		Total:    len(results),
		Duration: end.Sub(r.started),
		Results:  results,
	}
	for _, res := range results {
		if res.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

func runBody(ctx context.Context, body func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", async.ErrPanic, p)
		}
	}()
	return body(ctx)
}

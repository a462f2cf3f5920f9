// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"errors"
	"iter"
	"runtime"
	"time"

	"keyrecover/internal/derive"
	"keyrecover/internal/generator"
	"keyrecover/internal/observability"
)

const (
	maxBatchSize = 4096
	// batches per worker the auto batch size aims for
	batchesPerWorker = 16
)

// ProgressCallback is called after every completed batch
type ProgressCallback func(tested, total uint64)

// Searcher runs a candidate space against a target on a worker pool
type Searcher struct {
	Workers   int // 0 means runtime.NumCPU()
	BatchSize int // 0 means sized from the space and the worker count
	Policy    Policy
	Observer  *observability.StandardObserver
	Progress  ProgressCallback
}

// NewSearcher creates a searcher with default sizing
func NewSearcher(policy Policy, observer *observability.StandardObserver) *Searcher {
	return &Searcher{Policy: policy, Observer: observer}
}

// Search evaluates space against target and returns exactly one outcome.
// Derivation failures count as non-matches. A cancelled ctx ends the search
// with Interrupted set and no error.
func (s *Searcher) Search(ctx context.Context, space generator.Space, target string, deriver derive.AddressDeriver) (*Outcome, error) {
	if space == nil || deriver == nil {
		return nil, errors.New("search needs a candidate space and a deriver")
	}
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if s.Observer != nil {
		finishTiming = s.Observer.StartTiming("searcher", "search", target)
	}

	total := space.Len()
	workers := s.workerCount(total)
	batch := s.batchSize(total, workers)

	pool := NewWorkerPool(ctx, workers, Task{
		Space:   space,
		Target:  target,
		Deriver: deriver,
		Policy:  s.Policy,
	}, s.Observer)
	pool.Start()

	// Dispatch in a separate goroutine so results are drained concurrently
	go func() {
		defer pool.CloseJobs()
		id := 0
		for lo, hi := range batches(total, batch) {
			if !pool.Submit(&Job{JobID: id, Start: lo, End: hi}) {
				return
			}
			id++
		}
	}()
	go pool.Stop()

	outcome := &Outcome{Total: total, Workers: workers}
	for result := range pool.Results() {
		outcome.Tested += result.Tested
		for kind, n := range result.Failures {
			outcome.Failures += n
			if outcome.FailuresByKind == nil {
				outcome.FailuresByKind = make(map[string]uint64)
			}
			outcome.FailuresByKind[kind.String()] += n
		}
		if s.Progress != nil {
			s.Progress(outcome.Tested, total)
		}
	}

	outcome.Matches = pool.Matches()
	outcome.Stopped = pool.Stopped()
	outcome.Interrupted = ctx.Err() != nil && !outcome.Stopped && outcome.Tested < total
	outcome.Duration = time.Since(start)

	if finishTiming != nil {
		finishTiming(outcome.Matched(), map[string]interface{}{
			"total":       total,
			"tested":      outcome.Tested,
			"failures":    outcome.Failures,
			"matches":     len(outcome.Matches),
			"workers":     workers,
			"batch_size":  batch,
			"policy":      s.Policy.String(),
			"interrupted": outcome.Interrupted,
			"duration_ms": outcome.Duration.Milliseconds(),
		})
	}
	return outcome, nil
}

func (s *Searcher) workerCount(total uint64) int {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if total > 0 && uint64(workers) > total {
		workers = int(total)
	}
	return max(workers, 1)
}

// batches yields the half-open ranges [lo, hi) covering [0, total) in steps
// of size. The last range ends exactly at total, even near the uint64 limit.
func batches(total, size uint64) iter.Seq2[uint64, uint64] {
	return func(yield func(uint64, uint64) bool) {
		if size == 0 {
			size = 1
		}
		for lo := uint64(0); lo < total; {
			hi := total
			if total-lo > size {
				hi = lo + size
			}
			if !yield(lo, hi) || hi == total {
				return
			}
			lo = hi
		}
	}
}

// batchSize keeps every worker fed with several batches while bounding how
// much work is wasted after a stop
func (s *Searcher) batchSize(total uint64, workers int) uint64 {
	if s.BatchSize > 0 {
		return uint64(s.BatchSize)
	}
	size := total / uint64(workers*batchesPerWorker)
	return min(max(size, 1), maxBatchSize)
}

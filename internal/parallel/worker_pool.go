// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"keyrecover/internal/derive"
	"keyrecover/internal/generator"
	"keyrecover/internal/observability"
)

// Task is the shared, read-only input of every worker
type Task struct {
	Space   generator.Space
	Target  string
	Deriver derive.AddressDeriver
	Policy  Policy
}

// Job is a contiguous index range [Start, End) of the candidate space
type Job struct {
	JobID int
	Start uint64
	End   uint64
}

// Result is the per-batch summary sent back by a worker
type Result struct {
	JobID    int
	Tested   uint64
	Failures map[derive.Kind]uint64
	Matches  int
	Duration time.Duration
}

type match struct {
	index     uint64
	candidate string
}

// WorkerPool evaluates candidate batches on a fixed number of goroutines
type WorkerPool struct {
	workers  int
	task     Task
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	observer *observability.StandardObserver

	stopped atomic.Bool
	mu      sync.Mutex
	matches []match
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx stops the
// workers between candidates.
func NewWorkerPool(ctx context.Context, workers int, task Task, observer *observability.StandardObserver) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workers:  workers,
		task:     task,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for the workers to drain the job queue and closes the results
// channel. CloseJobs must have been called.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit queues a job. It returns false once the pool has stopped on a
// match or its context is done; nothing further should be submitted then.
func (wp *WorkerPool) Submit(job *Job) bool {
	if wp.Halted() {
		return false
	}
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// CloseJobs signals that no more jobs will be submitted
func (wp *WorkerPool) CloseJobs() {
	close(wp.jobs)
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// Halted reports whether the stop flag is set or the context is done
func (wp *WorkerPool) Halted() bool {
	return wp.stopped.Load() || wp.ctx.Err() != nil
}

// Stopped reports whether the pool stopped early on a match
func (wp *WorkerPool) Stopped() bool {
	return wp.stopped.Load()
}

// Matches returns the recorded matches in generation order
func (wp *WorkerPool) Matches() []string {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	sorted := make([]match, len(wp.matches))
	copy(sorted, wp.matches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })

	out := make([]string, len(sorted))
	for i, m := range sorted {
		out[i] = m.candidate
	}
	return out
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	// Jobs are drained even after a halt so the dispatcher never blocks;
	// processJob returns immediately in that case.
	for job := range wp.jobs {
		result := wp.processJob(job)
		wp.results <- result
	}
}

// processJob evaluates every candidate of the job until the pool halts
func (wp *WorkerPool) processJob(job *Job) *Result {
	start := time.Now()
	result := &Result{JobID: job.JobID}

	var finishTiming func(bool, map[string]interface{})
	if wp.observer != nil && wp.observer.Level() == observability.ObservabilityDebug {
		finishTiming = wp.observer.StartTiming("worker_pool", "process_job", wp.task.Target)
	}

	for i := job.Start; i < job.End; i++ {
		if wp.Halted() {
			break
		}

		candidate := wp.task.Space.At(i)
		addr, err := wp.task.Deriver.Derive(candidate)
		result.Tested++
		if err != nil {
			if result.Failures == nil {
				result.Failures = make(map[derive.Kind]uint64)
			}
			result.Failures[derive.KindOf(err)]++
			continue
		}
		if addr != wp.task.Target {
			continue
		}

		if wp.task.Policy == ScanAll {
			wp.record(i, candidate)
			result.Matches++
			continue
		}
		// Only the first match to flip the flag is kept
		if wp.stopped.CompareAndSwap(false, true) {
			wp.record(i, candidate)
			result.Matches++
		}
		break
	}

	result.Duration = time.Since(start)
	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{
			"job_id":  job.JobID,
			"start":   job.Start,
			"end":     job.End,
			"tested":  result.Tested,
			"matches": result.Matches,
		})
	}
	return result
}

func (wp *WorkerPool) record(index uint64, candidate string) {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	wp.matches = append(wp.matches, match{index: index, candidate: candidate})
}

package engine

import (
	"context"
	"sync"

	"husky/internal/domain"
)

// CaseRunner runs one test case on behalf of a worker
type CaseRunner interface {
	Run(ctx context.Context, tc domain.TestCase, workerID int) domain.TestEvent
}

// WorkerPool manages a pool of workers for parallel test execution
type WorkerPool struct {
	runner    CaseRunner
	scheduler Scheduler
	workers   int
	failFast  bool
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(runner CaseRunner, scheduler Scheduler, workers int, failFast bool) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		runner:    runner,
		scheduler: scheduler,
		workers:   workers,
		failFast:  failFast,
	}
}

// Execute runs cases across the workers and calls emit for every finished
// case, from the worker's goroutine. Each worker owns the bucket the
// scheduler assigned to it and checks ctx before starting a case.
// Execute returns once all workers have stopped.
func (wp *WorkerPool) Execute(ctx context.Context, cases []domain.TestCase, emit func(domain.TestEvent)) {
	if len(cases) == 0 {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := wp.workers
	if workerCount > len(cases) {
		workerCount = len(cases)
	}
	buckets := wp.scheduler.Schedule(cases, workerCount)

	var wg sync.WaitGroup
	for i, bucket := range buckets {
		wg.Add(1)
		go func(workerID int, bucket []domain.TestCase) {
			defer wg.Done()
			for _, tc := range bucket {
				if runCtx.Err() != nil {
					return
				}
				event := wp.runner.Run(runCtx, tc, workerID)
				// A case killed by cancellation has no meaningful outcome
				if runCtx.Err() != nil {
					return
				}
				emit(event)
				if wp.failFast && event.Outcome == domain.OutcomeFailed {
					cancel()
				}
			}
		}(i+1, bucket)
	}
	wg.Wait()
}

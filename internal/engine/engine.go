// Package engine runs PHPUnit test cases in-process across a pool of workers
// and reports per-test events to a listener.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"husky/internal/artifact"
	"husky/internal/domain"
	"husky/internal/filter"
	"husky/internal/parser"
)

// ResultFilePrefix names the XML documents written by GenerateTestOutput
const ResultFilePrefix = "TestResult_"

// Options configures an Engine
type Options struct {
	Command      string                    // PHPUnit binary
	ProjectPath  string                    // Working directory for every run
	Workers      int                       // Parallel workers
	FailFast     bool                      // Stop dispatching after the first failure
	DatabaseName func(workerID int) string // Per-worker DB_DATABASE, nil to leave unset
}

// Engine runs the discovered cases that match a filter
type Engine struct {
	cases     []domain.TestCase
	runner    CaseRunner
	scheduler Scheduler
	pool      *WorkerPool
	logger    *log.Logger
}

// Option customizes an Engine
type Option func(*Engine)

// WithRunner replaces the PHPUnit runner
func WithRunner(r CaseRunner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithScheduler replaces the round-robin scheduler
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// New creates an Engine over the discovered cases
func New(opts Options, cases []domain.TestCase, logger *log.Logger, options ...Option) *Engine {
	e := &Engine{
		cases:     cases,
		runner:    NewRunner(opts.Command, opts.ProjectPath, opts.DatabaseName, parser.NewPHPUnitParser()),
		scheduler: NewRoundRobinScheduler(),
		logger:    logger,
	}
	for _, opt := range options {
		opt(e)
	}
	e.pool = NewWorkerPool(e.runner, e.scheduler, opts.Workers, opts.FailFast)
	return e
}

// Run executes every case matched by f and forwards each event to listener.
// A cancelled ctx stops dispatch and yields RunCancelled rather than an error.
func (e *Engine) Run(ctx context.Context, listener domain.EventListener, f *filter.Filter) (*domain.EngineRun, error) {
	if f == nil {
		f = filter.Empty
	}
	selected := f.Select(e.cases)

	run := &domain.EngineRun{StartTime: time.Now()}
	e.logger.Debug("Engine run starting", "cases", len(selected), "filter", f.String())

	var mu sync.Mutex
	e.pool.Execute(ctx, selected, func(event domain.TestEvent) {
		mu.Lock()
		run.Events = append(run.Events, event)
		mu.Unlock()
		if listener != nil {
			listener.OnTestEvent(event)
		}
	})

	run.EndTime = time.Now()
	if ctx.Err() != nil {
		run.Status = domain.RunCancelled
	}
	e.logger.Debug("Engine run finished",
		"status", run.Status, "events", len(run.Events), "duration", run.Duration())
	return run, nil
}

// GenerateTestOutput writes the run as an XML result document named after
// the assembly into dir
func (e *Engine) GenerateTestOutput(run *domain.EngineRun, assemblyPath, dir string) error {
	if run == nil {
		return fmt.Errorf("no engine run to write")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", dir, err)
	}

	name := filepath.Base(assemblyPath)
	path := filepath.Join(dir, ResultFilePrefix+name+".xml")
	err := artifact.WriteFile(path, artifact.Run{
		Name:      name,
		FullName:  assemblyPath,
		StartTime: run.StartTime,
		EndTime:   run.EndTime,
		Events:    run.Events,
	})
	if err != nil {
		return err
	}

	e.logger.Debug("Wrote test output", "file", path, "tests", len(run.Events))
	return nil
}

package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"husky/internal/artifact"
	"husky/internal/container"
	"husky/internal/domain"
	"husky/internal/filter"
)

// Containerized runs the whole discovered set inside a test container and
// records the results from the document it leaves on the host
type Containerized struct {
	ec *Context
}

var _ Strategy = (*Containerized)(nil)

// NewContainerized creates the containerized strategy
func NewContainerized(ec *Context) *Containerized {
	return &Containerized{ec: ec}
}

func (s *Containerized) Kind() Kind { return KindContainerized }

// ReconcileFilter returns f unchanged
func (s *Containerized) ReconcileFilter(f *filter.Filter, _ *domain.DiscoveredTestSet) *filter.Filter {
	return f
}

// Run builds the image, runs the container to completion and records every
// result found in its output. A failed build aborts before any result is read.
func (s *Containerized) Run(ctx context.Context, _ *filter.Filter, d *domain.DiscoveredTestSet) (ran bool, err error) {
	if s.ec.Containers == nil {
		return false, errors.New("no container runner configured")
	}
	if d.TestConverter == nil {
		return false, errors.New("discovered test set has no result converter")
	}

	assemblyDir := filepath.Dir(d.AssemblyPath)
	assemblyName := filepath.Base(d.AssemblyPath)

	hostDir, err := s.ec.Containers.PrepareResultsDir(assemblyDir)
	if err != nil {
		return false, err
	}

	if err := s.ec.Containers.BuildImage(ctx, assemblyDir); err != nil {
		return false, fmt.Errorf("failed to build test image: %w", err)
	}

	start := time.Now()
	_, err = s.ec.Containers.RunTests(ctx, container.RunSpec{
		AssemblyDir:  assemblyDir,
		AssemblyName: assemblyName,
		HostDir:      hostDir,
		TestNames:    d.FullyQualifiedNames(),
	})
	elapsed := time.Since(start)
	if err != nil {
		return true, fmt.Errorf("failed to run test container: %w", err)
	}

	resultFile, err := s.ec.Containers.ResultFile(hostDir)
	if err != nil {
		return true, err
	}
	// The results dir is shared between runs, so the file goes even when reading it fails
	defer func() {
		if rmErr := os.Remove(resultFile); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to delete result file: %w", rmErr)
		}
	}()
	events, err := artifact.ParseFile(resultFile)
	if err != nil {
		return true, err
	}
	s.ec.Log.Info(fmt.Sprintf("Executed %d test(s) in %dms", len(events), elapsed.Milliseconds()))

	for _, event := range events {
		result := d.TestConverter.Convert(event)
		s.ec.Log.Debug("Recording test",
			"name", event.Name,
			"duration_ms", fmt.Sprintf("%.2f", float64(event.Duration)/float64(time.Millisecond)),
			"result", event.Outcome)
		if s.ec.Recorder == nil {
			continue
		}
		if err := s.ec.Recorder.RecordResult(result); err != nil {
			return true, fmt.Errorf("failed to record %s: %w", event.FullName, err)
		}
	}

	return true, nil
}

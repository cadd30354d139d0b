package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"husky/internal/domain"
)

// Save writes the recorded results and their failures to the configured JSON
// output file and returns what was written.
func (s *JSONStorage) Save(strategy string, duration time.Duration, workers int) (*domain.TestResultsOutput, error) {
	results := s.Results()

	meta := domain.TestResultsMeta{
		RunID:           uuid.NewString(),
		Strategy:        strategy,
		TotalTests:      len(results),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       time.Now().Format(time.RFC3339),
	}

	failures := make([]domain.TestFailure, 0)
	for _, r := range results {
		switch r.Outcome {
		case domain.OutcomePassed:
			meta.PassedTests++
		case domain.OutcomeFailed:
			meta.FailedTests++
			failures = append(failures, toFailure(r))
		case domain.OutcomeSkipped:
			meta.SkippedTests++
		}
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].FullName < failures[j].FullName
	})

	output := &domain.TestResultsOutput{Meta: meta, Details: failures}
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

func toFailure(r domain.TestResult) domain.TestFailure {
	var stack []string
	if r.StackTrace != "" {
		stack = strings.Split(r.StackTrace, "\n")
	}
	return domain.TestFailure{
		TestName:   r.TestCase.Name,
		FullName:   r.TestCase.FullyQualifiedName,
		FilePath:   r.TestCase.FilePath,
		Message:    r.Message,
		StackTrace: stack,
		Output:     r.Output,
		Duration:   r.Duration.Seconds(),
	}
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file (e.g. after
// resolving failures in the viewer).
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

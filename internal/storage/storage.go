package storage

import (
	"sync"
	"time"

	"husky/internal/config"
	"husky/internal/domain"
)

// Storage records results as they arrive and persists a run summary
// (e.g. for the failures viewer).
type Storage interface {
	RecordResult(result domain.TestResult) error
	Results() []domain.TestResult
	Save(strategy string, duration time.Duration, workers int) (*domain.TestResultsOutput, error)
	Load() (*domain.TestResultsOutput, error)
	// SaveOutput writes the full output (e.g. after marking failures resolved).
	SaveOutput(output *domain.TestResultsOutput) error
}

// JSONStorage stores results in a JSON file under the configured output path.
// RecordResult may be called from several goroutines.
type JSONStorage struct {
	cfg *config.Config

	mu      sync.Mutex
	results []domain.TestResult
}

var _ Storage = (*JSONStorage)(nil)

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// RecordResult keeps one finalized result for the next Save
func (s *JSONStorage) RecordResult(result domain.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

// Results returns a copy of the recorded results in arrival order
func (s *JSONStorage) Results() []domain.TestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TestResult, len(s.results))
	copy(out, s.results)
	return out
}

// Recorder accepts finalized results
type Recorder interface {
	RecordResult(result domain.TestResult) error
}

type teeRecorder []Recorder

// Tee forwards every result to each recorder in order, stopping at the first error
func Tee(recorders ...Recorder) Recorder {
	return teeRecorder(recorders)
}

func (t teeRecorder) RecordResult(result domain.TestResult) error {
	for _, r := range t {
		if r == nil {
			continue
		}
		if err := r.RecordResult(result); err != nil {
			return err
		}
	}
	return nil
}

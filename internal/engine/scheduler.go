package engine

import "husky/internal/domain"

// Scheduler distributes test cases across workers
type Scheduler interface {
	Schedule(cases []domain.TestCase, workerCount int) [][]domain.TestCase
}

// RoundRobinScheduler distributes test cases evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes cases evenly across workers using round-robin
func (s *RoundRobinScheduler) Schedule(cases []domain.TestCase, workerCount int) [][]domain.TestCase {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]domain.TestCase, workerCount)
	for i := range distribution {
		distribution[i] = make([]domain.TestCase, 0, len(cases)/workerCount+1)
	}

	for i, tc := range cases {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], tc)
	}

	return distribution
}

// FileScheduler keeps the cases of one test file on the same worker
type FileScheduler struct{}

// NewFileScheduler creates a new FileScheduler
func NewFileScheduler() *FileScheduler {
	return &FileScheduler{}
}

// Schedule assigns whole files round-robin in order of first appearance
func (s *FileScheduler) Schedule(cases []domain.TestCase, workerCount int) [][]domain.TestCase {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]domain.TestCase, workerCount)
	assigned := make(map[string]int)
	next := 0
	for _, tc := range cases {
		idx, ok := assigned[tc.FilePath]
		if !ok {
			idx = next % workerCount
			assigned[tc.FilePath] = idx
			next++
		}
		distribution[idx] = append(distribution[idx], tc)
	}

	return distribution
}

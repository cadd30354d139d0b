package ui

import "husky/internal/domain"

// Viewer displays saved test results
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

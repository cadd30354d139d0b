package parser

import "husky/internal/domain"

// Failure is the message and stack trace extracted from test output
type Failure struct {
	Message    string
	StackTrace []string
	File       string
	Line       int
}

// Parser reads the console output of a single test case run
type Parser interface {
	// Outcome derives the result from the output and whether the process exited cleanly
	Outcome(output string, success bool) (domain.Outcome, string)
	// ParseFailure extracts the failure reported for testName ("Class::method")
	ParseFailure(output string, testName string) Failure
}

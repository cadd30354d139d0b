package domain

import "time"

// Outcome is the result status of a single executed test case
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePassed
	OutcomeFailed
	OutcomeSkipped
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "Passed"
	case OutcomeFailed:
		return "Failed"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeNotFound:
		return "NotFound"
	default:
		return "None"
	}
}

// TestEvent is a raw per-test outcome as reported by an engine or a result artifact
type TestEvent struct {
	FullName   string
	Name       string
	ClassName  string
	Outcome    Outcome
	Label      string // Engine-specific sub-status, e.g. "Error" or "Incomplete"
	Duration   time.Duration
	StartTime  time.Time
	EndTime    time.Time
	Message    string
	StackTrace string
	Output     []string // Captured output lines
}

// TestResult is a finalized result handed to the result sink
type TestResult struct {
	TestCase   TestCase      `json:"test_case"`
	Outcome    Outcome       `json:"outcome"`
	Duration   time.Duration `json:"duration"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Message    string        `json:"message,omitempty"`
	StackTrace string        `json:"stack_trace,omitempty"`
	Output     []string      `json:"output,omitempty"`
}

// RunStatus is how an in-process engine run ended
type RunStatus int

const (
	RunCompleted RunStatus = iota
	RunCancelled
)

func (s RunStatus) String() string {
	if s == RunCancelled {
		return "Cancelled"
	}
	return "Completed"
}

// EngineRun holds what an engine produced for one run
type EngineRun struct {
	Status    RunStatus
	Events    []TestEvent
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the wall-clock time of the run
func (r *EngineRun) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// EventListener receives test events while an engine runs.
// Implementations must accept calls from goroutines other than the caller's.
type EventListener interface {
	OnTestEvent(event TestEvent)
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	Strategy        string  `json:"strategy"`
	TotalTests      int     `json:"total_tests"`
	PassedTests     int     `json:"passed_tests"`
	FailedTests     int     `json:"failed_tests"`
	SkippedTests    int     `json:"skipped_tests"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []TestFailure   `json:"details"`
}

package domain

// TestFailure represents a failed test case
type TestFailure struct {
	TestName   string   `json:"test_name"`
	FullName   string   `json:"full_name"`
	FilePath   string   `json:"file_path"`
	Message    string   `json:"message"`
	StackTrace []string `json:"stack_trace"`
	Output     []string `json:"output,omitempty"`
	Duration   float64  `json:"duration_seconds"`
	Resolved   bool     `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

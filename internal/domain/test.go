package domain

import "strings"

// TestCase represents a single discovered test case
type TestCase struct {
	FullyQualifiedName string            // Namespace.Class.method
	Name               string            // Test method name
	ClassName          string            // Dotted class name
	FilePath           string            // Path to the test file containing this case
	Categories         []string          // @group annotations
	Traits             map[string]string // Additional key/value properties
}

// Trait returns the value of a named trait, matched case-insensitively
func (tc TestCase) Trait(key string) (string, bool) {
	for k, v := range tc.Traits {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// DiscoveryMethod selects how test cases were discovered
type DiscoveryMethod int

const (
	// DiscoveryCurrent parses test cases out of the test sources
	DiscoveryCurrent DiscoveryMethod = iota
	// DiscoveryLegacy only knows test files; filters are resolved at discovery time
	DiscoveryLegacy
)

func (m DiscoveryMethod) String() string {
	switch m {
	case DiscoveryCurrent:
		return "Current"
	case DiscoveryLegacy:
		return "Legacy"
	default:
		return "Unknown"
	}
}

// ParseDiscoveryMethod parses "current" or "legacy" (case-insensitive)
func ParseDiscoveryMethod(s string) (DiscoveryMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "":
		return DiscoveryCurrent, true
	case "legacy":
		return DiscoveryLegacy, true
	default:
		return DiscoveryCurrent, false
	}
}

// ResultConverter turns a raw engine event into a result for the result sink
type ResultConverter interface {
	Convert(event TestEvent) TestResult
}

// DiscoveredTestSet is the read-only outcome of discovery for one test assembly
type DiscoveredTestSet struct {
	AssemblyPath    string     // Path of the suite under test
	AllTestCases    []TestCase // Every discovered case
	LoadedTestCases []TestCase // Cases loaded for this run (after name filtering)
	AboveLimit      bool       // Loaded case count exceeded the configured ceiling
	Method          DiscoveryMethod

	TestConverter       ResultConverter // Converter for the current discovery method
	TestConverterForXML ResultConverter // Converter for the legacy discovery method
}

// IsDiscoveryMethodCurrent reports whether cases came from current discovery
func (d *DiscoveredTestSet) IsDiscoveryMethodCurrent() bool {
	return d.Method == DiscoveryCurrent
}

// FullyQualifiedNames returns the FQNs of every discovered case, in order
func (d *DiscoveredTestSet) FullyQualifiedNames() []string {
	names := make([]string, 0, len(d.AllTestCases))
	for _, tc := range d.AllTestCases {
		names = append(names, tc.FullyQualifiedName)
	}
	return names
}

package discovery

import "husky/internal/domain"

// CaseConverter joins engine events to the cases found by current discovery
type CaseConverter struct {
	byName map[string]domain.TestCase
}

var _ domain.ResultConverter = (*CaseConverter)(nil)

// NewCaseConverter indexes cases by fully qualified name
func NewCaseConverter(cases []domain.TestCase) *CaseConverter {
	byName := make(map[string]domain.TestCase, len(cases))
	for _, tc := range cases {
		byName[tc.FullyQualifiedName] = tc
	}
	return &CaseConverter{byName: byName}
}

// Convert returns a result carrying the discovered case; events for unknown
// names fall back to a case built from the event itself
func (c *CaseConverter) Convert(event domain.TestEvent) domain.TestResult {
	tc, ok := c.byName[event.FullName]
	if !ok {
		tc = caseFromEvent(event)
	}
	return resultFor(tc, event)
}

// XMLConverter builds results purely from the event, as read back from a
// result document
type XMLConverter struct{}

var _ domain.ResultConverter = XMLConverter{}

func (XMLConverter) Convert(event domain.TestEvent) domain.TestResult {
	return resultFor(caseFromEvent(event), event)
}

func caseFromEvent(event domain.TestEvent) domain.TestCase {
	return domain.TestCase{
		FullyQualifiedName: event.FullName,
		Name:               event.Name,
		ClassName:          event.ClassName,
	}
}

func resultFor(tc domain.TestCase, event domain.TestEvent) domain.TestResult {
	return domain.TestResult{
		TestCase:   tc,
		Outcome:    event.Outcome,
		Duration:   event.Duration,
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		Message:    event.Message,
		StackTrace: event.StackTrace,
		Output:     event.Output,
	}
}

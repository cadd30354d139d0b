package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/config"
	"husky/internal/domain"
)

func init() {
	color.NoColor = true
}

func sampleOutput() *domain.TestResultsOutput {
	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunID:           "2f1c0d4e-0000-4000-8000-000000000000",
			Strategy:        "GenericRunner",
			TotalTests:      3,
			PassedTests:     1,
			FailedTests:     2,
			DurationSeconds: 1.5,
			Workers:         2,
		},
		Details: []domain.TestFailure{
			{TestName: "testB", FullName: "Tests.Unit.UserTest.testB", FilePath: "/app/tests/Unit/UserTest.php", Message: "Failed asserting that false is true.\nmore", StackTrace: []string{"/app/tests/Unit/UserTest.php:12"}},
			{TestName: "testRefund", FullName: "Tests.Feature.PaymentTest.testRefund", FilePath: "/app/tests/Feature/PaymentTest.php"},
		},
	}
}

func TestFormatter_PrintSummary(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = "/app"
	var buf bytes.Buffer

	NewFormatter(cfg, &buf).PrintSummary(sampleOutput())
	out := buf.String()

	assert.Contains(t, out, "Test Execution Statistics")
	assert.Contains(t, out, "GenericRunner")
	assert.Contains(t, out, "1.50s")
	assert.Contains(t, out, "✗ 2 test case(s) failed")
	assert.Contains(t, out, "├── tests/Feature/PaymentTest.php")
	assert.Contains(t, out, "└── tests/Unit/UserTest.php")
	assert.Contains(t, out, "testB  Failed asserting that false is true.")
	assert.NotContains(t, out, "more")
}

func TestFormatter_PrintSummary_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(config.New(), &buf).PrintSummary(&domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{TotalTests: 2, PassedTests: 2},
	})
	assert.Contains(t, buf.String(), "✓ All tests passed!")
}

func TestFormatter_PrintTestList(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = "/app"
	set := &domain.DiscoveredTestSet{
		LoadedTestCases: []domain.TestCase{
			{Name: "testA", FilePath: "/app/tests/Unit/UserTest.php", Categories: []string{"users"}},
			{Name: "testB", FilePath: "/app/tests/Unit/UserTest.php"},
			{Name: "testCharge", FilePath: "/app/tests/Feature/PaymentTest.php"},
		},
	}
	failed := map[string]struct{}{"tests/unit/usertest": {}}

	t.Run("files", func(t *testing.T) {
		var buf bytes.Buffer
		NewFormatter(cfg, &buf).PrintTestList(set, false, failed)
		out := buf.String()
		assert.Contains(t, out, "Found 3 test case(s) in 2 file(s)")
		assert.Contains(t, out, "tests/Unit/UserTest.php")
		assert.Contains(t, out, "[F]")
		assert.NotContains(t, out, "testCharge")
	})

	t.Run("cases", func(t *testing.T) {
		var buf bytes.Buffer
		NewFormatter(cfg, &buf).PrintTestList(set, true, nil)
		out := buf.String()
		assert.Contains(t, out, "├─ testA")
		assert.Contains(t, out, "└─ testB")
		assert.Contains(t, out, "└─ testCharge")
		assert.Contains(t, out, "users")
		assert.NotContains(t, out, "[F]")
	})
}

func TestFailureKey(t *testing.T) {
	assert.Equal(t, "tests/unit/usertest", FailureKey("/app", "/app/tests/Unit/UserTest.php"))
	assert.Equal(t, "tests/unit/usertest", FailureKey("", "./tests/Unit/UserTest.php"))
	assert.Equal(t, "/other/usertest", FailureKey("/app", "/other/UserTest.php"))
}

func TestProgressBar_RecordResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBarWriter(3, &buf)

	require.NoError(t, p.RecordResult(domain.TestResult{Outcome: domain.OutcomePassed}))
	require.NoError(t, p.RecordResult(domain.TestResult{Outcome: domain.OutcomeFailed}))
	require.NoError(t, p.RecordResult(domain.TestResult{Outcome: domain.OutcomeSkipped}))
	p.Finish()

	passed, failed, skipped := p.Counts()
	assert.Equal(t, []int{1, 1, 1}, []int{passed, failed, skipped})
	assert.Contains(t, buf.String(), "failed: 1")
}

type memoryStorage struct {
	saved *domain.TestResultsOutput
	err   error
}

func (m *memoryStorage) RecordResult(domain.TestResult) error { return nil }
func (m *memoryStorage) Results() []domain.TestResult         { return nil }
func (m *memoryStorage) Save(string, time.Duration, int) (*domain.TestResultsOutput, error) {
	return nil, nil
}
func (m *memoryStorage) Load() (*domain.TestResultsOutput, error) { return m.saved, nil }
func (m *memoryStorage) SaveOutput(output *domain.TestResultsOutput) error {
	m.saved = output
	return m.err
}

func TestFailureList(t *testing.T) {
	model := &failureList{results: sampleOutput()}

	assert.Equal(t, 2, model.unresolved())
	assert.Equal(t, "[yellow]1.[white] testB", model.itemText(0))

	assert.True(t, model.toggle(0))
	assert.Equal(t, 1, model.unresolved())
	assert.Equal(t, "[gray]✓ [yellow]1.[gray] testB[white]", model.itemText(0))
	assert.Contains(t, model.header(nil), "2 total, 1 unresolved")
	assert.Contains(t, model.header(errors.New("disk full")), "save failed: disk full")

	assert.False(t, model.toggle(5))
	assert.True(t, model.toggle(0))
	assert.Equal(t, 2, model.unresolved())
}

func TestFormatFailureDetails(t *testing.T) {
	failure := sampleOutput().Details[0]
	for i := 0; i < 12; i++ {
		failure.StackTrace = append(failure.StackTrace, "/app/vendor/lib.php:1")
	}
	failure.Output = []string{"[debug] hello"}

	details := formatFailureDetails(failure)
	assert.Contains(t, details, "✗ Test: Tests.Unit.UserTest.testB")
	assert.Contains(t, details, "Failed asserting that false is true.")
	assert.Contains(t, details, "... and 3 more lines")
	assert.Contains(t, details, "[debug[] hello", "output is escaped for tview")

	stats := formatFailureStats(domain.TestFailure{}, 4)
	assert.Equal(t, "[cyan]path:[white] [yellow]Unknown path[white]::[yellow]Test 4[white]\n", stats)
}

func TestErrorViewer_NoFailures(t *testing.T) {
	var buf bytes.Buffer
	ev := NewErrorViewer(&memoryStorage{})
	ev.out = &buf

	require.NoError(t, ev.View(&domain.TestResultsOutput{}))
	assert.Contains(t, buf.String(), "No test failures found")
}

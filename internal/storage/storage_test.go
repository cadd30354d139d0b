package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/config"
	"husky/internal/domain"
)

func newTestStorage(t *testing.T) *JSONStorage {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return NewJSONStorage(cfg)
}

func result(name string, outcome domain.Outcome) domain.TestResult {
	return domain.TestResult{
		TestCase: domain.TestCase{
			FullyQualifiedName: "Tests.Unit.UserTest." + name,
			Name:               name,
			FilePath:           "tests/Unit/UserTest.php",
		},
		Outcome:  outcome,
		Duration: 250 * time.Millisecond,
	}
}

func TestJSONStorage_RecordResult_Concurrent(t *testing.T) {
	s := newTestStorage(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.RecordResult(result(fmt.Sprintf("test%d", i), domain.OutcomePassed)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Results(), 20)
}

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	s := newTestStorage(t)

	failed := result("testB", domain.OutcomeFailed)
	failed.Message = "Failed asserting that false is true."
	failed.StackTrace = "/app/tests/Unit/UserTest.php:12\n/app/vendor/phpunit/TestCase.php:100"

	require.NoError(t, s.RecordResult(result("testA", domain.OutcomePassed)))
	require.NoError(t, s.RecordResult(failed))
	require.NoError(t, s.RecordResult(result("testC", domain.OutcomeSkipped)))
	require.NoError(t, s.RecordResult(result("testD", domain.OutcomeFailed)))

	saved, err := s.Save("GenericRunner", 3*time.Second, 4)
	require.NoError(t, err)

	_, err = uuid.Parse(saved.Meta.RunID)
	assert.NoError(t, err, "run id is a uuid")
	assert.Equal(t, "GenericRunner", saved.Meta.Strategy)
	assert.Equal(t, 4, saved.Meta.TotalTests)
	assert.Equal(t, 1, saved.Meta.PassedTests)
	assert.Equal(t, 2, saved.Meta.FailedTests)
	assert.Equal(t, 1, saved.Meta.SkippedTests)
	assert.Equal(t, 4, saved.Meta.Workers)
	assert.Equal(t, 3.0, saved.Meta.DurationSeconds)

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, saved.Meta, loaded.Meta)
	require.Len(t, loaded.Details, 2)

	first := loaded.Details[0]
	assert.Equal(t, "testB", first.TestName)
	assert.Equal(t, "Tests.Unit.UserTest.testB", first.FullName)
	assert.Equal(t, "Failed asserting that false is true.", first.Message)
	assert.Equal(t, []string{"/app/tests/Unit/UserTest.php:12", "/app/vendor/phpunit/TestCase.php:100"}, first.StackTrace)
	assert.Equal(t, 0.25, first.Duration)
}

func TestJSONStorage_SaveOutput(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.RecordResult(result("testA", domain.OutcomeFailed)))
	output, err := s.Save("Interactive", time.Second, 1)
	require.NoError(t, err)

	output.Details[0].Resolved = true
	require.NoError(t, s.SaveOutput(output))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Details[0].Resolved)
}

func TestJSONStorage_Load_Missing(t *testing.T) {
	_, err := newTestStorage(t).Load()
	assert.Error(t, err)
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) RecordResult(domain.TestResult) error {
	f.calls++
	return errors.New("full")
}

func TestTee(t *testing.T) {
	a := newTestStorage(t)
	b := newTestStorage(t)

	require.NoError(t, Tee(a, nil, b).RecordResult(result("testA", domain.OutcomePassed)))
	assert.Len(t, a.Results(), 1)
	assert.Len(t, b.Results(), 1)

	failing := &failingRecorder{}
	err := Tee(failing, a).RecordResult(result("testB", domain.OutcomePassed))
	assert.Error(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Len(t, a.Results(), 1, "recorders after a failure are not called")
}

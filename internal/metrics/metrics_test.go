package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/domain"
)

func TestRecorder_RecordResult(t *testing.T) {
	r := NewRecorder()

	require.NoError(t, r.RecordResult(domain.TestResult{Outcome: domain.OutcomePassed, Duration: 20 * time.Millisecond}))
	require.NoError(t, r.RecordResult(domain.TestResult{Outcome: domain.OutcomePassed, Duration: 30 * time.Millisecond}))
	require.NoError(t, r.RecordResult(domain.TestResult{Outcome: domain.OutcomeFailed, Duration: time.Second}))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.testsTotal.WithLabelValues("Passed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.testsTotal.WithLabelValues("Failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.testDuration))
}

func TestRecorder_ObserveRun(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun("GenericRunner", false, 0)
	r.ObserveRun("GenericRunner", true, 2500*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("GenericRunner", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("GenericRunner", "false")))
	assert.Equal(t, 2.5, testutil.ToFloat64(r.runDuration.WithLabelValues("GenericRunner")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.RecordResult(domain.TestResult{Outcome: domain.OutcomeSkipped}))

	path := filepath.Join(t.TempDir(), "husky.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `husky_tests_total{outcome="Skipped"} 1`), string(data))

	assert.Error(t, r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "husky.prom")))
}

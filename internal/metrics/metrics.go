// Package metrics counts test outcomes and run timings on a private
// Prometheus registry that can be exported as a node-exporter textfile.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"husky/internal/domain"
)

const namespace = "husky"

// Recorder is a result recorder that keeps Prometheus metrics
type Recorder struct {
	registry *prometheus.Registry

	testsTotal   *prometheus.CounterVec
	testDuration *prometheus.HistogramVec
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		testsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tests_total",
			Help:      "Number of recorded test results by outcome",
		}, []string{"outcome"}),
		testDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "test_duration_seconds",
			Help:      "Duration of individual test cases",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"outcome"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of runs by strategy and whether tests were executed",
		}, []string{"strategy", "ran"}),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run by strategy",
		}, []string{"strategy"}),
	}
	r.registry.MustRegister(r.testsTotal, r.testDuration, r.runsTotal, r.runDuration)
	return r
}

// RecordResult counts one finalized result
func (r *Recorder) RecordResult(result domain.TestResult) error {
	outcome := result.Outcome.String()
	r.testsTotal.WithLabelValues(outcome).Inc()
	r.testDuration.WithLabelValues(outcome).Observe(result.Duration.Seconds())
	return nil
}

// ObserveRun records the end of a strategy run
func (r *Recorder) ObserveRun(strategy string, ran bool, duration time.Duration) {
	r.runsTotal.WithLabelValues(strategy, strconv.FormatBool(ran)).Inc()
	r.runDuration.WithLabelValues(strategy).Set(duration.Seconds())
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format to path
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

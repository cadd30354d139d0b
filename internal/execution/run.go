package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"husky/internal/config"
	"husky/internal/domain"
	"husky/internal/filter"
)

// runDefault is the in-process run shared by the interactive and generic
// strategies. Once the engine has been invoked it reports true, also
// alongside an error.
func runDefault(ctx context.Context, ec *Context, s Strategy, f *filter.Filter, d *domain.DiscoveredTestSet) (bool, error) {
	f = s.ReconcileFilter(f, d)
	ec.dump().StartExecution(f, "(At Execution)")

	converter := converterFor(ec.Settings, d)
	if converter == nil {
		return false, errors.New("discovered test set has no result converter")
	}
	listener := newEventListener(converter, ec.Recorder)

	run, err := ec.Engine.Run(ctx, listener, f)
	if err != nil {
		return true, fmt.Errorf("engine run failed: %w", err)
	}
	if err := listener.Err(); err != nil {
		return true, err
	}
	if run.Status == domain.RunCancelled {
		ec.Log.Debug("Run cancelled", "recorded", listener.Count(), "elapsed", run.Duration())
		return true, nil
	}

	if err := ec.Engine.GenerateTestOutput(run, d.AssemblyPath, ec.TestOutputXMLFolder); err != nil {
		return true, fmt.Errorf("failed to generate test output: %w", err)
	}
	return true, nil
}

func converterFor(settings config.Settings, d *domain.DiscoveredTestSet) domain.ResultConverter {
	if settings.DiscoveryMethod == domain.DiscoveryCurrent {
		return d.TestConverter
	}
	return d.TestConverterForXML
}

// eventListener converts engine events and forwards them to the recorder.
// Engines call OnTestEvent from their worker goroutines.
type eventListener struct {
	mu        sync.Mutex
	converter domain.ResultConverter
	recorder  Recorder
	count     int
	err       error
}

var _ domain.EventListener = (*eventListener)(nil)

func newEventListener(converter domain.ResultConverter, recorder Recorder) *eventListener {
	return &eventListener{converter: converter, recorder: recorder}
}

func (l *eventListener) OnTestEvent(event domain.TestEvent) {
	result := l.converter.Convert(event)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.recorder == nil {
		return
	}
	if err := l.recorder.RecordResult(result); err != nil {
		if l.err == nil {
			l.err = fmt.Errorf("failed to record %s: %w", event.FullName, err)
		}
		return
	}
	l.count++
}

// Err returns the first recording failure
func (l *eventListener) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *eventListener) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

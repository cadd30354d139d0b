package execution

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/domain"
	"husky/internal/filter"
)

func passedEvent(name string) domain.TestEvent {
	tc := testCase(name)
	return domain.TestEvent{
		FullName:  tc.FullyQualifiedName,
		Name:      tc.Name,
		ClassName: tc.ClassName,
		Outcome:   domain.OutcomePassed,
		Duration:  25 * time.Millisecond,
	}
}

func TestGenericRunner_Run_SkipsWhenNoTestsFound(t *testing.T) {
	tests := []struct {
		name  string
		ext   string
		limit int
	}{
		{"caller filter matches nothing", "Name=testZ", 50},
		{"caller filter too large", "Name=testA|Name=testB|Name=testC", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, engine, recorder, _ := newTestContext()
			ec.ExternalFilter = filter.NewExternal(tt.ext)
			ec.Settings.AssemblySelectLimit = tt.limit
			engine.events = []domain.TestEvent{passedEvent("testA")}

			ran, err := NewGenericRunner(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA", "testB", "testC"))
			require.NoError(t, err)
			assert.False(t, ran)
			assert.Zero(t, engine.runs, "engine must not be invoked")
			assert.Empty(t, engine.outputs)
			assert.Empty(t, recorder.results)
		})
	}
}

func TestGenericRunner_Run_SkipsWhenNothingLoaded(t *testing.T) {
	ec, engine, _, _ := newTestContext()
	d := testSet(domain.DiscoveryCurrent)

	ran, err := NewGenericRunner(ec).Run(context.Background(), mustParse(t, "Name=testA"), d)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Zero(t, engine.runs)
}

func TestGenericRunner_Run_ConvertsCallerFilter(t *testing.T) {
	ec, engine, recorder, dump := newTestContext()
	ec.ExternalFilter = filter.NewExternal("Name~B")
	engine.events = []domain.TestEvent{passedEvent("testB")}
	d := testSet(domain.DiscoveryCurrent, "testA", "testB", "testC")

	ran, err := NewGenericRunner(ec).Run(context.Background(), filter.Empty, d)
	require.NoError(t, err)
	assert.True(t, ran)

	require.Equal(t, 1, engine.runs)
	assert.Equal(t, "FullyQualifiedName=Tests.Unit.UserTest.testB", engine.lastFilter().String())
	assert.Equal(t, []string{"/app/tests -> /app/storage/xml"}, engine.outputs)

	require.Len(t, recorder.results, 1)
	assert.Equal(t, "/app/tests/Unit/UserTest.php", recorder.results[0].TestCase.FilePath)

	assert.Contains(t, dump.strings, "\n\nExternalFilter: Name~B\n")
	assert.Contains(t, dump.notes, "(At Execution (ExternalFilter))")
	assert.Contains(t, dump.notes, "(At Execution)")
}

func TestGenericRunner_Run_NativeFilterMode(t *testing.T) {
	ec, engine, _, _ := newTestContext()
	ec.ExternalFilter = filter.NewExternal("Name=testA|TestCategory=slow")
	ec.Settings.UseNUnitFilter = true
	ec.Settings.AssemblySelectLimit = 1

	ran, err := NewGenericRunner(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA"))
	require.NoError(t, err)
	assert.True(t, ran)

	expected := mustParse(t, "Name=testA|TestCategory=slow")
	assert.True(t, filter.Equal(expected, engine.lastFilter()), "got %s", engine.lastFilter())
}

func TestGenericRunner_Run_LegacyConvertsAgainstLoaded(t *testing.T) {
	ec, engine, recorder, _ := newTestContext()
	ec.ExternalFilter = filter.NewExternal("Name=testA")
	ec.Settings.DiscoveryMethod = domain.DiscoveryLegacy
	ec.Settings.UseNUnitFilter = true
	engine.events = []domain.TestEvent{passedEvent("testA")}

	d := testSet(domain.DiscoveryLegacy, "testA", "testB")
	ran, err := NewGenericRunner(ec).Run(context.Background(), filter.Empty, d)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, "FullyQualifiedName=Tests.Unit.UserTest.testA", engine.lastFilter().String())

	// Legacy results are built from the event alone
	require.Len(t, recorder.results, 1)
	assert.Empty(t, recorder.results[0].TestCase.FilePath)
}

func TestGenericRunner_Run_InvalidCallerFilter(t *testing.T) {
	ec, engine, _, _ := newTestContext()
	ec.ExternalFilter = filter.NewExternal("Name=(")

	ran, err := NewGenericRunner(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA"))
	require.Error(t, err)
	var syntaxErr *filter.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.False(t, ran)
	assert.Zero(t, engine.runs)
}

func TestInteractive_Run(t *testing.T) {
	ec, engine, recorder, _ := newTestContext()
	var events []domain.TestEvent
	for i := 0; i < 50; i++ {
		events = append(events, passedEvent(fmt.Sprintf("test%02d", i)))
	}
	engine.events = events

	ran, err := NewInteractive(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "test00"))
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Same(t, filter.Empty, engine.lastFilter())
	assert.Len(t, recorder.byName(), 50, "every concurrently delivered event is recorded")
	assert.Len(t, engine.outputs, 1)
}

func TestRunDefault_Cancelled(t *testing.T) {
	ec, engine, recorder, _ := newTestContext()
	engine.status = domain.RunCancelled
	engine.events = []domain.TestEvent{passedEvent("testA")}

	ran, err := NewInteractive(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA"))
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Len(t, recorder.results, 1, "results delivered before cancellation are kept")
	assert.Empty(t, engine.outputs, "no output is generated for a cancelled run")
}

func TestRunDefault_Errors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("engine failure propagates", func(t *testing.T) {
		ec, engine, _, _ := newTestContext()
		engine.runErr = boom

		ran, err := NewInteractive(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA"))
		assert.True(t, ran)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("output failure propagates", func(t *testing.T) {
		ec, engine, _, _ := newTestContext()
		engine.outputErr = boom

		ran, err := NewInteractive(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA"))
		assert.True(t, ran)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("recorder failure propagates", func(t *testing.T) {
		ec, engine, recorder, _ := newTestContext()
		engine.events = []domain.TestEvent{passedEvent("testA")}
		recorder.err = boom

		ran, err := NewInteractive(ec).Run(context.Background(), filter.Empty, testSet(domain.DiscoveryCurrent, "testA"))
		assert.True(t, ran)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, engine.outputs)
	})

	t.Run("missing converter", func(t *testing.T) {
		ec, engine, _, _ := newTestContext()
		d := testSet(domain.DiscoveryCurrent, "testA")
		d.TestConverter = nil

		ran, err := NewInteractive(ec).Run(context.Background(), filter.Empty, d)
		assert.False(t, ran)
		assert.Error(t, err)
		assert.Zero(t, engine.runs)
	})
}

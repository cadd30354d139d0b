package execution

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"husky/internal/artifact"
	"husky/internal/config"
	"husky/internal/container"
	"husky/internal/discovery"
	"husky/internal/domain"
	"husky/internal/filter"
)

func testCase(name string) domain.TestCase {
	return domain.TestCase{
		FullyQualifiedName: "Tests.Unit.UserTest." + name,
		Name:               name,
		ClassName:          "Tests.Unit.UserTest",
		FilePath:           "/app/tests/Unit/UserTest.php",
	}
}

func testSet(method domain.DiscoveryMethod, names ...string) *domain.DiscoveredTestSet {
	var cases []domain.TestCase
	for _, n := range names {
		cases = append(cases, testCase(n))
	}
	return &domain.DiscoveredTestSet{
		AssemblyPath:        "/app/tests",
		AllTestCases:        cases,
		LoadedTestCases:     cases,
		Method:              method,
		TestConverter:       discovery.NewCaseConverter(cases),
		TestConverterForXML: discovery.XMLConverter{},
	}
}

func defaultSettings() config.Settings {
	return config.Settings{
		DiscoveryMethod:     domain.DiscoveryCurrent,
		AssemblySelectLimit: config.DefaultAssemblySelectLimit,
		MaxDiscoveredCases:  config.DefaultMaxDiscoveredCases,
	}
}

func newTestContext() (*Context, *fakeEngine, *recordingStub, *fakeDump) {
	engine := &fakeEngine{}
	recorder := &recordingStub{}
	dump := &fakeDump{}
	ec := &Context{
		Log:                 log.New(io.Discard),
		Engine:              engine,
		TestOutputXMLFolder: "/app/storage/xml",
		Settings:            defaultSettings(),
		Dump:                dump,
		Recorder:            recorder,
	}
	return ec, engine, recorder, dump
}

// fakeEngine emits its events from separate goroutines, the way the worker
// pool does
type fakeEngine struct {
	mu        sync.Mutex
	events    []domain.TestEvent
	status    domain.RunStatus
	runErr    error
	outputErr error

	runs     int
	filters  []*filter.Filter
	outputs  []string
	outputOf *domain.EngineRun
}

func (e *fakeEngine) Run(_ context.Context, listener domain.EventListener, f *filter.Filter) (*domain.EngineRun, error) {
	e.mu.Lock()
	e.runs++
	e.filters = append(e.filters, f)
	e.mu.Unlock()
	if e.runErr != nil {
		return nil, e.runErr
	}

	var wg sync.WaitGroup
	for _, ev := range e.events {
		wg.Add(1)
		go func(ev domain.TestEvent) {
			defer wg.Done()
			listener.OnTestEvent(ev)
		}(ev)
	}
	wg.Wait()
	return &domain.EngineRun{Status: e.status, Events: e.events}, nil
}

func (e *fakeEngine) GenerateTestOutput(run *domain.EngineRun, assemblyPath, dir string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputs = append(e.outputs, assemblyPath+" -> "+dir)
	e.outputOf = run
	return e.outputErr
}

func (e *fakeEngine) lastFilter() *filter.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.filters) == 0 {
		return nil
	}
	return e.filters[len(e.filters)-1]
}

type recordingStub struct {
	mu      sync.Mutex
	results []domain.TestResult
	err     error
}

func (r *recordingStub) RecordResult(result domain.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, result)
	return nil
}

func (r *recordingStub) byName() map[string]domain.TestResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := make(map[string]domain.TestResult)
	for _, res := range r.results {
		m[res.TestCase.FullyQualifiedName] = res
	}
	return m
}

type fakeDump struct {
	mu      sync.Mutex
	notes   []string
	strings []string
	filters []*filter.Filter
}

func (d *fakeDump) StartExecution(f *filter.Filter, note string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = append(d.notes, note)
	d.filters = append(d.filters, f)
}

func (d *fakeDump) AddString(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.strings = append(d.strings, s)
}

func (d *fakeDump) DumpFilter(f *filter.Filter, note string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = append(d.notes, note)
	d.filters = append(d.filters, f)
}

// fakeContainers plays the container runtime: RunTests writes the result
// document the contained process would have written
type fakeContainers struct {
	buildErr error
	runErr   error
	events   []domain.TestEvent
	noResult bool
	garbage  bool // write an unreadable result file

	calls   []string
	spec    container.RunSpec
	hostDir string
}

func (c *fakeContainers) PrepareResultsDir(assemblyDir string) (string, error) {
	c.calls = append(c.calls, "prepare")
	if err := os.MkdirAll(c.hostDir, 0755); err != nil {
		return "", err
	}
	return c.hostDir, nil
}

func (c *fakeContainers) BuildImage(_ context.Context, contextDir string) error {
	c.calls = append(c.calls, "build "+contextDir)
	return c.buildErr
}

func (c *fakeContainers) RunTests(_ context.Context, spec container.RunSpec) (*container.CommandResult, error) {
	c.calls = append(c.calls, "run")
	c.spec = spec
	if c.runErr != nil {
		return nil, c.runErr
	}
	if c.garbage {
		if err := os.WriteFile(spec.HostDir+"/TestResult_"+spec.AssemblyName+".xml", []byte("<test-run"), 0644); err != nil {
			return nil, err
		}
	} else if !c.noResult {
		err := artifact.WriteFile(spec.HostDir+"/TestResult_"+spec.AssemblyName+".xml", artifact.Run{
			Name:   spec.AssemblyName,
			Events: c.events,
		})
		if err != nil {
			return nil, err
		}
	}
	return &container.CommandResult{ExitCode: 1}, nil
}

func (c *fakeContainers) ResultFile(dir string) (string, error) {
	c.calls = append(c.calls, "result")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", container.ErrNoResultFile
	}
	return dir + "/" + entries[0].Name(), nil
}

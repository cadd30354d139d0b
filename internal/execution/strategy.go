// Package execution decides how a discovered test set is run: in-process
// through the engine, or inside a container whose result document is read
// back. It owns filter reconciliation for each mode and forwards every
// finished test to the result recorder.
package execution

import (
	"context"

	"github.com/charmbracelet/log"

	"husky/internal/config"
	"husky/internal/container"
	"husky/internal/domain"
	"husky/internal/filter"
)

// Kind identifies a concrete strategy
type Kind int

const (
	KindContainerized Kind = iota
	KindInteractive
	KindGenericRunner
)

func (k Kind) String() string {
	switch k {
	case KindContainerized:
		return "Containerized"
	case KindInteractive:
		return "Interactive"
	case KindGenericRunner:
		return "GenericRunner"
	default:
		return "Unknown"
	}
}

// Strategy runs a filter against a discovered test set
type Strategy interface {
	Kind() Kind
	// ReconcileFilter applies the mode-specific narrowing. Applying it twice
	// gives the same filter as applying it once.
	ReconcileFilter(f *filter.Filter, d *domain.DiscoveredTestSet) *filter.Filter
	// Run returns false only when it decided up front that nothing should run
	Run(ctx context.Context, f *filter.Filter, d *domain.DiscoveredTestSet) (bool, error)
}

// Engine runs test cases in-process
type Engine interface {
	Run(ctx context.Context, listener domain.EventListener, f *filter.Filter) (*domain.EngineRun, error)
	GenerateTestOutput(run *domain.EngineRun, assemblyPath, dir string) error
}

// Recorder accepts one finalized result at a time
type Recorder interface {
	RecordResult(result domain.TestResult) error
}

// Dump receives diagnostic notes about a run
type Dump interface {
	StartExecution(f *filter.Filter, note string)
	AddString(s string)
	DumpFilter(f *filter.Filter, note string)
}

// ContainerRunner drives the container runtime for the containerized strategy
type ContainerRunner interface {
	PrepareResultsDir(assemblyDir string) (string, error)
	BuildImage(ctx context.Context, contextDir string) error
	RunTests(ctx context.Context, spec container.RunSpec) (*container.CommandResult, error)
	ResultFile(dir string) (string, error)
}

// Context carries the collaborators a strategy works with. Strategies only read it.
type Context struct {
	Log                 *log.Logger
	Engine              Engine
	TestOutputXMLFolder string
	Settings            config.Settings
	Dump                Dump
	ExternalFilter      *filter.External
	Recorder            Recorder
	Containers          ContainerRunner
}

func (c *Context) dump() Dump {
	if c.Dump == nil {
		return nopDump{}
	}
	return c.Dump
}

type nopDump struct{}

func (nopDump) StartExecution(*filter.Filter, string) {}
func (nopDump) AddString(string)                      {}
func (nopDump) DumpFilter(*filter.Filter, string)     {}

// New constructs the strategy of the given kind
func New(ec *Context, kind Kind) Strategy {
	switch kind {
	case KindContainerized:
		return NewContainerized(ec)
	case KindInteractive:
		return NewInteractive(ec)
	default:
		return NewGenericRunner(ec)
	}
}

// checkFilter rebuilds the filter from the loaded cases unless there are too
// many of them, in which case everything runs
func checkFilter(ec *Context, builder *filter.Builder, d *domain.DiscoveredTestSet) *filter.Filter {
	if d.AboveLimit {
		ec.Log.Debug("Setting filter to empty due to number of test cases", "loaded", len(d.LoadedTestCases))
		return filter.Empty
	}
	return builder.FilterByList(d.LoadedTestCases)
}

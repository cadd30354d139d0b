package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"husky/internal/config"
	"husky/internal/container"
	"husky/internal/discovery"
	"husky/internal/domain"
	"husky/internal/dump"
	"husky/internal/engine"
	"husky/internal/execution"
	"husky/internal/filter"
	"husky/internal/metrics"
	"husky/internal/storage"
	"husky/internal/ui"
	"husky/internal/workerdb"
)

// ErrTestsFailed is returned when the run finished with failing tests
var ErrTestsFailed = errors.New("test run finished with failures")

// RunCommand handles the run command
type RunCommand struct {
	commands   *Commands
	containers container.Config
	getenv     func(string) string
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := rc.commands.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assemblyPath := cfg.GetTestPath()
	discoverer := discovery.NewDiscoverer(cfg.PathsToIgnore, logger)
	set, err := discoverer.Discover(assemblyPath, discovery.Options{
		NameFilter: cfg.Flags.NameFilter,
		Method:     cfg.Settings.DiscoveryMethod,
		MaxCases:   cfg.Settings.MaxDiscoveredCases,
	})
	if err != nil {
		return err
	}
	if len(set.LoadedTestCases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No tests to execute"))
		return nil
	}

	inContainer := rc.containers.InContainer(rc.getenv)
	logger.Debug("Running in container", "value", inContainer)
	selector := execution.NewSelector(func() bool { return inContainer })
	kind := selector.Select(cfg.Settings.DesignMode)

	if cfg.ProvisionDB && kind != execution.KindContainerized {
		provisioner := workerdb.NewProvisioner(cfg.GetDatabaseName, logger)
		if err := provisioner.Provision(ctx, workerdb.LoadConnectionInfo(cfg.ProjectPath), cfg.Processors); err != nil {
			return fmt.Errorf("database provisioning failed: %w", err)
		}
	}

	st := storage.NewJSONStorage(cfg)
	progress := ui.NewProgressBarWriter(len(set.LoadedTestCases), cmd.ErrOrStderr())
	recorder := metrics.NewRecorder()

	ec := &execution.Context{
		Log:                 logger,
		Engine:              rc.newEngine(cfg, set, logger),
		TestOutputXMLFolder: cfg.GetTestOutputXMLFolder(),
		Settings:            cfg.Settings,
		ExternalFilter:      filter.NewExternal(cfg.Flags.Filter),
		Recorder:            storage.Tee(st, progress, recorder),
		Containers:          container.NewRunner(rc.containers, logger),
	}
	if cfg.DumpExecution {
		d := dump.New(ec.TestOutputXMLFolder, assemblyPath)
		ec.Dump = d
		defer func() {
			if err := d.Close(); err != nil {
				logger.Warn("Failed to write execution dump", "err", err)
			}
		}()
	}

	strategy := selector.Strategy(ec)
	logger.Info("Running tests", "strategy", strategy.Kind(), "assembly", assemblyPath, "cases", len(set.LoadedTestCases))

	start := time.Now()
	ran, runErr := strategy.Run(ctx, filter.Empty, set)
	duration := time.Since(start)
	progress.Finish()
	recorder.ObserveRun(strategy.Kind().String(), ran, duration)

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics", "err", err)
		}
	}

	if !ran {
		if runErr != nil {
			return runErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("No tests to execute"))
		return nil
	}

	output, err := st.Save(strategy.Kind().String(), duration, cfg.Processors)
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to save test results: %w", err))
	}
	ui.NewFormatter(cfg, cmd.OutOrStdout()).PrintSummary(output)

	if runErr != nil {
		return runErr
	}
	if output.Meta.FailedTests > 0 {
		return ErrTestsFailed
	}
	return nil
}

func (rc *RunCommand) newEngine(cfg *config.Config, set *domain.DiscoveredTestSet, logger *log.Logger) *engine.Engine {
	var options []engine.Option
	if cfg.Flags.ByFile {
		options = append(options, engine.WithScheduler(engine.NewFileScheduler()))
	}
	return engine.New(engine.Options{
		Command:      cfg.GetTestCommandPath(),
		ProjectPath:  cfg.ProjectPath,
		Workers:      cfg.Processors,
		FailFast:     cfg.Flags.FailFast,
		DatabaseName: cfg.GetDatabaseName,
	}, set.LoadedTestCases, logger, options...)
}

var (
	_ execution.Engine          = (*engine.Engine)(nil)
	_ execution.ContainerRunner = (*container.Runner)(nil)
)

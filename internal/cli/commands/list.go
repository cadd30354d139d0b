package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"husky/internal/discovery"
	"husky/internal/storage"
	"husky/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	commands *Commands
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := lc.commands.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	discoverer := discovery.NewDiscoverer(cfg.PathsToIgnore, logger)
	set, err := discoverer.Discover(cfg.GetTestPath(), discovery.Options{
		NameFilter: cfg.Flags.NameFilter,
		Method:     cfg.Settings.DiscoveryMethod,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(set.LoadedTestCases) == 0 {
		fmt.Fprintln(out, color.YellowString("No tests found"))
		return nil
	}

	// Mark files that failed last time; a missing results file just means no marks
	failed := make(map[string]struct{})
	if previous, err := storage.NewJSONStorage(cfg).Load(); err == nil {
		for _, failure := range previous.Details {
			failed[ui.FailureKey(cfg.ProjectPath, failure.FilePath)] = struct{}{}
		}
	}

	ui.NewFormatter(cfg, out).PrintTestList(set, cfg.Flags.TestCases, failed)
	return nil
}

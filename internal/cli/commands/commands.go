package commands

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"husky/internal/cli"
	"husky/internal/config"
	"husky/internal/container"
	"husky/internal/logging"
	"husky/internal/storage"
	"husky/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand

	flags *cli.Flags
}

// NewCommands creates all commands sharing one set of flags
func NewCommands(flags *cli.Flags) *Commands {
	c := &Commands{flags: flags}
	c.Run = &RunCommand{commands: c, containers: container.DefaultConfig(), getenv: os.Getenv}
	c.List = &ListCommand{commands: c}
	c.Failures = &FailuresCommand{commands: c, newViewer: func(st storage.Storage) ui.Viewer {
		return ui.NewErrorViewer(st)
	}}
	return c
}

// loadConfig layers flags, positional arguments and run settings over the
// configuration files
func (c *Commands) loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	return config.Load(c.flags.ToConfigFlags(args, cmd.ArgsLenAtDash()))
}

// newLogger builds the command logger; the caller closes the log file
func newLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, func() error, error) {
	return logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: cmd.ErrOrStderr(),
	})
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command) {
	flags := c.flags
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a husky.yaml configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Run command
	runCmd := &cobra.Command{
		Use:   "run [test-path] [-- Key=Value ...]",
		Short: "Run PHPUnit tests",
		Long: "Discover PHPUnit test cases and execute them with the strategy that fits the environment: " +
			"inside the test container, interactively for an IDE, or across parallel workers",
		RunE: c.Run.Execute,
	}
	runCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, "Number of parallel workers (default from configuration)")
	runCmd.Flags().StringVar(&flags.Filter, "filter", "", "Test filter expression, e.g. 'Category=fast&FullyQualifiedName~User'")
	runCmd.Flags().StringVarP(&flags.NameFilter, "name", "n", "", "Filter test files by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	runCmd.Flags().BoolVar(&flags.DesignMode, "design-mode", false, "Run interactively, as an IDE would")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on first test failure")
	runCmd.Flags().BoolVar(&flags.ByFile, "by-file", false, "Keep all cases of a test file on the same worker")
	runCmd.Flags().BoolVar(&flags.ProvisionDB, "provision-db", false, "Create the per-worker MySQL databases before running")
	runCmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [test-path]",
		Short: "List discovered tests",
		Long:  "Scan and list all PHPUnit tests without executing them",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "name", "n", "", "Filter test files by name pattern (supports wildcards, e.g., '*UserTest.php' or '*Payment*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases instead of test files")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)
}

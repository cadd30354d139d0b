package config

import (
	"fmt"
	"os"
	"path/filepath"

	"husky/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string
	TestOutputXML  string

	// Execution settings
	Processors  int
	TestCommand string
	Settings    Settings

	// Ambient settings
	LogFile       string
	LogLevel      string
	DumpExecution bool
	MetricsFile   string
	ProvisionDB   bool

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Settings are the knobs that decide how a run is orchestrated
type Settings struct {
	// DesignMode is true when invoked interactively from an IDE
	DesignMode      bool
	DiscoveryMethod domain.DiscoveryMethod
	// UseNUnitFilter converts caller expressions natively instead of against loaded cases
	UseNUnitFilter bool
	// AssemblySelectLimit is the maximum clause count of a caller expression
	AssemblySelectLimit int
	// MaxDiscoveredCases above which the discovered list is not turned into a filter
	MaxDiscoveredCases int
}

// Flags holds command-line flags
type Flags struct {
	Processors  int
	Filter      string
	TestPath    string
	NameFilter  string
	TestCases   bool
	DesignMode  bool
	FailFast    bool
	ByFile      bool
	ProvisionDB bool
	MetricsFile string
	ConfigFile  string
	LogLevel    string
	RunSettings []string
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		TestOutputXML:  DefaultTestOutputXML,
		Processors:     DefaultProcessors,
		TestCommand:    DefaultTestCommand,
		LogFile:        DefaultLogFile,
		LogLevel:       DefaultLogLevel,
		Settings: Settings{
			DiscoveryMethod:     domain.DiscoveryCurrent,
			AssemblySelectLimit: DefaultAssemblySelectLimit,
			MaxDiscoveredCases:  DefaultMaxDiscoveredCases,
		},
		Flags: Flags{Processors: DefaultProcessors},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the absolute path to the output JSON file
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetTestOutputXMLFolder returns where structured XML results are written
func (c *Config) GetTestOutputXMLFolder() string {
	if filepath.IsAbs(c.TestOutputXML) {
		return c.TestOutputXML
	}
	return filepath.Join(c.ProjectPath, c.TestOutputXML)
}

// GetTestCommandPath returns the path to the test binary
func (c *Config) GetTestCommandPath() string {
	if filepath.IsAbs(c.TestCommand) {
		return c.TestCommand
	}
	return filepath.Join(c.ProjectPath, c.TestCommand)
}

// GetDatabaseName returns the database name for a worker
func (c *Config) GetDatabaseName(workerID int) string {
	prefix := os.Getenv("DB_DATABASE_PREFIX")
	if prefix == "" {
		prefix = "testing"
	}
	return fmt.Sprintf("%s_%d", prefix, workerID)
}

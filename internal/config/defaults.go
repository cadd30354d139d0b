package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "tests"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultTestOutputXML is the default folder for structured XML results
	DefaultTestOutputXML = "storage/xml"
	// DefaultProcessors is the default number of processors
	DefaultProcessors = 4
	// DefaultAssemblySelectLimit caps the clause count of caller filter expressions
	DefaultAssemblySelectLimit = 2000
	// DefaultMaxDiscoveredCases above which list filters are replaced by Empty
	DefaultMaxDiscoveredCases = 2000
	// DefaultTestCommand runs a single test case
	DefaultTestCommand = "vendor/bin/phpunit"
	// DefaultLogFile is the flat log file name, relative to the working directory
	DefaultLogFile = "husky-test-runner.log"
	// DefaultLogLevel is the minimum log level
	DefaultLogLevel = "info"
	// DefaultConfigFile is looked up in the project path
	DefaultConfigFile = "husky.yaml"
	// EnvPrefix prefixes environment overrides, e.g. HUSKY_PROCESSORS
	EnvPrefix = "HUSKY"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"public",
	"storage",
	"bootstrap",
	"config",
	"database",
	"resources",
	"routes",
	"husky_test_results",
}

package discovery

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"husky/internal/domain"
)

// Discoverer combines scanning, parsing and name filtering into a test set
type Discoverer struct {
	scanner *Scanner
	parser  *Parser
	filter  *Filter
	logger  *log.Logger
}

// NewDiscoverer creates a Discoverer skipping the given directory names
func NewDiscoverer(skipDirs []string, logger *log.Logger) *Discoverer {
	return &Discoverer{
		scanner: NewScanner(skipDirs),
		parser:  NewParser(),
		filter:  NewFilter(),
		logger:  logger,
	}
}

// Options controls a single discovery
type Options struct {
	NameFilter string                 // Wildcard pattern narrowing the loaded files
	Method     domain.DiscoveryMethod // Discovery method recorded on the set
	MaxCases   int                    // Loaded case ceiling, 0 disables the check
}

// Discover scans root and returns the discovered test set. AllTestCases holds
// every case under root, LoadedTestCases only those in files matching the
// name filter.
func (d *Discoverer) Discover(root string, opts Options) (*domain.DiscoveredTestSet, error) {
	files, err := d.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	loadedFiles := make(map[string]bool)
	for _, f := range d.filter.FilterByName(files, opts.NameFilter) {
		loadedFiles[f] = true
	}

	set := &domain.DiscoveredTestSet{
		AssemblyPath: root,
		Method:       opts.Method,
	}

	for _, path := range files {
		file, err := d.parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cases := file.TestCases()
		set.AllTestCases = append(set.AllTestCases, cases...)
		if loadedFiles[path] {
			set.LoadedTestCases = append(set.LoadedTestCases, cases...)
		}
	}

	if opts.MaxCases > 0 && len(set.LoadedTestCases) > opts.MaxCases {
		set.AboveLimit = true
		d.logger.Debug("Loaded test cases above limit",
			"loaded", len(set.LoadedTestCases), "limit", opts.MaxCases)
	}

	set.TestConverter = NewCaseConverter(set.AllTestCases)
	set.TestConverterForXML = XMLConverter{}

	d.logger.Info("Discovered test cases",
		"assembly", filepath.Base(root),
		"files", len(files),
		"cases", len(set.AllTestCases),
		"loaded", len(set.LoadedTestCases),
		"method", opts.Method)

	return set, nil
}

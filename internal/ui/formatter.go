package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"husky/internal/config"
	"husky/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, out io.Writer) *Formatter {
	return &Formatter{config: cfg, out: out}
}

// PrintSummary displays the statistics of a saved run and a tree of its failures
func (f *Formatter) PrintSummary(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprintln(f.out)
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Execution Statistics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Value", Align: text.AlignRight},
	})
	t.AppendRows([]table.Row{
		{"Strategy", meta.Strategy},
		{"Total Tests", meta.TotalTests},
		{"Passed", color.GreenString("%d", meta.PassedTests)},
		{"Failed", color.RedString("%d", meta.FailedTests)},
		{"Skipped", color.YellowString("%d", meta.SkippedTests)},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Workers", meta.Workers},
		{"Run ID", meta.RunID},
		{"Timestamp", meta.Timestamp},
	})
	t.Render()

	fmt.Fprintln(f.out)
	if meta.FailedTests == 0 {
		fmt.Fprintln(f.out, color.GreenString("✓ All tests passed!"))
		return
	}
	fmt.Fprintln(f.out, color.RedString("✗ %d test case(s) failed", meta.FailedTests))
	fmt.Fprintln(f.out)
	f.printFailedTestsTree(output.Details)
}

// printFailedTestsTree prints failures grouped under their files
func (f *Formatter) printFailedTestsTree(failures []domain.TestFailure) {
	byFile := make(map[string][]domain.TestFailure)
	for _, failure := range failures {
		byFile[failure.FilePath] = append(byFile[failure.FilePath], failure)
	}

	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for i, file := range files {
		lastFile := i == len(files)-1
		name := f.relative(file)
		if name == "" {
			name = "(unknown file)"
		}
		fmt.Fprintln(f.out, color.YellowString("%s %s", branch(lastFile), name))

		cases := byFile[file]
		for j, failure := range cases {
			line := failure.TestName
			if msg := firstLine(failure.Message); msg != "" {
				line += color.HiBlackString("  %s", msg)
			}
			fmt.Fprintf(f.out, "%s%s %s\n", indent(lastFile), branch(j == len(cases)-1), color.New(color.FgRed).Sprint(line))
		}
	}
}

// PrintTestList prints the loaded test files, optionally with their cases.
// Files whose key is in failedKeys (from the last run) are marked [F].
func (f *Formatter) PrintTestList(set *domain.DiscoveredTestSet, showTestCases bool, failedKeys map[string]struct{}) {
	files, byFile := groupByFile(set.LoadedTestCases)

	fmt.Fprintln(f.out, color.GreenString("Found %d test case(s) in %d file(s)", len(set.LoadedTestCases), len(files)))

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	header := table.Row{"File", "Tests", "Status"}
	if showTestCases {
		header = table.Row{"File", "Test Case", "Groups", "Status"}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "File", AutoMerge: showTestCases},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Test Case", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, file := range files {
		status := ""
		if _, ok := failedKeys[FailureKey(f.config.ProjectPath, file)]; ok {
			status = color.RedString("[F]")
		}
		cases := byFile[file]
		if !showTestCases {
			t.AppendRow(table.Row{f.relative(file), len(cases), status})
			continue
		}
		for i, tc := range cases {
			prefix := "├─"
			if i == len(cases)-1 {
				prefix = "└─"
			}
			t.AppendRow(table.Row{f.relative(file), prefix + " " + tc.Name, strings.Join(tc.Categories, ", "), status})
		}
	}
	t.Render()
}

func groupByFile(cases []domain.TestCase) ([]string, map[string][]domain.TestCase) {
	var files []string
	byFile := make(map[string][]domain.TestCase)
	for _, tc := range cases {
		if _, ok := byFile[tc.FilePath]; !ok {
			files = append(files, tc.FilePath)
		}
		byFile[tc.FilePath] = append(byFile[tc.FilePath], tc)
	}
	return files, byFile
}

// FailureKey normalizes a test file path for matching list entries to saved failures
func FailureKey(projectPath, path string) string {
	p := path
	if projectPath != "" {
		if rel, err := filepath.Rel(projectPath, path); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, ".php")
	return strings.ToLower(p)
}

func (f *Formatter) relative(path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(f.config.ProjectPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func branch(last bool) string {
	if last {
		return "└──"
	}
	return "├──"
}

func indent(lastParent bool) string {
	if lastParent {
		return "    "
	}
	return "│   "
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

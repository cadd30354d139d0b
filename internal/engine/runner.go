package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"husky/internal/domain"
	"husky/internal/parser"
)

// ExecCommandFunc creates an exec.Cmd; replaced in tests
type ExecCommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// Runner executes a single PHPUnit test case
type Runner struct {
	command      string
	projectPath  string
	databaseName func(workerID int) string
	parser       parser.Parser
	execCommand  ExecCommandFunc
}

// NewRunner creates a new Runner invoking command from projectPath
func NewRunner(command, projectPath string, databaseName func(int) string, p parser.Parser) *Runner {
	return &Runner{
		command:      command,
		projectPath:  projectPath,
		databaseName: databaseName,
		parser:       p,
		execCommand:  exec.CommandContext,
	}
}

// FilterPattern returns the --filter regex selecting exactly one test method,
// including its data-set variants
func FilterPattern(tc domain.TestCase) string {
	return "/::" + regexp.QuoteMeta(tc.Name) + `( with data set .*)?$/`
}

// PHPUnitName returns the name PHPUnit prints for a case, e.g. Tests\Unit\UserTest::testCreate
func PHPUnitName(tc domain.TestCase) string {
	return strings.ReplaceAll(tc.ClassName, ".", `\`) + "::" + tc.Name
}

// Run executes PHPUnit for a single test case and converts the outcome into an event
func (r *Runner) Run(ctx context.Context, tc domain.TestCase, workerID int) domain.TestEvent {
	args := []string{"--filter", FilterPattern(tc), tc.FilePath}
	cmd := r.execCommand(ctx, r.command, args...)

	// Set environment variables
	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	if r.databaseName != nil {
		cmd.Env = append(cmd.Env, fmt.Sprintf("DB_DATABASE=%s", r.databaseName(workerID)))
	}
	cmd.Dir = r.projectPath

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	err := cmd.Run()
	end := time.Now()

	output := buf.String()
	event := domain.TestEvent{
		FullName:  tc.FullyQualifiedName,
		Name:      tc.Name,
		ClassName: tc.ClassName,
		Duration:  end.Sub(start),
		StartTime: start,
		EndTime:   end,
		Output:    splitLines(output),
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		event.Outcome = domain.OutcomeFailed
		event.Label = "Error"
		event.Message = fmt.Sprintf("failed to run %s: %v", r.command, err)
		return event
	}

	event.Outcome, event.Label = r.parser.Outcome(output, err == nil)
	if event.Outcome == domain.OutcomeFailed {
		failure := r.parser.ParseFailure(output, PHPUnitName(tc))
		event.Message = failure.Message
		event.StackTrace = strings.Join(failure.StackTrace, "\n")
	}
	return event
}

func splitLines(output string) []string {
	output = strings.TrimRight(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}

package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNoResultFile is returned when a container run left no result file behind
var ErrNoResultFile = errors.New("no result file produced by container run")

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Option configures a Runner
type Option func(*Runner)

// WithExecCommand replaces exec.CommandContext
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *Runner) {
		r.execCommand = fn
	}
}

// Runner drives the container runtime CLI
type Runner struct {
	cfg         Config
	execCommand ExecCommandFunc
	logger      *log.Logger
}

// NewRunner creates a Runner for the given configuration
func NewRunner(cfg Config, logger *log.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:         cfg,
		execCommand: exec.CommandContext,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the runner's configuration
func (r *Runner) Config() Config {
	return r.cfg
}

// CommandResult is the buffered outcome of one runtime invocation
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandError is returned when a command that must succeed exits non-zero
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command execution failed: %s (in %s) exited with %d: %s", e.Command, e.Dir, e.ExitCode, e.Stderr)
}

// BuildImage builds the test image using contextDir as build context.
// Any failure is fatal for the run.
func (r *Runner) BuildImage(ctx context.Context, contextDir string) error {
	_, err := r.execute(ctx, contextDir, r.BuildArgs(), true)
	return err
}

// RunTests runs the test container and blocks until it exits. A non-zero
// exit is logged and reported in the result, not returned as an error:
// failing tests legitimately make the container exit non-zero.
func (r *Runner) RunTests(ctx context.Context, spec RunSpec) (*CommandResult, error) {
	return r.execute(ctx, spec.AssemblyDir, r.RunArgs(spec), false)
}

func (r *Runner) execute(ctx context.Context, dir string, args []string, validate bool) (*CommandResult, error) {
	line := r.CommandLine(args)

	cmd := r.execCommand(ctx, r.cfg.Binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", line, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}

	r.logger.Debug("Ran container command", "command", line, "dir", dir, "elapsed", result.Duration, "stdout_bytes", len(result.Stdout))

	if result.ExitCode != 0 {
		if validate {
			return result, &CommandError{
				Command:  line,
				Dir:      dir,
				ExitCode: result.ExitCode,
				Stdout:   result.Stdout,
				Stderr:   result.Stderr,
			}
		}
		r.logger.Warn("Command returned nonzero exit code", "command", line, "exit_code", result.ExitCode, "stderr", result.Stderr)
	}
	return result, nil
}

// PrepareResultsDir creates (or reuses) the host result directory under assemblyDir
func (r *Runner) PrepareResultsDir(assemblyDir string) (string, error) {
	dir, err := filepath.Abs(filepath.Join(assemblyDir, r.cfg.ResultsFolder))
	if err != nil {
		return "", fmt.Errorf("resolve results dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	return dir, nil
}

// ResultFile returns the XML result file a container run left in dir. Other
// files (dumps, logs) are ignored. No XML file is ErrNoResultFile; when
// several exist the most recently modified one wins.
func (r *Runner) ResultFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read results dir: %w", err)
	}

	var newest string
	var newestMod time.Time
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		count++
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, entry.Name())
			newestMod = info.ModTime()
		}
	}

	if count == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoResultFile, dir)
	}
	if count > 1 {
		r.logger.Warn("Multiple result files found, using the most recent", "dir", dir, "count", count, "file", newest)
	}
	return newest, nil
}

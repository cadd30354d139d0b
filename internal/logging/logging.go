// Package logging builds the structured logger used across husky.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Options configures New
type Options struct {
	Level   string    // debug, info, warn, error
	File    string    // optional flat log file, appended to
	Console io.Writer // defaults to os.Stderr
	Prefix  string
}

// New returns a logger writing to the console and, when Options.File is set,
// to a flat log file. The returned close function releases the file.
func New(opts Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	out := console
	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(console, f)
		closeFn = f.Close
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "husky"
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	if opts.File != "" {
		logger.Debug("Logging to file system", "path", opts.File)
	}
	return logger, closeFn, nil
}

// Package dump collects a plain-text trace of how a run resolved its filter
// and writes it next to the XML results when execution dumping is enabled.
package dump

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"husky/internal/filter"
)

// FilePrefix is prepended to the assembly name of every dump file
const FilePrefix = "D_"

// File buffers dump entries for one assembly
type File struct {
	mu       sync.Mutex
	dir      string
	assembly string
	buf      strings.Builder
	now      func() time.Time
}

// New creates a dump for assemblyPath that is written into dir on Close
func New(dir, assemblyPath string) *File {
	return &File{
		dir:      dir,
		assembly: filepath.Base(assemblyPath),
		now:      time.Now,
	}
}

// StartExecution opens an execution section and records the filter in effect
func (d *File) StartExecution(f *filter.Filter, note string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(&d.buf, "Execution started %s %s\n", d.now().Format(time.RFC3339), note)
	fmt.Fprintf(&d.buf, "Filter: %s\n", describe(f))
}

// AddString appends raw text
func (d *File) AddString(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.WriteString(s)
}

// DumpFilter records a filter under a note
func (d *File) DumpFilter(f *filter.Filter, note string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(&d.buf, "Filter %s: %s\n", note, describe(f))
}

// Path is the file Close writes to
func (d *File) Path() string {
	return filepath.Join(d.dir, FilePrefix+d.assembly+".dump")
}

// String returns everything recorded so far
func (d *File) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.String()
}

// Close writes the buffered entries to Path
func (d *File) Close() error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}
	if err := os.WriteFile(d.Path(), []byte(d.String()), 0644); err != nil {
		return fmt.Errorf("failed to write dump file: %w", err)
	}
	return nil
}

func describe(f *filter.Filter) string {
	if f == nil {
		return "<nil>"
	}
	return f.String()
}

package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TestFileSuffix marks PHPUnit test files
const TestFileSuffix = "Test.php"

// Scanner scans for test files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all test files under root, sorted by path.
// A root pointing at a single test file yields just that file.
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", root)
	}
	if !info.IsDir() {
		if !strings.HasSuffix(info.Name(), ".php") {
			return nil, fmt.Errorf("test path is not a directory or PHP file: %s", root)
		}
		return []string{root}, nil
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") || s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasSuffix(d.Name(), TestFileSuffix) {
			testfiles = append(testfiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(testfiles)
	return testfiles, nil
}

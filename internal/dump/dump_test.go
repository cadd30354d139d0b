package dump

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"husky/internal/filter"
)

func TestFile_Entries(t *testing.T) {
	d := New(t.TempDir(), "/app/tests")
	d.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	f, err := filter.Parse("FullyQualifiedName=Tests.UserTest.testA")
	require.NoError(t, err)

	d.AddString("\n\nExternalFilter: Category=fast\n")
	d.DumpFilter(filter.Empty, "(At Execution (ExternalFilter))")
	d.StartExecution(f, "(At Execution)")

	expected := "\n\nExternalFilter: Category=fast\n" +
		"Filter (At Execution (ExternalFilter)): <empty>\n" +
		"Execution started 2024-05-01T10:00:00Z (At Execution)\n" +
		"Filter: " + f.String() + "\n"
	assert.Equal(t, expected, d.String())
}

func TestFile_NilFilter(t *testing.T) {
	d := New(t.TempDir(), "tests")
	d.DumpFilter(nil, "x")
	assert.Equal(t, "Filter x: <nil>\n", d.String())
}

func TestFile_Close(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "xml")
	d := New(dir, "/app/tests")
	d.AddString("hello\n")

	require.NoError(t, d.Close())
	assert.Equal(t, filepath.Join(dir, "D_tests.dump"), d.Path())

	data, err := os.ReadFile(d.Path())
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}
